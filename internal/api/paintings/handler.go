package paintings

import (
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"artfolio/database"
	"artfolio/internal/domain/paintings"
	"artfolio/internal/infra/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is the image storage used by the upload handlers. main wires the
// local filesystem implementation; tests may swap it.
var Store storage.Storage

// ------------------------------
// GET /api/paintings
// ------------------------------
func ListPaintings(c *gin.Context) {
	var rows []paintings.Painting
	err := database.DB.
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load paintings"})
		return
	}

	c.JSON(http.StatusOK, rows)
}

// ------------------------------
// POST /api/admin/paintings  (multipart/form-data)
// ------------------------------
func CreatePainting(c *gin.Context) {
	form := formFromRequest(c.PostForm)
	year, featured, msg := form.validate()
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Image is required"})
		return
	}
	if msg := validateImage(header); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return
	}

	imageURL, err := saveImage(c, header)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to store image"})
		return
	}

	row := paintings.Painting{
		Title:        form.Title,
		Year:         year,
		Medium:       form.Medium,
		Size:         form.Size,
		Description:  form.Description,
		Availability: form.Availability,
		Tags:         form.Tags,
		Featured:     featured,
		ImageURL:     imageURL,
	}

	if err := database.DB.Create(&row).Error; err != nil {
		// keep the store consistent with the failed insert
		_ = Store.Delete(c.Request.Context(), keyFromURL(imageURL))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create painting"})
		return
	}

	c.JSON(http.StatusCreated, row)
}

// ------------------------------
// PUT /api/admin/paintings/:id  (multipart/form-data, image optional)
// ------------------------------
func UpdatePainting(c *gin.Context) {
	id := c.Param("id")

	var row paintings.Painting
	if err := database.DB.First(&row, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Painting not found"})
		return
	}

	form := formFromRequest(c.PostForm)
	year, featured, msg := form.validate()
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return
	}

	oldImageURL := ""
	if header, err := c.FormFile("image"); err == nil {
		if msg := validateImage(header); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": msg})
			return
		}
		imageURL, err := saveImage(c, header)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to store image"})
			return
		}
		oldImageURL = row.ImageURL
		row.ImageURL = imageURL
	}

	row.Title = form.Title
	row.Year = year
	row.Medium = form.Medium
	row.Size = form.Size
	row.Description = form.Description
	row.Availability = form.Availability
	row.Tags = form.Tags
	row.Featured = featured

	if err := database.DB.Save(&row).Error; err != nil {
		// keep the store consistent with the failed update
		if oldImageURL != "" {
			_ = Store.Delete(c.Request.Context(), keyFromURL(row.ImageURL))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update painting"})
		return
	}

	if oldImageURL != "" {
		_ = Store.Delete(c.Request.Context(), keyFromURL(oldImageURL))
	}

	c.JSON(http.StatusOK, row)
}

// ------------------------------
// DELETE /api/admin/paintings/:id
// ------------------------------
func DeletePainting(c *gin.Context) {
	id := c.Param("id")

	var row paintings.Painting
	if err := database.DB.First(&row, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Painting not found"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Delete(&paintings.Painting{}, "id = ?", id).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete painting"})
		return
	}

	_ = Store.Delete(c.Request.Context(), keyFromURL(row.ImageURL))

	c.Status(http.StatusNoContent)
}

func saveImage(c *gin.Context, header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	key := path.Join("paintings", uuid.NewString()+ext)
	return Store.Save(c.Request.Context(), key, file)
}

func keyFromURL(imageURL string) string {
	return strings.TrimPrefix(imageURL, "/uploads/")
}
