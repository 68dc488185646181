package contact

import (
	"net/http"

	"artfolio/database"
	"artfolio/internal/domain/messages"

	"github.com/gin-gonic/gin"
)

const maxMessageLength = 5000

// POST /api/contact
//
// Public contact form. Runs behind the sanitize middleware so stored
// messages never carry markup.
func Submit(c *gin.Context) {
	var input struct {
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required,email"`
		Subject string `json:"subject"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if len([]rune(input.Message)) > maxMessageLength {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Message is too long"})
		return
	}

	row := messages.ContactMessage{
		Name:    input.Name,
		Email:   input.Email,
		Subject: input.Subject,
		Message: input.Message,
	}
	if err := database.DB.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to send message"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Message sent"})
}

// GET /api/admin/messages
//
// Newest first; the panel controller truncates for preview.
func ListMessages(c *gin.Context) {
	var rows []messages.ContactMessage
	err := database.DB.
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, rows)
}
