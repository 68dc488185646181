package paintings

import (
	"mime/multipart"
	"strconv"
	"strings"

	"artfolio/internal/domain/paintings"
)

const (
	// MaxImageSize caps painting uploads at 10 MiB, matching the
	// client-side check so the two never disagree.
	MaxImageSize = 10 << 20

	YearMin = 1900
	YearMax = 2030
)

// PaintingForm holds the scalar multipart fields of a painting submission.
// All values arrive as text; Parse* helpers normalize them.
type PaintingForm struct {
	Title        string
	Year         string
	Medium       string
	Size         string
	Description  string
	Availability string
	Tags         string
	Featured     string
}

func formFromRequest(get func(string) string) PaintingForm {
	return PaintingForm{
		Title:        strings.TrimSpace(get("title")),
		Year:         strings.TrimSpace(get("year")),
		Medium:       strings.TrimSpace(get("medium")),
		Size:         strings.TrimSpace(get("size")),
		Description:  strings.TrimSpace(get("description")),
		Availability: strings.TrimSpace(get("availability")),
		Tags:         strings.TrimSpace(get("tags")),
		Featured:     strings.TrimSpace(get("featured")),
	}
}

// validate re-checks every client-side rule on the server. Returns the
// first offending field's message, or the parsed year on success.
func (f PaintingForm) validate() (year int, featured bool, msg string) {
	if f.Title == "" {
		return 0, false, "Title is required"
	}
	year, err := strconv.Atoi(f.Year)
	if err != nil {
		return 0, false, "Year must be a number"
	}
	if year < YearMin || year > YearMax {
		return 0, false, "Year must be between 1900 and 2030"
	}
	if f.Medium == "" {
		return 0, false, "Medium is required"
	}
	if f.Size == "" {
		return 0, false, "Size is required"
	}
	if !paintings.IsValidAvailability(f.Availability) {
		return 0, false, "Availability must be one of: available, sold, not-for-sale"
	}
	// featured defaults to false when absent or unparsable
	featured, _ = strconv.ParseBool(f.Featured)
	return year, featured, ""
}

// validateImage checks the multipart image part against the upload limits.
func validateImage(header *multipart.FileHeader) string {
	if header.Size > MaxImageSize {
		return "Image must be 10 MB or smaller"
	}
	ct := header.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		return "File must be an image"
	}
	return ""
}
