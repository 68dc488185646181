package paintings

import "time"

const (
	AvailabilityAvailable  = "available"
	AvailabilitySold       = "sold"
	AvailabilityNotForSale = "not-for-sale"
)

// Availabilities lists the accepted values for Painting.Availability.
var Availabilities = []string{AvailabilityAvailable, AvailabilitySold, AvailabilityNotForSale}

func IsValidAvailability(v string) bool {
	for _, a := range Availabilities {
		if v == a {
			return true
		}
	}
	return false
}

type Painting struct {
	ID string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	Title        string `gorm:"not null" json:"title"`
	Year         int    `gorm:"not null" json:"year"`
	Medium       string `gorm:"not null" json:"medium"`
	Size         string `gorm:"not null" json:"size"`
	Description  string `json:"description,omitempty"`
	Availability string `gorm:"type:varchar(20);not null;default:'available'" json:"availability"`
	Tags         string `json:"tags,omitempty"`
	Featured     bool   `gorm:"not null;default:false" json:"featured"`

	// A painting row never exists without its image.
	ImageURL string `gorm:"column:image_url;not null" json:"imageUrl"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
