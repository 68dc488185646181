package messages

import "time"

type ContactMessage struct {
	ID string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	Name    string `gorm:"not null" json:"name"`
	Email   string `gorm:"not null" json:"email"`
	Subject string `json:"subject"`
	Message string `gorm:"not null" json:"message"`

	CreatedAt time.Time `json:"createdAt"`
}
