package database

import (
	"fmt"
	"log"
	"os"

	"artfolio/internal/domain/messages"
	"artfolio/internal/domain/paintings"
	"artfolio/internal/domain/users"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("❌ DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}

	DB = db

	// Required for UUID generation
	if err := DB.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Fatal("❌ Failed to enable pgcrypto extension:", err)
	}

	if err := DB.AutoMigrate(
		&users.User{},
		&paintings.Painting{},
		&messages.ContactMessage{},
	); err != nil {
		log.Fatal("❌ AutoMigrate error:", err)
	}

	fmt.Println("✅ Connected and migrated successfully")
}

// SeedAdmin ensures the backoffice account from ADMIN_EMAIL / ADMIN_PASSWORD
// exists. Run after InitDB.
func SeedAdmin(email, password string) error {
	var existing users.User
	if err := DB.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	pw := string(hashed)

	admin := users.User{
		Name:         "Admin",
		Email:        email,
		Password:     &pw,
		AuthProvider: "local",
		Role:         "admin",
	}
	if err := DB.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	fmt.Println("✅ Seeded admin user:", email)
	return nil
}
