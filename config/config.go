package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	PORT           string
	DB_URL         string
	SESSION_SECRET string

	UPLOAD_DIR  string
	CORS_ORIGIN string

	ADMIN_EMAIL    string
	ADMIN_PASSWORD string

	GOOGLE_CLIENT_ID     string
	GOOGLE_CLIENT_SECRET string
	GOOGLE_REDIRECT_URL  string
	ADMIN_REDIRECT_URL   string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	SESSION_SECRET = mustEnv("SESSION_SECRET")

	UPLOAD_DIR = getEnv("UPLOAD_DIR", "./uploads")
	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:5173")

	ADMIN_EMAIL = mustEnv("ADMIN_EMAIL")
	ADMIN_PASSWORD = mustEnv("ADMIN_PASSWORD")

	// Optional: Google sign-in for the backoffice.
	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	GOOGLE_CLIENT_SECRET = getEnv("GOOGLE_CLIENT_SECRET", "")
	GOOGLE_REDIRECT_URL = getEnv("GOOGLE_REDIRECT_URL", "")
	ADMIN_REDIRECT_URL = getEnv("ADMIN_REDIRECT_URL", "")
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
