package main

import (
	"log"
	"time"

	"artfolio/config"
	"artfolio/database"
	paintingsapi "artfolio/internal/api/paintings"
	routes "artfolio/internal/app/http"
	"artfolio/internal/infra/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()
	database.InitDB()

	if err := database.SeedAdmin(config.ADMIN_EMAIL, config.ADMIN_PASSWORD); err != nil {
		log.Fatal("❌ Failed to seed admin user:", err)
	}

	paintingsapi.Store = storage.NewLocalStorage(config.UPLOAD_DIR, "/uploads")

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Static("/uploads", config.UPLOAD_DIR)

	routes.RegisterRoutes(r)

	r.Run(":" + config.PORT)
}
