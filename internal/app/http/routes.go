package routes

import (
	authapi "artfolio/internal/api/auth"
	contactapi "artfolio/internal/api/contact"
	paintingsapi "artfolio/internal/api/paintings"
	"artfolio/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public
	r.GET("/api/paintings", paintingsapi.ListPaintings)
	r.POST("/api/auth/login", authapi.Login)
	r.POST("/api/auth/logout", authapi.Logout)
	r.GET("/api/auth/me", authapi.Me)

	r.GET("/api/auth/google", authapi.GoogleStart)
	r.GET("/api/auth/google/callback", authapi.GoogleCallback)

	// Contact form gets input sanitization
	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())
	public.POST("/api/contact", contactapi.Submit)

	// Admin backoffice
	admin := r.Group("/api/admin")
	admin.Use(middleware.RequireAdmin())
	admin.POST("/paintings", paintingsapi.CreatePainting)
	admin.PUT("/paintings/:id", paintingsapi.UpdatePainting)
	admin.DELETE("/paintings/:id", paintingsapi.DeletePainting)
	admin.GET("/messages", contactapi.ListMessages)
}
