package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/nexora-app/nexora_backend/controllers"
	"github.com/nexora-app/nexora_backend/middleware"
)

// RegisterFileRoutes sets up media upload and static file serving
func RegisterFileRoutes(e *echo.Echo, uploadController *controllers.UploadController) {
	e.POST("/api/upload", uploadController.UploadMedia, middleware.JWTMiddleware())

	// Uploaded media is served statically
	e.Static("/uploads", "uploads")
}
