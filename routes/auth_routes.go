package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/nexora-app/nexora_backend/controllers"
)

// RegisterAuthRoutes sets up the public authentication routes
func RegisterAuthRoutes(e *echo.Echo, authController *controllers.AuthController) {
	e.POST("/api/auth/register", authController.Register)
	e.POST("/api/auth/login", authController.Login)
	e.GET("/api/auth/verify", authController.VerifyToken)
}
