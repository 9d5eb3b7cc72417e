package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/nexora-app/nexora_backend/controllers"
	"github.com/nexora-app/nexora_backend/middleware"
)

// RegisterUserRoutes sets up profile and follow-graph routes
func RegisterUserRoutes(e *echo.Echo, userController *controllers.UserController) {
	// Public profile reads
	e.GET("/api/users/:id", userController.GetUser)
	e.GET("/api/users/:id/followers", userController.GetFollowers)
	e.GET("/api/users/:id/following", userController.GetFollowing)
	e.GET("/api/users/:id/qrcode", userController.GetProfileQRCode)

	// Authenticated profile and follow actions
	protected := e.Group("/api/users", middleware.JWTMiddleware())
	protected.GET("/me", userController.GetMe)
	protected.PUT("/me", userController.UpdateProfile)
	protected.PUT("/:id", userController.UpdateProfile)
	protected.POST("/:id/follow", userController.FollowUser)
	protected.DELETE("/:id/follow", userController.UnfollowUser)
}
