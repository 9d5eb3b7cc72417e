package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/nexora-app/nexora_backend/controllers"
	"github.com/nexora-app/nexora_backend/middleware"
)

// RegisterCreatorRoutes sets up creator analytics and monetization
func RegisterCreatorRoutes(e *echo.Echo, creatorController *controllers.CreatorController) {
	creator := e.Group("/api/creator", middleware.JWTMiddleware())
	creator.GET("/analytics", creatorController.GetAnalytics)
	creator.GET("/analytics/posts", creatorController.GetPostAnalytics)
	creator.GET("/analytics/posts/:id", creatorController.GetSinglePostAnalytics)
	creator.GET("/analytics/top-posts", creatorController.GetTopPosts)
	creator.GET("/analytics/audience", creatorController.GetAudienceStats)
	creator.GET("/monetization", creatorController.GetMonetization)
	creator.POST("/monetization/enable", creatorController.EnableMonetization)
}
