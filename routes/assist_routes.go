package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/nexora-app/nexora_backend/controllers"
	"github.com/nexora-app/nexora_backend/middleware"
)

// RegisterAssistRoutes sets up the content assist endpoints
func RegisterAssistRoutes(e *echo.Echo, assistController *controllers.AssistController) {
	assist := e.Group("/api/assist", middleware.JWTMiddleware())
	assist.POST("/caption", assistController.SuggestCaption)
	assist.POST("/hashtags", assistController.SuggestHashtags)
}
