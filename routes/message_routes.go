package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/nexora-app/nexora_backend/controllers"
	"github.com/nexora-app/nexora_backend/middleware"
)

// RegisterMessageRoutes sets up direct and group messaging
func RegisterMessageRoutes(e *echo.Echo, messageController *controllers.MessageController) {
	messages := e.Group("/api/messages", middleware.JWTMiddleware())
	messages.POST("/direct", messageController.SendDirectMessage)
	messages.GET("/conversations", messageController.GetConversations)
	messages.GET("/conversations/:conversationId", messageController.GetConversation)
	messages.PUT("/conversations/:conversationId/read", messageController.MarkConversationRead)
	messages.GET("/search", messageController.SearchMessages)
	messages.POST("/groups", messageController.CreateGroup)
	messages.GET("/groups", messageController.GetGroups)
	messages.POST("/groups/:groupId/messages", messageController.SendGroupMessage)
}
