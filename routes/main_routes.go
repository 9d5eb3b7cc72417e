package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nexora-app/nexora_backend/controllers"
)

// SetupRoutes configures all API routes by calling individual route
// registration functions
func SetupRoutes(e *echo.Echo, db *mongo.Client, redisClient *redis.Client) {
	authController := controllers.NewAuthController(db)
	userController := controllers.NewUserController(db)
	postController := controllers.NewPostController(db)
	commentController := controllers.NewCommentController(db)
	notificationController := controllers.NewNotificationController(db)
	messageController := controllers.NewMessageController(db)
	exploreController := controllers.NewExploreController(db, redisClient)
	searchController := controllers.NewSearchController(db)
	creatorController := controllers.NewCreatorController(db)
	assistController := controllers.NewAssistController()
	uploadController := controllers.NewUploadController()

	RegisterAuthRoutes(e, authController)
	RegisterUserRoutes(e, userController)
	RegisterPostRoutes(e, postController, commentController)
	RegisterNotificationRoutes(e, notificationController)
	RegisterMessageRoutes(e, messageController)
	RegisterExploreRoutes(e, exploreController, searchController)
	RegisterCreatorRoutes(e, creatorController)
	RegisterAssistRoutes(e, assistController)
	RegisterFileRoutes(e, uploadController)
}
