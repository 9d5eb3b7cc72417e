package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/nexora-app/nexora_backend/controllers"
	"github.com/nexora-app/nexora_backend/middleware"
)

// RegisterPostRoutes sets up post, feed and comment routes
func RegisterPostRoutes(e *echo.Echo, postController *controllers.PostController, commentController *controllers.CommentController) {
	// Public reads
	e.GET("/api/posts", postController.ListPosts)
	e.GET("/api/posts/:id", postController.GetPost)
	e.GET("/api/posts/:postId/comments", commentController.GetPostComments)
	e.GET("/api/users/:id/posts", postController.GetUserPosts)

	// Authenticated post actions
	posts := e.Group("/api/posts", middleware.JWTMiddleware())
	posts.POST("", postController.CreatePost)
	posts.GET("/feed", postController.GetFeed)
	posts.PUT("/:id", postController.UpdatePost)
	posts.DELETE("/:id", postController.DeletePost)
	posts.POST("/:id/like", postController.LikePost)
	posts.POST("/:id/share", postController.SharePost)

	// Authenticated comment actions
	comments := e.Group("/api/comments", middleware.JWTMiddleware())
	comments.POST("", commentController.CreateComment)
	comments.PUT("/:id", commentController.UpdateComment)
	comments.DELETE("/:id", commentController.DeleteComment)
	comments.POST("/:id/react", commentController.ReactToComment)
}
