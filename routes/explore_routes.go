package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/nexora-app/nexora_backend/controllers"
	"github.com/nexora-app/nexora_backend/middleware"
)

// RegisterExploreRoutes sets up the explore surface and search
func RegisterExploreRoutes(e *echo.Echo, exploreController *controllers.ExploreController, searchController *controllers.SearchController) {
	e.GET("/api/explore/trends", exploreController.GetTrends)
	e.GET("/api/explore/topics", exploreController.GetTopics)
	e.GET("/api/explore/popular", exploreController.GetPopularPosts)
	e.GET("/api/explore/suggested-people", exploreController.GetSuggestedPeople, middleware.JWTMiddleware())

	e.GET("/api/search", searchController.Search)
	e.GET("/api/search/trending", searchController.GetTrendingHashtags)
	e.GET("/api/search/autocomplete", searchController.Autocomplete)
}
