package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nexora-app/nexora_backend/config"
	"github.com/nexora-app/nexora_backend/models"
	"github.com/nexora-app/nexora_backend/utils"
)

const searchResultLimit = 20

// SearchController runs case-insensitive substring search over users and
// posts. Search terms are regex-escaped so they match literally.
type SearchController struct {
	DB     *mongo.Client
	logger *log.Logger
}

// NewSearchController creates a new search controller
func NewSearchController(db *mongo.Client) *SearchController {
	return &SearchController{
		DB:     db,
		logger: log.New(os.Stdout, "[SEARCH] ", log.LstdFlags),
	}
}

// Search handles GET /api/search?q=term&type=users|posts|hashtags|all
func (sc *SearchController) Search(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if len(query) < 2 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Search query must be at least 2 characters",
		})
	}

	searchType := c.QueryParam("type")
	if searchType == "" {
		searchType = "all"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	data := map[string]interface{}{}

	if searchType == "users" || searchType == "all" {
		users, err := sc.searchUsers(ctx, query)
		if err != nil {
			sc.logger.Printf("Error searching users: %v", err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Search failed",
			})
		}
		data["users"] = users
	}

	if searchType == "posts" || searchType == "all" {
		posts, err := sc.searchPosts(ctx, query)
		if err != nil {
			sc.logger.Printf("Error searching posts: %v", err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Search failed",
			})
		}
		data["posts"] = posts
	}

	if searchType == "hashtags" || searchType == "all" {
		posts, err := sc.searchHashtags(ctx, query)
		if err != nil {
			sc.logger.Printf("Error searching hashtags: %v", err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Search failed",
			})
		}
		data["hashtagPosts"] = posts
	}

	if len(data) == 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Search type must be 'users', 'posts', 'hashtags' or 'all'",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Search completed successfully",
		Data:    data,
	})
}

func (sc *SearchController) searchUsers(ctx context.Context, query string) ([]models.UserSummary, error) {
	pattern := primitive.Regex{Pattern: utils.EscapeRegex(query), Options: "i"}

	opts := options.Find().SetLimit(searchResultLimit)
	cursor, err := config.GetCollection(sc.DB, "users").Find(ctx, bson.M{
		"$or": []bson.M{
			{"username": pattern},
			{"displayName": pattern},
		},
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	summaries := make([]models.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, users[i].Summary())
	}
	return summaries, nil
}

func (sc *SearchController) searchPosts(ctx context.Context, query string) ([]models.Post, error) {
	pattern := primitive.Regex{Pattern: utils.EscapeRegex(query), Options: "i"}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(searchResultLimit)
	cursor, err := config.GetCollection(sc.DB, "posts").Find(ctx, bson.M{"content": pattern}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetTrendingHashtags handles GET /api/search/trending and returns the most
// used hashtags with their post counts.
func (sc *SearchController) GetTrendingHashtags(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$hashtags"}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$hashtags",
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: searchResultLimit}},
		{{Key: "$project", Value: bson.M{
			"_id":     0,
			"hashtag": "$_id",
			"count":   1,
		}}},
	}

	cursor, err := config.GetCollection(sc.DB, "posts").Aggregate(ctx, pipeline)
	if err != nil {
		sc.logger.Printf("Error aggregating trending hashtags: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch trending hashtags",
		})
	}
	defer cursor.Close(ctx)

	trending := []bson.M{}
	if err := cursor.All(ctx, &trending); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode trending hashtags",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Trending hashtags retrieved successfully",
		Data:    map[string]interface{}{"hashtags": trending},
	})
}

// Autocomplete handles GET /api/search/autocomplete?q=prefix and returns
// username prefix matches for typeahead.
func (sc *SearchController) Autocomplete(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if len(query) < 2 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Query must be at least 2 characters",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pattern := primitive.Regex{Pattern: "^" + utils.EscapeRegex(query), Options: "i"}
	opts := options.Find().
		SetSort(bson.D{{Key: "username", Value: 1}}).
		SetLimit(10)
	cursor, err := config.GetCollection(sc.DB, "users").Find(ctx, bson.M{"username": pattern}, opts)
	if err != nil {
		sc.logger.Printf("Error autocompleting %q: %v", query, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Autocomplete failed",
		})
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Autocomplete failed",
		})
	}

	summaries := make([]models.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, users[i].Summary())
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Autocomplete completed successfully",
		Data:    map[string]interface{}{"users": summaries},
	})
}

func (sc *SearchController) searchHashtags(ctx context.Context, query string) ([]models.Post, error) {
	// Hashtags are stored lowercased without the '#'
	tag := strings.ToLower(strings.TrimPrefix(query, "#"))

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(searchResultLimit)
	cursor, err := config.GetCollection(sc.DB, "posts").Find(ctx, bson.M{"hashtags": tag}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
