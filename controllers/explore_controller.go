package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nexora-app/nexora_backend/config"
	"github.com/nexora-app/nexora_backend/models"
	"github.com/nexora-app/nexora_backend/utils"
)

const exploreCacheTTL = 5 * time.Minute

// ExploreController serves the explore surface: curated trends and topics
// from static configuration, plus popular posts and people suggestions
// computed from live data. Computed results are cached in Redis.
type ExploreController struct {
	DB      *mongo.Client
	redis   *redis.Client
	explore models.ExploreConfig
	logger  *log.Logger
}

// NewExploreController creates a new explore controller
func NewExploreController(db *mongo.Client, redisClient *redis.Client) *ExploreController {
	return &ExploreController{
		DB:      db,
		redis:   redisClient,
		explore: config.LoadExploreConfig(),
		logger:  log.New(os.Stdout, "[EXPLORE] ", log.LstdFlags),
	}
}

// GetTrends returns the curated trend list.
func (ec *ExploreController) GetTrends(c echo.Context) error {
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Trends retrieved successfully",
		Data:    ec.explore.Trends,
	})
}

// GetTopics returns the curated topic list.
func (ec *ExploreController) GetTopics(c echo.Context) error {
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Topics retrieved successfully",
		Data:    ec.explore.Topics,
	})
}

// GetPopularPosts returns the highest-engagement posts across the platform,
// cached for a few minutes.
func (ec *ExploreController) GetPopularPosts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	const cacheKey = "explore:popular"

	if cached, ok := ec.readCache(ctx, cacheKey); ok {
		var posts []models.Post
		if err := json.Unmarshal(cached, &posts); err == nil {
			return c.JSON(http.StatusOK, models.Response{
				Status:  http.StatusOK,
				Message: "Popular posts retrieved successfully",
				Data:    posts,
			})
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "likeCount", Value: -1}, {Key: "commentCount", Value: -1}}).
		SetLimit(20)

	cursor, err := config.GetCollection(ec.DB, "posts").Find(ctx, bson.M{}, opts)
	if err != nil {
		ec.logger.Printf("Error fetching popular posts: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch popular posts",
		})
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode popular posts",
		})
	}

	ec.writeCache(ctx, cacheKey, posts)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Popular posts retrieved successfully",
		Data:    posts,
	})
}

// GetSuggestedPeople suggests accounts the user does not yet follow, most
// followed first.
func (ec *ExploreController) GetSuggestedPeople(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	usersCollection := config.GetCollection(ec.DB, "users")

	var me models.User
	if err := usersCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&me); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	exclude := append([]primitive.ObjectID{userID}, me.Following...)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": bson.M{"$nin": exclude}}}},
		{{Key: "$addFields", Value: bson.M{"followerCount": bson.M{"$size": bson.M{"$ifNull": bson.A{"$followers", bson.A{}}}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "followerCount", Value: -1}}}},
		{{Key: "$limit", Value: 10}},
	}

	cursor, err := usersCollection.Aggregate(ctx, pipeline)
	if err != nil {
		ec.logger.Printf("Error fetching suggested people: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch suggestions",
		})
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode suggestions",
		})
	}

	suggestions := make([]map[string]interface{}, 0, len(users))
	for i := range users {
		suggestions = append(suggestions, map[string]interface{}{
			"user":          users[i].Summary(),
			"followerCount": len(users[i].Followers),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Suggestions retrieved successfully",
		Data:    suggestions,
	})
}

// readCache fetches a cached payload; a nil Redis client or miss is not an
// error.
func (ec *ExploreController) readCache(ctx context.Context, key string) ([]byte, bool) {
	if ec.redis == nil {
		return nil, false
	}
	data, err := ec.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			ec.logger.Printf("Redis read error for %s: %v", key, err)
		}
		return nil, false
	}
	return data, true
}

func (ec *ExploreController) writeCache(ctx context.Context, key string, value interface{}) {
	if ec.redis == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := ec.redis.Set(ctx, key, data, exploreCacheTTL).Err(); err != nil {
		ec.logger.Printf("Redis write error for %s: %v", key, err)
	}
}
