package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
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

// CreatorController serves creator-facing analytics and monetization state.
// All numbers are aggregated from the caller's own posts.
type CreatorController struct {
	DB     *mongo.Client
	logger *log.Logger
}

// NewCreatorController creates a new creator controller
func NewCreatorController(db *mongo.Client) *CreatorController {
	return &CreatorController{
		DB:     db,
		logger: log.New(os.Stdout, "[CREATOR] ", log.LstdFlags),
	}
}

// aggregateTotals sums counters across the user's posts with one pipeline.
func (crc *CreatorController) aggregateTotals(ctx context.Context, userID primitive.ObjectID) (*models.CreatorAnalytics, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"totalPosts":    bson.M{"$sum": 1},
			"totalLikes":    bson.M{"$sum": "$likeCount"},
			"totalComments": bson.M{"$sum": "$commentCount"},
			"totalShares":   bson.M{"$sum": "$shareCount"},
		}}},
	}

	cursor, err := config.GetCollection(crc.DB, "posts").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	analytics := &models.CreatorAnalytics{}

	var results []struct {
		TotalPosts    int `bson:"totalPosts"`
		TotalLikes    int `bson:"totalLikes"`
		TotalComments int `bson:"totalComments"`
		TotalShares   int `bson:"totalShares"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if len(results) > 0 {
		analytics.TotalPosts = results[0].TotalPosts
		analytics.TotalLikes = results[0].TotalLikes
		analytics.TotalComments = results[0].TotalComments
		analytics.TotalShares = results[0].TotalShares
		analytics.TotalEngagement = analytics.TotalLikes + analytics.TotalComments + analytics.TotalShares
	}

	var user models.User
	if err := config.GetCollection(crc.DB, "users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err == nil {
		analytics.FollowerCount = len(user.Followers)
	}

	return analytics, nil
}

// GetAnalytics returns the creator's overall totals.
func (crc *CreatorController) GetAnalytics(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	analytics, err := crc.aggregateTotals(ctx, userID)
	if err != nil {
		crc.logger.Printf("Error aggregating analytics for %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch analytics",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Analytics retrieved successfully",
		Data:    analytics,
	})
}

// GetPostAnalytics returns the per-post breakdown, highest engagement first.
func (crc *CreatorController) GetPostAnalytics(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(50)
	cursor, err := config.GetCollection(crc.DB, "posts").Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		crc.logger.Printf("Error fetching posts for analytics: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch post analytics",
		})
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode posts",
		})
	}

	breakdown := make([]models.PostAnalytics, 0, len(posts))
	for _, p := range posts {
		breakdown = append(breakdown, models.PostAnalytics{
			PostID:          p.ID,
			Content:         p.Content,
			LikeCount:       p.LikeCount,
			CommentCount:    p.CommentCount,
			ShareCount:      p.ShareCount,
			TotalEngagement: p.LikeCount + p.CommentCount + p.ShareCount,
			CreatedAt:       p.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Post analytics retrieved successfully",
		Data:    breakdown,
	})
}

// GetSinglePostAnalytics returns the breakdown for one of the caller's posts.
// Posts owned by other users read as not found.
func (crc *CreatorController) GetSinglePostAnalytics(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid post ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.Post
	err = config.GetCollection(crc.DB, "posts").FindOne(ctx, bson.M{"_id": postID, "userId": userID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Post not found",
			})
		}
		crc.logger.Printf("Error fetching post %s analytics: %v", postID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch post analytics",
		})
	}

	analytics := models.PostAnalytics{
		PostID:          post.ID,
		Content:         post.Content,
		LikeCount:       post.LikeCount,
		CommentCount:    post.CommentCount,
		ShareCount:      post.ShareCount,
		TotalEngagement: post.LikeCount + post.CommentCount + post.ShareCount,
		CreatedAt:       post.CreatedAt,
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Post analytics retrieved successfully",
		Data:    analytics,
	})
}

// GetTopPosts returns the creator's best performing posts by like count.
func (crc *CreatorController) GetTopPosts(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "likeCount", Value: -1}, {Key: "createdAt", Value: -1}}).
		SetLimit(10)
	cursor, err := config.GetCollection(crc.DB, "posts").Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		crc.logger.Printf("Error fetching top posts for %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch top posts",
		})
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode posts",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Top posts retrieved successfully",
		Data:    posts,
	})
}

// GetAudienceStats returns engagement averages across the creator's posts.
func (crc *CreatorController) GetAudienceStats(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	analytics, err := crc.aggregateTotals(ctx, userID)
	if err != nil {
		crc.logger.Printf("Error aggregating audience stats for %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch audience stats",
		})
	}

	stats := models.AudienceStats{
		TotalPosts:    analytics.TotalPosts,
		TotalLikes:    analytics.TotalLikes,
		TotalComments: analytics.TotalComments,
		TotalShares:   analytics.TotalShares,
	}
	if stats.TotalPosts > 0 {
		stats.AverageEngagement = float64(analytics.TotalEngagement) / float64(stats.TotalPosts)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Audience stats retrieved successfully",
		Data:    stats,
	})
}

// EnableMonetization opts the creator into monetization, storing payout
// details.
func (crc *CreatorController) EnableMonetization(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	var req models.EnableMonetizationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	monetizationCollection := config.GetCollection(crc.DB, "monetization")

	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"isMonetized":   true,
			"bankAccount":   req.BankAccount,
			"paymentMethod": req.PaymentMethod,
			"updatedAt":     now,
		},
		"$setOnInsert": bson.M{
			"userId":        userID,
			"totalEarnings": 0.0,
			"createdAt":     now,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := monetizationCollection.UpdateOne(ctx, bson.M{"userId": userID}, update, opts); err != nil {
		crc.logger.Printf("Error enabling monetization for %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to enable monetization",
		})
	}

	var monetization models.Monetization
	if err := monetizationCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&monetization); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch monetization state",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Monetization enabled successfully",
		Data:    monetization,
	})
}

// GetMonetization returns the creator's monetization state.
func (crc *CreatorController) GetMonetization(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var monetization models.Monetization
	err = config.GetCollection(crc.DB, "monetization").FindOne(ctx, bson.M{"userId": userID}).Decode(&monetization)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// Not opted in yet
			return c.JSON(http.StatusOK, models.Response{
				Status:  http.StatusOK,
				Message: "Monetization state retrieved successfully",
				Data: models.Monetization{
					UserID:      userID,
					IsMonetized: false,
				},
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch monetization state",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Monetization state retrieved successfully",
		Data:    monetization,
	})
}
