package controllers

import (
	"context"
	"fmt"
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

// CommentController handles comments and comment reactions.
type CommentController struct {
	DB     *mongo.Client
	logger *log.Logger
}

// NewCommentController creates a new comment controller
func NewCommentController(db *mongo.Client) *CommentController {
	return &CommentController{
		DB:     db,
		logger: log.New(os.Stdout, "[COMMENT] ", log.LstdFlags),
	}
}

// CreateComment adds a comment to a post and bumps the post's comment
// counter. Replies reference a parent comment on the same post.
func (cc *CommentController) CreateComment(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	var req models.CreateCommentRequest
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

	postID, err := primitive.ObjectIDFromHex(req.PostID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid post ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	postsCollection := config.GetCollection(cc.DB, "posts")
	commentsCollection := config.GetCollection(cc.DB, "comments")

	var post models.Post
	if err := postsCollection.FindOne(ctx, bson.M{"_id": postID}).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Post not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch post",
		})
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		PostID:    postID,
		UserID:    userID,
		Content:   utils.SanitizeInput(req.Content),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if req.ParentCommentID != "" {
		parentID, err := primitive.ObjectIDFromHex(req.ParentCommentID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid parent comment ID",
			})
		}
		var parent models.Comment
		if err := commentsCollection.FindOne(ctx, bson.M{"_id": parentID, "postId": postID}).Decode(&parent); err != nil {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Parent comment not found",
			})
		}
		comment.ParentCommentID = &parentID
	}

	if _, err := commentsCollection.InsertOne(ctx, comment); err != nil {
		cc.logger.Printf("Error inserting comment: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create comment",
		})
	}

	if _, err := postsCollection.UpdateOne(ctx, bson.M{"_id": postID},
		bson.M{"$inc": bson.M{"commentCount": 1}}); err != nil {
		cc.logger.Printf("Error incrementing comment count: %v", err)
	}

	if post.UserID != userID {
		actorName, _ := c.Get("username").(string)
		if err := utils.NotifyUser(cc.DB, post.UserID, userID, models.NotificationTypeComment,
			postID.Hex(), fmt.Sprintf("%s commented on your post", actorName)); err != nil {
			cc.logger.Printf("Failed to notify comment: %v", err)
		}
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Comment created successfully",
		Data:    comment,
	})
}

// GetPostComments lists a post's comments, oldest first so threads read top
// down.
func (cc *CommentController) GetPostComments(c echo.Context) error {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid post ID",
		})
	}

	page, limit := parsePagination(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := config.GetCollection(cc.DB, "comments").Find(ctx, bson.M{"postId": postID}, opts)
	if err != nil {
		cc.logger.Printf("Error fetching comments for post %s: %v", postID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch comments",
		})
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode comments",
		})
	}

	views, err := cc.attachAuthors(ctx, comments)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch comments",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Comments retrieved successfully",
		Data: map[string]interface{}{
			"comments": views,
			"page":     page,
			"limit":    limit,
		},
	})
}

func (cc *CommentController) attachAuthors(ctx context.Context, comments []models.Comment) ([]models.CommentView, error) {
	views := make([]models.CommentView, 0, len(comments))
	if len(comments) == 0 {
		return views, nil
	}

	idSet := make(map[primitive.ObjectID]bool)
	ids := []primitive.ObjectID{}
	for _, cm := range comments {
		if !idSet[cm.UserID] {
			idSet[cm.UserID] = true
			ids = append(ids, cm.UserID)
		}
	}

	cursor, err := config.GetCollection(cc.DB, "users").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	summaries := make(map[primitive.ObjectID]models.UserSummary, len(users))
	for i := range users {
		summaries[users[i].ID] = users[i].Summary()
	}

	for _, cm := range comments {
		view := models.CommentView{Comment: cm}
		if summary, ok := summaries[cm.UserID]; ok {
			s := summary
			view.Author = &s
		}
		views = append(views, view)
	}
	return views, nil
}

// UpdateComment edits a comment's content. Only the author may edit.
func (cc *CommentController) UpdateComment(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	commentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid comment ID",
		})
	}

	var req models.UpdateCommentRequest
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

	commentsCollection := config.GetCollection(cc.DB, "comments")

	var comment models.Comment
	if err := commentsCollection.FindOne(ctx, bson.M{"_id": commentID}).Decode(&comment); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Comment not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch comment",
		})
	}
	if comment.UserID != userID {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You can only edit your own comments",
		})
	}

	update := bson.M{
		"content":   utils.SanitizeInput(req.Content),
		"updatedAt": time.Now(),
	}
	if _, err := commentsCollection.UpdateOne(ctx, bson.M{"_id": commentID}, bson.M{"$set": update}); err != nil {
		cc.logger.Printf("Error updating comment %s: %v", commentID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update comment",
		})
	}

	if err := commentsCollection.FindOne(ctx, bson.M{"_id": commentID}).Decode(&comment); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch updated comment",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Comment updated successfully",
		Data:    comment,
	})
}

// DeleteComment removes a comment and decrements the post's comment counter.
// Only the comment author may delete.
func (cc *CommentController) DeleteComment(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	commentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid comment ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	commentsCollection := config.GetCollection(cc.DB, "comments")
	postsCollection := config.GetCollection(cc.DB, "posts")

	var comment models.Comment
	if err := commentsCollection.FindOne(ctx, bson.M{"_id": commentID}).Decode(&comment); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Comment not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch comment",
		})
	}

	if comment.UserID != userID {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You can only delete your own comments",
		})
	}

	if _, err := commentsCollection.DeleteOne(ctx, bson.M{"_id": commentID}); err != nil {
		cc.logger.Printf("Error deleting comment %s: %v", commentID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete comment",
		})
	}

	if _, err := postsCollection.UpdateOne(ctx, bson.M{"_id": comment.PostID},
		bson.M{"$inc": bson.M{"commentCount": -1}}); err != nil {
		cc.logger.Printf("Error decrementing comment count: %v", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Comment deleted successfully",
	})
}

// ReactToComment records a reaction on a comment. Only "like" affects the
// counter; other reaction types are accepted but not counted.
func (cc *CommentController) ReactToComment(c echo.Context) error {
	if _, err := utils.GetUserIDFromToken(c); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	commentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid comment ID",
		})
	}

	var req models.ReactionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Reaction type is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	commentsCollection := config.GetCollection(cc.DB, "comments")

	if req.ReactionType != "like" {
		// Accepted but not counted; the comment is left untouched
		count, err := commentsCollection.CountDocuments(ctx, bson.M{"_id": commentID})
		if err != nil {
			cc.logger.Printf("Error reacting to comment %s: %v", commentID.Hex(), err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to react to comment",
			})
		}
		if count == 0 {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Comment not found",
			})
		}
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Reaction recorded successfully",
		})
	}

	result, err := commentsCollection.UpdateOne(ctx, bson.M{"_id": commentID},
		bson.M{"$inc": bson.M{"likeCount": 1}})
	if err != nil {
		cc.logger.Printf("Error reacting to comment %s: %v", commentID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to react to comment",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Comment not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Reaction recorded successfully",
	})
}
