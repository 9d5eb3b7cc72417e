package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
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

const defaultPageSize = 20

// PostController handles post CRUD, the follow feed and like/share counters.
type PostController struct {
	DB     *mongo.Client
	logger *log.Logger
}

// NewPostController creates a new post controller
func NewPostController(db *mongo.Client) *PostController {
	return &PostController{
		DB:     db,
		logger: log.New(os.Stdout, "[POST] ", log.LstdFlags),
	}
}

// resolveMentions maps @handles to user ids, silently dropping unknown ones.
func (pc *PostController) resolveMentions(ctx context.Context, handles []string) []primitive.ObjectID {
	if len(handles) == 0 {
		return nil
	}

	cursor, err := config.GetCollection(pc.DB, "users").Find(ctx, bson.M{
		"username": bson.M{"$in": handles},
	})
	if err != nil {
		pc.logger.Printf("Error resolving mentions: %v", err)
		return nil
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil
	}

	ids := make([]primitive.ObjectID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

// notifyMentions fans out mention notifications, skipping the author.
func (pc *PostController) notifyMentions(authorID primitive.ObjectID, authorName string, mentionIDs []primitive.ObjectID, postID primitive.ObjectID) {
	for _, mentioned := range mentionIDs {
		if mentioned == authorID {
			continue
		}
		if err := utils.NotifyUser(pc.DB, mentioned, authorID, models.NotificationTypeMention,
			postID.Hex(), fmt.Sprintf("%s mentioned you in a post", authorName)); err != nil {
			pc.logger.Printf("Failed to notify mention %s: %v", mentioned.Hex(), err)
		}
	}
}

// CreatePost creates a post for the authenticated user. Hashtags and mentions
// are mined from the content and merged with any supplied explicitly.
func (pc *PostController) CreatePost(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	var req models.CreatePostRequest
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

	content := utils.SanitizeInput(req.Content)

	hashtags := utils.ExtractHashtags(content)
	seen := make(map[string]bool, len(hashtags))
	for _, t := range hashtags {
		seen[t] = true
	}
	for _, t := range req.Hashtags {
		if t = utils.SanitizeInput(t); t != "" && !seen[t] {
			seen[t] = true
			hashtags = append(hashtags, t)
		}
	}

	mentionHandles := utils.ExtractMentions(content)
	mentionHandles = append(mentionHandles, req.Mentions...)
	mentionIDs := pc.resolveMentions(ctx, mentionHandles)

	now := time.Now()
	post := models.Post{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Content:     content,
		PostType:    req.PostType,
		MediaURLs:   req.MediaURLs,
		Location:    utils.SanitizeInput(req.Location),
		Hashtags:    hashtags,
		Mentions:    mentionIDs,
		IsMonetized: req.IsMonetized,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if post.MediaURLs == nil {
		post.MediaURLs = []string{}
	}

	if _, err := config.GetCollection(pc.DB, "posts").InsertOne(ctx, post); err != nil {
		pc.logger.Printf("Error inserting post: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create post",
		})
	}

	authorName, _ := c.Get("username").(string)
	go pc.notifyMentions(userID, authorName, mentionIDs, post.ID)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Post created successfully",
		Data:    post,
	})
}

// GetPost returns a single post with its author card.
func (pc *PostController) GetPost(c echo.Context) error {
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
	err = config.GetCollection(pc.DB, "posts").FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Post not found",
			})
		}
		pc.logger.Printf("Error fetching post %s: %v", postID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch post",
		})
	}

	view := models.PostView{Post: post}
	var author models.User
	if err := config.GetCollection(pc.DB, "users").FindOne(ctx, bson.M{"_id": post.UserID}).Decode(&author); err == nil {
		summary := author.Summary()
		view.Author = &summary
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Post retrieved successfully",
		Data:    view,
	})
}

// UpdatePost edits a post. Only the author may edit.
func (pc *PostController) UpdatePost(c echo.Context) error {
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

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	postsCollection := config.GetCollection(pc.DB, "posts")

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
	if post.UserID != userID {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You can only edit your own posts",
		})
	}

	update := bson.M{"updatedAt": time.Now()}
	if req.Content != "" {
		content := utils.SanitizeInput(req.Content)
		update["content"] = content
		update["hashtags"] = utils.ExtractHashtags(content)
	}
	if req.Hashtags != nil {
		update["hashtags"] = utils.SanitizeStringArray(req.Hashtags)
	}

	if _, err := postsCollection.UpdateOne(ctx, bson.M{"_id": postID}, bson.M{"$set": update}); err != nil {
		pc.logger.Printf("Error updating post %s: %v", postID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update post",
		})
	}

	if err := postsCollection.FindOne(ctx, bson.M{"_id": postID}).Decode(&post); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch updated post",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Post updated successfully",
		Data:    post,
	})
}

// DeletePost removes a post and its comments and likes. Only the author may
// delete.
func (pc *PostController) DeletePost(c echo.Context) error {
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

	postsCollection := config.GetCollection(pc.DB, "posts")

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
	if post.UserID != userID {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You can only delete your own posts",
		})
	}

	if _, err := postsCollection.DeleteOne(ctx, bson.M{"_id": postID}); err != nil {
		pc.logger.Printf("Error deleting post %s: %v", postID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete post",
		})
	}

	// Cascade: orphaned comments and likes are useless without the post
	if _, err := config.GetCollection(pc.DB, "comments").DeleteMany(ctx, bson.M{"postId": postID}); err != nil {
		pc.logger.Printf("Error deleting comments for post %s: %v", postID.Hex(), err)
	}
	if _, err := config.GetCollection(pc.DB, "likes").DeleteMany(ctx, bson.M{"postId": postID}); err != nil {
		pc.logger.Printf("Error deleting likes for post %s: %v", postID.Hex(), err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Post deleted successfully",
	})
}

// GetUserPosts lists a user's posts, newest first.
// ListPosts lists all posts newest first with author cards. Public; this is
// the logged-out browse surface.
func (pc *PostController) ListPosts(c echo.Context) error {
	page, limit := parsePagination(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := config.GetCollection(pc.DB, "posts").Find(ctx, bson.M{}, opts)
	if err != nil {
		pc.logger.Printf("Error listing posts: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch posts",
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

	views, err := pc.attachAuthors(ctx, posts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch posts",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Posts retrieved successfully",
		Data: map[string]interface{}{
			"posts": views,
			"page":  page,
			"limit": limit,
		},
	})
}

func (pc *PostController) GetUserPosts(c echo.Context) error {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	page, limit := parsePagination(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := config.GetCollection(pc.DB, "posts").Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		pc.logger.Printf("Error fetching posts for user %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch posts",
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
		Message: "Posts retrieved successfully",
		Data: map[string]interface{}{
			"posts": posts,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetFeed returns posts from users the authenticated user follows, plus their
// own, newest first.
func (pc *PostController) GetFeed(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	page, limit := parsePagination(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := config.GetCollection(pc.DB, "users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	authorIDs := append([]primitive.ObjectID{userID}, user.Following...)

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := config.GetCollection(pc.DB, "posts").Find(ctx, bson.M{
		"userId": bson.M{"$in": authorIDs},
	}, opts)
	if err != nil {
		pc.logger.Printf("Error fetching feed for %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch feed",
		})
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode feed",
		})
	}

	views, err := pc.attachAuthors(ctx, posts)
	if err != nil {
		pc.logger.Printf("Error attaching authors: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch feed",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Feed retrieved successfully",
		Data: map[string]interface{}{
			"posts": views,
			"page":  page,
			"limit": limit,
		},
	})
}

// attachAuthors joins author cards onto posts with a single $in lookup.
func (pc *PostController) attachAuthors(ctx context.Context, posts []models.Post) ([]models.PostView, error) {
	views := make([]models.PostView, 0, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	idSet := make(map[primitive.ObjectID]bool)
	ids := []primitive.ObjectID{}
	for _, p := range posts {
		if !idSet[p.UserID] {
			idSet[p.UserID] = true
			ids = append(ids, p.UserID)
		}
	}

	cursor, err := config.GetCollection(pc.DB, "users").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
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

	for _, p := range posts {
		view := models.PostView{Post: p}
		if summary, ok := summaries[p.UserID]; ok {
			s := summary
			view.Author = &s
		}
		views = append(views, view)
	}
	return views, nil
}

// LikePost toggles the authenticated user's like on a post. The like record
// is removed (or inserted) first, then the counter follows; the unique index
// on (postId, userId) keeps double-likes out under concurrency.
func (pc *PostController) LikePost(c echo.Context) error {
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

	postsCollection := config.GetCollection(pc.DB, "posts")
	likesCollection := config.GetCollection(pc.DB, "likes")

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

	filter := bson.M{"postId": postID, "userId": userID}

	var existing models.Like
	err = likesCollection.FindOneAndDelete(ctx, filter).Decode(&existing)
	if err == nil {
		// Was liked, now unliked
		if _, err := postsCollection.UpdateOne(ctx, bson.M{"_id": postID},
			bson.M{"$inc": bson.M{"likeCount": -1}}); err != nil {
			pc.logger.Printf("Error decrementing like count: %v", err)
		}
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Post unliked successfully",
			Data:    map[string]bool{"liked": false},
		})
	}
	if err != mongo.ErrNoDocuments {
		pc.logger.Printf("Error toggling like: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to toggle like",
		})
	}

	like := models.Like{
		ID:        primitive.NewObjectID(),
		PostID:    postID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if _, err := likesCollection.InsertOne(ctx, like); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost a race against a concurrent like; treat as already liked
			return c.JSON(http.StatusOK, models.Response{
				Status:  http.StatusOK,
				Message: "Post liked successfully",
				Data:    map[string]bool{"liked": true},
			})
		}
		pc.logger.Printf("Error inserting like: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to toggle like",
		})
	}

	if _, err := postsCollection.UpdateOne(ctx, bson.M{"_id": postID},
		bson.M{"$inc": bson.M{"likeCount": 1}}); err != nil {
		pc.logger.Printf("Error incrementing like count: %v", err)
	}

	if post.UserID != userID {
		actorName, _ := c.Get("username").(string)
		if err := utils.NotifyUser(pc.DB, post.UserID, userID, models.NotificationTypeLike,
			postID.Hex(), fmt.Sprintf("%s liked your post", actorName)); err != nil {
			pc.logger.Printf("Failed to notify like: %v", err)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Post liked successfully",
		Data:    map[string]bool{"liked": true},
	})
}

// SharePost bumps a post's share counter.
func (pc *PostController) SharePost(c echo.Context) error {
	if _, err := utils.GetUserIDFromToken(c); err != nil {
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

	result, err := config.GetCollection(pc.DB, "posts").UpdateOne(ctx,
		bson.M{"_id": postID}, bson.M{"$inc": bson.M{"shareCount": 1}})
	if err != nil {
		pc.logger.Printf("Error incrementing share count: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to share post",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Post not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Post shared successfully",
	})
}

// parsePagination reads page/limit query params with sane bounds.
func parsePagination(c echo.Context) (int, int) {
	page := 1
	limit := defaultPageSize

	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	return page, limit
}
