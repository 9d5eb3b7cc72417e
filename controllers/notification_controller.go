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

// NotificationController handles the notification inbox and delivery
// preferences.
type NotificationController struct {
	DB     *mongo.Client
	logger *log.Logger
}

// NewNotificationController creates a new notification controller
func NewNotificationController(db *mongo.Client) *NotificationController {
	return &NotificationController{
		DB:     db,
		logger: log.New(os.Stdout, "[NOTIF] ", log.LstdFlags),
	}
}

// GetNotifications lists the authenticated user's notifications, newest
// first, with actor cards attached.
func (nc *NotificationController) GetNotifications(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	page, limit := parsePagination(c)

	filter := bson.M{"userId": userID}
	if c.QueryParam("unreadOnly") == "true" {
		filter["isRead"] = false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	notificationsCollection := config.GetCollection(nc.DB, "notifications")

	cursor, err := notificationsCollection.Find(ctx, filter, opts)
	if err != nil {
		nc.logger.Printf("Error fetching notifications for %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch notifications",
		})
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode notifications",
		})
	}

	views, err := nc.attachActors(ctx, notifications)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch notifications",
		})
	}

	unreadCount, err := notificationsCollection.CountDocuments(ctx, bson.M{
		"userId": userID,
		"isRead": false,
	})
	if err != nil {
		unreadCount = 0
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notifications retrieved successfully",
		Data: map[string]interface{}{
			"notifications": views,
			"unreadCount":   unreadCount,
			"page":          page,
			"limit":         limit,
		},
	})
}

func (nc *NotificationController) attachActors(ctx context.Context, notifications []models.Notification) ([]models.NotificationView, error) {
	views := make([]models.NotificationView, 0, len(notifications))
	if len(notifications) == 0 {
		return views, nil
	}

	idSet := make(map[primitive.ObjectID]bool)
	ids := []primitive.ObjectID{}
	for _, n := range notifications {
		if !idSet[n.ActorID] {
			idSet[n.ActorID] = true
			ids = append(ids, n.ActorID)
		}
	}

	cursor, err := config.GetCollection(nc.DB, "users").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
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

	for _, n := range notifications {
		view := models.NotificationView{Notification: n}
		if summary, ok := summaries[n.ActorID]; ok {
			s := summary
			view.Actor = &s
		}
		views = append(views, view)
	}
	return views, nil
}

// MarkAsRead marks a single notification read. Users can only touch their own
// notifications.
func (nc *NotificationController) MarkAsRead(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	notificationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid notification ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := config.GetCollection(nc.DB, "notifications").UpdateOne(ctx,
		bson.M{"_id": notificationID, "userId": userID},
		bson.M{"$set": bson.M{"isRead": true}})
	if err != nil {
		nc.logger.Printf("Error marking notification read: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update notification",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Notification not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notification marked as read",
	})
}

// MarkAllAsRead marks every unread notification read for the user.
func (nc *NotificationController) MarkAllAsRead(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := config.GetCollection(nc.DB, "notifications").UpdateMany(ctx,
		bson.M{"userId": userID, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}})
	if err != nil {
		nc.logger.Printf("Error marking all notifications read: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update notifications",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "All notifications marked as read",
		Data:    map[string]int64{"updated": result.ModifiedCount},
	})
}

// DeleteNotification removes a single notification from the user's inbox.
func (nc *NotificationController) DeleteNotification(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	notificationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid notification ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := config.GetCollection(nc.DB, "notifications").DeleteOne(ctx,
		bson.M{"_id": notificationID, "userId": userID})
	if err != nil {
		nc.logger.Printf("Error deleting notification: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete notification",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Notification not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notification deleted successfully",
	})
}

// GetPreferences returns the user's delivery preferences, creating the
// defaults on first read.
func (nc *NotificationController) GetPreferences(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	prefs, err := utils.GetNotificationPreferences(nc.DB, userID)
	if err != nil {
		nc.logger.Printf("Error loading preferences for %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch preferences",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Preferences retrieved successfully",
		Data:    prefs,
	})
}

// UpdatePreferences applies partial preference updates. Pointer fields in the
// request distinguish "not sent" from "set to false".
func (nc *NotificationController) UpdatePreferences(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	var req models.UpdatePreferencesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	// Ensure defaults exist before the partial update
	if _, err := utils.GetNotificationPreferences(nc.DB, userID); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load preferences",
		})
	}

	update := bson.M{"updatedAt": time.Now()}
	if req.PushEnabled != nil {
		update["pushEnabled"] = *req.PushEnabled
	}
	if req.EmailEnabled != nil {
		update["emailEnabled"] = *req.EmailEnabled
	}
	if req.InAppEnabled != nil {
		update["inAppEnabled"] = *req.InAppEnabled
	}
	if req.Frequency != "" {
		switch req.Frequency {
		case "instant", "daily", "weekly":
			update["notificationFrequency"] = req.Frequency
		default:
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Frequency must be 'instant', 'daily' or 'weekly'",
			})
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	prefsCollection := config.GetCollection(nc.DB, "notification_preferences")
	if _, err := prefsCollection.UpdateOne(ctx, bson.M{"userId": userID}, bson.M{"$set": update}); err != nil {
		nc.logger.Printf("Error updating preferences for %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update preferences",
		})
	}

	var prefs models.NotificationPreferences
	if err := prefsCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&prefs); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch updated preferences",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Preferences updated successfully",
		Data:    prefs,
	})
}
