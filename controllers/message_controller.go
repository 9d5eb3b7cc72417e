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

// MessageController handles direct and group messaging. Delivery is
// pull-based: clients poll conversations, there is no realtime push.
type MessageController struct {
	DB     *mongo.Client
	logger *log.Logger
}

// NewMessageController creates a new message controller
func NewMessageController(db *mongo.Client) *MessageController {
	return &MessageController{
		DB:     db,
		logger: log.New(os.Stdout, "[MSG] ", log.LstdFlags),
	}
}

func normalizeMessageType(messageType string) string {
	switch messageType {
	case "image", "video":
		return messageType
	default:
		return "text"
	}
}

// SendDirectMessage stores a direct message under the pair's canonical
// conversation id.
func (mc *MessageController) SendDirectMessage(c echo.Context) error {
	senderID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	var req models.SendDirectMessageRequest
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

	recipientID, err := primitive.ObjectIDFromHex(req.RecipientID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid recipient ID",
		})
	}
	if recipientID == senderID {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "You cannot message yourself",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := config.GetCollection(mc.DB, "users").CountDocuments(ctx, bson.M{"_id": recipientID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to send message",
		})
	}
	if count == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Recipient not found",
		})
	}

	now := time.Now()
	message := models.Message{
		ID:             primitive.NewObjectID(),
		ConversationID: utils.DirectConversationID(senderID, recipientID),
		SenderID:       senderID,
		RecipientID:    &recipientID,
		Content:        utils.SanitizeInput(req.Content),
		MessageType:    normalizeMessageType(req.MessageType),
		Attachments:    req.Attachments,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if message.Attachments == nil {
		message.Attachments = []string{}
	}

	if _, err := config.GetCollection(mc.DB, "messages").InsertOne(ctx, message); err != nil {
		mc.logger.Printf("Error inserting message: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to send message",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Message sent successfully",
		Data:    message,
	})
}

// GetConversation returns the messages of one conversation, oldest first.
// Only participants may read it.
func (mc *MessageController) GetConversation(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	conversationID := c.Param("conversationId")
	if err := mc.authorizeConversation(userID, conversationID); err != nil {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You are not part of this conversation",
		})
	}

	page, limit := parsePagination(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := config.GetCollection(mc.DB, "messages").Find(ctx,
		bson.M{"conversationId": conversationID}, opts)
	if err != nil {
		mc.logger.Printf("Error fetching conversation %s: %v", conversationID, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch conversation",
		})
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode messages",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Conversation retrieved successfully",
		Data: map[string]interface{}{
			"messages": messages,
			"page":     page,
			"limit":    limit,
		},
	})
}

// authorizeConversation checks that the user participates in the
// conversation: direct ids embed both user ids, group ids resolve through
// group membership.
func (mc *MessageController) authorizeConversation(userID primitive.ObjectID, conversationID string) error {
	if strings.HasPrefix(conversationID, "direct-") {
		if strings.Contains(conversationID, userID.Hex()) {
			return nil
		}
		return echo.ErrForbidden
	}

	if strings.HasPrefix(conversationID, "group-") {
		groupID, err := primitive.ObjectIDFromHex(strings.TrimPrefix(conversationID, "group-"))
		if err != nil {
			return echo.ErrForbidden
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		count, err := config.GetCollection(mc.DB, "message_groups").CountDocuments(ctx, bson.M{
			"_id":       groupID,
			"memberIds": userID,
		})
		if err != nil || count == 0 {
			return echo.ErrForbidden
		}
		return nil
	}

	return echo.ErrForbidden
}

// GetConversations lists the user's conversations with last message and
// unread count, most recent activity first.
func (mc *MessageController) GetConversations(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	messagesCollection := config.GetCollection(mc.DB, "messages")

	// Group ids the user belongs to
	groupCursor, err := config.GetCollection(mc.DB, "message_groups").Find(ctx, bson.M{"memberIds": userID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch conversations",
		})
	}
	var groups []models.MessageGroup
	if err := groupCursor.All(ctx, &groups); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch conversations",
		})
	}

	conversationIDs := make([]string, 0, len(groups))
	for _, g := range groups {
		conversationIDs = append(conversationIDs, utils.GroupConversationID(g.ID))
	}

	match := bson.M{"$or": []bson.M{
		{"senderId": userID},
		{"recipientId": userID},
	}}
	if len(conversationIDs) > 0 {
		match["$or"] = append(match["$or"].([]bson.M), bson.M{"conversationId": bson.M{"$in": conversationIDs}})
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":             "$conversationId",
			"lastMessage":     bson.M{"$first": "$content"},
			"lastMessageTime": bson.M{"$first": "$createdAt"},
			"unreadCount": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{
					bson.M{"$eq": bson.A{"$isRead", false}},
					bson.M{"$ne": bson.A{"$senderId", userID}},
				}},
				1, 0,
			}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "lastMessageTime", Value: -1}}}},
	}

	cursor, err := messagesCollection.Aggregate(ctx, pipeline)
	if err != nil {
		mc.logger.Printf("Error aggregating conversations for %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch conversations",
		})
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID              string    `bson:"_id"`
		LastMessage     string    `bson:"lastMessage"`
		LastMessageTime time.Time `bson:"lastMessageTime"`
		UnreadCount     int       `bson:"unreadCount"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode conversations",
		})
	}

	conversations := make([]models.Conversation, 0, len(rows))
	for _, row := range rows {
		conversations = append(conversations, models.Conversation{
			ID:              row.ID,
			LastMessage:     row.LastMessage,
			LastMessageTime: row.LastMessageTime,
			UnreadCount:     row.UnreadCount,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Conversations retrieved successfully",
		Data:    conversations,
	})
}

// MarkConversationRead marks all messages sent to the user in a conversation
// as read.
func (mc *MessageController) MarkConversationRead(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	conversationID := c.Param("conversationId")
	if err := mc.authorizeConversation(userID, conversationID); err != nil {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You are not part of this conversation",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := config.GetCollection(mc.DB, "messages").UpdateMany(ctx,
		bson.M{
			"conversationId": conversationID,
			"senderId":       bson.M{"$ne": userID},
			"isRead":         false,
		},
		bson.M{"$set": bson.M{"isRead": true, "updatedAt": time.Now()}})
	if err != nil {
		mc.logger.Printf("Error marking conversation %s read: %v", conversationID, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to mark conversation read",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Conversation marked as read",
		Data:    map[string]int64{"updated": result.ModifiedCount},
	})
}

// SearchMessages finds the user's messages containing a term.
func (mc *MessageController) SearchMessages(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Search query is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pattern := primitive.Regex{Pattern: utils.EscapeRegex(query), Options: "i"}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(searchResultLimit)

	cursor, err := config.GetCollection(mc.DB, "messages").Find(ctx, bson.M{
		"content": pattern,
		"$or": []bson.M{
			{"senderId": userID},
			{"recipientId": userID},
		},
	}, opts)
	if err != nil {
		mc.logger.Printf("Error searching messages: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to search messages",
		})
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode messages",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Messages retrieved successfully",
		Data:    messages,
	})
}

// CreateGroup creates a message group with the caller as admin.
func (mc *MessageController) CreateGroup(c echo.Context) error {
	creatorID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	var req models.CreateGroupRequest
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

	memberIDs := []primitive.ObjectID{creatorID}
	seen := map[primitive.ObjectID]bool{creatorID: true}
	for _, hex := range req.MemberIDs {
		memberID, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid member ID: " + hex,
			})
		}
		if !seen[memberID] {
			seen[memberID] = true
			memberIDs = append(memberIDs, memberID)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := config.GetCollection(mc.DB, "users").CountDocuments(ctx,
		bson.M{"_id": bson.M{"$in": memberIDs}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create group",
		})
	}
	if int(count) != len(memberIDs) {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "One or more members not found",
		})
	}

	roles := map[string]string{creatorID.Hex(): "admin"}
	for _, memberID := range memberIDs {
		if memberID != creatorID {
			roles[memberID.Hex()] = "member"
		}
	}

	now := time.Now()
	group := models.MessageGroup{
		ID:          primitive.NewObjectID(),
		Name:        utils.SanitizeInput(req.Name),
		Description: utils.SanitizeInput(req.Description),
		CreatorID:   creatorID,
		MemberIDs:   memberIDs,
		Roles:       roles,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := config.GetCollection(mc.DB, "message_groups").InsertOne(ctx, group); err != nil {
		mc.logger.Printf("Error creating group: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create group",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Group created successfully",
		Data:    group,
	})
}

// SendGroupMessage stores a message in a group the sender belongs to.
func (mc *MessageController) SendGroupMessage(c echo.Context) error {
	senderID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	groupID, err := primitive.ObjectIDFromHex(c.Param("groupId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid group ID",
		})
	}

	var req models.SendGroupMessageRequest
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

	var group models.MessageGroup
	err = config.GetCollection(mc.DB, "message_groups").FindOne(ctx, bson.M{"_id": groupID}).Decode(&group)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Group not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to send message",
		})
	}

	isMember := false
	for _, memberID := range group.MemberIDs {
		if memberID == senderID {
			isMember = true
			break
		}
	}
	if !isMember {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You are not a member of this group",
		})
	}

	now := time.Now()
	message := models.Message{
		ID:             primitive.NewObjectID(),
		ConversationID: utils.GroupConversationID(groupID),
		SenderID:       senderID,
		GroupID:        &groupID,
		Content:        utils.SanitizeInput(req.Content),
		MessageType:    normalizeMessageType(req.MessageType),
		Attachments:    req.Attachments,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if message.Attachments == nil {
		message.Attachments = []string{}
	}

	if _, err := config.GetCollection(mc.DB, "messages").InsertOne(ctx, message); err != nil {
		mc.logger.Printf("Error inserting group message: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to send message",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Message sent successfully",
		Data:    message,
	})
}

// GetGroups lists the groups the user belongs to.
func (mc *MessageController) GetGroups(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.GetCollection(mc.DB, "message_groups").Find(ctx, bson.M{"memberIds": userID})
	if err != nil {
		mc.logger.Printf("Error fetching groups for %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch groups",
		})
	}
	defer cursor.Close(ctx)

	groups := []models.MessageGroup{}
	if err := cursor.All(ctx, &groups); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode groups",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Groups retrieved successfully",
		Data:    groups,
	})
}
