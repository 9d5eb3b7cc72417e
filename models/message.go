// models/message.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a direct or group message. Direct messages carry a derived
// conversationId so both participants land in the same thread; group
// messages carry the group's id instead.
type Message struct {
	ID             primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	ConversationID string              `json:"conversationId" bson:"conversationId"`
	SenderID       primitive.ObjectID  `json:"senderId" bson:"senderId"`
	RecipientID    *primitive.ObjectID `json:"recipientId,omitempty" bson:"recipientId,omitempty"`
	GroupID        *primitive.ObjectID `json:"groupId,omitempty" bson:"groupId,omitempty"`
	Content        string              `json:"content" bson:"content"`
	MessageType    string              `json:"messageType" bson:"messageType"` // "text", "image", "video"
	Attachments    []string            `json:"attachments" bson:"attachments"`
	IsRead         bool                `json:"isRead" bson:"isRead"`
	CreatedAt      time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// MessageGroup is a named multi-member conversation. The creator is admin.
type MessageGroup struct {
	ID          primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name"`
	Description string               `json:"description" bson:"description"`
	CreatorID   primitive.ObjectID   `json:"creatorId" bson:"creatorId"`
	MemberIDs   []primitive.ObjectID `json:"memberIds" bson:"memberIds"`
	Roles       map[string]string    `json:"roles" bson:"roles"` // userId hex -> "admin" or "member"
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// Conversation is a summary row in the conversations list.
type Conversation struct {
	ID              string    `json:"id"`
	LastMessage     string    `json:"lastMessage"`
	LastMessageTime time.Time `json:"lastMessageTime"`
	UnreadCount     int       `json:"unreadCount"`
}

// SendDirectMessageRequest is the body of POST /api/messages/direct
type SendDirectMessageRequest struct {
	RecipientID string   `json:"recipientId" validate:"required"`
	Content     string   `json:"content" validate:"required"`
	MessageType string   `json:"messageType,omitempty"`
	Attachments []string `json:"attachments,omitempty"`
}

// SendGroupMessageRequest is the body of POST /api/messages/groups/:groupId/messages
type SendGroupMessageRequest struct {
	Content     string   `json:"content" validate:"required"`
	MessageType string   `json:"messageType,omitempty"`
	Attachments []string `json:"attachments,omitempty"`
}

// CreateGroupRequest is the body of POST /api/messages/groups
type CreateGroupRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description,omitempty"`
	MemberIDs   []string `json:"memberIds" validate:"required,min=1"`
}
