// models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types
const (
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
	NotificationTypeFollow  = "follow"
	NotificationTypeMention = "mention"
)

// Notification model
type Notification struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`   // recipient
	ActorID   primitive.ObjectID `json:"actorId" bson:"actorId"` // user who triggered it
	Type      string             `json:"type" bson:"type"`
	SourceID  string             `json:"sourceId,omitempty" bson:"sourceId,omitempty"` // post, comment or user id
	Message   string             `json:"message" bson:"message"`
	IsRead    bool               `json:"isRead" bson:"isRead"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// NotificationView is a notification joined with its actor's public card.
type NotificationView struct {
	Notification `bson:",inline"`
	Actor        *UserSummary `json:"actor,omitempty" bson:"actor,omitempty"`
}

// NotificationPreferences holds per-user delivery settings. A default row is
// created lazily on first read.
type NotificationPreferences struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID       primitive.ObjectID `json:"userId" bson:"userId"`
	PushEnabled  bool               `json:"pushEnabled" bson:"pushEnabled"`
	EmailEnabled bool               `json:"emailEnabled" bson:"emailEnabled"`
	InAppEnabled bool               `json:"inAppEnabled" bson:"inAppEnabled"`
	Frequency    string             `json:"notificationFrequency" bson:"notificationFrequency"` // "instant", "daily", "weekly"
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// UpdatePreferencesRequest is the body of PUT /api/notifications/preferences.
// Pointer fields distinguish "not sent" from "set to false".
type UpdatePreferencesRequest struct {
	PushEnabled  *bool  `json:"pushEnabled,omitempty"`
	EmailEnabled *bool  `json:"emailEnabled,omitempty"`
	InAppEnabled *bool  `json:"inAppEnabled,omitempty"`
	Frequency    string `json:"notificationFrequency,omitempty"`
}
