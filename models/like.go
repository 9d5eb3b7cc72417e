// models/like.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Like is the join record for a (post, user) pair. A unique compound index
// on postId+userId enforces at most one like per pair.
type Like struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PostID    primitive.ObjectID `json:"postId" bson:"postId"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
