// models/comment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment model for post comments, optionally threaded under a parent comment.
type Comment struct {
	ID              primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	PostID          primitive.ObjectID  `json:"postId" bson:"postId"`
	UserID          primitive.ObjectID  `json:"userId" bson:"userId"`
	Content         string              `json:"content" bson:"content"`
	ParentCommentID *primitive.ObjectID `json:"parentCommentId,omitempty" bson:"parentCommentId,omitempty"`
	LikeCount       int                 `json:"likeCount" bson:"likeCount"`
	CreatedAt       time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// CommentView is a comment joined with its author's public card.
type CommentView struct {
	Comment `bson:",inline"`
	Author  *UserSummary `json:"author,omitempty" bson:"author,omitempty"`
}

// CreateCommentRequest is the body of POST /api/comments
type CreateCommentRequest struct {
	PostID          string   `json:"postId" validate:"required"`
	Content         string   `json:"content" validate:"required"`
	ParentCommentID string   `json:"parentCommentId,omitempty"`
	Mentions        []string `json:"mentions,omitempty"`
}

// UpdateCommentRequest is the body of PUT /api/comments/:id
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// ReactionRequest is the body of POST /api/comments/:id/react
type ReactionRequest struct {
	ReactionType string `json:"reactionType" validate:"required"`
}
