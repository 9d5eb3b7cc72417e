// models/post.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post model
type Post struct {
	ID           primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	UserID       primitive.ObjectID   `json:"userId" bson:"userId"`
	Content      string               `json:"content" bson:"content"`
	PostType     string               `json:"postType" bson:"postType"` // "text", "image", "video", "poll"
	MediaURLs    []string             `json:"mediaUrls" bson:"mediaUrls"`
	Location     string               `json:"location,omitempty" bson:"location,omitempty"`
	Hashtags     []string             `json:"hashtags" bson:"hashtags"`
	Mentions     []primitive.ObjectID `json:"mentions,omitempty" bson:"mentions,omitempty"`
	IsMonetized  bool                 `json:"isMonetized" bson:"isMonetized"`
	LikeCount    int                  `json:"likeCount" bson:"likeCount"`
	CommentCount int                  `json:"commentCount" bson:"commentCount"`
	ShareCount   int                  `json:"shareCount" bson:"shareCount"`
	CreatedAt    time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// PostView is a post joined with its author's public card.
type PostView struct {
	Post   `bson:",inline"`
	Author *UserSummary `json:"author,omitempty" bson:"author,omitempty"`
}

// CreatePostRequest is the body of POST /api/posts
type CreatePostRequest struct {
	Content     string   `json:"content" validate:"required"`
	PostType    string   `json:"postType" validate:"required,oneof=text image video poll"`
	MediaURLs   []string `json:"mediaUrls,omitempty"`
	Location    string   `json:"location,omitempty"`
	Hashtags    []string `json:"hashtags,omitempty"`
	Mentions    []string `json:"mentions,omitempty"`
	IsMonetized bool     `json:"isMonetized,omitempty"`
}

// UpdatePostRequest carries the editable post fields. Empty fields are skipped.
type UpdatePostRequest struct {
	Content  string   `json:"content,omitempty"`
	Hashtags []string `json:"hashtags,omitempty"`
	Mentions []string `json:"mentions,omitempty"`
}
