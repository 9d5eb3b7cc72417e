// models/analytics.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreatorAnalytics aggregates a creator's totals across all their posts.
type CreatorAnalytics struct {
	TotalPosts      int `json:"totalPosts"`
	TotalLikes      int `json:"totalLikes"`
	TotalComments   int `json:"totalComments"`
	TotalShares     int `json:"totalShares"`
	TotalEngagement int `json:"totalEngagement"`
	FollowerCount   int `json:"followerCount"`
}

// PostAnalytics is the per-post breakdown for the post's owner.
type PostAnalytics struct {
	PostID          primitive.ObjectID `json:"postId"`
	Content         string             `json:"content"`
	LikeCount       int                `json:"likeCount"`
	CommentCount    int                `json:"commentCount"`
	ShareCount      int                `json:"shareCount"`
	TotalEngagement int                `json:"totalEngagement"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// AudienceStats summarizes engagement across a creator's posts.
type AudienceStats struct {
	TotalPosts        int     `json:"totalPosts"`
	TotalLikes        int     `json:"totalLikes"`
	TotalComments     int     `json:"totalComments"`
	TotalShares       int     `json:"totalShares"`
	AverageEngagement float64 `json:"averageEngagement"`
}

// Monetization holds a creator's payout state.
type Monetization struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        primitive.ObjectID `json:"userId" bson:"userId"`
	IsMonetized   bool               `json:"isMonetized" bson:"isMonetized"`
	TotalEarnings float64            `json:"totalEarnings" bson:"totalEarnings"`
	BankAccount   string             `json:"bankAccount,omitempty" bson:"bankAccount,omitempty"`
	PaymentMethod string             `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// EnableMonetizationRequest is the body of POST /api/creator/monetization/enable
type EnableMonetizationRequest struct {
	BankAccount   string `json:"bankAccount" validate:"required"`
	PaymentMethod string `json:"paymentMethod" validate:"required"`
}
