// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User model
type User struct {
	ID           primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Username     string               `json:"username" bson:"username"`
	Email        string               `json:"email" bson:"email"`
	Password     string               `json:"password,omitempty" bson:"password"`
	DisplayName  string               `json:"displayName" bson:"displayName"`
	Bio          string               `json:"bio" bson:"bio"`
	AvatarURL    string               `json:"avatarUrl" bson:"avatarUrl"`
	BannerURL    string               `json:"bannerUrl" bson:"bannerUrl"`
	PrivacyLevel string               `json:"privacyLevel" bson:"privacyLevel"` // "public" or "private"
	Followers    []primitive.ObjectID `json:"followers,omitempty" bson:"followers,omitempty"`
	Following    []primitive.ObjectID `json:"following,omitempty" bson:"following,omitempty"`
	CreatedAt    time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// UserSummary is the public card returned in follower lists, post authors
// and search results. Never contains credentials.
type UserSummary struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	Username    string             `json:"username" bson:"username"`
	DisplayName string             `json:"displayName" bson:"displayName"`
	AvatarURL   string             `json:"avatarUrl" bson:"avatarUrl"`
}

// Summary strips a full user down to its public card.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=30"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"displayName" validate:"required,max=50"`
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries the optional profile fields of PUT /api/users/:id.
// Empty fields are left untouched.
type UpdateProfileRequest struct {
	DisplayName  string `json:"displayName,omitempty"`
	Bio          string `json:"bio,omitempty"`
	AvatarURL    string `json:"avatarUrl,omitempty"`
	BannerURL    string `json:"bannerUrl,omitempty"`
	PrivacyLevel string `json:"privacyLevel,omitempty"`
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
