package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is an account. Username and email are unique across all users.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Username       string    `json:"username" gorm:"size:50;uniqueIndex;not null"`
	Email          string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	FullName       string    `json:"full_name" gorm:"size:100;not null"`
	Bio            string    `json:"bio" gorm:"type:text"`
	ProfilePicture string    `json:"profile_picture"`
	Password       string    `json:"-" gorm:"not null"` // bcrypt hash
	FirebaseUID    *string   `json:"-" gorm:"size:128;uniqueIndex"`
	IsActive       bool      `json:"is_active" gorm:"default:true;not null"`
	CreatedAt      time.Time `json:"created_at"`
}

// UserCompact is the author/actor shape embedded in other responses.
type UserCompact struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	FullName       string `json:"full_name"`
	ProfilePicture string `json:"profile_picture"`
}

func (u User) ToCompact() UserCompact {
	return UserCompact{
		ID:             u.ID,
		Username:       u.Username,
		FullName:       u.FullName,
		ProfilePicture: u.ProfilePicture,
	}
}

// UserProfile is a user together with graph counts relative to a viewer.
type UserProfile struct {
	User
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
	PostsCount     int64 `json:"posts_count"`
	IsFollowing    bool  `json:"is_following"`
}

// RegisterRequest defines the request body for creating a local account
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,min=1,max=100"`
	Bio      string `json:"bio" validate:"max=500"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the request body for username/password login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest defines the request body for updating the caller's profile.
// Nil fields are left untouched.
type UpdateProfileRequest struct {
	FullName       *string `json:"full_name,omitempty" validate:"omitempty,min=1,max=100"`
	Bio            *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	ProfilePicture *string `json:"profile_picture,omitempty" validate:"omitempty,max=512"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
