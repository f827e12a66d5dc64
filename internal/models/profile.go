package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Profile is the public identity record for an authenticated principal.
// ID shares the key space with the identity provider's user id.
type Profile struct {
	ID           string    `json:"id" gorm:"primaryKey;size:128"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:20"`
	DisplayName  string    `json:"display_name" gorm:"size:50"`
	Bio          string    `json:"bio" gorm:"size:500"`
	AvatarURL    *string   `json:"avatar_url"`
	Email        string    `json:"email,omitempty" gorm:"uniqueIndex;size:255"`
	PasswordHash string    `json:"-" gorm:"size:255"`
	IsPrivate    bool      `json:"is_private" gorm:"default:false"`
	AllowFollow  bool      `json:"allow_follow" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProfileCompact is the reduced shape embedded in lists and notifications.
type ProfileCompact struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

// ToCompact returns the compact representation of a profile.
func (p *Profile) ToCompact() ProfileCompact {
	return ProfileCompact{
		ID:          p.ID,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
	}
}

// SignupRequest is the request body for local credential registration.
type SignupRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=20,alphanumunderscore"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
}

// SigninRequest is the request body for local credential login.
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest is the request body for profile edits.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,min=1,max=50"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	AvatarURL   *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	IsPrivate   *bool   `json:"is_private,omitempty"`
	AllowFollow *bool   `json:"allow_follow,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
