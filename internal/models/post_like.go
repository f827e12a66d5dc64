package models

import "time"

// PostLike represents a like edge between a user and a post. A user can like
// a given post at most once; the unique index enforces it.
type PostLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"size:128;index;uniqueIndex:idx_user_post"`
	PostID    string    `json:"post_id" gorm:"size:64;index;uniqueIndex:idx_user_post"`
	CreatedAt time.Time `json:"created_at"`
}
