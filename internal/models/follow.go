package models

import "time"

// Follow represents a directed follow edge between two profiles.
// The (follower_id, following_id) pair is unique; the constraint is the
// safety net for concurrent toggle attempts.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  string    `json:"follower_id" gorm:"size:128;index;uniqueIndex:idx_follower_following"`
	FollowingID string    `json:"following_id" gorm:"size:128;index;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `json:"created_at"`
}
