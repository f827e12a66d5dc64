package models

import "time"

// MaxCommentLength is the maximum comment content length after trimming.
const MaxCommentLength = 500

// Comment represents a comment on a post. AuthorName is a snapshot taken at
// creation time so renames do not rewrite history.
type Comment struct {
	ID         string     `json:"id" gorm:"primaryKey;size:36"`
	PostID     string     `json:"post_id" gorm:"size:64;index"`
	AuthorID   string     `json:"author_id" gorm:"size:128;index"`
	AuthorName string     `json:"author_name" gorm:"size:50"`
	Content    string     `json:"content" gorm:"size:500"`
	IsEdited   bool       `json:"is_edited" gorm:"default:false"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,max=500"`
}

// UpdateCommentRequest defines the request body for updating an existing comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,max=500"`
}
