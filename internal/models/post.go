package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Visibility controls who can see a post.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityFollowers Visibility = "followers"
	VisibilityPrivate   Visibility = "private"
)

// AnonymousAuthorName is the fixed author name snapshot for anonymous posts.
const AnonymousAuthorName = "anonymous"

// ExcerptLength is the maximum length of the derived post excerpt.
const ExcerptLength = 150

// Post is a content unit stored in MongoDB. AuthorID is nil for anonymous
// posts; AuthorName is a snapshot taken at creation time.
type Post struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title         string             `json:"title" bson:"title"`
	Content       string             `json:"content" bson:"content"`
	Excerpt       string             `json:"excerpt" bson:"excerpt"`
	AuthorID      *string            `json:"author_id" bson:"author_id"`
	AuthorName    string             `json:"author_name" bson:"author_name"`
	PostNumber    int64              `json:"post_number" bson:"post_number"`
	IsAnonymous   bool               `json:"is_anonymous" bson:"is_anonymous"`
	Visibility    Visibility         `json:"visibility" bson:"visibility"`
	LikesCount    int64              `json:"likes_count" bson:"likes_count"`
	CommentsCount int64              `json:"comments_count" bson:"comments_count"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// DeriveExcerpt truncates content to the excerpt length on a rune boundary.
func DeriveExcerpt(content string) string {
	trimmed := strings.TrimSpace(content)
	runes := []rune(trimmed)
	if len(runes) <= ExcerptLength {
		return trimmed
	}
	return string(runes[:ExcerptLength]) + "..."
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Content     string     `json:"content" validate:"required,min=1,max=10000"`
	IsAnonymous bool       `json:"is_anonymous"`
	Visibility  Visibility `json:"visibility" validate:"omitempty,oneof=public followers private"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Title      *string     `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Content    *string     `json:"content,omitempty" validate:"omitempty,min=1,max=10000"`
	Visibility *Visibility `json:"visibility,omitempty" validate:"omitempty,oneof=public followers private"`
}
