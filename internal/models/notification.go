package models

import "time"

// NotificationType classifies what caused a notification.
type NotificationType string

const (
	NotificationTypeNewFollower NotificationType = "NEW_FOLLOWER"
	NotificationTypePostLike    NotificationType = "POST_LIKE"
	NotificationTypeComment     NotificationType = "COMMENT"
	NotificationTypeCommentLike NotificationType = "COMMENT_LIKE"
	NotificationTypeMention     NotificationType = "MENTION"
)

// Notification represents a user notification. UserID is the recipient,
// ActorID the user who caused it (nil for system-originated entries).
// ActorID must never equal UserID; the service rejects self-notifications
// at creation time.
type Notification struct {
	ID             string           `json:"id" gorm:"primaryKey;size:36"`
	UserID         string           `json:"user_id" gorm:"size:128;index"`
	ActorID        *string          `json:"actor_id" gorm:"size:128;index"`
	ActorName      string           `json:"actor_name" gorm:"size:50"`
	ActorAvatarURL *string          `json:"actor_avatar_url"`
	Type           NotificationType `json:"type" gorm:"size:30;index"`
	Title          string           `json:"title" gorm:"size:200"`
	Message        *string          `json:"message"`
	PostID         *string          `json:"post_id" gorm:"size:64"`
	CommentID      *string          `json:"comment_id" gorm:"size:36"`
	IsRead         bool             `json:"is_read" gorm:"default:false;index"`
	ReadAt         *time.Time       `json:"read_at"`
	CreatedAt      time.Time        `json:"created_at" gorm:"index"`
}

// CreateNotificationInput carries the fields callers may set when creating
// a notification; id, read state and timestamps are assigned by the service.
type CreateNotificationInput struct {
	UserID         string
	ActorID        *string
	ActorName      string
	ActorAvatarURL *string
	Type           NotificationType
	Title          string
	Message        *string
	PostID         *string
	CommentID      *string
}
