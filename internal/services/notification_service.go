package services

import (
	"context"
	"strings"
	"time"

	"github.com/anxyhq/anxy-backend/internal/models"
	"github.com/anxyhq/anxy-backend/internal/notify"
	"github.com/anxyhq/anxy-backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationService owns notification creation rules, read-state
// transitions and retrieval. Creation enforces the self-notification ban
// here, not only in callers, so a buggy caller cannot slip one through.
type NotificationService interface {
	CreateNotification(ctx context.Context, input models.CreateNotificationInput) (*models.Notification, error)
	GetNotifications(ctx context.Context, userID string, offset, limit int) ([]models.Notification, error)
	GetUnreadCount(ctx context.Context, userID string) (int64, error)
	MarkAsRead(ctx context.Context, notificationID, userID string) error
	MarkAllAsRead(ctx context.Context, userID string) error
	DeleteNotification(ctx context.Context, notificationID, userID string) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	publisher        notify.Publisher
	logger           *zap.Logger
}

// NewNotificationService creates a NotificationService. The publisher may be
// nil, in which case no events are pushed.
func NewNotificationService(notificationRepo repositories.NotificationRepository, publisher notify.Publisher, logger *zap.Logger) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		publisher:        publisher,
		logger:           logger,
	}
}

func (s *notificationService) publish(ctx context.Context, kind notify.EventKind, notification models.Notification) {
	if s.publisher == nil {
		return
	}
	event := notify.Event{Kind: kind, Notification: notification}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish notification event",
			zap.String("op", "publish"),
			zap.String("kind", string(kind)),
			zap.String("notification_id", notification.ID),
			zap.String("user_id", notification.UserID),
			zap.Error(err))
	}
}

func (s *notificationService) CreateNotification(ctx context.Context, input models.CreateNotificationInput) (*models.Notification, error) {
	if input.ActorID != nil && *input.ActorID == input.UserID {
		return nil, ErrNotifySelf
	}
	if strings.TrimSpace(input.ActorName) == "" {
		return nil, ErrActorNameRequired
	}

	notification := &models.Notification{
		ID:             uuid.New().String(),
		UserID:         input.UserID,
		ActorID:        input.ActorID,
		ActorName:      input.ActorName,
		ActorAvatarURL: input.ActorAvatarURL,
		Type:           input.Type,
		Title:          input.Title,
		Message:        input.Message,
		PostID:         input.PostID,
		CommentID:      input.CommentID,
		IsRead:         false,
		ReadAt:         nil,
		CreatedAt:      time.Now(),
	}

	if err := s.notificationRepo.CreateNotification(notification); err != nil {
		s.logger.Error("failed to create notification",
			zap.String("op", "CreateNotification"),
			zap.String("user_id", input.UserID),
			zap.String("type", string(input.Type)),
			zap.Error(err))
		return nil, ErrInternal
	}

	s.publish(ctx, notify.EventInsert, *notification)
	return notification, nil
}

func (s *notificationService) GetNotifications(ctx context.Context, userID string, offset, limit int) ([]models.Notification, error) {
	notifications, err := s.notificationRepo.GetByUserID(userID, offset, limit)
	if err != nil {
		s.logger.Error("failed to list notifications",
			zap.String("op", "GetNotifications"),
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, ErrInternal
	}
	return notifications, nil
}

func (s *notificationService) GetUnreadCount(ctx context.Context, userID string) (int64, error) {
	count, err := s.notificationRepo.GetUnreadCount(userID)
	if err != nil {
		s.logger.Error("failed to count unread notifications",
			zap.String("op", "GetUnreadCount"),
			zap.String("user_id", userID),
			zap.Error(err))
		return 0, ErrInternal
	}
	return count, nil
}

// MarkAsRead flips one notification's read state. Re-marking an already-read
// notification the caller owns is a success, but only a genuine unread-to-read
// transition is pushed onto the bus.
func (s *notificationService) MarkAsRead(ctx context.Context, notificationID, userID string) error {
	notification, changed, err := s.notificationRepo.MarkAsRead(notificationID, userID)
	if err != nil {
		s.logger.Error("failed to mark notification as read",
			zap.String("op", "MarkAsRead"),
			zap.String("notification_id", notificationID),
			zap.String("user_id", userID),
			zap.Error(err))
		return ErrInternal
	}
	if notification == nil {
		return ErrNotificationScope
	}

	if changed {
		s.publish(ctx, notify.EventUpdate, *notification)
	}
	return nil
}

// MarkAllAsRead flips every unread notification and publishes one update
// event per transitioned row, so every mounted feed reconciles the bulk read.
func (s *notificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	updated, err := s.notificationRepo.MarkAllAsRead(userID)
	if err != nil {
		s.logger.Error("failed to mark all notifications as read",
			zap.String("op", "MarkAllAsRead"),
			zap.String("user_id", userID),
			zap.Error(err))
		return ErrInternal
	}

	for _, notification := range updated {
		s.publish(ctx, notify.EventUpdate, notification)
	}
	return nil
}

func (s *notificationService) DeleteNotification(ctx context.Context, notificationID, userID string) error {
	deleted, err := s.notificationRepo.DeleteNotification(notificationID, userID)
	if err != nil {
		s.logger.Error("failed to delete notification",
			zap.String("op", "DeleteNotification"),
			zap.String("notification_id", notificationID),
			zap.String("user_id", userID),
			zap.Error(err))
		return ErrInternal
	}
	if !deleted {
		return ErrNotificationScope
	}
	return nil
}
