package repositories

import (
	"errors"
	"time"

	"github.com/anxyhq/anxy-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations.
// Mutators are scoped by both notification id and recipient id so a user can
// never touch another user's rows. Read-state mutators report which rows
// actually transitioned so callers can push exactly those changes.
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetByUserID(userID string, offset, limit int) ([]models.Notification, error)
	GetUnreadCount(userID string) (int64, error)
	MarkAsRead(notificationID, userID string) (*models.Notification, bool, error)
	MarkAllAsRead(userID string) ([]models.Notification, error)
	DeleteNotification(notificationID, userID string) (bool, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a NotificationRepository backed by PostgreSQL
func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	return r.db.Create(notification).Error
}

func (r *postgresNotificationRepository) GetByUserID(userID string, offset, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *postgresNotificationRepository) GetUnreadCount(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkAsRead flips is_read for the recipient's own notification. Both
// predicates are scoped to (id, user id); a mismatched user id matches
// nothing and reads as a nil row. Re-marking an already-read row is a
// success with no transition, reported by the bool.
func (r *postgresNotificationRepository) MarkAsRead(notificationID, userID string) (*models.Notification, bool, error) {
	now := time.Now()
	res := r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND is_read = ?", notificationID, userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	if res.Error != nil {
		return nil, false, res.Error
	}

	var notification models.Notification
	err := r.db.Where("id = ? AND user_id = ?", notificationID, userID).First(&notification).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &notification, res.RowsAffected > 0, nil
}

// MarkAllAsRead flips every unread row for the recipient and returns the
// rows that transitioned, so each one can be pushed as an update event.
func (r *postgresNotificationRepository) MarkAllAsRead(userID string) ([]models.Notification, error) {
	var unread []models.Notification
	if err := r.db.Where("user_id = ? AND is_read = ?", userID, false).Find(&unread).Error; err != nil {
		return nil, err
	}
	if len(unread) == 0 {
		return nil, nil
	}

	ids := make([]string, len(unread))
	for i := range unread {
		ids[i] = unread[i].ID
	}
	now := time.Now()
	res := r.db.Model(&models.Notification{}).
		Where("id IN ? AND user_id = ? AND is_read = ?", ids, userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	if res.Error != nil {
		return nil, res.Error
	}

	for i := range unread {
		unread[i].IsRead = true
		unread[i].ReadAt = &now
	}
	return unread, nil
}

func (r *postgresNotificationRepository) DeleteNotification(notificationID, userID string) (bool, error) {
	res := r.db.Where("id = ? AND user_id = ?", notificationID, userID).Delete(&models.Notification{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
