package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anxyhq/anxy-backend/internal/models"
)

func seedNotification(t *testing.T, repo NotificationRepository, userID string, createdAt time.Time) *models.Notification {
	t.Helper()
	actorID := "actor"
	n := &models.Notification{
		UserID:    userID,
		ActorID:   &actorID,
		ActorName: "Actor",
		Type:      models.NotificationTypePostLike,
		Title:     "Actor liked your post",
		CreatedAt: createdAt,
	}
	require.NoError(t, repo.CreateNotification(n))
	return n
}

func TestCreateNotification_AssignsID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)

	n := seedNotification(t, repo, "u1", time.Now())
	assert.NotEmpty(t, n.ID)
}

func TestGetByUserID_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)

	base := time.Now()
	oldest := seedNotification(t, repo, "u1", base.Add(-2*time.Hour))
	middle := seedNotification(t, repo, "u1", base.Add(-time.Hour))
	newest := seedNotification(t, repo, "u1", base)
	seedNotification(t, repo, "u2", base) // someone else's row

	notifications, err := repo.GetByUserID("u1", 0, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 3)
	assert.Equal(t, newest.ID, notifications[0].ID)
	assert.Equal(t, middle.ID, notifications[1].ID)
	assert.Equal(t, oldest.ID, notifications[2].ID)

	page, err := repo.GetByUserID("u1", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, middle.ID, page[0].ID)
}

func TestMarkAsRead_ScopedToRecipient(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)
	n := seedNotification(t, repo, "u1", time.Now())

	// Another user's id matches nothing and leaves the row untouched.
	updated, changed, err := repo.MarkAsRead(n.ID, "u2")
	require.NoError(t, err)
	assert.Nil(t, updated)
	assert.False(t, changed)

	count, err := repo.GetUnreadCount("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	updated, changed, err = repo.MarkAsRead(n.ID, "u1")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.True(t, changed)
	assert.True(t, updated.IsRead)
	assert.NotNil(t, updated.ReadAt)

	count, err = repo.GetUnreadCount("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// Already read: the row is still returned but no transition happened.
	updated, changed, err = repo.MarkAsRead(n.ID, "u1")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.False(t, changed)
	assert.True(t, updated.IsRead)
}

func TestMarkAllAsRead_ReturnsOnlyTransitionedRows(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)

	first := seedNotification(t, repo, "u1", time.Now())
	second := seedNotification(t, repo, "u1", time.Now())
	seedNotification(t, repo, "u2", time.Now())

	_, _, err := repo.MarkAsRead(first.ID, "u1")
	require.NoError(t, err)

	updated, err := repo.MarkAllAsRead("u1")
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, second.ID, updated[0].ID)
	assert.True(t, updated[0].IsRead)
	assert.NotNil(t, updated[0].ReadAt)

	count, err := repo.GetUnreadCount("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// The other user's row is untouched, and a second sweep finds nothing.
	count, err = repo.GetUnreadCount("u2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	updated, err = repo.MarkAllAsRead("u1")
	require.NoError(t, err)
	assert.Empty(t, updated)
}

func TestDeleteNotification_ScopedToRecipient(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)
	n := seedNotification(t, repo, "u1", time.Now())

	deleted, err := repo.DeleteNotification(n.ID, "u2")
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = repo.DeleteNotification(n.ID, "u1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteNotification(n.ID, "u1")
	require.NoError(t, err)
	assert.False(t, deleted)
}
