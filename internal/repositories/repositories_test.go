package repositories

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/anxyhq/anxy-backend/internal/models"
)

// setupTestDB opens an in-memory database with all relational models migrated.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Profile{},
		&models.Follow{},
		&models.PostLike{},
		&models.Comment{},
		&models.Notification{},
	))
	return db
}

// seedProfile inserts a minimal profile row. Emails are derived from the id
// to keep the unique index happy.
func seedProfile(t *testing.T, db *gorm.DB, id string, isPrivate bool) *models.Profile {
	t.Helper()
	profile := &models.Profile{
		ID:          id,
		Username:    id,
		DisplayName: id,
		Email:       fmt.Sprintf("%s@example.com", id),
		IsPrivate:   isPrivate,
		AllowFollow: true,
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}
