package repositories

import (
	"github.com/anxyhq/anxy-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	CreateFollow(follow *models.Follow) (bool, error)
	DeleteFollow(followerID, followingID string) (bool, error)
	IsFollowing(followerID, followingID string) (bool, error)
	GetFollowers(userID string, offset, limit int) ([]models.Profile, int64, error)
	GetFollowing(userID string, offset, limit int) ([]models.Profile, int64, error)
	GetFollowersCount(userID string) (int64, error)
	GetFollowingCount(userID string) (int64, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// CreateFollow inserts a follow edge. The unique index on the pair is the
// arbiter for concurrent attempts: a conflicting insert affects zero rows
// and is reported as inserted=false rather than an error.
func (r *PostgresFollowRepository) CreateFollow(follow *models.Follow) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(follow)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteFollow removes a follow edge. Deleting a missing edge is not an
// error; the bool reports whether a row was actually removed.
func (r *PostgresFollowRepository) DeleteFollow(followerID, followingID string) (bool, error) {
	res := r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// IsFollowing checks whether a follow edge exists
func (r *PostgresFollowRepository) IsFollowing(followerID, followingID string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetFollowers lists the non-private profiles following userID, in edge
// creation order. The total counts every edge regardless of privacy; the
// listing filters on the listed profiles' own privacy flag.
func (r *PostgresFollowRepository) GetFollowers(userID string, offset, limit int) ([]models.Profile, int64, error) {
	var total int64
	if err := r.db.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []models.Profile
	err := r.db.Model(&models.Profile{}).
		Joins("JOIN follows ON follows.follower_id = profiles.id").
		Where("follows.following_id = ? AND profiles.is_private = ?", userID, false).
		Order("follows.created_at ASC").
		Offset(offset).Limit(limit).
		Find(&profiles).Error
	return profiles, total, err
}

// GetFollowing lists the non-private profiles userID follows, in edge
// creation order, with the same count/listing asymmetry as GetFollowers.
func (r *PostgresFollowRepository) GetFollowing(userID string, offset, limit int) ([]models.Profile, int64, error) {
	var total int64
	if err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []models.Profile
	err := r.db.Model(&models.Profile{}).
		Joins("JOIN follows ON follows.following_id = profiles.id").
		Where("follows.follower_id = ? AND profiles.is_private = ?", userID, false).
		Order("follows.created_at ASC").
		Offset(offset).Limit(limit).
		Find(&profiles).Error
	return profiles, total, err
}

// GetFollowersCount returns the exact follower edge count, unfiltered by privacy
func (r *PostgresFollowRepository) GetFollowersCount(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

// GetFollowingCount returns the exact following edge count, unfiltered by privacy
func (r *PostgresFollowRepository) GetFollowingCount(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}
