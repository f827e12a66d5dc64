package repositories

import (
	"github.com/anxyhq/anxy-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostLikeRepository defines the interface for post like data operations
type PostLikeRepository interface {
	CreatePostLike(like *models.PostLike) (bool, error)
	DeletePostLike(postID, userID string) (bool, error)
	HasUserLikedPost(postID, userID string) (bool, error)
	GetLikesCountByPostID(postID string) (int64, error)
}

// PostgresPostLikeRepository implements PostLikeRepository for PostgreSQL
type PostgresPostLikeRepository struct {
	db *gorm.DB
}

// NewPostgresPostLikeRepository creates a new PostgresPostLikeRepository
func NewPostgresPostLikeRepository(db *gorm.DB) *PostgresPostLikeRepository {
	return &PostgresPostLikeRepository{db: db}
}

// CreatePostLike inserts a like edge. A concurrent duplicate hits the unique
// index and affects zero rows; inserted=false signals "already liked".
func (r *PostgresPostLikeRepository) CreatePostLike(like *models.PostLike) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(like)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeletePostLike removes a like edge; the bool reports whether a row existed
func (r *PostgresPostLikeRepository) DeletePostLike(postID, userID string) (bool, error) {
	res := r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.PostLike{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// HasUserLikedPost checks if a user has liked a specific post
func (r *PostgresPostLikeRepository) HasUserLikedPost(postID, userID string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetLikesCountByPostID retrieves the count of likes for a specific post
func (r *PostgresPostLikeRepository) GetLikesCountByPostID(postID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
