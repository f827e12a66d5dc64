package repositories

import (
	"github.com/anxyhq/anxy-backend/internal/models"
	"gorm.io/gorm"
)

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	CreateProfile(profile *models.Profile) error
	GetProfileByID(id string) (*models.Profile, error)
	GetProfileByUsername(username string) (*models.Profile, error)
	GetProfileByEmail(email string) (*models.Profile, error)
	UsernameExists(username string) (bool, error)
	UpdateProfile(profile *models.Profile) error
	DeleteProfile(id string) error
	SearchProfiles(query string, limit int) ([]models.Profile, error)
}

// PostgresProfileRepository implements ProfileRepository for PostgreSQL
type PostgresProfileRepository struct {
	db *gorm.DB
}

// NewPostgresProfileRepository creates a new PostgresProfileRepository
func NewPostgresProfileRepository(db *gorm.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

// CreateProfile creates a new profile in PostgreSQL
func (r *PostgresProfileRepository) CreateProfile(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

// GetProfileByID retrieves a profile by its id
func (r *PostgresProfileRepository) GetProfileByID(id string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfileByUsername retrieves a profile by its unique username
func (r *PostgresProfileRepository) GetProfileByUsername(username string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("username = ?", username).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfileByEmail retrieves a profile by email
func (r *PostgresProfileRepository) GetProfileByEmail(email string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("email = ?", email).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UsernameExists reports whether a username is already taken
func (r *PostgresProfileRepository) UsernameExists(username string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Profile{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateProfile updates an existing profile
func (r *PostgresProfileRepository) UpdateProfile(profile *models.Profile) error {
	return r.db.Save(profile).Error
}

// DeleteProfile deletes a profile by id
func (r *PostgresProfileRepository) DeleteProfile(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.Profile{}).Error
}

// SearchProfiles searches profiles by username or display name (case-insensitive)
func (r *PostgresProfileRepository) SearchProfiles(query string, limit int) ([]models.Profile, error) {
	var profiles []models.Profile
	pattern := "%" + query + "%"
	err := r.db.
		Where("LOWER(username) LIKE LOWER(?) OR LOWER(display_name) LIKE LOWER(?)", pattern, pattern).
		Limit(limit).
		Find(&profiles).Error
	return profiles, err
}
