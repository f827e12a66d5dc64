package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/anxyhq/anxy-backend/internal/models"
	"github.com/anxyhq/anxy-backend/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

// ProfileHints carries optional identity-provider metadata used when
// synthesizing a profile for a first OAuth login.
type ProfileHints struct {
	DisplayName string
	AvatarURL   *string
}

// ProfileService owns profile lifecycle and the username rules: shape
// validation, uniqueness, and suffix de-duplication when a username has to
// be synthesized from provider metadata.
type ProfileService interface {
	GetProfileByID(ctx context.Context, id string) (*models.Profile, error)
	GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error)
	CreateProfile(ctx context.Context, profile *models.Profile) error
	EnsureProfile(ctx context.Context, userID, email string, hints ProfileHints) (*models.Profile, bool, error)
	UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.Profile, error)
	SearchProfiles(ctx context.Context, query string, limit int) ([]models.Profile, error)
}

type profileService struct {
	profileRepo repositories.ProfileRepository
	logger      *zap.Logger
}

// NewProfileService creates a ProfileService
func NewProfileService(profileRepo repositories.ProfileRepository, logger *zap.Logger) ProfileService {
	return &profileService{profileRepo: profileRepo, logger: logger}
}

// ValidUsername reports whether a username matches the allowed shape
// (3-20 characters, alphanumeric and underscore).
func ValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

func (s *profileService) GetProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetProfileByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("failed to load profile",
			zap.String("op", "GetProfileByID"),
			zap.String("user_id", id),
			zap.Error(err))
		return nil, ErrInternal
	}
	return profile, nil
}

func (s *profileService) GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetProfileByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("failed to load profile",
			zap.String("op", "GetProfileByUsername"),
			zap.String("username", username),
			zap.Error(err))
		return nil, ErrInternal
	}
	return profile, nil
}

// CreateProfile validates the username shape and uniqueness before inserting.
func (s *profileService) CreateProfile(ctx context.Context, profile *models.Profile) error {
	if !ValidUsername(profile.Username) {
		return ErrInvalidUsername
	}
	taken, err := s.profileRepo.UsernameExists(profile.Username)
	if err != nil {
		s.logger.Error("failed to check username",
			zap.String("op", "CreateProfile"),
			zap.String("username", profile.Username),
			zap.Error(err))
		return ErrInternal
	}
	if taken {
		return ErrUsernameTaken
	}

	now := time.Now()
	profile.AllowFollow = true
	profile.CreatedAt = now
	profile.UpdatedAt = now
	if err := s.profileRepo.CreateProfile(profile); err != nil {
		s.logger.Error("failed to create profile",
			zap.String("op", "CreateProfile"),
			zap.String("user_id", profile.ID),
			zap.Error(err))
		return ErrInternal
	}
	return nil
}

// sanitizeUsernameBase squeezes arbitrary provider metadata into the allowed
// username alphabet and length.
func sanitizeUsernameBase(base string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		}
	}
	s := b.String()
	if len(s) > 16 {
		s = s[:16]
	}
	if len(s) < 3 {
		s = "user"
	}
	return s
}

// synthesizeUsername derives a free username from a base, appending a
// numeric suffix on collision.
func (s *profileService) synthesizeUsername(base string) (string, error) {
	candidate := sanitizeUsernameBase(base)
	taken, err := s.profileRepo.UsernameExists(candidate)
	if err != nil {
		return "", err
	}
	if !taken {
		return candidate, nil
	}
	for i := 1; i < 1000; i++ {
		next := fmt.Sprintf("%s%d", candidate, i)
		taken, err := s.profileRepo.UsernameExists(next)
		if err != nil {
			return "", err
		}
		if !taken {
			return next, nil
		}
	}
	return "", fmt.Errorf("no free username for base %q", candidate)
}

// EnsureProfile is the idempotent self-heal behind /api/fix-profile and the
// first OAuth login: it creates the missing profile for an identity, deriving
// the username from provider metadata. The bool reports whether a profile
// was created.
func (s *profileService) EnsureProfile(ctx context.Context, userID, email string, hints ProfileHints) (*models.Profile, bool, error) {
	existing, err := s.profileRepo.GetProfileByID(userID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("failed to load profile",
			zap.String("op", "EnsureProfile"),
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, false, ErrInternal
	}

	base := hints.DisplayName
	if base == "" {
		if at := strings.IndexByte(email, '@'); at > 0 {
			base = email[:at]
		}
	}
	username, err := s.synthesizeUsername(base)
	if err != nil {
		s.logger.Error("failed to synthesize username",
			zap.String("op", "EnsureProfile"),
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, false, ErrInternal
	}

	displayName := hints.DisplayName
	if displayName == "" {
		displayName = username
	}

	now := time.Now()
	profile := &models.Profile{
		ID:          userID,
		Username:    username,
		DisplayName: displayName,
		AvatarURL:   hints.AvatarURL,
		Email:       email,
		AllowFollow: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.profileRepo.CreateProfile(profile); err != nil {
		s.logger.Error("failed to create profile",
			zap.String("op", "EnsureProfile"),
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, false, ErrInternal
	}
	return profile, true, nil
}

// UpdateProfile applies owner-initiated edits to the profile.
func (s *profileService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.Profile, error) {
	profile, err := s.GetProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = req.AvatarURL
	}
	if req.IsPrivate != nil {
		profile.IsPrivate = *req.IsPrivate
	}
	if req.AllowFollow != nil {
		profile.AllowFollow = *req.AllowFollow
	}
	profile.UpdatedAt = time.Now()

	if err := s.profileRepo.UpdateProfile(profile); err != nil {
		s.logger.Error("failed to update profile",
			zap.String("op", "UpdateProfile"),
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, ErrInternal
	}
	return profile, nil
}

func (s *profileService) SearchProfiles(ctx context.Context, query string, limit int) ([]models.Profile, error) {
	profiles, err := s.profileRepo.SearchProfiles(query, limit)
	if err != nil {
		s.logger.Error("failed to search profiles",
			zap.String("op", "SearchProfiles"),
			zap.String("query", query),
			zap.Error(err))
		return nil, ErrInternal
	}
	return profiles, nil
}
