package services

import (
	"context"
	"errors"

	"github.com/anxyhq/anxy-backend/internal/models"
	"github.com/anxyhq/anxy-backend/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FollowService implements the social graph rules: self-follow prevention,
// follow permission, duplicate suppression, and the privacy-filtered
// follower/following listings.
//
// Following deliberately does not create a NEW_FOLLOWER notification; the
// type exists in the taxonomy but the follow path never emits it.
type FollowService interface {
	FollowUser(ctx context.Context, followerID, followingID string) error
	UnfollowUser(ctx context.Context, followerID, followingID string) error
	CheckFollowStatus(ctx context.Context, followerID, followingID string) (bool, error)
	ToggleFollow(ctx context.Context, followerID, followingID string) (bool, error)
	GetFollowers(ctx context.Context, userID string, offset, limit int) ([]models.Profile, int64, error)
	GetFollowing(ctx context.Context, userID string, offset, limit int) ([]models.Profile, int64, error)
	GetFollowerCount(ctx context.Context, userID string) (int64, error)
	GetFollowingCount(ctx context.Context, userID string) (int64, error)
}

type followService struct {
	followRepo  repositories.FollowRepository
	profileRepo repositories.ProfileRepository
	logger      *zap.Logger
}

// NewFollowService creates a FollowService
func NewFollowService(followRepo repositories.FollowRepository, profileRepo repositories.ProfileRepository, logger *zap.Logger) FollowService {
	return &followService{
		followRepo:  followRepo,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

func (s *followService) FollowUser(ctx context.Context, followerID, followingID string) error {
	if followerID == followingID {
		return ErrFollowSelf
	}

	target, err := s.profileRepo.GetProfileByID(followingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("failed to load follow target",
			zap.String("op", "FollowUser"),
			zap.String("follower_id", followerID),
			zap.String("following_id", followingID),
			zap.Error(err))
		return ErrInternal
	}
	if !target.AllowFollow {
		return ErrFollowNotAllowed
	}

	isFollowing, err := s.followRepo.IsFollowing(followerID, followingID)
	if err != nil {
		s.logger.Error("failed to check follow status",
			zap.String("op", "FollowUser"),
			zap.String("follower_id", followerID),
			zap.String("following_id", followingID),
			zap.Error(err))
		return ErrInternal
	}
	if isFollowing {
		return ErrAlreadyFollowing
	}

	inserted, err := s.followRepo.CreateFollow(&models.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
	})
	if err != nil {
		s.logger.Error("failed to create follow edge",
			zap.String("op", "FollowUser"),
			zap.String("follower_id", followerID),
			zap.String("following_id", followingID),
			zap.Error(err))
		return ErrInternal
	}
	// A concurrent follow raced us to the unique index; same terminal state.
	if !inserted {
		return ErrAlreadyFollowing
	}
	return nil
}

// UnfollowUser removes the edge. Removing a missing edge succeeds, which
// keeps double-clicks and concurrent tabs harmless.
func (s *followService) UnfollowUser(ctx context.Context, followerID, followingID string) error {
	if _, err := s.followRepo.DeleteFollow(followerID, followingID); err != nil {
		s.logger.Error("failed to delete follow edge",
			zap.String("op", "UnfollowUser"),
			zap.String("follower_id", followerID),
			zap.String("following_id", followingID),
			zap.Error(err))
		return ErrInternal
	}
	return nil
}

func (s *followService) CheckFollowStatus(ctx context.Context, followerID, followingID string) (bool, error) {
	isFollowing, err := s.followRepo.IsFollowing(followerID, followingID)
	if err != nil {
		s.logger.Error("failed to check follow status",
			zap.String("op", "CheckFollowStatus"),
			zap.String("follower_id", followerID),
			zap.String("following_id", followingID),
			zap.Error(err))
		return false, ErrInternal
	}
	return isFollowing, nil
}

// ToggleFollow reads the current state and flips it. The check and the write
// are separate statements; the unique index resolves any race in favor of a
// single edge. Returns the resulting following state.
func (s *followService) ToggleFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	isFollowing, err := s.CheckFollowStatus(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}

	if isFollowing {
		if err := s.UnfollowUser(ctx, followerID, followingID); err != nil {
			return true, err
		}
		return false, nil
	}

	if err := s.FollowUser(ctx, followerID, followingID); err != nil {
		// The race lost to another follower; the desired state holds.
		if errors.Is(err, ErrAlreadyFollowing) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

func (s *followService) GetFollowers(ctx context.Context, userID string, offset, limit int) ([]models.Profile, int64, error) {
	profiles, total, err := s.followRepo.GetFollowers(userID, offset, limit)
	if err != nil {
		s.logger.Error("failed to list followers",
			zap.String("op", "GetFollowers"),
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, 0, ErrInternal
	}
	return profiles, total, nil
}

func (s *followService) GetFollowing(ctx context.Context, userID string, offset, limit int) ([]models.Profile, int64, error) {
	profiles, total, err := s.followRepo.GetFollowing(userID, offset, limit)
	if err != nil {
		s.logger.Error("failed to list following",
			zap.String("op", "GetFollowing"),
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, 0, ErrInternal
	}
	return profiles, total, nil
}

func (s *followService) GetFollowerCount(ctx context.Context, userID string) (int64, error) {
	count, err := s.followRepo.GetFollowersCount(userID)
	if err != nil {
		s.logger.Error("failed to count followers",
			zap.String("op", "GetFollowerCount"),
			zap.String("user_id", userID),
			zap.Error(err))
		return 0, ErrInternal
	}
	return count, nil
}

func (s *followService) GetFollowingCount(ctx context.Context, userID string) (int64, error) {
	count, err := s.followRepo.GetFollowingCount(userID)
	if err != nil {
		s.logger.Error("failed to count following",
			zap.String("op", "GetFollowingCount"),
			zap.String("user_id", userID),
			zap.Error(err))
		return 0, ErrInternal
	}
	return count, nil
}
