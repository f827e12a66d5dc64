package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anxyhq/anxy-backend/internal/models"
	"github.com/anxyhq/anxy-backend/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// commentPreviewLength caps the comment excerpt embedded in notifications.
const commentPreviewLength = 50

// EngagementService implements like toggling and comment CRUD. Both mutation
// paths trigger best-effort notifications: the notification sub-step logs and
// swallows its own failures so the primary write's outcome never depends on it.
type EngagementService interface {
	TogglePostLike(ctx context.Context, postID, userID string) (bool, error)
	CreateComment(ctx context.Context, postID, authorID, authorName, content string) (*models.Comment, error)
	EditComment(ctx context.Context, commentID, authorID, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID, authorID string) error
	GetComments(ctx context.Context, postID string, offset, limit int) ([]models.Comment, int64, error)
}

type engagementService struct {
	likeRepo            repositories.PostLikeRepository
	commentRepo         repositories.CommentRepository
	postRepo            repositories.PostRepository
	profileRepo         repositories.ProfileRepository
	notificationService NotificationService
	logger              *zap.Logger
}

// NewEngagementService creates an EngagementService
func NewEngagementService(
	likeRepo repositories.PostLikeRepository,
	commentRepo repositories.CommentRepository,
	postRepo repositories.PostRepository,
	profileRepo repositories.ProfileRepository,
	notificationService NotificationService,
	logger *zap.Logger,
) EngagementService {
	return &engagementService{
		likeRepo:            likeRepo,
		commentRepo:         commentRepo,
		postRepo:            postRepo,
		profileRepo:         profileRepo,
		notificationService: notificationService,
		logger:              logger,
	}
}

// validateCommentContent trims and checks the content rules shared by create
// and edit. Returns the trimmed content.
func validateCommentContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", ErrEmptyContent
	}
	if len([]rune(trimmed)) > models.MaxCommentLength {
		return "", ErrContentTooLong
	}
	return trimmed, nil
}

// TogglePostLike flips the like edge for (userID, postID) and returns the
// resulting state. The unique index on the edge absorbs double-click races:
// a duplicate insert lands on the existing row and reads as already-liked.
func (s *engagementService) TogglePostLike(ctx context.Context, postID, userID string) (bool, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return false, ErrPostNotFound
	}

	hasLiked, err := s.likeRepo.HasUserLikedPost(postID, userID)
	if err != nil {
		s.logger.Error("failed to check like status",
			zap.String("op", "TogglePostLike"),
			zap.String("post_id", postID),
			zap.String("user_id", userID),
			zap.Error(err))
		return false, ErrInternal
	}

	if hasLiked {
		removed, err := s.likeRepo.DeletePostLike(postID, userID)
		if err != nil {
			s.logger.Error("failed to delete like",
				zap.String("op", "TogglePostLike"),
				zap.String("post_id", postID),
				zap.String("user_id", userID),
				zap.Error(err))
			return true, ErrInternal
		}
		if removed {
			if err := s.postRepo.DecrementLikesCount(ctx, postID); err != nil {
				s.logger.Warn("failed to decrement likes count",
					zap.String("post_id", postID), zap.Error(err))
			}
		}
		return false, nil
	}

	inserted, err := s.likeRepo.CreatePostLike(&models.PostLike{
		PostID: postID,
		UserID: userID,
	})
	if err != nil {
		s.logger.Error("failed to create like",
			zap.String("op", "TogglePostLike"),
			zap.String("post_id", postID),
			zap.String("user_id", userID),
			zap.Error(err))
		return false, ErrInternal
	}
	if !inserted {
		// Lost the race to a concurrent like by the same user; the edge
		// exists, so no counter bump and no second notification.
		return true, nil
	}

	if err := s.postRepo.IncrementLikesCount(ctx, postID); err != nil {
		s.logger.Warn("failed to increment likes count",
			zap.String("post_id", postID), zap.Error(err))
	}

	s.notifyPostLike(ctx, post, userID)
	return true, nil
}

// notifyPostLike creates the POST_LIKE notification for the post's author.
// Anonymous posts and self-likes produce none. Failures are logged only.
func (s *engagementService) notifyPostLike(ctx context.Context, post *models.Post, likerID string) {
	if post.AuthorID == nil || *post.AuthorID == likerID {
		return
	}

	liker, err := s.profileRepo.GetProfileByID(likerID)
	if err != nil {
		s.logger.Warn("skipping like notification, liker profile missing",
			zap.String("post_id", post.ID.Hex()),
			zap.String("user_id", likerID),
			zap.Error(err))
		return
	}

	postID := post.ID.Hex()
	message := post.Title
	_, err = s.notificationService.CreateNotification(ctx, models.CreateNotificationInput{
		UserID:         *post.AuthorID,
		ActorID:        &liker.ID,
		ActorName:      liker.DisplayName,
		ActorAvatarURL: liker.AvatarURL,
		Type:           models.NotificationTypePostLike,
		Title:          liker.DisplayName + " liked your post",
		Message:        &message,
		PostID:         &postID,
	})
	if err != nil {
		s.logger.Warn("failed to create like notification",
			zap.String("post_id", postID),
			zap.String("user_id", likerID),
			zap.Error(err))
	}
}

func (s *engagementService) CreateComment(ctx context.Context, postID, authorID, authorName, content string) (*models.Comment, error) {
	trimmed, err := validateCommentContent(content)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, ErrPostNotFound
	}

	comment := &models.Comment{
		PostID:     postID,
		AuthorID:   authorID,
		AuthorName: authorName,
		Content:    trimmed,
		CreatedAt:  time.Now(),
	}
	if err := s.commentRepo.CreateComment(comment); err != nil {
		s.logger.Error("failed to create comment",
			zap.String("op", "CreateComment"),
			zap.String("post_id", postID),
			zap.String("author_id", authorID),
			zap.Error(err))
		return nil, ErrInternal
	}

	if err := s.postRepo.IncrementCommentsCount(ctx, postID); err != nil {
		s.logger.Warn("failed to increment comments count",
			zap.String("post_id", postID), zap.Error(err))
	}

	s.notifyComment(ctx, post, comment)
	return comment, nil
}

// notifyComment creates the COMMENT notification for the post's author with
// a preview of the comment. Anonymous posts and self-comments produce none.
func (s *engagementService) notifyComment(ctx context.Context, post *models.Post, comment *models.Comment) {
	if post.AuthorID == nil || *post.AuthorID == comment.AuthorID {
		return
	}

	commenter, err := s.profileRepo.GetProfileByID(comment.AuthorID)
	if err != nil {
		s.logger.Warn("skipping comment notification, commenter profile missing",
			zap.String("post_id", comment.PostID),
			zap.String("author_id", comment.AuthorID),
			zap.Error(err))
		return
	}

	preview := comment.Content
	if runes := []rune(preview); len(runes) > commentPreviewLength {
		preview = string(runes[:commentPreviewLength]) + "..."
	}

	_, err = s.notificationService.CreateNotification(ctx, models.CreateNotificationInput{
		UserID:         *post.AuthorID,
		ActorID:        &commenter.ID,
		ActorName:      commenter.DisplayName,
		ActorAvatarURL: commenter.AvatarURL,
		Type:           models.NotificationTypeComment,
		Title:          commenter.DisplayName + " commented on your post",
		Message:        &preview,
		PostID:         &comment.PostID,
		CommentID:      &comment.ID,
	})
	if err != nil {
		s.logger.Warn("failed to create comment notification",
			zap.String("post_id", comment.PostID),
			zap.String("comment_id", comment.ID),
			zap.Error(err))
	}
}

func (s *engagementService) EditComment(ctx context.Context, commentID, authorID, content string) (*models.Comment, error) {
	trimmed, err := validateCommentContent(content)
	if err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetCommentByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		s.logger.Error("failed to load comment",
			zap.String("op", "EditComment"),
			zap.String("comment_id", commentID),
			zap.Error(err))
		return nil, ErrInternal
	}
	if comment.AuthorID != authorID {
		return nil, ErrNotCommentOwner
	}

	now := time.Now()
	comment.Content = trimmed
	comment.IsEdited = true
	comment.UpdatedAt = &now

	if err := s.commentRepo.UpdateComment(comment); err != nil {
		s.logger.Error("failed to update comment",
			zap.String("op", "EditComment"),
			zap.String("comment_id", commentID),
			zap.Error(err))
		return nil, ErrInternal
	}
	return comment, nil
}

func (s *engagementService) DeleteComment(ctx context.Context, commentID, authorID string) error {
	comment, err := s.commentRepo.GetCommentByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		s.logger.Error("failed to load comment",
			zap.String("op", "DeleteComment"),
			zap.String("comment_id", commentID),
			zap.Error(err))
		return ErrInternal
	}
	if comment.AuthorID != authorID {
		return ErrNotCommentOwner
	}

	if err := s.commentRepo.DeleteComment(commentID); err != nil {
		s.logger.Error("failed to delete comment",
			zap.String("op", "DeleteComment"),
			zap.String("comment_id", commentID),
			zap.Error(err))
		return ErrInternal
	}

	if err := s.postRepo.DecrementCommentsCount(ctx, comment.PostID); err != nil {
		s.logger.Warn("failed to decrement comments count",
			zap.String("post_id", comment.PostID), zap.Error(err))
	}
	return nil
}

func (s *engagementService) GetComments(ctx context.Context, postID string, offset, limit int) ([]models.Comment, int64, error) {
	comments, total, err := s.commentRepo.GetCommentsByPostID(postID, offset, limit)
	if err != nil {
		s.logger.Error("failed to list comments",
			zap.String("op", "GetComments"),
			zap.String("post_id", postID),
			zap.Error(err))
		return nil, 0, ErrInternal
	}
	return comments, total, nil
}
