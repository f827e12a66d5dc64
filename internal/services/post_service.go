package services

import (
	"context"

	"github.com/anxyhq/anxy-backend/internal/models"
	"github.com/anxyhq/anxy-backend/internal/repositories"
	"go.uber.org/zap"
)

// PostService owns post lifecycle and the ownership rule: only the stored
// author may edit or delete, and anonymous posts (nil author) are editable
// by no one.
type PostService interface {
	CreatePost(ctx context.Context, authorID, authorName string, req models.CreatePostRequest) (*models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	GetPostByShortURL(ctx context.Context, authorID string, number int64) (*models.Post, error)
	ListPublicPosts(ctx context.Context, skip, limit int64) ([]models.Post, error)
	ListPostsByAuthor(ctx context.Context, authorID string, skip, limit int64) ([]models.Post, error)
	UpdatePost(ctx context.Context, id, userID string, req models.UpdatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, id, userID string) error
}

type postService struct {
	postRepo repositories.PostRepository
	logger   *zap.Logger
}

// NewPostService creates a PostService
func NewPostService(postRepo repositories.PostRepository, logger *zap.Logger) PostService {
	return &postService{postRepo: postRepo, logger: logger}
}

func (s *postService) CreatePost(ctx context.Context, authorID, authorName string, req models.CreatePostRequest) (*models.Post, error) {
	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}

	post := &models.Post{
		Title:       req.Title,
		Content:     req.Content,
		IsAnonymous: req.IsAnonymous,
		Visibility:  visibility,
	}
	if req.IsAnonymous {
		post.AuthorID = nil
		post.AuthorName = models.AnonymousAuthorName
	} else {
		post.AuthorID = &authorID
		post.AuthorName = authorName
	}

	if err := s.postRepo.CreatePost(ctx, post); err != nil {
		s.logger.Error("failed to create post",
			zap.String("op", "CreatePost"),
			zap.String("author_id", authorID),
			zap.Error(err))
		return nil, ErrInternal
	}
	return post, nil
}

func (s *postService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.postRepo.GetPostByID(ctx, id)
	if err != nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *postService) GetPostByShortURL(ctx context.Context, authorID string, number int64) (*models.Post, error) {
	post, err := s.postRepo.GetPostByAuthorAndNumber(ctx, authorID, number)
	if err != nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *postService) ListPublicPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	posts, err := s.postRepo.GetPublicPosts(ctx, skip, limit)
	if err != nil {
		s.logger.Error("failed to list public posts",
			zap.String("op", "ListPublicPosts"),
			zap.Error(err))
		return nil, ErrInternal
	}
	return posts, nil
}

func (s *postService) ListPostsByAuthor(ctx context.Context, authorID string, skip, limit int64) ([]models.Post, error) {
	posts, err := s.postRepo.GetPostsByAuthorID(ctx, authorID, skip, limit)
	if err != nil {
		s.logger.Error("failed to list author posts",
			zap.String("op", "ListPostsByAuthor"),
			zap.String("author_id", authorID),
			zap.Error(err))
		return nil, ErrInternal
	}
	return posts, nil
}

// checkOwnership rejects when the stored author is nil (anonymous posts are
// locked) or differs from the caller.
func checkOwnership(post *models.Post, userID string) error {
	if post.AuthorID == nil || *post.AuthorID != userID {
		return ErrNotPostOwner
	}
	return nil
}

func (s *postService) UpdatePost(ctx context.Context, id, userID string, req models.UpdatePostRequest) (*models.Post, error) {
	post, err := s.postRepo.GetPostByID(ctx, id)
	if err != nil {
		return nil, ErrPostNotFound
	}
	if err := checkOwnership(post, userID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Visibility != nil {
		post.Visibility = *req.Visibility
	}

	if err := s.postRepo.UpdatePost(ctx, id, post); err != nil {
		s.logger.Error("failed to update post",
			zap.String("op", "UpdatePost"),
			zap.String("post_id", id),
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, ErrInternal
	}
	return post, nil
}

func (s *postService) DeletePost(ctx context.Context, id, userID string) error {
	post, err := s.postRepo.GetPostByID(ctx, id)
	if err != nil {
		return ErrPostNotFound
	}
	if err := checkOwnership(post, userID); err != nil {
		return err
	}

	if err := s.postRepo.DeletePost(ctx, id); err != nil {
		s.logger.Error("failed to delete post",
			zap.String("op", "DeletePost"),
			zap.String("post_id", id),
			zap.String("user_id", userID),
			zap.Error(err))
		return ErrInternal
	}
	return nil
}
