package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anxyhq/anxy-backend/internal/models"
)

func TestCreatePostLike_DuplicateIsAbsorbed(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostLikeRepository(db)

	inserted, err := repo.CreatePostLike(&models.PostLike{UserID: "u1", PostID: "post1"})
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.CreatePostLike(&models.PostLike{UserID: "u1", PostID: "post1"})
	require.NoError(t, err)
	assert.False(t, inserted)

	count, err := repo.GetLikesCountByPostID("post1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestDeletePostLike_ReportsWhetherRowExisted(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostLikeRepository(db)

	removed, err := repo.DeletePostLike("post1", "u1")
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = repo.CreatePostLike(&models.PostLike{UserID: "u1", PostID: "post1"})
	require.NoError(t, err)

	removed, err = repo.DeletePostLike("post1", "u1")
	require.NoError(t, err)
	assert.True(t, removed)

	liked, err := repo.HasUserLikedPost("post1", "u1")
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestHasUserLikedPost_ScopedToUserAndPost(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostLikeRepository(db)

	_, err := repo.CreatePostLike(&models.PostLike{UserID: "u1", PostID: "post1"})
	require.NoError(t, err)

	liked, err := repo.HasUserLikedPost("post1", "u1")
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = repo.HasUserLikedPost("post1", "u2")
	require.NoError(t, err)
	assert.False(t, liked)

	liked, err = repo.HasUserLikedPost("post2", "u1")
	require.NoError(t, err)
	assert.False(t, liked)
}
