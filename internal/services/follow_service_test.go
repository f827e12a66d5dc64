package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/anxyhq/anxy-backend/internal/models"
)

func newFollowServiceForTest() (FollowService, *fakeFollowRepo, *fakeProfileRepo) {
	followRepo := newFakeFollowRepo()
	profileRepo := newFakeProfileRepo()
	svc := NewFollowService(followRepo, profileRepo, zap.NewNop())
	return svc, followRepo, profileRepo
}

func seedTestProfile(profileRepo *fakeProfileRepo, id string, allowFollow bool) {
	profileRepo.profiles[id] = &models.Profile{
		ID:          id,
		Username:    id,
		DisplayName: id,
		AllowFollow: allowFollow,
	}
}

func TestFollowUser_RejectsSelf(t *testing.T) {
	svc, _, profileRepo := newFollowServiceForTest()
	seedTestProfile(profileRepo, "u1", true)

	err := svc.FollowUser(context.Background(), "u1", "u1")
	assert.ErrorIs(t, err, ErrFollowSelf)
}

func TestFollowUser_TargetMissing(t *testing.T) {
	svc, _, _ := newFollowServiceForTest()

	err := svc.FollowUser(context.Background(), "u1", "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFollowUser_TargetDisallowsFollows(t *testing.T) {
	svc, _, profileRepo := newFollowServiceForTest()
	seedTestProfile(profileRepo, "u2", false)

	err := svc.FollowUser(context.Background(), "u1", "u2")
	assert.ErrorIs(t, err, ErrFollowNotAllowed)
}

func TestFollowUser_DuplicateFollow(t *testing.T) {
	svc, _, profileRepo := newFollowServiceForTest()
	seedTestProfile(profileRepo, "u2", true)

	require.NoError(t, svc.FollowUser(context.Background(), "u1", "u2"))
	err := svc.FollowUser(context.Background(), "u1", "u2")
	assert.ErrorIs(t, err, ErrAlreadyFollowing)
}

func TestFollowUser_LostInsertRaceIsDuplicate(t *testing.T) {
	svc, followRepo, profileRepo := newFollowServiceForTest()
	seedTestProfile(profileRepo, "u2", true)

	// The edge appears between the existence check and the insert.
	followRepo.forceConflict = true
	err := svc.FollowUser(context.Background(), "u1", "u2")
	assert.ErrorIs(t, err, ErrAlreadyFollowing)
}

func TestUnfollowUser_Idempotent(t *testing.T) {
	svc, _, profileRepo := newFollowServiceForTest()
	seedTestProfile(profileRepo, "u2", true)

	// Nothing to remove; still succeeds.
	require.NoError(t, svc.UnfollowUser(context.Background(), "u1", "u2"))

	require.NoError(t, svc.FollowUser(context.Background(), "u1", "u2"))
	require.NoError(t, svc.UnfollowUser(context.Background(), "u1", "u2"))
	require.NoError(t, svc.UnfollowUser(context.Background(), "u1", "u2"))

	following, err := svc.CheckFollowStatus(context.Background(), "u1", "u2")
	require.NoError(t, err)
	assert.False(t, following)
}

func TestToggleFollow_Oscillates(t *testing.T) {
	svc, _, profileRepo := newFollowServiceForTest()
	seedTestProfile(profileRepo, "u2", true)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		following, err := svc.ToggleFollow(ctx, "u1", "u2")
		require.NoError(t, err)
		assert.True(t, following)

		following, err = svc.ToggleFollow(ctx, "u1", "u2")
		require.NoError(t, err)
		assert.False(t, following)
	}
}

func TestToggleFollow_LostRaceStillReportsFollowing(t *testing.T) {
	svc, followRepo, profileRepo := newFollowServiceForTest()
	seedTestProfile(profileRepo, "u2", true)

	followRepo.forceConflict = true
	following, err := svc.ToggleFollow(context.Background(), "u1", "u2")
	require.NoError(t, err)
	assert.True(t, following)
}
