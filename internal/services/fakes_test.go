package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anxyhq/anxy-backend/internal/models"
	"github.com/anxyhq/anxy-backend/internal/notify"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// In-memory repository doubles. They mirror the contract of the real
// implementations closely enough for service-level tests: not-found maps to
// gorm.ErrRecordNotFound, conflict-tolerant inserts report inserted=false
// on duplicates.

type fakeProfileRepo struct {
	profiles map[string]*models.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*models.Profile)}
}

func (r *fakeProfileRepo) CreateProfile(profile *models.Profile) error {
	r.profiles[profile.ID] = profile
	return nil
}

func (r *fakeProfileRepo) GetProfileByID(id string) (*models.Profile, error) {
	if p, ok := r.profiles[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProfileRepo) GetProfileByUsername(username string) (*models.Profile, error) {
	for _, p := range r.profiles {
		if p.Username == username {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProfileRepo) GetProfileByEmail(email string) (*models.Profile, error) {
	for _, p := range r.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProfileRepo) UsernameExists(username string) (bool, error) {
	_, err := r.GetProfileByUsername(username)
	return err == nil, nil
}

func (r *fakeProfileRepo) UpdateProfile(profile *models.Profile) error {
	r.profiles[profile.ID] = profile
	return nil
}

func (r *fakeProfileRepo) DeleteProfile(id string) error {
	delete(r.profiles, id)
	return nil
}

func (r *fakeProfileRepo) SearchProfiles(query string, limit int) ([]models.Profile, error) {
	var out []models.Profile
	q := strings.ToLower(query)
	for _, p := range r.profiles {
		if len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(p.Username), q) || strings.Contains(strings.ToLower(p.DisplayName), q) {
			out = append(out, *p)
		}
	}
	return out, nil
}

type followKey struct{ follower, following string }

type fakeFollowRepo struct {
	edges map[followKey]bool
	// forceConflict makes the next insert behave like a lost race: the edge
	// materializes but inserted reads false.
	forceConflict bool
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{edges: make(map[followKey]bool)}
}

func (r *fakeFollowRepo) CreateFollow(follow *models.Follow) (bool, error) {
	key := followKey{follow.FollowerID, follow.FollowingID}
	if r.forceConflict {
		r.forceConflict = false
		r.edges[key] = true
		return false, nil
	}
	if r.edges[key] {
		return false, nil
	}
	r.edges[key] = true
	return true, nil
}

func (r *fakeFollowRepo) DeleteFollow(followerID, followingID string) (bool, error) {
	key := followKey{followerID, followingID}
	if !r.edges[key] {
		return false, nil
	}
	delete(r.edges, key)
	return true, nil
}

func (r *fakeFollowRepo) IsFollowing(followerID, followingID string) (bool, error) {
	return r.edges[followKey{followerID, followingID}], nil
}

func (r *fakeFollowRepo) GetFollowers(userID string, offset, limit int) ([]models.Profile, int64, error) {
	return nil, 0, nil
}

func (r *fakeFollowRepo) GetFollowing(userID string, offset, limit int) ([]models.Profile, int64, error) {
	return nil, 0, nil
}

func (r *fakeFollowRepo) GetFollowersCount(userID string) (int64, error) {
	var n int64
	for key := range r.edges {
		if key.following == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakeFollowRepo) GetFollowingCount(userID string) (int64, error) {
	var n int64
	for key := range r.edges {
		if key.follower == userID {
			n++
		}
	}
	return n, nil
}

type likeKey struct{ user, post string }

type fakeLikeRepo struct {
	likes         map[likeKey]bool
	forceConflict bool
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: make(map[likeKey]bool)}
}

func (r *fakeLikeRepo) CreatePostLike(like *models.PostLike) (bool, error) {
	key := likeKey{like.UserID, like.PostID}
	if r.forceConflict {
		r.forceConflict = false
		r.likes[key] = true
		return false, nil
	}
	if r.likes[key] {
		return false, nil
	}
	r.likes[key] = true
	return true, nil
}

func (r *fakeLikeRepo) DeletePostLike(postID, userID string) (bool, error) {
	key := likeKey{userID, postID}
	if !r.likes[key] {
		return false, nil
	}
	delete(r.likes, key)
	return true, nil
}

func (r *fakeLikeRepo) HasUserLikedPost(postID, userID string) (bool, error) {
	return r.likes[likeKey{userID, postID}], nil
}

func (r *fakeLikeRepo) GetLikesCountByPostID(postID string) (int64, error) {
	var n int64
	for key := range r.likes {
		if key.post == postID {
			n++
		}
	}
	return n, nil
}

type fakeCommentRepo struct {
	comments map[string]*models.Comment
	nextID   int
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]*models.Comment)}
}

func (r *fakeCommentRepo) CreateComment(comment *models.Comment) error {
	if comment.ID == "" {
		r.nextID++
		comment.ID = fmt.Sprintf("comment-%d", r.nextID)
	}
	clone := *comment
	r.comments[comment.ID] = &clone
	return nil
}

func (r *fakeCommentRepo) GetCommentByID(id string) (*models.Comment, error) {
	if c, ok := r.comments[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCommentRepo) GetCommentsByPostID(postID string, offset, limit int) ([]models.Comment, int64, error) {
	var out []models.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeCommentRepo) UpdateComment(comment *models.Comment) error {
	clone := *comment
	r.comments[comment.ID] = &clone
	return nil
}

func (r *fakeCommentRepo) DeleteComment(id string) error {
	delete(r.comments, id)
	return nil
}

type fakePostRepo struct {
	posts map[string]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*models.Post)}
}

// addPost seeds a post and returns its hex id.
func (r *fakePostRepo) addPost(post *models.Post) string {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	r.posts[post.ID.Hex()] = post
	return post.ID.Hex()
}

func (r *fakePostRepo) CreatePost(ctx context.Context, post *models.Post) error {
	r.addPost(post)
	return nil
}

func (r *fakePostRepo) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	if p, ok := r.posts[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("post %s not found", id)
}

func (r *fakePostRepo) GetPostByAuthorAndNumber(ctx context.Context, authorID string, postNumber int64) (*models.Post, error) {
	for _, p := range r.posts {
		if p.AuthorID != nil && *p.AuthorID == authorID && p.PostNumber == postNumber {
			return p, nil
		}
	}
	return nil, fmt.Errorf("post not found")
}

func (r *fakePostRepo) GetPostsByAuthorID(ctx context.Context, authorID string, skip, limit int64) ([]models.Post, error) {
	var out []models.Post
	for _, p := range r.posts {
		if p.AuthorID != nil && *p.AuthorID == authorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePostRepo) GetPublicPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	var out []models.Post
	for _, p := range r.posts {
		if p.Visibility == models.VisibilityPublic {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePostRepo) UpdatePost(ctx context.Context, id string, post *models.Post) error {
	r.posts[id] = post
	return nil
}

func (r *fakePostRepo) DeletePost(ctx context.Context, id string) error {
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) IncrementLikesCount(ctx context.Context, postID string) error {
	if p, ok := r.posts[postID]; ok {
		p.LikesCount++
	}
	return nil
}

func (r *fakePostRepo) DecrementLikesCount(ctx context.Context, postID string) error {
	if p, ok := r.posts[postID]; ok {
		p.LikesCount--
	}
	return nil
}

func (r *fakePostRepo) IncrementCommentsCount(ctx context.Context, postID string) error {
	if p, ok := r.posts[postID]; ok {
		p.CommentsCount++
	}
	return nil
}

func (r *fakePostRepo) DecrementCommentsCount(ctx context.Context, postID string) error {
	if p, ok := r.posts[postID]; ok {
		p.CommentsCount--
	}
	return nil
}

type fakeNotificationRepo struct {
	notifications []*models.Notification
	nextID        int
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) CreateNotification(notification *models.Notification) error {
	if notification.ID == "" {
		r.nextID++
		notification.ID = fmt.Sprintf("n-%d", r.nextID)
	}
	clone := *notification
	r.notifications = append(r.notifications, &clone)
	return nil
}

func (r *fakeNotificationRepo) GetByUserID(userID string, offset, limit int) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) GetUnreadCount(userID string) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(notificationID, userID string) (*models.Notification, bool, error) {
	for _, n := range r.notifications {
		if n.ID == notificationID && n.UserID == userID {
			changed := !n.IsRead
			if changed {
				now := time.Now()
				n.IsRead = true
				n.ReadAt = &now
			}
			clone := *n
			return &clone, changed, nil
		}
	}
	return nil, false, nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(userID string) ([]models.Notification, error) {
	var updated []models.Notification
	now := time.Now()
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &now
			updated = append(updated, *n)
		}
	}
	return updated, nil
}

func (r *fakeNotificationRepo) DeleteNotification(notificationID, userID string) (bool, error) {
	for i, n := range r.notifications {
		if n.ID == notificationID && n.UserID == userID {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakePublisher struct {
	events []notify.Event
}

func (p *fakePublisher) Publish(ctx context.Context, event notify.Event) error {
	p.events = append(p.events, event)
	return nil
}
