package livefeed

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/anxyhq/anxy-backend/internal/models"
	"github.com/anxyhq/anxy-backend/internal/notify"
)

type fakeLoader struct {
	notifications []models.Notification
	unread        int64
	loadErr       error
}

func (l *fakeLoader) GetNotifications(ctx context.Context, userID string, offset, limit int) ([]models.Notification, error) {
	if l.loadErr != nil {
		return nil, l.loadErr
	}
	if offset >= len(l.notifications) {
		return nil, nil
	}
	end := offset + limit
	if end > len(l.notifications) {
		end = len(l.notifications)
	}
	return l.notifications[offset:end], nil
}

func (l *fakeLoader) GetUnreadCount(ctx context.Context, userID string) (int64, error) {
	if l.loadErr != nil {
		return 0, l.loadErr
	}
	return l.unread, nil
}

type fakeSubscription struct {
	events chan notify.Event
	closed bool
}

func (s *fakeSubscription) Events() <-chan notify.Event { return s.events }

func (s *fakeSubscription) Close() error {
	if !s.closed {
		s.closed = true
		close(s.events)
	}
	return nil
}

type fakeSubscriber struct {
	sub          *fakeSubscription
	subscribeErr error
}

func (s *fakeSubscriber) Subscribe(ctx context.Context, userID string) (notify.Subscription, error) {
	if s.subscribeErr != nil {
		return nil, s.subscribeErr
	}
	s.sub = &fakeSubscription{events: make(chan notify.Event, 16)}
	return s.sub, nil
}

func notification(id string) models.Notification {
	return models.Notification{
		ID:        id,
		UserID:    "u1",
		ActorName: "Actor",
		Type:      models.NotificationTypePostLike,
		Title:     "Actor liked your post",
		CreatedAt: time.Now(),
	}
}

func openTestFeed(t *testing.T, loader *fakeLoader) (*Feed, *fakeSubscriber) {
	t.Helper()
	subscriber := &fakeSubscriber{}
	feed, err := Open(context.Background(), loader, subscriber, "u1", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { feed.Close() })
	return feed, subscriber
}

func TestOpen_LoadsInitialPageAndUnread(t *testing.T) {
	loader := &fakeLoader{
		notifications: []models.Notification{notification("a"), notification("b")},
		unread:        1,
	}
	feed, _ := openTestFeed(t, loader)

	snap := feed.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	require.Len(t, snap.Notifications, 2)
	assert.Equal(t, "a", snap.Notifications[0].ID)
	assert.Equal(t, int64(1), snap.UnreadCount)
}

func TestOpen_LoadFailureStillReachesReady(t *testing.T) {
	loader := &fakeLoader{loadErr: errors.New("backend down")}
	feed, _ := openTestFeed(t, loader)

	snap := feed.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.Empty(t, snap.Notifications)
	assert.Equal(t, int64(0), snap.UnreadCount)
}

func TestOpen_SubscribeFailureStillReachesReady(t *testing.T) {
	loader := &fakeLoader{unread: 0}
	subscriber := &fakeSubscriber{subscribeErr: errors.New("bus down")}

	feed, err := Open(context.Background(), loader, subscriber, "u1", zap.NewNop())
	require.NoError(t, err)
	defer feed.Close()

	assert.Equal(t, StateReady, feed.Snapshot().State)
}

func TestApplyInsert_PrependsAndBumpsUnread(t *testing.T) {
	feed, _ := openTestFeed(t, &fakeLoader{
		notifications: []models.Notification{notification("old")},
	})

	feed.Apply(notify.Event{Kind: notify.EventInsert, Notification: notification("new")})

	snap := feed.Snapshot()
	require.Len(t, snap.Notifications, 2)
	assert.Equal(t, "new", snap.Notifications[0].ID)
	assert.Equal(t, "old", snap.Notifications[1].ID)
	assert.Equal(t, int64(1), snap.UnreadCount)
}

func TestApplyInsert_CapsListLength(t *testing.T) {
	feed, _ := openTestFeed(t, &fakeLoader{})

	for i := 0; i < FeedCap+5; i++ {
		feed.Apply(notify.Event{Kind: notify.EventInsert, Notification: notification(fmt.Sprintf("n%d", i))})
	}

	snap := feed.Snapshot()
	assert.Len(t, snap.Notifications, FeedCap)
	// Newest stays, oldest fell off the end.
	assert.Equal(t, fmt.Sprintf("n%d", FeedCap+4), snap.Notifications[0].ID)
	// Unread tracks every insert, not just the retained window.
	assert.Equal(t, int64(FeedCap+5), snap.UnreadCount)
}

func TestApplyInsert_DuplicateIsNoOp(t *testing.T) {
	feed, _ := openTestFeed(t, &fakeLoader{})

	n := notification("dup")
	feed.Apply(notify.Event{Kind: notify.EventInsert, Notification: n})
	feed.Apply(notify.Event{Kind: notify.EventInsert, Notification: n})

	snap := feed.Snapshot()
	assert.Len(t, snap.Notifications, 1)
	assert.Equal(t, int64(1), snap.UnreadCount)
}

func TestMarkAsRead_EchoOfOptimisticReadIsNoOp(t *testing.T) {
	feed, _ := openTestFeed(t, &fakeLoader{
		notifications: []models.Notification{notification("a")},
		unread:        1,
	})

	// Local optimistic read first.
	feed.MarkAsRead("a")
	snap := feed.Snapshot()
	assert.True(t, snap.Notifications[0].IsRead)
	assert.Equal(t, int64(0), snap.UnreadCount)

	// Then the bus echoes the same change back.
	now := time.Now()
	echoed := notification("a")
	echoed.IsRead = true
	echoed.ReadAt = &now
	feed.Apply(notify.Event{Kind: notify.EventUpdate, Notification: echoed})

	snap = feed.Snapshot()
	assert.True(t, snap.Notifications[0].IsRead)
	assert.Equal(t, int64(0), snap.UnreadCount)
}

func TestApplyUpdate_UnknownIDIsIgnored(t *testing.T) {
	feed, _ := openTestFeed(t, &fakeLoader{
		notifications: []models.Notification{notification("a")},
		unread:        1,
	})

	ghost := notification("ghost")
	ghost.IsRead = true
	feed.Apply(notify.Event{Kind: notify.EventUpdate, Notification: ghost})

	snap := feed.Snapshot()
	assert.Len(t, snap.Notifications, 1)
	assert.Equal(t, int64(1), snap.UnreadCount)
}

func TestUnreadNeverGoesNegative(t *testing.T) {
	feed, _ := openTestFeed(t, &fakeLoader{
		notifications: []models.Notification{notification("a")},
		unread:        0,
	})

	feed.MarkAsRead("a")
	assert.Equal(t, int64(0), feed.Snapshot().UnreadCount)
}

func TestMarkAllAsRead_ZeroesUnread(t *testing.T) {
	feed, _ := openTestFeed(t, &fakeLoader{
		notifications: []models.Notification{notification("a"), notification("b")},
		unread:        5,
	})

	feed.MarkAllAsRead()

	snap := feed.Snapshot()
	for _, n := range snap.Notifications {
		assert.True(t, n.IsRead)
		assert.NotNil(t, n.ReadAt)
	}
	assert.Equal(t, int64(0), snap.UnreadCount)
}

func TestPushedEventsReachTheFeed(t *testing.T) {
	feed, subscriber := openTestFeed(t, &fakeLoader{})

	subscriber.sub.events <- notify.Event{Kind: notify.EventInsert, Notification: notification("pushed")}

	require.Eventually(t, func() bool {
		snap := feed.Snapshot()
		return len(snap.Notifications) == 1 && snap.Notifications[0].ID == "pushed"
	}, time.Second, 5*time.Millisecond)
}

func TestChanges_CoalescesSignals(t *testing.T) {
	feed, _ := openTestFeed(t, &fakeLoader{})

	for i := 0; i < 5; i++ {
		feed.Apply(notify.Event{Kind: notify.EventInsert, Notification: notification(fmt.Sprintf("n%d", i))})
	}

	// Several mutations collapse to one pending signal.
	select {
	case <-feed.Changes():
	default:
		t.Fatal("expected a pending change signal")
	}
	select {
	case <-feed.Changes():
		t.Fatal("expected signals to be coalesced")
	default:
	}
}

func TestClose_ReleasesSubscriptionOnce(t *testing.T) {
	feed, subscriber := openTestFeed(t, &fakeLoader{})

	require.NoError(t, feed.Close())
	assert.True(t, subscriber.sub.closed)
	// Second close is a no-op.
	require.NoError(t, feed.Close())
}
