package livefeed

import (
	"context"
	"sync"
	"time"

	"github.com/anxyhq/anxy-backend/internal/models"
	"github.com/anxyhq/anxy-backend/internal/notify"
	"go.uber.org/zap"
)

// FeedCap is the number of notifications a feed keeps in memory.
const FeedCap = 10

// State is the feed lifecycle state. There is no error state: failures are
// logged and the feed stays wherever it last got to.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
)

// Loader supplies the one-time fetch merged with the push stream.
// services.NotificationService satisfies it.
type Loader interface {
	GetNotifications(ctx context.Context, userID string, offset, limit int) ([]models.Notification, error)
	GetUnreadCount(ctx context.Context, userID string) (int64, error)
}

// Snapshot is a point-in-time copy of the feed's client-visible state.
type Snapshot struct {
	State         State                 `json:"state"`
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unread_count"`
}

// Feed maintains a live, incrementally updated view of one user's newest
// notifications and unread count. It merges the initial fetch with push
// events from the bus, and applies local optimistic reads so that the bus
// echo of the same change is a no-op. All merge operations are keyed by
// notification id and safe to reapply in any order.
type Feed struct {
	userID string
	loader Loader
	logger *zap.Logger

	mu            sync.Mutex
	state         State
	notifications []models.Notification
	unread        int64

	sub       notify.Subscription
	changed   chan struct{}
	closeOnce sync.Once
}

// Open loads the first page and unread count, subscribes to the user's push
// channel, and starts applying events. A failed initial load logs and leaves
// empty defaults; the feed still reaches ready.
func Open(ctx context.Context, loader Loader, subscriber notify.Subscriber, userID string, logger *zap.Logger) (*Feed, error) {
	f := &Feed{
		userID:  userID,
		loader:  loader,
		logger:  logger,
		state:   StateIdle,
		changed: make(chan struct{}, 1),
	}

	f.mu.Lock()
	f.state = StateLoading
	f.mu.Unlock()

	notifications, err := loader.GetNotifications(ctx, userID, 0, FeedCap)
	if err != nil {
		logger.Error("failed to load initial notifications",
			zap.String("op", "livefeed.Open"),
			zap.String("user_id", userID),
			zap.Error(err))
		notifications = nil
	}
	unread, err := loader.GetUnreadCount(ctx, userID)
	if err != nil {
		logger.Error("failed to load unread count",
			zap.String("op", "livefeed.Open"),
			zap.String("user_id", userID),
			zap.Error(err))
		unread = 0
	}

	f.mu.Lock()
	f.notifications = notifications
	f.unread = unread
	f.state = StateReady
	f.mu.Unlock()

	sub, err := subscriber.Subscribe(ctx, userID)
	if err != nil {
		logger.Error("failed to open push subscription",
			zap.String("op", "livefeed.Open"),
			zap.String("user_id", userID),
			zap.Error(err))
	} else {
		f.sub = sub
		go f.run()
	}

	return f, nil
}

func (f *Feed) run() {
	for event := range f.sub.Events() {
		f.Apply(event)
	}
}

// Apply merges one push event into the feed state.
func (f *Feed) Apply(event notify.Event) {
	f.mu.Lock()
	switch event.Kind {
	case notify.EventInsert:
		f.applyInsert(event.Notification)
	case notify.EventUpdate:
		f.applyUpdate(event.Notification)
	}
	f.mu.Unlock()
	f.signal()
}

// applyInsert prepends the notification, keeps the cap, and bumps unread.
// A duplicate id means the insert was already applied; reapplying is a no-op.
func (f *Feed) applyInsert(n models.Notification) {
	for _, existing := range f.notifications {
		if existing.ID == n.ID {
			return
		}
	}
	f.notifications = append([]models.Notification{n}, f.notifications...)
	if len(f.notifications) > FeedCap {
		f.notifications = f.notifications[:FeedCap]
	}
	f.unread++
}

// applyUpdate replaces read-state fields by id. Unread only moves on a
// false-to-true transition, so replaying an already-applied update (for
// example the bus echo of a local optimistic read) changes nothing.
func (f *Feed) applyUpdate(n models.Notification) {
	for i := range f.notifications {
		if f.notifications[i].ID != n.ID {
			continue
		}
		wasRead := f.notifications[i].IsRead
		f.notifications[i].IsRead = n.IsRead
		f.notifications[i].ReadAt = n.ReadAt
		if !wasRead && n.IsRead {
			f.decrementUnread()
		}
		return
	}
}

func (f *Feed) decrementUnread() {
	if f.unread > 0 {
		f.unread--
	}
}

// MarkAsRead applies a local optimistic read for one notification. The
// server-side mutation happens elsewhere; the later push echo is absorbed
// by the same id-keyed merge.
func (f *Feed) MarkAsRead(notificationID string) {
	now := time.Now()
	f.mu.Lock()
	f.applyUpdate(models.Notification{
		ID:     notificationID,
		IsRead: true,
		ReadAt: &now,
	})
	f.mu.Unlock()
	f.signal()
}

// MarkAllAsRead applies a local optimistic read for every listed
// notification and zeroes the unread count.
func (f *Feed) MarkAllAsRead() {
	now := time.Now()
	f.mu.Lock()
	for i := range f.notifications {
		if !f.notifications[i].IsRead {
			f.notifications[i].IsRead = true
			f.notifications[i].ReadAt = &now
		}
	}
	f.unread = 0
	f.mu.Unlock()
	f.signal()
}

// Snapshot returns a copy of the current client-visible state.
func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	notifications := make([]models.Notification, len(f.notifications))
	copy(notifications, f.notifications)
	return Snapshot{
		State:         f.state,
		Notifications: notifications,
		UnreadCount:   f.unread,
	}
}

// Changes signals after every applied mutation. The channel is coalescing:
// consumers that fall behind see one pending signal, not a backlog.
func (f *Feed) Changes() <-chan struct{} {
	return f.changed
}

func (f *Feed) signal() {
	select {
	case f.changed <- struct{}{}:
	default:
	}
}

// Close releases the push subscription. Safe to call more than once.
func (f *Feed) Close() error {
	var err error
	f.closeOnce.Do(func() {
		if f.sub != nil {
			err = f.sub.Close()
		}
	})
	return err
}
