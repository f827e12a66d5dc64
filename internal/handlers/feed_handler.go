package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/anxyhq/anxy-backend/internal/livefeed"
	"github.com/anxyhq/anxy-backend/internal/models"
	"github.com/anxyhq/anxy-backend/internal/notify"
	"github.com/anxyhq/anxy-backend/internal/services"
	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const feedWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// feedCommand is a client-initiated optimistic read over the feed socket.
type feedCommand struct {
	Action         string `json:"action"` // mark_read | mark_all_read
	NotificationID string `json:"notification_id,omitempty"`
}

// FeedHandler serves the live notification feed over WebSocket. Each
// connection owns exactly one feed instance and therefore one push
// subscription, released when the connection ends.
type FeedHandler struct {
	notificationService services.NotificationService
	subscriber          notify.Subscriber
	jwtSecret           string
	logger              *zap.Logger
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(notificationService services.NotificationService, subscriber notify.Subscriber, jwtSecret string, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{
		notificationService: notificationService,
		subscriber:          subscriber,
		jwtSecret:           jwtSecret,
		logger:              logger,
	}
}

// RegisterFeedRoutes registers the feed WebSocket endpoint. The route does
// its own token check (WebSocket clients cannot set headers) so it is
// registered outside the JWT middleware group.
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed/ws", h.Connect)
}

// userIDFromToken validates the query-string JWT and extracts the user id
func userIDFromToken(tokenString, jwtSecret string) (string, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}
	return claims.UserID, nil
}

// Connect upgrades to WebSocket and streams feed snapshots. Incoming
// messages carry optimistic read commands which are applied locally and
// persisted; the bus echo of the same change is absorbed by the feed.
func (h *FeedHandler) Connect(c echo.Context) error {
	userID, err := userIDFromToken(c.QueryParam("token"), h.jwtSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed",
			zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	defer conn.Close()

	ctx := c.Request().Context()
	feed, err := livefeed.Open(ctx, h.notificationService, h.subscriber, userID, h.logger)
	if err != nil {
		h.logger.Error("failed to open live feed",
			zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	defer feed.Close()

	stop := make(chan struct{})

	// Read loop: apply client commands, detect disconnect.
	go func() {
		defer close(stop)
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var cmd feedCommand
			if err := json.Unmarshal(payload, &cmd); err != nil {
				h.logger.Warn("dropping malformed feed command",
					zap.String("user_id", userID), zap.Error(err))
				continue
			}
			switch cmd.Action {
			case "mark_read":
				feed.MarkAsRead(cmd.NotificationID)
				if err := h.notificationService.MarkAsRead(ctx, cmd.NotificationID, userID); err != nil {
					h.logger.Warn("failed to persist mark-as-read",
						zap.String("user_id", userID),
						zap.String("notification_id", cmd.NotificationID),
						zap.Error(err))
				}
			case "mark_all_read":
				feed.MarkAllAsRead()
				if err := h.notificationService.MarkAllAsRead(ctx, userID); err != nil {
					h.logger.Warn("failed to persist mark-all-as-read",
						zap.String("user_id", userID), zap.Error(err))
				}
			}
		}
	}()

	// Write loop: push a snapshot on connect and after every change.
	if err := h.writeSnapshot(conn, feed); err != nil {
		return nil
	}
	for {
		select {
		case <-feed.Changes():
			if err := h.writeSnapshot(conn, feed); err != nil {
				return nil
			}
		case <-stop:
			return nil
		}
	}
}

func (h *FeedHandler) writeSnapshot(conn *websocket.Conn, feed *livefeed.Feed) error {
	_ = conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
	return conn.WriteJSON(feed.Snapshot())
}
