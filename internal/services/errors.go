package services

import (
	"errors"
	"net/http"
)

var (
	ErrFollowSelf         = errors.New("cannot follow self")
	ErrAlreadyFollowing   = errors.New("already following")
	ErrFollowNotAllowed   = errors.New("user does not allow follows")
	ErrUserNotFound       = errors.New("user not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrNotCommentOwner    = errors.New("not the comment author")
	ErrNotPostOwner       = errors.New("not the post author")
	ErrEmptyContent       = errors.New("content cannot be empty")
	ErrContentTooLong     = errors.New("content is too long")
	ErrNotifySelf         = errors.New("cannot notify self")
	ErrActorNameRequired  = errors.New("actor name is required")
	ErrNotificationScope  = errors.New("notification not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInternal           = errors.New("something went wrong, please try again")
)

// ErrorStatus maps service errors to HTTP status codes. Handlers fall back
// to 500 with the generic message for anything not in the map.
var ErrorStatus = map[error]int{
	ErrFollowSelf:        http.StatusBadRequest,
	ErrAlreadyFollowing:  http.StatusConflict,
	ErrFollowNotAllowed:  http.StatusForbidden,
	ErrUserNotFound:      http.StatusNotFound,
	ErrPostNotFound:      http.StatusNotFound,
	ErrCommentNotFound:   http.StatusNotFound,
	ErrNotCommentOwner:   http.StatusForbidden,
	ErrNotPostOwner:      http.StatusForbidden,
	ErrEmptyContent:      http.StatusBadRequest,
	ErrContentTooLong:    http.StatusBadRequest,
	ErrNotifySelf:        http.StatusBadRequest,
	ErrActorNameRequired: http.StatusBadRequest,
	ErrNotificationScope: http.StatusNotFound,
	ErrUsernameTaken:     http.StatusConflict,
	ErrInvalidUsername:   http.StatusBadRequest,
	ErrInternal:          http.StatusInternalServerError,
}
