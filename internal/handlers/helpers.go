package handlers

import (
	"net/http"
	"strconv"

	"github.com/anxyhq/anxy-backend/internal/services"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext returns the authenticated user's id, or "" when the
// request is unauthenticated.
func getUserIDFromContext(c echo.Context) string {
	if id, ok := c.Get("userID").(string); ok {
		return id
	}
	return ""
}

// serviceError maps a service error to an HTTP error. Unknown errors become
// a generic 500; the raw cause never reaches the client.
func serviceError(err error) *echo.HTTPError {
	if status, ok := services.ErrorStatus[err]; ok {
		return echo.NewHTTPError(status, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, services.ErrInternal.Error())
}

// parsePagination reads offset/limit query params with bounds.
func parsePagination(c echo.Context, defaultLimit, maxLimit int) (int, int) {
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	return offset, limit
}
