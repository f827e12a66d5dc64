package handlers

import (
	"net/http"

	"github.com/anxyhq/anxy-backend/internal/models"
	"github.com/anxyhq/anxy-backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	followService services.FollowService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followService services.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.FollowUser)
	g.DELETE("/users/:id/follow", h.UnfollowUser)
	g.POST("/users/:id/follow/toggle", h.ToggleFollow)
	g.GET("/users/:id/follow/status", h.GetFollowStatus)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
}

// FollowUser follows a user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	targetID := c.Param("id")

	if err := h.followService.FollowUser(c.Request().Context(), currentUserID, targetID); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": true}})
}

// UnfollowUser unfollows a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	targetID := c.Param("id")

	if err := h.followService.UnfollowUser(c.Request().Context(), currentUserID, targetID); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": false}})
}

// ToggleFollow flips the follow state and reports the result
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	targetID := c.Param("id")

	isFollowing, err := h.followService.ToggleFollow(c.Request().Context(), currentUserID, targetID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": isFollowing}})
}

// GetFollowStatus reports whether the current user follows the target
func (h *FollowHandler) GetFollowStatus(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	targetID := c.Param("id")

	isFollowing, err := h.followService.CheckFollowStatus(c.Request().Context(), currentUserID, targetID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"following": isFollowing})
}

func compactProfiles(profiles []models.Profile) []models.ProfileCompact {
	compact := make([]models.ProfileCompact, len(profiles))
	for i := range profiles {
		compact[i] = profiles[i].ToCompact()
	}
	return compact
}

// GetFollowers lists the (non-private) followers of a user with the total edge count
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	targetID := c.Param("id")
	offset, limit := parsePagination(c, 20, 50)

	profiles, total, err := h.followService.GetFollowers(c.Request().Context(), targetID, offset, limit)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": compactProfiles(profiles), "total": total})
}

// GetFollowing lists the (non-private) profiles a user follows with the total edge count
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	targetID := c.Param("id")
	offset, limit := parsePagination(c, 20, 50)

	profiles, total, err := h.followService.GetFollowing(c.Request().Context(), targetID, offset, limit)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": compactProfiles(profiles), "total": total})
}
