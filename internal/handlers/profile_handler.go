package handlers

import (
	"net/http"

	"github.com/anxyhq/anxy-backend/internal/models"
	"github.com/anxyhq/anxy-backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	profileService services.ProfileService
	followService  services.FollowService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService services.ProfileService, followService services.FollowService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		followService:  followService,
	}
}

// RegisterProfileRoutes registers profile-related routes
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profiles/me", h.GetMyProfile)
	g.GET("/profiles/:username", h.GetProfileByUsername)
	g.PUT("/profiles/me", h.UpdateMyProfile)
	g.GET("/profiles/search", h.SearchProfiles)
}

// GetMyProfile returns the authenticated user's own profile
func (h *ProfileHandler) GetMyProfile(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	profile, err := h.profileService.GetProfileByID(c.Request().Context(), userID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// GetProfileByUsername returns a profile with its follow counts
func (h *ProfileHandler) GetProfileByUsername(c echo.Context) error {
	username := c.Param("username")

	profile, err := h.profileService.GetProfileByUsername(c.Request().Context(), username)
	if err != nil {
		return serviceError(err)
	}

	followers, _ := h.followService.GetFollowerCount(c.Request().Context(), profile.ID)
	following, _ := h.followService.GetFollowingCount(c.Request().Context(), profile.ID)

	return c.JSON(http.StatusOK, echo.Map{
		"profile":         profile,
		"followers_count": followers,
		"following_count": following,
	})
}

// UpdateMyProfile applies edits to the authenticated user's own profile
func (h *ProfileHandler) UpdateMyProfile(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, err := h.profileService.UpdateProfile(c.Request().Context(), userID, req)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// SearchProfiles searches profiles by username or display name
func (h *ProfileHandler) SearchProfiles(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing search query")
	}

	profiles, err := h.profileService.SearchProfiles(c.Request().Context(), query, 20)
	if err != nil {
		return serviceError(err)
	}

	results := make([]models.ProfileCompact, len(profiles))
	for i := range profiles {
		results[i] = profiles[i].ToCompact()
	}
	return c.JSON(http.StatusOK, results)
}
