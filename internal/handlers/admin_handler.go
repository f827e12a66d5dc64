package handlers

import (
	"errors"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/anxyhq/anxy-backend/internal/repositories"
	"github.com/anxyhq/anxy-backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"gorm.io/gorm"
)

// AdminHandler handles the profile self-heal and orphaned-account cleanup
// endpoints.
type AdminHandler struct {
	profileService services.ProfileService
	profileRepo    repositories.ProfileRepository
	firebaseAuth   *auth.Client
	logger         *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(profileService services.ProfileService, profileRepo repositories.ProfileRepository, firebaseAuthClient *auth.Client, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		profileService: profileService,
		profileRepo:    profileRepo,
		firebaseAuth:   firebaseAuthClient,
		logger:         logger,
	}
}

// RegisterAdminRoutes registers the self-heal route (authenticated group)
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/fix-profile", h.FixProfile)
}

// RegisterOrphanRoutes registers the orphaned-account cleanup routes
func (h *AdminHandler) RegisterOrphanRoutes(g *echo.Group) {
	g.GET("/orphaned-accounts", h.ListOrphanedAccounts)
	g.DELETE("/orphaned-accounts", h.DeleteOrphanedAccount)
}

// FixProfile is an idempotent self-heal: it creates a profile for the
// current identity if one is missing, deriving the username from the
// identity provider's metadata.
func (h *AdminHandler) FixProfile(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	hints := services.ProfileHints{}
	email := ""
	if h.firebaseAuth != nil {
		if record, err := h.firebaseAuth.GetUser(c.Request().Context(), userID); err == nil {
			email = record.Email
			hints.DisplayName = record.DisplayName
			if record.PhotoURL != "" {
				photo := record.PhotoURL
				hints.AvatarURL = &photo
			}
		}
	}

	profile, created, err := h.profileService.EnsureProfile(c.Request().Context(), userID, email, hints)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"profile": profile, "created": created})
}

// ListOrphanedAccounts lists identities that have no profile row
func (h *AdminHandler) ListOrphanedAccounts(c echo.Context) error {
	ctx := c.Request().Context()
	var orphans []echo.Map

	iter := h.firebaseAuth.Users(ctx, "")
	for {
		record, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			h.logger.Error("failed to iterate identities",
				zap.String("op", "ListOrphanedAccounts"), zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError, services.ErrInternal.Error())
		}

		_, err = h.profileRepo.GetProfileByID(record.UID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			orphans = append(orphans, echo.Map{
				"user_id": record.UID,
				"email":   record.Email,
			})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"orphaned_accounts": orphans})
}

// DeleteOrphanedAccount deletes an identity that has no profile. Deletion is
// refused when a profile exists.
func (h *AdminHandler) DeleteOrphanedAccount(c echo.Context) error {
	userID := c.QueryParam("userId")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing userId parameter")
	}

	_, err := h.profileRepo.GetProfileByID(userID)
	if err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Account has a profile and cannot be deleted")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.logger.Error("failed to check profile",
			zap.String("op", "DeleteOrphanedAccount"),
			zap.String("user_id", userID),
			zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, services.ErrInternal.Error())
	}

	if err := h.firebaseAuth.DeleteUser(c.Request().Context(), userID); err != nil {
		h.logger.Error("failed to delete identity",
			zap.String("op", "DeleteOrphanedAccount"),
			zap.String("user_id", userID),
			zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, services.ErrInternal.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
