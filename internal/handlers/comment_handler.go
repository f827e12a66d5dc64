package handlers

import (
	"net/http"

	"github.com/anxyhq/anxy-backend/internal/models"
	"github.com/anxyhq/anxy-backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	engagementService services.EngagementService
	profileService    services.ProfileService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(engagementService services.EngagementService, profileService services.ProfileService) *CommentHandler {
	return &CommentHandler{
		engagementService: engagementService,
		profileService:    profileService,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.CreateComment)
	g.GET("/posts/:post_id/comments", h.GetCommentsByPostID)
	g.PUT("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment creates a new comment on a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, err := h.profileService.GetProfileByID(c.Request().Context(), userID)
	if err != nil {
		return serviceError(err)
	}

	comment, err := h.engagementService.CreateComment(c.Request().Context(), postID, userID, profile.DisplayName, req.Content)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, comment)
}

// GetCommentsByPostID retrieves comments for a post, oldest first
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	postID := c.Param("post_id")
	offset, limit := parsePagination(c, 20, 100)

	comments, total, err := h.engagementService.GetComments(c.Request().Context(), postID, offset, limit)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": comments, "total": total})
}

// UpdateComment updates a comment owned by the authenticated user
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.engagementService.EditComment(c.Request().Context(), c.Param("id"), userID, req.Content)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, comment)
}

// DeleteComment deletes a comment owned by the authenticated user
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.engagementService.DeleteComment(c.Request().Context(), c.Param("id"), userID); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
