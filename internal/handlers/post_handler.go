package handlers

import (
	"net/http"
	"strconv"

	"github.com/anxyhq/anxy-backend/internal/models"
	"github.com/anxyhq/anxy-backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	postService    services.PostService
	profileService services.ProfileService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService services.PostService, profileService services.ProfileService) *PostHandler {
	return &PostHandler{
		postService:    postService,
		profileService: profileService,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts", h.ListPublicPosts)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/users/:username/posts/:number", h.GetPostByShortURL)
}

// CreatePost creates a new post for the authenticated user
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreatePostRequest
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

	post, err := h.postService.CreatePost(c.Request().Context(), userID, profile.DisplayName, req)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, post)
}

// ListPublicPosts lists public posts, newest first
func (h *PostHandler) ListPublicPosts(c echo.Context) error {
	offset, limit := parsePagination(c, 20, 50)

	posts, err := h.postService.ListPublicPosts(c.Request().Context(), int64(offset), int64(limit))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// GetPost retrieves a post by id
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postService.GetPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// GetPostByShortURL resolves a post from its author's username and the
// per-author post number
func (h *PostHandler) GetPostByShortURL(c echo.Context) error {
	username := c.Param("username")
	number, err := strconv.ParseInt(c.Param("number"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post number")
	}

	profile, err := h.profileService.GetProfileByUsername(c.Request().Context(), username)
	if err != nil {
		return serviceError(err)
	}

	post, err := h.postService.GetPostByShortURL(c.Request().Context(), profile.ID, number)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// UpdatePost updates a post owned by the authenticated user
func (h *PostHandler) UpdatePost(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.postService.UpdatePost(c.Request().Context(), c.Param("id"), userID, req)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post owned by the authenticated user
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.postService.DeletePost(c.Request().Context(), c.Param("id"), userID); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
