package handlers

import (
	"net/http"

	"github.com/anonto42/pixgram/backend/internal/models"
	"github.com/anonto42/pixgram/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	svc *services.Service
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(svc *services.Service) *PostHandler {
	return &PostHandler{svc: svc}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/users/:username/posts", h.GetUserPosts)
}

// CreatePost creates a post with ordered images and indexes its hashtags
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	post, err := h.svc.CreatePost(c.Request().Context(), getUserIDFromContext(c), req)
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusCreated, post)
}

// GetPost retrieves a single post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	post, err := h.svc.GetPost(c.Request().Context(), getUserIDFromContext(c), postID)
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, post)
}

// GetUserPosts lists one author's posts, newest first
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	skip, limit := pagination(c)
	posts, err := h.svc.ListUserPosts(c.Request().Context(), getUserIDFromContext(c), c.Param("username"), skip, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, posts)
}

// DeletePost deletes a post. Only its author may do so.
func (h *PostHandler) DeletePost(c echo.Context) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeletePost(c.Request().Context(), getUserIDFromContext(c), postID); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
