package handlers

import (
	"net/http"

	"github.com/anonto42/pixgram/backend/internal/models"
	"github.com/anonto42/pixgram/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles comment-related HTTP requests
type CommentHandler struct {
	svc *services.Service
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(svc *services.Service) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetCommentsByPostID)
}

// CreateComment adds a comment to a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	comment, err := h.svc.AddComment(c.Request().Context(), getUserIDFromContext(c), postID, req)
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusCreated, comment)
}

// GetCommentsByPostID lists a post's comments, newest first
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	skip, limit := pagination(c)
	comments, err := h.svc.ListComments(c.Request().Context(), postID, skip, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, comments)
}
