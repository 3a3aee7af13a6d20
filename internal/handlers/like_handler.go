package handlers

import (
	"net/http"

	"github.com/anonto42/pixgram/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles like-related HTTP requests
type LikeHandler struct {
	svc *services.Service
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(svc *services.Service) *LikeHandler {
	return &LikeHandler{svc: svc}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.LikePost)
	g.DELETE("/posts/:id/like", h.UnlikePost)
}

// LikePost likes a post
func (h *LikeHandler) LikePost(c echo.Context) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.LikePost(c.Request().Context(), getUserIDFromContext(c), postID); err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusCreated, echo.Map{"liked": true})
}

// UnlikePost removes the caller's like
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.UnlikePost(c.Request().Context(), getUserIDFromContext(c), postID); err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{"liked": false})
}
