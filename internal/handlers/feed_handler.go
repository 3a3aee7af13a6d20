package handlers

import (
	"net/http"

	"github.com/anonto42/pixgram/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler serves the home feed
type FeedHandler struct {
	svc *services.Service
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(svc *services.Service) *FeedHandler {
	return &FeedHandler{svc: svc}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/posts", h.GetFeed)
}

// GetFeed returns posts by the caller and everyone they follow, newest first
func (h *FeedHandler) GetFeed(c echo.Context) error {
	skip, limit := pagination(c)
	posts, err := h.svc.GetFeed(c.Request().Context(), getUserIDFromContext(c), skip, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{
		"posts": posts,
		"skip":  skip,
		"limit": limit,
	})
}
