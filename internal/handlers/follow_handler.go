package handlers

import (
	"net/http"

	"github.com/anonto42/pixgram/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	svc *services.Service
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(svc *services.Service) *FollowHandler {
	return &FollowHandler{svc: svc}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:username/follow", h.FollowUser)
	g.DELETE("/users/:username/follow", h.UnfollowUser)
	g.GET("/users/:username/followers", h.GetFollowers)
	g.GET("/users/:username/following", h.GetFollowing)
}

// FollowUser follows a user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	if err := h.svc.Follow(c.Request().Context(), getUserIDFromContext(c), c.Param("username")); err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusCreated, echo.Map{"following": true})
}

// UnfollowUser unfollows a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	if err := h.svc.Unfollow(c.Request().Context(), getUserIDFromContext(c), c.Param("username")); err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{"following": false})
}

func (h *FollowHandler) GetFollowers(c echo.Context) error {
	skip, limit := pagination(c)
	users, err := h.svc.ListFollowers(c.Request().Context(), c.Param("username"), skip, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, users)
}

func (h *FollowHandler) GetFollowing(c echo.Context) error {
	skip, limit := pagination(c)
	users, err := h.svc.ListFollowing(c.Request().Context(), c.Param("username"), skip, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, users)
}
