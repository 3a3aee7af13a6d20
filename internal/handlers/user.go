package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/pixgram/backend/internal/models"
	"github.com/anonto42/pixgram/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	svc *services.Service
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(svc *services.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/users/me", h.GetProfile)
	g.PUT("/users/me", h.UpdateProfile)
	g.DELETE("/users/me", h.DeleteUser)
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/:username", h.GetUser)
}

// GetUser returns another user's profile with graph counts
func (h *UserHandler) GetUser(c echo.Context) error {
	profile, err := h.svc.Profile(c.Request().Context(), getUserIDFromContext(c), c.Param("username"))
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, profile)
}

// GetProfile retrieves the authenticated user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	userID := getUserIDFromContext(c)
	user, err := h.svc.GetUser(ctx, userID)
	if err != nil {
		return serviceError(c, err)
	}
	profile, err := h.svc.Profile(ctx, userID, user.Username)
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, profile)
}

// UpdateProfile updates the authenticated user's profile
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.svc.UpdateProfile(c.Request().Context(), getUserIDFromContext(c), req)
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, user)
}

// DeleteUser deletes the authenticated user and everything they own
func (h *UserHandler) DeleteUser(c echo.Context) error {
	if err := h.svc.DeleteAccount(c.Request().Context(), getUserIDFromContext(c)); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SearchUsers matches username or full name
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	users, err := h.svc.SearchUsers(c.Request().Context(), query, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, users)
}
