package handlers

import (
	"net/http"

	"github.com/anonto42/pixgram/backend/internal/models"
	"github.com/anonto42/pixgram/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// StoryHandler handles story-related HTTP requests
type StoryHandler struct {
	svc *services.Service
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(svc *services.Service) *StoryHandler {
	return &StoryHandler{svc: svc}
}

// RegisterStoryRoutes registers story-related routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group) {
	g.GET("/stories", h.GetStories)
	g.POST("/stories", h.CreateStory)
	g.GET("/stories/user/:username", h.GetUserStories)
	g.GET("/stories/:id", h.GetStory)
	g.DELETE("/stories/:id", h.DeactivateStory)
	g.POST("/stories/:id/view", h.MarkAsSeen)
	g.GET("/stories/:id/views", h.GetViews)
}

// GetStories returns active stories from the caller and the accounts they
// follow. The caller's own stories are split out.
func (h *StoryHandler) GetStories(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	stories, err := h.svc.ListActiveStories(c.Request().Context(), currentUserID)
	if err != nil {
		return serviceError(c, err)
	}

	own := make([]models.StoryDetail, 0)
	others := make([]models.StoryDetail, 0, len(stories))
	for _, s := range stories {
		if s.AuthorID == currentUserID {
			own = append(own, s)
			continue
		}
		others = append(others, s)
	}
	return success(c, http.StatusOK, echo.Map{
		"stories":            others,
		"currentUserStories": own,
	})
}

// GetUserStories returns one user's active stories
func (h *StoryHandler) GetUserStories(c echo.Context) error {
	stories, err := h.svc.ListUserStories(c.Request().Context(), getUserIDFromContext(c), c.Param("username"))
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, stories)
}

// GetStory returns a single story
func (h *StoryHandler) GetStory(c echo.Context) error {
	storyID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	story, err := h.svc.GetStory(c.Request().Context(), getUserIDFromContext(c), storyID)
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, story)
}

// CreateStory creates a story that expires in 24 hours
func (h *StoryHandler) CreateStory(c echo.Context) error {
	var req models.CreateStoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	story, err := h.svc.CreateStory(c.Request().Context(), getUserIDFromContext(c), req)
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusCreated, story)
}

// MarkAsSeen records a view of a story
func (h *StoryHandler) MarkAsSeen(c echo.Context) error {
	storyID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.ViewStory(c.Request().Context(), getUserIDFromContext(c), storyID); err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{"viewed": true})
}

// GetViews lists who viewed a story. Author only.
func (h *StoryHandler) GetViews(c echo.Context) error {
	storyID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	views, err := h.svc.ListStoryViews(c.Request().Context(), getUserIDFromContext(c), storyID)
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, views)
}

func (h *StoryHandler) DeactivateStory(c echo.Context) error {
	storyID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeactivateStory(c.Request().Context(), getUserIDFromContext(c), storyID); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
