package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/pixgram/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// HashtagHandler serves hashtag search, trending tags and tagged posts
type HashtagHandler struct {
	svc *services.Service
}

func NewHashtagHandler(svc *services.Service) *HashtagHandler {
	return &HashtagHandler{svc: svc}
}

func (h *HashtagHandler) RegisterHashtagRoutes(g *echo.Group) {
	g.GET("/hashtags/search", h.Search)
	g.GET("/hashtags/trending", h.Trending)
	g.GET("/hashtags/:name/posts", h.Posts)
}

func (h *HashtagHandler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	tags, err := h.svc.SearchHashtags(c.Request().Context(), query, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, tags)
}

func (h *HashtagHandler) Trending(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	tags, err := h.svc.TrendingHashtags(c.Request().Context(), limit)
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, tags)
}

func (h *HashtagHandler) Posts(c echo.Context) error {
	skip, limit := pagination(c)
	posts, err := h.svc.PostsByHashtag(c.Request().Context(), getUserIDFromContext(c), c.Param("name"), skip, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, posts)
}
