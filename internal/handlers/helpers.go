package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/anonto42/pixgram/backend/internal/middleware"
	"github.com/anonto42/pixgram/backend/internal/services"
	"github.com/labstack/echo/v4"
)

func getUserIDFromContext(c echo.Context) uint {
	return middleware.UserID(c)
}

// success wraps data in the standard response envelope.
func success(c echo.Context, status int, data any) error {
	return c.JSON(status, echo.Map{
		"success": true,
		"data":    data,
	})
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

// pagination reads skip/limit query parameters, clamped the way the core clamps them.
func pagination(c echo.Context) (int, int) {
	skip, _ := strconv.Atoi(c.QueryParam("skip"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return services.Page(skip, limit)
}

func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if c.Echo().Validator != nil {
		return c.Validate(req)
	}
	return nil
}

// serviceError maps core error kinds to HTTP errors.
func serviceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrInvalidOperation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
	}
	slog.Error("request failed",
		"method", c.Request().Method,
		"path", c.Path(),
		"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		"error", err,
	)
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}
