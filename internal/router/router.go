package router

import (
	"log/slog"
	"time"

	"github.com/anonto42/pixgram/backend/internal/handlers"
	"github.com/anonto42/pixgram/backend/internal/middleware"
	"github.com/anonto42/pixgram/backend/internal/ratelimit"
	"github.com/anonto42/pixgram/backend/internal/services"
	"github.com/anonto42/pixgram/backend/pkg/media"
	"github.com/labstack/echo/v4"
)

// Deps are the collaborators the routes are wired to. Verifier and
// AuthLimiter are optional.
type Deps struct {
	Service     *services.Service
	Uploader    *media.Uploader
	Verifier    handlers.IdentityVerifier
	AuthLimiter *ratelimit.FixedWindowLimiter
	JWTSecret   string
	JWTTTL      time.Duration
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, d Deps) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Unprotected routes ---
	authGroup := e.Group("/api/v1/auth", ratelimit.Middleware(d.AuthLimiter, "auth"))
	authHandler := handlers.NewAuthHandler(d.Service, d.Verifier, d.JWTSecret, d.JWTTTL)
	authHandler.RegisterAuthRoutes(authGroup)
	if d.Verifier == nil {
		slog.Warn("firebase login disabled")
	}
	if d.AuthLimiter == nil {
		slog.Warn("auth rate limiting disabled")
	}

	mediaHandler := handlers.NewMediaHandler(d.Uploader)
	mediaHandler.RegisterPublicRoutes(e.Group("/api/v1"))

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1", middleware.JWTAuthMiddleware(d.JWTSecret))

	handlers.NewUserHandler(d.Service).RegisterProfileRoutes(api)
	handlers.NewFollowHandler(d.Service).RegisterFollowRoutes(api)
	handlers.NewPostHandler(d.Service).RegisterPostRoutes(api)
	handlers.NewFeedHandler(d.Service).RegisterFeedRoutes(api)
	handlers.NewLikeHandler(d.Service).RegisterLikeRoutes(api)
	handlers.NewCommentHandler(d.Service).RegisterCommentRoutes(api)
	handlers.NewStoryHandler(d.Service).RegisterStoryRoutes(api)
	handlers.NewMessageHandler(d.Service).RegisterMessageRoutes(api)
	handlers.NewNotificationHandler(d.Service).RegisterNotificationRoutes(api)
	handlers.NewHashtagHandler(d.Service).RegisterHashtagRoutes(api)
	mediaHandler.RegisterUploadRoutes(api)

	slog.Info("routes configured", "count", len(e.Routes()))
}
