package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/anonto42/pixgram/backend/internal/middleware"
	"github.com/anonto42/pixgram/backend/internal/models"
	"github.com/anonto42/pixgram/backend/internal/services"
	"github.com/anonto42/pixgram/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
)

// IdentityVerifier verifies federated ID tokens. *firebase.App implements it.
type IdentityVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (firebase.Identity, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	svc       *services.Service
	verifier  IdentityVerifier
	jwtSecret string
	jwtTTL    time.Duration
}

// NewAuthHandler creates a new AuthHandler. verifier may be nil, which
// disables federated login.
func NewAuthHandler(svc *services.Service, verifier IdentityVerifier, jwtSecret string, jwtTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		svc:       svc,
		verifier:  verifier,
		jwtSecret: jwtSecret,
		jwtTTL:    jwtTTL,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// Register handles local user registration and returns a session token
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.svc.Register(c.Request().Context(), req)
	if err != nil {
		return serviceError(c, err)
	}
	return h.issue(c, http.StatusCreated, user)
}

// Login authenticates with username and password
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.svc.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return serviceError(c, err)
	}
	return h.issue(c, http.StatusOK, user)
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin verifies a Firebase ID token and issues a local JWT
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	if h.verifier == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Firebase login is not configured")
	}
	var req FirebaseLoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	identity, err := h.verifier.VerifyIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}
	user, err := h.svc.LoginWithFirebase(c.Request().Context(), services.FederatedIdentity{
		UID:            identity.UID,
		Email:          identity.Email,
		DisplayName:    identity.Name,
		ProfilePicture: identity.Picture,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return h.issue(c, http.StatusOK, user)
}

func (h *AuthHandler) issue(c echo.Context, status int, user *models.User) error {
	token, err := middleware.GenerateToken(h.jwtSecret, user, h.jwtTTL, time.Now())
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, status, echo.Map{
		"token": token,
		"user":  user,
	})
}
