package firebase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Identity is the subset of a verified Firebase ID token the backend uses.
type Identity struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

// App holds the initialized Firebase app and auth client
type App struct {
	FirebaseApp *firebase.App
	AuthClient  *auth.Client
}

// InitFirebase initializes the Firebase application and authentication client
func InitFirebase(ctx context.Context, credentialsPath string) (*App, error) {
	if credentialsPath == "" {
		return nil, errors.New("firebase credentials path not provided")
	}

	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", credentialsPath)
	}

	firebaseApp, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	slog.Info("firebase auth client initialized")
	return &App{FirebaseApp: firebaseApp, AuthClient: authClient}, nil
}

// VerifyIDToken checks an ID token and extracts the caller's identity.
func (a *App) VerifyIDToken(ctx context.Context, idToken string) (Identity, error) {
	token, err := a.AuthClient.VerifyIDToken(ctx, idToken)
	if err != nil {
		return Identity{}, fmt.Errorf("verify firebase id token: %w", err)
	}
	return IdentityFromToken(token), nil
}

// IdentityFromToken reads the standard profile claims of a verified token.
func IdentityFromToken(token *auth.Token) Identity {
	id := Identity{UID: token.UID}
	if v, ok := token.Claims["email"].(string); ok {
		id.Email = v
	}
	if v, ok := token.Claims["name"].(string); ok {
		id.Name = v
	}
	if v, ok := token.Claims["picture"].(string); ok {
		id.Picture = v
	}
	return id
}
