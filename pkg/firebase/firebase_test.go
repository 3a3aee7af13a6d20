package firebase

import (
	"context"
	"testing"

	"firebase.google.com/go/v4/auth"
)

func TestIdentityFromToken(t *testing.T) {
	token := &auth.Token{
		UID: "uid-1",
		Claims: map[string]interface{}{
			"email":   "ana@example.com",
			"name":    "Ana",
			"picture": 42,
		},
	}
	id := IdentityFromToken(token)
	if id.UID != "uid-1" || id.Email != "ana@example.com" || id.Name != "Ana" {
		t.Fatalf("unexpected identity: %+v", id)
	}
	if id.Picture != "" {
		t.Fatalf("non-string picture claim should be ignored, got %q", id.Picture)
	}
}

func TestInitFirebaseRequiresCredentials(t *testing.T) {
	if _, err := InitFirebase(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty credentials path")
	}
	if _, err := InitFirebase(context.Background(), "/does/not/exist.json"); err == nil {
		t.Fatalf("expected error for missing credentials file")
	}
}
