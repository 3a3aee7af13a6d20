package services

import (
	"context"
	"errors"
	"testing"

	"github.com/anonto42/pixgram/backend/internal/models"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := mustRegister(t, s, "alice")
	if alice.Password == "password123" {
		t.Fatalf("password stored in clear")
	}

	_, err := s.Register(ctx, models.RegisterRequest{
		Username: "alice", Email: "other@example.com", FullName: "A", Password: "password123",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict on username, got %v", err)
	}
	_, err = s.Register(ctx, models.RegisterRequest{
		Username: "alice2", Email: "ALICE@example.com", FullName: "A", Password: "password123",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict on email, got %v", err)
	}
	_, err = s.Register(ctx, models.RegisterRequest{Username: "x", Email: "bad", Password: "short"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	got, err := s.Authenticate(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != alice.ID {
		t.Fatalf("authenticated wrong user %d", got.ID)
	}
	if _, err := s.Authenticate(ctx, "alice", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := s.Authenticate(ctx, "nobody", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestUpdateProfileAndSearch(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := mustRegister(t, s, "alice")
	mustRegister(t, s, "bob")

	name := "Alice Liddell"
	bio := "down the rabbit hole"
	updated, err := s.UpdateProfile(ctx, alice.ID, models.UpdateProfileRequest{FullName: &name, Bio: &bio})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.FullName != name || updated.Bio != bio {
		t.Fatalf("unexpected profile %+v", updated)
	}

	found, err := s.SearchUsers(ctx, "liddell", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 1 || found[0].Username != "alice" {
		t.Fatalf("unexpected search result %+v", found)
	}
	if _, err := s.GetUserByUsername(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLoginWithFirebaseLinksAndProvisions(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := mustRegister(t, s, "alice")

	linked, err := s.LoginWithFirebase(ctx, FederatedIdentity{UID: "uid-alice", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("firebase login: %v", err)
	}
	if linked.ID != alice.ID || linked.FirebaseUID == nil || *linked.FirebaseUID != "uid-alice" {
		t.Fatalf("expected existing account linked, got %+v", linked)
	}

	fresh, err := s.LoginWithFirebase(ctx, FederatedIdentity{UID: "uid-new", Email: "Alice.B@mail.test", DisplayName: "Alice B"})
	if err != nil {
		t.Fatalf("firebase login: %v", err)
	}
	if fresh.ID == alice.ID || fresh.Username != "aliceb" || fresh.FullName != "Alice B" {
		t.Fatalf("unexpected provisioned user %+v", fresh)
	}

	again, err := s.LoginWithFirebase(ctx, FederatedIdentity{UID: "uid-new", Email: "changed@mail.test"})
	if err != nil {
		t.Fatalf("firebase login: %v", err)
	}
	if again.ID != fresh.ID {
		t.Fatalf("expected lookup by uid, got user %d", again.ID)
	}
}

func TestDeleteAccountCascades(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := mustRegister(t, s, "alice")
	bob := mustRegister(t, s, "bob")

	post := mustPost(t, s, alice.ID, "bye #farewell")
	bobPost := mustPost(t, s, bob.ID, "#farewell from bob")
	if err := s.LikePost(ctx, bob.ID, post.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	if err := s.LikePost(ctx, alice.ID, bobPost.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, err := s.AddComment(ctx, bob.ID, post.ID, models.CreateCommentRequest{Content: "nice"}); err != nil {
		t.Fatalf("comment: %v", err)
	}
	if err := s.Follow(ctx, bob.ID, "alice"); err != nil {
		t.Fatalf("follow: %v", err)
	}
	story, err := s.CreateStory(ctx, alice.ID, models.CreateStoryRequest{ImageURL: "/media/s.jpg"})
	if err != nil {
		t.Fatalf("story: %v", err)
	}
	if err := s.ViewStory(ctx, bob.ID, story.ID); err != nil {
		t.Fatalf("view: %v", err)
	}
	if _, err := s.SendMessage(ctx, bob.ID, models.SendMessageRequest{ReceiverID: alice.ID, Content: "hey"}); err != nil {
		t.Fatalf("message: %v", err)
	}

	if err := s.DeleteAccount(ctx, alice.ID); err != nil {
		t.Fatalf("delete account: %v", err)
	}

	checks := []struct {
		name  string
		model any
		query string
		args  []any
	}{
		{"users", &models.User{}, "id = ?", []any{alice.ID}},
		{"posts", &models.Post{}, "author_id = ?", []any{alice.ID}},
		{"likes", &models.Like{}, "user_id = ? OR post_id = ?", []any{alice.ID, post.ID}},
		{"comments", &models.Comment{}, "post_id = ?", []any{post.ID}},
		{"follows", &models.Follow{}, "follower_id = ? OR followed_id = ?", []any{alice.ID, alice.ID}},
		{"stories", &models.Story{}, "author_id = ?", []any{alice.ID}},
		{"story views", &models.StoryView{}, "story_id = ?", []any{story.ID}},
		{"conversations", &models.Conversation{}, "user1_id = ? OR user2_id = ?", []any{alice.ID, alice.ID}},
		{"messages", &models.Message{}, "sender_id = ? OR receiver_id = ?", []any{alice.ID, alice.ID}},
		{"notifications", &models.Notification{}, "receiver_id = ? OR sender_id = ?", []any{alice.ID, alice.ID}},
	}
	for _, c := range checks {
		if n := countRows(t, s, c.model, c.query, c.args...); n != 0 {
			t.Fatalf("%s: %d rows left", c.name, n)
		}
	}

	tag, err := s.SearchHashtags(ctx, "farewell", 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(tag) != 1 || tag[0].PostCount != 1 {
		t.Fatalf("expected farewell count 1 after delete, got %+v", tag)
	}
	if _, err := s.GetPost(ctx, bob.ID, bobPost.ID); err != nil {
		t.Fatalf("bob's post should survive: %v", err)
	}
}
