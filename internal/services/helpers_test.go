package services

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/pixgram/backend/internal/models"
	"github.com/anonto42/pixgram/backend/internal/repositories"
	"github.com/anonto42/pixgram/backend/internal/testdb"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestService(t *testing.T) (*Service, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
	store := repositories.NewStore(testdb.Open(t))
	return New(store, WithClock(clock.Now)), clock
}

func mustRegister(t *testing.T, s *Service, username string) *models.User {
	t.Helper()
	user, err := s.Register(context.Background(), models.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		FullName: username,
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user
}

func mustPost(t *testing.T, s *Service, authorID uint, caption string) *models.PostDetail {
	t.Helper()
	post, err := s.CreatePost(context.Background(), authorID, models.CreatePostRequest{
		Caption: caption,
		Images:  []string{"/media/a.jpg"},
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

func countRows(t *testing.T, s *Service, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	if err := s.store.DB().Model(model).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
