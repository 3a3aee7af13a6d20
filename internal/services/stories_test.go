package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anonto42/pixgram/backend/internal/models"
)

func mustStory(t *testing.T, s *Service, authorID uint) *models.StoryDetail {
	t.Helper()
	story, err := s.CreateStory(context.Background(), authorID, models.CreateStoryRequest{
		ImageURL:    "/media/story.jpg",
		TextContent: "hello",
	})
	if err != nil {
		t.Fatalf("create story: %v", err)
	}
	return story
}

func TestStoryExpiresAfterTTLWithoutMutation(t *testing.T) {
	s, clock := newTestService(t)
	ctx := context.Background()
	alice := mustRegister(t, s, "alice")
	story := mustStory(t, s, alice.ID)

	if !story.ExpiresAt.Equal(story.CreatedAt.Add(24 * time.Hour)) {
		t.Fatalf("expires_at %v is not created_at + 24h", story.ExpiresAt)
	}

	got, err := s.GetStory(ctx, alice.ID, story.ID)
	if err != nil {
		t.Fatalf("get story: %v", err)
	}
	if got.IsExpired {
		t.Fatalf("story expired immediately")
	}
	active, err := s.ListActiveStories(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list stories: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected one active story, got %d", len(active))
	}

	clock.Advance(24*time.Hour + time.Second)

	got, err = s.GetStory(ctx, alice.ID, story.ID)
	if err != nil {
		t.Fatalf("get story: %v", err)
	}
	if !got.IsExpired {
		t.Fatalf("story should be expired after 24h+1s")
	}
	if !got.ExpiresAt.Equal(story.ExpiresAt) || !got.IsActive {
		t.Fatalf("expiry must not touch storage: %+v", got.Story)
	}
	active, err = s.ListActiveStories(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list stories: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected no active stories, got %d", len(active))
	}
	if err := s.ViewStory(ctx, alice.ID, story.ID); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected invalid operation for expired story, got %v", err)
	}
}

func TestViewStoryTwiceIsNoop(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := mustRegister(t, s, "alice")
	bob := mustRegister(t, s, "bob")
	story := mustStory(t, s, alice.ID)

	for i := 0; i < 2; i++ {
		if err := s.ViewStory(ctx, bob.ID, story.ID); err != nil {
			t.Fatalf("view #%d: %v", i+1, err)
		}
	}
	if n := countRows(t, s, &models.StoryView{}, "story_id = ? AND viewer_id = ?", story.ID, bob.ID); n != 1 {
		t.Fatalf("expected one view row, got %d", n)
	}

	got, err := s.GetStory(ctx, bob.ID, story.ID)
	if err != nil {
		t.Fatalf("get story: %v", err)
	}
	if got.ViewsCount != 1 || !got.IsViewed {
		t.Fatalf("unexpected derived fields: %+v", got)
	}
	byAuthor, err := s.GetStory(ctx, alice.ID, story.ID)
	if err != nil {
		t.Fatalf("get story: %v", err)
	}
	if byAuthor.IsViewed {
		t.Fatalf("author has not viewed the story")
	}

	if err := s.ViewStory(ctx, bob.ID, 4242); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListStoryViewsOnlyForAuthor(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := mustRegister(t, s, "alice")
	bob := mustRegister(t, s, "bob")
	story := mustStory(t, s, alice.ID)

	if err := s.ViewStory(ctx, bob.ID, story.ID); err != nil {
		t.Fatalf("view: %v", err)
	}
	if _, err := s.ListStoryViews(ctx, bob.ID, story.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	views, err := s.ListStoryViews(ctx, alice.ID, story.ID)
	if err != nil {
		t.Fatalf("list views: %v", err)
	}
	if len(views) != 1 || views[0].Viewer.Username != "bob" {
		t.Fatalf("unexpected views: %+v", views)
	}
}

func TestStoriesFromFolloweesAndDeactivation(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := mustRegister(t, s, "alice")
	bob := mustRegister(t, s, "bob")
	carol := mustRegister(t, s, "carol")

	bobStory := mustStory(t, s, bob.ID)
	mustStory(t, s, carol.ID)
	if err := s.Follow(ctx, alice.ID, "bob"); err != nil {
		t.Fatalf("follow: %v", err)
	}

	stories, err := s.ListActiveStories(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list stories: %v", err)
	}
	if len(stories) != 1 || stories[0].ID != bobStory.ID {
		t.Fatalf("expected only bob's story, got %+v", stories)
	}

	if err := s.DeactivateStory(ctx, alice.ID, bobStory.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := s.DeactivateStory(ctx, bob.ID, bobStory.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	userStories, err := s.ListUserStories(ctx, alice.ID, "bob")
	if err != nil {
		t.Fatalf("list user stories: %v", err)
	}
	if len(userStories) != 0 {
		t.Fatalf("deactivated story still listed")
	}
	if err := s.ViewStory(ctx, alice.ID, bobStory.ID); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("viewing a deactivated story: expected ErrInvalidOperation, got %v", err)
	}
	if _, err := s.ListUserStories(ctx, alice.ID, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
