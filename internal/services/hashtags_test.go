package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/anonto42/pixgram/backend/internal/models"
	"github.com/anonto42/pixgram/backend/internal/repositories"
)

func TestExtractHashtags(t *testing.T) {
	cases := map[string][]string{
		"Hello #travel #Travel world":   {"travel"},
		"#Go and #golang, then #go!":    {"go", "golang"},
		"no tags here":                  {},
		"mid#word counts #snake_case #": {"word", "snake_case"},
		"#café #CAFÉ #2026":             {"café", "2026"},
	}
	for caption, want := range cases {
		got := ExtractHashtags(caption)
		if fmt.Sprint(got) != fmt.Sprint(want) {
			t.Fatalf("ExtractHashtags(%q) = %v, want %v", caption, got, want)
		}
	}
}

func TestExtractHashtagsKeepsLongTags(t *testing.T) {
	cyrillic := strings.Repeat("ж", 60)
	got := ExtractHashtags("hi #" + cyrillic + " #ok")
	if len(got) != 2 || got[0] != cyrillic || got[1] != "ok" {
		t.Fatalf("unexpected tags %v", got)
	}

	long := strings.Repeat("a", 150)
	if got := ExtractHashtags("#" + long); len(got) != 1 || got[0] != long {
		t.Fatalf("long tag dropped: %v", got)
	}
}

func TestCreatePostIndexesMultibyteTag(t *testing.T) {
	s, _ := newTestService(t)
	john := mustRegister(t, s, "john")
	tag := strings.Repeat("ж", 60)

	post := mustPost(t, s, john.ID, "#"+tag)
	if len(post.Hashtags) != 1 || post.Hashtags[0] != tag {
		t.Fatalf("unexpected hashtags %v", post.Hashtags)
	}
	posts, err := s.PostsByHashtag(context.Background(), john.ID, tag, 0, 10)
	if err != nil || len(posts) != 1 {
		t.Fatalf("posts by tag = %d, %v", len(posts), err)
	}
}

func TestCreatePostCollapsesHashtagCase(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	john := mustRegister(t, s, "john")

	post := mustPost(t, s, john.ID, "Hello #travel #Travel world")
	if fmt.Sprint(post.Hashtags) != "[travel]" {
		t.Fatalf("unexpected hashtags %v", post.Hashtags)
	}

	tags, err := s.SearchHashtags(ctx, "TRAV", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "travel" || tags[0].PostCount != 1 {
		t.Fatalf("unexpected search result %+v", tags)
	}

	// Re-running the association must not double count.
	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		_, err := s.AssociateHashtags(tx, post.ID, post.Caption)
		return err
	})
	if err != nil {
		t.Fatalf("associate again: %v", err)
	}
	trending, err := s.TrendingHashtags(ctx, 10)
	if err != nil {
		t.Fatalf("trending: %v", err)
	}
	if len(trending) != 1 || trending[0].PostCount != 1 {
		t.Fatalf("expected count to stay 1, got %+v", trending)
	}
	if n := countRows(t, s, &models.PostHashtag{}, "post_id = ?", post.ID); n != 1 {
		t.Fatalf("expected one link, got %d", n)
	}
}

func TestTrendingAndPostsByHashtag(t *testing.T) {
	s, clock := newTestService(t)
	ctx := context.Background()
	alice := mustRegister(t, s, "alice")

	mustPost(t, s, alice.ID, "#sun #sea")
	clock.Advance(1e9)
	mustPost(t, s, alice.ID, "#sun again")
	clock.Advance(1e9)
	mustPost(t, s, alice.ID, "plain")

	trending, err := s.TrendingHashtags(ctx, 10)
	if err != nil {
		t.Fatalf("trending: %v", err)
	}
	if len(trending) != 2 || trending[0].Name != "sun" || trending[0].PostCount != 2 {
		t.Fatalf("unexpected trending %+v", trending)
	}

	posts, err := s.PostsByHashtag(ctx, alice.ID, "#SUN", 0, 10)
	if err != nil {
		t.Fatalf("posts by hashtag: %v", err)
	}
	if len(posts) != 2 || posts[0].Caption != "#sun again" {
		t.Fatalf("unexpected posts %+v", posts)
	}
	if fmt.Sprint(posts[1].Hashtags) != "[sea sun]" {
		t.Fatalf("unexpected derived hashtags %v", posts[1].Hashtags)
	}
	if _, err := s.PostsByHashtag(ctx, alice.ID, "moon", 0, 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
