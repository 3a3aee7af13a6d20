package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/anonto42/pixgram/backend/internal/models"
)

func TestCreatePostValidatesImageCount(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := mustRegister(t, s, "alice")

	if _, err := s.CreatePost(ctx, alice.ID, models.CreatePostRequest{Caption: "empty"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for no images, got %v", err)
	}
	images := make([]string, models.MaxPostImages+1)
	for i := range images {
		images[i] = fmt.Sprintf("/media/%d.jpg", i)
	}
	if _, err := s.CreatePost(ctx, alice.ID, models.CreatePostRequest{Images: images}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for too many images, got %v", err)
	}
}

func TestCreatePostKeepsImageOrder(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := mustRegister(t, s, "alice")

	post, err := s.CreatePost(ctx, alice.ID, models.CreatePostRequest{
		Caption: "three",
		Images:  []string{"/media/c.jpg", "/media/a.jpg", "/media/b.jpg"},
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if post.LikesCount != 0 || post.CommentsCount != 0 || post.IsLiked {
		t.Fatalf("new post should have zero derived counts: %+v", post)
	}
	if post.PrimaryImageURL != "/media/c.jpg" {
		t.Fatalf("unexpected primary image %q", post.PrimaryImageURL)
	}

	got, err := s.GetPost(ctx, alice.ID, post.ID)
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	want := []string{"/media/c.jpg", "/media/a.jpg", "/media/b.jpg"}
	if len(got.Images) != len(want) {
		t.Fatalf("expected %d images, got %d", len(want), len(got.Images))
	}
	for i, img := range got.Images {
		if img.ImageURL != want[i] || img.OrderIndex != i {
			t.Fatalf("image %d: got %q at %d", i, img.ImageURL, img.OrderIndex)
		}
	}
	if got.Author.Username != "alice" {
		t.Fatalf("author not loaded: %+v", got.Author)
	}
}

func TestGetPostMissing(t *testing.T) {
	s, _ := newTestService(t)
	alice := mustRegister(t, s, "alice")
	if _, err := s.GetPost(context.Background(), alice.ID, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLikeCountAndDuplicateConflict(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	author := mustRegister(t, s, "author")
	post := mustPost(t, s, author.ID, "like me")

	const n = 3
	var fans []*models.User
	for i := 0; i < n; i++ {
		fan := mustRegister(t, s, fmt.Sprintf("fan%d", i))
		if err := s.LikePost(ctx, fan.ID, post.ID); err != nil {
			t.Fatalf("like by %s: %v", fan.Username, err)
		}
		fans = append(fans, fan)
	}

	if err := s.LikePost(ctx, fans[0].ID, post.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict on duplicate like, got %v", err)
	}

	got, err := s.GetPost(ctx, fans[0].ID, post.ID)
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	if got.LikesCount != n {
		t.Fatalf("expected %d likes, got %d", n, got.LikesCount)
	}
	if !got.IsLiked {
		t.Fatalf("expected post liked by viewer")
	}
	if n := countRows(t, s, &models.Notification{}, "receiver_id = ? AND type = ?", author.ID, models.NotificationLike); n != 3 {
		t.Fatalf("expected 3 like notifications, got %d", n)
	}

	byAuthor, err := s.GetPost(ctx, author.ID, post.ID)
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	if byAuthor.IsLiked {
		t.Fatalf("author did not like the post")
	}
}

func TestSelfLikeDoesNotNotify(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	author := mustRegister(t, s, "author")
	post := mustPost(t, s, author.ID, "mine")

	if err := s.LikePost(ctx, author.ID, post.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	if n := countRows(t, s, &models.Notification{}, "receiver_id = ?", author.ID); n != 0 {
		t.Fatalf("expected no self notification, got %d", n)
	}
}

func TestUnlike(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	author := mustRegister(t, s, "author")
	fan := mustRegister(t, s, "fan")
	post := mustPost(t, s, author.ID, "x")

	if err := s.UnlikePost(ctx, fan.ID, post.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found without like, got %v", err)
	}
	if err := s.LikePost(ctx, fan.ID, post.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	if err := s.UnlikePost(ctx, fan.ID, post.ID); err != nil {
		t.Fatalf("unlike: %v", err)
	}
	got, err := s.GetPost(ctx, fan.ID, post.ID)
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	if got.LikesCount != 0 || got.IsLiked {
		t.Fatalf("expected like removed: %+v", got)
	}
}

func TestCommentNotifiesPostAuthor(t *testing.T) {
	s, clock := newTestService(t)
	ctx := context.Background()
	author := mustRegister(t, s, "author")
	fan := mustRegister(t, s, "fan")
	post := mustPost(t, s, author.ID, "x")

	if _, err := s.AddComment(ctx, fan.ID, 12345, models.CreateCommentRequest{Content: "hi"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := s.AddComment(ctx, fan.ID, post.ID, models.CreateCommentRequest{Content: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	first, err := s.AddComment(ctx, fan.ID, post.ID, models.CreateCommentRequest{Content: "first"})
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	clock.Advance(1)
	if _, err := s.AddComment(ctx, author.ID, post.ID, models.CreateCommentRequest{Content: "reply"}); err != nil {
		t.Fatalf("comment: %v", err)
	}

	notifications, _, err := s.ListNotifications(ctx, author.ID, 0, 10)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("expected one notification, got %d", len(notifications))
	}
	n := notifications[0]
	if n.Type != models.NotificationComment || n.RelatedCommentID == nil || *n.RelatedCommentID != first.ID {
		t.Fatalf("unexpected notification: %+v", n)
	}

	comments, err := s.ListComments(ctx, post.ID, 0, 10)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(comments) != 2 || comments[0].Content != "reply" {
		t.Fatalf("expected newest comment first, got %+v", comments)
	}

	got, err := s.GetPost(ctx, fan.ID, post.ID)
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	if got.CommentsCount != 2 {
		t.Fatalf("expected 2 comments, got %d", got.CommentsCount)
	}
}

func TestFeedShowsOwnAndFollowedPostsNewestFirst(t *testing.T) {
	s, clock := newTestService(t)
	ctx := context.Background()
	alice := mustRegister(t, s, "alice")
	bob := mustRegister(t, s, "bob")
	carol := mustRegister(t, s, "carol")

	mustPost(t, s, bob.ID, "bob 1")
	clock.Advance(1e9)
	mustPost(t, s, carol.ID, "carol 1")
	clock.Advance(1e9)
	mustPost(t, s, alice.ID, "alice 1")
	clock.Advance(1e9)
	mustPost(t, s, bob.ID, "bob 2")

	if err := s.Follow(ctx, alice.ID, "bob"); err != nil {
		t.Fatalf("follow: %v", err)
	}

	feed, err := s.GetFeed(ctx, alice.ID, 0, 10)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	var captions []string
	for _, p := range feed {
		captions = append(captions, p.Caption)
	}
	want := []string{"bob 2", "alice 1", "bob 1"}
	if fmt.Sprint(captions) != fmt.Sprint(want) {
		t.Fatalf("feed = %v, want %v", captions, want)
	}

	page2, err := s.GetFeed(ctx, alice.ID, 2, 10)
	if err != nil {
		t.Fatalf("feed page: %v", err)
	}
	if len(page2) != 1 || page2[0].Caption != "bob 1" {
		t.Fatalf("unexpected second page: %+v", page2)
	}
}

func TestDeletePostRequiresAuthorAndReleasesHashtags(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	author := mustRegister(t, s, "author")
	other := mustRegister(t, s, "other")
	post := mustPost(t, s, author.ID, "#sun")
	if err := s.LikePost(ctx, other.ID, post.ID); err != nil {
		t.Fatalf("like: %v", err)
	}

	if err := s.DeletePost(ctx, other.ID, post.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := s.DeletePost(ctx, author.ID, post.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetPost(ctx, author.ID, post.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected post gone, got %v", err)
	}
	if n := countRows(t, s, &models.Like{}, "post_id = ?", post.ID); n != 0 {
		t.Fatalf("expected likes removed, got %d", n)
	}
	if n := countRows(t, s, &models.Notification{}, "related_post_id = ?", post.ID); n != 0 {
		t.Fatalf("expected notifications removed, got %d", n)
	}
	trending, err := s.TrendingHashtags(ctx, 10)
	if err != nil {
		t.Fatalf("trending: %v", err)
	}
	if len(trending) != 0 {
		t.Fatalf("expected no trending tags, got %+v", trending)
	}
}
