package services

import (
	"context"
	"errors"
	"testing"

	"github.com/anonto42/pixgram/backend/internal/models"
)

func TestFollowTwiceCreatesOneEdgeAndOneNotification(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := mustRegister(t, s, "alice")
	bob := mustRegister(t, s, "bob")

	for i := 0; i < 2; i++ {
		if err := s.Follow(ctx, alice.ID, "bob"); err != nil {
			t.Fatalf("follow #%d: %v", i+1, err)
		}
	}

	if n := countRows(t, s, &models.Follow{}, "follower_id = ? AND followed_id = ?", alice.ID, bob.ID); n != 1 {
		t.Fatalf("expected one edge, got %d", n)
	}
	if n := countRows(t, s, &models.Notification{}, "receiver_id = ? AND type = ?", bob.ID, models.NotificationFollow); n != 1 {
		t.Fatalf("expected one follow notification, got %d", n)
	}

	profile, err := s.Profile(ctx, alice.ID, "bob")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.FollowersCount != 1 || profile.FollowingCount != 0 || !profile.IsFollowing {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestFollowRejectsSelfAndMissingTarget(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := mustRegister(t, s, "alice")

	if err := s.Follow(ctx, alice.ID, "alice"); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected invalid operation, got %v", err)
	}
	if err := s.Follow(ctx, alice.ID, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUnfollowWithoutEdgeSucceeds(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := mustRegister(t, s, "alice")
	bob := mustRegister(t, s, "bob")

	if err := s.Unfollow(ctx, alice.ID, "bob"); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if n := countRows(t, s, &models.Follow{}, "follower_id = ? AND followed_id = ?", alice.ID, bob.ID); n != 0 {
		t.Fatalf("expected no edge, got %d", n)
	}

	if err := s.Follow(ctx, alice.ID, "bob"); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if err := s.Unfollow(ctx, alice.ID, "bob"); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if n := countRows(t, s, &models.Follow{}, "follower_id = ?", alice.ID); n != 0 {
		t.Fatalf("expected edge removed, got %d", n)
	}
}

func TestListFollowersAndFollowing(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := mustRegister(t, s, "alice")
	mustRegister(t, s, "bob")
	carol := mustRegister(t, s, "carol")

	if err := s.Follow(ctx, alice.ID, "bob"); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if err := s.Follow(ctx, carol.ID, "bob"); err != nil {
		t.Fatalf("follow: %v", err)
	}

	followers, err := s.ListFollowers(ctx, "bob", 0, 10)
	if err != nil {
		t.Fatalf("followers: %v", err)
	}
	if len(followers) != 2 {
		t.Fatalf("expected 2 followers, got %d", len(followers))
	}
	following, err := s.ListFollowing(ctx, "alice", 0, 10)
	if err != nil {
		t.Fatalf("following: %v", err)
	}
	if len(following) != 1 || following[0].Username != "bob" {
		t.Fatalf("unexpected following: %+v", following)
	}
}
