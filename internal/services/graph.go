package services

import (
	"context"
	"fmt"

	"github.com/anonto42/pixgram/backend/internal/models"
	"github.com/anonto42/pixgram/backend/internal/repositories"
)

// Follow adds the edge caller -> target. Following twice is a no-op and the
// follow notification fires only for the first edge.
func (s *Service) Follow(ctx context.Context, callerID uint, targetUsername string) error {
	return s.store.Transaction(ctx, func(tx *repositories.Store) error {
		target, err := tx.Users.GetUserByUsername(targetUsername)
		if err != nil {
			return lookupErr(err, "user %q", targetUsername)
		}
		if target.ID == callerID {
			return fmt.Errorf("follow yourself: %w", ErrInvalidOperation)
		}
		caller, err := tx.Users.GetUserByID(callerID)
		if err != nil {
			return lookupErr(err, "user %d", callerID)
		}

		created, err := tx.Follows.CreateFollow(&models.Follow{
			FollowerID: callerID,
			FollowedID: target.ID,
			CreatedAt:  s.clock(),
		})
		if err != nil {
			return fmt.Errorf("create follow: %w", err)
		}
		if !created {
			return nil
		}
		return s.Notify(tx, Notice{
			ReceiverID: target.ID,
			SenderID:   &callerID,
			Type:       models.NotificationFollow,
			Message:    caller.Username + " started following you",
		})
	})
}

// Unfollow removes the edge caller -> target if present.
func (s *Service) Unfollow(ctx context.Context, callerID uint, targetUsername string) error {
	repo := s.repo(ctx)
	target, err := repo.Users.GetUserByUsername(targetUsername)
	if err != nil {
		return lookupErr(err, "user %q", targetUsername)
	}
	if _, err := repo.Follows.DeleteFollow(callerID, target.ID); err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	return nil
}

func (s *Service) ListFollowers(ctx context.Context, username string, skip, limit int) ([]models.UserCompact, error) {
	repo := s.repo(ctx)
	user, err := repo.Users.GetUserByUsername(username)
	if err != nil {
		return nil, lookupErr(err, "user %q", username)
	}
	skip, limit = page(skip, limit)
	users, err := repo.Follows.GetFollowers(user.ID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return compactUsers(users), nil
}

func (s *Service) ListFollowing(ctx context.Context, username string, skip, limit int) ([]models.UserCompact, error) {
	repo := s.repo(ctx)
	user, err := repo.Users.GetUserByUsername(username)
	if err != nil {
		return nil, lookupErr(err, "user %q", username)
	}
	skip, limit = page(skip, limit)
	users, err := repo.Follows.GetFollowing(user.ID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return compactUsers(users), nil
}
