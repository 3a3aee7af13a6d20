package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/anonto42/pixgram/backend/internal/models"
	"github.com/anonto42/pixgram/backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// FederatedIdentity is a user identity already verified by an external provider.
type FederatedIdentity struct {
	UID            string
	Email          string
	DisplayName    string
	ProfilePicture string
}

// Register creates a local account with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Username:  req.Username,
		Email:     email,
		FullName:  req.FullName,
		Bio:       req.Bio,
		Password:  string(hash),
		IsActive:  true,
		CreatedAt: s.clock(),
	}

	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := ensureAvailable(tx, user.Username, user.Email); err != nil {
			return err
		}
		return createUser(tx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies a username/password pair. It is the only place
// credentials are checked; token issuing happens in the transport layer.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo(ctx).Users.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive || user.Password == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// LoginWithFirebase finds the local account for a verified federated identity,
// linking by email or provisioning a new account on first login.
func (s *Service) LoginWithFirebase(ctx context.Context, identity FederatedIdentity) (*models.User, error) {
	if identity.UID == "" || identity.Email == "" {
		return nil, fmt.Errorf("%w: federated identity needs uid and email", ErrInvalidInput)
	}
	email := strings.ToLower(identity.Email)

	var user *models.User
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		existing, err := tx.Users.GetUserByFirebaseUID(identity.UID)
		if err == nil {
			user = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("load user by firebase uid: %w", err)
		}

		existing, err = tx.Users.GetUserByEmail(email)
		if err == nil {
			uid := identity.UID
			existing.FirebaseUID = &uid
			if err := tx.Users.UpdateUser(existing); err != nil {
				return fmt.Errorf("link firebase uid: %w", err)
			}
			user = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("load user by email: %w", err)
		}

		username, err := freeUsername(tx, email)
		if err != nil {
			return err
		}
		uid := identity.UID
		fullName := identity.DisplayName
		if fullName == "" {
			fullName = username
		}
		user = &models.User{
			Username:       username,
			Email:          email,
			FullName:       fullName,
			ProfilePicture: identity.ProfilePicture,
			FirebaseUID:    &uid,
			IsActive:       true,
			CreatedAt:      s.clock(),
		}
		// Federated accounts get an unusable random password.
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("generate password: %w", err)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(secret)), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user.Password = string(hash)
		return createUser(tx, user)
	})
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo(ctx).Users.GetUserByID(id)
	if err != nil {
		return nil, lookupErr(err, "user %d", id)
	}
	return user, nil
}

func (s *Service) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repo(ctx).Users.GetUserByUsername(username)
	if err != nil {
		return nil, lookupErr(err, "user %q", username)
	}
	return user, nil
}

// Profile returns a user with graph counts computed from rows and whether
// viewerID follows them.
func (s *Service) Profile(ctx context.Context, viewerID uint, username string) (*models.UserProfile, error) {
	repo := s.repo(ctx)
	user, err := repo.Users.GetUserByUsername(username)
	if err != nil {
		return nil, lookupErr(err, "user %q", username)
	}

	profile := &models.UserProfile{User: *user}
	if profile.FollowersCount, err = repo.Follows.GetFollowersCount(user.ID); err != nil {
		return nil, fmt.Errorf("count followers: %w", err)
	}
	if profile.FollowingCount, err = repo.Follows.GetFollowingCount(user.ID); err != nil {
		return nil, fmt.Errorf("count following: %w", err)
	}
	if profile.PostsCount, err = repo.Posts.CountByAuthor(user.ID); err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	if viewerID != 0 && viewerID != user.ID {
		if profile.IsFollowing, err = repo.Follows.IsFollowing(viewerID, user.ID); err != nil {
			return nil, fmt.Errorf("check following: %w", err)
		}
	}
	return profile, nil
}

// UpdateProfile changes the non-nil fields of the caller's profile.
func (s *Service) UpdateProfile(ctx context.Context, callerID uint, req models.UpdateProfileRequest) (*models.User, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	repo := s.repo(ctx)
	user, err := repo.Users.GetUserByID(callerID)
	if err != nil {
		return nil, lookupErr(err, "user %d", callerID)
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = *req.ProfilePicture
	}
	if err := repo.Users.UpdateUser(user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// SearchUsers matches username or full name, case-insensitive.
func (s *Service) SearchUsers(ctx context.Context, query string, limit int) ([]models.UserCompact, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.UserCompact{}, nil
	}
	_, limit = page(0, limit)
	users, err := s.repo(ctx).Users.SearchUsers(query, limit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return compactUsers(users), nil
}

// DeleteAccount removes the caller and everything the caller owns in one transaction.
func (s *Service) DeleteAccount(ctx context.Context, callerID uint) error {
	return s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if _, err := tx.Users.GetUserByID(callerID); err != nil {
			return lookupErr(err, "user %d", callerID)
		}
		if err := tx.Users.DeleteUser(callerID); err != nil {
			return fmt.Errorf("delete user %d: %w", callerID, err)
		}
		return nil
	})
}

func ensureAvailable(tx *repositories.Store, username, email string) error {
	if _, err := tx.Users.GetUserByUsername(username); err == nil {
		return fmt.Errorf("username %q is taken: %w", username, ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check username: %w", err)
	}
	if _, err := tx.Users.GetUserByEmail(email); err == nil {
		return fmt.Errorf("email %q is registered: %w", email, ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check email: %w", err)
	}
	return nil
}

func createUser(tx *repositories.Store, user *models.User) error {
	if err := tx.Users.CreateUser(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user %q: %w", user.Username, ErrConflict)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// freeUsername derives an unused username from the local part of an email.
func freeUsername(tx *repositories.Store, email string) (string, error) {
	local, _, _ := strings.Cut(email, "@")
	base := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return unicode.ToLower(r)
		}
		return -1
	}, local)
	if len(base) < 3 {
		base += "user"
	}
	if len(base) > 40 {
		base = base[:40]
	}
	candidate := base
	for i := 1; i < 1000; i++ {
		_, err := tx.Users.GetUserByUsername(candidate)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("check username: %w", err)
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
	return "", fmt.Errorf("no free username for %q: %w", email, ErrConflict)
}

func compactUsers(users []models.User) []models.UserCompact {
	out := make([]models.UserCompact, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToCompact())
	}
	return out
}
