package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anonto42/pixgram/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service implements the social core: identity, graph, content, stories,
// messaging, notifications and the hashtag index. Every operation takes the
// caller's user id explicitly.
type Service struct {
	store    *repositories.Store
	validate *validator.Validate
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock used for timestamps and story expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger for secondary-effect decisions.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New builds a Service over store.
func New(store *repositories.Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		validate: validator.New(),
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

func (s *Service) repo(ctx context.Context) *repositories.Store {
	return s.store.WithContext(ctx)
}

func (s *Service) check(req any) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// Page returns skip and limit as the core applies them.
func Page(skip, limit int) (int, int) {
	return page(skip, limit)
}

// page clamps skip/limit to the accepted window.
func page(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return skip, limit
}
