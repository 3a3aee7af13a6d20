package services

import (
	"context"
	"fmt"

	"github.com/anonto42/pixgram/backend/internal/models"
	"github.com/anonto42/pixgram/backend/internal/repositories"
)

// CreateStory stores a story that expires models.StoryTTL from now.
func (s *Service) CreateStory(ctx context.Context, authorID uint, req models.CreateStoryRequest) (*models.StoryDetail, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	repo := s.repo(ctx)
	author, err := repo.Users.GetUserByID(authorID)
	if err != nil {
		return nil, lookupErr(err, "user %d", authorID)
	}
	now := s.clock()
	story := &models.Story{
		ImageURL:    req.ImageURL,
		TextContent: req.TextContent,
		AuthorID:    authorID,
		CreatedAt:   now,
		ExpiresAt:   now.Add(models.StoryTTL),
		IsActive:    true,
	}
	if err := repo.Stories.CreateStory(story); err != nil {
		return nil, fmt.Errorf("create story: %w", err)
	}
	story.Author = *author
	return &models.StoryDetail{Story: *story}, nil
}

// ListActiveStories returns live stories by the viewer and followees, newest first.
func (s *Service) ListActiveStories(ctx context.Context, viewerID uint) ([]models.StoryDetail, error) {
	repo := s.repo(ctx)
	now := s.clock()
	stories, err := repo.Stories.GetActiveStories(viewerID, now)
	if err != nil {
		return nil, fmt.Errorf("load stories: %w", err)
	}
	return s.enrichStories(repo, viewerID, stories)
}

// ListUserStories returns the live stories of one author.
func (s *Service) ListUserStories(ctx context.Context, viewerID uint, username string) ([]models.StoryDetail, error) {
	repo := s.repo(ctx)
	author, err := repo.Users.GetUserByUsername(username)
	if err != nil {
		return nil, lookupErr(err, "user %q", username)
	}
	stories, err := repo.Stories.GetActiveStoriesByAuthor(author.ID, s.clock())
	if err != nil {
		return nil, fmt.Errorf("load stories of %q: %w", username, err)
	}
	return s.enrichStories(repo, viewerID, stories)
}

// GetStory returns a story with its derived fields, expired or not.
func (s *Service) GetStory(ctx context.Context, viewerID, storyID uint) (*models.StoryDetail, error) {
	repo := s.repo(ctx)
	story, err := repo.Stories.GetStoryByID(storyID)
	if err != nil {
		return nil, lookupErr(err, "story %d", storyID)
	}
	details, err := s.enrichStories(repo, viewerID, []models.Story{*story})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// ViewStory records that the viewer saw a story. Repeat views are no-ops.
// Expired and deactivated stories both fail with ErrInvalidOperation.
func (s *Service) ViewStory(ctx context.Context, viewerID, storyID uint) error {
	repo := s.repo(ctx)
	story, err := repo.Stories.GetStoryByID(storyID)
	if err != nil {
		return lookupErr(err, "story %d", storyID)
	}
	now := s.clock()
	if story.ExpiredAt(now) {
		return fmt.Errorf("story %d has expired: %w", storyID, ErrInvalidOperation)
	}
	if !story.IsActive {
		return fmt.Errorf("story %d is deactivated: %w", storyID, ErrInvalidOperation)
	}
	created, err := repo.Stories.MarkSeen(&models.StoryView{
		StoryID:  storyID,
		ViewerID: viewerID,
		ViewedAt: now,
	})
	if err != nil {
		return fmt.Errorf("record story view: %w", err)
	}
	if !created {
		s.logger.Debug("story already viewed", "story_id", storyID, "viewer_id", viewerID)
	}
	return nil
}

// ListStoryViews returns who viewed a story. Only its author may ask.
func (s *Service) ListStoryViews(ctx context.Context, requesterID, storyID uint) ([]models.StoryView, error) {
	repo := s.repo(ctx)
	story, err := repo.Stories.GetStoryByID(storyID)
	if err != nil {
		return nil, lookupErr(err, "story %d", storyID)
	}
	if story.AuthorID != requesterID {
		return nil, fmt.Errorf("views of story %d: %w", storyID, ErrForbidden)
	}
	views, err := repo.Stories.GetViews(storyID)
	if err != nil {
		return nil, fmt.Errorf("list story views: %w", err)
	}
	return views, nil
}

// DeactivateStory clears the active flag of the caller's story. Expiry is unaffected.
func (s *Service) DeactivateStory(ctx context.Context, callerID, storyID uint) error {
	repo := s.repo(ctx)
	story, err := repo.Stories.GetStoryByID(storyID)
	if err != nil {
		return lookupErr(err, "story %d", storyID)
	}
	if story.AuthorID != callerID {
		return fmt.Errorf("deactivate story %d: %w", storyID, ErrForbidden)
	}
	if err := repo.Stories.SetActive(storyID, false); err != nil {
		return fmt.Errorf("deactivate story %d: %w", storyID, err)
	}
	return nil
}

func (s *Service) enrichStories(repo *repositories.Store, viewerID uint, stories []models.Story) ([]models.StoryDetail, error) {
	ids := make([]uint, len(stories))
	for i, st := range stories {
		ids[i] = st.ID
	}
	counts, err := repo.Stories.GetViewCounts(ids)
	if err != nil {
		return nil, fmt.Errorf("count story views: %w", err)
	}
	seen, err := repo.Stories.GetSeenStoryIDs(viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("load seen stories: %w", err)
	}
	now := s.clock()
	details := make([]models.StoryDetail, 0, len(stories))
	for _, st := range stories {
		details = append(details, models.StoryDetail{
			Story:      st,
			IsExpired:  st.ExpiredAt(now),
			ViewsCount: counts[st.ID],
			IsViewed:   seen[st.ID],
		})
	}
	return details, nil
}
