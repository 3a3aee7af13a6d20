package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/anonto42/pixgram/backend/internal/models"
	"github.com/anonto42/pixgram/backend/internal/repositories"
)

var hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)

// ExtractHashtags returns the lower-cased tags of caption in order of first
// appearance, without duplicates.
func ExtractHashtags(caption string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(caption, -1)
	seen := make(map[string]struct{}, len(matches))
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		name := strings.ToLower(m[1])
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		tags = append(tags, name)
	}
	return tags
}

// AssociateHashtags links every tag in caption to the post. Running it again
// for the same post changes nothing.
func (s *Service) AssociateHashtags(tx *repositories.Store, postID uint, caption string) ([]string, error) {
	tags := ExtractHashtags(caption)
	linked := 0
	for _, name := range tags {
		hashtag := &models.Hashtag{Name: name, CreatedAt: s.clock()}
		if err := tx.Hashtags.FindOrCreate(hashtag); err != nil {
			return nil, fmt.Errorf("hashtag %q: %w", name, err)
		}
		created, err := tx.Hashtags.Link(&models.PostHashtag{
			PostID:    postID,
			HashtagID: hashtag.ID,
			CreatedAt: s.clock(),
		})
		if err != nil {
			return nil, fmt.Errorf("link hashtag %q: %w", name, err)
		}
		if created {
			linked++
		}
	}
	if len(tags) > 0 {
		s.logger.Debug("hashtags associated", "post_id", postID, "found", len(tags), "linked", linked)
	}
	return tags, nil
}

// SearchHashtags matches a case-insensitive substring, most used first.
func (s *Service) SearchHashtags(ctx context.Context, query string, limit int) ([]models.Hashtag, error) {
	query = strings.TrimPrefix(strings.TrimSpace(query), "#")
	if query == "" {
		return []models.Hashtag{}, nil
	}
	_, limit = page(0, limit)
	hashtags, err := s.repo(ctx).Hashtags.Search(query, limit)
	if err != nil {
		return nil, fmt.Errorf("search hashtags: %w", err)
	}
	return hashtags, nil
}

// TrendingHashtags lists tags with at least one post, most used first.
func (s *Service) TrendingHashtags(ctx context.Context, limit int) ([]models.Hashtag, error) {
	_, limit = page(0, limit)
	hashtags, err := s.repo(ctx).Hashtags.Trending(limit)
	if err != nil {
		return nil, fmt.Errorf("trending hashtags: %w", err)
	}
	return hashtags, nil
}
