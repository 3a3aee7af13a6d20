package repositories

import (
	"time"

	"github.com/anonto42/pixgram/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoryRepository defines the interface for story operations. Expiry is
// always evaluated against the instant the caller passes in.
type StoryRepository interface {
	CreateStory(story *models.Story) error
	GetStoryByID(id uint) (*models.Story, error)
	GetActiveStories(viewerID uint, now time.Time) ([]models.Story, error)
	GetActiveStoriesByAuthor(authorID uint, now time.Time) ([]models.Story, error)
	SetActive(id uint, active bool) error
	// MarkSeen records a view unless the viewer already saw the story and reports whether a row was written.
	MarkSeen(view *models.StoryView) (bool, error)
	GetSeenStoryIDs(userID uint, storyIDs []uint) (map[uint]bool, error)
	GetViewCounts(storyIDs []uint) (map[uint]int64, error)
	GetViews(storyID uint) ([]models.StoryView, error)
}

// PostgresStoryRepository implements StoryRepository for PostgreSQL
type PostgresStoryRepository struct {
	db *gorm.DB
}

// NewPostgresStoryRepository creates a new PostgresStoryRepository
func NewPostgresStoryRepository(db *gorm.DB) *PostgresStoryRepository {
	return &PostgresStoryRepository{db: db}
}

func (r *PostgresStoryRepository) CreateStory(story *models.Story) error {
	return r.db.Omit(clause.Associations).Create(story).Error
}

func (r *PostgresStoryRepository) GetStoryByID(id uint) (*models.Story, error) {
	var story models.Story
	if err := r.db.Preload("Author").First(&story, id).Error; err != nil {
		return nil, err
	}
	return &story, nil
}

// GetActiveStories returns unexpired, active stories by the viewer and followees
func (r *PostgresStoryRepository) GetActiveStories(viewerID uint, now time.Time) ([]models.Story, error) {
	following := r.db.Model(&models.Follow{}).Select("followed_id").Where("follower_id = ?", viewerID)
	var stories []models.Story
	err := r.db.Preload("Author").
		Where("author_id = ? OR author_id IN (?)", viewerID, following).
		Where("is_active = ? AND expires_at > ?", true, now).
		Order("created_at DESC").Order("id DESC").
		Find(&stories).Error
	return stories, err
}

func (r *PostgresStoryRepository) GetActiveStoriesByAuthor(authorID uint, now time.Time) ([]models.Story, error) {
	var stories []models.Story
	err := r.db.Preload("Author").
		Where("author_id = ?", authorID).
		Where("is_active = ? AND expires_at > ?", true, now).
		Order("created_at DESC").Order("id DESC").
		Find(&stories).Error
	return stories, err
}

func (r *PostgresStoryRepository) SetActive(id uint, active bool) error {
	return r.db.Model(&models.Story{}).Where("id = ?", id).Update("is_active", active).Error
}

func (r *PostgresStoryRepository) MarkSeen(view *models.StoryView) (bool, error) {
	res := r.db.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "story_id"}, {Name: "viewer_id"}},
			DoNothing: true,
		}).
		Create(view)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *PostgresStoryRepository) GetSeenStoryIDs(userID uint, storyIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if len(storyIDs) == 0 {
		return result, nil
	}
	var seen []uint
	err := r.db.Model(&models.StoryView{}).Where("viewer_id = ? AND story_id IN ?", userID, storyIDs).Pluck("story_id", &seen).Error
	if err != nil {
		return nil, err
	}
	for _, id := range seen {
		result[id] = true
	}
	return result, nil
}

func (r *PostgresStoryRepository) GetViewCounts(storyIDs []uint) (map[uint]int64, error) {
	result := make(map[uint]int64)
	if len(storyIDs) == 0 {
		return result, nil
	}
	var rows []struct {
		StoryID uint
		Total   int64
	}
	err := r.db.Model(&models.StoryView{}).
		Select("story_id, COUNT(*) AS total").
		Where("story_id IN ?", storyIDs).
		Group("story_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.StoryID] = row.Total
	}
	return result, nil
}

// GetViews lists who viewed a story, most recent first
func (r *PostgresStoryRepository) GetViews(storyID uint) ([]models.StoryView, error) {
	var views []models.StoryView
	err := r.db.Preload("Viewer").
		Where("story_id = ?", storyID).
		Order("viewed_at DESC").Order("id DESC").
		Find(&views).Error
	return views, err
}
