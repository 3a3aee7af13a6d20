package repositories

import (
	"github.com/anonto42/pixgram/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HashtagRepository defines the interface for the hashtag index
type HashtagRepository interface {
	// FindOrCreate returns the hashtag row for a normalized name, inserting it if needed.
	FindOrCreate(hashtag *models.Hashtag) error
	// Link associates a post with a hashtag and bumps the post count only when the link is new.
	Link(link *models.PostHashtag) (bool, error)
	GetByName(name string) (*models.Hashtag, error)
	Search(query string, limit int) ([]models.Hashtag, error)
	Trending(limit int) ([]models.Hashtag, error)
	GetNamesForPosts(postIDs []uint) (map[uint][]string, error)
	// DetachPosts removes the links of the given posts and releases their counts.
	DetachPosts(postIDs []uint) error
}

// PostgresHashtagRepository implements HashtagRepository for PostgreSQL
type PostgresHashtagRepository struct {
	db *gorm.DB
}

// NewPostgresHashtagRepository creates a new PostgresHashtagRepository
func NewPostgresHashtagRepository(db *gorm.DB) *PostgresHashtagRepository {
	return &PostgresHashtagRepository{db: db}
}

// FindOrCreate inserts with ON CONFLICT DO NOTHING and then reads the row
// back, so concurrent callers converge on one hashtag.
func (r *PostgresHashtagRepository) FindOrCreate(hashtag *models.Hashtag) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(hashtag).Error
	if err != nil {
		return err
	}
	return r.db.Where("name = ?", hashtag.Name).First(hashtag).Error
}

func (r *PostgresHashtagRepository) Link(link *models.PostHashtag) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(link)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	err := r.db.Model(&models.Hashtag{}).
		Where("id = ?", link.HashtagID).
		UpdateColumn("post_count", gorm.Expr("post_count + ?", 1)).Error
	return err == nil, err
}

func (r *PostgresHashtagRepository) GetByName(name string) (*models.Hashtag, error) {
	var hashtag models.Hashtag
	if err := r.db.Where("name = ?", name).First(&hashtag).Error; err != nil {
		return nil, err
	}
	return &hashtag, nil
}

// Search matches a case-insensitive substring, most used first
func (r *PostgresHashtagRepository) Search(query string, limit int) ([]models.Hashtag, error) {
	var hashtags []models.Hashtag
	err := r.db.Where(`LOWER(name) LIKE LOWER(?) ESCAPE '\'`, containsPattern(query)).
		Order("post_count DESC").Order("name ASC").
		Limit(limit).
		Find(&hashtags).Error
	return hashtags, err
}

func (r *PostgresHashtagRepository) Trending(limit int) ([]models.Hashtag, error) {
	var hashtags []models.Hashtag
	err := r.db.Where("post_count > ?", 0).
		Order("post_count DESC").Order("name ASC").
		Limit(limit).
		Find(&hashtags).Error
	return hashtags, err
}

func (r *PostgresHashtagRepository) GetNamesForPosts(postIDs []uint) (map[uint][]string, error) {
	result := make(map[uint][]string)
	if len(postIDs) == 0 {
		return result, nil
	}
	var rows []struct {
		PostID uint
		Name   string
	}
	err := r.db.Table("post_hashtags").
		Select("post_hashtags.post_id, hashtags.name").
		Joins("JOIN hashtags ON hashtags.id = post_hashtags.hashtag_id").
		Where("post_hashtags.post_id IN ?", postIDs).
		Order("hashtags.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.PostID] = append(result[row.PostID], row.Name)
	}
	return result, nil
}

func (r *PostgresHashtagRepository) DetachPosts(postIDs []uint) error {
	if len(postIDs) == 0 {
		return nil
	}
	var rows []struct {
		HashtagID uint
		Total     int64
	}
	err := r.db.Model(&models.PostHashtag{}).
		Select("hashtag_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("hashtag_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}
	for _, row := range rows {
		err := r.db.Model(&models.Hashtag{}).
			Where("id = ?", row.HashtagID).
			UpdateColumn("post_count", gorm.Expr("CASE WHEN post_count > ? THEN post_count - ? ELSE 0 END", row.Total, row.Total)).Error
		if err != nil {
			return err
		}
	}
	return r.db.Where("post_id IN ?", postIDs).Delete(&models.PostHashtag{}).Error
}
