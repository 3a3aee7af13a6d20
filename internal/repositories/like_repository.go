package repositories

import (
	"github.com/anonto42/pixgram/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	// CreateLike inserts the like unless one exists and reports whether a row was written.
	CreateLike(like *models.Like) (bool, error)
	DeleteLike(postID, userID uint) (bool, error)
	GetLikesCountByPostIDs(postIDs []uint) (map[uint]int64, error)
	GetLikedPostIDs(userID uint, postIDs []uint) (map[uint]bool, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

func (r *PostgresLikeRepository) CreateLike(like *models.Like) (bool, error) {
	res := r.db.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoNothing: true,
		}).
		Create(like)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *PostgresLikeRepository) DeleteLike(postID, userID uint) (bool, error) {
	res := r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

type postCount struct {
	PostID uint
	Total  int64
}

// GetLikesCountByPostIDs counts likes per post in one query. Posts without
// likes are absent from the map.
func (r *PostgresLikeRepository) GetLikesCountByPostIDs(postIDs []uint) (map[uint]int64, error) {
	return countByPost(r.db.Model(&models.Like{}), postIDs)
}

func (r *PostgresLikeRepository) GetLikedPostIDs(userID uint, postIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if len(postIDs) == 0 {
		return result, nil
	}
	var liked []uint
	err := r.db.Model(&models.Like{}).Where("user_id = ? AND post_id IN ?", userID, postIDs).Pluck("post_id", &liked).Error
	if err != nil {
		return nil, err
	}
	for _, id := range liked {
		result[id] = true
	}
	return result, nil
}

func countByPost(q *gorm.DB, postIDs []uint) (map[uint]int64, error) {
	result := make(map[uint]int64)
	if len(postIDs) == 0 {
		return result, nil
	}
	var rows []postCount
	err := q.Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.PostID] = row.Total
	}
	return result, nil
}
