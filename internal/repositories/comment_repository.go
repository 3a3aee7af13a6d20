package repositories

import (
	"github.com/anonto42/pixgram/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentsByPostID(postID uint, skip, limit int) ([]models.Comment, error)
	GetCommentsCountByPostIDs(postIDs []uint) (map[uint]int64, error)
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Omit(clause.Associations).Create(comment).Error
}

// GetCommentsByPostID lists comments on a post, newest first
func (r *PostgresCommentRepository) GetCommentsByPostID(postID uint, skip, limit int) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at DESC").Order("id DESC").
		Offset(offset(skip)).Limit(limit).
		Find(&comments).Error
	return comments, err
}

func (r *PostgresCommentRepository) GetCommentsCountByPostIDs(postIDs []uint) (map[uint]int64, error) {
	return countByPost(r.db.Model(&models.Comment{}), postIDs)
}
