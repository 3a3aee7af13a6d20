package repositories

import (
	"github.com/anonto42/pixgram/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	GetFeed(viewerID uint, skip, limit int) ([]models.Post, error)
	GetPostsByAuthor(authorID uint, skip, limit int) ([]models.Post, error)
	GetPostsByHashtag(hashtagID uint, skip, limit int) ([]models.Post, error)
	CountByAuthor(authorID uint) (int64, error)
	DeletePosts(ids []uint) error
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost inserts the post row and then its images, keeping each
// submitted OrderIndex.
func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	if err := r.db.Omit(clause.Associations).Create(post).Error; err != nil {
		return err
	}
	if len(post.Images) == 0 {
		return nil
	}
	for i := range post.Images {
		post.Images[i].PostID = post.ID
		if post.Images[i].CreatedAt.IsZero() {
			post.Images[i].CreatedAt = post.CreatedAt
		}
	}
	return r.db.Create(&post.Images).Error
}

// GetPostByID retrieves a post with its author and ordered images
func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.withRelations(r.db).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetFeed returns posts by the viewer or anyone the viewer follows, newest first
func (r *PostgresPostRepository) GetFeed(viewerID uint, skip, limit int) ([]models.Post, error) {
	following := r.db.Model(&models.Follow{}).Select("followed_id").Where("follower_id = ?", viewerID)
	var posts []models.Post
	err := r.withRelations(r.db).
		Where("author_id = ? OR author_id IN (?)", viewerID, following).
		Order("created_at DESC").Order("id DESC").
		Offset(offset(skip)).Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *PostgresPostRepository) GetPostsByAuthor(authorID uint, skip, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.withRelations(r.db).
		Where("author_id = ?", authorID).
		Order("created_at DESC").Order("id DESC").
		Offset(offset(skip)).Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *PostgresPostRepository) GetPostsByHashtag(hashtagID uint, skip, limit int) ([]models.Post, error) {
	linked := r.db.Model(&models.PostHashtag{}).Select("post_id").Where("hashtag_id = ?", hashtagID)
	var posts []models.Post
	err := r.withRelations(r.db).
		Where("id IN (?)", linked).
		Order("created_at DESC").Order("id DESC").
		Offset(offset(skip)).Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *PostgresPostRepository) CountByAuthor(authorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

// DeletePosts removes posts and the rows they own. Hashtag counters are not
// touched here; see HashtagRepository.DetachPosts.
func (r *PostgresPostRepository) DeletePosts(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	owned := []struct {
		model  any
		column string
	}{
		{&models.Notification{}, "related_post_id"},
		{&models.Like{}, "post_id"},
		{&models.Comment{}, "post_id"},
		{&models.PostImage{}, "post_id"},
		{&models.PostHashtag{}, "post_id"},
	}
	for _, o := range owned {
		if err := r.db.Where(o.column+" IN ?", ids).Delete(o.model).Error; err != nil {
			return err
		}
	}
	return r.db.Where("id IN ?", ids).Delete(&models.Post{}).Error
}

func (r *PostgresPostRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index ASC").Order("id ASC")
	})
}
