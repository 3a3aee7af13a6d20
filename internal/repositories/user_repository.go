package repositories

import (
	"github.com/anonto42/pixgram/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByFirebaseUID(firebaseUID string) (*models.User, error)
	UpdateUser(user *models.User) error
	SearchUsers(query string, limit int) ([]models.User, error)
	DeleteUser(id uint) error
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user in PostgreSQL
func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// GetUserByID retrieves a user by ID from PostgreSQL
func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByFirebaseUID retrieves a user by Firebase UID from PostgreSQL
func (r *PostgresUserRepository) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("firebase_uid = ?", firebaseUID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser saves every column of user
func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

// SearchUsers matches username or full name, case-insensitive
func (r *PostgresUserRepository) SearchUsers(query string, limit int) ([]models.User, error) {
	var users []models.User
	pattern := containsPattern(query)
	err := r.db.Where("is_active = ?", true).
		Where(`LOWER(username) LIKE LOWER(?) ESCAPE '\' OR LOWER(full_name) LIKE LOWER(?) ESCAPE '\'`, pattern, pattern).
		Order("username ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// DeleteUser removes a user together with everything the user owns, children
// first. Must run inside a transaction.
func (r *PostgresUserRepository) DeleteUser(id uint) error {
	var postIDs []uint
	if err := r.db.Model(&models.Post{}).Where("author_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
		return err
	}
	var storyIDs []uint
	if err := r.db.Model(&models.Story{}).Where("author_id = ?", id).Pluck("id", &storyIDs).Error; err != nil {
		return err
	}
	var conversationIDs []uint
	if err := r.db.Model(&models.Conversation{}).Where("user1_id = ? OR user2_id = ?", id, id).Pluck("id", &conversationIDs).Error; err != nil {
		return err
	}

	if err := NewPostgresHashtagRepository(r.db).DetachPosts(postIDs); err != nil {
		return err
	}

	steps := []struct {
		model any
		query string
		args  []any
	}{
		{&models.Notification{}, "receiver_id = ? OR sender_id = ?", []any{id, id}},
		{&models.Message{}, "sender_id = ? OR receiver_id = ? OR conversation_id IN ?", []any{id, id, nonEmpty(conversationIDs)}},
		{&models.StoryView{}, "viewer_id = ? OR story_id IN ?", []any{id, nonEmpty(storyIDs)}},
		{&models.Like{}, "user_id = ?", []any{id}},
		{&models.Comment{}, "author_id = ?", []any{id}},
		{&models.Follow{}, "follower_id = ? OR followed_id = ?", []any{id, id}},
	}
	for _, step := range steps {
		if err := r.db.Where(step.query, step.args...).Delete(step.model).Error; err != nil {
			return err
		}
	}

	if err := NewPostgresPostRepository(r.db).DeletePosts(postIDs); err != nil {
		return err
	}
	if err := r.db.Where("id IN ?", nonEmpty(conversationIDs)).Delete(&models.Conversation{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("author_id = ?", id).Delete(&models.Story{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.User{}, id).Error
}

// nonEmpty keeps IN clauses valid for empty id sets; 0 never matches a row.
func nonEmpty(ids []uint) []uint {
	if len(ids) == 0 {
		return []uint{0}
	}
	return ids
}
