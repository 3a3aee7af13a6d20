package repositories

import (
	"time"

	"github.com/anonto42/pixgram/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationRepository defines the interface for two-party conversations.
// Pairs are always looked up and stored in canonical order.
type ConversationRepository interface {
	GetByPair(userA, userB uint) (*models.Conversation, error)
	// CreateIfAbsent inserts the conversation unless its pair exists and reports whether a row was written.
	CreateIfAbsent(conversation *models.Conversation) (bool, error)
	GetConversationByID(id uint) (*models.Conversation, error)
	GetConversationsForUser(userID uint) ([]models.Conversation, error)
	Touch(id uint, at time.Time) error
}

// PostgresConversationRepository implements ConversationRepository for PostgreSQL
type PostgresConversationRepository struct {
	db *gorm.DB
}

// NewPostgresConversationRepository creates a new PostgresConversationRepository
func NewPostgresConversationRepository(db *gorm.DB) *PostgresConversationRepository {
	return &PostgresConversationRepository{db: db}
}

func (r *PostgresConversationRepository) GetByPair(userA, userB uint) (*models.Conversation, error) {
	low, high := models.CanonicalPair(userA, userB)
	var conversation models.Conversation
	err := r.db.Preload("User1").Preload("User2").
		Where("user1_id = ? AND user2_id = ?", low, high).
		First(&conversation).Error
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *PostgresConversationRepository) CreateIfAbsent(conversation *models.Conversation) (bool, error) {
	conversation.User1ID, conversation.User2ID = models.CanonicalPair(conversation.User1ID, conversation.User2ID)
	res := r.db.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user1_id"}, {Name: "user2_id"}},
			DoNothing: true,
		}).
		Create(conversation)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *PostgresConversationRepository) GetConversationByID(id uint) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := r.db.Preload("User1").Preload("User2").First(&conversation, id).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

// GetConversationsForUser lists conversations the user takes part in, most recently active first
func (r *PostgresConversationRepository) GetConversationsForUser(userID uint) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.Preload("User1").Preload("User2").
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("updated_at DESC").Order("id DESC").
		Find(&conversations).Error
	return conversations, err
}

func (r *PostgresConversationRepository) Touch(id uint, at time.Time) error {
	return r.db.Model(&models.Conversation{}).Where("id = ?", id).UpdateColumn("updated_at", at).Error
}
