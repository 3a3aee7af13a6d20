package repositories

import (
	"github.com/anonto42/pixgram/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MessageRepository defines the interface for direct message operations
type MessageRepository interface {
	CreateMessage(message *models.Message) error
	// GetMessages returns a page of a conversation, newest first.
	GetMessages(conversationID uint, skip, limit int) ([]models.Message, error)
	MarkAsRead(conversationID, receiverID uint) (int64, error)
	GetUnreadCounts(receiverID uint, conversationIDs []uint) (map[uint]int64, error)
	GetLastMessages(conversationIDs []uint) (map[uint]models.Message, error)
	GetTotalUnread(receiverID uint) (int64, error)
}

// PostgresMessageRepository implements MessageRepository for PostgreSQL
type PostgresMessageRepository struct {
	db *gorm.DB
}

// NewPostgresMessageRepository creates a new PostgresMessageRepository
func NewPostgresMessageRepository(db *gorm.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) CreateMessage(message *models.Message) error {
	return r.db.Omit(clause.Associations).Create(message).Error
}

func (r *PostgresMessageRepository) GetMessages(conversationID uint, skip, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("Sender").
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").Order("id DESC").
		Offset(offset(skip)).Limit(limit).
		Find(&messages).Error
	return messages, err
}

// MarkAsRead flags every unread message addressed to receiverID in the conversation
func (r *PostgresMessageRepository) MarkAsRead(conversationID, receiverID uint) (int64, error) {
	res := r.db.Model(&models.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND is_read = ?", conversationID, receiverID, false).
		UpdateColumn("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *PostgresMessageRepository) GetUnreadCounts(receiverID uint, conversationIDs []uint) (map[uint]int64, error) {
	result := make(map[uint]int64)
	if len(conversationIDs) == 0 {
		return result, nil
	}
	var rows []struct {
		ConversationID uint
		Total          int64
	}
	err := r.db.Model(&models.Message{}).
		Select("conversation_id, COUNT(*) AS total").
		Where("receiver_id = ? AND is_read = ? AND conversation_id IN ?", receiverID, false, conversationIDs).
		Group("conversation_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.ConversationID] = row.Total
	}
	return result, nil
}

// GetLastMessages returns the newest message of each conversation
func (r *PostgresMessageRepository) GetLastMessages(conversationIDs []uint) (map[uint]models.Message, error) {
	result := make(map[uint]models.Message)
	if len(conversationIDs) == 0 {
		return result, nil
	}
	latest := r.db.Model(&models.Message{}).
		Select("MAX(id)").
		Where("conversation_id IN ?", conversationIDs).
		Group("conversation_id")
	var messages []models.Message
	if err := r.db.Where("id IN (?)", latest).Find(&messages).Error; err != nil {
		return nil, err
	}
	for _, m := range messages {
		result[m.ConversationID] = m
	}
	return result, nil
}

func (r *PostgresMessageRepository) GetTotalUnread(receiverID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).Where("receiver_id = ? AND is_read = ?", receiverID, false).Count(&count).Error
	return count, err
}
