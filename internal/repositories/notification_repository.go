package repositories

import (
	"time"

	"github.com/anonto42/pixgram/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// olderNotificationsLimit caps the "older" bucket of grouped notifications.
const olderNotificationsLimit = 50

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetNotificationByID(id uint) (*models.Notification, error)
	GetByReceiverID(receiverID uint, skip, limit int) ([]models.Notification, int64, error)
	GetGrouped(receiverID uint, now time.Time) (*models.GroupedNotifications, error)
	GetUnreadCount(receiverID uint) (int64, error)
	MarkAsRead(notificationID uint) error
	MarkAllAsRead(receiverID uint) (int64, error)
}

// PostgresNotificationRepository implements NotificationRepository for PostgreSQL
type PostgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a new PostgresNotificationRepository
func NewPostgresNotificationRepository(db *gorm.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Omit(clause.Associations).Create(notification).Error
}

func (r *PostgresNotificationRepository) GetNotificationByID(id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *PostgresNotificationRepository) GetByReceiverID(receiverID uint, skip, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	if err := r.db.Model(&models.Notification{}).Where("receiver_id = ?", receiverID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Preload("Sender").
		Where("receiver_id = ?", receiverID).
		Order("created_at DESC").Order("id DESC").
		Offset(offset(skip)).Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}

// GetGrouped buckets notifications by calendar day in now's location
func (r *PostgresNotificationRepository) GetGrouped(receiverID uint, now time.Time) (*models.GroupedNotifications, error) {
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	weekStart := todayStart.AddDate(0, 0, -7)

	grouped := &models.GroupedNotifications{
		Today:     []models.Notification{},
		Yesterday: []models.Notification{},
		ThisWeek:  []models.Notification{},
		Older:     []models.Notification{},
	}
	buckets := []struct {
		dest  *[]models.Notification
		query string
		args  []any
		limit int
	}{
		{&grouped.Today, "created_at >= ?", []any{todayStart}, -1},
		{&grouped.Yesterday, "created_at >= ? AND created_at < ?", []any{yesterdayStart, todayStart}, -1},
		// This week, excluding today and yesterday
		{&grouped.ThisWeek, "created_at >= ? AND created_at < ?", []any{weekStart, yesterdayStart}, -1},
		{&grouped.Older, "created_at < ?", []any{weekStart}, olderNotificationsLimit},
	}
	for _, b := range buckets {
		err := r.db.Preload("Sender").
			Where("receiver_id = ?", receiverID).
			Where(b.query, b.args...).
			Order("created_at DESC").Order("id DESC").
			Limit(b.limit).
			Find(b.dest).Error
		if err != nil {
			return nil, err
		}
	}

	unread, err := r.GetUnreadCount(receiverID)
	if err != nil {
		return nil, err
	}
	grouped.UnreadCount = unread
	return grouped, nil
}

func (r *PostgresNotificationRepository) GetUnreadCount(receiverID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("receiver_id = ? AND is_read = ?", receiverID, false).Count(&count).Error
	return count, err
}

func (r *PostgresNotificationRepository) MarkAsRead(notificationID uint) error {
	return r.db.Model(&models.Notification{}).Where("id = ?", notificationID).UpdateColumn("is_read", true).Error
}

func (r *PostgresNotificationRepository) MarkAllAsRead(receiverID uint) (int64, error) {
	res := r.db.Model(&models.Notification{}).Where("receiver_id = ? AND is_read = ?", receiverID, false).UpdateColumn("is_read", true)
	return res.RowsAffected, res.Error
}
