package models

import "time"

// Notification types
const (
	NotificationFollow  = "follow"
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationMessage = "message"
)

// Notification is addressed to ReceiverID. SenderID is nil for system notifications.
type Notification struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	ReceiverID       uint      `json:"receiver_id" gorm:"not null;index"`
	Receiver         User      `json:"-" gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE"`
	SenderID         *uint     `json:"sender_id,omitempty" gorm:"index"`
	Sender           *User     `json:"sender,omitempty" gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE"`
	Type             string    `json:"notification_type" gorm:"size:20;not null;index"`
	Message          string    `json:"message" gorm:"type:text;not null"`
	RelatedPostID    *uint     `json:"related_post_id,omitempty" gorm:"index"`
	RelatedPost      *Post     `json:"related_post,omitempty" gorm:"foreignKey:RelatedPostID;constraint:OnDelete:CASCADE"`
	RelatedCommentID *uint     `json:"related_comment_id,omitempty" gorm:"index"`
	IsRead           bool      `json:"is_read" gorm:"default:false;not null;index"`
	CreatedAt        time.Time `json:"created_at" gorm:"index"`
}

// GroupedNotifications buckets a receiver's notifications by age.
type GroupedNotifications struct {
	Today       []Notification `json:"today"`
	Yesterday   []Notification `json:"yesterday"`
	ThisWeek    []Notification `json:"thisWeek"`
	Older       []Notification `json:"older"`
	UnreadCount int64          `json:"unreadCount"`
}
