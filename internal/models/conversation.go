package models

import "time"

// Message types
const (
	MessageText  = "text"
	MessageImage = "image"
)

// Conversation is the unique thread between two users. The pair is stored
// canonically: User1ID < User2ID.
type Conversation struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	User1ID   uint      `json:"user1_id" gorm:"not null;index;uniqueIndex:idx_conversation_pair;check:chk_conversation_order,user1_id < user2_id"`
	User2ID   uint      `json:"user2_id" gorm:"not null;index;uniqueIndex:idx_conversation_pair"`
	User1     User      `json:"user1" gorm:"foreignKey:User1ID;constraint:OnDelete:CASCADE"`
	User2     User      `json:"user2" gorm:"foreignKey:User2ID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index"`
}

// CanonicalPair orders two user ids so the lower id comes first.
func CanonicalPair(a, b uint) (uint, uint) {
	if a < b {
		return a, b
	}
	return b, a
}

// HasParticipant reports whether userID is one of the two participants.
func (c Conversation) HasParticipant(userID uint) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// OtherUser returns the participant that is not userID.
func (c Conversation) OtherUser(userID uint) User {
	if c.User1ID == userID {
		return c.User2
	}
	return c.User1
}

// Message belongs to one conversation. IsRead flips when the receiver lists the conversation.
type Message struct {
	ID             uint         `json:"id" gorm:"primaryKey"`
	ConversationID uint         `json:"conversation_id" gorm:"not null;index"`
	Conversation   Conversation `json:"-" gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
	SenderID       uint         `json:"sender_id" gorm:"not null;index"`
	Sender         User         `json:"sender" gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE"`
	ReceiverID     uint         `json:"receiver_id" gorm:"not null;index"`
	Receiver       User         `json:"-" gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE"`
	Content        string       `json:"content,omitempty" gorm:"type:text"`
	ImageURL       string       `json:"image_url,omitempty"`
	MessageType    string       `json:"message_type" gorm:"size:10;not null;default:'text'"`
	IsRead         bool         `json:"is_read" gorm:"default:false;not null;index"`
	CreatedAt      time.Time    `json:"created_at" gorm:"index"`
}

// ConversationSummary is a conversation as seen by one participant.
type ConversationSummary struct {
	Conversation
	OtherUser   UserCompact `json:"other_user"`
	LastMessage *Message    `json:"last_message"`
	UnreadCount int64       `json:"unread_count"`
}

// SendMessageRequest defines the request body for sending a direct message
type SendMessageRequest struct {
	ReceiverID  uint   `json:"receiver_id" validate:"required"`
	Content     string `json:"content" validate:"max=2000,required_without=ImageURL"`
	ImageURL    string `json:"image_url" validate:"max=512,required_if=MessageType image"`
	MessageType string `json:"message_type" validate:"omitempty,oneof=text image"`
}

// StartConversationRequest defines the request body for opening a conversation
type StartConversationRequest struct {
	UserID uint `json:"user_id" validate:"required"`
}
