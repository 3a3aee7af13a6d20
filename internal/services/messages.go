package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/anonto42/pixgram/backend/internal/models"
	"github.com/anonto42/pixgram/backend/internal/repositories"
	"gorm.io/gorm"
)

// GetOrCreateConversation returns the single conversation between caller and
// other, creating it with the canonical pair order when missing.
func (s *Service) GetOrCreateConversation(ctx context.Context, callerID, otherID uint) (*models.Conversation, error) {
	if callerID == otherID {
		return nil, fmt.Errorf("conversation with yourself: %w", ErrInvalidOperation)
	}
	var conversation *models.Conversation
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if _, err := tx.Users.GetUserByID(otherID); err != nil {
			return lookupErr(err, "user %d", otherID)
		}
		var err error
		conversation, err = s.conversationFor(tx, callerID, otherID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return conversation, nil
}

// conversationFor inserts the pair if absent and reads it back. The unique
// pair index makes concurrent callers converge on one row.
func (s *Service) conversationFor(tx *repositories.Store, a, b uint) (*models.Conversation, error) {
	existing, err := tx.Conversations.GetByPair(a, b)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	now := s.clock()
	low, high := models.CanonicalPair(a, b)
	created, err := tx.Conversations.CreateIfAbsent(&models.Conversation{
		User1ID:   low,
		User2ID:   high,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	if created {
		s.logger.Debug("conversation created", "user1_id", low, "user2_id", high)
	}
	conversation, err := tx.Conversations.GetByPair(a, b)
	if err != nil {
		return nil, lookupErr(err, "conversation %d/%d", low, high)
	}
	return conversation, nil
}

// ListConversations returns the caller's conversations, most recently active first.
func (s *Service) ListConversations(ctx context.Context, callerID uint) ([]models.ConversationSummary, error) {
	repo := s.repo(ctx)
	conversations, err := repo.Conversations.GetConversationsForUser(callerID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	ids := make([]uint, len(conversations))
	for i, c := range conversations {
		ids[i] = c.ID
	}
	unread, err := repo.Messages.GetUnreadCounts(callerID, ids)
	if err != nil {
		return nil, fmt.Errorf("count unread messages: %w", err)
	}
	last, err := repo.Messages.GetLastMessages(ids)
	if err != nil {
		return nil, fmt.Errorf("load last messages: %w", err)
	}

	summaries := make([]models.ConversationSummary, 0, len(conversations))
	for _, c := range conversations {
		summary := models.ConversationSummary{
			Conversation: c,
			OtherUser:    c.OtherUser(callerID).ToCompact(),
			UnreadCount:  unread[c.ID],
		}
		if m, ok := last[c.ID]; ok {
			summary.LastMessage = &m
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// SendMessage delivers a text or image message, creating the conversation
// on first contact and notifying the receiver.
func (s *Service) SendMessage(ctx context.Context, senderID uint, req models.SendMessageRequest) (*models.Message, error) {
	req.Content = strings.TrimSpace(req.Content)
	if req.MessageType == "" {
		req.MessageType = models.MessageText
		if req.Content == "" && req.ImageURL != "" {
			req.MessageType = models.MessageImage
		}
	}
	if err := s.check(req); err != nil {
		return nil, err
	}
	if req.MessageType == models.MessageText && req.Content == "" {
		return nil, fmt.Errorf("%w: text message without content", ErrInvalidInput)
	}
	if req.ReceiverID == senderID {
		return nil, fmt.Errorf("message yourself: %w", ErrInvalidOperation)
	}

	var message *models.Message
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if _, err := tx.Users.GetUserByID(req.ReceiverID); err != nil {
			return lookupErr(err, "user %d", req.ReceiverID)
		}
		sender, err := tx.Users.GetUserByID(senderID)
		if err != nil {
			return lookupErr(err, "user %d", senderID)
		}
		conversation, err := s.conversationFor(tx, senderID, req.ReceiverID)
		if err != nil {
			return err
		}

		now := s.clock()
		message = &models.Message{
			ConversationID: conversation.ID,
			SenderID:       senderID,
			ReceiverID:     req.ReceiverID,
			Content:        req.Content,
			ImageURL:       req.ImageURL,
			MessageType:    req.MessageType,
			CreatedAt:      now,
		}
		if err := tx.Messages.CreateMessage(message); err != nil {
			return fmt.Errorf("create message: %w", err)
		}
		if err := tx.Conversations.Touch(conversation.ID, now); err != nil {
			return fmt.Errorf("touch conversation: %w", err)
		}
		message.Sender = *sender

		text := sender.Username + " sent you a message"
		if req.MessageType == models.MessageImage {
			text = sender.Username + " sent you a photo"
		}
		return s.Notify(tx, Notice{
			ReceiverID: req.ReceiverID,
			SenderID:   &senderID,
			Type:       models.NotificationMessage,
			Message:    text,
		})
	})
	if err != nil {
		return nil, err
	}
	return message, nil
}

// ListMessages returns a page of a conversation oldest to newest. Listing
// marks every message addressed to the caller as read.
func (s *Service) ListMessages(ctx context.Context, callerID, conversationID uint, skip, limit int) ([]models.Message, error) {
	skip, limit = page(skip, limit)
	var messages []models.Message
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		conversation, err := tx.Conversations.GetConversationByID(conversationID)
		if err != nil {
			return lookupErr(err, "conversation %d", conversationID)
		}
		if !conversation.HasParticipant(callerID) {
			return fmt.Errorf("conversation %d: %w", conversationID, ErrNotFound)
		}
		if _, err := tx.Messages.MarkAsRead(conversationID, callerID); err != nil {
			return fmt.Errorf("mark messages read: %w", err)
		}
		messages, err = tx.Messages.GetMessages(conversationID, skip, limit)
		if err != nil {
			return fmt.Errorf("list messages: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Reverse(messages)
	return messages, nil
}

// TotalUnread counts unread messages addressed to the caller across conversations.
func (s *Service) TotalUnread(ctx context.Context, callerID uint) (int64, error) {
	count, err := s.repo(ctx).Messages.GetTotalUnread(callerID)
	if err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}
	return count, nil
}
