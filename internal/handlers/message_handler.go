package handlers

import (
	"net/http"

	"github.com/anonto42/pixgram/backend/internal/models"
	"github.com/anonto42/pixgram/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// MessageHandler handles direct messaging HTTP requests
type MessageHandler struct {
	svc *services.Service
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(svc *services.Service) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// RegisterMessageRoutes registers conversation and message routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.GET("/conversations", h.GetConversations)
	g.POST("/conversations", h.StartConversation)
	g.GET("/conversations/:id/messages", h.GetMessages)
	g.POST("/messages", h.SendMessage)
	g.GET("/messages/unread-count", h.GetUnreadCount)
}

// GetConversations lists the caller's conversations, most recently active first
func (h *MessageHandler) GetConversations(c echo.Context) error {
	conversations, err := h.svc.ListConversations(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, conversations)
}

// StartConversation returns the conversation with another user, creating it if needed
func (h *MessageHandler) StartConversation(c echo.Context) error {
	var req models.StartConversationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	conversation, err := h.svc.GetOrCreateConversation(c.Request().Context(), getUserIDFromContext(c), req.UserID)
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, conversation)
}

// GetMessages returns a page of messages and marks those addressed to the caller as read
func (h *MessageHandler) GetMessages(c echo.Context) error {
	conversationID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	skip, limit := pagination(c)
	messages, err := h.svc.ListMessages(c.Request().Context(), getUserIDFromContext(c), conversationID, skip, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, messages)
}

// SendMessage sends a text or image message
func (h *MessageHandler) SendMessage(c echo.Context) error {
	var req models.SendMessageRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	message, err := h.svc.SendMessage(c.Request().Context(), getUserIDFromContext(c), req)
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusCreated, message)
}

func (h *MessageHandler) GetUnreadCount(c echo.Context) error {
	count, err := h.svc.TotalUnread(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{"count": count})
}
