package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cloud-classroom/internal/models"
	"github.com/noah-isme/cloud-classroom/internal/service"
	"github.com/noah-isme/cloud-classroom/pkg/response"
)

// ChatHandler exposes pairwise messaging.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler constructs the handler.
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Peers godoc
// @Summary List chat peers
// @Tags Chat
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /chat/peers [get]
func (h *ChatHandler) Peers(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	response.OK(c, h.chat.Peers(c.Request.Context(), session))
}

// Send godoc
// @Summary Send a message
// @Tags Chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.SendMessageRequest true "Message"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /chat/messages [post]
func (h *ChatHandler) Send(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	var req models.SendMessageRequest
	if !bindJSON(c, &req, "invalid message payload") {
		return
	}
	msg, err := h.chat.Send(c.Request.Context(), session, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, msg)
}

// Messages godoc
// @Summary Messages received from a peer
// @Tags Chat
// @Security BearerAuth
// @Produce json
// @Param peer path string true "Peer username"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /chat/messages/{peer} [get]
func (h *ChatHandler) Messages(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	msgs, err := h.chat.Messages(c.Request.Context(), session, c.Param("peer"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, msgs)
}

// Conversation godoc
// @Summary Both directions of a chat in send order
// @Tags Chat
// @Security BearerAuth
// @Produce json
// @Param peer path string true "Peer username"
// @Success 200 {object} response.Envelope
// @Router /chat/conversations/{peer} [get]
func (h *ChatHandler) Conversation(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	msgs, err := h.chat.Conversation(c.Request.Context(), session, c.Param("peer"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, msgs)
}
