package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxaizer/jobmarket/internal/api/middlewares"
	"github.com/maxaizer/jobmarket/internal/services"
)

type ConversationHandler struct {
	messaging *services.Messaging
}

func NewConversationHandler(messaging *services.Messaging) *ConversationHandler {
	return &ConversationHandler{messaging: messaging}
}

// GET /v1/conversations?q=
func (h *ConversationHandler) List(c *gin.Context) {
	identity := middlewares.CurrentIdentity(c)

	views, err := h.messaging.SearchConversations(c.Request.Context(), identity.ID, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": views, "empty": len(views) == 0})
}

// POST /v1/conversations
func (h *ConversationHandler) Start(c *gin.Context) {
	var in struct {
		ParticipantID string `json:"participantId"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	conversation, err := h.messaging.StartConversation(c.Request.Context(), middlewares.CurrentIdentity(c).ID, in.ParticipantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conversation)
}

// GET /v1/conversations/:id/messages
func (h *ConversationHandler) Messages(c *gin.Context) {
	ctx := c.Request.Context()
	conversation, err := h.messaging.Conversation(ctx, c.Param("id"), middlewares.CurrentIdentity(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}

	messages, err := h.messaging.ListMessages(ctx, conversation.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages, "empty": len(messages) == 0})
}

// POST /v1/conversations/:id/messages
// Blank content is accepted and ignored with 204.
func (h *ConversationHandler) Send(c *gin.Context) {
	var in struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	identity := middlewares.CurrentIdentity(c)
	conversation, err := h.messaging.Conversation(ctx, c.Param("id"), identity.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	message, err := h.messaging.SendMessage(ctx, conversation.ID, identity.ID, in.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	if message == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusCreated, message)
}

// POST /v1/conversations/:id/read
func (h *ConversationHandler) MarkRead(c *gin.Context) {
	marked, err := h.messaging.MarkRead(c.Request.Context(), c.Param("id"), middlewares.CurrentIdentity(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": marked})
}
