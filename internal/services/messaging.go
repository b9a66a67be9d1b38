package services

import (
	"context"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"github.com/maxaizer/jobmarket/internal/domain/events"
	"github.com/maxaizer/jobmarket/internal/domain/models"
	"github.com/maxaizer/jobmarket/internal/logger"
	"github.com/maxaizer/jobmarket/internal/metrics"
	log "github.com/sirupsen/logrus"
)

type conversationRepository interface {
	GetByParticipant(ctx context.Context, identityID string) ([]models.Conversation, error)
	GetByID(ctx context.Context, id string) (*models.Conversation, error)
	GetByParticipants(ctx context.Context, a, b string) (*models.Conversation, error)
	Add(ctx context.Context, conversation models.Conversation) error
}

type messageRepository interface {
	GetByConversation(ctx context.Context, conversationID string) ([]models.Message, error)
	Append(ctx context.Context, message *models.Message) error
	MarkRead(ctx context.Context, conversationID, readerID string, at time.Time) (int64, error)
	CountUnread(ctx context.Context, conversationID, readerID string) (int64, error)
}

type participantResolver interface {
	Resolve(ctx context.Context, id string) (*models.Identity, error)
}

// ConversationView is a conversation as seen by one of its participants.
type ConversationView struct {
	Conversation models.Conversation `json:"conversation"`
	Other        models.Identity     `json:"other"`
	Unread       int64               `json:"unread"`
}

type Messaging struct {
	conversations conversationRepository
	messages      messageRepository
	directory     participantResolver
	bus           EventBus.Bus
	now           func() time.Time
}

func NewMessaging(conversations conversationRepository, messages messageRepository,
	directory participantResolver, bus EventBus.Bus) *Messaging {

	return &Messaging{
		conversations: conversations,
		messages:      messages,
		directory:     directory,
		bus:           bus,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (m *Messaging) ListConversations(ctx context.Context, identityID string) ([]models.Conversation, error) {
	conversations, err := m.conversations.GetByParticipant(ctx, identityID)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to list conversations: %v", err)
		return nil, err
	}
	return conversations, nil
}

// SearchConversations keeps the conversations whose other participant's name
// contains query, ignoring case. A blank query lists everything.
func (m *Messaging) SearchConversations(ctx context.Context, identityID, query string) ([]ConversationView, error) {
	conversations, err := m.ListConversations(ctx, identityID)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	views := make([]ConversationView, 0, len(conversations))
	for _, conversation := range conversations {
		other, err := m.directory.Resolve(ctx, conversation.Other(identityID))
		if err != nil {
			return nil, err
		}
		if other == nil {
			if query != "" {
				continue
			}
			other = &models.Identity{ID: conversation.Other(identityID)}
		}

		if query != "" && !strings.Contains(strings.ToLower(other.Name), query) {
			continue
		}

		unread, err := m.messages.CountUnread(ctx, conversation.ID, identityID)
		if err != nil {
			return nil, err
		}
		views = append(views, ConversationView{Conversation: conversation, Other: *other, Unread: unread})
	}
	return views, nil
}

// Conversation returns the conversation if identityID takes part in it.
func (m *Messaging) Conversation(ctx context.Context, conversationID, identityID string) (*models.Conversation, error) {
	conversation, err := m.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conversation == nil || !conversation.HasParticipant(identityID) {
		return nil, &models.NotFoundError{Entity: "conversation", ID: conversationID}
	}
	return conversation, nil
}

// StartConversation returns the conversation between a and b, creating it
// when they have not talked yet.
func (m *Messaging) StartConversation(ctx context.Context, a, b string) (*models.Conversation, error) {
	if a == "" || b == "" {
		return nil, models.NewValidationError("participantId", "is required")
	}
	if a == b {
		return nil, models.NewValidationError("participantId", "must differ from the sender")
	}

	for _, id := range []string{a, b} {
		identity, err := m.directory.Resolve(ctx, id)
		if err != nil {
			return nil, err
		}
		if identity == nil {
			return nil, &models.NotFoundError{Entity: "identity", ID: id}
		}
	}

	existing, err := m.conversations.GetByParticipants(ctx, a, b)
	if err != nil || existing != nil {
		return existing, err
	}

	conversation := models.NewConversation(uuid.NewString(), a, b, m.now())
	if err = m.conversations.Add(ctx, conversation); err != nil {
		// another request may have created the pair meanwhile
		if existing, _ = m.conversations.GetByParticipants(ctx, a, b); existing != nil {
			return existing, nil
		}
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to add conversation: %v", err)
		return nil, err
	}

	log.Infof("conversation %s started between %s and %s", conversation.ID, a, b)
	return &conversation, nil
}

// ListMessages returns the messages ordered by createdAt, seq breaking ties.
func (m *Messaging) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	conversation, err := m.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, &models.NotFoundError{Entity: "conversation", ID: conversationID}
	}

	return m.messages.GetByConversation(ctx, conversationID)
}

// SendMessage appends an unread message from senderID to the other participant.
// Blank content is ignored: the result is nil without error.
// The conversation itself, updatedAt included, is left as is.
func (m *Messaging) SendMessage(ctx context.Context, conversationID, senderID, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	conversation, err := m.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, &models.NotFoundError{Entity: "conversation", ID: conversationID}
	}
	if !conversation.HasParticipant(senderID) {
		return nil, models.NewValidationError("senderId", "is not a participant of the conversation")
	}

	message := &models.Message{
		ID:             uuid.NewString(),
		ConversationID: conversation.ID,
		SenderID:       senderID,
		ReceiverID:     conversation.Other(senderID),
		Content:        content,
		CreatedAt:      m.now(),
	}

	if err = m.messages.Append(ctx, message); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to append message: %v", err)
		return nil, err
	}

	metrics.MessagesSentCounter.Inc()
	m.bus.Publish(events.MessageSentTopic, events.MessageSent{Message: *message})
	return message, nil
}

// MarkRead marks every message addressed to readerID as read.
func (m *Messaging) MarkRead(ctx context.Context, conversationID, readerID string) (int64, error) {
	conversation, err := m.Conversation(ctx, conversationID, readerID)
	if err != nil {
		return 0, err
	}

	return m.messages.MarkRead(ctx, conversation.ID, readerID, m.now())
}
