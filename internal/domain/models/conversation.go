package models

import (
	"encoding/json"
	"time"
)

// Conversation is a two-party thread. Participants are kept ordered so the
// pair (FirstParticipant, SecondParticipant) identifies the thread.
type Conversation struct {
	ID                string `gorm:"primaryKey"`
	FirstParticipant  string `gorm:"index;uniqueIndex:idx_conversation_pair"`
	SecondParticipant string `gorm:"index;uniqueIndex:idx_conversation_pair"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func NewConversation(id, a, b string, now time.Time) Conversation {
	if b < a {
		a, b = b, a
	}
	return Conversation{ID: id, FirstParticipant: a, SecondParticipant: b, CreatedAt: now, UpdatedAt: now}
}

func (c Conversation) Participants() []string {
	return []string{c.FirstParticipant, c.SecondParticipant}
}

func (c Conversation) HasParticipant(identityID string) bool {
	return c.FirstParticipant == identityID || c.SecondParticipant == identityID
}

// Other returns the participant that is not identityID.
func (c Conversation) Other(identityID string) string {
	if c.FirstParticipant == identityID {
		return c.SecondParticipant
	}
	return c.FirstParticipant
}

func (c Conversation) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		ID           string    `json:"id"`
		Participants []string  `json:"participants"`
		CreatedAt    time.Time `json:"createdAt"`
		UpdatedAt    time.Time `json:"updatedAt"`
	}{
		ID:           c.ID,
		Participants: c.Participants(),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	})
}

type Message struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	ConversationID string    `gorm:"uniqueIndex:idx_conversation_seq" json:"conversationId"`
	Seq            int64     `gorm:"uniqueIndex:idx_conversation_seq" json:"seq"`
	SenderID       string    `json:"senderId"`
	ReceiverID     string    `json:"receiverId"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `gorm:"index" json:"createdAt"`
	Read           bool      `gorm:"-" json:"read"`
}

// ReadMarker records that a reader has seen a message.
type ReadMarker struct {
	MessageID string `gorm:"primaryKey"`
	ReaderID  string `gorm:"primaryKey"`
	ReadAt    time.Time
}
