package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/maxaizer/jobmarket/internal/domain/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Messages struct {
	db *gorm.DB
	// serializes seq assignment; the transaction alone is not enough on sqlite
	appendMu sync.Mutex
}

func NewMessagesRepository(db *gorm.DB) *Messages {
	return &Messages{db: db}
}

// GetByConversation returns the messages ordered by createdAt then seq, with
// Read set when the receiver has a read marker.
func (repo *Messages) GetByConversation(ctx context.Context, conversationID string) ([]models.Message, error) {
	var messages []models.Message
	if err := repo.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at").Order("seq").
		Find(&messages).Error; err != nil {
		return nil, err
	}

	if len(messages) == 0 {
		return messages, nil
	}

	var markers []models.ReadMarker
	ids := lo.Map(messages, func(m models.Message, _ int) string { return m.ID })
	if err := repo.db.WithContext(ctx).Where("message_id IN ?", ids).Find(&markers).Error; err != nil {
		return nil, err
	}

	read := make(map[string]struct{}, len(markers))
	for _, marker := range markers {
		read[marker.MessageID+"|"+marker.ReaderID] = struct{}{}
	}
	for i := range messages {
		_, messages[i].Read = read[messages[i].ID+"|"+messages[i].ReceiverID]
	}

	return messages, nil
}

// Append stores the message with the next sequence number of its conversation.
// The assigned seq is written back into message.
func (repo *Messages) Append(ctx context.Context, message *models.Message) error {
	repo.appendMu.Lock()
	defer repo.appendMu.Unlock()

	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last int64
		if err := tx.Model(&models.Message{}).
			Where("conversation_id = ?", message.ConversationID).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&last).Error; err != nil {
			return err
		}

		message.Seq = last + 1
		message.Read = false
		return tx.Create(message).Error
	})
}

// MarkRead records a marker for every message of the conversation addressed to
// readerID. Existing markers are kept. It returns the number of new markers.
func (repo *Messages) MarkRead(ctx context.Context, conversationID, readerID string, at time.Time) (int64, error) {
	var ids []string
	if err := repo.db.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_id = ? AND receiver_id = ?", conversationID, readerID).
		Pluck("id", &ids).Error; err != nil {
		return 0, err
	}

	if len(ids) == 0 {
		return 0, nil
	}

	markers := lo.Map(ids, func(id string, _ int) models.ReadMarker {
		return models.ReadMarker{MessageID: id, ReaderID: readerID, ReadAt: at.UTC()}
	})

	result := repo.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&markers)
	return result.RowsAffected, result.Error
}

func (repo *Messages) CountUnread(ctx context.Context, conversationID, readerID string) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_id = ? AND receiver_id = ?", conversationID, readerID).
		Where("NOT EXISTS (SELECT 1 FROM read_markers rm WHERE rm.message_id = messages.id AND rm.reader_id = ?)", readerID).
		Count(&count).Error
	return count, err
}
