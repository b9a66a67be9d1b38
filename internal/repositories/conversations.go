package repositories

import (
	"context"

	"github.com/maxaizer/jobmarket/internal/domain/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Conversations struct {
	db *gorm.DB
}

func NewConversationsRepository(db *gorm.DB) *Conversations {
	return &Conversations{db: db}
}

// GetByParticipant returns the identity's conversations, most recently active first.
func (repo *Conversations) GetByParticipant(ctx context.Context, identityID string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	if err := repo.db.WithContext(ctx).
		Where("first_participant = ? OR second_participant = ?", identityID, identityID).
		Order("updated_at DESC").Order("id").
		Find(&conversations).Error; err != nil {
		return nil, err
	}
	return conversations, nil
}

func (repo *Conversations) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	var conversation models.Conversation
	err := repo.db.WithContext(ctx).First(&conversation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conversation, nil
}

func (repo *Conversations) GetByParticipants(ctx context.Context, a, b string) (*models.Conversation, error) {
	if b < a {
		a, b = b, a
	}

	var conversation models.Conversation
	err := repo.db.WithContext(ctx).
		First(&conversation, "first_participant = ? AND second_participant = ?", a, b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conversation, nil
}

func (repo *Conversations) Add(ctx context.Context, conversation models.Conversation) error {
	return repo.db.WithContext(ctx).Create(&conversation).Error
}
