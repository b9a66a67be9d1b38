package repositories

import (
	"context"
	"time"

	"github.com/maxaizer/jobmarket/internal/domain/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Registrations keeps credentials whose profile creation failed.
type Registrations struct {
	db *gorm.DB
}

func NewRegistrationsRepository(db *gorm.DB) *Registrations {
	return &Registrations{db: db}
}

func (repo *Registrations) Add(ctx context.Context, pending models.PendingRegistration) error {
	return repo.db.WithContext(ctx).Save(&pending).Error
}

func (repo *Registrations) Get(ctx context.Context, userID string) (*models.PendingRegistration, error) {
	var pending models.PendingRegistration
	err := repo.db.WithContext(ctx).First(&pending, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pending, nil
}

func (repo *Registrations) GetAll(ctx context.Context) ([]models.PendingRegistration, error) {
	var pending []models.PendingRegistration
	if err := repo.db.WithContext(ctx).Order("created_at").Find(&pending).Error; err != nil {
		return nil, err
	}
	return pending, nil
}

func (repo *Registrations) Count(ctx context.Context) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&models.PendingRegistration{}).Count(&count).Error
	return count, err
}

func (repo *Registrations) RecordAttempt(ctx context.Context, userID string, cause error) error {
	updates := map[string]any{
		"attempts":   gorm.Expr("attempts + 1"),
		"updated_at": time.Now().UTC(),
	}
	if cause != nil {
		updates["last_error"] = cause.Error()
	}

	return repo.db.WithContext(ctx).Model(&models.PendingRegistration{}).
		Where("user_id = ?", userID).Updates(updates).Error
}

func (repo *Registrations) Remove(ctx context.Context, userID string) error {
	return repo.db.WithContext(ctx).Delete(&models.PendingRegistration{}, "user_id = ?", userID).Error
}
