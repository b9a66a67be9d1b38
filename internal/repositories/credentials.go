package repositories

import (
	"context"
	"time"

	"github.com/maxaizer/jobmarket/internal/domain/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Credential is a locally stored sign-in secret. Only the bcrypt hash is kept.
type Credential struct {
	UserID       string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex"`
	PasswordHash []byte
	CreatedAt    time.Time
}

type Credentials struct {
	db *gorm.DB
}

func NewCredentialsRepository(db *gorm.DB) *Credentials {
	return &Credentials{db: db}
}

func (repo *Credentials) Add(ctx context.Context, credential Credential) error {
	credential.Email = models.NormalizeEmail(credential.Email)
	return repo.db.WithContext(ctx).Create(&credential).Error
}

func (repo *Credentials) GetByEmail(ctx context.Context, email string) (*Credential, error) {
	var credential Credential
	err := repo.db.WithContext(ctx).First(&credential, "email = ?", models.NormalizeEmail(email)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &credential, nil
}

func (repo *Credentials) Remove(ctx context.Context, userID string) error {
	return repo.db.WithContext(ctx).Delete(&Credential{}, "user_id = ?", userID).Error
}
