package repositories

import (
	"context"

	"github.com/maxaizer/jobmarket/internal/domain/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Identities struct {
	db *gorm.DB
}

func NewIdentitiesRepository(db *gorm.DB) *Identities {
	return &Identities{db: db}
}

func (repo *Identities) Create(ctx context.Context, identity models.Identity) error {
	return repo.db.WithContext(ctx).Create(&identity).Error
}

func (repo *Identities) GetByID(ctx context.Context, id string) (*models.Identity, error) {
	return repo.first(ctx, "id = ?", id)
}

func (repo *Identities) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	return repo.first(ctx, "email = ?", models.NormalizeEmail(email))
}

func (repo *Identities) first(ctx context.Context, query string, args ...any) (*models.Identity, error) {
	var identity models.Identity
	err := repo.db.WithContext(ctx).Where(query, args...).First(&identity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &identity, nil
}

// Update writes the mutable profile fields. Role and email are never touched.
func (repo *Identities) Update(ctx context.Context, identity models.Identity) error {
	return repo.db.WithContext(ctx).Model(&models.Identity{}).Where("id = ?", identity.ID).
		Updates(profileColumns(identity)).Error
}

// SyncListings copies the profile fields onto the worker or employer listing
// that shares the identity's id. Missing listings are not an error.
func (repo *Identities) SyncListings(ctx context.Context, identity models.Identity) error {
	var model any
	switch identity.Role {
	case models.RoleWorker:
		model = &models.Worker{}
	case models.RoleEmployer:
		model = &models.Employer{}
	default:
		return nil
	}

	return repo.db.WithContext(ctx).Model(model).Where("id = ?", identity.ID).
		Updates(profileColumns(identity)).Error
}

func profileColumns(identity models.Identity) map[string]any {
	return map[string]any{
		"name":   identity.Name,
		"phone":  identity.Phone,
		"avatar": identity.Avatar,
	}
}
