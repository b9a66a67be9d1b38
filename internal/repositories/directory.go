package repositories

import (
	"context"

	"github.com/maxaizer/jobmarket/internal/domain/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Workers struct {
	db *gorm.DB
}

func NewWorkersRepository(db *gorm.DB) *Workers {
	return &Workers{db: db}
}

func (repo *Workers) GetAll(ctx context.Context) ([]models.Worker, error) {
	var workers []models.Worker
	if err := repo.db.WithContext(ctx).Order("id").Find(&workers).Error; err != nil {
		return nil, err
	}
	return workers, nil
}

func (repo *Workers) GetByID(ctx context.Context, id string) (*models.Worker, error) {
	var worker models.Worker
	err := repo.db.WithContext(ctx).First(&worker, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &worker, nil
}

type Employers struct {
	db *gorm.DB
}

func NewEmployersRepository(db *gorm.DB) *Employers {
	return &Employers{db: db}
}

func (repo *Employers) GetAll(ctx context.Context) ([]models.Employer, error) {
	var employers []models.Employer
	if err := repo.db.WithContext(ctx).Order("id").Find(&employers).Error; err != nil {
		return nil, err
	}
	return employers, nil
}

func (repo *Employers) GetByID(ctx context.Context, id string) (*models.Employer, error) {
	var employer models.Employer
	err := repo.db.WithContext(ctx).First(&employer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &employer, nil
}
