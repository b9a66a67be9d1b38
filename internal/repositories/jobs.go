package repositories

import (
	"context"

	"github.com/maxaizer/jobmarket/internal/domain/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Jobs struct {
	db *gorm.DB
}

func NewJobsRepository(db *gorm.DB) *Jobs {
	return &Jobs{db: db}
}

// GetAll returns jobs newest first.
func (repo *Jobs) GetAll(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	if err := repo.db.WithContext(ctx).Order("created_at DESC").Order("id").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (repo *Jobs) GetByID(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	err := repo.db.WithContext(ctx).First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

func (repo *Jobs) GetByEmployer(ctx context.Context, employerID string) ([]models.Job, error) {
	var jobs []models.Job
	if err := repo.db.WithContext(ctx).Order("created_at DESC").
		Find(&jobs, "employer_id = ?", employerID).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (repo *Jobs) Add(ctx context.Context, job models.Job) error {
	return repo.db.WithContext(ctx).Create(&job).Error
}
