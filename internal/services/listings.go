package services

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"github.com/maxaizer/jobmarket/internal/domain/events"
	"github.com/maxaizer/jobmarket/internal/domain/models"
	"github.com/maxaizer/jobmarket/internal/filters"
	"github.com/maxaizer/jobmarket/internal/logger"
	"github.com/maxaizer/jobmarket/internal/metrics"
	log "github.com/sirupsen/logrus"
)

type jobRepository interface {
	GetAll(ctx context.Context) ([]models.Job, error)
	GetByID(ctx context.Context, id string) (*models.Job, error)
	GetByEmployer(ctx context.Context, employerID string) ([]models.Job, error)
	Add(ctx context.Context, job models.Job) error
}

type workerDirectory interface {
	GetAll(ctx context.Context) ([]models.Worker, error)
	GetByID(ctx context.Context, id string) (*models.Worker, error)
}

type employerDirectory interface {
	GetAll(ctx context.Context) ([]models.Employer, error)
	GetByID(ctx context.Context, id string) (*models.Employer, error)
}

type Listings struct {
	jobs      jobRepository
	workers   workerDirectory
	employers employerDirectory
	bus       EventBus.Bus
	now       func() time.Time
}

func NewListings(jobs jobRepository, workers workerDirectory, employers employerDirectory,
	bus EventBus.Bus) *Listings {

	return &Listings{
		jobs:      jobs,
		workers:   workers,
		employers: employers,
		bus:       bus,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (l *Listings) Jobs(ctx context.Context, criteria filters.JobCriteria) ([]models.Job, error) {
	jobs, err := l.jobs.GetAll(ctx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to get jobs: %v", err)
		return nil, err
	}

	start := time.Now()
	filtered := filters.ApplyJobFilters(jobs, criteria)
	metrics.FilterDuration.WithLabelValues("jobs").Observe(time.Since(start).Seconds())
	return filtered, nil
}

func (l *Listings) Job(ctx context.Context, id string) (*models.Job, error) {
	job, err := l.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &models.NotFoundError{Entity: "job", ID: id}
	}
	return job, nil
}

func (l *Listings) Workers(ctx context.Context, criteria filters.WorkerCriteria) ([]models.Worker, error) {
	workers, err := l.workers.GetAll(ctx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to get workers: %v", err)
		return nil, err
	}

	start := time.Now()
	filtered := filters.ApplyWorkerFilters(workers, criteria)
	metrics.FilterDuration.WithLabelValues("workers").Observe(time.Since(start).Seconds())
	return filtered, nil
}

func (l *Listings) Worker(ctx context.Context, id string) (*models.Worker, error) {
	worker, err := l.workers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if worker == nil {
		return nil, &models.NotFoundError{Entity: "worker", ID: id}
	}
	return worker, nil
}

func (l *Listings) Employers(ctx context.Context) ([]models.Employer, error) {
	employers, err := l.employers.GetAll(ctx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to get employers: %v", err)
		return nil, err
	}
	return employers, nil
}

func (l *Listings) Employer(ctx context.Context, id string) (*models.Employer, error) {
	employer, err := l.employers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if employer == nil {
		return nil, &models.NotFoundError{Entity: "employer", ID: id}
	}
	return employer, nil
}

// EmployerJobs returns the jobs an employer posted, newest first. An employer
// with neither a listing nor a job is not found.
func (l *Listings) EmployerJobs(ctx context.Context, employerID string) ([]models.Job, error) {
	jobs, err := l.jobs.GetByEmployer(ctx, employerID)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to get jobs of %s: %v", employerID, err)
		return nil, err
	}
	if len(jobs) > 0 {
		return jobs, nil
	}

	if _, err = l.Employer(ctx, employerID); err != nil {
		return nil, err
	}
	return jobs, nil
}

// PostJob publishes an open job on behalf of an employer. Employers without a
// company listing post under their own name.
func (l *Listings) PostJob(ctx context.Context, poster models.Identity, draft models.JobDraft) (*models.Job, error) {
	const op = "post_job"

	if poster.Role != models.RoleEmployer {
		return nil, models.NewAuthError(op, models.ErrForbidden, nil)
	}
	draft = draft.Normalized()
	if err := models.Validate(draft); err != nil {
		return nil, err
	}

	employer, err := l.employers.GetByID(ctx, poster.ID)
	if err != nil {
		return nil, err
	}
	if employer == nil {
		employer = &models.Employer{Identity: poster, CompanyName: poster.Name}
	}

	job := models.NewJob(uuid.NewString(), draft, *employer, l.now())
	if err = l.jobs.Add(ctx, job); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to add job: %v", err)
		return nil, err
	}

	log.Infof("job %s posted by %s", job.ID, poster.ID)
	l.bus.Publish(events.JobPostedTopic, events.JobPosted{Job: job})
	return &job, nil
}
