package services

import (
	"context"

	"github.com/maxaizer/jobmarket/internal/domain/models"
	"github.com/maxaizer/jobmarket/internal/logger"
	"github.com/maxaizer/jobmarket/internal/metrics"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type pendingRegistrationStore interface {
	GetAll(ctx context.Context) ([]models.PendingRegistration, error)
	RecordAttempt(ctx context.Context, userID string, cause error) error
	Remove(ctx context.Context, userID string) error
	Count(ctx context.Context) (int64, error)
}

type profileProvider interface {
	CreateProfile(ctx context.Context, identity models.Identity) error
	GetProfile(ctx context.Context, userID string) (*models.Identity, error)
}

// RegistrationRemediator periodically finishes registrations whose profile
// could not be created. After maxAttempts it gives up and drops the record.
type RegistrationRemediator struct {
	registrations pendingRegistrationStore
	provider      profileProvider
	cron          *cron.Cron
	maxAttempts   int
}

func NewRegistrationRemediator(registrations pendingRegistrationStore, provider profileProvider,
	schedule string, maxAttempts int) (*RegistrationRemediator, error) {

	if maxAttempts <= 0 {
		return nil, errors.New("max attempts must be greater than zero")
	}

	r := &RegistrationRemediator{
		registrations: registrations,
		provider:      provider,
		cron:          cron.New(),
		maxAttempts:   maxAttempts,
	}

	_, err := r.cron.AddFunc(schedule, func() {
		r.RunOnce(context.Background())
	})
	if err != nil {
		return nil, errors.Wrapf(err, "invalid remediation schedule %q", schedule)
	}

	return r, nil
}

func (r *RegistrationRemediator) Start() {
	r.cron.Start()
	log.Infof("registration remediator started, max attempts: %d", r.maxAttempts)
}

func (r *RegistrationRemediator) Stop() {
	<-r.cron.Stop().Done()
}

// RunOnce makes one pass over the pending registrations.
func (r *RegistrationRemediator) RunOnce(ctx context.Context) (completed int, abandoned int) {
	pending, err := r.registrations.GetAll(ctx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to get pending registrations: %v", err)
		return 0, 0
	}

	for _, registration := range pending {
		switch done, err := r.remediate(ctx, registration); {
		case done:
			completed++
		case registration.Attempts+1 >= r.maxAttempts:
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeAuthApi).
				Errorf("giving up on registration of %s after %d attempts: %v",
					registration.Email, registration.Attempts+1, err)
			r.remove(ctx, registration.UserID)
			abandoned++
		default:
			if recordErr := r.registrations.RecordAttempt(ctx, registration.UserID, err); recordErr != nil {
				log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to record attempt: %v", recordErr)
			}
		}
	}

	if count, err := r.registrations.Count(ctx); err == nil {
		metrics.PendingRegistrationsGauge.Set(float64(count))
	}

	if len(pending) > 0 {
		log.Infof("remediation pass done: %d completed, %d abandoned, %d pending before",
			completed, abandoned, len(pending))
	}
	return completed, abandoned
}

func (r *RegistrationRemediator) remediate(ctx context.Context, registration models.PendingRegistration) (bool, error) {
	identity, err := registration.Identity()
	if err != nil {
		return false, errors.Wrap(err, "corrupt profile snapshot")
	}

	existing, err := r.provider.GetProfile(ctx, identity.ID)
	if err != nil {
		return false, err
	}

	if existing == nil {
		if err = r.provider.CreateProfile(ctx, identity); err != nil {
			return false, err
		}
	}

	r.remove(ctx, registration.UserID)
	log.Infof("registration of %s completed", registration.Email)
	return true, nil
}

func (r *RegistrationRemediator) remove(ctx context.Context, userID string) {
	if err := r.registrations.Remove(ctx, userID); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to remove pending registration: %v", err)
	}
}
