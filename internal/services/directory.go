package services

import (
	"context"

	"github.com/maxaizer/jobmarket/internal/domain/models"
)

type workerLookup interface {
	GetByID(ctx context.Context, id string) (*models.Worker, error)
}

type employerLookup interface {
	GetByID(ctx context.Context, id string) (*models.Employer, error)
}

type identityLookup interface {
	GetByID(ctx context.Context, id string) (*models.Identity, error)
}

// Directory resolves an id to the identity shown to other users. Worker and
// employer listings win over bare profiles.
type Directory struct {
	workers    workerLookup
	employers  employerLookup
	identities identityLookup
}

func NewDirectory(workers workerLookup, employers employerLookup, identities identityLookup) *Directory {
	return &Directory{workers: workers, employers: employers, identities: identities}
}

// Resolve returns nil without error when the id is unknown.
func (d *Directory) Resolve(ctx context.Context, id string) (*models.Identity, error) {
	worker, err := d.workers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if worker != nil {
		identity := worker.Identity
		return &identity, nil
	}

	employer, err := d.employers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if employer != nil {
		identity := employer.Identity
		return &identity, nil
	}

	return d.identities.GetByID(ctx, id)
}
