package repositories

import (
	"context"
	"time"

	"github.com/maxaizer/jobmarket/internal/domain/models"
	gocache "github.com/patrickmn/go-cache"
)

type directoryRepository[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id string) (*T, error)
}

const allKey = "*"

// CachedDirectory memoizes a read-mostly listing repository.
type CachedDirectory[T any] struct {
	repo  directoryRepository[T]
	cache *gocache.Cache
}

type (
	CachedWorkers   = CachedDirectory[models.Worker]
	CachedEmployers = CachedDirectory[models.Employer]
)

func NewCachedWorkers(repo directoryRepository[models.Worker], ttl time.Duration) *CachedWorkers {
	return newCachedDirectory(repo, ttl)
}

func NewCachedEmployers(repo directoryRepository[models.Employer], ttl time.Duration) *CachedEmployers {
	return newCachedDirectory(repo, ttl)
}

func newCachedDirectory[T any](repo directoryRepository[T], ttl time.Duration) *CachedDirectory[T] {
	return &CachedDirectory[T]{repo: repo, cache: gocache.New(ttl, 2*ttl)}
}

func (c *CachedDirectory[T]) GetAll(ctx context.Context) ([]T, error) {
	if value, found := c.cache.Get(allKey); found {
		return value.([]T), nil
	}

	all, err := c.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(allKey, all)
	return all, nil
}

func (c *CachedDirectory[T]) GetByID(ctx context.Context, id string) (*T, error) {
	if value, found := c.cache.Get(id); found {
		return value.(*T), nil
	}

	record, err := c.repo.GetByID(ctx, id)
	if record != nil {
		c.cache.SetDefault(id, record)
	}
	return record, err
}

// Invalidate drops the record cached under id together with the full listing.
func (c *CachedDirectory[T]) Invalidate(id string) {
	c.cache.Delete(id)
	c.cache.Delete(allKey)
}
