package services

import (
	"context"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"github.com/maxaizer/jobmarket/internal/domain/models"
	"github.com/maxaizer/jobmarket/internal/repositories"
	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
)

// Sessions keeps live Session objects in memory. A session evicted after
// idleTTL is rebuilt from its durable slot on the next access.
type Sessions struct {
	provider AuthProvider
	data     *repositories.Data
	pending  pendingRegistrations
	bus      EventBus.Bus
	cache    *gocache.Cache
	mu       sync.Mutex
}

func NewSessions(provider AuthProvider, data *repositories.Data, pending pendingRegistrations,
	bus EventBus.Bus, idleTTL time.Duration) *Sessions {

	return &Sessions{
		provider: provider,
		data:     data,
		pending:  pending,
		bus:      bus,
		cache:    gocache.New(idleTTL, idleTTL),
	}
}

// Create starts a new anonymous session.
func (m *Sessions) Create() *Session {
	session := m.newSession(uuid.NewString())
	m.cache.SetDefault(session.ID(), session)
	return session
}

// Open returns the session a client already holds, restoring it when needed,
// or a new one when sessionID is empty.
func (m *Sessions) Open(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return m.Create(), nil
	}
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, models.NewValidationError("sessionId", "must be a uuid")
	}
	return m.Get(ctx, sessionID)
}

// Get returns the live session or restores it from storage.
func (m *Sessions) Get(ctx context.Context, sessionID string) (*Session, error) {
	if session, found := m.lookup(sessionID); found {
		return session, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if session, found := m.lookup(sessionID); found {
		return session, nil
	}

	session := m.newSession(sessionID)
	if err := session.Restore(ctx); err != nil {
		return nil, err
	}

	log.Debugf("session %s restored in state %v", sessionID, session.State())
	m.cache.SetDefault(sessionID, session)
	return session, nil
}

// lookup also refreshes the idle expiry of a found session.
func (m *Sessions) lookup(sessionID string) (*Session, bool) {
	value, found := m.cache.Get(sessionID)
	if !found {
		return nil, false
	}

	session := value.(*Session)
	m.cache.SetDefault(sessionID, session)
	return session, true
}

func (m *Sessions) Forget(sessionID string) {
	m.cache.Delete(sessionID)
}

func (m *Sessions) Count() int {
	return m.cache.ItemCount()
}

func (m *Sessions) newSession(sessionID string) *Session {
	return NewSession(sessionID, m.provider, m.data.Slot(sessionID), m.pending, m.bus)
}
