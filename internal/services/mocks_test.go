package services

import (
	"context"
	"sync"
	"testing"

	"github.com/maxaizer/jobmarket/internal/domain/models"
	"github.com/maxaizer/jobmarket/internal/repositories"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) SignIn(ctx context.Context, email, password string) (models.AuthSession, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(models.AuthSession), args.Error(1)
}

func (m *mockProvider) SignUp(ctx context.Context, email, password string) (models.AuthSession, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(models.AuthSession), args.Error(1)
}

func (m *mockProvider) SignOut(ctx context.Context, accessToken string) error {
	return m.Called(ctx, accessToken).Error(0)
}

func (m *mockProvider) ValidateSession(ctx context.Context, accessToken string) (string, error) {
	args := m.Called(ctx, accessToken)
	return args.String(0), args.Error(1)
}

func (m *mockProvider) CreateProfile(ctx context.Context, identity models.Identity) error {
	return m.Called(ctx, identity).Error(0)
}

func (m *mockProvider) GetProfile(ctx context.Context, userID string) (*models.Identity, error) {
	args := m.Called(ctx, userID)
	identity, _ := args.Get(0).(*models.Identity)
	return identity, args.Error(1)
}

func (m *mockProvider) UpdateProfile(ctx context.Context, identity models.Identity) error {
	return m.Called(ctx, identity).Error(0)
}

type mockRevokingProvider struct {
	mockProvider
}

func (m *mockRevokingProvider) RevokeCredential(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockPending struct {
	mock.Mock
}

func (m *mockPending) Add(ctx context.Context, pending models.PendingRegistration) error {
	return m.Called(ctx, pending).Error(0)
}

func (m *mockPending) Get(ctx context.Context, userID string) (*models.PendingRegistration, error) {
	args := m.Called(ctx, userID)
	pending, _ := args.Get(0).(*models.PendingRegistration)
	return pending, args.Error(1)
}

func (m *mockPending) RecordAttempt(ctx context.Context, userID string, cause error) error {
	return m.Called(ctx, userID, cause).Error(0)
}

func (m *mockPending) Remove(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

// memorySlot is a slotStorage kept in a map.
type memorySlot struct {
	mu     sync.Mutex
	values map[string][]byte
}

func newMemorySlot() *memorySlot {
	return &memorySlot{values: map[string][]byte{}}
}

func (s *memorySlot) Save(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *memorySlot) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key], nil
}

func (s *memorySlot) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func newSeededDb(t *testing.T) *repositories.DbContext {
	t.Helper()

	dbCtx, err := repositories.NewDbContext(repositories.DriverSqlite, "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, dbCtx.Migrate())
	require.NoError(t, dbCtx.SeedIfEmpty())
	t.Cleanup(func() { _ = dbCtx.Close() })
	return dbCtx
}
