package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/maxaizer/jobmarket/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func Test_SeedIfEmpty_WhenCalledTwice_ShouldSeedOnce(t *testing.T) {
	dbCtx := newSeededDb(t)
	require.NoError(t, dbCtx.SeedIfEmpty())

	jobs, err := NewJobsRepository(dbCtx.DB).GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, jobs, 5)
	assert.Equal(t, "job5", jobs[0].ID)

	workers, err := NewWorkersRepository(dbCtx.DB).GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, workers, 5)
}

func Test_Jobs_ShouldRoundTripSerializedFields(t *testing.T) {
	dbCtx := newSeededDb(t)

	job, err := NewJobsRepository(dbCtx.DB).GetByID(context.Background(), "job1")
	require.NoError(t, err)
	require.NotNil(t, job)

	assert.Equal(t, []string{"Plumbing", "Pipe Fitting", "Water Heater Installation"}, job.SkillsRequired)
	assert.Equal(t, models.Location{City: "Mumbai", State: "Maharashtra"}, job.Location)
	require.NotNil(t, job.Salary)
	assert.Equal(t, 20000, job.Salary.Min)
	assert.Equal(t, models.Monthly, job.Salary.Period)
}

func Test_GetByID_WhenMissing_ShouldReturnNil(t *testing.T) {
	dbCtx := newSeededDb(t)
	ctx := context.Background()

	job, err := NewJobsRepository(dbCtx.DB).GetByID(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, job)

	worker, err := NewWorkersRepository(dbCtx.DB).GetByID(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, worker)

	conversation, err := NewConversationsRepository(dbCtx.DB).GetByID(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, conversation)
}

func Test_Conversations_GetByParticipants_ShouldIgnoreOrder(t *testing.T) {
	dbCtx := newSeededDb(t)
	repo := NewConversationsRepository(dbCtx.DB)

	forward, err := repo.GetByParticipants(context.Background(), "worker1", "emp1")
	require.NoError(t, err)
	backward, err := repo.GetByParticipants(context.Background(), "emp1", "worker1")
	require.NoError(t, err)

	require.NotNil(t, forward)
	assert.Equal(t, "conv1", forward.ID)
	assert.Equal(t, forward, backward)
}

func Test_Messages_GetByConversation_ShouldReflectReceiverMarkers(t *testing.T) {
	dbCtx := newSeededDb(t)

	messages, err := NewMessagesRepository(dbCtx.DB).GetByConversation(context.Background(), "conv1")
	require.NoError(t, err)
	require.Len(t, messages, 4)

	for i, message := range messages {
		assert.Equal(t, int64(i+1), message.Seq)
	}
	assert.True(t, messages[0].Read)
	assert.False(t, messages[3].Read)
}

func Test_Messages_Append_ShouldAssignNextSeqPerConversation(t *testing.T) {
	dbCtx := newSeededDb(t)
	ctx := context.Background()
	repo := NewMessagesRepository(dbCtx.DB)
	now := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

	message := &models.Message{ID: "m-new", ConversationID: "conv1", SenderID: "worker1",
		ReceiverID: "emp1", Content: "hello", CreatedAt: now}
	require.NoError(t, repo.Append(ctx, message))
	assert.Equal(t, int64(5), message.Seq)

	fresh := &models.Message{ID: "m-first", ConversationID: "conv2", SenderID: "worker2",
		ReceiverID: "emp2", Content: "hi", CreatedAt: now}
	require.NoError(t, repo.Append(ctx, fresh))
	assert.Equal(t, int64(1), fresh.Seq)
}

func Test_Messages_MarkRead_ShouldOnlyMarkMessagesAddressedToReader(t *testing.T) {
	dbCtx := newSeededDb(t)
	ctx := context.Background()
	repo := NewMessagesRepository(dbCtx.DB)

	unread, err := repo.CountUnread(ctx, "conv1", "worker1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	added, err := repo.MarkRead(ctx, "conv1", "worker1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), added)

	added, err = repo.MarkRead(ctx, "conv1", "worker1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(0), added)

	messages, err := repo.GetByConversation(ctx, "conv1")
	require.NoError(t, err)
	for _, message := range messages {
		if message.ReceiverID == "worker1" {
			assert.True(t, message.Read, message.ID)
		}
	}
}

func Test_Slot_ShouldIsolateNamespaces(t *testing.T) {
	dbCtx := newTestDb(t)
	ctx := context.Background()
	data := NewDataRepository(dbCtx.DB)

	first, second := data.Slot("a"), data.Slot("b")
	require.NoError(t, first.Save(ctx, SlotUserKey, []byte("alice")))

	value, err := second.Load(ctx, SlotUserKey)
	require.NoError(t, err)
	assert.Nil(t, value)

	value, err = first.Load(ctx, SlotUserKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("alice"), value)

	require.NoError(t, first.Remove(ctx, SlotUserKey))
	value, err = first.Load(ctx, SlotUserKey)
	require.NoError(t, err)
	assert.Nil(t, value)
}

func Test_Registrations_RecordAttempt_ShouldIncrementAttempts(t *testing.T) {
	dbCtx := newTestDb(t)
	ctx := context.Background()
	repo := NewRegistrationsRepository(dbCtx.DB)

	pending, err := models.NewPendingRegistration(models.Identity{ID: "u1", Email: "u1@example.com",
		Role: models.RoleWorker}, errors.New("profile insert failed"))
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, pending))

	require.NoError(t, repo.RecordAttempt(ctx, "u1", errors.New("still down")))

	stored, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 2, stored.Attempts)
	assert.Equal(t, "still down", stored.LastError)

	identity, err := stored.Identity()
	require.NoError(t, err)
	assert.Equal(t, "u1@example.com", identity.Email)

	require.NoError(t, repo.Remove(ctx, "u1"))
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func Test_Identities_SyncListings_ShouldUpdateWorkerListing(t *testing.T) {
	dbCtx := newSeededDb(t)
	ctx := context.Background()
	identities := NewIdentitiesRepository(dbCtx.DB)

	identity, err := identities.GetByEmail(ctx, " Worker@Example.com ")
	require.NoError(t, err)
	require.NotNil(t, identity)

	identity.Name = "Raj K."
	require.NoError(t, identities.Update(ctx, *identity))
	require.NoError(t, identities.SyncListings(ctx, *identity))

	worker, err := NewWorkersRepository(dbCtx.DB).GetByID(ctx, identity.ID)
	require.NoError(t, err)
	assert.Equal(t, "Raj K.", worker.Name)
	assert.Equal(t, "raj.kumar@example.com", worker.Email)
}

type workersRepoMock struct {
	mock.Mock
}

func (m *workersRepoMock) GetAll(ctx context.Context) ([]models.Worker, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Worker), args.Error(1)
}

func (m *workersRepoMock) GetByID(ctx context.Context, id string) (*models.Worker, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Worker), args.Error(1)
}

func Test_CachedWorkers_ShouldHitRepositoryOnceUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	repo := &workersRepoMock{}
	worker := &models.Worker{Identity: models.Identity{ID: "worker1"}}
	repo.On("GetByID", ctx, "worker1").Return(worker, nil)
	repo.On("GetAll", ctx).Return([]models.Worker{*worker}, nil)

	cached := NewCachedWorkers(repo, time.Minute)
	for i := 0; i < 3; i++ {
		found, err := cached.GetByID(ctx, "worker1")
		require.NoError(t, err)
		assert.Equal(t, worker, found)

		_, err = cached.GetAll(ctx)
		require.NoError(t, err)
	}
	repo.AssertNumberOfCalls(t, "GetByID", 1)
	repo.AssertNumberOfCalls(t, "GetAll", 1)

	cached.Invalidate("worker1")
	_, err := cached.GetByID(ctx, "worker1")
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "GetByID", 2)
}

func Test_CachedWorkers_WhenMissing_ShouldNotCache(t *testing.T) {
	ctx := context.Background()
	repo := &workersRepoMock{}
	repo.On("GetByID", ctx, "ghost").Return((*models.Worker)(nil), nil)

	cached := NewCachedWorkers(repo, time.Minute)
	for i := 0; i < 2; i++ {
		found, err := cached.GetByID(ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, found)
	}
	repo.AssertNumberOfCalls(t, "GetByID", 2)
}
