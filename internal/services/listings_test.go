package services

import (
	"context"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/jobmarket/internal/domain/events"
	"github.com/maxaizer/jobmarket/internal/domain/models"
	"github.com/maxaizer/jobmarket/internal/filters"
	"github.com/maxaizer/jobmarket/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestListings(t *testing.T, bus EventBus.Bus) *Listings {
	db := newSeededDb(t)
	return NewListings(
		repositories.NewJobsRepository(db.DB),
		repositories.NewWorkersRepository(db.DB),
		repositories.NewEmployersRepository(db.DB),
		bus,
	)
}

var jobDraft = models.JobDraft{
	Title:       "Tile Setter",
	Description: "Bathroom renovation in a residential tower",
	Skills:      []string{"Tiling", " Tiling ", "Grouting"},
	Location:    models.Location{City: "Mumbai", State: "Maharashtra"},
	Salary:      &models.Salary{Min: 18000, Max: 24000, Period: models.Monthly},
}

func Test_Jobs_ShouldFilterNewestFirst(t *testing.T) {
	listings := newTestListings(t, EventBus.New())

	all, err := listings.Jobs(context.Background(), filters.JobCriteria{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "job5", all[0].ID)

	plumbing, err := listings.Jobs(context.Background(), filters.JobCriteria{Skills: []string{"Plumbing"}})
	require.NoError(t, err)
	require.Len(t, plumbing, 1)
	assert.Equal(t, "job1", plumbing[0].ID)
}

func Test_Job_WhenMissing_ShouldReturnNotFound(t *testing.T) {
	listings := newTestListings(t, EventBus.New())

	_, err := listings.Job(context.Background(), "job-missing")
	assert.True(t, models.IsNotFound(err))

	_, err = listings.Worker(context.Background(), "worker-missing")
	assert.True(t, models.IsNotFound(err))

	_, err = listings.Employer(context.Background(), "emp-missing")
	assert.True(t, models.IsNotFound(err))
}

func Test_EmployerJobs_ShouldReturnPostedJobsOrNotFound(t *testing.T) {
	ctx := context.Background()
	listings := newTestListings(t, EventBus.New())

	jobs, err := listings.EmployerJobs(ctx, "emp1")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "job1", jobs[0].ID)

	posted, err := listings.PostJob(ctx, models.Identity{ID: "emp1", Name: "Anita Sharma", Role: models.RoleEmployer}, jobDraft)
	require.NoError(t, err)
	jobs, err = listings.EmployerJobs(ctx, "emp1")
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, posted.ID, jobs[0].ID)

	_, err = listings.EmployerJobs(ctx, "emp-missing")
	assert.True(t, models.IsNotFound(err))
}

func Test_Workers_ShouldApplyCriteria(t *testing.T) {
	listings := newTestListings(t, EventBus.New())

	workers, err := listings.Workers(context.Background(), filters.WorkerCriteria{Search: "raj"})

	require.NoError(t, err)
	require.NotEmpty(t, workers)
	assert.Equal(t, "worker1", workers[0].ID)
}

func Test_PostJob_WhenPosterIsWorker_ShouldBeForbidden(t *testing.T) {
	listings := newTestListings(t, EventBus.New())

	_, err := listings.PostJob(context.Background(), demoWorker, jobDraft)

	assert.ErrorIs(t, err, models.ErrForbidden)
}

func Test_PostJob_WhenDraftInvalid_ShouldReturnValidationError(t *testing.T) {
	listings := newTestListings(t, EventBus.New())
	employer := models.Identity{ID: "emp1", Name: "Anita Sharma", Role: models.RoleEmployer}

	draft := jobDraft
	draft.Title = ""
	draft.Skills = nil
	_, err := listings.PostJob(context.Background(), employer, draft)

	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "title")
	assert.Contains(t, validationErr.Fields, "skills")
}

func Test_PostJob_WhenFieldsBlank_ShouldReturnValidationError(t *testing.T) {
	ctx := context.Background()
	listings := newTestListings(t, EventBus.New())
	employer := models.Identity{ID: "emp1", Name: "Anita Sharma", Role: models.RoleEmployer}

	draft := jobDraft
	draft.Title = "   "
	draft.Skills = []string{"   ", ""}
	job, err := listings.PostJob(ctx, employer, draft)

	assert.Nil(t, job)
	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "title")
	assert.Contains(t, validationErr.Fields, "skills")

	jobs, err := listings.Jobs(ctx, filters.JobCriteria{})
	require.NoError(t, err)
	assert.Len(t, jobs, 5)
}

func Test_PostJob_ShouldPublishOpenJobUnderCompany(t *testing.T) {
	ctx := context.Background()
	bus := EventBus.New()
	var posted []events.JobPosted
	require.NoError(t, bus.Subscribe(events.JobPostedTopic, func(e events.JobPosted) { posted = append(posted, e) }))
	listings := newTestListings(t, bus)
	employer := models.Identity{ID: "emp1", Name: "Anita Sharma", Role: models.RoleEmployer}

	job, err := listings.PostJob(ctx, employer, jobDraft)

	require.NoError(t, err)
	assert.Equal(t, "BuildRight Construction", job.EmployerName)
	assert.Equal(t, models.JobOpen, job.Status)
	assert.Equal(t, []string{"Tiling", "Grouting"}, job.SkillsRequired)
	require.Len(t, posted, 1)
	assert.Equal(t, job.ID, posted[0].Job.ID)

	stored, err := listings.Job(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.Title, stored.Title)

	jobs, err := listings.Jobs(ctx, filters.JobCriteria{})
	require.NoError(t, err)
	assert.Equal(t, job.ID, jobs[0].ID)
}

func Test_PostJob_WhenNoCompanyListing_ShouldUsePosterName(t *testing.T) {
	listings := newTestListings(t, EventBus.New())
	employer := models.Identity{ID: "emp-new", Name: "Meera Joshi", Role: models.RoleEmployer}

	job, err := listings.PostJob(context.Background(), employer, jobDraft)

	require.NoError(t, err)
	assert.Equal(t, "emp-new", job.EmployerID)
	assert.Equal(t, "Meera Joshi", job.EmployerName)
}
