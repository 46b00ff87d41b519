package service

import (
	"context"
	"testing"
	"time"

	"accessibilityhire/internal/apperr"
	"accessibilityhire/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestJobService_AddThenGet(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.signIn(t, "poster@example.com")

	in := model.JobInput{
		Title:          "Accessibility Engineer",
		Company:        "Acme",
		Location:       "Berlin",
		JobType:        "full-time",
		SalaryMin:      floatPtr(50000),
		SalaryMax:      floatPtr(70000),
		SalaryCurrency: "EUR",
		SalaryPeriod:   "year",
		Description:    "Build inclusive products",
		IsAccessible:   true,
	}
	job, err := env.jobs.AddJob(ctx, in)
	require.NoError(t, err)
	assert.False(t, job.ID.IsZero())
	assert.Equal(t, model.JobStatusActive, job.Status)
	assert.Equal(t, callerID(t, ctx), job.PostedBy)

	got, err := env.jobs.GetJobByID(context.Background(), job.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, in.Title, got.Title)
	assert.Equal(t, in.Company, got.Company)
	assert.Equal(t, in.Location, got.Location)
	assert.Equal(t, in.JobType, got.JobType)
	assert.Equal(t, 50000.0, *got.SalaryMin)
	assert.Equal(t, 70000.0, *got.SalaryMax)
	assert.Equal(t, in.SalaryCurrency, got.SalaryCurrency)
	assert.Equal(t, in.SalaryPeriod, got.SalaryPeriod)
	assert.Equal(t, in.Description, got.Description)
	assert.True(t, got.IsAccessible)
}

func TestJobService_AddValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.signIn(t, "poster@example.com")

	_, err := env.jobs.AddJob(context.Background(), model.JobInput{Title: "x"})
	assert.Equal(t, apperr.CodeNoCurrentUser, apperr.CodeOf(err))

	_, err = env.jobs.AddJob(ctx, model.JobInput{})
	assert.Equal(t, apperr.CodeJobInvalid, apperr.CodeOf(err))

	_, err = env.jobs.AddJob(ctx, model.JobInput{Title: "x", SalaryMin: floatPtr(-1)})
	assert.Equal(t, apperr.CodeJobInvalid, apperr.CodeOf(err))
}

func TestJobService_SalaryRange(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.signIn(t, "poster@example.com")

	_, err := env.jobs.AddJob(ctx, model.JobInput{Title: "x", SalaryMin: floatPtr(90000), SalaryMax: floatPtr(50000)})
	assert.Equal(t, apperr.CodeJobInvalid, apperr.CodeOf(err))

	job, err := env.jobs.AddJob(ctx, model.JobInput{Title: "x", SalaryMin: floatPtr(50000), SalaryMax: floatPtr(50000)})
	require.NoError(t, err, "equal bounds are a valid range")

	_, err = env.jobs.UpdateJob(ctx, job.ID.Hex(), model.JobUpdate{SalaryMin: floatPtr(70000), SalaryMax: floatPtr(60000)})
	assert.Equal(t, apperr.CodeJobInvalid, apperr.CodeOf(err))

	_, err = env.jobs.UpdateJob(ctx, job.ID.Hex(), model.JobUpdate{SalaryMin: floatPtr(60000)})
	assert.Equal(t, apperr.CodeJobInvalid, apperr.CodeOf(err), "a single bound is checked against the stored one")

	_, err = env.jobs.UpdateJob(ctx, job.ID.Hex(), model.JobUpdate{SalaryMax: floatPtr(40000)})
	assert.Equal(t, apperr.CodeJobInvalid, apperr.CodeOf(err))

	updated, err := env.jobs.UpdateJob(ctx, job.ID.Hex(), model.JobUpdate{SalaryMax: floatPtr(80000)})
	require.NoError(t, err)
	assert.Equal(t, 80000.0, *updated.SalaryMax)

	got, err := env.jobs.GetJobByID(ctx, job.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 50000.0, *got.SalaryMin, "rejected updates leave the job untouched")

	_, err = env.jobs.FilterJobs(context.Background(), model.JobFilter{SalaryMin: floatPtr(9), SalaryMax: floatPtr(1)}, 0)
	assert.Equal(t, apperr.CodeJobInvalid, apperr.CodeOf(err))
}

func TestJobService_DeleteThenGet(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signIn(t, "poster@example.com")
	other := env.signIn(t, "other@example.com")
	job, err := env.jobs.AddJob(owner, model.JobInput{Title: "Designer"})
	require.NoError(t, err)

	err = env.jobs.DeleteJob(other, job.ID.Hex())
	assert.Equal(t, apperr.CodeJobPermissionDenied, apperr.CodeOf(err))

	require.NoError(t, env.jobs.DeleteJob(owner, job.ID.Hex()))

	_, err = env.jobs.GetJobByID(context.Background(), job.ID.Hex())
	require.Error(t, err)
	assert.Equal(t, apperr.CodeJobNotFound, apperr.CodeOf(err))
}

func TestJobService_UpdateJob(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signIn(t, "poster@example.com")
	other := env.signIn(t, "other@example.com")
	job, err := env.jobs.AddJob(owner, model.JobInput{Title: "Designer", Location: "Paris"})
	require.NoError(t, err)

	_, err = env.jobs.UpdateJob(other, job.ID.Hex(), model.JobUpdate{Location: strPtr("Rome")})
	assert.True(t, apperr.IsPermissionDenied(err))

	_, err = env.jobs.UpdateJob(owner, job.ID.Hex(), model.JobUpdate{Title: strPtr(" ")})
	assert.Equal(t, apperr.CodeJobInvalid, apperr.CodeOf(err))

	updated, err := env.jobs.UpdateJob(owner, job.ID.Hex(), model.JobUpdate{Location: strPtr("Rome"), Status: strPtr(model.JobStatusClosed)})
	require.NoError(t, err)
	assert.Equal(t, "Designer", updated.Title)
	assert.Equal(t, "Rome", updated.Location)
	assert.Equal(t, model.JobStatusClosed, updated.Status)

	_, err = env.jobs.UpdateJob(owner, primitive.NewObjectID().Hex(), model.JobUpdate{})
	assert.True(t, apperr.IsNotFound(err))
}

func TestJobService_GetAllJobsLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.signIn(t, "poster@example.com")
	for i := 0; i < 5; i++ {
		_, err := env.jobs.AddJob(ctx, model.JobInput{Title: "job"})
		require.NoError(t, err)
	}

	jobs, err := env.jobs.GetAllJobs(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, jobs, 3)

	jobs, err = env.jobs.GetAllJobs(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, jobs, 5)
	for i := 1; i < len(jobs); i++ {
		assert.True(t, jobs[i-1].CreatedAt.After(jobs[i].CreatedAt))
	}
}

func TestJobService_FilterBeyondDefaultWindow(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.signIn(t, "poster@example.com")

	old, err := env.jobs.AddJob(ctx, model.JobInput{Title: "Old full-time", JobType: "full-time"})
	require.NoError(t, err)
	for i := 0; i < 120; i++ {
		_, err := env.jobs.AddJob(ctx, model.JobInput{Title: "Contract", JobType: "contract"})
		require.NoError(t, err)
	}

	jobs, err := env.jobs.FilterJobs(context.Background(), model.JobFilter{JobType: strPtr("full-time")}, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, old.ID, jobs[0].ID)

	found, err := env.jobs.SearchJobs(context.Background(), "OLD FULL", 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, old.ID, found[0].ID)
}

func TestJobService_FilterPredicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.signIn(t, "poster@example.com")
	add := func(in model.JobInput) *model.Job {
		j, err := env.jobs.AddJob(ctx, in)
		require.NoError(t, err)
		return j
	}
	berlin := add(model.JobInput{Title: "A", Location: "Berlin, DE", IsAccessible: true, SalaryMin: floatPtr(40000), SalaryMax: floatPtr(60000)})
	add(model.JobInput{Title: "B", Location: "Munich", IsAccessible: false, SalaryMin: floatPtr(30000), SalaryMax: floatPtr(90000)})
	add(model.JobInput{Title: "C", Location: "berlin"})

	tests := []struct {
		name   string
		filter model.JobFilter
		want   int
	}{
		{"location substring case-insensitive", model.JobFilter{Location: strPtr("BERLIN")}, 2},
		{"accessible only", model.JobFilter{IsAccessible: boolPtr(true)}, 1},
		{"salary min bound", model.JobFilter{SalaryMin: floatPtr(35000)}, 1},
		{"salary max bound", model.JobFilter{SalaryMax: floatPtr(70000)}, 1},
		{"combined", model.JobFilter{Location: strPtr("berlin"), IsAccessible: boolPtr(true), SalaryMin: floatPtr(40000)}, 1},
		{"empty filter", model.JobFilter{}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, err := env.jobs.FilterJobs(context.Background(), tt.filter, 0)
			require.NoError(t, err)
			assert.Len(t, jobs, tt.want)
		})
	}

	jobs, err := env.jobs.FilterJobs(context.Background(), model.JobFilter{IsAccessible: boolPtr(true)}, 0)
	require.NoError(t, err)
	assert.Equal(t, berlin.ID, jobs[0].ID)
}

func TestJobService_SearchEscapesKeyword(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.signIn(t, "poster@example.com")
	_, err := env.jobs.AddJob(ctx, model.JobInput{Title: "C++ developer"})
	require.NoError(t, err)
	_, err = env.jobs.AddJob(ctx, model.JobInput{Title: "Go developer", Company: "Gopher Inc"})
	require.NoError(t, err)

	jobs, err := env.jobs.SearchJobs(context.Background(), "c++", 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "C++ developer", jobs[0].Title)

	jobs, err = env.jobs.SearchJobs(context.Background(), "gopher", 0)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)

	jobs, err = env.jobs.SearchJobs(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
}

func TestJobService_GetJobsByUser(t *testing.T) {
	env := newTestEnv(t)
	a := env.signIn(t, "a@example.com")
	b := env.signIn(t, "b@example.com")
	_, err := env.jobs.AddJob(a, model.JobInput{Title: "A1"})
	require.NoError(t, err)
	_, err = env.jobs.AddJob(b, model.JobInput{Title: "B1"})
	require.NoError(t, err)

	jobs, err := env.jobs.GetJobsByUser(context.Background(), callerID(t, a).Hex())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "A1", jobs[0].Title)

	_, err = env.jobs.GetJobsByUser(context.Background(), "nope")
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}

func TestJobService_PublishesEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.signIn(t, "poster@example.com")
	events, cancel, err := env.events.Subscribe(context.Background())
	require.NoError(t, err)
	defer cancel()

	job, err := env.jobs.AddJob(ctx, model.JobInput{Title: "x"})
	require.NoError(t, err)
	require.NoError(t, env.jobs.DeleteJob(ctx, job.ID.Hex()))

	var got []string
	for len(got) < 2 {
		select {
		case evt := <-events:
			assert.Equal(t, job.ID.Hex(), evt.ID)
			got = append(got, evt.Type)
		case <-time.After(time.Second):
			t.Fatal("missing feed events")
		}
	}
	assert.Equal(t, []string{model.EventJobCreated, model.EventJobDeleted}, got)
}
