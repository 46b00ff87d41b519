package service

import (
	"context"
	"fmt"
	"strings"

	"accessibilityhire/internal/apperr"
	"accessibilityhire/internal/config"
	"accessibilityhire/internal/feed"
	"accessibilityhire/internal/model"
	"accessibilityhire/internal/repository"
	"accessibilityhire/pkg/util"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JobService manages user-scoped jobs
type JobService struct {
	jobs   repository.IJobRepository
	limits config.JobsConfig
	events feed.Feed
	log    *logrus.Entry
}

func NewJobService(jobs repository.IJobRepository, limits config.JobsConfig, events feed.Feed, log *logrus.Entry) *JobService {
	return &JobService{jobs: jobs, limits: limits, events: events, log: log.WithField("component", "job")}
}

func jobNotFound() *apperr.Error {
	return apperr.New(apperr.KindNotFound, apperr.CodeJobNotFound, apperr.MsgJobNotFound)
}

func invalidJob(msg string) *apperr.Error {
	return apperr.New(apperr.KindInvalidArgument, apperr.CodeJobInvalid, msg)
}

// AddJob creates a job posted by the caller. status defaults to active.
func (s *JobService) AddJob(ctx context.Context, in model.JobInput) (*model.Job, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalidJob("Job title is required")
	}
	if err := validateSalary(in.SalaryMin, in.SalaryMax); err != nil {
		return nil, err
	}
	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = model.JobStatusActive
	}

	job, err := s.jobs.Create(ctx, &model.Job{
		Title:          title,
		Company:        strings.TrimSpace(in.Company),
		Location:       strings.TrimSpace(in.Location),
		JobType:        strings.TrimSpace(in.JobType),
		SalaryMin:      in.SalaryMin,
		SalaryMax:      in.SalaryMax,
		SalaryCurrency: strings.TrimSpace(in.SalaryCurrency),
		SalaryPeriod:   strings.TrimSpace(in.SalaryPeriod),
		Description:    in.Description,
		IsAccessible:   in.IsAccessible,
		Status:         status,
		PostedBy:       caller.UserID,
	})
	if err != nil {
		return nil, apperr.Provider(apperr.CodeJobProvider, fmt.Errorf("create job: %w", err))
	}

	publish(ctx, s.events, s.log, model.Event{
		Type: model.EventJobCreated, ID: job.ID.Hex(), ActorID: caller.UserID.Hex(), Payload: job,
	})
	return job, nil
}

// GetAllJobs lists the newest jobs. limit <= 0 selects the default; larger
// values are capped.
func (s *JobService) GetAllJobs(ctx context.Context, limit int) ([]*model.Job, error) {
	return s.find(ctx, model.JobQuery{Limit: s.limits.ClampLimit(limit)})
}

// GetJobsByUser lists every job posted by userID, newest first
func (s *JobService) GetJobsByUser(ctx context.Context, userID string) ([]*model.Job, error) {
	uid, err := util.ParseObjectID(strings.TrimSpace(userID))
	if err != nil {
		return nil, invalidJob("Invalid user id")
	}
	return s.find(ctx, model.JobQuery{PostedBy: &uid})
}

func (s *JobService) GetJobByID(ctx context.Context, id string) (*model.Job, error) {
	oid, err := parseID(id, jobNotFound())
	if err != nil {
		return nil, err
	}
	job, err := s.jobs.FindByID(ctx, oid)
	if err != nil {
		return nil, apperr.Provider(apperr.CodeJobProvider, err)
	}
	if job == nil {
		return nil, jobNotFound()
	}
	return job, nil
}

// UpdateJob applies upd to a job the caller posted
func (s *JobService) UpdateJob(ctx context.Context, id string, upd model.JobUpdate) (*model.Job, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	oid, err := parseID(id, jobNotFound())
	if err != nil {
		return nil, err
	}

	upd.Title = trimmed(upd.Title)
	if upd.Title != nil && *upd.Title == "" {
		return nil, invalidJob("Job title cannot be empty")
	}
	if err := s.checkUpdatedSalary(ctx, oid, upd); err != nil {
		return nil, err
	}
	if upd.Status != nil && strings.TrimSpace(*upd.Status) == "" {
		upd.Status = nil
	}

	job, err := s.jobs.UpdateOwned(ctx, oid, caller.UserID, upd)
	if err != nil {
		return nil, apperr.Provider(apperr.CodeJobProvider, fmt.Errorf("update job: %w", err))
	}
	if job == nil {
		return nil, s.missOrDenied(ctx, oid)
	}

	publish(ctx, s.events, s.log, model.Event{
		Type: model.EventJobUpdated, ID: job.ID.Hex(), ActorID: caller.UserID.Hex(), Payload: job,
	})
	return job, nil
}

// DeleteJob removes a job the caller posted
func (s *JobService) DeleteJob(ctx context.Context, id string) error {
	caller, err := requireCaller(ctx)
	if err != nil {
		return err
	}
	oid, err := parseID(id, jobNotFound())
	if err != nil {
		return err
	}

	deleted, err := s.jobs.DeleteOwned(ctx, oid, caller.UserID)
	if err != nil {
		return apperr.Provider(apperr.CodeJobProvider, fmt.Errorf("delete job: %w", err))
	}
	if !deleted {
		return s.missOrDenied(ctx, oid)
	}

	publish(ctx, s.events, s.log, model.Event{
		Type: model.EventJobDeleted, ID: oid.Hex(), ActorID: caller.UserID.Hex(),
	})
	return nil
}

// SearchJobs matches keyword case-insensitively against title, company,
// location and description. An empty keyword matches every job.
func (s *JobService) SearchJobs(ctx context.Context, keyword string, limit int) ([]*model.Job, error) {
	return s.find(ctx, model.JobQuery{Keyword: strings.TrimSpace(keyword), Limit: s.limits.ClampLimit(limit)})
}

// FilterJobs returns jobs satisfying every set field of filter
func (s *JobService) FilterJobs(ctx context.Context, filter model.JobFilter, limit int) ([]*model.Job, error) {
	if err := validateSalary(filter.SalaryMin, filter.SalaryMax); err != nil {
		return nil, err
	}
	return s.find(ctx, model.JobQuery{Filter: filter, Limit: s.limits.ClampLimit(limit)})
}

func (s *JobService) find(ctx context.Context, q model.JobQuery) ([]*model.Job, error) {
	jobs, err := s.jobs.Find(ctx, q)
	if err != nil {
		return nil, apperr.Provider(apperr.CodeJobProvider, fmt.Errorf("find jobs: %w", err))
	}
	return jobs, nil
}

func (s *JobService) missOrDenied(ctx context.Context, id primitive.ObjectID) error {
	existing, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return apperr.Provider(apperr.CodeJobProvider, err)
	}
	if existing == nil {
		return jobNotFound()
	}
	return apperr.New(apperr.KindPermissionDenied, apperr.CodeJobPermissionDenied, apperr.MsgPermissionDenied)
}

func validateSalary(lo, hi *float64) error {
	if lo != nil && *lo < 0 {
		return invalidJob("Minimum salary cannot be negative")
	}
	if hi != nil && *hi < 0 {
		return invalidJob("Maximum salary cannot be negative")
	}
	if lo != nil && hi != nil && *lo > *hi {
		return invalidJob("Minimum salary cannot exceed maximum salary")
	}
	return nil
}

// checkUpdatedSalary validates the range a partial update leaves on the job.
// A job the caller cannot see is left for UpdateOwned to report.
func (s *JobService) checkUpdatedSalary(ctx context.Context, id primitive.ObjectID, upd model.JobUpdate) error {
	if err := validateSalary(upd.SalaryMin, upd.SalaryMax); err != nil {
		return err
	}
	if (upd.SalaryMin == nil) == (upd.SalaryMax == nil) {
		return nil
	}
	existing, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return apperr.Provider(apperr.CodeJobProvider, fmt.Errorf("find job: %w", err))
	}
	if existing == nil {
		return nil
	}
	lo, hi := existing.SalaryMin, existing.SalaryMax
	if upd.SalaryMin != nil {
		lo = upd.SalaryMin
	}
	if upd.SalaryMax != nil {
		hi = upd.SalaryMax
	}
	return validateSalary(lo, hi)
}
