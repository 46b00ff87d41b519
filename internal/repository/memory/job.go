package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"accessibilityhire/internal/model"
	"accessibilityhire/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type JobRepository struct {
	mu    sync.RWMutex
	clock clock
	jobs  map[primitive.ObjectID]model.Job
}

func NewJobRepository() *JobRepository {
	return &JobRepository{jobs: make(map[primitive.ObjectID]model.Job)}
}

var _ repository.IJobRepository = (*JobRepository)(nil)

func (r *JobRepository) Create(_ context.Context, job *model.Job) (*model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job.ID.IsZero() {
		job.ID = primitive.NewObjectID()
	}
	now := r.clock.now()
	job.CreatedAt = now
	job.UpdatedAt = now
	r.jobs[job.ID] = cloneJob(job)
	return job, nil
}

func (r *JobRepository) FindByID(_ context.Context, id primitive.ObjectID) (*model.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, nil
	}
	j = cloneJob(&j)
	return &j, nil
}

func (r *JobRepository) Find(_ context.Context, q model.JobQuery) ([]*model.Job, error) {
	r.mu.RLock()
	out := make([]*model.Job, 0)
	for _, j := range r.jobs {
		if MatchJob(&j, q) {
			c := cloneJob(&j)
			out = append(out, &c)
		}
	}
	r.mu.RUnlock()
	newestFirst(out,
		func(j *model.Job) time.Time { return j.CreatedAt },
		func(j *model.Job) primitive.ObjectID { return j.ID })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *JobRepository) UpdateOwned(_ context.Context, id, userID primitive.ObjectID, upd model.JobUpdate) (*model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok || j.PostedBy != userID {
		return nil, nil
	}
	applyJobUpdate(&j, upd)
	j.UpdatedAt = r.clock.now()
	r.jobs[id] = j
	j = cloneJob(&j)
	return &j, nil
}

func (r *JobRepository) DeleteOwned(_ context.Context, id, userID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok || j.PostedBy != userID {
		return false, nil
	}
	delete(r.jobs, id)
	return true, nil
}

// MatchJob reports whether j satisfies q, mirroring repository.JobQueryFilter.
// Salary bounds never match a job that has no value for that field.
func MatchJob(j *model.Job, q model.JobQuery) bool {
	if q.PostedBy != nil && j.PostedBy != *q.PostedBy {
		return false
	}
	if kw := strings.TrimSpace(q.Keyword); kw != "" {
		if !containsFold(j.Title, kw) && !containsFold(j.Company, kw) &&
			!containsFold(j.Location, kw) && !containsFold(j.Description, kw) {
			return false
		}
	}
	f := q.Filter
	if f.JobType != nil && *f.JobType != "" && j.JobType != *f.JobType {
		return false
	}
	if f.Location != nil {
		if loc := strings.TrimSpace(*f.Location); loc != "" && !containsFold(j.Location, loc) {
			return false
		}
	}
	if f.IsAccessible != nil && j.IsAccessible != *f.IsAccessible {
		return false
	}
	if f.SalaryMin != nil && (j.SalaryMin == nil || *j.SalaryMin < *f.SalaryMin) {
		return false
	}
	if f.SalaryMax != nil && (j.SalaryMax == nil || *j.SalaryMax > *f.SalaryMax) {
		return false
	}
	return true
}

// cloneJob copies j without sharing its salary pointers
func cloneJob(j *model.Job) model.Job {
	c := *j
	if j.SalaryMin != nil {
		v := *j.SalaryMin
		c.SalaryMin = &v
	}
	if j.SalaryMax != nil {
		v := *j.SalaryMax
		c.SalaryMax = &v
	}
	return c
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func applyJobUpdate(j *model.Job, upd model.JobUpdate) {
	if upd.Title != nil {
		j.Title = *upd.Title
	}
	if upd.Company != nil {
		j.Company = *upd.Company
	}
	if upd.Location != nil {
		j.Location = *upd.Location
	}
	if upd.JobType != nil {
		j.JobType = *upd.JobType
	}
	if upd.SalaryMin != nil {
		v := *upd.SalaryMin
		j.SalaryMin = &v
	}
	if upd.SalaryMax != nil {
		v := *upd.SalaryMax
		j.SalaryMax = &v
	}
	if upd.SalaryCurrency != nil {
		j.SalaryCurrency = *upd.SalaryCurrency
	}
	if upd.SalaryPeriod != nil {
		j.SalaryPeriod = *upd.SalaryPeriod
	}
	if upd.Description != nil {
		j.Description = *upd.Description
	}
	if upd.IsAccessible != nil {
		j.IsAccessible = *upd.IsAccessible
	}
	if upd.Status != nil {
		j.Status = *upd.Status
	}
}
