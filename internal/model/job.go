package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Job statuses
const (
	JobStatusActive = "active"
	JobStatusClosed = "closed"
)

// Job is a user-scoped listing with structured salary and accessibility fields
type Job struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title"`
	Company        string             `bson:"company" json:"company"`
	Location       string             `bson:"location" json:"location"`
	JobType        string             `bson:"jobType" json:"jobType"`
	SalaryMin      *float64           `bson:"salaryMin,omitempty" json:"salaryMin,omitempty"`
	SalaryMax      *float64           `bson:"salaryMax,omitempty" json:"salaryMax,omitempty"`
	SalaryCurrency string             `bson:"salaryCurrency,omitempty" json:"salaryCurrency,omitempty"`
	SalaryPeriod   string             `bson:"salaryPeriod,omitempty" json:"salaryPeriod,omitempty"`
	Description    string             `bson:"description" json:"description"`
	IsAccessible   bool               `bson:"isAccessible" json:"isAccessible"`
	Status         string             `bson:"status" json:"status"`
	PostedBy       primitive.ObjectID `bson:"postedBy" json:"postedBy"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (j *Job) GetID() primitive.ObjectID   { return j.ID }
func (j *Job) SetID(id primitive.ObjectID) { j.ID = id }

// JobInput is the body of a new job
type JobInput struct {
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Location       string   `json:"location"`
	JobType        string   `json:"jobType"`
	SalaryMin      *float64 `json:"salaryMin"`
	SalaryMax      *float64 `json:"salaryMax"`
	SalaryCurrency string   `json:"salaryCurrency"`
	SalaryPeriod   string   `json:"salaryPeriod"`
	Description    string   `json:"description"`
	IsAccessible   bool     `json:"isAccessible"`
	Status         string   `json:"status"`
}

// JobUpdate is a partial update; nil fields keep their stored value.
type JobUpdate struct {
	Title          *string  `json:"title"`
	Company        *string  `json:"company"`
	Location       *string  `json:"location"`
	JobType        *string  `json:"jobType"`
	SalaryMin      *float64 `json:"salaryMin"`
	SalaryMax      *float64 `json:"salaryMax"`
	SalaryCurrency *string  `json:"salaryCurrency"`
	SalaryPeriod   *string  `json:"salaryPeriod"`
	Description    *string  `json:"description"`
	IsAccessible   *bool    `json:"isAccessible"`
	Status         *string  `json:"status"`
}

// JobFilter narrows a job listing; nil fields are ignored.
type JobFilter struct {
	JobType      *string  `form:"jobType" json:"jobType"`
	Location     *string  `form:"location" json:"location"`
	IsAccessible *bool    `form:"isAccessible" json:"isAccessible"`
	SalaryMin    *float64 `form:"salaryMin" json:"salaryMin"`
	SalaryMax    *float64 `form:"salaryMax" json:"salaryMax"`
}

func (f JobFilter) IsEmpty() bool {
	return f.JobType == nil && f.Location == nil && f.IsAccessible == nil && f.SalaryMin == nil && f.SalaryMax == nil
}

// JobQuery is what the job repository evaluates server-side.
// Limit applies after every predicate; zero means no limit.
type JobQuery struct {
	Keyword  string
	Filter   JobFilter
	PostedBy *primitive.ObjectID
	Limit    int
}
