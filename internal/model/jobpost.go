package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JobPost is a listing published under an Organization
type JobPost struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Desc      string             `bson:"desc" json:"desc"`
	Location  string             `bson:"location" json:"location"`
	Salary    string             `bson:"salary" json:"salary"`
	OrgID     primitive.ObjectID `bson:"orgId" json:"orgId"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

func (p *JobPost) GetID() primitive.ObjectID   { return p.ID }
func (p *JobPost) SetID(id primitive.ObjectID) { p.ID = id }

// JobPostWithOrg is a post joined with its organization; Organization is nil when missing.
type JobPostWithOrg struct {
	JobPost
	Organization *Organization `json:"organization"`
}

type CreateJobPostInput struct {
	Title    string `json:"title"`
	Desc     string `json:"desc"`
	Location string `json:"location"`
	Salary   string `json:"salary"`
}

// JobPostUpdate is a partial update; nil fields keep their stored value.
type JobPostUpdate struct {
	Title    *string `json:"title"`
	Desc     *string `json:"desc"`
	Location *string `json:"location"`
	Salary   *string `json:"salary"`
}

func (u JobPostUpdate) IsEmpty() bool {
	return u.Title == nil && u.Desc == nil && u.Location == nil && u.Salary == nil
}
