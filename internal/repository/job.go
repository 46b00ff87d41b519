package repository

import (
	"context"
	"regexp"
	"strings"
	"time"

	"accessibilityhire/internal/model"
	"accessibilityhire/pkg/generic"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SearchFields are matched by a keyword query
var SearchFields = []string{"title", "company", "location", "description"}

// IJobRepository defines job persistence
type IJobRepository interface {
	Create(ctx context.Context, job *model.Job) (*model.Job, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Job, error)
	// Find evaluates q in the store, newest first, and truncates to q.Limit.
	Find(ctx context.Context, q model.JobQuery) ([]*model.Job, error)
	UpdateOwned(ctx context.Context, id, userID primitive.ObjectID, upd model.JobUpdate) (*model.Job, error)
	DeleteOwned(ctx context.Context, id, userID primitive.ObjectID) (bool, error)
}

type JobRepository struct {
	*generic.MongoBaseRepository[*model.Job]
}

func NewJobRepository(db *mongo.Database) IJobRepository {
	return &JobRepository{generic.NewBaseRepository[*model.Job](db.Collection(CollectionJobs))}
}

func (r *JobRepository) Create(ctx context.Context, job *model.Job) (*model.Job, error) {
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now
	if err := r.MongoBaseRepository.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (r *JobRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Job, error) {
	return r.GetByID(ctx, id)
}

func (r *JobRepository) Find(ctx context.Context, q model.JobQuery) ([]*model.Job, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	return r.MongoBaseRepository.Find(ctx, JobQueryFilter(q), opts)
}

func (r *JobRepository) UpdateOwned(ctx context.Context, id, userID primitive.ObjectID, upd model.JobUpdate) (*model.Job, error) {
	return r.UpdateOne(ctx, bson.M{"_id": id, "postedBy": userID}, jobUpdateSet(upd, time.Now().UTC()))
}

func (r *JobRepository) DeleteOwned(ctx context.Context, id, userID primitive.ObjectID) (bool, error) {
	return r.DeleteOne(ctx, bson.M{"_id": id, "postedBy": userID})
}

// JobQueryFilter translates q into a MongoDB filter. Keyword and location
// are case-insensitive literal substrings.
func JobQueryFilter(q model.JobQuery) bson.M {
	filter := bson.M{}
	if q.PostedBy != nil {
		filter["postedBy"] = *q.PostedBy
	}
	if kw := strings.TrimSpace(q.Keyword); kw != "" {
		or := make(bson.A, 0, len(SearchFields))
		for _, field := range SearchFields {
			or = append(or, bson.M{field: containsPattern(kw)})
		}
		filter["$or"] = or
	}

	f := q.Filter
	if f.JobType != nil && *f.JobType != "" {
		filter["jobType"] = *f.JobType
	}
	if f.Location != nil && strings.TrimSpace(*f.Location) != "" {
		filter["location"] = containsPattern(strings.TrimSpace(*f.Location))
	}
	if f.IsAccessible != nil {
		filter["isAccessible"] = *f.IsAccessible
	}
	if f.SalaryMin != nil {
		filter["salaryMin"] = bson.M{"$gte": *f.SalaryMin}
	}
	if f.SalaryMax != nil {
		filter["salaryMax"] = bson.M{"$lte": *f.SalaryMax}
	}
	return filter
}

func containsPattern(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func jobUpdateSet(upd model.JobUpdate, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Company != nil {
		set["company"] = *upd.Company
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}
	if upd.JobType != nil {
		set["jobType"] = *upd.JobType
	}
	if upd.SalaryMin != nil {
		set["salaryMin"] = *upd.SalaryMin
	}
	if upd.SalaryMax != nil {
		set["salaryMax"] = *upd.SalaryMax
	}
	if upd.SalaryCurrency != nil {
		set["salaryCurrency"] = *upd.SalaryCurrency
	}
	if upd.SalaryPeriod != nil {
		set["salaryPeriod"] = *upd.SalaryPeriod
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.IsAccessible != nil {
		set["isAccessible"] = *upd.IsAccessible
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	return set
}
