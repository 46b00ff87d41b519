package repository

import (
	"context"
	"time"

	"accessibilityhire/internal/model"
	"accessibilityhire/pkg/generic"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IJobPostRepository defines job post persistence.
// Listings are ordered by created_at, newest first.
type IJobPostRepository interface {
	Create(ctx context.Context, post *model.JobPost) (*model.JobPost, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.JobPost, error)
	FindAll(ctx context.Context) ([]*model.JobPost, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.JobPost, error)
	UpdateOwned(ctx context.Context, id, userID primitive.ObjectID, upd model.JobPostUpdate) (*model.JobPost, error)
	DeleteOwned(ctx context.Context, id, userID primitive.ObjectID) (bool, error)
}

type JobPostRepository struct {
	*generic.MongoBaseRepository[*model.JobPost]
}

func NewJobPostRepository(db *mongo.Database) IJobPostRepository {
	return &JobPostRepository{generic.NewBaseRepository[*model.JobPost](db.Collection(CollectionJobPosts))}
}

func (r *JobPostRepository) Create(ctx context.Context, post *model.JobPost) (*model.JobPost, error) {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	if err := r.MongoBaseRepository.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (r *JobPostRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.JobPost, error) {
	return r.GetByID(ctx, id)
}

func (r *JobPostRepository) FindAll(ctx context.Context) ([]*model.JobPost, error) {
	return r.Find(ctx, bson.M{}, newestPostsFirst())
}

func (r *JobPostRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.JobPost, error) {
	return r.Find(ctx, bson.M{"userId": userID}, newestPostsFirst())
}

func (r *JobPostRepository) UpdateOwned(ctx context.Context, id, userID primitive.ObjectID, upd model.JobPostUpdate) (*model.JobPost, error) {
	return r.UpdateOne(ctx, bson.M{"_id": id, "userId": userID}, jobPostUpdateSet(upd, time.Now().UTC()))
}

func (r *JobPostRepository) DeleteOwned(ctx context.Context, id, userID primitive.ObjectID) (bool, error) {
	return r.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
}

func newestPostsFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
}

func jobPostUpdateSet(upd model.JobPostUpdate, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Desc != nil {
		set["desc"] = *upd.Desc
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}
	if upd.Salary != nil {
		set["salary"] = *upd.Salary
	}
	return set
}
