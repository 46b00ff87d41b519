package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IndexSpecs lists the indexes each collection needs
func IndexSpecs() map[string][]mongo.IndexModel {
	desc := func(keys ...string) bson.D {
		d := bson.D{}
		for _, k := range keys {
			dir := 1
			if k == "created_at" || k == "createdAt" {
				dir = -1
			}
			d = append(d, bson.E{Key: k, Value: dir})
		}
		return d
	}
	return map[string][]mongo.IndexModel{
		CollectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_email")},
			{Keys: bson.D{{Key: "photoURL", Value: 1}}, Options: options.Index().SetName("photo_url")},
		},
		CollectionOrganizations: {
			{Keys: bson.D{{Key: "owner_uid", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_owner")},
			{Keys: desc("created_at"), Options: options.Index().SetName("created_at")},
		},
		CollectionJobPosts: {
			{Keys: desc("created_at"), Options: options.Index().SetName("created_at")},
			{Keys: desc("userId", "created_at"), Options: options.Index().SetName("user_created_at")},
		},
		CollectionJobs: {
			{Keys: desc("createdAt"), Options: options.Index().SetName("created_at")},
			{Keys: desc("postedBy", "createdAt"), Options: options.Index().SetName("posted_by_created_at")},
			{Keys: desc("jobType", "createdAt"), Options: options.Index().SetName("job_type_created_at")},
			{Keys: desc("isAccessible", "createdAt"), Options: options.Index().SetName("accessible_created_at")},
			{Keys: bson.D{{Key: "salaryMin", Value: 1}, {Key: "salaryMax", Value: 1}}, Options: options.Index().SetName("salary")},
		},
	}
}

// EnsureIndexes creates missing indexes. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for coll, models := range IndexSpecs() {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
