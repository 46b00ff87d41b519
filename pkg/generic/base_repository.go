package generic

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateKey is returned when an insert or update violates a unique index
var ErrDuplicateKey = errors.New("duplicate key")

// BaseRepository Interface
type BaseRepository[T Entity] interface {
	Create(ctx context.Context, entity T) error
	GetByID(ctx context.Context, id primitive.ObjectID) (T, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (T, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]T, error)
	UpdateOne(ctx context.Context, filter interface{}, set bson.M) (T, error)
	DeleteOne(ctx context.Context, filter interface{}) (bool, error)
	Count(ctx context.Context, filter interface{}) (int64, error)
}

// MongoBaseRepository Implementation.
// Lookups that match nothing return the zero T and a nil error.
type MongoBaseRepository[T Entity] struct {
	Collection *mongo.Collection
}

func NewBaseRepository[T Entity](collection *mongo.Collection) *MongoBaseRepository[T] {
	return &MongoBaseRepository[T]{Collection: collection}
}

// 1. Create
func (r *MongoBaseRepository[T]) Create(ctx context.Context, entity T) error {
	if entity.GetID().IsZero() {
		entity.SetID(primitive.NewObjectID())
	}
	_, err := r.Collection.InsertOne(ctx, entity)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}

// 2. GetByID
func (r *MongoBaseRepository[T]) GetByID(ctx context.Context, id primitive.ObjectID) (T, error) {
	return r.FindOne(ctx, bson.M{"_id": id})
}

// 3. FindOne
func (r *MongoBaseRepository[T]) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (T, error) {
	var entity T
	err := r.Collection.FindOne(ctx, filter, opts...).Decode(&entity)
	if errors.Is(err, mongo.ErrNoDocuments) {
		var zero T
		return zero, nil
	}
	return entity, err
}

// 4. Find
func (r *MongoBaseRepository[T]) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	if filter == nil {
		filter = bson.M{}
	}
	cursor, err := r.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// 5. UpdateOne ($set, returns the updated document)
func (r *MongoBaseRepository[T]) UpdateOne(ctx context.Context, filter interface{}, set bson.M) (T, error) {
	var entity T
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.Collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&entity)
	if errors.Is(err, mongo.ErrNoDocuments) {
		var zero T
		return zero, nil
	}
	if mongo.IsDuplicateKeyError(err) {
		var zero T
		return zero, ErrDuplicateKey
	}
	return entity, err
}

// 6. DeleteOne
func (r *MongoBaseRepository[T]) DeleteOne(ctx context.Context, filter interface{}) (bool, error) {
	res, err := r.Collection.DeleteOne(ctx, filter)
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// 7. Count
func (r *MongoBaseRepository[T]) Count(ctx context.Context, filter interface{}) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	return r.Collection.CountDocuments(ctx, filter)
}
