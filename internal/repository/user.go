package repository

import (
	"context"
	"time"

	"accessibilityhire/internal/model"
	"accessibilityhire/pkg/generic"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// IUserRepository defines user persistence
type IUserRepository interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, upd model.ProfileUpdate) (*model.User, error)
	LinkGoogleSubject(ctx context.Context, id primitive.ObjectID, subject string) (*model.User, error)
	CountByPhotoURL(ctx context.Context, photoURL string) (int64, error)
}

// UserRepository implements user persistence
type UserRepository struct {
	*generic.MongoBaseRepository[*model.User]
}

func NewUserRepository(db *mongo.Database) IUserRepository {
	return &UserRepository{generic.NewBaseRepository[*model.User](db.Collection(CollectionUsers))}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if err := r.MongoBaseRepository.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return r.GetByID(ctx, id)
}

// FindByEmail expects an already normalized address
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.FindOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd model.ProfileUpdate) (*model.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.DisplayName != nil {
		set["displayName"] = *upd.DisplayName
	}
	if upd.PhotoURL != nil {
		set["photoURL"] = *upd.PhotoURL
	}
	return r.UpdateOne(ctx, bson.M{"_id": id}, set)
}

func (r *UserRepository) LinkGoogleSubject(ctx context.Context, id primitive.ObjectID, subject string) (*model.User, error) {
	return r.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"googleSubject": subject,
		"updatedAt":     time.Now().UTC(),
	})
}

func (r *UserRepository) CountByPhotoURL(ctx context.Context, photoURL string) (int64, error) {
	return r.Count(ctx, bson.M{"photoURL": photoURL})
}
