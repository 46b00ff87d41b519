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

// IOrgRepository defines organization persistence
type IOrgRepository interface {
	Create(ctx context.Context, org *model.Organization) (*model.Organization, error)
	FindByOwner(ctx context.Context, ownerID primitive.ObjectID) (*model.Organization, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Organization, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Organization, error)
	FindAll(ctx context.Context) ([]*model.Organization, error)
	// UpdateOwned writes upd only when id is owned by ownerID; otherwise it returns (nil, nil).
	UpdateOwned(ctx context.Context, id, ownerID primitive.ObjectID, upd model.OrgUpdate) (*model.Organization, error)
}

// OrgRepository implements org persistence
type OrgRepository struct {
	*generic.MongoBaseRepository[*model.Organization]
}

func NewOrgRepository(db *mongo.Database) IOrgRepository {
	return &OrgRepository{generic.NewBaseRepository[*model.Organization](db.Collection(CollectionOrganizations))}
}

func (r *OrgRepository) Create(ctx context.Context, org *model.Organization) (*model.Organization, error) {
	now := time.Now().UTC()
	org.CreatedAt = now
	org.UpdatedAt = now
	if err := r.MongoBaseRepository.Create(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (r *OrgRepository) FindByOwner(ctx context.Context, ownerID primitive.ObjectID) (*model.Organization, error) {
	return r.FindOne(ctx, bson.M{"owner_uid": ownerID})
}

func (r *OrgRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Organization, error) {
	return r.GetByID(ctx, id)
}

func (r *OrgRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Organization, error) {
	if len(ids) == 0 {
		return []*model.Organization{}, nil
	}
	return r.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *OrgRepository) FindAll(ctx context.Context) ([]*model.Organization, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.Find(ctx, bson.M{}, opts)
}

func (r *OrgRepository) UpdateOwned(ctx context.Context, id, ownerID primitive.ObjectID, upd model.OrgUpdate) (*model.Organization, error) {
	return r.UpdateOne(ctx, bson.M{"_id": id, "owner_uid": ownerID}, orgUpdateSet(upd, time.Now().UTC()))
}

func orgUpdateSet(upd model.OrgUpdate, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	if upd.OrgName != nil {
		set["org_name"] = *upd.OrgName
	}
	if upd.OrgURL != nil {
		set["org_url"] = *upd.OrgURL
	}
	if upd.About != nil {
		set["about"] = *upd.About
	}
	return set
}
