package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Organization struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrgName   string             `bson:"org_name" json:"org_name"`
	OrgURL    string             `bson:"org_url" json:"org_url"`
	About     string             `bson:"about" json:"about"`
	OwnerUID  primitive.ObjectID `bson:"owner_uid" json:"owner_uid"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

func (o *Organization) GetID() primitive.ObjectID   { return o.ID }
func (o *Organization) SetID(id primitive.ObjectID) { o.ID = id }

type CreateOrganizationInput struct {
	OrgName string `json:"org_name"`
	OrgURL  string `json:"org_url"`
	About   string `json:"about"`
}

// UpdateOrganizationInput is a partial update; absent (nil) fields keep their stored value.
type UpdateOrganizationInput struct {
	OrgName *string `json:"org_name"`
	OrgURL  *string `json:"org_url"`
	About   *string `json:"about"`
}

// OrgUpdate is the set of fields a repository writes
type OrgUpdate struct {
	OrgName *string
	OrgURL  *string
	About   *string
}

func (u OrgUpdate) IsEmpty() bool {
	return u.OrgName == nil && u.OrgURL == nil && u.About == nil
}
