package memory

import (
	"context"
	"sync"
	"time"

	"accessibilityhire/internal/model"
	"accessibilityhire/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrgRepository struct {
	mu    sync.RWMutex
	clock clock
	orgs  map[primitive.ObjectID]model.Organization
}

func NewOrgRepository() *OrgRepository {
	return &OrgRepository{orgs: make(map[primitive.ObjectID]model.Organization)}
}

var _ repository.IOrgRepository = (*OrgRepository)(nil)

func (r *OrgRepository) Create(_ context.Context, org *model.Organization) (*model.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orgs {
		if o.OwnerUID == org.OwnerUID {
			return nil, repository.ErrDuplicate
		}
	}
	if org.ID.IsZero() {
		org.ID = primitive.NewObjectID()
	}
	now := r.clock.now()
	org.CreatedAt = now
	org.UpdatedAt = now
	r.orgs[org.ID] = *org
	return org, nil
}

func (r *OrgRepository) FindByOwner(_ context.Context, ownerID primitive.ObjectID) (*model.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orgs {
		if o.OwnerUID == ownerID {
			o := o
			return &o, nil
		}
	}
	return nil, nil
}

func (r *OrgRepository) FindByID(_ context.Context, id primitive.ObjectID) (*model.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orgs[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *OrgRepository) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]*model.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Organization, 0, len(ids))
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if o, ok := r.orgs[id]; ok {
			out = append(out, &o)
		}
	}
	return out, nil
}

func (r *OrgRepository) FindAll(_ context.Context) ([]*model.Organization, error) {
	r.mu.RLock()
	out := make([]*model.Organization, 0, len(r.orgs))
	for _, o := range r.orgs {
		o := o
		out = append(out, &o)
	}
	r.mu.RUnlock()
	newestFirst(out,
		func(o *model.Organization) time.Time { return o.CreatedAt },
		func(o *model.Organization) primitive.ObjectID { return o.ID })
	return out, nil
}

func (r *OrgRepository) UpdateOwned(_ context.Context, id, ownerID primitive.ObjectID, upd model.OrgUpdate) (*model.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orgs[id]
	if !ok || o.OwnerUID != ownerID {
		return nil, nil
	}
	if upd.OrgName != nil {
		o.OrgName = *upd.OrgName
	}
	if upd.OrgURL != nil {
		o.OrgURL = *upd.OrgURL
	}
	if upd.About != nil {
		o.About = *upd.About
	}
	o.UpdatedAt = r.clock.now()
	r.orgs[id] = o
	return &o, nil
}
