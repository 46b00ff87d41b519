package memory

import (
	"context"
	"sync"

	"accessibilityhire/internal/model"
	"accessibilityhire/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository struct {
	mu    sync.RWMutex
	clock clock
	users map[primitive.ObjectID]model.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[primitive.ObjectID]model.User)}
}

var _ repository.IUserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, repository.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := r.clock.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return user, nil
}

func (r *UserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) UpdateProfile(_ context.Context, id primitive.ObjectID, upd model.ProfileUpdate) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	if upd.DisplayName != nil {
		u.DisplayName = *upd.DisplayName
	}
	if upd.PhotoURL != nil {
		u.PhotoURL = *upd.PhotoURL
	}
	u.UpdatedAt = r.clock.now()
	r.users[id] = u
	return &u, nil
}

func (r *UserRepository) LinkGoogleSubject(_ context.Context, id primitive.ObjectID, subject string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	u.GoogleSubject = subject
	u.UpdatedAt = r.clock.now()
	r.users[id] = u
	return &u, nil
}

func (r *UserRepository) CountByPhotoURL(_ context.Context, photoURL string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, u := range r.users {
		if u.PhotoURL == photoURL {
			n++
		}
	}
	return n, nil
}
