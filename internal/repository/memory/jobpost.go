package memory

import (
	"context"
	"sync"
	"time"

	"accessibilityhire/internal/model"
	"accessibilityhire/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type JobPostRepository struct {
	mu    sync.RWMutex
	clock clock
	posts map[primitive.ObjectID]model.JobPost
}

func NewJobPostRepository() *JobPostRepository {
	return &JobPostRepository{posts: make(map[primitive.ObjectID]model.JobPost)}
}

var _ repository.IJobPostRepository = (*JobPostRepository)(nil)

func (r *JobPostRepository) Create(_ context.Context, post *model.JobPost) (*model.JobPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	now := r.clock.now()
	post.CreatedAt = now
	post.UpdatedAt = now
	r.posts[post.ID] = *post
	return post, nil
}

func (r *JobPostRepository) FindByID(_ context.Context, id primitive.ObjectID) (*model.JobPost, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *JobPostRepository) FindAll(_ context.Context) ([]*model.JobPost, error) {
	return r.list(func(*model.JobPost) bool { return true }), nil
}

func (r *JobPostRepository) FindByUser(_ context.Context, userID primitive.ObjectID) ([]*model.JobPost, error) {
	return r.list(func(p *model.JobPost) bool { return p.UserID == userID }), nil
}

func (r *JobPostRepository) UpdateOwned(_ context.Context, id, userID primitive.ObjectID, upd model.JobPostUpdate) (*model.JobPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok || p.UserID != userID {
		return nil, nil
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Desc != nil {
		p.Desc = *upd.Desc
	}
	if upd.Location != nil {
		p.Location = *upd.Location
	}
	if upd.Salary != nil {
		p.Salary = *upd.Salary
	}
	p.UpdatedAt = r.clock.now()
	r.posts[id] = p
	return &p, nil
}

func (r *JobPostRepository) DeleteOwned(_ context.Context, id, userID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok || p.UserID != userID {
		return false, nil
	}
	delete(r.posts, id)
	return true, nil
}

func (r *JobPostRepository) list(keep func(*model.JobPost) bool) []*model.JobPost {
	r.mu.RLock()
	out := make([]*model.JobPost, 0, len(r.posts))
	for _, p := range r.posts {
		p := p
		if keep(&p) {
			out = append(out, &p)
		}
	}
	r.mu.RUnlock()
	newestFirst(out,
		func(p *model.JobPost) time.Time { return p.CreatedAt },
		func(p *model.JobPost) primitive.ObjectID { return p.ID })
	return out
}
