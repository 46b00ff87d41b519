package service

import (
	"context"
	"fmt"
	"strings"

	"accessibilityhire/internal/apperr"
	"accessibilityhire/internal/feed"
	"accessibilityhire/internal/model"
	"accessibilityhire/internal/repository"
	"accessibilityhire/pkg/util"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JobPostService manages organization-scoped job posts
type JobPostService struct {
	posts  repository.IJobPostRepository
	orgs   repository.IOrgRepository
	events feed.Feed
	log    *logrus.Entry
}

func NewJobPostService(posts repository.IJobPostRepository, orgs repository.IOrgRepository, events feed.Feed, log *logrus.Entry) *JobPostService {
	return &JobPostService{posts: posts, orgs: orgs, events: events, log: log.WithField("component", "jobpost")}
}

func jobPostNotFound() *apperr.Error {
	return apperr.New(apperr.KindNotFound, apperr.CodeJobPostNotFound, apperr.MsgJobNotFound)
}

// CreateJobPost publishes a post under the caller's organization
func (s *JobPostService) CreateJobPost(ctx context.Context, in model.CreateJobPostInput) (*model.JobPostWithOrg, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}

	org, err := s.orgs.FindByOwner(ctx, caller.UserID)
	if err != nil {
		return nil, apperr.Provider(apperr.CodeJobPostProvider, err)
	}
	if org == nil {
		return nil, apperr.New(apperr.KindFailedPrecondition, apperr.CodeJobPostOrgRequired,
			"You must create an organization before posting jobs")
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, apperr.CodeJobPostInvalid, "Job title is required")
	}

	post, err := s.posts.Create(ctx, &model.JobPost{
		Title:    title,
		Desc:     strings.TrimSpace(in.Desc),
		Location: strings.TrimSpace(in.Location),
		Salary:   strings.TrimSpace(in.Salary),
		OrgID:    org.ID,
		UserID:   caller.UserID,
	})
	if err != nil {
		return nil, apperr.Provider(apperr.CodeJobPostProvider, fmt.Errorf("create job post: %w", err))
	}

	out := &model.JobPostWithOrg{JobPost: *post, Organization: org}
	publish(ctx, s.events, s.log, model.Event{
		Type: model.EventJobPostCreated, ID: post.ID.Hex(), ActorID: caller.UserID.Hex(), Payload: out,
	})
	return out, nil
}

// GetAllJobPosts lists every post, newest first, with its organization
func (s *JobPostService) GetAllJobPosts(ctx context.Context) ([]model.JobPostWithOrg, error) {
	posts, err := s.posts.FindAll(ctx)
	if err != nil {
		return nil, apperr.Provider(apperr.CodeJobPostProvider, err)
	}
	return s.withOrganizations(ctx, posts)
}

// GetUserJobPosts lists the caller's posts, newest first
func (s *JobPostService) GetUserJobPosts(ctx context.Context) ([]model.JobPostWithOrg, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.FindByUser(ctx, caller.UserID)
	if err != nil {
		return nil, apperr.Provider(apperr.CodeJobPostProvider, err)
	}
	return s.withOrganizations(ctx, posts)
}

// GetJobByID returns one post with its organization
func (s *JobPostService) GetJobByID(ctx context.Context, id string) (*model.JobPostWithOrg, error) {
	oid, err := parseID(id, jobPostNotFound())
	if err != nil {
		return nil, err
	}
	post, err := s.posts.FindByID(ctx, oid)
	if err != nil {
		return nil, apperr.Provider(apperr.CodeJobPostProvider, err)
	}
	if post == nil {
		return nil, jobPostNotFound()
	}
	org, err := s.orgs.FindByID(ctx, post.OrgID)
	if err != nil {
		return nil, apperr.Provider(apperr.CodeJobPostProvider, err)
	}
	return &model.JobPostWithOrg{JobPost: *post, Organization: org}, nil
}

// UpdateJobPost merges upd into a post the caller published. title is
// only written when non-empty.
func (s *JobPostService) UpdateJobPost(ctx context.Context, id string, upd model.JobPostUpdate) (*model.JobPostWithOrg, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	oid, err := parseID(id, jobPostNotFound())
	if err != nil {
		return nil, err
	}

	upd.Title = trimmed(upd.Title)
	if upd.Title != nil && *upd.Title == "" {
		upd.Title = nil
	}
	upd.Desc = trimmed(upd.Desc)
	upd.Location = trimmed(upd.Location)
	upd.Salary = trimmed(upd.Salary)

	post, err := s.posts.UpdateOwned(ctx, oid, caller.UserID, upd)
	if err != nil {
		return nil, apperr.Provider(apperr.CodeJobPostProvider, fmt.Errorf("update job post: %w", err))
	}
	if post == nil {
		return nil, s.missOrDenied(ctx, oid)
	}

	org, err := s.orgs.FindByID(ctx, post.OrgID)
	if err != nil {
		return nil, apperr.Provider(apperr.CodeJobPostProvider, err)
	}
	out := &model.JobPostWithOrg{JobPost: *post, Organization: org}
	publish(ctx, s.events, s.log, model.Event{
		Type: model.EventJobPostUpdated, ID: post.ID.Hex(), ActorID: caller.UserID.Hex(), Payload: out,
	})
	return out, nil
}

// DeleteJobPost removes a post the caller published
func (s *JobPostService) DeleteJobPost(ctx context.Context, id string) error {
	caller, err := requireCaller(ctx)
	if err != nil {
		return err
	}
	oid, err := parseID(id, jobPostNotFound())
	if err != nil {
		return err
	}

	deleted, err := s.posts.DeleteOwned(ctx, oid, caller.UserID)
	if err != nil {
		return apperr.Provider(apperr.CodeJobPostProvider, fmt.Errorf("delete job post: %w", err))
	}
	if !deleted {
		return s.missOrDenied(ctx, oid)
	}

	publish(ctx, s.events, s.log, model.Event{
		Type: model.EventJobPostDeleted, ID: oid.Hex(), ActorID: caller.UserID.Hex(),
	})
	return nil
}

// missOrDenied explains why an owner-filtered write matched nothing
func (s *JobPostService) missOrDenied(ctx context.Context, id primitive.ObjectID) error {
	existing, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return apperr.Provider(apperr.CodeJobPostProvider, err)
	}
	if existing == nil {
		return jobPostNotFound()
	}
	return apperr.New(apperr.KindPermissionDenied, apperr.CodeJobPostPermission, apperr.MsgPermissionDenied)
}

// withOrganizations joins posts with their organizations using one batched read
func (s *JobPostService) withOrganizations(ctx context.Context, posts []*model.JobPost) ([]model.JobPostWithOrg, error) {
	ids := make([]primitive.ObjectID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.OrgID)
	}
	orgs, err := s.orgs.FindByIDs(ctx, util.UniqueObjectIDs(ids))
	if err != nil {
		return nil, apperr.Provider(apperr.CodeJobPostProvider, fmt.Errorf("load organizations: %w", err))
	}
	byID := make(map[primitive.ObjectID]*model.Organization, len(orgs))
	for _, o := range orgs {
		byID[o.ID] = o
	}

	out := make([]model.JobPostWithOrg, 0, len(posts))
	for _, p := range posts {
		out = append(out, model.JobPostWithOrg{JobPost: *p, Organization: byID[p.OrgID]})
	}
	return out, nil
}
