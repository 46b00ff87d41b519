// Package repository holds the MongoDB persistence of users, organizations,
// job posts and jobs. Lookups that match nothing return (nil, nil).
package repository

import (
	"accessibilityhire/pkg/generic"
)

// Collection names
const (
	CollectionUsers         = "users"
	CollectionOrganizations = "organizations"
	CollectionJobPosts      = "job_posts"
	CollectionJobs          = "jobs"
)

// ErrDuplicate is returned when a write violates a unique index
var ErrDuplicate = generic.ErrDuplicateKey

// Repositories groups every store the services depend on
type Repositories struct {
	Users    IUserRepository
	Orgs     IOrgRepository
	JobPosts IJobPostRepository
	Jobs     IJobRepository
}
