package model

import "time"

// Feed event types
const (
	EventJobCreated     = "JOB_CREATED"
	EventJobUpdated     = "JOB_UPDATED"
	EventJobDeleted     = "JOB_DELETED"
	EventJobPostCreated = "JOB_POST_CREATED"
	EventJobPostUpdated = "JOB_POST_UPDATED"
	EventJobPostDeleted = "JOB_POST_DELETED"
)

// Event is a change notification pushed to feed subscribers
type Event struct {
	Type    string      `json:"type"`
	ID      string      `json:"id"`
	ActorID string      `json:"actorId,omitempty"`
	At      time.Time   `json:"at"`
	Payload interface{} `json:"payload,omitempty"`
}
