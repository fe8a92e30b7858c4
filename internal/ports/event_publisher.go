package ports

import (
	"context"
	"time"
)

type IssueEventType string

const (
	IssueCreated IssueEventType = "created"
	IssueUpdated IssueEventType = "updated"
	IssueDeleted IssueEventType = "deleted"
)

// IssueEvent announces a successful write. Project is the path project of the
// request that caused it.
type IssueEvent struct {
	Type    IssueEventType `json:"type"`
	IssueID string         `json:"_id"`
	Project string         `json:"project"`
	At      time.Time      `json:"at"`
}

// EventPublisher delivers issue events. Callers treat delivery as best effort.
type EventPublisher interface {
	Publish(ctx context.Context, event IssueEvent) error
}
