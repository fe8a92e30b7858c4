package ports

import (
	"context"
	"errors"

	"issuetracker/internal/domain/issue"
)

// ErrIssueNotFound is returned by writes that matched no record, including
// writes addressed by an identifier the store can never have assigned.
var ErrIssueNotFound = errors.New("issue not found")

// IssueSelector addresses one issue. An empty Project matches any project.
type IssueSelector struct {
	ID      string
	Project string
}

type IssueReadRepository interface {
	FindIssues(ctx context.Context, filter issue.Filter) ([]issue.Issue, error)
}

type IssueRepository interface {
	IssueReadRepository
	// InsertIssue stores in and returns it with the store-assigned ID.
	InsertIssue(ctx context.Context, in issue.Issue) (issue.Issue, error)
	UpdateIssue(ctx context.Context, selector IssueSelector, patch issue.Patch) error
	DeleteIssue(ctx context.Context, selector IssueSelector) error
}

type SchemaMigrator interface {
	MigrateSchema(ctx context.Context) error
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

// IssueStore is what a storage backend provides to the application.
type IssueStore interface {
	IssueRepository
	SchemaMigrator
	HealthChecker
}
