package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"issuetracker/internal/domain/issue"
	"issuetracker/internal/ports"
)

func setupIssueRepository(t *testing.T) *IssueRepository {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "issues.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	repo := NewIssueRepository(db)
	if err := repo.MigrateSchema(context.Background()); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}
	return repo
}

func insertTestIssue(t *testing.T, repo *IssueRepository, project string, values issue.Values, now time.Time) issue.Issue {
	t.Helper()

	draft, err := issue.NewIssue(project, values, now)
	if err != nil {
		t.Fatalf("new issue: %v", err)
	}
	created, err := repo.InsertIssue(context.Background(), draft)
	if err != nil {
		t.Fatalf("insert issue: %v", err)
	}
	return created
}

func TestInsertIssueAssignsID(t *testing.T) {
	repo := setupIssueRepository(t)
	now := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)

	first := insertTestIssue(t, repo, "apitest", issue.Values{"issue_title": "T", "issue_text": "X", "created_by": "C"}, now)
	second := insertTestIssue(t, repo, "apitest", issue.Values{"issue_title": "T", "issue_text": "X", "created_by": "C"}, now)

	if first.ID == "" || second.ID == "" || first.ID == second.ID {
		t.Fatalf("ids = %q, %q", first.ID, second.ID)
	}
	if !first.CreatedOn.Equal(now) || !first.UpdatedOn.Equal(now) {
		t.Fatalf("timestamps = %v, %v", first.CreatedOn, first.UpdatedOn)
	}
}

func TestFindIssuesFilters(t *testing.T) {
	repo := setupIssueRepository(t)
	ctx := context.Background()
	now := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)

	withAssignee := insertTestIssue(t, repo, "apitest", issue.Values{
		"issue_title": "one", "issue_text": "x", "created_by": "alice", "assigned_to": "bob",
	}, now)
	unassigned := insertTestIssue(t, repo, "apitest", issue.Values{
		"issue_title": "two", "issue_text": "x", "created_by": "alice",
	}, now.Add(time.Second))
	insertTestIssue(t, repo, "other", issue.Values{
		"issue_title": "three", "issue_text": "x", "created_by": "alice",
	}, now)

	testCases := []struct {
		name  string
		query issue.Values
		want  []string
	}{
		{name: "project only", query: nil, want: []string{withAssignee.ID, unassigned.ID}},
		{name: "by creator", query: issue.Values{"created_by": "alice", "issue_title": "two"}, want: []string{unassigned.ID}},
		{name: "by id", query: issue.Values{"_id": withAssignee.ID}, want: []string{withAssignee.ID}},
		{name: "open string", query: issue.Values{"open": "true"}, want: []string{withAssignee.ID, unassigned.ID}},
		{name: "closed", query: issue.Values{"open": "false"}, want: nil},
		{name: "unassigned", query: issue.Values{"assigned_to": ""}, want: []string{unassigned.ID}},
		{name: "created_on", query: issue.Values{"created_on": "2026-02-14T09:00:01Z"}, want: []string{unassigned.ID}},
		{name: "unsatisfiable", query: issue.Values{"open": "maybe"}, want: nil},
		{name: "unknown id", query: issue.Values{"_id": "000000000000000000000000"}, want: nil},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			items, err := repo.FindIssues(ctx, issue.BuildFilter("apitest", testCase.query))
			if err != nil {
				t.Fatalf("FindIssues() error = %v", err)
			}
			if items == nil {
				t.Fatalf("FindIssues() returned nil slice")
			}
			if len(items) != len(testCase.want) {
				t.Fatalf("FindIssues() len = %d, want %d", len(items), len(testCase.want))
			}
			for i, id := range testCase.want {
				if items[i].ID != id {
					t.Fatalf("items[%d].ID = %q, want %q", i, items[i].ID, id)
				}
			}
		})
	}
}

func TestUpdateIssue(t *testing.T) {
	repo := setupIssueRepository(t)
	ctx := context.Background()
	now := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)
	created := insertTestIssue(t, repo, "apitest", issue.Values{
		"issue_title": "T", "issue_text": "X", "created_by": "C", "status_text": "In Development",
	}, now)

	later := now.Add(time.Minute)
	patch, err := issue.BuildPatch(issue.Values{"open": false, "status_text": "In QA"}, later)
	if err != nil {
		t.Fatalf("BuildPatch() error = %v", err)
	}
	if err := repo.UpdateIssue(ctx, ports.IssueSelector{ID: created.ID}, patch); err != nil {
		t.Fatalf("UpdateIssue() error = %v", err)
	}

	items, err := repo.FindIssues(ctx, issue.BuildFilter("apitest", issue.Values{"_id": created.ID}))
	if err != nil || len(items) != 1 {
		t.Fatalf("FindIssues() = %v, %v", items, err)
	}
	got := items[0]
	if got.Open || got.StatusText == nil || *got.StatusText != "In QA" {
		t.Fatalf("updated issue = %+v", got)
	}
	if !got.UpdatedOn.Equal(later) || !got.CreatedOn.Equal(now) {
		t.Fatalf("timestamps = %v, %v", got.CreatedOn, got.UpdatedOn)
	}
	if got.Title != "T" {
		t.Fatalf("untouched field changed: %q", got.Title)
	}
}

func TestUpdateIssueNotFound(t *testing.T) {
	repo := setupIssueRepository(t)
	ctx := context.Background()
	now := time.Now()
	created := insertTestIssue(t, repo, "apitest", issue.Values{"issue_title": "T", "issue_text": "X", "created_by": "C"}, now)

	patch, err := issue.BuildPatch(issue.Values{"issue_text": "Text"}, now)
	if err != nil {
		t.Fatalf("BuildPatch() error = %v", err)
	}

	err = repo.UpdateIssue(ctx, ports.IssueSelector{ID: "000000000000000000000000"}, patch)
	if !errors.Is(err, ports.ErrIssueNotFound) {
		t.Fatalf("UpdateIssue(unknown) error = %v", err)
	}

	err = repo.UpdateIssue(ctx, ports.IssueSelector{ID: created.ID, Project: "other"}, patch)
	if !errors.Is(err, ports.ErrIssueNotFound) {
		t.Fatalf("UpdateIssue(other project) error = %v", err)
	}
}

func TestDeleteIssueTwice(t *testing.T) {
	repo := setupIssueRepository(t)
	ctx := context.Background()
	created := insertTestIssue(t, repo, "apitest", issue.Values{"issue_title": "T", "issue_text": "X", "created_by": "C"}, time.Now())

	if err := repo.DeleteIssue(ctx, ports.IssueSelector{ID: created.ID}); err != nil {
		t.Fatalf("DeleteIssue() error = %v", err)
	}
	if err := repo.DeleteIssue(ctx, ports.IssueSelector{ID: created.ID}); !errors.Is(err, ports.ErrIssueNotFound) {
		t.Fatalf("second DeleteIssue() error = %v", err)
	}

	items, err := repo.FindIssues(ctx, issue.BuildFilter("apitest", issue.Values{"_id": created.ID}))
	if err != nil || len(items) != 0 {
		t.Fatalf("FindIssues() after delete = %v, %v", items, err)
	}
}

func TestPing(t *testing.T) {
	repo := setupIssueRepository(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
}
