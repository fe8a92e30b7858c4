package issues

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"issuetracker/internal/domain/issue"
	sqliterepo "issuetracker/internal/infrastructure/persistence/sqlite/repository"
	"issuetracker/internal/ports"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.IssueEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event ports.IssueEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []ports.IssueEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ports.IssueEventType, 0, len(p.events))
	for _, event := range p.events {
		out = append(out, event.Type)
	}
	return out
}

type failingRepository struct {
	err error
}

func (r failingRepository) FindIssues(context.Context, issue.Filter) ([]issue.Issue, error) {
	return nil, r.err
}

func (r failingRepository) InsertIssue(context.Context, issue.Issue) (issue.Issue, error) {
	return issue.Issue{}, r.err
}

func (r failingRepository) UpdateIssue(context.Context, ports.IssueSelector, issue.Patch) error {
	return r.err
}

func (r failingRepository) DeleteIssue(context.Context, ports.IssueSelector) error {
	return r.err
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func setupServiceWithOptions(t *testing.T, opts ...Option) (*Service, *recordingPublisher, *testClock) {
	t.Helper()

	db, err := gorm.Open(gormsqlite.Open(filepath.Join(t.TempDir(), "issues.sqlite")), &gorm.Config{})
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

	repo := sqliterepo.NewIssueRepository(db)
	if err := repo.MigrateSchema(context.Background()); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}

	clock := &testClock{now: time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)}
	publisher := &recordingPublisher{}
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return NewService(repo, publisher, opts...), publisher, clock
}

func setupService(t *testing.T) (*Service, *recordingPublisher, *testClock) {
	t.Helper()
	return setupServiceWithOptions(t)
}

func requiredInput() issue.Values {
	return issue.Values{
		"issue_title": "Title",
		"issue_text":  "text",
		"created_by":  "Functional Test - Every field filled in",
	}
}

func TestCreateIssueReturnsShapedOpenIssue(t *testing.T) {
	svc, publisher, _ := setupService(t)
	ctx := context.Background()

	input := requiredInput()
	input["assigned_to"] = "Chai and Mocha"
	input["status_text"] = "In QA"

	got, err := svc.CreateIssue(ctx, "apitest", input)
	if err != nil {
		t.Fatalf("CreateIssue() error = %v", err)
	}

	if got.ID == "" {
		t.Fatalf("CreateIssue() id is empty")
	}
	if !got.Open {
		t.Fatalf("CreateIssue() open = false, want true")
	}
	if got.CreatedOn != "2026-03-01T08:30:00.000Z" || got.UpdatedOn != got.CreatedOn {
		t.Fatalf("timestamps = %q / %q", got.CreatedOn, got.UpdatedOn)
	}
	if got.AssignedTo != "Chai and Mocha" || got.StatusText != "In QA" {
		t.Fatalf("optional fields = %q / %q", got.AssignedTo, got.StatusText)
	}

	types := publisher.types()
	if len(types) != 1 || types[0] != ports.IssueCreated {
		t.Fatalf("events = %v, want [created]", types)
	}
	if publisher.events[0].IssueID != got.ID || publisher.events[0].Project != "apitest" {
		t.Fatalf("event = %#v", publisher.events[0])
	}
}

func TestCreateIssueRequiredOnlyLeavesOptionalEmpty(t *testing.T) {
	svc, _, _ := setupService(t)

	got, err := svc.CreateIssue(context.Background(), "apitest", requiredInput())
	if err != nil {
		t.Fatalf("CreateIssue() error = %v", err)
	}
	if got.AssignedTo != "" || got.StatusText != "" {
		t.Fatalf("optional fields = %q / %q, want empty", got.AssignedTo, got.StatusText)
	}
}

func TestCreateIssueMissingRequiredFields(t *testing.T) {
	cases := []struct {
		name  string
		input issue.Values
	}{
		{name: "empty", input: issue.Values{}},
		{name: "missing title", input: issue.Values{"issue_text": "x", "created_by": "c"}},
		{name: "missing text", input: issue.Values{"issue_title": "t", "created_by": "c"}},
		{name: "missing author", input: issue.Values{"issue_title": "t", "issue_text": "x"}},
		{name: "empty title", input: issue.Values{"issue_title": "", "issue_text": "x", "created_by": "c"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, publisher, _ := setupService(t)
			_, err := svc.CreateIssue(context.Background(), "apitest", tc.input)
			if !errors.Is(err, issue.ErrRequiredFieldsMissing) {
				t.Fatalf("CreateIssue() error = %v, want ErrRequiredFieldsMissing", err)
			}
			if len(publisher.types()) != 0 {
				t.Fatalf("events published on failed create")
			}
			list, err := svc.ListIssues(context.Background(), "apitest", nil)
			if err != nil {
				t.Fatalf("ListIssues() error = %v", err)
			}
			if len(list) != 0 {
				t.Fatalf("ListIssues() len = %d, want 0", len(list))
			}
		})
	}
}

func TestListIssuesFiltersWithinProject(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	first := requiredInput()
	first["assigned_to"] = "alice"
	if _, err := svc.CreateIssue(ctx, "apitest", first); err != nil {
		t.Fatalf("CreateIssue() error = %v", err)
	}
	second, err := svc.CreateIssue(ctx, "apitest", requiredInput())
	if err != nil {
		t.Fatalf("CreateIssue() error = %v", err)
	}
	if _, err := svc.CreateIssue(ctx, "other", first); err != nil {
		t.Fatalf("CreateIssue() error = %v", err)
	}
	if _, err := svc.UpdateIssue(ctx, "apitest", issue.Values{"_id": second.ID, "open": "false"}); err != nil {
		t.Fatalf("UpdateIssue() error = %v", err)
	}

	cases := []struct {
		name  string
		query issue.Values
		want  int
	}{
		{name: "no filter", query: nil, want: 2},
		{name: "assigned", query: issue.Values{"assigned_to": "alice"}, want: 1},
		{name: "closed", query: issue.Values{"open": "false"}, want: 1},
		{name: "open and assigned", query: issue.Values{"open": "true", "assigned_to": "alice"}, want: 1},
		{name: "unparseable bool", query: issue.Values{"open": "maybe"}, want: 0},
		{name: "by id", query: issue.Values{"_id": second.ID}, want: 1},
		{name: "unknown key ignored", query: issue.Values{"colour": "red"}, want: 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.ListIssues(ctx, "apitest", tc.query)
			if err != nil {
				t.Fatalf("ListIssues() error = %v", err)
			}
			if got == nil {
				t.Fatalf("ListIssues() returned nil slice")
			}
			if len(got) != tc.want {
				t.Fatalf("ListIssues() len = %d, want %d", len(got), tc.want)
			}
		})
	}
}

func TestListIssuesUnknownProjectIsEmpty(t *testing.T) {
	svc, _, _ := setupService(t)

	got, err := svc.ListIssues(context.Background(), "nobody", nil)
	if err != nil {
		t.Fatalf("ListIssues() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("ListIssues() = %#v, want empty non-nil", got)
	}
}

func TestUpdateIssueRefreshesUpdatedOn(t *testing.T) {
	svc, publisher, clock := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateIssue(ctx, "apitest", requiredInput())
	if err != nil {
		t.Fatalf("CreateIssue() error = %v", err)
	}

	clock.Advance(90 * time.Second)
	id, err := svc.UpdateIssue(ctx, "apitest", issue.Values{"_id": created.ID, "issue_text": "new text"})
	if err != nil {
		t.Fatalf("UpdateIssue() error = %v", err)
	}
	if id != created.ID {
		t.Fatalf("UpdateIssue() id = %q, want %q", id, created.ID)
	}

	list, err := svc.ListIssues(ctx, "apitest", issue.Values{"_id": created.ID})
	if err != nil || len(list) != 1 {
		t.Fatalf("ListIssues() = %v, %v", list, err)
	}
	got := list[0]
	if got.IssueText != "new text" {
		t.Fatalf("issue_text = %q", got.IssueText)
	}
	if got.CreatedOn != created.CreatedOn {
		t.Fatalf("created_on changed: %q -> %q", created.CreatedOn, got.CreatedOn)
	}
	if got.UpdatedOn != "2026-03-01T08:31:30.000Z" {
		t.Fatalf("updated_on = %q", got.UpdatedOn)
	}

	types := publisher.types()
	if len(types) != 2 || types[1] != ports.IssueUpdated {
		t.Fatalf("events = %v", types)
	}
}

func TestUpdateIssueErrors(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateIssue(ctx, "apitest", requiredInput())
	if err != nil {
		t.Fatalf("CreateIssue() error = %v", err)
	}

	cases := []struct {
		name    string
		input   issue.Values
		wantID  string
		wantErr error
	}{
		{name: "missing id", input: issue.Values{"issue_text": "x"}, wantErr: issue.ErrMissingID},
		{name: "blank id", input: issue.Values{"_id": "  "}, wantErr: issue.ErrMissingID},
		{name: "no fields", input: issue.Values{"_id": created.ID}, wantID: created.ID, wantErr: issue.ErrNoUpdateFields},
		{name: "only empty fields", input: issue.Values{"_id": created.ID, "issue_title": ""}, wantID: created.ID, wantErr: issue.ErrNoUpdateFields},
		{name: "unknown id", input: issue.Values{"_id": "missing", "issue_text": "x"}, wantID: "missing", wantErr: issue.ErrCouldNotUpdate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := svc.UpdateIssue(ctx, "apitest", tc.input)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("UpdateIssue() error = %v, want %v", err, tc.wantErr)
			}
			if id != tc.wantID {
				t.Fatalf("UpdateIssue() id = %q, want %q", id, tc.wantID)
			}
		})
	}
}

func TestUpdateIssueAcrossProjectsUnlessScoped(t *testing.T) {
	ctx := context.Background()

	svc, _, _ := setupService(t)
	created, err := svc.CreateIssue(ctx, "alpha", requiredInput())
	if err != nil {
		t.Fatalf("CreateIssue() error = %v", err)
	}
	if _, err := svc.UpdateIssue(ctx, "beta", issue.Values{"_id": created.ID, "status_text": "moved"}); err != nil {
		t.Fatalf("unscoped UpdateIssue() error = %v", err)
	}

	scoped, _, _ := setupServiceWithOptions(t, WithProjectScopedWrites(true))
	created, err = scoped.CreateIssue(ctx, "alpha", requiredInput())
	if err != nil {
		t.Fatalf("CreateIssue() error = %v", err)
	}
	if _, err := scoped.UpdateIssue(ctx, "beta", issue.Values{"_id": created.ID, "status_text": "moved"}); !errors.Is(err, issue.ErrCouldNotUpdate) {
		t.Fatalf("scoped UpdateIssue() error = %v, want ErrCouldNotUpdate", err)
	}
	if _, err := scoped.DeleteIssue(ctx, "beta", issue.Values{"_id": created.ID}); !errors.Is(err, issue.ErrCouldNotDelete) {
		t.Fatalf("scoped DeleteIssue() error = %v, want ErrCouldNotDelete", err)
	}
	if _, err := scoped.DeleteIssue(ctx, "alpha", issue.Values{"_id": created.ID}); err != nil {
		t.Fatalf("scoped DeleteIssue() same project error = %v", err)
	}
}

func TestDeleteIssueTwice(t *testing.T) {
	svc, publisher, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateIssue(ctx, "apitest", requiredInput())
	if err != nil {
		t.Fatalf("CreateIssue() error = %v", err)
	}

	id, err := svc.DeleteIssue(ctx, "apitest", issue.Values{"_id": created.ID})
	if err != nil || id != created.ID {
		t.Fatalf("DeleteIssue() = %q, %v", id, err)
	}
	id, err = svc.DeleteIssue(ctx, "apitest", issue.Values{"_id": created.ID})
	if !errors.Is(err, issue.ErrCouldNotDelete) || id != created.ID {
		t.Fatalf("second DeleteIssue() = %q, %v", id, err)
	}
	if _, err := svc.DeleteIssue(ctx, "apitest", issue.Values{}); !errors.Is(err, issue.ErrMissingID) {
		t.Fatalf("DeleteIssue() without id error = %v", err)
	}

	types := publisher.types()
	if len(types) != 2 || types[1] != ports.IssueDeleted {
		t.Fatalf("events = %v, want [created deleted]", types)
	}
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	svc, publisher, _ := setupService(t)
	publisher.err = errors.New("nats down")

	created, err := svc.CreateIssue(context.Background(), "apitest", requiredInput())
	if err != nil {
		t.Fatalf("CreateIssue() error = %v", err)
	}
	if created.ID == "" {
		t.Fatalf("CreateIssue() id is empty")
	}
}

func TestRepositoryFailureIsWrapped(t *testing.T) {
	storeErr := errors.New("disk full")
	svc := NewService(failingRepository{err: storeErr}, nil)
	ctx := context.Background()

	if _, err := svc.ListIssues(ctx, "apitest", nil); !errors.Is(err, storeErr) {
		t.Fatalf("ListIssues() error = %v", err)
	}
	if _, err := svc.CreateIssue(ctx, "apitest", requiredInput()); !errors.Is(err, storeErr) {
		t.Fatalf("CreateIssue() error = %v", err)
	}
	if _, err := svc.UpdateIssue(ctx, "apitest", issue.Values{"_id": "a", "open": false}); !errors.Is(err, storeErr) {
		t.Fatalf("UpdateIssue() error = %v", err)
	}
	_, err := svc.DeleteIssue(ctx, "apitest", issue.Values{"_id": "a"})
	if !errors.Is(err, storeErr) || errors.Is(err, issue.ErrCouldNotDelete) {
		t.Fatalf("DeleteIssue() error = %v", err)
	}
}

func TestServiceRejectsBlankProjectAndCanceledContext(t *testing.T) {
	svc, _, _ := setupService(t)

	if _, err := svc.ListIssues(context.Background(), "  ", nil); !errors.Is(err, issue.ErrProjectRequired) {
		t.Fatalf("ListIssues() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.CreateIssue(ctx, "apitest", requiredInput()); !errors.Is(err, context.Canceled) {
		t.Fatalf("CreateIssue() error = %v", err)
	}
}
