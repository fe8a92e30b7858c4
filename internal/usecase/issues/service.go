package issues

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"issuetracker/internal/bootstrap/logging"
	"issuetracker/internal/domain/issue"
	"issuetracker/internal/errs"
	"issuetracker/internal/ports"
)

var errRepositoryRequired = errors.New("issue repository is required")

// Service implements the issue resource operations shared by the HTTP API,
// the CLI and the console.
type Service struct {
	repo        ports.IssueRepository
	events      ports.EventPublisher
	now         func() time.Time
	scopeWrites bool
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithProjectScopedWrites makes update and delete match only issues of the
// request project. By default they address _id across all projects.
func WithProjectScopedWrites(enabled bool) Option {
	return func(s *Service) {
		s.scopeWrites = enabled
	}
}

// NewService wires the issue use cases. A nil events publisher disables events.
func NewService(repo ports.IssueRepository, events ports.EventPublisher, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		events: events,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) begin(ctx context.Context, project string, op string) (context.Context, string, error) {
	if ctx == nil {
		return nil, "", errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, "", errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return nil, "", errRepositoryRequired
	}

	project = strings.TrimSpace(project)
	if project == "" {
		return nil, "", issue.ErrProjectRequired
	}

	logCtx := logging.WithAttrs(ctx,
		slog.String("component", "usecase.issues"),
		slog.String("op", op),
		slog.String("project", project),
	)
	return logCtx, project, nil
}

func (s *Service) selector(project string, id string) ports.IssueSelector {
	selector := ports.IssueSelector{ID: id}
	if s.scopeWrites {
		selector.Project = project
	}
	return selector
}

func (s *Service) publishBestEffort(ctx context.Context, eventType ports.IssueEventType, id string, project string) {
	if s.events == nil {
		return
	}

	event := ports.IssueEvent{
		Type:    eventType,
		IssueID: id,
		Project: project,
		At:      issue.Normalize(s.now()),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		logging.Warn(ctx, "publish issue event failed",
			slog.String("event", string(eventType)),
			slog.String("issue_id", id),
			slog.Any("err", errs.Loggable(err)),
		)
	}
}
