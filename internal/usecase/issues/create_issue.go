package issues

import (
	"context"
	"log/slog"

	"issuetracker/internal/bootstrap/logging"
	"issuetracker/internal/domain/issue"
	"issuetracker/internal/errs"
	"issuetracker/internal/ports"
)

// CreateIssue stores a new open issue in project. Missing required fields
// yield issue.ErrRequiredFieldsMissing before the store is touched.
func (s *Service) CreateIssue(ctx context.Context, project string, input issue.Values) (issue.View, error) {
	logCtx, project, err := s.begin(ctx, project, "create")
	if err != nil {
		return issue.View{}, err
	}

	draft, err := issue.NewIssue(project, input, s.now())
	if err != nil {
		return issue.View{}, err
	}

	created, err := s.repo.InsertIssue(ctx, draft)
	if err != nil {
		return issue.View{}, errs.Wrapf(err, "create issue in project %q", project)
	}

	logging.Info(logCtx, "issue created", slog.String("issue_id", created.ID))
	s.publishBestEffort(logCtx, ports.IssueCreated, created.ID, project)
	return issue.Shape(created), nil
}
