package issues

import (
	"context"
	"errors"
	"log/slog"

	"issuetracker/internal/bootstrap/logging"
	"issuetracker/internal/domain/issue"
	"issuetracker/internal/errs"
	"issuetracker/internal/ports"
)

// DeleteIssue removes the issue named by the _id of input and returns that id.
func (s *Service) DeleteIssue(ctx context.Context, project string, input issue.Values) (string, error) {
	logCtx, project, err := s.begin(ctx, project, "delete")
	if err != nil {
		return "", err
	}

	id, ok := input.ID()
	if !ok {
		return "", issue.ErrMissingID
	}
	logCtx = logging.WithAttrs(logCtx, slog.String("issue_id", id))

	if err := s.repo.DeleteIssue(ctx, s.selector(project, id)); err != nil {
		if errors.Is(err, ports.ErrIssueNotFound) {
			logging.Info(logCtx, "issue delete matched nothing")
			return id, issue.ErrCouldNotDelete
		}
		return id, errs.Wrapf(err, "delete issue %q", id)
	}

	logging.Info(logCtx, "issue deleted")
	s.publishBestEffort(logCtx, ports.IssueDeleted, id, project)
	return id, nil
}
