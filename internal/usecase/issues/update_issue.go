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

// UpdateIssue applies the sent fields of input to the issue named by its _id
// and returns that id. The id is also returned alongside
// issue.ErrNoUpdateFields and issue.ErrCouldNotUpdate.
func (s *Service) UpdateIssue(ctx context.Context, project string, input issue.Values) (string, error) {
	logCtx, project, err := s.begin(ctx, project, "update")
	if err != nil {
		return "", err
	}

	id, ok := input.ID()
	if !ok {
		return "", issue.ErrMissingID
	}
	logCtx = logging.WithAttrs(logCtx, slog.String("issue_id", id))

	patch, err := issue.BuildPatch(input, s.now())
	if err != nil {
		return id, err
	}

	if err := s.repo.UpdateIssue(ctx, s.selector(project, id), patch); err != nil {
		if errors.Is(err, ports.ErrIssueNotFound) {
			logging.Info(logCtx, "issue update matched nothing")
			return id, issue.ErrCouldNotUpdate
		}
		return id, errs.Wrapf(err, "update issue %q", id)
	}

	logging.Info(logCtx, "issue updated", slog.Int("fields", len(patch.Set)))
	s.publishBestEffort(logCtx, ports.IssueUpdated, id, project)
	return id, nil
}
