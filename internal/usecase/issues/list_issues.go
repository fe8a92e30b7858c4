package issues

import (
	"context"
	"log/slog"

	"issuetracker/internal/bootstrap/logging"
	"issuetracker/internal/domain/issue"
	"issuetracker/internal/errs"
)

// ListIssues returns the shaped issues of project matching every query key.
func (s *Service) ListIssues(ctx context.Context, project string, query issue.Values) ([]issue.View, error) {
	logCtx, project, err := s.begin(ctx, project, "list")
	if err != nil {
		return nil, err
	}

	filter := issue.BuildFilter(project, query)
	if filter.Unsatisfiable {
		logging.Debug(logCtx, "filter can never match, skipping store")
		return []issue.View{}, nil
	}

	items, err := s.repo.FindIssues(ctx, filter)
	if err != nil {
		return nil, errs.Wrapf(err, "list issues of project %q", project)
	}

	logging.Debug(logCtx, "issues listed",
		slog.Int("conditions", len(filter.Conditions)),
		slog.Int("count", len(items)),
	)
	return issue.ShapeAll(items), nil
}
