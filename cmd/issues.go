package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"issuetracker/internal/bootstrap"
	"issuetracker/internal/bootstrap/logging"
	"issuetracker/internal/domain/issue"
	"issuetracker/internal/errs"
	"issuetracker/internal/transport/httpapi"
	"issuetracker/internal/usecase/issues"
)

var issuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "Issue commands against the configured store",
}

var issuesListCmd = &cobra.Command{
	Use:   "list <project>",
	Short: "List issues of a project",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *issues.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		filters, _ := cmd.Flags().GetStringArray("filter")
		query, err := parseKeyValues(filters)
		if err != nil {
			return err
		}

		views, err := svc.ListIssues(ctx, cmd.Flags().Arg(0), query)
		if err != nil {
			return errs.Wrap(err, "list issues")
		}
		return writeCommandJSON(cmd.OutOrStdout(), views)
	}),
}

var issuesCreateCmd = &cobra.Command{
	Use:   "create <project>",
	Short: "Create an issue",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *issues.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		input := issue.Values{}
		for flag, field := range map[string]issue.Field{
			"title":       issue.FieldTitle,
			"text":        issue.FieldText,
			"created-by":  issue.FieldCreatedBy,
			"assigned-to": issue.FieldAssignedTo,
			"status-text": issue.FieldStatusText,
		} {
			if value, _ := cmd.Flags().GetString(flag); value != "" {
				input[string(field)] = value
			}
		}

		view, err := svc.CreateIssue(ctx, cmd.Flags().Arg(0), input)
		if err != nil {
			return errs.Wrap(err, "create issue")
		}
		return writeCommandJSON(cmd.OutOrStdout(), view)
	}),
}

var issuesUpdateCmd = &cobra.Command{
	Use:   "update <project>",
	Short: "Update fields of an issue",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *issues.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		sets, _ := cmd.Flags().GetStringArray("set")
		input, err := parseKeyValues(sets)
		if err != nil {
			return err
		}
		id, _ := cmd.Flags().GetString("id")
		input[string(issue.FieldID)] = id

		updatedID, err := svc.UpdateIssue(ctx, cmd.Flags().Arg(0), input)
		if err != nil {
			return errs.Wrapf(err, "update issue %q", id)
		}
		return writeCommandJSON(cmd.OutOrStdout(), httpapi.ResultResponse{Result: httpapi.ResultUpdated, ID: updatedID})
	}),
}

var issuesDeleteCmd = &cobra.Command{
	Use:   "delete <project>",
	Short: "Delete an issue",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *issues.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		id, _ := cmd.Flags().GetString("id")
		deletedID, err := svc.DeleteIssue(ctx, cmd.Flags().Arg(0), issue.Values{string(issue.FieldID): id})
		if err != nil {
			return errs.Wrapf(err, "delete issue %q", id)
		}
		return writeCommandJSON(cmd.OutOrStdout(), httpapi.ResultResponse{Result: httpapi.ResultDeleted, ID: deletedID})
	}),
}

func init() {
	rootCmd.AddCommand(issuesCmd)
	issuesCmd.AddCommand(issuesListCmd, issuesCreateCmd, issuesUpdateCmd, issuesDeleteCmd)

	issuesListCmd.Flags().StringArray("filter", nil, "Filter as field=value (repeatable), e.g. open=true")

	issuesCreateCmd.Flags().String("title", "", "Issue title")
	issuesCreateCmd.Flags().String("text", "", "Issue text")
	issuesCreateCmd.Flags().String("created-by", "", "Issue author")
	issuesCreateCmd.Flags().String("assigned-to", "", "Optional assignee")
	issuesCreateCmd.Flags().String("status-text", "", "Optional status text")

	issuesUpdateCmd.Flags().String("id", "", "Issue _id")
	issuesUpdateCmd.Flags().StringArray("set", nil, "Update as field=value (repeatable), e.g. open=false")
	_ = issuesUpdateCmd.MarkFlagRequired("id")

	issuesDeleteCmd.Flags().String("id", "", "Issue _id")
	_ = issuesDeleteCmd.MarkFlagRequired("id")
}

// parseKeyValues reads field=value pairs into issue.Values. Values stay
// strings, the same as query and form input.
func parseKeyValues(pairs []string) (issue.Values, error) {
	out := issue.Values{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field=value pair %q", pair)
		}
		out[key] = value
	}
	return out, nil
}

func writeCommandJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return errs.Wrap(err, "write command output")
	}
	return nil
}
