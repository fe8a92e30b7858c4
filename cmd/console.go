package cmd

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"issuetracker/internal/bootstrap"
	"issuetracker/internal/bootstrap/logging"
	"issuetracker/internal/errs"
	"issuetracker/internal/usecase/issueconsole"
	"issuetracker/internal/usecase/issues"
)

var consoleCmd = &cobra.Command{
	Use:   "console <project>",
	Short: "Start the terminal console for one project",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *issues.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		assignee, _ := cmd.Flags().GetString("assignee")
		open, _ := cmd.Flags().GetString("open")
		refreshInterval, _ := cmd.Flags().GetDuration("refresh-interval")
		if refreshInterval <= 0 {
			refreshInterval = 5 * time.Second
		}

		model := issueconsole.NewModel(ctx, svc, issueconsole.Options{
			Project:         cmd.Flags().Arg(0),
			Assignee:        assignee,
			OpenFilter:      open,
			RefreshInterval: refreshInterval,
		})

		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return errs.Wrap(err, "run issue console")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(consoleCmd)
	consoleCmd.Flags().String("assignee", "", "Optional assigned_to filter")
	consoleCmd.Flags().String("open", "", "Optional open filter (open|closed)")
	consoleCmd.Flags().Duration("refresh-interval", 5*time.Second, "Auto refresh interval")
}
