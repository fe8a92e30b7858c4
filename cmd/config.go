package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"issuetracker/internal/bootstrap/config"
	"issuetracker/internal/bootstrap/logging"
	"issuetracker/internal/errs"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		cfg, err := config.Load(ctx, cfgFile)
		if err != nil {
			return errs.Wrap(err, "load config")
		}

		format, _ := cmd.Flags().GetString("format")
		out, err := renderConfig(cfg, format)
		if err != nil {
			return err
		}
		if _, err := cmd.OutOrStdout().Write(out); err != nil {
			return errs.Wrap(err, "write config output")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configShowCmd.Flags().String("format", "yaml", "Output format (yaml|toml)")
}

func renderConfig(cfg config.Config, format string) ([]byte, error) {
	doc := cfg.Document()
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "yaml", "yml":
		out, err := yaml.Marshal(doc)
		if err != nil {
			return nil, errs.Wrap(err, "encode yaml")
		}
		return out, nil
	case "toml":
		out, err := toml.Marshal(doc)
		if err != nil {
			return nil, errs.Wrap(err, "encode toml")
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
}
