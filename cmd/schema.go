package cmd

import (
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"issuetracker/internal/domain/issue"
	"issuetracker/internal/ports"
	"issuetracker/internal/transport/httpapi"
)

var schemaCmd = &cobra.Command{
	Use:       "schema [issue|result|error|event]",
	Short:     "Print JSON Schemas of the API payloads",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"issue", "result", "error", "event"},
	RunE: func(cmd *cobra.Command, args []string) error {
		schemas := payloadSchemas()
		if len(args) == 0 {
			return writeCommandJSON(cmd.OutOrStdout(), schemas)
		}

		schema, ok := schemas[args[0]]
		if !ok {
			return fmt.Errorf("unknown payload %q", args[0])
		}
		return writeCommandJSON(cmd.OutOrStdout(), schema)
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func payloadSchemas() map[string]*jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	return map[string]*jsonschema.Schema{
		"issue":  reflector.Reflect(&issue.View{}),
		"result": reflector.Reflect(&httpapi.ResultResponse{}),
		"error":  reflector.Reflect(&httpapi.ErrorResponse{}),
		"event":  reflector.Reflect(&ports.IssueEvent{}),
	}
}
