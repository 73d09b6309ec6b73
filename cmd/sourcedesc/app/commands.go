// Package app provides the commands of the sourcedesc CLI.
package app

import (
	"log/slog"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/alexanderjulianmartinez/sourcedesc/internal/connector"
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "sourcedesc",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		Short:             "Build and inspect source descriptors",
		Long: `sourcedesc builds a source descriptor from a table or stream source spec
and prints what was built: format, connector, columns and key bookkeeping.`,
		Run: func(cmd *cobra.Command, _ []string) {
			// If no subcommand is provided, print help
			if err := cmd.Help(); err != nil {
				slog.Error("Error displaying help", "error", err)
			}
		},
	}

	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newConnectorsCmd())
	rootCmd.AddCommand(newInspectCmd())
	return rootCmd
}

func newConnectorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connectors",
		Short: "List supported connectors and their properties",
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Connector", "Properties")
			for _, name := range connector.Names() {
				keys, _ := connector.Properties(name)
				if err := table.Append([]string{name, strings.Join(keys, "\n")}); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
}
