package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/elankeeran/Companies-House-MCP-Server/internal/version"
)

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   "companies-house-mcp",
		Short: "Companies House registry tools over MCP and REST",
		Long: `Serves tools that proxy the UK Companies House public API and assemble a
consolidated ownership and control report for a company.

Without a subcommand the HTTP server is started (same as "serve").`,
		Version:      version.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				return os.Setenv("CONFIG_FILE", configFile)
			}
			return nil
		},
		RunE: runServe,
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "YAML configuration file (overrides CONFIG_FILE)")

	root.AddCommand(
		newServeCmd(),
		newReportCmd(),
		newToolsCmd(),
		newCallCmd(),
	)

	return root
}
