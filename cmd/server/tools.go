package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/elankeeran/Companies-House-MCP-Server/internal/companieshouse"
	"github.com/elankeeran/Companies-House-MCP-Server/internal/mcp"
)

// errToolFailed is returned after a tagged registry error has been printed.
var errToolFailed = errors.New("tool call failed")

func newReportCmd() *cobra.Command {
	var apiKey string

	cmd := &cobra.Command{
		Use:   "report <company_number>",
		Short: "Print the consolidated report for a company",
		Long: `Fetches the company profile, officers, persons with significant control and
charges, and prints the assembled report as JSON.

On a registry failure the tagged error object is printed and the command
exits non-zero.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			callArgs, err := json.Marshal(map[string]string{
				"company_number": args[0],
				"api_key":        apiKey,
			})
			if err != nil {
				return err
			}
			return runTool(cmd, mcp.ToolGenerateCompanyReport, callArgs)
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key for this call (overrides COMPANIES_HOUSE_API_KEY)")
	return cmd
}

func newCallCmd() *cobra.Command {
	var rawArgs string

	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Call one tool and print its JSON result",
		Example: `  companies-house-mcp call search_companies --args '{"q":"tesco","items_per_page":5}'
  companies-house-mcp call get_company_officers --args '{"company_number":"00445790"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !json.Valid([]byte(rawArgs)) {
				return fmt.Errorf("--args is not valid JSON: %s", rawArgs)
			}
			return runTool(cmd, args[0], json.RawMessage(rawArgs))
		},
	}

	cmd.Flags().StringVar(&rawArgs, "args", "{}", "tool arguments as a JSON object")
	return cmd
}

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the available tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, schema := range a.tools.List() {
				fmt.Fprintf(tw, "%s\t%s\n", schema.Name, schema.Description)
			}
			return tw.Flush()
		},
	}
}

func runTool(cmd *cobra.Command, name string, args json.RawMessage) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	result, err := a.tools.Call(cmd.Context(), name, args)
	if err != nil {
		if mcp.IsArgumentError(err) {
			return err
		}
		data, encErr := json.Marshal(companieshouse.AsAPIError(err))
		if encErr != nil {
			return encErr
		}
		if err := writeJSON(cmd.OutOrStdout(), data); err != nil {
			return err
		}
		return errToolFailed
	}

	return writeJSON(cmd.OutOrStdout(), result)
}

func writeJSON(w io.Writer, data []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}
