// Command companies-house-mcp serves the Companies House registry tools over
// MCP and REST, and can call any tool once from the command line.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
