package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mermaid-validator",
	Short: "MCP server that validates and renders Mermaid diagrams",
	Long: `mermaid-validator exposes a single MCP tool, validateMermaid, that checks
a Mermaid diagram by rendering it through the Mermaid CLI (mmdc). A valid
diagram comes back as a PNG or SVG image; an invalid one comes back with the
renderer's diagnostics.

Run without a subcommand to start the server on stdio.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
	SilenceUsage: true,
}
