// Package main provides the entry point for the wikivault CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for wikivault.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wikivault",
		Short: "Convert MediaWiki XML exports into Markdown note vaults",
		Long: `wikivault converts a MediaWiki XML export into a vault of Markdown notes.

Each wiki page becomes one Markdown file with YAML frontmatter carrying
the page title, its tags (derived from categories and infoboxes), and
the infobox fields. Internal links are preserved as [[wikilinks]], and a
per-tag index document is generated under _indexes/.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewConvertCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
