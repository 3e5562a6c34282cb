// Package main provides the entry point for the htmlcheck CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for htmlcheck.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "htmlcheck",
		Short: "Conformance checker for a hand-written static website",
		Long: `htmlcheck verifies that HTML documents follow the site's structural and
style conventions: head layout, charset declaration, title/heading agreement,
hyperlink targets and link text, scripts and structured data, and media
elements.

Warnings are advisory and never affect the exit status. A structurally broken
document (missing or duplicated head/body, wrong root element) aborts the run
with an error.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
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
