// Package main provides the entry point for the xml-generator CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for xml-generator.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xml-generator",
		Short: "Periodic sitemap.xml generator for a set of subdomains",
		Long: `xml-generator crawls a configured set of subdomains and emits a
sitemap.xml containing every same-host page it can reach.

Use "generate" for a single crawl run, or "serve" to crawl on a
repeating schedule and expose the sitemap over HTTP.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewServeCmd())
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
