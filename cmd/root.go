package cmd

import (
	"github.com/compozy/docspub/pkg/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "docspub",
	Short: "A CLI tool for publishing built documentation",
	Long: `docspub publishes pre-built documentation from a CI job to a hosting
branch of a git repository, promoting tagged builds to the site root.`,
	Version: version.Summary(),
}

func init() {
	// The logger is built before cobra parses flags, so main pre-scans
	// os.Args for --verbose; the flag is registered here so parsing
	// accepts it.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Use human-readable log output")
}

func Execute() error {
	return rootCmd.Execute()
}
