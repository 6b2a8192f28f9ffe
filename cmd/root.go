package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tagworks/autotag/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "autotag",
	Short: "A CLI tool for creating semantic-version git tags",
	Long: `autotag inspects the existing tags of a git repository, determines the
latest version per a configurable naming template, increments it and creates
(and optionally pushes) the next tag.`,
	Version:      version.Summary(),
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("repo", "", "Path to the repository (default: discovered from the working directory)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
}

func Execute() error {
	return rootCmd.Execute()
}
