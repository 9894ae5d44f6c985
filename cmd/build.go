package cmd

import (
	"github.com/spf13/cobra"

	"github.com/thanhhoan-v2/Personal-Porfolio/internal/build"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the static site from content, layouts, and static assets",
	Long: `The build command loads Markdown content from './content/', renders it
through the content pipeline, applies layouts from './layouts/' (including
partials), copies static assets from './static/', and writes the site to
the configured output directory (default './public/').`,
	RunE: func(cmd *cobra.Command, args []string) error {
		defer func() { _ = logger.Sync() }()
		_, err := build.Run(appConfig, logger)
		return err
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
