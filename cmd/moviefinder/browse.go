package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"moviefinder/internal/logging"
	"moviefinder/services/browse"
	"moviefinder/services/metadata"
	"moviefinder/ui"
)

var query string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the terminal movie browser (default)",
	Long: `Shows the trending carousel, a search box and the popular list.
Typing searches TMDB as you go; clearing the box returns to the popular list.

Example:
  moviefinder browse --query "blade runner"`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().StringVarP(&query, "query", "q", "", "Initial search term")
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	closer, err := logging.Setup(logging.Options{LogSettings: settings.Log})
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := metadata.NewService(settings.TMDB, nil)
	ctrl := browse.New(svc,
		browse.WithQueryPolicy(queryPolicy(settings.Browse)),
		browse.WithInitialSearchTerm(query),
		browse.WithDebugLogging(settings.Log.Verbose),
	)
	return ui.Run(ctx, ctrl)
}
