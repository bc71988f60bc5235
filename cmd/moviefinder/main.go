package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"moviefinder/config"
	"moviefinder/handlers"
	"moviefinder/services/browse"
)

var (
	// Global flags
	configPath string
	apiKey     string
	logFile    string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "moviefinder",
	Short: "Browse popular, trending and searched movies from TMDB",
	Long: `moviefinder shows the popular movie list, the top trending movies and
search results from The Movie Database (TMDB).

Run without a subcommand to open the terminal browser, or use "serve" to
expose the same view as a web page and JSON API.

The TMDB read access token is taken from --api-key, TMDB_API_KEY,
VITE_TMDB_API_KEY or the tmdb.apiKey settings field.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       handlers.AppVersion(),
	RunE:          runBrowse,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "settings.json", "Settings file (.json, .yaml or .yml)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "TMDB read access token (or set TMDB_API_KEY env)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path (default from settings)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.Flags().StringVarP(&query, "query", "q", "", "Initial search term")

	rootCmd.AddCommand(browseCmd, serveCmd, configCmd)
}

// loadSettings reads the settings file and applies flag overrides on top of
// file and environment values.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	settings, err := config.NewManager(configPath).Load()
	if err != nil {
		return config.Settings{}, err
	}
	if apiKey != "" {
		settings.TMDB.APIKey = apiKey
	}
	if cmd.Flags().Changed("log-file") {
		settings.Log.File = logFile
	}
	if verbose {
		settings.Log.Verbose = true
	}
	return settings, nil
}

func queryPolicy(s config.BrowseSettings) browse.QueryPolicy {
	if d := s.Debounce(); d > 0 {
		return browse.Debounce(d)
	}
	return browse.Immediate()
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
