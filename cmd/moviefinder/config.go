package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"moviefinder/config"
)

var forceInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the settings file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a settings file with default values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeDefaultSettings(cmd, afero.NewOsFs())
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings (API key redacted)",
	Args:  cobra.NoArgs,
	RunE:  showSettings,
}

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing settings file")
	configCmd.AddCommand(configInitCmd, configShowCmd)
}

func writeDefaultSettings(cmd *cobra.Command, fs afero.Fs) error {
	exists, err := afero.Exists(fs, configPath)
	if err != nil {
		return err
	}
	if exists && !forceInit {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}
	if err := config.NewManagerWithFs(fs, configPath).Save(config.DefaultSettings()); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote default settings to %s\n", configPath)
	return nil
}

func showSettings(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	key := "(not set)"
	if settings.TMDB.APIKey != "" {
		key = "(set)"
	}
	fmt.Fprintf(out, "settings file:   %s\n", configPath)
	fmt.Fprintf(out, "tmdb base url:   %s\n", settings.TMDB.BaseURL)
	fmt.Fprintf(out, "tmdb language:   %s\n", settings.TMDB.Language)
	fmt.Fprintf(out, "tmdb api key:    %s\n", key)
	fmt.Fprintf(out, "server addr:     %s\n", settings.Server.Addr)
	fmt.Fprintf(out, "api limit/min:   %d\n", settings.Server.APIRequestsPerMinute)
	fmt.Fprintf(out, "search debounce: %s\n", settings.Browse.Debounce())
	fmt.Fprintf(out, "log file:        %s\n", settings.Log.File)
	return nil
}
