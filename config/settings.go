package config

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

const (
	DefaultTMDBBaseURL  = "https://api.themoviedb.org/3"
	DefaultLanguage     = "en-US"
	DefaultServerAddr   = ":8080"
	DefaultLogFile      = "moviefinder.log"
	defaultTMDBRate     = 20
	defaultTMDBBurst    = 10
	defaultTimeoutSecs  = 15
	defaultAPIPerMinute = 120
)

// Settings is the full application configuration.
type Settings struct {
	Server ServerSettings `json:"server" yaml:"server"`
	TMDB   TMDBSettings   `json:"tmdb" yaml:"tmdb"`
	Browse BrowseSettings `json:"browse" yaml:"browse"`
	Log    LogSettings    `json:"log" yaml:"log"`
}

type ServerSettings struct {
	Addr string `json:"addr" yaml:"addr"`
	// APIRequestsPerMinute is the per-IP budget for /api routes. Zero disables limiting.
	APIRequestsPerMinute int      `json:"apiRequestsPerMinute" yaml:"apiRequestsPerMinute"`
	AllowedOrigins       []string `json:"allowedOrigins,omitempty" yaml:"allowedOrigins,omitempty"`
}

type TMDBSettings struct {
	APIKey            string  `json:"apiKey" yaml:"apiKey"`
	BaseURL           string  `json:"baseUrl" yaml:"baseUrl"`
	Language          string  `json:"language" yaml:"language"`
	RequestsPerSecond float64 `json:"requestsPerSecond" yaml:"requestsPerSecond"`
	Burst             int     `json:"burst" yaml:"burst"`
	TimeoutSeconds    int     `json:"timeoutSeconds" yaml:"timeoutSeconds"`
}

// Timeout returns the per-request timeout for TMDB calls.
func (t TMDBSettings) Timeout() time.Duration {
	if t.TimeoutSeconds <= 0 {
		return defaultTimeoutSecs * time.Second
	}
	return time.Duration(t.TimeoutSeconds) * time.Second
}

type BrowseSettings struct {
	// DebounceMillis delays search-triggered fetches until typing pauses.
	// Zero fires a request on every change.
	DebounceMillis int `json:"debounceMillis" yaml:"debounceMillis"`
}

// Debounce returns the configured quiet period.
func (b BrowseSettings) Debounce() time.Duration {
	if b.DebounceMillis <= 0 {
		return 0
	}
	return time.Duration(b.DebounceMillis) * time.Millisecond
}

type LogSettings struct {
	File       string `json:"file" yaml:"file"`
	MaxSizeMB  int    `json:"maxSizeMb" yaml:"maxSizeMb"`
	MaxBackups int    `json:"maxBackups" yaml:"maxBackups"`
	MaxAgeDays int    `json:"maxAgeDays" yaml:"maxAgeDays"`
	Verbose    bool   `json:"verbose" yaml:"verbose"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{
			Addr:                 DefaultServerAddr,
			APIRequestsPerMinute: defaultAPIPerMinute,
		},
		TMDB: TMDBSettings{
			BaseURL:           DefaultTMDBBaseURL,
			Language:          DefaultLanguage,
			RequestsPerSecond: defaultTMDBRate,
			Burst:             defaultTMDBBurst,
			TimeoutSeconds:    defaultTimeoutSecs,
		},
		Log: LogSettings{
			File:       DefaultLogFile,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Validate checks the settings and fills blanks that would otherwise break
// the TMDB client. An empty API key is accepted; requests then fail
// upstream and the UI shows its usual error.
func (s *Settings) Validate() error {
	s.TMDB.BaseURL = strings.TrimRight(strings.TrimSpace(s.TMDB.BaseURL), "/")
	if s.TMDB.BaseURL == "" {
		s.TMDB.BaseURL = DefaultTMDBBaseURL
	}
	lang := strings.TrimSpace(s.TMDB.Language)
	if lang == "" {
		lang = DefaultLanguage
	}
	tag, err := language.Parse(strings.ReplaceAll(lang, "_", "-"))
	if err != nil {
		return fmt.Errorf("invalid tmdb language %q: %w", s.TMDB.Language, err)
	}
	s.TMDB.Language = tag.String()
	if s.TMDB.RequestsPerSecond < 0 {
		return fmt.Errorf("tmdb requestsPerSecond must not be negative")
	}
	if s.TMDB.Burst <= 0 {
		s.TMDB.Burst = 1
	}
	if s.Server.Addr == "" {
		s.Server.Addr = DefaultServerAddr
	}
	if s.Browse.DebounceMillis < 0 {
		return fmt.Errorf("browse debounceMillis must not be negative")
	}
	return nil
}
