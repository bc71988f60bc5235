package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the settings file.
const (
	EnvAPIKey     = "TMDB_API_KEY"
	EnvViteAPIKey = "VITE_TMDB_API_KEY"
	EnvBaseURL    = "TMDB_BASE_URL"
	EnvLanguage   = "TMDB_LANGUAGE"
	EnvAddr       = "MOVIEFINDER_ADDR"
)

// Manager loads and saves Settings. The file format follows the extension:
// .yaml/.yml is YAML, anything else JSON.
type Manager struct {
	mu     sync.RWMutex
	fs     afero.Fs
	path   string
	lookup func(string) (string, bool)
}

// NewManager returns a Manager backed by the OS filesystem.
func NewManager(path string) *Manager {
	return NewManagerWithFs(afero.NewOsFs(), path)
}

// NewManagerWithFs returns a Manager backed by fs.
func NewManagerWithFs(fs afero.Fs, path string) *Manager {
	return &Manager{fs: fs, path: path, lookup: os.LookupEnv}
}

// SetEnvLookup replaces the environment lookup, mostly for tests.
func (m *Manager) SetEnvLookup(fn func(string) (string, bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if fn == nil {
		fn = func(string) (string, bool) { return "", false }
	}
	m.lookup = fn
}

// Path returns the settings file path.
func (m *Manager) Path() string {
	return m.path
}

// Load reads the settings file, applies environment overrides and validates
// the result. A missing file yields DefaultSettings.
func (m *Manager) Load() (Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	settings := DefaultSettings()
	if m.path != "" {
		data, err := afero.ReadFile(m.fs, m.path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			log.Printf("[config] %s not found, using defaults", m.path)
		case err != nil:
			return Settings{}, fmt.Errorf("read settings: %w", err)
		case len(bytes.TrimSpace(data)) > 0:
			if err := decode(m.path, data, &settings); err != nil {
				return Settings{}, fmt.Errorf("parse settings %s: %w", m.path, err)
			}
		}
	}

	m.applyEnv(&settings)
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// Save writes settings atomically.
func (m *Manager) Save(s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.path == "" {
		return errors.New("settings path not set")
	}
	data, err := encode(m.path, s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if dir := filepath.Dir(m.path); dir != "" {
		if err := m.fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := m.path + ".tmp"
	if err := afero.WriteFile(m.fs, tmp, data, 0o600); err != nil {
		return err
	}
	if err := m.fs.Rename(tmp, m.path); err != nil {
		_ = m.fs.Remove(tmp)
		return err
	}
	return nil
}

func (m *Manager) applyEnv(s *Settings) {
	get := func(key string) string {
		v, ok := m.lookup(key)
		if !ok {
			return ""
		}
		return strings.TrimSpace(v)
	}
	if v := get(EnvAPIKey); v != "" {
		s.TMDB.APIKey = v
	} else if v := get(EnvViteAPIKey); v != "" {
		s.TMDB.APIKey = v
	}
	if v := get(EnvBaseURL); v != "" {
		s.TMDB.BaseURL = v
	}
	if v := get(EnvLanguage); v != "" {
		s.TMDB.Language = v
	}
	if v := get(EnvAddr); v != "" {
		s.Server.Addr = v
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func decode(path string, data []byte, s *Settings) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, s)
	}
	return json.Unmarshal(data, s)
}

func encode(path string, s Settings) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(s)
	}
	return json.MarshalIndent(s, "", "  ")
}
