package handlers

import (
	"encoding/json"
	"net/http"

	"moviefinder/config"
)

// SettingsHandler exposes the settings file as currently loaded, with the
// TMDB token removed.
type SettingsHandler struct {
	Manager *config.Manager
}

func NewSettingsHandler(m *config.Manager) *SettingsHandler {
	return &SettingsHandler{Manager: m}
}

type SettingsResponse struct {
	config.Settings
	Path      string `json:"path"`
	APIKeySet bool   `json:"apiKeySet"`
}

func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.Manager.Load()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := SettingsResponse{
		Settings:  s,
		Path:      h.Manager.Path(),
		APIKeySet: s.TMDB.APIKey != "",
	}
	resp.TMDB.APIKey = ""

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
