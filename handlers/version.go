package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"sync"
)

// Version can be set at build time with
// -ldflags "-X moviefinder/handlers.Version=1.2.3"; otherwise version.txt is read.
var Version string

var (
	resolvedVersion string
	versionOnce     sync.Once
)

type VersionHandler struct{}

type VersionResponse struct {
	Version string `json:"version"`
}

func NewVersionHandler() *VersionHandler {
	return &VersionHandler{}
}

// AppVersion returns the build version, falling back to version.txt in the
// working directory and then "dev".
func AppVersion() string {
	versionOnce.Do(func() {
		if v := strings.TrimSpace(Version); v != "" {
			resolvedVersion = v
			return
		}
		if data, err := os.ReadFile("version.txt"); err == nil {
			if v := strings.TrimSpace(string(data)); v != "" {
				resolvedVersion = v
				return
			}
		}
		resolvedVersion = "dev"
	})
	return resolvedVersion
}

func (h *VersionHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(VersionResponse{Version: AppVersion()})
}
