package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"moviefinder/models"
	"moviefinder/services/browse"
	metadatapkg "moviefinder/services/metadata"
)

type movieService interface {
	Trending(context.Context) ([]models.Movie, error)
	Search(context.Context, string) ([]models.Movie, error)
	Discover(context.Context) ([]models.Movie, error)
	Movies(context.Context, string) ([]models.Movie, error)
}

var _ movieService = (*metadatapkg.Service)(nil)

// BrowseHandler serves the browse page and its JSON form. Each request gets
// its own controller: it is mounted with the requested query, and the state
// is rendered once both fetches have settled.
type BrowseHandler struct {
	Service movieService
	Debug   bool
	page    *pageRenderer
}

func NewBrowseHandler(s movieService) *BrowseHandler {
	return &BrowseHandler{Service: s, page: newPageRenderer()}
}

// Page renders the full HTML page for ?query=.
func (h *BrowseHandler) Page(w http.ResponseWriter, r *http.Request) {
	state, ok := h.settle(r.Context(), r.URL.Query().Get("query"))
	if !ok {
		return
	}
	if err := h.page.render(w, state); err != nil {
		log.Printf("[http] render browse page failed: %v", err)
	}
}

// State returns the settled browse state as JSON.
func (h *BrowseHandler) State(w http.ResponseWriter, r *http.Request) {
	state, ok := h.settle(r.Context(), r.URL.Query().Get("query"))
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(state)
}

// settle mounts a controller for query and waits for it. It reports false
// when the client went away first.
func (h *BrowseHandler) settle(ctx context.Context, query string) (models.BrowseState, bool) {
	ctrl := browse.New(h.Service,
		browse.WithInitialSearchTerm(query),
		browse.WithDebugLogging(h.Debug),
	)
	defer ctrl.Close()
	ctrl.Mount()

	done := make(chan struct{})
	go func() {
		ctrl.Wait()
		close(done)
	}()

	select {
	case <-done:
		return ctrl.Snapshot(), true
	case <-ctx.Done():
		ctrl.Close()
		<-done
		return models.BrowseState{}, false
	}
}
