package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"moviefinder/models"
)

// MoviesHandler exposes the two catalog fetches directly.
type MoviesHandler struct {
	Service movieService
}

func NewMoviesHandler(s movieService) *MoviesHandler {
	return &MoviesHandler{Service: s}
}

type moviesResponse struct {
	Query   string         `json:"query,omitempty"`
	Results []models.Movie `json:"results"`
}

// GetMovies returns search results for ?query=, or the popular list when the
// query is blank.
func (h *MoviesHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	query := models.EffectiveQuery(r.URL.Query().Get("query"))

	movies, err := h.Service.Movies(r.Context(), query)
	if err != nil {
		log.Printf("[http] movies fetch failed query=%q: %v", query, err)
		writeJSONError(w, http.StatusBadGateway, models.MoviesErrorMessage)
		return
	}
	if movies == nil {
		movies = []models.Movie{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(moviesResponse{Query: query, Results: movies})
}

// GetTrending returns the first MaxTrending trending movies.
func (h *MoviesHandler) GetTrending(w http.ResponseWriter, r *http.Request) {
	movies, err := h.Service.Trending(r.Context())
	if err != nil {
		log.Printf("[http] trending fetch failed: %v", err)
		writeJSONError(w, http.StatusBadGateway, "trending movies unavailable")
		return
	}
	if len(movies) > models.MaxTrending {
		movies = movies[:models.MaxTrending]
	}
	if movies == nil {
		movies = []models.Movie{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(moviesResponse{Results: movies})
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
