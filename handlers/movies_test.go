package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviefinder/models"
)

type moviesBody struct {
	Query   string         `json:"query"`
	Results []models.Movie `json:"results"`
	Error   string         `json:"error"`
}

func decodeMovies(t *testing.T, r io.Reader) moviesBody {
	t.Helper()
	var body moviesBody
	require.NoError(t, json.NewDecoder(r).Decode(&body))
	return body
}

func TestGetMovies(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		wantSearch   string
		wantDiscover int
	}{
		{name: "popular", target: "/api/movies", wantDiscover: 1},
		{name: "blank query", target: "/api/movies?query=%20", wantDiscover: 1},
		{name: "search", target: "/api/movies?query=blade+runner", wantSearch: "blade runner"},
		{name: "search keeps padding", target: "/api/movies?query=%20heat", wantSearch: " heat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeMovieService{searchResp: movies(2), discoverResp: movies(3)}
			rec := httptest.NewRecorder()
			NewMoviesHandler(svc).GetMovies(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			body := decodeMovies(t, rec.Body)
			assert.Equal(t, tt.wantSearch, svc.lastSearchQuery)
			assert.Equal(t, tt.wantDiscover, svc.discoverCalls)
			assert.Equal(t, tt.wantSearch, body.Query)
			if tt.wantSearch != "" {
				assert.Len(t, body.Results, 2)
			} else {
				assert.Len(t, body.Results, 3)
			}
		})
	}
}

func TestGetMoviesEmptyIsArray(t *testing.T) {
	svc := &fakeMovieService{}
	rec := httptest.NewRecorder()
	NewMoviesHandler(svc).GetMovies(rec, httptest.NewRequest(http.MethodGet, "/api/movies?query=zzz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"results":[]`)
}

func TestGetMoviesUpstreamFailure(t *testing.T) {
	svc := &fakeMovieService{searchErr: errors.New("tmdb status 500: internal")}
	rec := httptest.NewRecorder()
	NewMoviesHandler(svc).GetMovies(rec, httptest.NewRequest(http.MethodGet, "/api/movies?query=x", nil))

	require.Equal(t, http.StatusBadGateway, rec.Code)
	body := decodeMovies(t, rec.Body)
	assert.Equal(t, models.MoviesErrorMessage, body.Error)
	assert.NotContains(t, body.Error, "500")
}

func TestGetTrending(t *testing.T) {
	t.Run("truncated", func(t *testing.T) {
		svc := &fakeMovieService{trendingResp: movies(20)}
		rec := httptest.NewRecorder()
		NewMoviesHandler(svc).GetTrending(rec, httptest.NewRequest(http.MethodGet, "/api/trending", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeMovies(t, rec.Body)
		require.Len(t, body.Results, models.MaxTrending)
		assert.Equal(t, "Movie 1", body.Results[0].Title)
		assert.Equal(t, "Movie 4", body.Results[3].Title)
	})

	t.Run("short list kept", func(t *testing.T) {
		svc := &fakeMovieService{trendingResp: movies(2)}
		rec := httptest.NewRecorder()
		NewMoviesHandler(svc).GetTrending(rec, httptest.NewRequest(http.MethodGet, "/api/trending", nil))

		body := decodeMovies(t, rec.Body)
		assert.Len(t, body.Results, 2)
	})

	t.Run("failure", func(t *testing.T) {
		svc := &fakeMovieService{trendingErr: errors.New("nope")}
		rec := httptest.NewRecorder()
		NewMoviesHandler(svc).GetTrending(rec, httptest.NewRequest(http.MethodGet, "/api/trending", nil))

		require.Equal(t, http.StatusBadGateway, rec.Code)
		assert.True(t, strings.Contains(rec.Body.String(), "trending movies unavailable"))
	})
}

func TestStaticHandler(t *testing.T) {
	h := NewStaticHandler()
	tests := []struct {
		path        string
		contentType string
	}{
		{"/static/style.css", "text/css; charset=utf-8"},
		{"/static/no-movie.svg", "image/svg+xml"},
		{"/static/favicon.svg", "image/svg+xml"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, tt.path)
		assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"), tt.path)
		assert.NotEmpty(t, rec.Header().Get("Cache-Control"), tt.path)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVersionHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewVersionHandler().GetVersion(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp VersionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Version)
	assert.Equal(t, AppVersion(), resp.Version)
}
