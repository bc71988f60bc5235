package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"moviefinder/config"
)

func TestNormalizeLanguage(t *testing.T) {
	tests := map[string]string{
		"":      "en-US",
		"en":    "en-US",
		"en_US": "en-US",
		"pt-br": "pt-BR",
		"fr-FR": "fr-FR",
		"!!":    "en-US",
	}
	for input, expect := range tests {
		if got := normalizeLanguage(input); got != expect {
			t.Fatalf("normalizeLanguage(%q) = %q, want %q", input, got, expect)
		}
	}
}

func TestBuildTMDBImage(t *testing.T) {
	if img := buildTMDBImage("", tmdbBackdropSize, "backdrop"); img != nil {
		t.Fatal("expected nil image when path empty")
	}
	img := buildTMDBImage("/backdrop.png", tmdbBackdropSize, "backdrop")
	if img == nil {
		t.Fatal("expected image for valid path")
	}
	if img.URL != "https://image.tmdb.org/t/p/w1280/backdrop.png" {
		t.Fatalf("unexpected image url: %s", img.URL)
	}
	if img.Type != "backdrop" {
		t.Fatalf("unexpected image type: %s", img.Type)
	}
	if img := buildTMDBImage("poster.jpg", tmdbPosterSize, "poster"); img == nil || img.URL != "https://image.tmdb.org/t/p/w500/poster.jpg" {
		t.Fatalf("expected slash to be added, got %+v", img)
	}
}

func TestParseTMDBYear(t *testing.T) {
	if year := parseTMDBYear("2024-05-01"); year != 2024 {
		t.Fatalf("expected 2024, got %d", year)
	}
	if year := parseTMDBYear(""); year != 0 {
		t.Fatalf("expected 0 for empty date, got %d", year)
	}
	if year := parseTMDBYear("199"); year != 0 {
		t.Fatalf("expected 0 for invalid date, got %d", year)
	}
}

type recordedRequest struct {
	path   string
	query  map[string]string
	auth   string
	accept string
}

// newTMDBStub serves canned list responses and records what it was asked for.
func newTMDBStub(t *testing.T, status int, body string) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := map[string]string{}
		for k := range r.URL.Query() {
			q[k] = r.URL.Query().Get(k)
		}
		mu.Lock()
		reqs = append(reqs, recordedRequest{
			path:   r.URL.Path,
			query:  q,
			auth:   r.Header.Get("Authorization"),
			accept: r.Header.Get("accept"),
		})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), reqs...)
	}
}

func newTestService(baseURL string) *Service {
	cfg := config.DefaultSettings().TMDB
	cfg.BaseURL = baseURL + "/3"
	cfg.APIKey = "secret-token"
	cfg.RequestsPerSecond = 0
	return NewService(cfg, nil)
}

func listBody(titles ...string) string {
	type item struct {
		ID           int64  `json:"id"`
		Title        string `json:"title"`
		BackdropPath string `json:"backdrop_path"`
		ReleaseDate  string `json:"release_date"`
	}
	payload := struct {
		Page    int    `json:"page"`
		Results []item `json:"results"`
	}{Page: 1}
	for i, title := range titles {
		payload.Results = append(payload.Results, item{
			ID:           int64(i + 1),
			Title:        title,
			BackdropPath: "/b" + title + ".jpg",
			ReleaseDate:  "2021-01-01",
		})
	}
	data, _ := json.Marshal(payload)
	return string(data)
}

func TestServiceEndpoints(t *testing.T) {
	tests := []struct {
		name      string
		call      func(*Service) error
		wantPath  string
		wantQuery map[string]string
	}{
		{
			name:     "trending",
			call:     func(s *Service) error { _, err := s.Trending(context.Background()); return err },
			wantPath: "/3/trending/movie/day",
			wantQuery: map[string]string{
				"language": "en-US",
			},
		},
		{
			name:     "search",
			call:     func(s *Service) error { _, err := s.Search(context.Background(), "the matrix & co"); return err },
			wantPath: "/3/search/movie",
			wantQuery: map[string]string{
				"query":         "the matrix & co",
				"include_adult": "false",
				"language":      "en-US",
				"page":          "1",
			},
		},
		{
			name:     "discover",
			call:     func(s *Service) error { _, err := s.Discover(context.Background()); return err },
			wantPath: "/3/discover/movie",
			wantQuery: map[string]string{
				"include_adult": "false",
				"include_video": "false",
				"language":      "en-US",
				"page":          "1",
				"sort_by":       "popularity.desc",
			},
		},
		{
			name:     "blank query discovers",
			call:     func(s *Service) error { _, err := s.Movies(context.Background(), "   "); return err },
			wantPath: "/3/discover/movie",
			wantQuery: map[string]string{
				"include_adult": "false",
				"include_video": "false",
				"language":      "en-US",
				"page":          "1",
				"sort_by":       "popularity.desc",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, requests := newTMDBStub(t, http.StatusOK, listBody("A"))
			svc := newTestService(srv.URL)
			if err := tt.call(svc); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			reqs := requests()
			if len(reqs) != 1 {
				t.Fatalf("expected 1 request, got %d", len(reqs))
			}
			got := reqs[0]
			if got.path != tt.wantPath {
				t.Errorf("path = %q, want %q", got.path, tt.wantPath)
			}
			if got.auth != "Bearer secret-token" {
				t.Errorf("authorization = %q", got.auth)
			}
			if got.accept != "application/json" {
				t.Errorf("accept = %q", got.accept)
			}
			if len(got.query) != len(tt.wantQuery) {
				t.Errorf("query = %v, want %v", got.query, tt.wantQuery)
			}
			for k, v := range tt.wantQuery {
				if got.query[k] != v {
					t.Errorf("query[%s] = %q, want %q", k, got.query[k], v)
				}
			}
		})
	}
}

func TestServiceMapsResults(t *testing.T) {
	srv, _ := newTMDBStub(t, http.StatusOK, listBody("Dune", "Arrival"))
	svc := newTestService(srv.URL)

	movies, err := svc.Trending(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("expected 2 movies, got %d", len(movies))
	}
	if movies[0].Title != "Dune" || movies[1].Title != "Arrival" {
		t.Fatalf("order not preserved: %+v", movies)
	}
	if movies[0].Backdrop == nil || movies[0].Backdrop.URL != "https://image.tmdb.org/t/p/w1280/bDune.jpg" {
		t.Fatalf("unexpected backdrop: %+v", movies[0].Backdrop)
	}
	if movies[0].Poster != nil {
		t.Fatalf("expected no poster, got %+v", movies[0].Poster)
	}
	if movies[0].Year != 2021 {
		t.Fatalf("expected year 2021, got %d", movies[0].Year)
	}
}

func TestServiceMissingResultsIsEmpty(t *testing.T) {
	srv, _ := newTMDBStub(t, http.StatusOK, `{"page":1}`)
	svc := newTestService(srv.URL)

	movies, err := svc.Search(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if movies == nil || len(movies) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", movies)
	}
}

func TestServiceErrors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		for _, code := range []int{http.StatusUnauthorized, http.StatusNotFound, http.StatusInternalServerError} {
			srv, _ := newTMDBStub(t, code, `{"status_message":"nope"}`)
			_, err := newTestService(srv.URL).Discover(context.Background())
			if !IsStatus(err, code) {
				t.Fatalf("expected status %d error, got %v", code, err)
			}
			var statusErr *HTTPStatusError
			if !errors.As(err, &statusErr) || statusErr.Endpoint != "/discover/movie" {
				t.Fatalf("unexpected error detail: %#v", err)
			}
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		srv, _ := newTMDBStub(t, http.StatusOK, `{"results": "oops"}`)
		_, err := newTestService(srv.URL).Trending(context.Background())
		if err == nil {
			t.Fatal("expected decode error")
		}
		var syntaxOrType *json.UnmarshalTypeError
		if !errors.As(err, &syntaxOrType) {
			t.Fatalf("expected wrapped json error, got %v", err)
		}
	})

	t.Run("transport", func(t *testing.T) {
		srv, _ := newTMDBStub(t, http.StatusOK, listBody())
		svc := newTestService(srv.URL)
		srv.Close()
		if _, err := svc.Trending(context.Background()); err == nil {
			t.Fatal("expected transport error")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		srv, requests := newTMDBStub(t, http.StatusOK, listBody("A"))
		svc := newTestService(srv.URL)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := svc.Search(ctx, "x"); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if n := len(requests()); n != 0 {
			t.Fatalf("expected no request to reach the server, got %d", n)
		}
	})
}

func TestRateLimiterHonorsContext(t *testing.T) {
	srv, _ := newTMDBStub(t, http.StatusOK, listBody("A"))
	cfg := config.DefaultSettings().TMDB
	cfg.BaseURL = srv.URL
	cfg.RequestsPerSecond = 0.001
	cfg.Burst = 1
	svc := NewService(cfg, nil)

	if _, err := svc.Trending(context.Background()); err != nil {
		t.Fatalf("first call should use the burst: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Trending(ctx); err == nil {
		t.Fatal("expected limiter to give up on cancelled context")
	}
}

func TestUnauthorizedHintLoggedOnce(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)

	srv, _ := newTMDBStub(t, http.StatusUnauthorized, `{"status_message":"Invalid API key"}`)
	svc := newTestService(srv.URL)

	for i := 0; i < 3; i++ {
		if _, err := svc.Discover(context.Background()); !IsStatus(err, http.StatusUnauthorized) {
			t.Fatalf("expected 401 status error, got %v", err)
		}
	}
	if n := strings.Count(buf.String(), "rejected the API key"); n != 1 {
		t.Fatalf("expected one hint, got %d:\n%s", n, buf.String())
	}
}
