package metadata

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"moviefinder/config"
	"moviefinder/models"
)

// Service exposes the three TMDB movie lists the application consumes.
type Service struct {
	tmdb *tmdbClient

	authWarned sync.Once
}

// NewService builds a Service from TMDB settings. httpc may be nil, in which
// case a client with the configured timeout is used.
func NewService(cfg config.TMDBSettings, httpc *http.Client) *Service {
	if httpc == nil {
		httpc = &http.Client{Timeout: cfg.Timeout()}
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		log.Printf("[metadata] no TMDB API key configured; requests will be rejected upstream")
	}
	return &Service{
		tmdb: newTMDBClient(cfg.BaseURL, cfg.APIKey, cfg.Language, httpc, limiter),
	}
}

// Language returns the normalized language sent with every request.
func (s *Service) Language() string {
	return s.tmdb.language
}

// Trending returns today's trending movies in TMDB rank order.
func (s *Service) Trending(ctx context.Context) ([]models.Movie, error) {
	page, err := s.tmdb.trending(ctx)
	if err != nil {
		s.checkAuth(err)
		return nil, err
	}
	return page.Results, nil
}

// Search returns the first page of results for query. The query is sent as
// given; callers decide what counts as blank.
func (s *Service) Search(ctx context.Context, query string) ([]models.Movie, error) {
	page, err := s.tmdb.search(ctx, query)
	if err != nil {
		s.checkAuth(err)
		return nil, err
	}
	return page.Results, nil
}

// Discover returns the first page of movies sorted by descending popularity.
func (s *Service) Discover(ctx context.Context) ([]models.Movie, error) {
	page, err := s.tmdb.discover(ctx)
	if err != nil {
		s.checkAuth(err)
		return nil, err
	}
	return page.Results, nil
}

// Movies picks Search or Discover depending on whether query is blank.
func (s *Service) Movies(ctx context.Context, query string) ([]models.Movie, error) {
	if q := models.EffectiveQuery(query); q != "" {
		return s.Search(ctx, q)
	}
	return s.Discover(ctx)
}

// checkAuth logs a single hint the first time TMDB rejects the token.
func (s *Service) checkAuth(err error) {
	if IsStatus(err, http.StatusUnauthorized) {
		s.authWarned.Do(func() {
			log.Printf("[metadata] TMDB rejected the API key (401); check TMDB_API_KEY or tmdb.apiKey")
		})
	}
}
