package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"moviefinder/models"
)

const (
	tmdbImageBaseURL = "https://image.tmdb.org/t/p/"
	tmdbBackdropSize = "w1280"
	tmdbPosterSize   = "w500"
)

type tmdbClient struct {
	baseURL  string
	apiKey   string
	language string
	httpc    *http.Client
	limiter  *rate.Limiter
}

func newTMDBClient(baseURL, apiKey, lang string, httpc *http.Client, limiter *rate.Limiter) *tmdbClient {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &tmdbClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   strings.TrimSpace(apiKey),
		language: normalizeLanguage(lang),
		httpc:    httpc,
		limiter:  limiter,
	}
}

type tmdbMovie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	OriginalLanguage string  `json:"original_language"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	BackdropPath     string  `json:"backdrop_path"`
	PosterPath       string  `json:"poster_path"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int64   `json:"vote_count"`
}

type tmdbListResponse struct {
	Page         int         `json:"page"`
	Results      []tmdbMovie `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

func (c *tmdbClient) trending(ctx context.Context) (*models.MoviePage, error) {
	params := url.Values{}
	params.Set("language", c.language)
	return c.fetchList(ctx, "/trending/movie/day", params)
}

func (c *tmdbClient) search(ctx context.Context, query string) (*models.MoviePage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	params.Set("language", c.language)
	params.Set("page", "1")
	return c.fetchList(ctx, "/search/movie", params)
}

func (c *tmdbClient) discover(ctx context.Context) (*models.MoviePage, error) {
	params := url.Values{}
	params.Set("include_adult", "false")
	params.Set("include_video", "false")
	params.Set("language", c.language)
	params.Set("page", "1")
	params.Set("sort_by", "popularity.desc")
	return c.fetchList(ctx, "/discover/movie", params)
}

func (c *tmdbClient) fetchList(ctx context.Context, endpoint string, params url.Values) (*models.MoviePage, error) {
	var resp tmdbListResponse
	if err := c.getJSON(ctx, endpoint, params, &resp); err != nil {
		return nil, err
	}
	page := &models.MoviePage{
		Page:         resp.Page,
		Results:      make([]models.Movie, 0, len(resp.Results)),
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResults,
	}
	for _, m := range resp.Results {
		page.Results = append(page.Results, m.toModel())
	}
	return page, nil
}

func (c *tmdbClient) getJSON(ctx context.Context, endpoint string, params url.Values, dest any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("tmdb rate limiter: %w", err)
		}
	}

	endpointURL := c.baseURL + endpoint
	if encoded := params.Encode(); encoded != "" {
		endpointURL += "?" + encoded
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb http error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &HTTPStatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		log.Printf("[metadata] tmdb decode failed endpoint=%s: %v", endpoint, err)
		return fmt.Errorf("tmdb decode error: %w", err)
	}
	return nil
}

func (m tmdbMovie) toModel() models.Movie {
	return models.Movie{
		ID:               m.ID,
		Title:            m.Title,
		OriginalTitle:    m.OriginalTitle,
		OriginalLanguage: m.OriginalLanguage,
		Overview:         m.Overview,
		ReleaseDate:      m.ReleaseDate,
		Year:             parseTMDBYear(m.ReleaseDate),
		BackdropPath:     m.BackdropPath,
		PosterPath:       m.PosterPath,
		Backdrop:         buildTMDBImage(m.BackdropPath, tmdbBackdropSize, "backdrop"),
		Poster:           buildTMDBImage(m.PosterPath, tmdbPosterSize, "poster"),
		Popularity:       m.Popularity,
		VoteAverage:      m.VoteAverage,
		VoteCount:        m.VoteCount,
	}
}

// normalizeLanguage turns user input like "en" or "pt_br" into the
// language-REGION form TMDB expects. Unparseable input falls back to en-US.
func normalizeLanguage(lang string) string {
	lang = strings.TrimSpace(strings.ReplaceAll(lang, "_", "-"))
	if lang == "" {
		return "en-US"
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return "en-US"
	}
	base, _ := tag.Base()
	region, _ := tag.Region()
	return base.String() + "-" + region.String()
}

func buildTMDBImage(path, size, imageType string) *models.Image {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return &models.Image{URL: tmdbImageBaseURL + size + path, Type: imageType}
}

func parseTMDBYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
