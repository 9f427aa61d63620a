// Package tmdb fetches catalog pages from The Movie Database API.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mmcdole/marquee/internal/domain"
)

const (
	// DefaultBaseURL is the TMDB API root
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// DefaultImageBaseURL prefixes poster paths
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/w500"
	// MaxPage is the last page TMDB serves for list endpoints
	MaxPage = 500
)

// ErrNoAPIKey is returned when the client has no API key configured
var ErrNoAPIKey = errors.New("tmdb: api key not configured")

// Config holds TMDB client settings
type Config struct {
	APIKey        string
	BaseURL       string
	ImageBaseURL  string
	Language      string
	RatePerSecond float64 // 0 disables client-side rate limiting
	Burst         int
}

// Client handles interactions with the TMDB API
type Client struct {
	httpClient *http.Client
	cfg        Config
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a new TMDB client
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = DefaultImageBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = "pt-BR"
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		cfg:     cfg,
		limiter: limiter,
		logger:  logger,
	}
}

// IsConfigured returns true if the TMDB API key is configured
func (c *Client) IsConfigured() bool {
	return c.cfg.APIKey != ""
}

// PopularMovies returns a page of popular movies
func (c *Client) PopularMovies(ctx context.Context, page int) ([]domain.CatalogItem, error) {
	return c.list(ctx, "/movie/popular", page, nil, "movie")
}

// PopularSeries returns a page of popular TV series
func (c *Client) PopularSeries(ctx context.Context, page int) ([]domain.CatalogItem, error) {
	return c.list(ctx, "/tv/popular", page, nil, "tv")
}

// DiscoverSeries returns a page of TV series carrying all of genres
// (comma-separated ids), ordered by popularity
func (c *Client) DiscoverSeries(ctx context.Context, page int, genres string) ([]domain.CatalogItem, error) {
	return c.list(ctx, "/discover/tv", page, discoverParams(genres), "tv")
}

// DiscoverMovies returns a page of movies carrying all of genres
func (c *Client) DiscoverMovies(ctx context.Context, page int, genres string) ([]domain.CatalogItem, error) {
	return c.list(ctx, "/discover/movie", page, discoverParams(genres), "movie")
}

func discoverParams(genres string) url.Values {
	params := url.Values{}
	params.Set("sort_by", "popularity.desc")
	if genres != "" {
		params.Set("with_genres", genres)
	}
	return params
}

func (c *Client) list(ctx context.Context, path string, page int, params url.Values, kind string) ([]domain.CatalogItem, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidPage, page)
	}
	if page > MaxPage {
		return []domain.CatalogItem{}, nil
	}
	if !c.IsConfigured() {
		return nil, ErrNoAPIKey
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("page", strconv.Itoa(page))

	var resp listResponse
	if err := c.doRequest(ctx, path, params, &resp); err != nil {
		return nil, err
	}
	return c.format(resp.Results, kind), nil
}

// doRequest performs a rate-limited GET and decodes the JSON body into result
func (c *Client) doRequest(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params.Set("api_key", c.cfg.APIKey)
	params.Set("language", c.cfg.Language)
	reqURL := c.cfg.BaseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("tmdb request",
		"path", path,
		"page", params.Get("page"),
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(body, &apiErr) == nil && apiErr.StatusMessage != "" {
			return fmt.Errorf("tmdb %s: status %d: %s", path, resp.StatusCode, apiErr.StatusMessage)
		}
		return fmt.Errorf("tmdb %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to parse TMDB response: %w", err)
	}
	return nil
}

// format converts TMDB results into catalog items. Results without a
// title are dropped; a missing poster yields an empty PosterURL.
func (c *Client) format(results []result, defaultKind string) []domain.CatalogItem {
	items := make([]domain.CatalogItem, 0, len(results))
	for _, r := range results {
		title := r.Title
		if title == "" {
			title = r.Name
		}
		if title == "" {
			continue
		}

		date := r.ReleaseDate
		if date == "" {
			date = r.FirstAirDate
		}

		kind := r.MediaType
		if kind == "" {
			kind = defaultKind
		}

		item := domain.CatalogItem{
			ID:          r.ID,
			Title:       title,
			Synopsis:    r.Overview,
			ReleaseDate: date,
			Rating:      r.VoteAverage,
			Kind:        kind,
		}
		if r.PosterPath != "" {
			item.PosterURL = c.cfg.ImageBaseURL + r.PosterPath
		}
		for _, g := range r.GenreIDs {
			item.GenreIDs = append(item.GenreIDs, strconv.Itoa(g))
		}
		items = append(items, item)
	}
	return items
}
