// Package catalog is the HTTP client for the paginated catalog API.
package catalog

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

	"github.com/mmcdole/marquee/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 8 << 20

	// Query parameter names used by the catalog API
	paramPage   = "pagina"
	paramGenres = "generos"
)

// Client fetches catalog pages over HTTP. It makes exactly one attempt per
// page; retrying is left to the user.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new catalog API client
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// BaseURL returns the server base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PageURL builds the request URL for q
func (c *Client) PageURL(q domain.PageQuery) string {
	query := url.Values{}
	query.Set(paramPage, strconv.Itoa(q.Page))
	if q.Genres != "" && q.List.Filterable() {
		query.Set(paramGenres, q.Genres)
	}
	return fmt.Sprintf("%s%s?%s", c.baseURL, q.Path(), query.Encode())
}

// FetchPage implements domain.PageFetcher
func (c *Client) FetchPage(ctx context.Context, q domain.PageQuery) ([]domain.CatalogItem, error) {
	if q.Page < 1 {
		return nil, fmt.Errorf("%w: %w: %d", domain.ErrRequestFailed, domain.ErrInvalidPage, q.Page)
	}

	body, err := c.doRequest(ctx, c.PageURL(q))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRequestFailed, err)
	}

	var dtos []ItemDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		c.logger.Error("malformed catalog response", "list", q.List.Key, "page", q.Page, "error", err)
		return nil, fmt.Errorf("%w: failed to parse response: %w", domain.ErrRequestFailed, err)
	}
	if dtos == nil {
		// A JSON null decodes without error but is not a page
		c.logger.Error("malformed catalog response", "list", q.List.Key, "page", q.Page, "error", "not an array")
		return nil, fmt.Errorf("%w: expected a JSON array", domain.ErrRequestFailed)
	}

	items := MapItems(dtos)
	c.logger.Debug("catalog page fetched", "list", q.List.Key, "page", q.Page, "genres", q.Genres, "items", len(items))
	return items, nil
}

// doRequest performs a GET and returns the body of a 200 response
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("catalog request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		c.logger.Error("catalog request failed", "url", reqURL, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("catalog request error", "status", resp.StatusCode, "url", reqURL, "body", string(body))
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return body, nil
}
