package pexels

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/handiism/pexels-search/internal/http"
	"github.com/handiism/pexels-search/internal/model"
	"github.com/handiism/pexels-search/internal/pexels/dto"
)

// DefaultBaseURL is the Pexels photo API root.
const DefaultBaseURL = "https://api.pexels.com/v1"

// MaxPerPage is the largest page size the API accepts.
const MaxPerPage = 80

// ErrMissingAPIKey is returned when a request is attempted without an API key.
var ErrMissingAPIKey = errors.New("pexels: missing API key")

// APIError is returned when the API answers with a non-200 status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("pexels: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("pexels: HTTP %d: %s", e.StatusCode, e.Message)
}

// Config holds the settings a Client needs.
type Config struct {
	APIKey  string
	BaseURL string
	PerPage int
	// PhotoSize selects which src URL becomes Photo.PhotoURL.
	PhotoSize string
}

// Client searches the Pexels photo API.
//
// Client satisfies search.Searcher, so it can be handed straight to a
// search.Controller.
//
// Example usage:
//
//	client := pexels.NewClient(pexels.Config{APIKey: key, PerPage: 30}, slog.Default())
//
//	photos, err := client.Search(ctx, "mountains")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, p := range photos {
//	    fmt.Printf("%s by %s\n", p.PhotoURL, p.Photographer)
//	}
type Client struct {
	httpClient *http.Client
	cfg        Config
	logger     *slog.Logger
}

// NewClient creates a new Client.
//
// The API key is sent in the Authorization header on every request. A
// zero PerPage uses the API default and values above MaxPerPage are
// clamped. Extra http options (timeout, user agent) are passed through.
func NewClient(cfg Config, logger *slog.Logger, opts ...http.Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.PerPage > MaxPerPage {
		cfg.PerPage = MaxPerPage
	}
	if cfg.PhotoSize == "" {
		cfg.PhotoSize = "medium"
	}
	if logger == nil {
		logger = slog.Default()
	}

	// Copy so the caller's backing array is never written to.
	opts = append(append([]http.Option(nil), opts...), http.WithHeader("Authorization", cfg.APIKey))

	return &Client{
		httpClient: http.NewClient(opts...),
		cfg:        cfg,
		logger:     logger,
	}
}

// Search returns the first page of photos matching query, in API order.
func (c *Client) Search(ctx context.Context, query string) ([]model.Photo, error) {
	params := url.Values{}
	params.Set("query", query)
	return c.fetch(ctx, "/search", params)
}

// Curated returns the first page of the curated photo feed.
func (c *Client) Curated(ctx context.Context) ([]model.Photo, error) {
	return c.fetch(ctx, "/curated", url.Values{})
}

func (c *Client) fetch(ctx context.Context, path string, params url.Values) ([]model.Photo, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	params.Set("page", "1")
	if c.cfg.PerPage > 0 {
		params.Set("per_page", strconv.Itoa(c.cfg.PerPage))
	}
	endpoint := c.cfg.BaseURL + path + "?" + params.Encode()

	var resp dto.JSONSearchResponse
	if err := c.httpClient.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, toAPIError(err)
	}

	c.logger.Debug("pexels response",
		slog.String("path", path),
		slog.String("query", params.Get("query")),
		slog.Int("photos", len(resp.Photos)),
		slog.Int("total", resp.TotalResults),
	)

	return resp.ToPhotos(c.cfg.PhotoSize), nil
}

// toAPIError converts HTTP status failures into *APIError and leaves
// other errors untouched.
func toAPIError(err error) error {
	var statusErr *http.StatusError
	if !errors.As(err, &statusErr) {
		return err
	}

	apiErr := &APIError{StatusCode: statusErr.StatusCode}
	var body dto.JSONError
	if json.Unmarshal(statusErr.Body, &body) == nil {
		apiErr.Message = body.Message()
	}
	return apiErr
}
