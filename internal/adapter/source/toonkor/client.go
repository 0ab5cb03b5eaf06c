package toonkor

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mmcdole/toonkor/internal/domain"
	"github.com/segmentio/ksuid"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Toonkor-TUI/1.0"

	// SearchPath is the collector's browse search route
	SearchPath = "/api/browse/search"

	// maxBodySize caps how much of a response body is read
	maxBodySize = 8 << 20
)

// Client implements domain.SearchClient for the toonkor collector server
type Client struct {
	baseURL     string
	httpClient  *http.Client
	logger      *slog.Logger
	maxBodySize int64
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the client logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient creates a new collector API client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger:      slog.Default(),
		maxBodySize: maxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchURL returns the request URL for query with the query percent-encoded
func (c *Client) SearchURL(query string) string {
	params := url.Values{}
	params.Set("query", query)
	return c.baseURL + SearchPath + "?" + params.Encode()
}

// Search queries the browse search endpoint.
// The result holds either the decoded records or a *domain.TransportError,
// *domain.HTTPStatusError, or *domain.ParseError; never both.
func (c *Client) Search(ctx context.Context, query string) domain.SearchResult {
	if strings.TrimSpace(query) == "" {
		return domain.Err(domain.ErrEmptyQuery)
	}

	reqURL := c.SearchURL(query)
	requestID := ksuid.New().String()
	logger := c.logger.With("request_id", requestID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.Err(&domain.TransportError{Err: errors.Wrap(err, "failed to create request")})
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID)

	logger.Debug("search request", "url", reqURL)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			// Superseded by a newer query
			logger.Debug("search request cancelled")
		case errors.Is(err, context.DeadlineExceeded):
			err = errors.Wrap(err, "search timed out")
			logger.Warn("search request timed out", "elapsed", time.Since(start))
		default:
			logger.Error("search request failed", "error", err)
		}
		return domain.Err(&domain.TransportError{Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused; the body is not a result list
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxBodySize))
		logger.Error("search request error", "status", resp.StatusCode, "elapsed", time.Since(start))
		return domain.Err(&domain.HTTPStatusError{StatusCode: resp.StatusCode})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		logger.Error("failed to read search response", "error", err)
		return domain.Err(&domain.TransportError{Err: errors.Wrap(err, "failed to read response")})
	}
	if int64(len(body)) > c.maxBodySize {
		logger.Error("search response too large", "limit", c.maxBodySize)
		return domain.Err(&domain.ParseError{Err: errors.Newf("response too large: exceeds %d bytes", c.maxBodySize)})
	}

	items, err := parseResults(body)
	if err != nil {
		logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return domain.Err(&domain.ParseError{Err: err})
	}

	logger.Debug("search response", "results", len(items), "elapsed", time.Since(start))
	return domain.Ok(items)
}

// parseResults decodes a JSON array of result records, preserving order
func parseResults(body []byte) ([]domain.Manhwa, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.New("empty response body")
	}
	if trimmed[0] != '[' {
		return nil, errors.Newf("expected a JSON array, got %s", describeJSON(trimmed[0]))
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, errors.Wrap(err, "invalid JSON")
	}

	items := make([]domain.Manhwa, len(raw))
	for i, elem := range raw {
		if err := json.Unmarshal(elem, &items[i]); err != nil {
			return nil, errors.Wrapf(err, "record %d", i)
		}
	}
	return items, nil
}

func describeJSON(first byte) string {
	switch first {
	case '{':
		return "object"
	case '"':
		return "string"
	case 'n':
		return "null"
	case 't', 'f':
		return "boolean"
	default:
		return "number"
	}
}
