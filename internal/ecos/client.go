package ecos

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the base URL for the ECOS open API.
	DefaultBaseURL = "https://ecos.bok.or.kr/api"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 5

	// maxRows caps how many observations one call returns.
	maxRows = 500

	// emptyResultCode is returned by ECOS when a query matches no rows.
	emptyResultCode = "INFO-200"
)

// Client is an ECOS API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates a new ECOS API client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get performs a GET request against an ECOS path-style endpoint.
// ECOS encodes all parameters as path segments, not query strings.
func (c *Client) get(ctx context.Context, endpoint string, segments []string, result interface{}) error {
	// Wait for rate limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return &RateLimitError{RetryAfter: time.Second}
	}

	reqURL := fmt.Sprintf("%s/%s/%s/json/kr", c.baseURL, endpoint, c.apiKey)
	for _, segment := range segments {
		reqURL += "/" + url.PathEscape(segment)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug().
			Str("endpoint", endpoint).
			Msg("ECOS API request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   endpoint,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// StatisticSearch retrieves observations of one statistic series.
// Start and end are formatted per cycle ("202401" monthly, "20240115" daily).
// A query that matches no rows returns an empty slice, not an error.
func (c *Client) StatisticSearch(ctx context.Context, statCode, cycle, start, end, itemCode string) ([]StatisticRow, error) {
	segments := []string{"1", fmt.Sprintf("%d", maxRows), statCode, cycle, start, end, itemCode}

	var result statisticSearchResponse
	if err := c.get(ctx, "StatisticSearch", segments, &result); err != nil {
		return nil, err
	}

	if result.Result != nil {
		if result.Result.Code == emptyResultCode {
			return nil, nil
		}
		return nil, &APIError{
			Code:     result.Result.Code,
			Message:  result.Result.Message,
			Endpoint: "StatisticSearch",
		}
	}

	if result.StatisticSearch == nil {
		return nil, nil
	}
	return result.StatisticSearch.Rows, nil
}

// SearchGlossary looks up a term in the ECOS statistical glossary.
// Returns nil when the term is not found.
func (c *Client) SearchGlossary(ctx context.Context, term string) (*GlossaryEntry, error) {
	segments := []string{"1", "10", term}

	var result statisticWordResponse
	if err := c.get(ctx, "StatisticWord", segments, &result); err != nil {
		return nil, err
	}

	if result.Result != nil {
		if result.Result.Code == emptyResultCode {
			return nil, nil
		}
		return nil, &APIError{
			Code:     result.Result.Code,
			Message:  result.Result.Message,
			Endpoint: "StatisticWord",
		}
	}

	if result.StatisticWord == nil || len(result.StatisticWord.Rows) == 0 {
		return nil, nil
	}
	return &result.StatisticWord.Rows[0], nil
}
