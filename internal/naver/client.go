package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the base URL for the Naver open API.
	DefaultBaseURL = "https://openapi.naver.com/v1"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 5
)

// pubDateLayout is the RFC 1123 variant Naver uses, e.g.
// "Mon, 02 Jan 2006 15:04:05 +0900".
const pubDateLayout = "Mon, 02 Jan 2006 15:04:05 -0700"

// textCleaner strips the API's highlight markup and the HTML entities
// that show up in titles and descriptions.
var textCleaner = strings.NewReplacer(
	"<b>", "",
	"</b>", "",
	"&quot;", `"`,
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&apos;", "'",
	"&#39;", "'",
	"&nbsp;", " ",
)

// CleanText removes Naver's highlight tags and common HTML entities.
func CleanText(s string) string {
	return strings.TrimSpace(textCleaner.Replace(s))
}

// Client is a Naver open API client.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	logger       arbor.ILogger
	limiter      *rate.Limiter
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

// NewClient creates a new Naver open API client.
func NewClient(clientID, clientSecret string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:      DefaultBaseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
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

// get performs a GET request with the client credential headers.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	// Wait for rate limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return &RateLimitError{RetryAfter: time.Second}
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Naver-Client-Id", c.clientID)
	req.Header.Set("X-Naver-Client-Secret", c.clientSecret)

	if c.logger != nil {
		c.logger.Debug().
			Str("url", c.baseURL+path).
			Msg("Naver API request")
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
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// SearchNews retrieves news articles matching a query, sorted by date by
// default. Titles and descriptions come back cleaned.
func (c *Client) SearchNews(ctx context.Context, query string, opts ...QueryOption) ([]NewsItem, error) {
	params := &queryParams{
		Display: 10,
		Start:   1,
		Sort:    "date",
	}
	for _, opt := range opts {
		opt(params)
	}

	queryParams := url.Values{}
	queryParams.Set("query", query)
	queryParams.Set("display", fmt.Sprintf("%d", params.Display))
	queryParams.Set("start", fmt.Sprintf("%d", params.Start))
	queryParams.Set("sort", params.Sort)

	var result newsResponse
	if err := c.get(ctx, "/search/news.json", queryParams, &result); err != nil {
		return nil, err
	}

	items := result.Items
	for i := range items {
		items[i].Title = CleanText(items[i].Title)
		items[i].Description = CleanText(items[i].Description)
		if t, err := time.Parse(pubDateLayout, items[i].PubDateStr); err == nil {
			items[i].PubDate = t
		}
	}

	return items, nil
}
