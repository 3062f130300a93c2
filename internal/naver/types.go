// Package naver provides a client for the Naver open API news search.
package naver

import (
	"fmt"
	"time"
)

// QueryOption represents an optional parameter for search queries.
type QueryOption func(*queryParams)

// queryParams holds optional query parameters.
type queryParams struct {
	Display int
	Start   int
	Sort    string // sim (relevance), date
}

// WithDisplay sets how many articles one call returns (max 100).
func WithDisplay(display int) QueryOption {
	return func(p *queryParams) {
		p.Display = display
	}
}

// WithStart sets the 1-based result offset.
func WithStart(start int) QueryOption {
	return func(p *queryParams) {
		p.Start = start
	}
}

// WithSort sets the sort order ("sim" or "date").
func WithSort(sort string) QueryOption {
	return func(p *queryParams) {
		p.Sort = sort
	}
}

// APIError represents an error from the Naver open API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Naver API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// RateLimitError represents a rate limit error.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("Naver rate limit exceeded, retry after %v", e.RetryAfter)
}
