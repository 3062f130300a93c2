// Package ecos provides a client for the Bank of Korea ECOS open API.
// This package centralizes all ECOS API interactions for the application.
package ecos

import (
	"fmt"
	"time"
)

// Statistic table and item codes used by the macro dashboard.
const (
	// StatPolicyRate is the BOK base rate table (monthly cycle).
	StatPolicyRate  = "722Y001"
	ItemPolicyRate  = "0101000"
	CyclePolicyRate = "M"

	// StatMarketIndex covers KOSPI and KOSDAQ closes (daily cycle).
	StatMarketIndex = "802Y001"
	ItemKospi       = "0001000"
	ItemKosdaq      = "0089000"

	// StatExchangeRate is the KRW/USD rate (daily cycle).
	StatExchangeRate = "731Y001"
	ItemUsdKrw       = "0000001"

	// StatBondYield covers treasury yields; 3-year maturity item (daily cycle).
	StatBondYield = "817Y002"
	ItemBond3Y    = "010200000"

	CycleDaily = "D"
)

// APIError represents an error reported by the ECOS API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("ECOS API error: %s (code: %s, endpoint: %s)", e.Message, e.Code, e.Endpoint)
	}
	return fmt.Sprintf("ECOS API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// RateLimitError represents a rate limit error.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("ECOS rate limit exceeded, retry after %v", e.RetryAfter)
}
