package llm

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// RetryPolicy controls how a provider call is retried after a rate-limit
// rejection: an initial wait, an exponential multiplier, and a hard cap.
// Each provider gets its own defaults because their quota windows differ.
type RetryPolicy struct {
	// MaxRetries is the number of retry attempts after the first call.
	MaxRetries int

	// InitialBackoff is the wait before the first retry when the API
	// did not suggest a delay itself.
	InitialBackoff time.Duration

	// MaxBackoff caps the wait between retries.
	MaxBackoff time.Duration

	// BackoffMultiplier grows the wait on each successive retry.
	BackoffMultiplier float64
}

// GeminiRetryPolicy returns the retry ladder for the Gemini API. Free-tier
// quota resets on a ~60s window, so the first wait already spans most of a
// window instead of burning retries inside it.
func GeminiRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:        5,
		InitialBackoff:    45 * time.Second,
		MaxBackoff:        90 * time.Second,
		BackoffMultiplier: 1.5,
	}
}

// ClaudeRetryPolicy returns the retry ladder for the Anthropic API, which
// rejects and recovers faster than Gemini's quota window.
func ClaudeRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:        5,
		InitialBackoff:    15 * time.Second,
		MaxBackoff:        60 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// IsRateLimitError reports whether err is a rate-limit rejection from
// either provider: HTTP 429, Gemini's RESOURCE_EXHAUSTED/quota wording,
// or Anthropic's rate_limit error type.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "rate_limit") ||
		strings.Contains(errStr, "quota")
}

// retryDelayRegex matches "Please retry in Xs" or "retryDelay:Xs" patterns
var retryDelayRegex = regexp.MustCompile(`(?i)(?:Please retry in |retryDelay[:\s]+)(\d+(?:\.\d+)?)\s*s`)

// ExtractRetryDelay parses the retry delay some Gemini 429 responses embed
// in their message text, e.g. "... Please retry in 45.387061394s., Status:
// RESOURCE_EXHAUSTED". Returns 0 when the message carries no hint.
func ExtractRetryDelay(err error) time.Duration {
	if err == nil {
		return 0
	}

	matches := retryDelayRegex.FindStringSubmatch(err.Error())
	if len(matches) < 2 {
		return 0
	}

	seconds, parseErr := strconv.ParseFloat(matches[1], 64)
	if parseErr != nil {
		return 0
	}

	return time.Duration(seconds * float64(time.Second))
}

// Backoff computes the wait before the given retry attempt (0-based). An
// API-suggested delay from ExtractRetryDelay replaces the policy's initial
// backoff, padded slightly so the quota has actually reset when the retry
// lands. The result never exceeds MaxBackoff.
func (p RetryPolicy) Backoff(attempt int, apiDelay time.Duration) time.Duration {
	base := p.InitialBackoff
	if apiDelay > 0 {
		base = apiDelay + 5*time.Second
	}

	multiplier := 1.0
	for i := 0; i < attempt; i++ {
		multiplier *= p.BackoffMultiplier
	}

	backoff := time.Duration(float64(base) * multiplier)
	if backoff > p.MaxBackoff {
		backoff = p.MaxBackoff
	}

	return backoff
}

// TransientBackoff is the short linear ladder used for failures that are
// not rate limits (network blips, 5xx): 2s, 4s, 6s, ...
func (p RetryPolicy) TransientBackoff(attempt int) time.Duration {
	return time.Duration(attempt+1) * 2 * time.Second
}
