package models

import "time"

// Importance classifies how market-moving a calendar event is expected to be.
type Importance string

const (
	ImportanceVeryHigh Importance = "very_high"
	ImportanceHigh     Importance = "high"
	ImportanceMedium   Importance = "medium"
	ImportanceLow      Importance = "low"
)

// Rank returns the ordinal used for sort order. Unknown values rank as low.
func (i Importance) Rank() int {
	switch i {
	case ImportanceVeryHigh:
		return 3
	case ImportanceHigh:
		return 2
	case ImportanceMedium:
		return 1
	default:
		return 0
	}
}

// AssetAll is the asset tag for events that are not tied to one instrument.
// Filtering by AssetAll is the identity filter.
const AssetAll = "all"

// Event is a scheduled economic or corporate announcement. Events are
// immutable after ingestion; records without a timestamp are dropped there.
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Datetime    time.Time  `json:"datetime"`
	Importance  Importance `json:"importance"`
	Asset       string     `json:"asset"`
	Description string     `json:"description"`
	CompanyName string     `json:"companyName,omitempty"`
	StockCode   string     `json:"stockCode,omitempty"`
	Type        string     `json:"type,omitempty"`
}
