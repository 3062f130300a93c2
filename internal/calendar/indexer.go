package calendar

import (
	"sort"
	"time"

	"github.com/ternarybob/finmate/internal/models"
)

// GroupByDate buckets events by their date key in loc and sorts each
// bucket by importance descending. The sort is stable: events of equal
// importance keep their input order. Inputs are assumed valid; records
// without a timestamp are dropped at ingestion, not here.
func GroupByDate(events []models.Event, loc *time.Location) map[string][]models.Event {
	grouped := make(map[string][]models.Event)
	for _, ev := range events {
		key := DateKey(ev.Datetime, loc)
		grouped[key] = append(grouped[key], ev)
	}

	for key := range grouped {
		group := grouped[key]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Importance.Rank() > group[j].Importance.Rank()
		})
	}
	return grouped
}

// FilterByAsset returns the events whose asset tag matches exactly.
// The "all" tag is the identity filter.
func FilterByAsset(events []models.Event, assetTag string) []models.Event {
	if assetTag == models.AssetAll {
		return events
	}
	filtered := make([]models.Event, 0, len(events))
	for _, ev := range events {
		if ev.Asset == assetTag {
			filtered = append(filtered, ev)
		}
	}
	return filtered
}
