package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/finmate/internal/common"
	"github.com/ternarybob/finmate/internal/models"
)

func mustLoadSeoul(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	return loc
}

func TestIngest(t *testing.T) {
	loc := mustLoadSeoul(t)
	service := NewService(loc, common.GetLogger())

	records := []models.Event{
		{ID: "a", Title: "실적 발표", Datetime: time.Date(2025, 1, 17, 9, 0, 0, 0, loc)},
		{Title: "타임스탬프 없음"}, // dropped
		{Title: "ID 없음", Datetime: time.Date(2025, 1, 18, 9, 0, 0, 0, loc)},
	}

	kept := service.Ingest(records)
	assert.Equal(t, 2, kept)

	events := service.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "a", events[0].ID)
	assert.NotEmpty(t, events[1].ID, "missing IDs are assigned")
}

func TestGroupedByDate(t *testing.T) {
	loc := mustLoadSeoul(t)
	service := NewService(loc, common.GetLogger())

	service.Ingest([]models.Event{
		{ID: "low", Title: "중요도 낮음", Datetime: time.Date(2025, 1, 17, 9, 0, 0, 0, loc), Importance: models.ImportanceLow},
		{ID: "high", Title: "중요도 높음", Datetime: time.Date(2025, 1, 17, 15, 0, 0, 0, loc), Importance: models.ImportanceVeryHigh},
		{ID: "other-day", Title: "다른 날", Datetime: time.Date(2025, 1, 20, 9, 0, 0, 0, loc), Importance: models.ImportanceMedium},
	})

	grouped := service.GroupedByDate()
	require.Len(t, grouped, 2)
	require.Len(t, grouped["2025-01-17"], 2)
	assert.Equal(t, "high", grouped["2025-01-17"][0].ID, "days are sorted by importance")
}

func TestForAsset(t *testing.T) {
	loc := mustLoadSeoul(t)
	service := NewService(loc, common.GetLogger())

	service.Ingest([]models.Event{
		{ID: "s", Asset: "samsung", Datetime: time.Date(2025, 1, 17, 9, 0, 0, 0, loc)},
		{ID: "k", Asset: "skhynix", Datetime: time.Date(2025, 1, 18, 9, 0, 0, 0, loc)},
	})

	samsung := service.ForAsset("samsung")
	require.Len(t, samsung, 1)
	assert.Equal(t, "s", samsung[0].ID)

	all := service.ForAsset(models.AssetAll)
	assert.Len(t, all, 2)
}

func TestDemoEvents(t *testing.T) {
	loc := mustLoadSeoul(t)
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, loc)

	demo := DemoEvents(now, loc)
	require.NotEmpty(t, demo)

	seen := make(map[string]bool)
	hasEarnings := false
	hasPast := false
	for _, ev := range demo {
		assert.False(t, seen[ev.ID], "IDs are unique")
		seen[ev.ID] = true
		require.False(t, ev.Datetime.IsZero())
		if ev.Type == "earnings" {
			hasEarnings = true
			assert.NotEmpty(t, ev.StockCode)
			assert.NotEmpty(t, ev.CompanyName)
		}
		if ev.Datetime.Before(now) {
			hasPast = true
		}
	}
	assert.True(t, hasEarnings, "seed includes earnings events")
	assert.True(t, hasPast, "seed includes at least one past event")
}
