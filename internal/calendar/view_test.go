package calendar

import (
	"testing"
	"time"

	"github.com/ternarybob/finmate/internal/models"
)

func TestNewViewState(t *testing.T) {
	seoul := mustLoadSeoul(t)
	now := time.Date(2025, 1, 17, 10, 0, 0, 0, seoul)

	s := NewViewState(now, seoul)
	if s.Year != 2025 || s.MonthIndex != 0 {
		t.Errorf("initial month = %d-%d, want 2025-0", s.Year, s.MonthIndex)
	}
	if s.SelectedDateKey != "2025-01-17" {
		t.Errorf("initial dateKey = %q", s.SelectedDateKey)
	}
	if s.SelectedAsset != models.AssetAll {
		t.Errorf("initial asset = %q, want all", s.SelectedAsset)
	}
	if s.InsightOpen {
		t.Error("panel should start closed")
	}
}

func TestMonthNavigationCarry(t *testing.T) {
	tests := []struct {
		name      string
		start     ViewState
		step      func(ViewState) ViewState
		wantYear  int
		wantMonth int
	}{
		{
			name:      "prev from january carries year down",
			start:     ViewState{Year: 2025, MonthIndex: 0},
			step:      ViewState.PrevMonth,
			wantYear:  2024,
			wantMonth: 11,
		},
		{
			name:      "next from december carries year up",
			start:     ViewState{Year: 2025, MonthIndex: 11},
			step:      ViewState.NextMonth,
			wantYear:  2026,
			wantMonth: 0,
		},
		{
			name:      "prev mid-year",
			start:     ViewState{Year: 2025, MonthIndex: 6},
			step:      ViewState.PrevMonth,
			wantYear:  2025,
			wantMonth: 5,
		},
		{
			name:      "next mid-year",
			start:     ViewState{Year: 2025, MonthIndex: 6},
			step:      ViewState.NextMonth,
			wantYear:  2025,
			wantMonth: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.step(tt.start)
			if got.Year != tt.wantYear || got.MonthIndex != tt.wantMonth {
				t.Errorf("got %d-%d, want %d-%d", got.Year, got.MonthIndex, tt.wantYear, tt.wantMonth)
			}
		})
	}
}

func TestSelectDateClearsEvent(t *testing.T) {
	s := ViewState{SelectedDateKey: "2025-01-17", SelectedEventID: "ev-1", InsightOpen: true}
	got := s.SelectDate("2025-01-20")

	if got.SelectedDateKey != "2025-01-20" {
		t.Errorf("dateKey = %q", got.SelectedDateKey)
	}
	if got.SelectedEventID != "" {
		t.Error("event selection should be cleared")
	}
	// Receiver is untouched.
	if s.SelectedEventID != "ev-1" {
		t.Error("transition mutated the receiver")
	}
}

func TestChangeAssetClosesPanel(t *testing.T) {
	s := ViewState{SelectedAsset: models.AssetAll, SelectedEventID: "ev-1", InsightOpen: true}
	got := s.ChangeAsset("samsung")

	if got.SelectedAsset != "samsung" {
		t.Errorf("asset = %q", got.SelectedAsset)
	}
	if got.SelectedEventID != "" {
		t.Error("event selection should be cleared")
	}
	if got.InsightOpen {
		t.Error("panel should be closed")
	}
}

func TestClickEventTabByTimestamp(t *testing.T) {
	seoul := mustLoadSeoul(t)
	now := time.Date(2025, 1, 17, 12, 0, 0, 0, seoul)

	past := models.Event{ID: "past", Datetime: now.Add(-time.Hour)}
	future := models.Event{ID: "future", Datetime: now.Add(time.Hour)}

	s := ViewState{}

	got := s.ClickEvent(past, now)
	if !got.InsightOpen || got.SelectedEventID != "past" {
		t.Errorf("click did not select/open: %+v", got)
	}
	if got.InsightTab != TabPost {
		t.Errorf("past event tab = %q, want post", got.InsightTab)
	}

	got = s.ClickEvent(future, now)
	if got.InsightTab != TabPre {
		t.Errorf("future event tab = %q, want pre", got.InsightTab)
	}
}
