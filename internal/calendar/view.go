package calendar

import (
	"time"

	"github.com/ternarybob/finmate/internal/models"
)

// InsightTab selects which commentary the panel shows for an event.
type InsightTab string

const (
	TabPre  InsightTab = "pre"
	TabPost InsightTab = "post"
)

// ViewState is the serializable state of the calendar page. Transitions
// are pure: each returns the successor state and never mutates the
// receiver, so the transition table is directly testable.
type ViewState struct {
	Year            int        `json:"year"`
	MonthIndex      int        `json:"monthIndex"`
	SelectedDateKey string     `json:"selectedDateKey"`
	SelectedEventID string     `json:"selectedEventId"`
	SelectedAsset   string     `json:"selectedAsset"`
	InsightOpen     bool       `json:"insightOpen"`
	InsightTab      InsightTab `json:"insightTab"`
}

// NewViewState returns the initial state for now in loc: current month,
// today selected, no event, the "all" asset filter, panel closed.
func NewViewState(now time.Time, loc *time.Location) ViewState {
	lt := now.In(loc)
	return ViewState{
		Year:            lt.Year(),
		MonthIndex:      int(lt.Month()) - 1,
		SelectedDateKey: DateKey(now, loc),
		SelectedAsset:   models.AssetAll,
		InsightTab:      TabPre,
	}
}

// SelectDate moves the selection to dateKey and clears the selected event.
func (s ViewState) SelectDate(dateKey string) ViewState {
	s.SelectedDateKey = dateKey
	s.SelectedEventID = ""
	return s
}

// ChangeAsset switches the asset filter, clears the selected event and
// closes the insight panel.
func (s ViewState) ChangeAsset(assetTag string) ViewState {
	s.SelectedAsset = assetTag
	s.SelectedEventID = ""
	s.InsightOpen = false
	return s
}

// ClickEvent selects the event and opens the panel. Past events default
// to the post-announcement tab, upcoming ones to pre.
func (s ViewState) ClickEvent(ev models.Event, now time.Time) ViewState {
	s.SelectedEventID = ev.ID
	s.InsightOpen = true
	if ev.Datetime.Before(now) {
		s.InsightTab = TabPost
	} else {
		s.InsightTab = TabPre
	}
	return s
}

// SwitchTab changes the commentary tab without touching the selection.
func (s ViewState) SwitchTab(tab InsightTab) ViewState {
	s.InsightTab = tab
	return s
}

// ClosePanel closes the insight panel.
func (s ViewState) ClosePanel() ViewState {
	s.InsightOpen = false
	return s
}

// PrevMonth steps back one month with an explicit year carry past January.
func (s ViewState) PrevMonth() ViewState {
	if s.MonthIndex == 0 {
		s.Year--
		s.MonthIndex = 11
		return s
	}
	s.MonthIndex--
	return s
}

// NextMonth steps forward one month with an explicit year carry past
// December.
func (s ViewState) NextMonth() ViewState {
	if s.MonthIndex == 11 {
		s.Year++
		s.MonthIndex = 0
		return s
	}
	s.MonthIndex++
	return s
}
