package calendar

import (
	"fmt"
	"time"
)

// Cell is one slot of the 7-column month view. Leading blanks before the
// first day of the month have Day 0 and an empty DateKey.
type Cell struct {
	Day     int    `json:"day"`
	DateKey string `json:"dateKey"`
}

// Blank reports whether the cell is a leading pad slot.
func (c Cell) Blank() bool { return c.Day == 0 }

// BuildGrid returns the ordered cells of the month view for year and a
// zero-based month index: leading blanks up to the weekday of day 1
// (0=Sunday), then one cell per day. Trailing padding is a rendering
// concern and is not emitted. monthIndex must already be normalized to
// 0..11; month rollover is the view state's job.
func BuildGrid(year, monthIndex int) []Cell {
	first := time.Date(year, time.Month(monthIndex+1), 1, 0, 0, 0, 0, time.UTC)
	leading := int(first.Weekday())

	// Day 0 of the next month is the last day of this one.
	daysInMonth := time.Date(year, time.Month(monthIndex+2), 0, 0, 0, 0, 0, time.UTC).Day()

	cells := make([]Cell, 0, leading+daysInMonth)
	for i := 0; i < leading; i++ {
		cells = append(cells, Cell{})
	}
	for d := 1; d <= daysInMonth; d++ {
		cells = append(cells, Cell{
			Day:     d,
			DateKey: fmt.Sprintf("%04d-%02d-%02d", year, monthIndex+1, d),
		})
	}
	return cells
}
