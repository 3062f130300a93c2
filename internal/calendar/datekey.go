// Package calendar implements the economic-calendar core: canonical date
// keys, month grid construction, event grouping/filtering and the page
// view state. All date arithmetic happens in one explicit location so day
// boundaries do not depend on the process-local timezone.
package calendar

import (
	"fmt"
	"time"
)

// DefaultTimezone is the zone the upstream market data is quoted in.
const DefaultTimezone = "Asia/Seoul"

var koreanWeekdays = [7]string{"일", "월", "화", "수", "목", "금", "토"}

// DateKey returns the canonical YYYY-MM-DD key for t in loc.
// Two timestamps on the same civil day in loc share a key.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// ParseDateKey parses a canonical YYYY-MM-DD key back to midnight in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return t, nil
}

// DisplayDateTime returns the short display pair for t in loc:
// "MM/DD (요일)" and 24-hour "HH:MM".
func DisplayDateTime(t time.Time, loc *time.Location) (date, clock string) {
	lt := t.In(loc)
	date = fmt.Sprintf("%02d/%02d (%s)", int(lt.Month()), lt.Day(), koreanWeekdays[int(lt.Weekday())])
	clock = lt.Format("15:04")
	return date, clock
}
