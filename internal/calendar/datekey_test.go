package calendar

import (
	"testing"
	"time"
)

func mustLoadSeoul(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	return loc
}

func TestDateKey(t *testing.T) {
	seoul := mustLoadSeoul(t)

	tests := []struct {
		name string
		ts   time.Time
		want string
	}{
		{
			name: "local afternoon",
			ts:   time.Date(2025, 1, 17, 15, 30, 0, 0, seoul),
			want: "2025-01-17",
		},
		{
			name: "single digit month and day padded",
			ts:   time.Date(2025, 3, 5, 9, 0, 0, 0, seoul),
			want: "2025-03-05",
		},
		{
			name: "utc evening crosses into next seoul day",
			ts:   time.Date(2025, 1, 16, 16, 0, 0, 0, time.UTC),
			want: "2025-01-17",
		},
		{
			name: "midnight boundary stays on its day",
			ts:   time.Date(2025, 6, 1, 0, 0, 0, 0, seoul),
			want: "2025-06-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DateKey(tt.ts, seoul); got != tt.want {
				t.Errorf("DateKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDateKeyIdempotent(t *testing.T) {
	seoul := mustLoadSeoul(t)

	// Keying a timestamp, parsing the key back to midnight and keying
	// again must yield the same key.
	inputs := []time.Time{
		time.Date(2025, 1, 17, 23, 59, 59, 0, seoul),
		time.Date(2024, 2, 29, 12, 0, 0, 0, seoul),
		time.Date(2025, 12, 31, 16, 30, 0, 0, time.UTC),
	}

	for _, ts := range inputs {
		key := DateKey(ts, seoul)
		midnight, err := ParseDateKey(key, seoul)
		if err != nil {
			t.Fatalf("ParseDateKey(%q): %v", key, err)
		}
		if again := DateKey(midnight, seoul); again != key {
			t.Errorf("DateKey not idempotent: %q -> %q", key, again)
		}
	}
}

func TestParseDateKeyInvalid(t *testing.T) {
	seoul := mustLoadSeoul(t)
	if _, err := ParseDateKey("not-a-date", seoul); err == nil {
		t.Error("expected error for malformed key")
	}
}

func TestDisplayDateTime(t *testing.T) {
	seoul := mustLoadSeoul(t)

	// 2025-01-17 is a Friday.
	date, clock := DisplayDateTime(time.Date(2025, 1, 17, 9, 5, 0, 0, seoul), seoul)
	if date != "01/17 (금)" {
		t.Errorf("date = %q, want %q", date, "01/17 (금)")
	}
	if clock != "09:05" {
		t.Errorf("clock = %q, want %q", clock, "09:05")
	}

	// UTC input is rendered in the configured zone.
	date, clock = DisplayDateTime(time.Date(2025, 1, 16, 22, 0, 0, 0, time.UTC), seoul)
	if date != "01/17 (금)" {
		t.Errorf("date = %q, want %q", date, "01/17 (금)")
	}
	if clock != "07:00" {
		t.Errorf("clock = %q, want %q", clock, "07:00")
	}
}
