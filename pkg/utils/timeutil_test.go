package utils

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-06-20", time.UTC)
	if err != nil {
		t.Fatalf("ParseDate error: %v", err)
	}
	if d.Year() != 2025 || d.Month() != time.June || d.Day() != 20 || d.Hour() != 0 {
		t.Errorf("ParseDate = %v, want 2025-06-20 00:00", d)
	}

	if _, err := ParseDate("20/06/2025", time.UTC); err == nil {
		t.Error("expected error for non ISO date")
	}
	if _, err := ParseDate("", time.UTC); err == nil {
		t.Error("expected error for empty date")
	}
}

func TestParseDateNilLocation(t *testing.T) {
	d, err := ParseDate("2025-01-02", nil)
	if err != nil {
		t.Fatalf("ParseDate error: %v", err)
	}
	if d.Location() != time.Local {
		t.Errorf("location = %v, want Local", d.Location())
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, 1, 5, 15, 30, 0, 0, time.UTC)
	if got := FormatDate(d); got != "2024-01-05" {
		t.Errorf("FormatDate = %q, want 2024-01-05", got)
	}
}

func TestWholeDaysBetween(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		to   time.Time
		want int
	}{
		{"same instant", base, 0},
		{"partial day", base.Add(23 * time.Hour), 0},
		{"exactly one day", base.Add(24 * time.Hour), 1},
		{"thirty days and change", base.AddDate(0, 0, 30).Add(time.Hour), 30},
		{"past by an hour", base.Add(-time.Hour), -1},
		{"past by two days", base.AddDate(0, 0, -2), -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WholeDaysBetween(base, tt.to); got != tt.want {
				t.Errorf("WholeDaysBetween = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUnixDate(t *testing.T) {
	// 2025-06-20 00:00:00 UTC
	if got := UnixDate(1750377600); got != "2025-06-20" {
		t.Errorf("UnixDate = %q, want 2025-06-20", got)
	}
}
