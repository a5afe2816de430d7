package biztime

import (
	"testing"
	"time"
)

func TestStartOfDayUTC(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			"midday UTC",
			time.Date(2026, 9, 1, 12, 30, 45, 123, time.UTC),
			time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"already midnight",
			time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"non-UTC zone normalizes",
			time.Date(2026, 9, 1, 1, 0, 0, 0, time.FixedZone("plus3", 3*3600)),
			time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StartOfDayUTC(tt.in); !got.Equal(tt.want) {
				t.Errorf("StartOfDayUTC(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestEndOfDayUTC(t *testing.T) {
	in := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	got := EndOfDayUTC(in)
	if got.Day() != 1 || got.Hour() != 23 || got.Minute() != 59 {
		t.Errorf("EndOfDayUTC(%v) = %v, want last instant of the same day", in, got)
	}
	if !got.Before(time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("EndOfDayUTC(%v) = %v crossed into the next day", in, got)
	}
}

func TestAddDays(t *testing.T) {
	start := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	if got := AddDays(start, 365); !got.Equal(time.Date(2027, 9, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("AddDays(+365) = %v", got)
	}
	if got := AddDays(start, -1); !got.Equal(time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("AddDays(-1) = %v", got)
	}
}

func TestFormatAndParseDate(t *testing.T) {
	in := time.Date(2026, 9, 1, 18, 45, 0, 0, time.UTC)
	s := FormatDate(in)
	if s != "2026-09-01" {
		t.Fatalf("FormatDate() = %q", s)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q) error = %v", s, err)
	}
	if !parsed.Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseDate(%q) = %v, want midnight UTC", s, parsed)
	}
}

func TestNowUTC(t *testing.T) {
	if NowUTC().Location() != time.UTC {
		t.Error("NowUTC() must return a UTC time")
	}
}
