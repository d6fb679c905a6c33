package timeutil

import (
	"testing"
	"time"
)

func TestParseUTCWithZone(t *testing.T) {
	got, err := ParseUTC("2025-01-01T10:00:00Z")
	if err != nil {
		t.Fatalf("ParseUTC: %v", err)
	}
	want := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseUTCWithoutZone(t *testing.T) {
	// Timezone-less backend stamps are documented UTC.
	got, err := ParseUTC("2025-01-01T10:00:00")
	if err != nil {
		t.Fatalf("ParseUTC: %v", err)
	}
	want := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseUTCOffset(t *testing.T) {
	got, err := ParseUTC("2025-01-01T12:00:00+02:00")
	if err != nil {
		t.Fatalf("ParseUTC: %v", err)
	}
	want := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseUTCRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "not-a-date", "10:00"} {
		if _, err := ParseUTC(raw); err == nil {
			t.Errorf("ParseUTC(%q): expected error", raw)
		}
	}
}

func TestCombineDateTime(t *testing.T) {
	got, err := CombineDateTime("2025-01-01", "14:30")
	if err != nil {
		t.Fatalf("CombineDateTime: %v", err)
	}
	want := time.Date(2025, 1, 1, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := CombineDateTime("2025-01-01", ""); err == nil {
		t.Error("expected error for missing time of day")
	}
}

func TestRemainingSeconds(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	if got := RemainingSeconds(now.Add(30*time.Minute), now); got != 1800 {
		t.Errorf("got %d, want 1800", got)
	}
	// Past deadlines floor at zero.
	if got := RemainingSeconds(now.Add(-time.Minute), now); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestElapsedSeconds(t *testing.T) {
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	if got := ElapsedSeconds(start, start.Add(90*time.Second)); got != 90 {
		t.Errorf("got %d, want 90", got)
	}
	if got := ElapsedSeconds(start, start.Add(-time.Second)); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestTo12Hour(t *testing.T) {
	cases := map[string]string{
		"00:15": "12:15 AM",
		"09:05": "9:05 AM",
		"12:00": "12:00 PM",
		"14:30": "2:30 PM",
		"23:59": "11:59 PM",
	}
	for in, want := range cases {
		got, err := To12Hour(in)
		if err != nil {
			t.Fatalf("To12Hour(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("To12Hour(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTo24Hour(t *testing.T) {
	cases := map[string]string{
		"12:15 AM": "00:15",
		"2:30 PM":  "14:30",
		"12:00 PM": "12:00",
	}
	for in, want := range cases {
		got, err := To24Hour(in)
		if err != nil {
			t.Fatalf("To24Hour(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("To24Hour(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatCountdown(t *testing.T) {
	cases := map[int]string{
		-5:   "00:00",
		0:    "00:00",
		59:   "00:59",
		1800: "30:00",
		3725: "1:02:05",
	}
	for in, want := range cases {
		if got := FormatCountdown(in); got != want {
			t.Errorf("FormatCountdown(%d) = %q, want %q", in, got, want)
		}
	}
}
