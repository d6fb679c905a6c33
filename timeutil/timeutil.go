// Package timeutil holds the pure time helpers shared by the session
// store and the UI-facing formatting layer.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// ParseUTC parses a backend timestamp. The ShurYan API sometimes emits
// session timestamps without a timezone suffix; those are documented to
// be UTC, so they are parsed with an explicit UTC assumption instead of
// string-patching a "Z" onto the raw value.
func ParseUTC(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	// No timezone indicator: interpret as UTC.
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}

// CombineDateTime joins an appointment date ("2006-01-02") with a
// time-of-day ("15:04" or "15:04:05") into a single UTC timestamp.
func CombineDateTime(date, timeOfDay string) (time.Time, error) {
	date = strings.TrimSpace(date)
	timeOfDay = strings.TrimSpace(timeOfDay)
	if date == "" || timeOfDay == "" {
		return time.Time{}, fmt.Errorf("missing date or time of day")
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, date+" "+timeOfDay, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date/time %q %q", date, timeOfDay)
}

// RemainingSeconds returns the whole seconds left until end, floored
// at zero.
func RemainingSeconds(end, now time.Time) int {
	secs := int(end.Sub(now) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}

// ElapsedSeconds returns the whole seconds since start, floored at
// zero.
func ElapsedSeconds(start, now time.Time) int {
	secs := int(now.Sub(start) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}

// To12Hour converts a 24h clock string ("14:30") to its 12h form
// ("2:30 PM"). Seconds are accepted and dropped.
func To12Hour(clock string) (string, error) {
	t, err := parseClock(clock)
	if err != nil {
		return "", err
	}
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	meridiem := "AM"
	if t.Hour() >= 12 {
		meridiem = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", hour, t.Minute(), meridiem), nil
}

// To24Hour converts a 12h clock string ("2:30 PM") back to 24h form
// ("14:30").
func To24Hour(clock string) (string, error) {
	clock = strings.TrimSpace(clock)
	for _, layout := range []string{"3:04 PM", "03:04 PM", "3:04PM"} {
		if t, err := time.Parse(layout, strings.ToUpper(clock)); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", fmt.Errorf("unrecognized 12h clock %q", clock)
}

func parseClock(clock string) (time.Time, error) {
	clock = strings.TrimSpace(clock)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, clock); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized 24h clock %q", clock)
}

// FormatCountdown renders remaining seconds as MM:SS (or H:MM:SS past
// the hour) for the session header.
func FormatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
