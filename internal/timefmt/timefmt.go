// Package timefmt provides the human-readable date and time formats used
// across the reminder UI surfaces: "DD-Mon-YYYY" dates and 12-hour
// "h:mm am/pm" clock times.
package timefmt

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the calendar-date wire format ("YYYY-MM-DD").
	DateLayout = "2006-01-02"
	// ClockLayout is the time-of-day wire format, 24-hour ("HH:MM").
	ClockLayout = "15:04"
)

// Date formats t as "DD-Mon-YYYY", e.g. "03-Sep-2026".
func Date(t time.Time) string {
	return t.Format("02-Jan-2006")
}

// Clock formats t's time-of-day as "h:mm am/pm", e.g. "1:05 pm".
func Clock(t time.Time) string {
	hour := t.Hour()
	period := "am"
	if hour >= 12 {
		period = "pm"
	}
	h12 := hour % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, t.Minute(), period)
}

// DateTime renders a scheduled instant for display. Daily repeats show only
// the time-of-day since the date rolls forward every day.
func DateTime(t time.Time, daily bool) string {
	if daily {
		return "Daily at " + Clock(t)
	}
	return Date(t) + " " + Clock(t)
}

// ParseDate parses a "YYYY-MM-DD" calendar date at local midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// ParseClock parses a 24-hour "HH:MM" string into hour and minute.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}
