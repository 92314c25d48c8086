package parse

import (
	"time"

	"github.com/align-app/align/internal/timefmt"
)

// ScheduledInstant converts parsed fields into the absolute instant the
// reminder should fire, anchored at now. It is pure: identical inputs yield
// identical outputs.
//
// Relative offsets win outright. Otherwise the instant is assembled from the
// explicit date (or today), the explicit time (or the top of the next hour),
// and finally pushed one calendar day forward when it still lands in the
// past. Repeat mode is not consulted here; daily handling belongs to the
// trigger scheduler.
func ScheduledInstant(f Fields, now time.Time) time.Time {
	if f.IsRelative {
		return now.Add(time.Duration(f.RelativeMinutes) * time.Minute)
	}

	target := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	haveDate := false

	if f.Date != "" {
		if day, err := timefmt.ParseDate(f.Date); err == nil {
			target = day
			haveDate = true
		}
	}

	if f.Clock != "" {
		if hour, minute, err := timefmt.ParseClock(f.Clock); err == nil {
			target = time.Date(target.Year(), target.Month(), target.Day(),
				hour, minute, 0, 0, target.Location())
		}
	} else if !haveDate {
		// No date and no time: default to the top of the next hour.
		target = time.Date(now.Year(), now.Month(), now.Day(),
			now.Hour()+1, 0, 0, 0, now.Location())
	}

	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}

	return target
}
