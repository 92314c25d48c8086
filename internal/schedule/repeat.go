package schedule

import (
	"time"

	"github.com/align-app/align/internal/reminder"
)

// policy computes the concrete trigger instant for one repeat variant. All
// repeat-mode branching lives here: adding a weekly variant means adding one
// policy, not touching every call site.
type policy interface {
	// nextTrigger maps the reminder's scheduled instant to the instant the
	// trigger should actually be armed for.
	nextTrigger(scheduled, now time.Time) (time.Time, error)
}

func policyFor(r reminder.Repeat) policy {
	if r.IsDaily() {
		return dailyPolicy{}
	}
	return oncePolicy{}
}

// oncePolicy arms exactly at the scheduled instant, truncated to the whole
// minute, and refuses instants that already passed.
type oncePolicy struct{}

func (oncePolicy) nextTrigger(scheduled, now time.Time) (time.Time, error) {
	at := scheduled.Truncate(time.Minute)
	if !at.After(now) {
		return time.Time{}, reminder.ErrScheduleInPast
	}
	return at, nil
}

// dailyPolicy arms for the next occurrence of the scheduled hour:minute —
// today if that wall-clock time is still ahead, otherwise tomorrow. A past
// scheduled instant is legal here.
type dailyPolicy struct{}

func (dailyPolicy) nextTrigger(scheduled, now time.Time) (time.Time, error) {
	at := time.Date(now.Year(), now.Month(), now.Day(),
		scheduled.Hour(), scheduled.Minute(), 0, 0, now.Location())
	if !at.After(now) {
		at = at.AddDate(0, 0, 1)
	}
	return at, nil
}
