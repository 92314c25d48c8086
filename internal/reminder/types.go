package reminder

import (
	"fmt"
	"strings"
	"time"

	"github.com/align-app/align/internal/parse"
	"github.com/align-app/align/internal/timefmt"
)

// Repeat tells how a reminder recurs. Only none and daily are supported;
// trigger policy per variant lives in the schedule package so new variants
// touch one place.
type Repeat string

const (
	RepeatNone  Repeat = "none"
	RepeatDaily Repeat = "daily"
)

// Valid reports whether r is a known repeat mode.
func (r Repeat) Valid() bool {
	return r == RepeatNone || r == RepeatDaily
}

// IsDaily reports whether r repeats every day.
func (r Repeat) IsDaily() bool {
	return r == RepeatDaily
}

// Reminder is the central entity. ScheduledTime is second-truncated; for a
// daily repeat it holds the next occurrence rather than the creation-time
// pick. NotificationID is the handle of the currently armed trigger, empty
// when none is armed.
type Reminder struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	ScheduledTime  time.Time `json:"scheduled_time"`
	IsActive       bool      `json:"is_active"`
	Repeat         Repeat    `json:"repeat"`
	NotificationID string    `json:"notification_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DisplayWhen renders the scheduled instant for list output.
func (r *Reminder) DisplayWhen() string {
	return timefmt.DateTime(r.ScheduledTime, r.Repeat.IsDaily())
}

// FormData is what the UI collaborator submits on create and edit, either
// hand-filled or pre-filled from parsed text.
type FormData struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"` // YYYY-MM-DD
	Clock       string `json:"time"` // HH:MM, 24-hour
	RepeatDaily bool   `json:"repeat_daily"`
}

// ScheduledAt composes the form's date and time into an absolute local
// instant with seconds zeroed. Both fields are required on the form path.
func (f FormData) ScheduledAt() (time.Time, error) {
	if strings.TrimSpace(f.Date) == "" || strings.TrimSpace(f.Clock) == "" {
		return time.Time{}, fmt.Errorf("%w: date and time are required", ErrValidation)
	}

	day, err := timefmt.ParseDate(f.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	hour, minute, err := timefmt.ParseClock(f.Clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), nil
}

// Repeat returns the form's repeat mode.
func (f FormData) Repeat() Repeat {
	if f.RepeatDaily {
		return RepeatDaily
	}
	return RepeatNone
}

// FormFromFields pre-fills form data from parsed schedule fields, resolving
// relative offsets and missing dates into the concrete next occurrence.
func FormFromFields(f parse.Fields, now time.Time) FormData {
	at := parse.ScheduledInstant(f, now)
	return FormData{
		Title:       f.Title,
		Description: f.Description,
		Date:        at.Format(timefmt.DateLayout),
		Clock:       at.Format(timefmt.ClockLayout),
		RepeatDaily: f.Repeat == parse.RepeatDaily,
	}
}
