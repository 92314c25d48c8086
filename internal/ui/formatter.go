package ui

import (
	"fmt"
	"strings"

	"github.com/align-app/align/internal/parse"
	"github.com/align-app/align/internal/reminder"
	"github.com/align-app/align/internal/timefmt"
)

// Formatter renders reminders and parse previews for terminal output.
// With colors off every style collapses to plain text.
type Formatter struct {
	colored bool
}

func NewFormatter(colored bool) *Formatter {
	return &Formatter{colored: colored}
}

func (f *Formatter) render(style interface{ Render(...string) string }, s string) string {
	if !f.colored {
		return s
	}
	return style.Render(s)
}

// List renders reminders one per line with a status marker, short id,
// title, and the scheduled time.
func (f *Formatter) List(header string, reminders []*reminder.Reminder) string {
	var b strings.Builder

	b.WriteString(f.render(TitleStyle, header))
	b.WriteString("\n")

	if len(reminders) == 0 {
		b.WriteString(f.render(DimStyle, "  (none)"))
		b.WriteString("\n")
		return b.String()
	}

	for _, r := range reminders {
		b.WriteString(f.Line(r))
		b.WriteString("\n")
	}
	return b.String()
}

// Line renders a single reminder row.
func (f *Formatter) Line(r *reminder.Reminder) string {
	marker := f.render(ActiveStyle, "●")
	if !r.IsActive {
		marker = f.render(InactiveStyle, "○")
	}

	when := r.DisplayWhen()
	if r.Repeat.IsDaily() {
		when = f.render(DailyStyle, when)
	} else {
		when = f.render(DimStyle, when)
	}

	line := fmt.Sprintf("  %s %s  %s  %s", marker, f.render(DimStyle, ShortID(r.ID)), r.Title, when)
	if r.Description != "" {
		line += f.render(DimStyle, "  ("+r.Description+")")
	}
	return line
}

// Preview renders resolved schedule fields for the confirmation step
// before a text-created reminder is committed.
func (f *Formatter) Preview(fields parse.Fields, form reminder.FormData) string {
	var b strings.Builder

	b.WriteString(f.render(TitleStyle, "New reminder"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Title:  %s\n", form.Title))
	if form.Description != "" {
		b.WriteString(fmt.Sprintf("  Notes:  %s\n", form.Description))
	}

	when := fmt.Sprintf("%s at %s", form.Date, form.Clock)
	if at, err := form.ScheduledAt(); err == nil {
		when = timefmt.DateTime(at, form.RepeatDaily)
	}
	b.WriteString(fmt.Sprintf("  When:   %s\n", when))

	if fields.UsedFallback {
		b.WriteString(f.render(WarningStyle, "  Parsed without the model; double-check the schedule."))
		b.WriteString("\n")
	}
	return b.String()
}

// Error renders an error line.
func (f *Formatter) Error(err error) string {
	return f.render(ErrorStyle, fmt.Sprintf("Error: %v", err))
}

// Info renders an informational line.
func (f *Formatter) Info(msg string) string {
	return f.render(InfoStyle, msg)
}

// Success renders a confirmation line.
func (f *Formatter) Success(msg string) string {
	return f.render(SuccessStyle, msg)
}

// ShortID abbreviates a UUID for list display; full ids are still
// accepted everywhere an id is read.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
