package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/align-app/align/internal/parse"
)

func TestFormDataScheduledAt(t *testing.T) {
	form := FormData{Title: "x", Date: "2026-01-14", Clock: "15:30"}

	at, err := form.ScheduledAt()
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 1, 14, 15, 30, 0, 0, time.Local), at)
}

func TestFormDataScheduledAtRejectsPartialInput(t *testing.T) {
	tests := []struct {
		name string
		form FormData
	}{
		{"missing date", FormData{Clock: "15:30"}},
		{"missing time", FormData{Date: "2026-01-14"}},
		{"garbage date", FormData{Date: "tomorrow", Clock: "15:30"}},
		{"garbage time", FormData{Date: "2026-01-14", Clock: "3pm"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.form.ScheduledAt()
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestFormFromFields(t *testing.T) {
	ref := time.Date(2026, 1, 13, 10, 0, 0, 0, time.Local)

	fields := parse.Fields{
		Title:  "Call doctor",
		Date:   "2026-01-14",
		Clock:  "15:00",
		Repeat: parse.RepeatDaily,
	}

	form := FormFromFields(fields, ref)
	require.Equal(t, "Call doctor", form.Title)
	require.Equal(t, "2026-01-14", form.Date)
	require.Equal(t, "15:00", form.Clock)
	require.True(t, form.RepeatDaily)
}

func TestFormFromFieldsResolvesRelative(t *testing.T) {
	ref := time.Date(2026, 1, 13, 10, 0, 0, 0, time.Local)

	fields := parse.Fields{
		Title:           "Take a break",
		IsRelative:      true,
		RelativeMinutes: 90,
	}

	form := FormFromFields(fields, ref)
	require.Equal(t, "2026-01-13", form.Date)
	require.Equal(t, "11:30", form.Clock)
	require.False(t, form.RepeatDaily)
}

func TestReminderDisplayWhen(t *testing.T) {
	at := time.Date(2026, 9, 3, 19, 0, 0, 0, time.Local)

	once := &Reminder{ScheduledTime: at, Repeat: RepeatNone}
	require.Equal(t, "03-Sep-2026 7:00 pm", once.DisplayWhen())

	daily := &Reminder{ScheduledTime: at, Repeat: RepeatDaily}
	require.Equal(t, "Daily at 7:00 pm", daily.DisplayWhen())
}
