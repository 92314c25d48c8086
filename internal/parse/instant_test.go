package parse

import (
	"testing"
	"time"
)

func TestScheduledInstant(t *testing.T) {
	// Fixed reference time: Tuesday, January 13, 2026 at 10:00am
	ref := time.Date(2026, 1, 13, 10, 0, 0, 0, time.Local)

	tests := []struct {
		name   string
		fields Fields
		want   time.Time
	}{
		{
			name:   "relative zero minutes is now",
			fields: Fields{IsRelative: true, RelativeMinutes: 0},
			want:   ref,
		},
		{
			name:   "relative one minute",
			fields: Fields{IsRelative: true, RelativeMinutes: 1},
			want:   ref.Add(1 * time.Minute),
		},
		{
			name:   "relative thirty minutes",
			fields: Fields{IsRelative: true, RelativeMinutes: 30},
			want:   ref.Add(30 * time.Minute),
		},
		{
			name:   "relative two hours",
			fields: Fields{IsRelative: true, RelativeMinutes: 120},
			want:   ref.Add(2 * time.Hour),
		},
		{
			name:   "date and clock in the future",
			fields: Fields{Date: "2026-01-14", Clock: "09:00"},
			want:   time.Date(2026, 1, 14, 9, 0, 0, 0, time.Local),
		},
		{
			name:   "clock later today",
			fields: Fields{Clock: "15:00"},
			want:   time.Date(2026, 1, 13, 15, 0, 0, 0, time.Local),
		},
		{
			name:   "clock already passed rolls to tomorrow",
			fields: Fields{Clock: "09:00"},
			want:   time.Date(2026, 1, 14, 9, 0, 0, 0, time.Local),
		},
		{
			name:   "today date with past clock rolls to tomorrow",
			fields: Fields{Date: "2026-01-13", Clock: "08:00"},
			want:   time.Date(2026, 1, 14, 8, 0, 0, 0, time.Local),
		},
		{
			name:   "no date or clock defaults to top of next hour",
			fields: Fields{},
			want:   time.Date(2026, 1, 13, 11, 0, 0, 0, time.Local),
		},
		{
			name:   "unparseable date falls back to today then rolls forward",
			fields: Fields{Date: "not-a-date", Clock: "08:00"},
			want:   time.Date(2026, 1, 14, 8, 0, 0, 0, time.Local),
		},
		{
			name:   "relative ignores date and clock",
			fields: Fields{IsRelative: true, RelativeMinutes: 5, Date: "2030-01-01", Clock: "23:59"},
			want:   ref.Add(5 * time.Minute),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScheduledInstant(tt.fields, ref)
			if !got.Equal(tt.want) {
				t.Errorf("ScheduledInstant() = %v, want %v", got, tt.want)
			}

			// Pure: a second call with identical inputs matches the first.
			again := ScheduledInstant(tt.fields, ref)
			if !again.Equal(got) {
				t.Errorf("ScheduledInstant() not deterministic: %v then %v", got, again)
			}
		})
	}
}

func TestScheduledInstantNearMidnight(t *testing.T) {
	// 23:30: the "top of next hour" default crosses into the next day.
	ref := time.Date(2026, 1, 13, 23, 30, 0, 0, time.Local)

	got := ScheduledInstant(Fields{}, ref)
	want := time.Date(2026, 1, 14, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("ScheduledInstant() = %v, want %v", got, want)
	}
}
