package parse

import (
	"strings"
	"testing"
	"time"
)

func TestFallback(t *testing.T) {
	// Fixed reference time: Tuesday, January 13, 2026 at 10:00am
	ref := time.Date(2026, 1, 13, 10, 0, 0, 0, time.Local)

	tests := []struct {
		name        string
		input       string
		wantTitle   string
		wantDate    string
		wantClock   string
		wantRepeat  string
		wantRelMins int
		wantRel     bool
	}{
		{
			name:      "time with minutes and meridiem",
			input:     "Call mom at 3:30 PM",
			wantTitle: "Call mom",
			wantClock: "15:30",
		},
		{
			name:      "hour with meridiem",
			input:     "Call mom at 3 PM",
			wantTitle: "Call mom",
			wantClock: "15:00",
		},
		{
			name:      "twelve am normalizes to midnight",
			input:     "backup at 12 AM",
			wantTitle: "Backup",
			wantClock: "00:00",
		},
		{
			name:      "twelve pm stays noon",
			input:     "lunch at 12 PM",
			wantTitle: "Lunch",
			wantClock: "12:00",
		},
		{
			name:      "24-hour clock after at",
			input:     "standup at 14:45",
			wantTitle: "Standup",
			wantClock: "14:45",
		},
		{
			name:      "today keyword",
			input:     "submit report today at 5pm",
			wantTitle: "Submit report",
			wantDate:  "2026-01-13",
			wantClock: "17:00",
		},
		{
			name:      "tomorrow keyword",
			input:     "Call doctor tomorrow at 9am",
			wantTitle: "Call doctor",
			wantDate:  "2026-01-14",
			wantClock: "09:00",
		},
		{
			name:      "slash date",
			input:     "dentist on 03/05/2026 at 2pm",
			wantTitle: "Dentist",
			wantDate:  "2026-03-05",
			wantClock: "14:00",
		},
		{
			name:      "iso date",
			input:     "renew passport 2026-02-01",
			wantTitle: "Renew passport",
			wantDate:  "2026-02-01",
		},
		{
			name:        "relative minutes",
			input:       "take a break in 30 minutes",
			wantTitle:   "Take a break",
			wantRel:     true,
			wantRelMins: 30,
		},
		{
			name:        "relative hours convert to minutes",
			input:       "check oven in 2 hours",
			wantTitle:   "Check oven",
			wantRel:     true,
			wantRelMins: 120,
		},
		{
			name:       "daily phrase",
			input:      "Exercise every day at 7 AM",
			wantTitle:  "Exercise every day",
			wantClock:  "07:00",
			wantRepeat: RepeatDaily,
		},
		{
			name:       "every morning",
			input:      "meditate every morning at 6:15am",
			wantTitle:  "Meditate every morning",
			wantClock:  "06:15",
			wantRepeat: RepeatDaily,
		},
		{
			name:      "empty input gets default title",
			input:     "",
			wantTitle: "Reminder",
		},
		{
			name:      "only schedule words gets default title",
			input:     "at 3pm",
			wantTitle: "Reminder",
			wantClock: "15:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fallback(tt.input, ref)

			if !got.UsedFallback {
				t.Error("UsedFallback = false, want true")
			}
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
			if got.Date != tt.wantDate {
				t.Errorf("Date = %q, want %q", got.Date, tt.wantDate)
			}
			if got.Clock != tt.wantClock {
				t.Errorf("Clock = %q, want %q", got.Clock, tt.wantClock)
			}
			wantRepeat := tt.wantRepeat
			if wantRepeat == "" {
				wantRepeat = RepeatNone
			}
			if got.Repeat != wantRepeat {
				t.Errorf("Repeat = %q, want %q", got.Repeat, wantRepeat)
			}
			if got.IsRelative != tt.wantRel {
				t.Errorf("IsRelative = %v, want %v", got.IsRelative, tt.wantRel)
			}
			if got.RelativeMinutes != tt.wantRelMins {
				t.Errorf("RelativeMinutes = %d, want %d", got.RelativeMinutes, tt.wantRelMins)
			}
		})
	}
}

func TestFallbackTotality(t *testing.T) {
	ref := time.Date(2026, 1, 13, 10, 0, 0, 0, time.Local)

	inputs := []string{
		"",
		" ",
		"...",
		",,,",
		"at at at",
		"in in in",
		"99:99",
		"at 99:99pm",
		"13/45/0000",
		"0000-00-00",
		"in -5 minutes",
		"in 999999999 hours",
		"tomorrow tomorrow tomorrow",
		"every day every day",
		"\t\n\r",
		"🎉🎉🎉",
		"日本語のテキスト",
		strings.Repeat("a", 10000),
		strings.Repeat("at 3pm ", 500),
		"NULL",
		"undefined",
		"{\"title\": \"injection\"}",
		"<script>alert(1)</script>",
		"-- drop table reminders",
		"at",
		"pm",
		"am pm am pm",
		"3pm 4pm 5pm 6pm",
		"12:60 am",
		"00:00",
		"24:00",
		"at 0:00",
		"tomorrow at",
		"today today",
		"every",
		"everyday",
		"each",
		"in 0 minutes",
		"in 1 minute",
		"in one hour",
		"in minutes",
		"12/31/9999",
		"1/1/1970 at 12am",
		"9999-12-31 at 11:59 pm",
		"2026-1-1",
		"call mom!!!",
		"CALL MOM AT 3PM",
		"   leading and trailing   ",
		"a",
		".",
		"-",
		"at3pm",
		"meeting @ 3pm",
		"remind me to remind myself to set a reminder",
		"in 30 minutes in 2 hours",
		"tomorrow 03/05/2026 2026-02-01",
		"every night at 12 am",
		"o'clock",
		"half past three",
		"noon",
		"midnight",
		"next tuesday at 3pm",
	}

	if len(inputs) < 50 {
		t.Fatalf("totality corpus has %d inputs, want at least 50", len(inputs))
	}

	for _, in := range inputs {
		got := Fallback(in, ref)
		if got.Title == "" {
			t.Errorf("Fallback(%.30q) returned empty title", in)
		}
		if !got.UsedFallback {
			t.Errorf("Fallback(%.30q) did not set UsedFallback", in)
		}
	}
}

func TestFallbackFirstTimePatternWins(t *testing.T) {
	ref := time.Date(2026, 1, 13, 10, 0, 0, 0, time.Local)

	// Two time expressions: only the first matching pattern is consumed.
	got := Fallback("call at 3:30 pm or 5 pm", ref)
	if got.Clock != "15:30" {
		t.Errorf("Clock = %q, want %q", got.Clock, "15:30")
	}
}
