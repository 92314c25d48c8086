package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/align-app/align/internal/notify"
	"github.com/align-app/align/internal/reminder"
	"github.com/align-app/align/pkg/logger"
)

type fakeNotifier struct {
	granted     bool
	permissions int
	armedAt     []time.Time
	armed       []notify.Content
	cancelled   []string
	events      chan notify.Event
}

func newFakeNotifier(granted bool) *fakeNotifier {
	return &fakeNotifier{granted: granted, events: make(chan notify.Event, 1)}
}

func (f *fakeNotifier) RequestPermission(_ context.Context) (bool, error) {
	f.permissions++
	return f.granted, nil
}

func (f *fakeNotifier) Arm(_ context.Context, content notify.Content, at time.Time) (string, error) {
	f.armed = append(f.armed, content)
	f.armedAt = append(f.armedAt, at)
	return "handle-1", nil
}

func (f *fakeNotifier) Cancel(_ context.Context, handle string) error {
	f.cancelled = append(f.cancelled, handle)
	return nil
}

func (f *fakeNotifier) Events() <-chan notify.Event { return f.events }

func newTestScheduler(n notify.Notifier, ref time.Time) *Scheduler {
	return New(n, logger.Discard()).WithClock(func() time.Time { return ref })
}

func TestArmOnce(t *testing.T) {
	ref := time.Date(2026, 1, 13, 10, 0, 0, 0, time.Local)
	n := newFakeNotifier(true)
	s := newTestScheduler(n, ref)

	r := &reminder.Reminder{
		ID:            "r1",
		Title:         "Call mom",
		ScheduledTime: time.Date(2026, 1, 13, 15, 0, 30, 0, time.Local),
		Repeat:        reminder.RepeatNone,
	}

	handle, err := s.Arm(context.Background(), r)
	if err != nil {
		t.Fatalf("Arm() error = %v", err)
	}
	if handle == "" {
		t.Error("Arm() returned empty handle")
	}

	want := time.Date(2026, 1, 13, 15, 0, 0, 0, time.Local)
	if !n.armedAt[0].Equal(want) {
		t.Errorf("armed at %v, want %v (seconds truncated)", n.armedAt[0], want)
	}

	content := n.armed[0]
	if content.Title != "Reminder: Call mom" {
		t.Errorf("content title = %q", content.Title)
	}
	if content.Body != "Time for your reminder!" {
		t.Errorf("content body = %q", content.Body)
	}
	if content.Data.ReminderID != "r1" || content.Data.IsDaily {
		t.Errorf("content payload = %+v", content.Data)
	}
}

func TestArmOncePastFailsBeforeNotifier(t *testing.T) {
	ref := time.Date(2026, 1, 13, 10, 0, 0, 0, time.Local)
	n := newFakeNotifier(true)
	s := newTestScheduler(n, ref)

	r := &reminder.Reminder{
		ID:            "r1",
		Title:         "Too late",
		ScheduledTime: ref.Add(-time.Hour),
		Repeat:        reminder.RepeatNone,
	}

	_, err := s.Arm(context.Background(), r)
	if !errors.Is(err, reminder.ErrScheduleInPast) {
		t.Fatalf("Arm() error = %v, want ErrScheduleInPast", err)
	}

	if n.permissions != 0 || len(n.armed) != 0 {
		t.Error("notification boundary touched for a past one-shot reminder")
	}
}

func TestArmPermissionDenied(t *testing.T) {
	ref := time.Date(2026, 1, 13, 10, 0, 0, 0, time.Local)
	n := newFakeNotifier(false)
	s := newTestScheduler(n, ref)

	r := &reminder.Reminder{
		ID:            "r1",
		Title:         "Call mom",
		ScheduledTime: ref.Add(time.Hour),
		Repeat:        reminder.RepeatNone,
	}

	_, err := s.Arm(context.Background(), r)
	if !errors.Is(err, reminder.ErrPermissionDenied) {
		t.Fatalf("Arm() error = %v, want ErrPermissionDenied", err)
	}
	if len(n.armed) != 0 {
		t.Error("trigger armed despite denied permission")
	}
}

func TestArmDaily(t *testing.T) {
	// 10:00am reference.
	ref := time.Date(2026, 1, 13, 10, 0, 0, 0, time.Local)

	tests := []struct {
		name      string
		scheduled time.Time
		want      time.Time
	}{
		{
			name:      "time still ahead today",
			scheduled: time.Date(2026, 1, 1, 15, 30, 0, 0, time.Local),
			want:      time.Date(2026, 1, 13, 15, 30, 0, 0, time.Local),
		},
		{
			name:      "time already passed today",
			scheduled: time.Date(2026, 1, 1, 7, 0, 0, 0, time.Local),
			want:      time.Date(2026, 1, 14, 7, 0, 0, 0, time.Local),
		},
		{
			name:      "scheduled long in the past is still legal",
			scheduled: time.Date(2020, 6, 1, 8, 0, 0, 0, time.Local),
			want:      time.Date(2026, 1, 14, 8, 0, 0, 0, time.Local),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := newFakeNotifier(true)
			s := newTestScheduler(n, ref)

			r := &reminder.Reminder{
				ID:            "r1",
				Title:         "Exercise",
				ScheduledTime: tt.scheduled,
				Repeat:        reminder.RepeatDaily,
			}

			if _, err := s.Arm(context.Background(), r); err != nil {
				t.Fatalf("Arm() error = %v", err)
			}
			if !n.armedAt[0].Equal(tt.want) {
				t.Errorf("armed at %v, want %v", n.armedAt[0], tt.want)
			}
			if !n.armed[0].Data.IsDaily {
				t.Error("daily payload flag not set")
			}
		})
	}
}

func TestCancelEmptyHandle(t *testing.T) {
	n := newFakeNotifier(true)
	s := newTestScheduler(n, time.Now())

	if err := s.Cancel(context.Background(), ""); err != nil {
		t.Fatalf("Cancel(\"\") error = %v", err)
	}
	if len(n.cancelled) != 0 {
		t.Error("Cancel(\"\") reached the notifier")
	}
}

func TestRescheduleDaily(t *testing.T) {
	ref := time.Date(2026, 1, 13, 7, 0, 5, 0, time.Local)
	n := newFakeNotifier(true)
	s := newTestScheduler(n, ref)

	r := &reminder.Reminder{
		ID:             "r1",
		Title:          "Exercise",
		ScheduledTime:  time.Date(2026, 1, 13, 7, 0, 0, 0, time.Local),
		Repeat:         reminder.RepeatDaily,
		NotificationID: "old-handle",
	}

	handle, err := s.RescheduleDaily(context.Background(), r)
	if err != nil {
		t.Fatalf("RescheduleDaily() error = %v", err)
	}
	if handle == "" {
		t.Error("RescheduleDaily() returned empty handle")
	}

	if len(n.cancelled) != 1 || n.cancelled[0] != "old-handle" {
		t.Errorf("cancelled = %v, want [old-handle]", n.cancelled)
	}

	want := time.Date(2026, 1, 14, 7, 0, 0, 0, time.Local)
	if !n.armedAt[0].Equal(want) {
		t.Errorf("re-armed at %v, want %v", n.armedAt[0], want)
	}
}
