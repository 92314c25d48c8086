// Package schedule decides when reminder triggers fire and arms them through
// the notification boundary. Daily repeats are implemented by re-arming a
// one-shot trigger after each fire rather than by a recurring native
// trigger, keeping reschedule logic centralized and host-agnostic.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/align-app/align/internal/notify"
	"github.com/align-app/align/internal/reminder"
)

// Scheduler arms, cancels, and rolls over reminder triggers.
type Scheduler struct {
	notifier notify.Notifier
	log      *logrus.Logger
	now      func() time.Time
}

// New creates a Scheduler on top of the notification boundary.
func New(notifier notify.Notifier, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// WithClock overrides the scheduler's clock. Intended for tests.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// Arm computes the trigger instant for the reminder's repeat mode and arms a
// one-shot trigger. One-shot reminders with a past instant fail with
// ErrScheduleInPast before the notification boundary is touched. Permission
// denial returns ErrPermissionDenied.
func (s *Scheduler) Arm(ctx context.Context, r *reminder.Reminder) (string, error) {
	at, err := policyFor(r.Repeat).nextTrigger(r.ScheduledTime, s.now())
	if err != nil {
		return "", err
	}

	granted, err := s.notifier.RequestPermission(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to request notification permission: %w", err)
	}
	if !granted {
		return "", reminder.ErrPermissionDenied
	}

	handle, err := s.notifier.Arm(ctx, contentFor(r), at)
	if err != nil {
		return "", fmt.Errorf("failed to arm trigger: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"reminder_id": r.ID,
		"at":          at,
		"repeat":      r.Repeat,
	}).Debug("Trigger armed")

	return handle, nil
}

// Cancel disarms a trigger. Idempotent: unknown or already-fired handles are
// no-ops.
func (s *Scheduler) Cancel(ctx context.Context, handle string) error {
	if handle == "" {
		return nil
	}
	return s.notifier.Cancel(ctx, handle)
}

// RescheduleDaily cancels the reminder's current handle and arms tomorrow at
// the same hour:minute as the original scheduled time. It always advances by
// exactly one day regardless of wall-clock drift since the fire.
func (s *Scheduler) RescheduleDaily(ctx context.Context, r *reminder.Reminder) (string, error) {
	if err := s.Cancel(ctx, r.NotificationID); err != nil {
		return "", err
	}

	now := s.now()
	at := time.Date(now.Year(), now.Month(), now.Day(),
		r.ScheduledTime.Hour(), r.ScheduledTime.Minute(), 0, 0, now.Location()).AddDate(0, 0, 1)

	handle, err := s.notifier.Arm(ctx, contentFor(r), at)
	if err != nil {
		return "", fmt.Errorf("failed to re-arm daily trigger: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"reminder_id": r.ID,
		"at":          at,
	}).Debug("Daily trigger rolled over")

	return handle, nil
}

func contentFor(r *reminder.Reminder) notify.Content {
	body := r.Description
	if body == "" {
		body = "Time for your reminder!"
	}
	return notify.Content{
		Title: "Reminder: " + r.Title,
		Body:  body,
		Data: notify.Payload{
			ReminderID: r.ID,
			IsDaily:    r.Repeat.IsDaily(),
		},
	}
}
