package reminder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/align-app/align/internal/parse"
)

// TriggerScheduler arms and cancels device triggers for reminders. The
// schedule package provides the real implementation; tests inject fakes.
type TriggerScheduler interface {
	Arm(ctx context.Context, r *Reminder) (string, error)
	Cancel(ctx context.Context, handle string) error
	RescheduleDaily(ctx context.Context, r *Reminder) (string, error)
}

// Resolver turns free text into schedule fields. Never fails; provenance is
// carried in the UsedFallback flag.
type Resolver interface {
	Resolve(ctx context.Context, text string) parse.Fields
}

// Service owns the reminder lifecycle: activation rules, daily rollover,
// and foreground reconciliation. All mutations of a reminder go through
// here, serialized per reminder id, so a concurrent fire event and user
// edit cannot interleave into an inconsistent row.
type Service struct {
	store     *Store
	scheduler TriggerScheduler
	resolver  Resolver
	log       *logrus.Logger
	now       func() time.Time
	locks     idLocks
}

// NewService wires the lifecycle service.
func NewService(store *Store, scheduler TriggerScheduler, resolver Resolver, log *logrus.Logger) *Service {
	return &Service{
		store:     store,
		scheduler: scheduler,
		resolver:  resolver,
		log:       log,
		now:       time.Now,
	}
}

// WithClock overrides the service clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateFromText resolves free text into schedule fields for the UI's
// confirmation step. When UsedFallback is set the UI should offer manual
// entry or a retry instead of silently trusting the result.
func (s *Service) CreateFromText(ctx context.Context, text string) (parse.Fields, error) {
	if strings.TrimSpace(text) == "" {
		return parse.Fields{}, fmt.Errorf("%w: reminder text must not be empty", ErrValidation)
	}
	return s.resolver.Resolve(ctx, text), nil
}

// ConfirmText runs the whole text path in one step: resolve, build the
// form, create. Interactive surfaces resolve and confirm separately; this
// exists for callers without a confirmation round-trip.
func (s *Service) ConfirmText(ctx context.Context, text string) (*Reminder, parse.Fields, error) {
	fields, err := s.CreateFromText(ctx, text)
	if err != nil {
		return nil, parse.Fields{}, err
	}

	r, err := s.CreateFromForm(ctx, FormFromFields(fields, s.now()))
	if err != nil {
		return nil, fields, err
	}
	return r, fields, nil
}

// CreateFromForm validates the form, arms a trigger, and persists the new
// reminder. A one-shot reminder scheduled in the past is rejected; a denied
// notification permission aborts the create with nothing persisted.
func (s *Service) CreateFromForm(ctx context.Context, form FormData) (*Reminder, error) {
	if strings.TrimSpace(form.Title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", ErrValidation)
	}

	at, err := form.ScheduledAt()
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !form.RepeatDaily && !at.After(now) {
		return nil, ErrScheduleInPast
	}

	r := &Reminder{
		ID:            uuid.NewString(),
		Title:         strings.TrimSpace(form.Title),
		Description:   strings.TrimSpace(form.Description),
		ScheduledTime: at,
		IsActive:      true,
		Repeat:        form.Repeat(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	handle, err := s.scheduler.Arm(ctx, r)
	if err != nil {
		return nil, err
	}
	r.NotificationID = handle

	if err := s.store.Create(ctx, r); err != nil {
		// Roll the trigger back so no orphan fires without a backing row.
		if cancelErr := s.scheduler.Cancel(ctx, handle); cancelErr != nil {
			s.log.WithError(cancelErr).Error("Failed to roll back trigger after persist failure")
		}
		return nil, errors.Join(ErrPersistence, err)
	}

	s.log.WithFields(logrus.Fields{
		"reminder_id": r.ID,
		"at":          r.ScheduledTime,
		"repeat":      r.Repeat,
	}).Info("Reminder created")

	return r, nil
}

// Toggle activates or deactivates a reminder. Activating a one-shot
// reminder whose time already passed is rejected; the user must edit it
// first. Deactivating cancels the armed trigger but preserves the repeat
// mode for a later re-activation.
func (s *Service) Toggle(ctx context.Context, id string, on bool) (*Reminder, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	r, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()

	if on {
		if r.Repeat == RepeatNone && !r.ScheduledTime.After(now) {
			return nil, ErrScheduleInPast
		}

		handle, err := s.scheduler.Arm(ctx, r)
		if err != nil {
			return nil, err
		}

		r.IsActive = true
		r.NotificationID = handle
		r.UpdatedAt = now

		if err := s.store.Update(ctx, r); err != nil {
			if cancelErr := s.scheduler.Cancel(ctx, handle); cancelErr != nil {
				s.log.WithError(cancelErr).Error("Failed to roll back trigger after persist failure")
			}
			return nil, errors.Join(ErrPersistence, err)
		}
		return r, nil
	}

	if err := s.scheduler.Cancel(ctx, r.NotificationID); err != nil {
		return nil, err
	}

	r.IsActive = false
	r.NotificationID = ""
	r.UpdatedAt = now

	if err := s.store.Update(ctx, r); err != nil {
		return nil, errors.Join(ErrPersistence, err)
	}
	return r, nil
}

// Edit rewrites a reminder's fields. Unlike create, an edit always commits:
// moving an active one-shot reminder into the past auto-deactivates it
// instead of rejecting. When re-arming fails, the schedule fields revert
// and the reminder deactivates, but the other edits still commit; the
// arming error is surfaced alongside the updated entity.
func (s *Service) Edit(ctx context.Context, id string, form FormData) (*Reminder, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	r, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(form.Title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", ErrValidation)
	}

	at, err := form.ScheduledAt()
	if err != nil {
		return nil, err
	}

	// The old trigger no longer matches the edited schedule in any case.
	if err := s.scheduler.Cancel(ctx, r.NotificationID); err != nil {
		return nil, err
	}

	now := s.now()
	prevTime, prevRepeat := r.ScheduledTime, r.Repeat

	r.Title = strings.TrimSpace(form.Title)
	r.Description = strings.TrimSpace(form.Description)
	r.ScheduledTime = at
	r.Repeat = form.Repeat()
	r.NotificationID = ""
	r.UpdatedAt = now

	if r.Repeat == RepeatNone && !at.After(now) && r.IsActive {
		r.IsActive = false
	}

	var armErr error
	if r.IsActive {
		handle, err := s.scheduler.Arm(ctx, r)
		if err != nil {
			// Keep the non-schedule edits; the schedule change could not
			// take effect and its old trigger is already gone.
			r.ScheduledTime = prevTime
			r.Repeat = prevRepeat
			r.IsActive = false
			armErr = err
		} else {
			r.NotificationID = handle
		}
	}

	if err := s.store.Update(ctx, r); err != nil {
		if r.NotificationID != "" {
			if cancelErr := s.scheduler.Cancel(ctx, r.NotificationID); cancelErr != nil {
				s.log.WithError(cancelErr).Error("Failed to roll back trigger after persist failure")
			}
		}
		return nil, errors.Join(ErrPersistence, err)
	}

	return r, armErr
}

// Delete cancels any armed trigger, then removes the persisted row.
func (s *Service) Delete(ctx context.Context, id string) error {
	unlock := s.locks.lock(id)
	defer unlock()

	r, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.scheduler.Cancel(ctx, r.NotificationID); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return errors.Join(ErrPersistence, err)
	}

	s.log.WithField("reminder_id", id).Info("Reminder deleted")
	return nil
}

// OnTriggerFired handles a delivered or tapped notification. One-shot
// reminders deactivate and persist exactly once; daily reminders stay
// active and re-arm for tomorrow, persisting only the new trigger handle.
func (s *Service) OnTriggerFired(ctx context.Context, reminderID string, isDaily bool) error {
	unlock := s.locks.lock(reminderID)
	defer unlock()

	r, err := s.store.GetByID(ctx, reminderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Stale trigger for a deleted reminder.
			s.log.WithField("reminder_id", reminderID).Debug("Ignoring trigger for unknown reminder")
			return nil
		}
		return err
	}

	if !r.Repeat.IsDaily() {
		// A notification reports twice when it is delivered and then
		// tapped; only the first report writes.
		if !r.IsActive && r.NotificationID == "" {
			return nil
		}

		r.IsActive = false
		r.NotificationID = ""
		r.UpdatedAt = s.now()
		if err := s.store.Update(ctx, r); err != nil {
			return errors.Join(ErrPersistence, err)
		}
		return nil
	}

	handle, err := s.scheduler.RescheduleDaily(ctx, r)
	if err != nil {
		return err
	}
	r.NotificationID = handle

	if err := s.store.UpdateNotificationID(ctx, r.ID, handle); err != nil {
		return errors.Join(ErrPersistence, err)
	}
	return nil
}

// ReconcileOnForeground force-deactivates active one-shot reminders whose
// scheduled time passed while the process was not running to observe the
// fire event. Daily reminders and future one-shots are untouched.
func (s *Service) ReconcileOnForeground(ctx context.Context, now time.Time) error {
	all, err := s.store.All(ctx)
	if err != nil {
		return errors.Join(ErrPersistence, err)
	}

	reconciled := 0
	for _, stale := range all {
		if !stale.IsActive || stale.Repeat.IsDaily() || stale.ScheduledTime.After(now) {
			continue
		}

		// The listing happened outside the row lock; re-fetch and re-check
		// under it so a concurrent edit is never overwritten with this
		// snapshot.
		unlock := s.locks.lock(stale.ID)
		r, err := s.store.GetByID(ctx, stale.ID)
		if err != nil {
			unlock()
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return errors.Join(ErrPersistence, err)
		}
		if !r.IsActive || r.Repeat.IsDaily() || r.ScheduledTime.After(now) {
			unlock()
			continue
		}

		r.IsActive = false
		r.NotificationID = ""
		r.UpdatedAt = now
		err = s.store.Update(ctx, r)
		unlock()

		if err != nil {
			return errors.Join(ErrPersistence, err)
		}
		reconciled++
	}

	if reconciled > 0 {
		s.log.WithField("count", reconciled).Info("Reconciled past-due reminders")
	}
	return nil
}

// RestoreTriggers re-arms triggers for persisted active reminders after a
// process restart, when any previously armed in-process trigger is gone.
// Past-due one-shots deactivate instead of re-arming.
func (s *Service) RestoreTriggers(ctx context.Context) error {
	now := s.now()
	if err := s.ReconcileOnForeground(ctx, now); err != nil {
		return err
	}

	all, err := s.store.All(ctx)
	if err != nil {
		return errors.Join(ErrPersistence, err)
	}

	for _, stale := range all {
		if !stale.IsActive {
			continue
		}

		// Re-fetch under the row lock; arm from the fresh row, never the
		// listing snapshot.
		unlock := s.locks.lock(stale.ID)
		r, err := s.store.GetByID(ctx, stale.ID)
		if err != nil {
			unlock()
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return errors.Join(ErrPersistence, err)
		}
		if !r.IsActive {
			unlock()
			continue
		}

		handle, err := s.scheduler.Arm(ctx, r)
		if err == nil {
			err = s.store.UpdateNotificationID(ctx, r.ID, handle)
		}
		unlock()

		if errors.Is(err, ErrPermissionDenied) {
			s.log.Warn("Notification permission denied, triggers not restored")
			return err
		}
		if err != nil {
			s.log.WithError(err).WithField("reminder_id", r.ID).Error("Failed to restore trigger")
		}
	}
	return nil
}

// Get returns a single reminder by id.
func (s *Service) Get(ctx context.Context, id string) (*Reminder, error) {
	return s.store.GetByID(ctx, id)
}

// ListActive returns active reminders, daily first, then latest-scheduled
// first.
func (s *Service) ListActive(ctx context.Context) ([]*Reminder, error) {
	return s.list(ctx, func(r *Reminder) bool { return r.IsActive })
}

// ListInactive returns inactive reminders in the same order.
func (s *Service) ListInactive(ctx context.Context) ([]*Reminder, error) {
	return s.list(ctx, func(r *Reminder) bool { return !r.IsActive })
}

// Search matches the query case-insensitively against title and
// description.
func (s *Service) Search(ctx context.Context, query string) ([]*Reminder, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.list(ctx, func(*Reminder) bool { return true })
	}
	return s.list(ctx, func(r *Reminder) bool {
		return strings.Contains(strings.ToLower(r.Title), q) ||
			strings.Contains(strings.ToLower(r.Description), q)
	})
}

func (s *Service) list(ctx context.Context, keep func(*Reminder) bool) ([]*Reminder, error) {
	all, err := s.store.All(ctx)
	if err != nil {
		return nil, errors.Join(ErrPersistence, err)
	}

	out := make([]*Reminder, 0, len(all))
	for _, r := range all {
		if keep(r) {
			out = append(out, r)
		}
	}

	// Daily reminders first, then most recently scheduled first.
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].Repeat.IsDaily(), out[j].Repeat.IsDaily()
		if di != dj {
			return di
		}
		return out[i].ScheduledTime.After(out[j].ScheduledTime)
	})

	return out, nil
}

// idLocks hands out one mutex per reminder id so the fired-trigger handler,
// reconciliation, and user edits serialize their read-modify-write cycles.
type idLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (l *idLocks) lock(id string) (unlock func()) {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[string]*sync.Mutex)
	}
	lk, ok := l.m[id]
	if !ok {
		lk = &sync.Mutex{}
		l.m[id] = lk
	}
	l.mu.Unlock()

	lk.Lock()
	return lk.Unlock
}
