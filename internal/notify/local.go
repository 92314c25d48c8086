package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Sink delivers a fired notification to the user.
type Sink interface {
	Deliver(ctx context.Context, title, body string) error
}

// LocalNotifier is the in-process Notifier implementation: one timer per
// armed trigger, delivery through a pluggable sink, fired events emitted on
// a channel. Permission is governed by configuration so the denial path
// behaves like a user refusing OS notification permission.
type LocalNotifier struct {
	mu      sync.Mutex
	timers  map[string]*time.Timer
	events  chan Event
	sink    Sink
	setup   *Setup
	log     *logrus.Logger
	granted bool
	closed  bool
}

// NewLocalNotifier creates a notifier delivering through sink. granted is
// the answer every RequestPermission call will get.
func NewLocalNotifier(sink Sink, granted bool, setup *Setup, log *logrus.Logger) *LocalNotifier {
	if setup == nil {
		setup = NewSetup(nil)
	}
	return &LocalNotifier{
		timers:  make(map[string]*time.Timer),
		events:  make(chan Event, 16),
		sink:    sink,
		setup:   setup,
		log:     log,
		granted: granted,
	}
}

// RequestPermission reports the configured permission state.
func (n *LocalNotifier) RequestPermission(_ context.Context) (bool, error) {
	return n.granted, nil
}

// Arm schedules a one-shot trigger for the given instant.
func (n *LocalNotifier) Arm(_ context.Context, content Content, at time.Time) (string, error) {
	if err := n.setup.EnsureChannel(); err != nil {
		return "", fmt.Errorf("failed to initialize notification channel: %w", err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return "", fmt.Errorf("notifier is closed")
	}

	handle := uuid.NewString()
	n.timers[handle] = time.AfterFunc(time.Until(at), func() {
		n.fire(handle, content)
	})

	return handle, nil
}

// Cancel disarms a trigger. Unknown handles are ignored.
func (n *LocalNotifier) Cancel(_ context.Context, handle string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if timer, ok := n.timers[handle]; ok {
		timer.Stop()
		delete(n.timers, handle)
	}
	return nil
}

// Events returns the fired-trigger event stream.
func (n *LocalNotifier) Events() <-chan Event {
	return n.events
}

// Close stops all armed timers. Pending events already emitted remain
// readable.
func (n *LocalNotifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	n.closed = true
	for handle, timer := range n.timers {
		timer.Stop()
		delete(n.timers, handle)
	}
}

func (n *LocalNotifier) fire(handle string, content Content) {
	n.mu.Lock()
	delete(n.timers, handle)
	closed := n.closed
	n.mu.Unlock()

	if closed {
		return
	}

	if n.sink != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := n.sink.Deliver(ctx, content.Title, content.Body); err != nil {
			n.log.WithError(err).Error("Failed to deliver notification")
		}
	}

	select {
	case n.events <- Event{Payload: content.Data, Kind: Delivered}:
	default:
		n.log.WithField("reminder_id", content.Data.ReminderID).
			Warn("Dropping trigger event: queue full")
	}
}
