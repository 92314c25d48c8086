// Package notify is the boundary between reminder scheduling and whatever
// actually delivers notifications. Triggers are armed for an absolute
// instant and fire back asynchronous events carrying the opaque payload set
// at arm time.
package notify

import (
	"context"
	"time"
)

// Payload correlates a fired trigger back to its reminder without a lookup
// table.
type Payload struct {
	ReminderID string `json:"reminderId"`
	IsDaily    bool   `json:"isDaily"`
}

// Content is what an armed trigger shows when it fires.
type Content struct {
	Title string
	Body  string
	Data  Payload
}

// EventKind distinguishes how a fired notification reached us. Both kinds
// are handled identically downstream.
type EventKind int

const (
	// Delivered means the notification fired while the process was running.
	Delivered EventKind = iota
	// Tapped means the user interacted with the notification.
	Tapped
)

// Event is emitted when an armed trigger fires.
type Event struct {
	Payload Payload
	Kind    EventKind
}

// Notifier arms and cancels device-level triggers.
type Notifier interface {
	// RequestPermission asks whether notifications may be shown. A false
	// result is a user decision, not an error.
	RequestPermission(ctx context.Context) (bool, error)

	// Arm schedules a one-shot trigger for the given instant and returns an
	// opaque handle.
	Arm(ctx context.Context, content Content, at time.Time) (string, error)

	// Cancel disarms a trigger. Cancelling an unknown or already-fired
	// handle is a no-op.
	Cancel(ctx context.Context, handle string) error

	// Events returns the stream of fired-trigger events.
	Events() <-chan Event
}
