package reminder

import "errors"

// Failure taxonomy for lifecycle operations. Callers branch with errors.Is.
var (
	// ErrValidation covers blank titles and unparseable form fields. The
	// operation is aborted with no side effects.
	ErrValidation = errors.New("invalid reminder input")

	// ErrScheduleInPast is returned when a one-shot reminder would be armed
	// for an instant that already passed. Create and activate reject; edit
	// auto-deactivates instead.
	ErrScheduleInPast = errors.New("scheduled time is in the past")

	// ErrPermissionDenied means notification permission was refused. Not
	// retried automatically.
	ErrPermissionDenied = errors.New("notification permission denied")

	// ErrPersistence wraps storage failures. Any trigger armed before the
	// failure has been cancelled by the time the caller sees this.
	ErrPersistence = errors.New("persistence failure")

	// ErrNotFound is returned when no reminder exists for an id.
	ErrNotFound = errors.New("reminder not found")
)
