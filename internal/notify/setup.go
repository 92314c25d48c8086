package notify

import "sync"

// Setup runs the notifier's one-time initialization (delivery channel
// configuration, sink checks). The completed flag lives inside the owned
// struct rather than a package-level global so tests can inject a fresh
// Setup and reset it deterministically.
type Setup struct {
	mu   sync.Mutex
	done bool
	init func() error
}

// NewSetup wraps an initialization function. A nil init is a no-op.
func NewSetup(init func() error) *Setup {
	return &Setup{init: init}
}

// EnsureChannel runs the initialization exactly once. Subsequent calls are
// no-ops unless a prior attempt failed, in which case it retries.
func (s *Setup) EnsureChannel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return nil
	}
	if s.init != nil {
		if err := s.init(); err != nil {
			return err
		}
	}
	s.done = true
	return nil
}

// Reset clears the completed flag so the next EnsureChannel runs again.
func (s *Setup) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = false
}
