package factor

import "sync"

// ProgressObserver receives progress updates from a factoring run.
// Implementations must be safe for concurrent Update calls.
type ProgressObserver interface {
	Update(update ProgressUpdate)
}

// ProgressSubject is the observable side of progress reporting. The pipeline
// notifies it at phase checkpoints; observers (UI spinner, tests) attach as
// needed. The zero value is ready to use.
type ProgressSubject struct {
	mu        sync.RWMutex
	observers []ProgressObserver
}

// Attach registers an observer. Attaching the same observer twice results in
// duplicate notifications.
func (s *ProgressSubject) Attach(o ProgressObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Detach removes a previously attached observer.
func (s *ProgressSubject) Detach(o ProgressObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.observers {
		if existing == o {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// Notify delivers an update to every attached observer.
func (s *ProgressSubject) Notify(update ProgressUpdate) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.observers {
		o.Update(update)
	}
}

// ChannelObserver forwards updates to a channel without blocking: when the
// receiver lags, updates are dropped rather than stalling the pipeline.
type ChannelObserver struct {
	Ch chan<- ProgressUpdate
}

// Update implements ProgressObserver.
func (c *ChannelObserver) Update(update ProgressUpdate) {
	select {
	case c.Ch <- update:
	default:
	}
}
