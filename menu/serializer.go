package menu

import "sync"

// Serializer runs passes one at a time. A caller arriving while a pass is in
// flight is queued and later runs its own pass; queued callers are released
// in arrival order and are never dropped or merged.
type Serializer struct {
	mu      sync.Mutex
	running bool
	waiters []chan struct{}
}

// Do blocks until fn has run in its own pass.
func (s *Serializer) Do(fn func()) {
	s.acquire()
	defer s.release()
	fn()
}

// Pending reports how many callers are queued behind the running pass.
func (s *Serializer) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.waiters)
}

// Running reports whether a pass is in flight.
func (s *Serializer) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Serializer) acquire() {
	s.mu.Lock()
	if !s.running {
		s.running = true
		s.mu.Unlock()
		return
	}
	turn := make(chan struct{})
	s.waiters = append(s.waiters, turn)
	s.mu.Unlock()
	<-turn
}

// release hands the turn to the oldest waiter, keeping running set, or
// clears running when nobody is queued.
func (s *Serializer) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.waiters) == 0 {
		s.running = false
		return
	}
	next := s.waiters[0]
	s.waiters[0] = nil
	s.waiters = s.waiters[1:]
	close(next)
}
