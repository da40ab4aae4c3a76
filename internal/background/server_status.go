package background

import "sync"

type serverState int

const (
	stateStopped serverState = iota
	stateStarted
	stateStopping
)

// backgroundServerStatus guards the lifecycle of a background server against concurrent Start and Stop calls.
type backgroundServerStatus struct {
	mu    sync.RWMutex
	state serverState
}

func newBackgroundServerStatus() *backgroundServerStatus {
	return &backgroundServerStatus{
		mu:    sync.RWMutex{},
		state: stateStopped,
	}
}

func (s *backgroundServerStatus) get() serverState {
	s.mu.RLock()
	ret := s.state
	s.mu.RUnlock()
	return ret
}

// transition moves to `to` only if the current state is `from`.
func (s *backgroundServerStatus) transition(from, to serverState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != from {
		return false
	}

	s.state = to
	return true
}
