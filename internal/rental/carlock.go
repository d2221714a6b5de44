package rental

import "sync"

// carLocks serializes the booking check-and-insert sequence per car so two
// concurrent bookings cannot both pass the overlap check before either
// commits.
type carLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newCarLocks() *carLocks {
	return &carLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

// acquire locks the mutex for the given car ID, creating it on first use.
// The caller must call the returned unlock function.
func (l *carLocks) acquire(carID string) func() {
	l.mu.Lock()
	m, exists := l.locks[carID]
	if !exists {
		m = &sync.Mutex{}
		l.locks[carID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
