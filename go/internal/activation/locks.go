package activation

import (
	"sync"

	"github.com/google/uuid"
)

// sessionLocks serializes activation-state mutations per session. Two
// concurrent activate calls for different questions in the same session
// must not interleave their read-modify-persist sequences, or both
// questions could end up live.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// lock acquires the session's mutex and returns its unlock func. Entries
// are kept for the life of the process; the map is bounded by the number
// of sessions this process has coordinated.
func (l *sessionLocks) lock(sessionID uuid.UUID) func() {
	l.mu.Lock()
	m, ok := l.locks[sessionID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[sessionID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
