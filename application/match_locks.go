package application

import (
	"sync"

	"github.com/google/uuid"
)

// matchLocks hands out one mutex per match so moves for the same match
// never interleave. Entries are reference-counted and removed once the
// last holder releases, keeping the map from growing with finished
// matches.
type matchLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*matchLock
}

type matchLock struct {
	sync.Mutex
	refs int
}

func (l *matchLocks) acquire(id uuid.UUID) *matchLock {
	l.mu.Lock()
	ml, ok := l.locks[id]
	if !ok {
		ml = &matchLock{}
		l.locks[id] = ml
	}
	ml.refs++
	l.mu.Unlock()

	ml.Lock()
	return ml
}

func (l *matchLocks) release(id uuid.UUID, ml *matchLock) {
	ml.Unlock()

	l.mu.Lock()
	ml.refs--
	if ml.refs == 0 {
		delete(l.locks, id)
	}
	l.mu.Unlock()
}
