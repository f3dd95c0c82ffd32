package app

import "sync"

// KeyedLock serialises edits that touch the same parent row, e.g. the
// document list or position set of one course.
type KeyedLock struct {
	mu   sync.Mutex
	byID map[int64]*keyed
}

type keyed struct {
	sync.Mutex
	refs int
}

func NewKeyedLock() *KeyedLock {
	return &KeyedLock{byID: make(map[int64]*keyed)}
}

// Lock blocks until id is free and returns the matching unlock. Idle
// entries are dropped so the map does not grow with every id ever seen.
func (l *KeyedLock) Lock(id int64) func() {
	l.mu.Lock()
	m, ok := l.byID[id]
	if !ok {
		m = &keyed{}
		l.byID[id] = m
	}
	m.refs++
	l.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		l.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(l.byID, id)
		}
		l.mu.Unlock()
	}
}

func (l *KeyedLock) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byID)
}
