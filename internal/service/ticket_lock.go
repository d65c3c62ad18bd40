package service

import "sync"

// ticketLocks serializes mutations per ticket id: at most one in-flight
// mutating operation per ticket at a time. Entries are reference
// counted and dropped as soon as no goroutine holds or waits on them,
// so the map does not grow with the ticket table.
type ticketLocks struct {
	mu    sync.Mutex
	locks map[string]*ticketLockEntry
}

type ticketLockEntry struct {
	mu   sync.Mutex
	refs int
}

func newTicketLocks() *ticketLocks {
	return &ticketLocks{locks: make(map[string]*ticketLockEntry)}
}

// Lock acquires the mutex for a ticket id and returns the unlock func.
func (l *ticketLocks) Lock(id string) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &ticketLockEntry{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
