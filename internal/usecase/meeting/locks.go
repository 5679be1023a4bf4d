package meeting

import (
	"sync"

	"github.com/google/uuid"
)

// meetingLocks serializes read-modify-write cycles per meeting id. Every
// mutation rewrites the whole meeting record, so two concurrent writers to
// different sub-fields of the same meeting would otherwise race and the
// second rewrite would silently drop the first. Entries are refcounted and
// removed once the last holder releases.
type meetingLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newMeetingLocks() *meetingLocks {
	return &meetingLocks{locks: make(map[uuid.UUID]*lockEntry)}
}

func (l *meetingLocks) lock(id uuid.UUID) {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &lockEntry{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
}

func (l *meetingLocks) unlock(id uuid.UUID) {
	l.mu.Lock()
	entry := l.locks[id]
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, id)
	}
	l.mu.Unlock()

	entry.mu.Unlock()
}
