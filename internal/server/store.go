package server

import "sync"

// Store is a thread-safe ring buffer of proxied-request entries with
// subscriber support for the dashboard's live stream.
type Store struct {
	mu          sync.RWMutex
	entries     []*Entry
	maxSize     int
	nextID      int64
	subscribers map[int64]chan *Entry
	subID       int64
}

// NewStore creates a new store with the given maximum entry count.
func NewStore(maxSize int) *Store {
	return &Store{
		maxSize:     maxSize,
		entries:     make([]*Entry, 0, maxSize),
		subscribers: make(map[int64]chan *Entry),
	}
}

// Add stores an entry, evicting the oldest if the buffer is full, and
// notifies all subscribers.
func (s *Store) Add(entry *Entry) {
	s.mu.Lock()
	s.nextID++
	entry.ID = s.nextID
	if len(s.entries) >= s.maxSize {
		s.entries = s.entries[1:]
	}
	s.entries = append(s.entries, entry)
	subs := make([]chan *Entry, 0, len(s.subscribers))
	for _, ch := range s.subscribers {
		subs = append(subs, ch)
	}
	s.mu.Unlock()

	// Notify outside the lock; a slow subscriber is skipped, not waited on.
	for _, ch := range subs {
		select {
		case ch <- entry:
		default:
		}
	}
}

// Entries returns a snapshot of all stored entries.
func (s *Store) Entries() []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Subscribe returns a channel receiving new entries and an unsubscribe
// function.
func (s *Store) Subscribe() (<-chan *Entry, func()) {
	ch := make(chan *Entry, 64)
	s.mu.Lock()
	s.subID++
	id := s.subID
	s.subscribers[id] = ch
	s.mu.Unlock()

	// Add sends non-blockingly, so the channel can simply be dropped once it
	// is out of the subscriber map; pending entries are garbage collected
	// with it.
	unsub := func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
	return ch, unsub
}
