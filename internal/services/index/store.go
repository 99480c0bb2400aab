package index

import "sync/atomic"

// Store publishes the current Index to concurrent readers.
// A refresh builds a new Index off to the side and swaps it in with Publish,
// so a reader never sees a partially built index.
type Store struct {
	current atomic.Pointer[Index]
}

// NewStore creates a store holding an empty index
func NewStore() *Store {
	s := &Store{}
	s.current.Store(New())
	return s
}

// Current returns the published index. Callers must treat it as read-only.
func (s *Store) Current() *Index {
	return s.current.Load()
}

// Publish atomically replaces the current index and returns the previous one
func (s *Store) Publish(idx *Index) *Index {
	if idx == nil {
		idx = New()
	}
	return s.current.Swap(idx)
}

// Empty reports whether the published index has no entries
func (s *Store) Empty() bool {
	return s.Current().Len() == 0
}
