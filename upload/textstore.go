package upload

import "sync"

// TextStore holds the markdown text shared by the editing surface and all
// in-flight uploads. Every mutation is a function from the previous value
// to the next, so concurrent completions never overwrite each other.
//
// Subscribers run while the store lock is held, in mutation order. They
// must not mutate the store themselves.
type TextStore struct {
	mu     sync.Mutex
	text   string
	subs   []func(old, new string)
	writes int
}

// NewTextStore returns a store holding text.
func NewTextStore(text string) *TextStore {
	return &TextStore{text: text}
}

// Text returns the current value.
func (s *TextStore) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Set replaces the value.
func (s *TextStore) Set(text string) {
	s.Update(func(string) string { return text })
}

// Update applies fn to the latest value and stores the result. It returns
// the new value. Subscribers are only notified when the value changed.
func (s *TextStore) Update(fn func(string) string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.text
	next := fn(old)
	if next == old {
		return old
	}
	s.text = next
	s.writes++
	for _, sub := range s.subs {
		sub(old, next)
	}
	return next
}

// Subscribe registers fn to observe every change.
func (s *TextStore) Subscribe(fn func(old, new string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Writes returns the number of changes applied so far.
func (s *TextStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
