package upload

import "sync"

// Session is the upload state of one editor instance: the count of
// uploads in flight and the preview handles they hold. Close releases
// every handle still held, including those of unsettled uploads.
type Session struct {
	mu       sync.Mutex
	previews PreviewStore
	pending  int
	handles  map[string]struct{}
	watchers []func(uploading bool)
	closed   bool
}

// NewSession returns a session creating previews in store.
func NewSession(store PreviewStore) *Session {
	return &Session{previews: store, handles: make(map[string]struct{})}
}

// Pending returns the number of uploads in flight.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Uploading reports whether any upload is in flight.
func (s *Session) Uploading() bool {
	return s.Pending() > 0
}

// OnUploadingChange registers fn to be called when Uploading flips.
func (s *Session) OnUploadingChange(fn func(uploading bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers = append(s.watchers, fn)
}

// begin adds n uploads to the pending count.
func (s *Session) begin(n int) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	was := s.pending
	s.pending += n
	ws := s.watchersLocked(was == 0)
	s.mu.Unlock()
	for _, w := range ws {
		w(true)
	}
}

// settle removes one upload from the pending count. The count never goes
// below zero.
func (s *Session) settle() {
	s.mu.Lock()
	if s.pending == 0 {
		s.mu.Unlock()
		return
	}
	s.pending--
	ws := s.watchersLocked(s.pending == 0)
	s.mu.Unlock()
	for _, w := range ws {
		w(false)
	}
}

func (s *Session) watchersLocked(flip bool) []func(bool) {
	if !flip {
		return nil
	}
	return append([]func(bool){}, s.watchers...)
}

// createPreview makes a preview for f and tracks its handle.
func (s *Session) createPreview(f File) (string, error) {
	h, err := s.previews.Create(f)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.previews.Release(h)
		return "", ErrClosed
	}
	s.handles[h] = struct{}{}
	return h, nil
}

// releasePreview releases h if the session still holds it.
func (s *Session) releasePreview(h string) {
	s.mu.Lock()
	_, ok := s.handles[h]
	delete(s.handles, h)
	s.mu.Unlock()
	if ok {
		s.previews.Release(h)
	}
}

// Held returns the number of preview handles still held.
func (s *Session) Held() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

// Close releases all held previews. Uploads still in flight settle
// normally afterwards but can no longer create previews.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	hs := s.handles
	s.handles = make(map[string]struct{})
	s.mu.Unlock()
	for h := range hs {
		s.previews.Release(h)
	}
}
