package surface

import "github.com/slidecraft/chipedit/rich"

// ChipEdit is an open in-place edit of a chip's alt text.
type ChipEdit struct {
	node  *rich.Node
	orig  string
	draft string
}

// Node returns the chip being edited.
func (e *ChipEdit) Node() *rich.Node { return e.node }

// Draft returns the pending alt text.
func (e *ChipEdit) Draft() string { return e.draft }

// DoubleClick activates in-place editing of a ready chip, pre-filling the
// draft with its current alt text. Uploading chips cannot be edited.
func (s *Surface) DoubleClick(n *rich.Node) bool {
	s.mu.Lock()
	if n == nil || n.Kind != rich.NodeChip || !n.Chip.Editable() || !s.root.Contains(n) {
		s.mu.Unlock()
		return false
	}
	changed := false
	if s.edit != nil && s.edit.node != n {
		changed = s.commitLocked()
	}
	s.clearSelectionLocked()
	alt := n.Chip.Alt()
	s.edit = &ChipEdit{node: n, orig: alt, draft: alt}
	text := s.text
	s.mu.Unlock()
	if changed {
		s.emit(text)
	}
	return true
}

// Editing returns the open chip edit, or nil.
func (s *Surface) Editing() *ChipEdit {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit == nil {
		return nil
	}
	e := *s.edit
	return &e
}

// EditAlt replaces the draft of the open edit. It is a no-op when no edit
// is open.
func (s *Surface) EditAlt(draft string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit != nil {
		s.edit.draft = draft
	}
}

// CommitEdit writes the draft into the chip and reports the new text.
func (s *Surface) CommitEdit() bool {
	s.mu.Lock()
	changed := s.commitLocked()
	text := s.text
	s.mu.Unlock()
	if changed {
		s.emit(text)
	}
	return changed
}

// CancelEdit closes the open edit without changing anything.
func (s *Surface) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edit = nil
}

// commitLocked applies and closes the open edit, returning whether the
// text changed.
func (s *Surface) commitLocked() bool {
	e := s.edit
	if e == nil {
		return false
	}
	s.edit = nil
	if e.draft == e.orig || !s.root.Contains(e.node) {
		return false
	}
	before := s.text
	e.node.Chip.Rename(e.draft)
	s.resyncLocked()
	return s.text != before
}
