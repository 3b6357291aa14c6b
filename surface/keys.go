package surface

import (
	"unicode/utf8"

	"github.com/slidecraft/chipedit/markdown"
	"github.com/slidecraft/chipedit/rich"
)

// HandleKey processes a key event.
//
// Delete keys follow a two-step protocol around chips: with the caret
// directly before a chip (Delete) or after it (Backspace), the first press
// selects the chip and the second press, of either delete key, removes it.
// Any other key clears the selection. HandleKey returns true when it took
// one of these structural actions instead of the key's default; otherwise
// it performs the default editing action itself and returns false.
//
// While a chip edit is open, Enter commits it, Escape cancels it and other
// keys are left to the edit field.
func (s *Surface) HandleKey(k Key) bool {
	s.mu.Lock()
	handled, changed := s.handleKeyLocked(k)
	text := s.text
	s.mu.Unlock()
	if changed {
		s.emit(text)
	}
	return handled
}

func (s *Surface) handleKeyLocked(k Key) (handled, changed bool) {
	if s.edit != nil {
		switch k.Code {
		case KeyEnter:
			return true, s.commitLocked()
		case KeyEscape:
			s.edit = nil
			return true, false
		}
		return false, false
	}
	if !s.caret.Valid() {
		s.caret = Position{Node: s.root, Offset: s.root.Len()}
	}

	if dir, ok := k.isDelete(); ok {
		if s.selected != nil {
			s.removeChipLocked(s.selected)
			return true, true
		}
		if chip := adjacentChip(s.caret, dir); chip != nil {
			s.selectLocked(chip)
			return true, false
		}
		return false, s.deleteLocked(dir)
	}

	s.clearSelectionLocked()
	switch k.Code {
	case KeyRune:
		var buf [utf8.UTFMax]byte
		n := utf8.EncodeRune(buf[:], k.Rune)
		s.insertTextLocked(string(buf[:n]))
		return false, true
	case KeyEnter:
		s.insertNodesLocked([]*rich.Node{rich.NewBreak()})
		return false, true
	case KeyLeft:
		s.moveLocked(Backward)
	case KeyRight:
		s.moveLocked(Forward)
	case KeyHome:
		s.caret = Position{Node: s.root, Offset: 0}
	case KeyEnd:
		s.caret = Position{Node: s.root, Offset: s.root.Len()}
	}
	return false, false
}

// Click places the caret at p, clearing any chip selection and committing
// an open chip edit.
func (s *Surface) Click(p Position) {
	s.mu.Lock()
	changed := s.commitLocked()
	s.clearSelectionLocked()
	if p.Valid() && s.root.Contains(p.Node) {
		s.caret = p
	}
	s.focused = true
	text := s.text
	s.mu.Unlock()
	if changed {
		s.emit(text)
	}
}

// SelectedChip returns the selected chip node, or nil.
func (s *Surface) SelectedChip() *rich.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

func (s *Surface) selectLocked(n *rich.Node) {
	s.clearSelectionLocked()
	n.Chip.SetSelected(true)
	s.selected = n
}

func (s *Surface) clearSelectionLocked() {
	if s.selected != nil {
		s.selected.Chip.SetSelected(false)
		s.selected = nil
	}
}

func (s *Surface) removeChipLocked(n *rich.Node) {
	s.clearSelectionLocked()
	parent, i := n.Parent(), n.Index()
	n.Remove()
	if parent != nil {
		s.caret = Position{Node: parent, Offset: i}
	}
	s.ensureFillerLocked()
	s.resyncLocked()
}

// ensureFillerLocked keeps an emptied tree focusable.
func (s *Surface) ensureFillerLocked() {
	if s.root.Len() == 0 {
		s.root = rich.BuildText("")
		s.caret = Position{Node: s.root, Offset: 0}
	}
}

// InsertAtCursor inserts a markdown fragment at the caret, rendering any
// image references in it as chips. It returns false, leaving the text
// unchanged, when the surface has no focus or caret.
func (s *Surface) InsertAtCursor(fragment string) bool {
	s.mu.Lock()
	if !s.focused || !s.caret.Valid() || !s.root.Contains(s.caret.Node) {
		s.mu.Unlock()
		return false
	}
	s.clearSelectionLocked()
	s.insertNodesLocked(rich.BuildText(fragment).Children())
	text := s.text
	s.mu.Unlock()
	s.emit(text)
	return true
}

func (s *Surface) insertTextLocked(str string) {
	if s.caret.InText() {
		t := s.caret.Node
		off := clamp(s.caret.Offset, 0, len(t.Text))
		t.Text = t.Text[:off] + str + t.Text[off:]
		s.caret.Offset = off + len(str)
		s.resyncLocked()
		return
	}
	parent, i := s.caret.Node, clamp(s.caret.Offset, 0, s.caret.Node.Len())
	if prev := parent.Child(i - 1); prev != nil && prev.Kind == rich.NodeText {
		prev.Text += str
		s.caret = Position{Node: prev, Offset: len(prev.Text)}
		s.resyncLocked()
		return
	}
	s.insertNodesLocked([]*rich.Node{rich.NewText(str)})
}

// insertNodesLocked inserts nodes at the caret and leaves the caret after
// them.
func (s *Surface) insertNodesLocked(nodes []*rich.Node) {
	s.dropFillerLocked()
	parent, i := normalize(s.caret)
	for _, n := range nodes {
		if n.IsFiller() {
			continue
		}
		parent.InsertAt(i, n)
		i++
	}
	s.caret = Position{Node: parent, Offset: i}
	s.resyncLocked()
}

func (s *Surface) dropFillerLocked() {
	f := s.root.FirstChild()
	if s.root.Len() != 1 || f == nil || !f.IsFiller() {
		return
	}
	f.Remove()
	if s.caret.Node == f || s.caret.Node == s.root {
		s.caret = Position{Node: s.root, Offset: 0}
	}
}

// deleteLocked performs a plain one-character delete in direction dir.
func (s *Surface) deleteLocked(dir Direction) bool {
	p := s.caret
	if p.InText() {
		t := p.Node
		off := clamp(p.Offset, 0, len(t.Text))
		if dir == Backward && off > 0 {
			_, size := utf8.DecodeLastRuneInString(t.Text[:off])
			t.Text = t.Text[:off-size] + t.Text[off:]
			s.caret.Offset = off - size
			s.dropEmptyTextLocked(t)
			s.resyncLocked()
			return true
		}
		if dir == Forward && off < len(t.Text) {
			_, size := utf8.DecodeRuneInString(t.Text[off:])
			t.Text = t.Text[:off] + t.Text[off+size:]
			s.dropEmptyTextLocked(t)
			s.resyncLocked()
			return true
		}
	}
	parent, i := normalize(p)
	target := parent.Child(i)
	if dir == Backward {
		target = parent.Child(i - 1)
	}
	if target == nil || target.IsFiller() {
		s.caret = Position{Node: parent, Offset: i}
		return false
	}
	if target.Kind == rich.NodeText {
		if dir == Backward {
			s.caret = Position{Node: target, Offset: len(target.Text)}
		} else {
			s.caret = Position{Node: target, Offset: 0}
		}
		return s.deleteLocked(dir)
	}
	if dir == Backward {
		i--
	}
	target.Remove()
	s.caret = Position{Node: parent, Offset: i}
	s.ensureFillerLocked()
	s.resyncLocked()
	return true
}

func (s *Surface) dropEmptyTextLocked(t *rich.Node) {
	if t.Text != "" || t.Parent() == nil {
		return
	}
	parent, i := t.Parent(), t.Index()
	t.Remove()
	s.caret = Position{Node: parent, Offset: i}
	s.ensureFillerLocked()
}

// moveLocked steps the caret one rune, or over one whole chip or break.
func (s *Surface) moveLocked(dir Direction) {
	p := s.caret
	if p.InText() {
		t := p.Node
		off := clamp(p.Offset, 0, len(t.Text))
		if dir == Backward && off > 0 {
			_, size := utf8.DecodeLastRuneInString(t.Text[:off])
			s.caret.Offset = off - size
			return
		}
		if dir == Forward && off < len(t.Text) {
			_, size := utf8.DecodeRuneInString(t.Text[off:])
			s.caret.Offset = off + size
			return
		}
		parent, i := t.Parent(), t.Index()
		if dir == Forward {
			i++
		}
		s.caret = Position{Node: parent, Offset: i}
		p = s.caret
	}
	parent, i := p.Node, clamp(p.Offset, 0, p.Node.Len())
	if dir == Backward {
		if prev := parent.Child(i - 1); prev != nil {
			if prev.Kind == rich.NodeText && prev.Text != "" {
				_, size := utf8.DecodeLastRuneInString(prev.Text)
				s.caret = Position{Node: prev, Offset: len(prev.Text) - size}
				return
			}
			s.caret = Position{Node: parent, Offset: i - 1}
		}
		return
	}
	if next := parent.Child(i); next != nil {
		if next.Kind == rich.NodeText && next.Text != "" {
			_, size := utf8.DecodeRuneInString(next.Text)
			s.caret = Position{Node: next, Offset: size}
			return
		}
		s.caret = Position{Node: parent, Offset: i + 1}
	}
}

// chipCount is used by tests and debugging to check the chip/image
// correspondence of the current text.
func (s *Surface) chipCount() (chips, images int) {
	return len(rich.Chips(s.root)), markdown.ImageCount(markdown.Parse(s.text))
}
