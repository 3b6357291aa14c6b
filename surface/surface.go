// Package surface implements the editing surface: a visual tree kept in
// step with the markdown text, a caret, chip selection for structural
// deletes and in-place editing of chip alt text.
//
// The markdown text is authoritative. SetText reconciles the tree with a
// new value from outside; every edit made through the surface re-derives
// the text from the tree and reports it to OnChange listeners.
package surface

import (
	"log/slog"
	"sync"

	"github.com/slidecraft/chipedit/markdown"
	"github.com/slidecraft/chipedit/rich"
)

// Surface is a headless content-editable surface. It is safe for use from
// multiple goroutines; OnChange listeners are called without the surface
// lock held and may call back into the surface.
type Surface struct {
	mu sync.Mutex

	root  *rich.Node
	text  string // text rendered by root
	caret Position

	focused  bool
	selected *rich.Node
	edit     *ChipEdit

	listeners []func(string)
	logger    *slog.Logger

	rebuilds int
	patches  int
}

// Option configures a Surface.
type Option func(*Surface)

// WithText sets the initial text.
func WithText(text string) Option {
	return func(s *Surface) {
		s.text = text
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *slog.Logger) Option {
	return func(s *Surface) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a surface rendering its initial text.
func New(opts ...Option) *Surface {
	s := &Surface{logger: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		o(s)
	}
	s.root = rich.BuildText(s.text)
	return s
}

// Text returns the current markdown text.
func (s *Surface) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Root returns the root of the visual tree. Callers must not mutate it.
func (s *Surface) Root() *rich.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

// Chips returns the chip nodes in document order.
func (s *Surface) Chips() []*rich.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rich.Chips(s.root)
}

// OnChange registers fn to be called with the new text after every edit
// made through the surface.
func (s *Surface) OnChange(fn func(string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Stats reports how many external syncs rebuilt the tree and how many were
// applied as in-place chip patches.
func (s *Surface) Stats() (rebuilds, patches int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rebuilds, s.patches
}

// SetText reconciles the surface with text supplied from outside. It
// does not notify OnChange listeners.
func (s *Surface) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if text == s.text {
		return
	}

	caretOff := -1
	if s.caret.Valid() {
		caretOff = offsetOf(s.root, s.caret)
	}
	prev := s.text
	root, change := rich.Reconcile(s.root, prev, text)
	s.text = text
	if !change.Structural {
		s.patches++
		s.logger.Debug("surface patched chips", slog.Int("patches", len(change.Patches)))
		return
	}

	s.rebuilds++
	s.logger.Debug("surface rebuilt", slog.Int("chips", len(rich.Chips(root))))
	s.root = root
	s.selected = nil
	s.edit = nil
	if caretOff >= 0 {
		s.caret = positionAt(root, clamp(shiftOffset(prev, text, caretOff), 0, len(text)))
	}
}

// Focus gives the surface keyboard focus, placing the caret at the end of
// the text if it has none.
func (s *Surface) Focus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focused = true
	if !s.caret.Valid() || !s.root.Contains(s.caret.Node) {
		s.caret = Position{Node: s.root, Offset: s.root.Len()}
	}
}

// Focused reports whether the surface has focus.
func (s *Surface) Focused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focused
}

// Blur removes focus. An open chip edit is committed.
func (s *Surface) Blur() {
	s.mu.Lock()
	s.focused = false
	changed := s.commitLocked()
	text := s.text
	s.mu.Unlock()
	if changed {
		s.emit(text)
	}
}

// Caret returns the caret position.
func (s *Surface) Caret() Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.caret
}

// SetCaret moves the caret without affecting selection. Positions whose
// node is not in the current tree are ignored.
func (s *Surface) SetCaret(p Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !p.Valid() || !s.root.Contains(p.Node) {
		return
	}
	s.caret = p
}

// CaretOffset returns the caret as an offset into the text.
func (s *Surface) CaretOffset() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return offsetOf(s.root, s.caret)
}

// SetCaretOffset places the caret at a text offset.
func (s *Surface) SetCaretOffset(off int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caret = positionAt(s.root, clamp(off, 0, len(s.text)))
}

// AdjacentChip returns the chip directly before or after the caret.
func (s *Surface) AdjacentChip(dir Direction) *rich.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return adjacentChip(s.caret, dir)
}

// resyncLocked re-derives the text after a tree edit. If the edit
// produced image syntax the tree does not show as chips, the tree is
// rebuilt with the caret kept at the same text offset.
func (s *Surface) resyncLocked() {
	s.text = rich.Serialize(s.root)
	if markdown.ImageCount(markdown.Parse(s.text)) == len(rich.Chips(s.root)) {
		return
	}
	off := offsetOf(s.root, s.caret)
	s.root = rich.BuildText(s.text)
	s.caret = positionAt(s.root, off)
	s.rebuilds++
}

func (s *Surface) emit(text string) {
	s.mu.Lock()
	ls := append([]func(string){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range ls {
		fn(text)
	}
}
