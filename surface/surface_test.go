package surface

import (
	"testing"

	"github.com/slidecraft/chipedit/rich"
)

// recorder collects OnChange notifications.
type recorder struct {
	texts []string
}

func (r *recorder) last() string {
	if len(r.texts) == 0 {
		return ""
	}
	return r.texts[len(r.texts)-1]
}

func newSurface(t *testing.T, text string) (*Surface, *recorder) {
	t.Helper()
	s := New(WithText(text))
	rec := &recorder{}
	s.OnChange(func(v string) { rec.texts = append(rec.texts, v) })
	return s, rec
}

func checkInvariant(t *testing.T, s *Surface) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	chips, images := s.chipCount()
	if chips != images {
		t.Errorf("%d chips for %d images in %q", chips, images, s.text)
	}
	if got := rich.Serialize(s.root); got != s.text {
		t.Errorf("tree serializes to %q, text is %q", got, s.text)
	}
}

func TestSetTextPatchesChipInPlace(t *testing.T) {
	s, rec := newSurface(t, "hello\n![diagram](uploading:blob:1)\n")
	s.Focus()
	s.SetCaret(Position{Node: s.Root().FirstChild(), Offset: 3})
	before := s.Chips()[0]

	s.SetText("hello\n![Flowchart](/m/123.png)\n")

	if after := s.Chips()[0]; after != before {
		t.Error("chip node replaced by upload completion")
	}
	c := s.Caret()
	if c.Node != s.Root().FirstChild() || c.Offset != 3 {
		t.Errorf("caret moved to %+v", c)
	}
	if rebuilds, patches := s.Stats(); rebuilds != 0 || patches != 1 {
		t.Errorf("stats = %d rebuilds, %d patches", rebuilds, patches)
	}
	if len(rec.texts) != 0 {
		t.Errorf("SetText notified listeners: %v", rec.texts)
	}
	checkInvariant(t, s)
}

func TestSetTextStructuralKeepsCaretOffset(t *testing.T) {
	s, _ := newSurface(t, "hello world")
	s.Focus()
	s.SetCaretOffset(5)

	s.SetText("hello world\n![x](uploading:blob:1)\n")

	if off := s.CaretOffset(); off != 5 {
		t.Errorf("caret offset = %d, want 5", off)
	}
	if rebuilds, _ := s.Stats(); rebuilds != 1 {
		t.Errorf("rebuilds = %d, want 1", rebuilds)
	}
	checkInvariant(t, s)
}

func TestSetTextRemovalBeforeCaret(t *testing.T) {
	s, _ := newSurface(t, "![x](uploading:blob:1)\nhello world")
	s.Focus()
	s.SetCaretOffset(len("![x](uploading:blob:1)\nhello"))

	s.SetText("hello world")

	if off := s.CaretOffset(); off != 5 {
		t.Errorf("caret offset = %d, want 5", off)
	}
	s.HandleKey(Char(','))
	if want := "hello, world"; s.Text() != want {
		t.Errorf("text = %q, want %q", s.Text(), want)
	}
	checkInvariant(t, s)
}

func TestShiftOffset(t *testing.T) {
	for _, tc := range []struct {
		old, new string
		off, want int
	}{
		{"abc", "abcdef", 2, 2},
		{"XYabc", "abc", 3, 1},
		{"abc", "XYabc", 1, 3},
		{"aXXXb", "aYb", 2, 2},
		{"aXXXb", "aYb", 5, 3},
		{"same", "same", 4, 4},
	} {
		if got := shiftOffset(tc.old, tc.new, tc.off); got != tc.want {
			t.Errorf("shiftOffset(%q, %q, %d) = %d, want %d", tc.old, tc.new, tc.off, got, tc.want)
		}
	}
}

func TestSetCaretIgnoresDetachedNode(t *testing.T) {
	s, _ := newSurface(t, "hello")
	s.Focus()
	stale := s.Root().FirstChild()
	s.SetText("hello ![x](/m/1.png)")

	before := s.Caret()
	s.SetCaret(Position{Node: stale, Offset: 2})
	if s.Caret() != before {
		t.Fatalf("caret moved to detached node")
	}
	s.HandleKey(Char('!'))
	checkInvariant(t, s)
}

func TestSetTextSameValueIsNoop(t *testing.T) {
	s, _ := newSurface(t, "abc")
	root := s.Root()
	s.SetText("abc")
	if s.Root() != root {
		t.Error("same text rebuilt the tree")
	}
}

func TestEmptySurfaceIsFocusable(t *testing.T) {
	s, rec := newSurface(t, "")
	root := s.Root()
	if root.Len() != 1 || !root.FirstChild().IsFiller() {
		t.Fatalf("empty surface has %d children", root.Len())
	}
	s.Focus()
	s.HandleKey(Char('h'))
	s.HandleKey(Char('i'))
	if s.Text() != "hi" || rec.last() != "hi" {
		t.Errorf("text = %q, last change %q", s.Text(), rec.last())
	}
	checkInvariant(t, s)
}

func TestInsertAtCursor(t *testing.T) {
	s, rec := newSurface(t, "before after")
	if s.InsertAtCursor("![x](uploading:blob:1)\n") {
		t.Fatal("InsertAtCursor succeeded without focus")
	}

	s.Focus()
	s.SetCaret(Position{Node: s.Root().FirstChild(), Offset: len("before ")})
	if !s.InsertAtCursor("![x](uploading:blob:1)\n") {
		t.Fatal("InsertAtCursor failed")
	}
	want := "before ![x](uploading:blob:1)\nafter"
	if s.Text() != want || rec.last() != want {
		t.Errorf("text = %q, want %q", s.Text(), want)
	}
	if n := len(s.Chips()); n != 1 {
		t.Errorf("chips = %d, want 1", n)
	}
	// The caret follows the inserted fragment.
	s.HandleKey(Char('!'))
	if want := "before ![x](uploading:blob:1)\n!after"; s.Text() != want {
		t.Errorf("typed after insert: %q, want %q", s.Text(), want)
	}
	checkInvariant(t, s)
}

func TestTypingImageSyntaxCreatesChip(t *testing.T) {
	s, _ := newSurface(t, "")
	s.Focus()
	for _, r := range "![a](/m/1.png)" {
		s.HandleKey(Char(r))
	}
	if n := len(s.Chips()); n != 1 {
		t.Fatalf("chips = %d, want 1", n)
	}
	s.HandleKey(Char('x'))
	if want := "![a](/m/1.png)x"; s.Text() != want {
		t.Errorf("text = %q, want %q", s.Text(), want)
	}
	checkInvariant(t, s)
}

func TestEditingKeys(t *testing.T) {
	s, _ := newSurface(t, "ab")
	s.Focus()
	s.HandleKey(Key{Code: KeyEnter})
	s.HandleKey(Char('c'))
	if s.Text() != "ab\nc" {
		t.Fatalf("text = %q", s.Text())
	}
	s.HandleKey(Key{Code: KeyBackspace})
	s.HandleKey(Key{Code: KeyBackspace})
	if s.Text() != "ab" {
		t.Fatalf("after backspace text = %q", s.Text())
	}
	s.HandleKey(Key{Code: KeyHome})
	s.HandleKey(Key{Code: KeyDelete})
	if s.Text() != "b" {
		t.Fatalf("after delete text = %q", s.Text())
	}
	s.HandleKey(Key{Code: KeyDelete})
	s.HandleKey(Key{Code: KeyDelete})
	if s.Text() != "" || !s.Root().FirstChild().IsFiller() {
		t.Fatalf("emptied surface: text %q", s.Text())
	}
	checkInvariant(t, s)
}

func TestArrowKeysStepOverChips(t *testing.T) {
	s, _ := newSurface(t, "a![x](/m/1.png)b")
	s.Focus()
	s.HandleKey(Key{Code: KeyHome})
	s.HandleKey(Key{Code: KeyRight}) // after "a"
	s.HandleKey(Key{Code: KeyRight}) // after chip
	if chip := s.AdjacentChip(Backward); chip == nil {
		t.Fatal("caret is not after the chip")
	}
	s.HandleKey(Key{Code: KeyLeft})
	if chip := s.AdjacentChip(Forward); chip == nil {
		t.Fatal("caret is not before the chip")
	}
	if off := s.CaretOffset(); off != 1 {
		t.Errorf("caret offset = %d, want 1", off)
	}
}
