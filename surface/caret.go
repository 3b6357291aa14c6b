package surface

import (
	"unicode/utf8"

	"github.com/slidecraft/chipedit/rich"
)

// Position is a caret location. It takes one of two forms: inside a text
// node, where Offset is a byte offset into its content, or inside a
// container node, where Offset is a child index.
type Position struct {
	Node   *rich.Node
	Offset int
}

// Valid reports whether p addresses a node.
func (p Position) Valid() bool { return p.Node != nil }

// InText reports whether p is the text-node form.
func (p Position) InText() bool { return p.Node != nil && p.Node.Kind == rich.NodeText }

// Direction selects which side of the caret an operation looks at.
type Direction int

const (
	Backward Direction = iota
	Forward
)

// adjacentChip returns the chip immediately before (Backward) or after
// (Forward) the caret, or nil.
func adjacentChip(p Position, dir Direction) *rich.Node {
	if !p.Valid() {
		return nil
	}
	var n *rich.Node
	if p.InText() {
		switch {
		case dir == Backward && p.Offset == 0:
			n = p.Node.PrevSibling()
		case dir == Forward && p.Offset >= len(p.Node.Text):
			n = p.Node.NextSibling()
		}
	} else if p.Node.IsContainer() {
		if dir == Backward {
			n = p.Node.Child(p.Offset - 1)
		} else {
			n = p.Node.Child(p.Offset)
		}
	}
	if n != nil && n.Kind == rich.NodeChip {
		return n
	}
	return nil
}

// normalize converts p to container form, splitting a text node when the
// caret sits in its middle.
func normalize(p Position) (parent *rich.Node, index int) {
	if !p.InText() {
		return p.Node, clamp(p.Offset, 0, p.Node.Len())
	}
	t := p.Node
	parent = t.Parent()
	i := t.Index()
	off := clamp(p.Offset, 0, len(t.Text))
	switch {
	case off == 0:
		return parent, i
	case off == len(t.Text):
		return parent, i + 1
	}
	tail := rich.NewText(t.Text[off:])
	t.Text = t.Text[:off]
	parent.InsertAt(i+1, tail)
	return parent, i + 1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// offsetOf returns the serialized text offset of p within root.
func offsetOf(root *rich.Node, p Position) int {
	if !p.Valid() {
		return 0
	}
	off := 0
	found := false
	var visit func(n *rich.Node)
	visit = func(n *rich.Node) {
		for i := 0; i < n.Len() && !found; i++ {
			c := n.Child(i)
			if !p.InText() && n == p.Node && i == p.Offset {
				found = true
				return
			}
			if c == p.Node && p.InText() {
				off += clamp(p.Offset, 0, len(c.Text))
				found = true
				return
			}
			off += leadLen(c)
			switch c.Kind {
			case rich.NodeBlock:
				visit(c)
			default:
				off += len(nodeText(c))
			}
		}
		if !found && !p.InText() && n == p.Node && p.Offset >= n.Len() {
			found = true
		}
	}
	visit(root)
	return off
}

// positionAt maps a serialized text offset back to a caret position.
// Offsets inside a chip's fragment land after the chip.
func positionAt(root *rich.Node, off int) Position {
	pos := 0
	var result Position
	var visit func(n *rich.Node) bool
	visit = func(n *rich.Node) bool {
		for i := 0; i < n.Len(); i++ {
			c := n.Child(i)
			pos += leadLen(c)
			if c.Kind == rich.NodeBlock {
				if visit(c) {
					return true
				}
				continue
			}
			l := len(nodeText(c))
			switch {
			case c.Kind == rich.NodeText && off <= pos+l:
				result = Position{Node: c, Offset: runeBoundary(c.Text, off-pos)}
				return true
			case off <= pos:
				result = Position{Node: n, Offset: i}
				return true
			case off < pos+l:
				result = Position{Node: n, Offset: i + 1}
				return true
			}
			pos += l
		}
		return false
	}
	if !visit(root) {
		result = Position{Node: root, Offset: root.Len()}
	}
	return result
}

// leadLen is the length a node contributes before its own content.
func leadLen(n *rich.Node) int {
	if n.Kind == rich.NodeBlock && n.Index() > 0 {
		return 1
	}
	return 0
}

func nodeText(n *rich.Node) string {
	switch n.Kind {
	case rich.NodeText:
		return n.Text
	case rich.NodeChip:
		return n.Chip.Raw()
	case rich.NodeBreak:
		if n.IsFiller() {
			return ""
		}
		return "\n"
	}
	return ""
}

func runeBoundary(s string, off int) int {
	off = clamp(off, 0, len(s))
	for off > 0 && off < len(s) && !utf8.RuneStart(s[off]) {
		off--
	}
	return off
}

// shiftOffset maps an offset in old to the matching offset in new. The
// changed region is the span between the common prefix and suffix of the
// two texts; offsets after it move by the length difference and offsets
// inside it land at the end of the replacement.
func shiftOffset(old, new string, off int) int {
	n := min(len(old), len(new))
	prefix := 0
	for prefix < n && old[prefix] == new[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < n-prefix && old[len(old)-1-suffix] == new[len(new)-1-suffix] {
		suffix++
	}
	switch {
	case off <= prefix:
		return off
	case off >= len(old)-suffix:
		return off + len(new) - len(old)
	default:
		return len(new) - suffix
	}
}
