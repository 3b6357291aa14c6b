package rich

import (
	"strings"

	"github.com/slidecraft/chipedit/markdown"
)

// Build creates a visual tree from segs. Text segments become text nodes
// separated by hard breaks at each newline; image segments become chips.
// A tree with no content gets a single filler break.
func Build(segs []markdown.Segment) *Node {
	root := NewRoot()
	for _, s := range segs {
		switch s.Kind {
		case markdown.KindText:
			appendText(root, s.Text)
		case markdown.KindImage:
			root.AppendChild(NewChipNode(NewChip(s)))
		}
	}
	if root.Len() == 0 {
		root.AppendChild(newFiller())
	}
	return root
}

// BuildText parses text and builds its tree.
func BuildText(text string) *Node {
	return Build(markdown.Parse(text))
}

func appendText(parent *Node, text string) {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			parent.AppendChild(NewBreak())
		}
		if line != "" {
			parent.AppendChild(NewText(line))
		}
	}
}

// Serialize returns the markdown text represented by the tree rooted at n.
// Text nodes contribute their content, breaks a newline, chips their raw
// fragment and blocks a leading newline unless they are the first child.
func Serialize(n *Node) string {
	var b strings.Builder
	serialize(&b, n)
	return b.String()
}

func serialize(b *strings.Builder, n *Node) {
	switch n.Kind {
	case NodeText:
		b.WriteString(n.Text)
		return
	case NodeBreak:
		if !n.filler {
			b.WriteByte('\n')
		}
		return
	case NodeChip:
		b.WriteString(n.Chip.Raw())
		return
	case NodeBlock:
		if n.Index() > 0 {
			b.WriteByte('\n')
		}
	}
	for _, c := range n.children {
		serialize(b, c)
	}
}

// Chips returns the chip nodes under n in document order.
func Chips(n *Node) []*Node {
	var chips []*Node
	n.Walk(func(c *Node) bool {
		if c.Kind == NodeChip {
			chips = append(chips, c)
		}
		return true
	})
	return chips
}
