// Package rich holds the visual tree of the editing surface: text runs,
// hard line breaks, block groupings and atomic image chips. The tree is a
// derived view of the markdown text; Build creates it from segments and
// Serialize turns it back into text.
package rich

// NodeKind identifies the kind of a Node.
type NodeKind int

const (
	NodeRoot NodeKind = iota
	NodeText
	NodeBreak
	NodeBlock
	NodeChip
)

func (k NodeKind) String() string {
	switch k {
	case NodeRoot:
		return "root"
	case NodeText:
		return "text"
	case NodeBreak:
		return "break"
	case NodeBlock:
		return "block"
	case NodeChip:
		return "chip"
	}
	return "unknown"
}

// Node is an element of the visual tree. Only NodeRoot and NodeBlock have
// children.
type Node struct {
	Kind NodeKind
	Text string // NodeText content
	Chip *Chip  // NodeChip payload

	// filler marks the line break rendered into an otherwise empty tree.
	// It keeps the surface clickable and serializes to nothing.
	filler bool

	parent   *Node
	children []*Node
}

// NewRoot returns an empty root node.
func NewRoot() *Node { return &Node{Kind: NodeRoot} }

// NewText returns a text node holding s.
func NewText(s string) *Node { return &Node{Kind: NodeText, Text: s} }

// NewBreak returns a hard line break.
func NewBreak() *Node { return &Node{Kind: NodeBreak} }

// NewBlock returns an empty block grouping node.
func NewBlock() *Node { return &Node{Kind: NodeBlock} }

// NewChipNode returns a node wrapping c.
func NewChipNode(c *Chip) *Node { return &Node{Kind: NodeChip, Chip: c} }

func newFiller() *Node { return &Node{Kind: NodeBreak, filler: true} }

// IsFiller reports whether n is the placeholder break of an empty tree.
func (n *Node) IsFiller() bool { return n.filler }

// IsContainer reports whether n can hold children.
func (n *Node) IsContainer() bool {
	return n.Kind == NodeRoot || n.Kind == NodeBlock
}

// Parent returns the parent of n, or nil for a detached node.
func (n *Node) Parent() *Node { return n.parent }

// Len returns the number of children of n.
func (n *Node) Len() int { return len(n.children) }

// Child returns the i-th child of n, or nil if i is out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Children returns a copy of the child list of n.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// FirstChild returns the first child of n or nil.
func (n *Node) FirstChild() *Node { return n.Child(0) }

// LastChild returns the last child of n or nil.
func (n *Node) LastChild() *Node { return n.Child(len(n.children) - 1) }

// Index returns the position of n among its siblings, or -1 when detached.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

// PrevSibling returns the sibling before n or nil.
func (n *Node) PrevSibling() *Node {
	i := n.Index()
	if i <= 0 {
		return nil
	}
	return n.parent.children[i-1]
}

// NextSibling returns the sibling after n or nil.
func (n *Node) NextSibling() *Node {
	i := n.Index()
	if i < 0 {
		return nil
	}
	return n.parent.Child(i + 1)
}

// AppendChild adds c as the last child of n, detaching it first.
func (n *Node) AppendChild(c *Node) {
	c.Remove()
	c.parent = n
	n.children = append(n.children, c)
}

// InsertAt inserts c as the i-th child of n. i is clamped to [0, Len()].
func (n *Node) InsertAt(i int, c *Node) {
	c.Remove()
	if i < 0 {
		i = 0
	}
	if i > len(n.children) {
		i = len(n.children)
	}
	c.parent = n
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = c
}

// InsertBefore inserts c in front of ref, which must be a child of n. A nil
// ref appends.
func (n *Node) InsertBefore(c, ref *Node) {
	if ref == nil || ref.parent != n {
		n.AppendChild(c)
		return
	}
	n.InsertAt(ref.Index(), c)
}

// Remove detaches n from its parent. It is a no-op for detached nodes.
func (n *Node) Remove() {
	p := n.parent
	if p == nil {
		return
	}
	i := n.Index()
	p.children = append(p.children[:i], p.children[i+1:]...)
	n.parent = nil
}

// RemoveChildren detaches every child of n.
func (n *Node) RemoveChildren() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

// Walk calls fn for n and its descendants in depth-first document order.
// Returning false from fn skips the children of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children() {
		c.Walk(fn)
	}
}

// Contains reports whether d is n or a descendant of n.
func (n *Node) Contains(d *Node) bool {
	for ; d != nil; d = d.parent {
		if d == n {
			return true
		}
	}
	return false
}
