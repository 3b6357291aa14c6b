package rich

import "github.com/slidecraft/chipedit/markdown"

// Reconcile brings the tree rooted at root, which renders oldText, in line
// with newText. Structural changes rebuild the tree and return a new root.
// When only image fragments changed, the affected chips are rebound in
// place and root is returned untouched otherwise, so text nodes and any
// caret inside them survive.
func Reconcile(root *Node, oldText, newText string) (*Node, markdown.Change) {
	oldSegs := markdown.Parse(oldText)
	newSegs := markdown.Parse(newText)
	change := markdown.Classify(oldSegs, newSegs)
	if root == nil || change.Structural {
		return Build(newSegs), change
	}
	if change.Unchanged() {
		return root, change
	}

	chips := Chips(root)
	if len(chips) != markdown.ImageCount(newSegs) {
		// The tree no longer renders oldText; never patch a diverged tree.
		change.Structural = true
		change.Patches = nil
		return Build(newSegs), change
	}
	for _, p := range change.Patches {
		chips[p.Index].Chip.Update(p.Segment)
	}
	return root, change
}
