package markdown

// Patch describes an image whose fragment changed in place. Index counts
// image segments only, so it addresses the Index-th chip of a rendered tree.
type Patch struct {
	Index   int
	Segment Segment
}

// Change classifies the difference between two segment sequences.
type Change struct {
	// Structural is true when the sequences differ in length, in the kind
	// of any position, or in the content of any text segment. A structural
	// change requires the visual tree to be rebuilt.
	Structural bool

	// Patches lists the image segments whose Raw changed. Only set when
	// Structural is false.
	Patches []Patch
}

// Unchanged reports whether the two sequences were identical.
func (c Change) Unchanged() bool {
	return !c.Structural && len(c.Patches) == 0
}

// Classify compares old and new segment sequences position by position.
func Classify(old, new []Segment) Change {
	if len(old) != len(new) {
		return Change{Structural: true}
	}
	var patches []Patch
	img := 0
	for i := range old {
		o, n := old[i], new[i]
		if o.Kind != n.Kind {
			return Change{Structural: true}
		}
		switch o.Kind {
		case KindText:
			if o.Text != n.Text {
				return Change{Structural: true}
			}
		case KindImage:
			if o.Raw != n.Raw {
				patches = append(patches, Patch{Index: img, Segment: n})
			}
			img++
		}
	}
	return Change{Patches: patches}
}

// ClassifyText parses both texts and classifies the change between them.
func ClassifyText(oldText, newText string) Change {
	return Classify(Parse(oldText), Parse(newText))
}
