package rich

import (
	"testing"

	"github.com/slidecraft/chipedit/markdown"
)

func TestReconcileIncrementalPatch(t *testing.T) {
	oldText := "intro\n![a](uploading:blob:1)\nmiddle\n![b](uploading:blob:2)\n"
	newText := "intro\n![a](uploading:blob:1)\nmiddle\n![B](/m/2.png)\n"

	root := BuildText(oldText)
	textNode := root.FirstChild()
	chips := Chips(root)

	got, change := Reconcile(root, oldText, newText)
	if change.Structural {
		t.Fatal("upload completion classified as structural")
	}
	if got != root {
		t.Fatal("incremental patch replaced the root")
	}
	if root.FirstChild() != textNode {
		t.Error("text node identity changed")
	}
	after := Chips(root)
	if after[0] != chips[0] || after[1] != chips[1] {
		t.Error("chip nodes were replaced")
	}
	if after[0].Chip.Raw() != "![a](uploading:blob:1)" {
		t.Errorf("untouched chip changed: %q", after[0].Chip.Raw())
	}
	if after[1].Chip.Raw() != "![B](/m/2.png)" || after[1].Chip.Uploading() {
		t.Errorf("patched chip = %q", after[1].Chip.Raw())
	}
	if s := Serialize(root); s != newText {
		t.Errorf("Serialize = %q, want %q", s, newText)
	}
}

func TestReconcileStructural(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
	}{
		{"typing", "abc", "abcd"},
		{"placeholder inserted", "", "![d](uploading:blob:1)\n"},
		{"placeholder removed", "x\n![d](uploading:blob:1)\n", "x\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := BuildText(tc.old)
			got, change := Reconcile(root, tc.old, tc.new)
			if !change.Structural {
				t.Fatal("expected structural change")
			}
			if got == root {
				t.Error("structural change kept the old root")
			}
			if s := Serialize(got); s != tc.new {
				t.Errorf("Serialize = %q, want %q", s, tc.new)
			}
		})
	}
}

func TestReconcileUnchangedAndNil(t *testing.T) {
	text := "a ![x](u) b"
	root := BuildText(text)
	if got, _ := Reconcile(root, text, text); got != root {
		t.Error("unchanged text rebuilt the tree")
	}
	got, change := Reconcile(nil, "", text)
	if got == nil || Serialize(got) != text {
		t.Errorf("Reconcile(nil) = %v", got)
	}
	if !change.Structural {
		t.Error("nil root should report structural change")
	}
}

func TestReconcileDivergedTreeRebuilds(t *testing.T) {
	oldText := "![a](uploading:1) ![b](uploading:2)"
	newText := "![a](/m/1.png) ![b](uploading:2)"
	root := BuildText(oldText)
	Chips(root)[1].Remove()

	got, change := Reconcile(root, oldText, newText)
	if !change.Structural || got == root {
		t.Fatal("diverged tree was patched in place")
	}
	if Serialize(got) != newText {
		t.Errorf("Serialize = %q", Serialize(got))
	}
}

// Every patch keeps the chip count equal to the image count of the text.
func TestReconcileChipCountInvariant(t *testing.T) {
	steps := []string{
		"",
		"![a](uploading:1)\n",
		"![a](uploading:1)\n![b](uploading:2)\n",
		"![a](uploading:1)\n![B](/m/2.png)\n",
		"![A](/m/1.png)\n![B](/m/2.png)\n",
		"![B](/m/2.png)\n",
		"typed ![B](/m/2.png)\n",
	}
	var root *Node
	prev := ""
	for _, text := range steps {
		root, _ = Reconcile(root, prev, text)
		if got, want := len(Chips(root)), markdown.ImageCount(markdown.Parse(text)); got != want {
			t.Errorf("text %q: %d chips, want %d", text, got, want)
		}
		if Serialize(root) != text {
			t.Errorf("Serialize = %q, want %q", Serialize(root), text)
		}
		prev = text
	}
}
