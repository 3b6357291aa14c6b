package rich

import (
	"testing"

	"github.com/slidecraft/chipedit/markdown"
)

func chipFor(t *testing.T, frag string) *Chip {
	t.Helper()
	segs := markdown.Parse(frag)
	if len(segs) != 1 || !segs[0].IsImage() {
		t.Fatalf("%q is not a single image", frag)
	}
	return NewChip(segs[0])
}

func TestChipState(t *testing.T) {
	up := chipFor(t, "![diagram](uploading:blob:1)")
	if !up.Uploading() || up.Editable() {
		t.Errorf("placeholder chip: uploading=%v editable=%v", up.Uploading(), up.Editable())
	}
	s := up.Style()
	if s.State != ChipUploading || !s.Spinner || !s.Muted || s.Icon != "" || s.Editable {
		t.Errorf("uploading style = %+v", s)
	}
	if up.Label() != "diagram" {
		t.Errorf("label = %q", up.Label())
	}

	ready := chipFor(t, "![](/m/clip_1712345678901.gif)")
	s = ready.Style()
	if s.State != ChipReady || s.Spinner || s.Muted || !s.Editable || s.Icon != "animation" {
		t.Errorf("ready style = %+v", s)
	}
	if ready.Label() != "clip.gif" {
		t.Errorf("label = %q", ready.Label())
	}

	ready.SetSelected(true)
	if !ready.Style().Selected || ready.Style().Bg != ChipSelectedBg {
		t.Error("selected chip not highlighted")
	}
}

func TestChipRename(t *testing.T) {
	c := chipFor(t, "![image](/m/45.png)")
	c.Rename("Q3 Revenue")
	if c.Raw() != "![Q3 Revenue](/m/45.png)" {
		t.Errorf("raw = %q", c.Raw())
	}
	if c.Alt() != "Q3 Revenue" || c.Label() != "Q3 Revenue" || c.URL() != "/m/45.png" {
		t.Errorf("metadata = %q %q %q", c.Alt(), c.Label(), c.URL())
	}

	c.Rename("   ")
	if c.Raw() != "![image](/m/45.png)" || c.Label() != "45.png" {
		t.Errorf("blank rename: raw %q label %q", c.Raw(), c.Label())
	}

	c.Rename("a]b")
	if segs := markdown.Parse(c.Raw()); len(segs) != 1 || segs[0].Raw != c.Raw() {
		t.Errorf("renamed fragment %q no longer parses as one image", c.Raw())
	}

	c.Rename(`my_chart C:\tmp`)
	if want := `![my_chart C:\tmp](/m/45.png)`; c.Raw() != want {
		t.Errorf("raw = %q, want %q", c.Raw(), want)
	}
}

func TestChipUpdate(t *testing.T) {
	c := chipFor(t, "![diagram](uploading:blob:1)")
	c.SetSelected(true)
	if c.Update(markdown.Parse("![diagram](uploading:blob:1)")[0]) {
		t.Error("Update with identical fragment reported a change")
	}
	if !c.Update(markdown.Parse("![Flowchart](/m/123.png)")[0]) {
		t.Fatal("Update did not report change")
	}
	if c.Uploading() || c.Label() != "Flowchart" || c.Raw() != "![Flowchart](/m/123.png)" {
		t.Errorf("after update: uploading=%v label=%q raw=%q", c.Uploading(), c.Label(), c.Raw())
	}
	if !c.Selected() {
		t.Error("Update dropped selection")
	}
}
