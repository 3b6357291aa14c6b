package rich

import (
	"path"
	"strings"

	"github.com/slidecraft/chipedit/markdown"
)

// Chip is the atomic visual form of an image reference. raw is the
// authoritative fragment written back on serialization; alt, url and the
// label are caches derived from it.
type Chip struct {
	raw string
	alt string
	url string

	label    string
	selected bool
}

// NewChip returns a chip bound to the image segment seg.
func NewChip(seg markdown.Segment) *Chip {
	c := &Chip{}
	c.bind(seg.Raw, seg.Alt, seg.URL)
	return c
}

func (c *Chip) bind(raw, alt, url string) {
	c.raw = raw
	c.alt = alt
	c.url = url
	c.label = markdown.Truncate(markdown.DisplayName(alt, url), MaxLabelRunes)
}

// Raw returns the markdown fragment the chip serializes to.
func (c *Chip) Raw() string { return c.raw }

// Alt returns the alt text of the image.
func (c *Chip) Alt() string { return c.alt }

// URL returns the image URL, including the upload sentinel if present.
func (c *Chip) URL() string { return c.url }

// Uploading reports whether the image's upload is still in flight.
func (c *Chip) Uploading() bool { return markdown.IsUploading(c.url) }

// Label returns the truncated display name.
func (c *Chip) Label() string { return c.label }

// Selected reports whether the chip is in the selected state.
func (c *Chip) Selected() bool { return c.selected }

// SetSelected sets the selected state.
func (c *Chip) SetSelected(v bool) { c.selected = v }

// Editable reports whether the chip's alt text may be edited in place.
func (c *Chip) Editable() bool { return !c.Uploading() }

// Style returns the presentation for the chip's current state.
func (c *Chip) Style() ChipStyle {
	s := ChipStyle{Fg: ChipFg, Bg: ChipBg, Selected: c.selected}
	if c.Uploading() {
		s.State = ChipUploading
		s.Spinner = true
		s.Muted = true
		s.Fg = ChipMutedFg
		s.Bg = ChipMutedBg
	} else {
		s.Icon = iconFor(c.url)
		s.Editable = true
	}
	if c.selected {
		s.Bg = ChipSelectedBg
	}
	return s
}

func iconFor(url string) string {
	ext := strings.ToLower(path.Ext(markdown.DisplayName("", url)))
	if icon, ok := chipIcons[ext]; ok {
		return icon
	}
	return DefaultChipIcon
}

// Update rebinds the chip to seg if its fragment differs and reports
// whether anything changed. Selection state is kept.
func (c *Chip) Update(seg markdown.Segment) bool {
	if seg.Raw == c.raw {
		return false
	}
	c.bind(seg.Raw, seg.Alt, seg.URL)
	return true
}

// Rename replaces the alt text, rewriting the fragment as ![alt](url). The
// alt is written as given apart from characters Parse cannot hold. A blank
// alt is written as the fallback alt.
func (c *Chip) Rename(alt string) {
	alt = markdown.CleanAlt(strings.TrimSpace(alt))
	if alt == "" {
		alt = markdown.FallbackAlt
	}
	c.bind(markdown.Image(alt, c.url), alt, c.url)
}
