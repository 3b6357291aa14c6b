package rich

import "image/color"

// ChipState is the upload state shown by a chip.
type ChipState int

const (
	ChipReady ChipState = iota
	ChipUploading
)

func (s ChipState) String() string {
	if s == ChipUploading {
		return "uploading"
	}
	return "ready"
}

// ChipStyle defines the presentation of a chip. It is derived from the
// chip's metadata and never feeds back into the text.
type ChipStyle struct {
	Fg color.Color
	Bg color.Color

	State    ChipState
	Icon     string // type icon for ready chips
	Spinner  bool   // uploading chips show a spinner instead of an icon
	Muted    bool
	Selected bool
	Editable bool
}

// Chip colors.
var (
	ChipFg         = color.RGBA{R: 33, G: 37, B: 41, A: 255}
	ChipBg         = color.RGBA{R: 232, G: 240, B: 254, A: 255}
	ChipMutedFg    = color.RGBA{R: 134, G: 142, B: 150, A: 255}
	ChipMutedBg    = color.RGBA{R: 241, G: 243, B: 245, A: 255}
	ChipSelectedBg = color.RGBA{R: 165, G: 198, B: 255, A: 255}
)

// MaxLabelRunes bounds the display name shown inside a chip.
const MaxLabelRunes = 24

// Icons keyed by lower-case file extension.
var chipIcons = map[string]string{
	".png":  "image",
	".jpg":  "image",
	".jpeg": "image",
	".webp": "image",
	".bmp":  "image",
	".gif":  "animation",
	".svg":  "vector",
}

// DefaultChipIcon is used when the extension is unknown.
const DefaultChipIcon = "image"
