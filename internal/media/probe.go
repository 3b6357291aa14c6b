package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// MaxDimension bounds the width and height of stored images.
const MaxDimension = 16384

// ErrTooLarge reports an image exceeding MaxDimension.
var ErrTooLarge = errors.New("image too large")

// Info describes an image without decoding its pixels.
type Info struct {
	Format string // png, jpeg, gif, webp, bmp or svg
	Width  int
	Height int
}

// Probe reads the header of data. SVG documents are recognized but have no
// pixel size.
func Probe(data []byte) (Info, error) {
	if isSVG(data) {
		return Info{Format: "svg"}, nil
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return Info{}, fmt.Errorf("%w: %dx%d (max %dx%d)", ErrTooLarge,
			cfg.Width, cfg.Height, MaxDimension, MaxDimension)
	}
	return Info{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

func isSVG(data []byte) bool {
	head := strings.ToLower(string(data[:min(len(data), 512)]))
	return strings.Contains(head, "<svg")
}

// ResolutionClass buckets an image by its larger dimension: "1K" below
// 1500 pixels, "2K" below 3000, "4K" otherwise. Images without a pixel
// size have no class.
func ResolutionClass(width, height int) string {
	m := max(width, height)
	switch {
	case m <= 0:
		return ""
	case m < 1500:
		return "1K"
	case m < 3000:
		return "2K"
	}
	return "4K"
}

// MIMEType returns the MIME type of a probed format.
func (i Info) MIMEType() string {
	if i.Format == "svg" {
		return "image/svg+xml"
	}
	return "image/" + i.Format
}

// Ext returns the file extension stored files of this format get.
func (i Info) Ext() string {
	switch i.Format {
	case "jpeg":
		return ".jpg"
	case "svg":
		return ".svg"
	}
	return "." + i.Format
}
