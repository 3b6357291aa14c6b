// Package markdown splits editor text into plain-text and image-reference
// segments and provides the helpers used to build image fragments.
package markdown

import "strings"

// UploadPrefix marks an image URL whose upload has not settled yet. The
// remainder of the URL is a transient local preview reference.
const UploadPrefix = "uploading:"

// FallbackAlt is shown for images written with an empty alt text. It is
// never written back into the text by the parser.
const FallbackAlt = "image"

// Kind identifies the variant of a Segment.
type Kind int

const (
	KindText Kind = iota
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	}
	return "unknown"
}

// Segment is one parsed unit of editor text. For KindText only Text is set.
// For KindImage, Raw holds the exact source fragment and Alt/URL its parts.
type Segment struct {
	Kind Kind
	Text string

	Alt string
	URL string
	Raw string
}

// TextSegment returns a KindText segment.
func TextSegment(s string) Segment {
	return Segment{Kind: KindText, Text: s}
}

// ImageSegment returns a KindImage segment with Raw built from alt and url.
func ImageSegment(alt, url string) Segment {
	return Segment{Kind: KindImage, Alt: alt, URL: url, Raw: Image(alt, url)}
}

// IsImage reports whether s is an image reference.
func (s Segment) IsImage() bool {
	return s.Kind == KindImage
}

// Uploading reports whether s is an image whose upload is still in flight.
func (s Segment) Uploading() bool {
	return s.Kind == KindImage && IsUploading(s.URL)
}

// DisplayAlt returns the alt text, or FallbackAlt when it is empty.
func (s Segment) DisplayAlt() string {
	if s.Alt == "" {
		return FallbackAlt
	}
	return s.Alt
}

// Source returns the exact text this segment was parsed from.
func (s Segment) Source() string {
	if s.Kind == KindImage {
		return s.Raw
	}
	return s.Text
}

// IsUploading reports whether url carries the upload sentinel.
func IsUploading(url string) bool {
	return strings.HasPrefix(url, UploadPrefix)
}

// PreviewRef returns the local preview reference of an uploading url, or
// url unchanged when it carries no sentinel.
func PreviewRef(url string) string {
	return strings.TrimPrefix(url, UploadPrefix)
}

// Parse splits text into segments. Image references have the form
// ![alt](url) where alt contains no ']' and url contains no ')'. Matches are
// taken left to right without overlap; everything else, including malformed
// bracket sequences and newlines, is kept verbatim in KindText segments.
// Parse never fails and adjacent text is always merged into one segment.
func Parse(text string) []Segment {
	var segs []Segment
	start := 0 // start of pending plain text
	i := 0

	flush := func(end int) {
		if end > start {
			segs = append(segs, TextSegment(text[start:end]))
		}
	}

	for i < len(text) {
		if text[i] != '!' || i+1 >= len(text) || text[i+1] != '[' {
			i++
			continue
		}
		altEnd := strings.IndexByte(text[i+2:], ']')
		if altEnd == -1 {
			i++
			continue
		}
		closeBracket := i + 2 + altEnd
		if closeBracket+1 >= len(text) || text[closeBracket+1] != '(' {
			i++
			continue
		}
		urlEnd := strings.IndexByte(text[closeBracket+2:], ')')
		if urlEnd == -1 {
			i++
			continue
		}
		end := closeBracket + 2 + urlEnd + 1

		flush(i)
		segs = append(segs, Segment{
			Kind: KindImage,
			Alt:  text[i+2 : closeBracket],
			URL:  text[closeBracket+2 : end-1],
			Raw:  text[i:end],
		})
		i = end
		start = end
	}
	flush(len(text))
	return segs
}

// ImageCount returns the number of image segments in segs.
func ImageCount(segs []Segment) int {
	n := 0
	for _, s := range segs {
		if s.Kind == KindImage {
			n++
		}
	}
	return n
}

// Join concatenates the source text of segs. Join(Parse(t)) == t.
func Join(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Source())
	}
	return b.String()
}
