package upload

import (
	"strings"

	"github.com/slidecraft/chipedit/markdown"
)

// Placeholder is one file accepted into a batch, from insertion of its
// provisional fragment until its upload settles.
type Placeholder struct {
	File     File
	Preview  string // local preview handle
	Fragment string // ![alt](uploading:<preview>)
}

func newPlaceholder(f File, preview string) Placeholder {
	return Placeholder{
		File:     f,
		Preview:  preview,
		Fragment: markdown.Image(markdown.AltFromFilename(f.Name), markdown.UploadPrefix+preview),
	}
}

// batchText joins fragments into the block inserted at the caret.
func batchText(frags []string) string {
	return strings.Join(frags, "\n") + "\n"
}

// appendMissing appends the fragments not already present in text,
// separated from existing content by a newline.
func appendMissing(text string, frags []string) string {
	var missing []string
	for _, f := range frags {
		if !strings.Contains(text, f) {
			missing = append(missing, f)
		}
	}
	if len(missing) == 0 {
		return text
	}
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text + batchText(missing)
}

// replaceFragment replaces the first occurrence of frag with repl.
func replaceFragment(text, frag, repl string) string {
	return strings.Replace(text, frag, repl, 1)
}

// removeFragment deletes the first occurrence of frag, together with the
// newline following it when there is one.
func removeFragment(text, frag string) string {
	if i := strings.Index(text, frag+"\n"); i >= 0 {
		return text[:i] + text[i+len(frag)+1:]
	}
	return strings.Replace(text, frag, "", 1)
}

// finalFragment returns the reference replacing a settled placeholder.
func finalFragment(name, caption, url string) string {
	alt := markdown.EscapeAlt(strings.TrimSpace(caption))
	if alt == "" {
		alt = markdown.AltFromFilename(name)
	}
	return markdown.Image(alt, sanitizeURL(url))
}

// sanitizeURL escapes characters that would end the reference early.
func sanitizeURL(url string) string {
	return strings.NewReplacer(")", "%29", " ", "%20", "\n", "").Replace(strings.TrimSpace(url))
}
