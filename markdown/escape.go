package markdown

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

var altEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`#`, `\#`,
	`|`, `\|`,
	`[`, `(`,
	`]`, `)`,
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
)

var altUnescaper = strings.NewReplacer(
	`\\`, `\`,
	"\\`", "`",
	`\*`, `*`,
	`\_`, `_`,
	`\#`, `#`,
	`\|`, `|`,
)

// EscapeAlt makes s safe to use as the alt text of an image reference.
// Inline markup characters are backslash escaped. Square brackets become
// parentheses and newlines become spaces since Parse cannot represent them
// inside alt text.
func EscapeAlt(s string) string {
	return altEscaper.Replace(s)
}

var altCleaner = strings.NewReplacer(
	`]`, `)`,
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
)

// CleanAlt replaces only the characters that would end alt text early or
// split the reference across lines. Everything else, backslashes
// included, is kept as typed.
func CleanAlt(s string) string {
	return altCleaner.Replace(s)
}

// UnescapeAlt reverses the backslash escapes added by EscapeAlt.
func UnescapeAlt(s string) string {
	return altUnescaper.Replace(s)
}

// StripExt returns name without its final extension. Dot files such as
// ".png" are returned unchanged.
func StripExt(name string) string {
	ext := path.Ext(name)
	if ext == "" || ext == name {
		return name
	}
	return strings.TrimSuffix(name, ext)
}

// AltFromFilename derives escaped alt text from an uploaded file's name.
func AltFromFilename(name string) string {
	base := StripExt(path.Base(strings.ReplaceAll(name, `\`, "/")))
	if base == "" || base == "." || base == "/" {
		base = FallbackAlt
	}
	return EscapeAlt(base)
}

// Image returns the image reference fragment ![alt](url). alt must already
// be escaped and url must not contain ')'.
func Image(alt, url string) string {
	return "![" + alt + "](" + url + ")"
}

// timestampInfix matches names such as "chart_1712345678901.png" that
// carry a numeric upload timestamp in front of the extension.
var timestampInfix = regexp.MustCompile(`^(.+?)[_-]\d{10,13}(\.[A-Za-z0-9]+)$`)

// DisplayName returns the label shown for an image chip. A meaningful alt
// text wins; otherwise the name comes from the last path element of url with
// any timestamp infix removed and percent escapes decoded.
func DisplayName(alt, rawURL string) string {
	if alt != "" && alt != FallbackAlt {
		return UnescapeAlt(alt)
	}
	name := filenameOf(rawURL)
	if name == "" {
		return FallbackAlt
	}
	trimmed := name
	if m := timestampInfix.FindStringSubmatch(name); m != nil {
		trimmed = m[1] + m[2]
	}
	decoded, err := url.PathUnescape(trimmed)
	if err != nil {
		return name
	}
	return decoded
}

func filenameOf(rawURL string) string {
	u := PreviewRef(rawURL)
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	u = strings.TrimRight(u, "/")
	if i := strings.LastIndexByte(u, '/'); i >= 0 {
		u = u[i+1:]
	}
	return u
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
