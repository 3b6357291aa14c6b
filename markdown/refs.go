package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var commonmark = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RemoteImageURLs returns the http and https image destinations referenced
// by text, in document order. Uploading placeholders, relative media paths
// and images inside code spans or fences are skipped. Unlike Parse, this
// reads the text as CommonMark, so it is meant for exporters that hand the
// text to other markdown tooling.
func RemoteImageURLs(src string) []string {
	if src == "" {
		return nil
	}
	source := []byte(src)
	doc := commonmark.Parser().Parse(text.NewReader(source))

	var urls []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		img, ok := n.(*ast.Image)
		if !ok {
			return ast.WalkContinue, nil
		}
		dest := strings.TrimSpace(string(img.Destination))
		if strings.HasPrefix(dest, "http://") || strings.HasPrefix(dest, "https://") {
			urls = append(urls, dest)
		}
		return ast.WalkSkipChildren, nil
	})
	return urls
}
