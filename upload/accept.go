package upload

import (
	"mime"
	"path"
	"strings"
)

// DefaultAcceptedTypes is the client-side image allow-list.
var DefaultAcceptedTypes = []string{
	"image/png",
	"image/jpeg",
	"image/gif",
	"image/webp",
	"image/svg+xml",
	"image/bmp",
}

// Filter splits files into accepted images and rejected files.
func Filter(files []File, accepted []string) (ok, rejected []File) {
	allow := make(map[string]bool, len(accepted))
	for _, t := range accepted {
		allow[normalizeType(t)] = true
	}
	for _, f := range files {
		if allow[fileType(f)] {
			ok = append(ok, f)
		} else {
			rejected = append(rejected, f)
		}
	}
	return ok, rejected
}

// fileType returns the normalized MIME type of f, falling back to the
// type registered for its extension.
func fileType(f File) string {
	if t := normalizeType(f.Type); t != "" {
		return t
	}
	return normalizeType(mime.TypeByExtension(strings.ToLower(path.Ext(f.Name))))
}

func normalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	if t == "image/jpg" {
		t = "image/jpeg"
	}
	return t
}

// RejectedLabels names rejected files by extension, or by their raw type
// when they have no extension. Duplicates are dropped.
func RejectedLabels(files []File) []string {
	seen := make(map[string]bool)
	var labels []string
	for _, f := range files {
		label := strings.TrimPrefix(strings.ToLower(path.Ext(f.Name)), ".")
		if label == "" {
			label = f.Type
		}
		if label == "" {
			label = "unknown"
		}
		if !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}
	return labels
}
