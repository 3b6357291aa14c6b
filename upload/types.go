// Package upload turns picked, pasted or dropped image files into
// placeholder image references, uploads them concurrently and rewrites
// each placeholder to its final reference, or removes it, as each upload
// settles.
package upload

import (
	"context"
	"errors"
)

// File is an image file offered to the editor.
type File struct {
	Name string
	Type string // MIME type as reported by the source; may be empty
	Data []byte
}

// Result is a successful upload response.
type Result struct {
	URL     string
	Caption string
}

// Uploader stores a file and returns where it can be fetched. containerID
// is empty when the upload is not scoped to a container.
type Uploader interface {
	Upload(ctx context.Context, f File, containerID string, wantCaption bool) (Result, error)
}

// UploaderFunc adapts a function to the Uploader interface.
type UploaderFunc func(ctx context.Context, f File, containerID string, wantCaption bool) (Result, error)

// Upload calls fn.
func (fn UploaderFunc) Upload(ctx context.Context, f File, containerID string, wantCaption bool) (Result, error) {
	return fn(ctx, f, containerID, wantCaption)
}

// Severity classifies a notification.
type Severity int

const (
	SeveritySuccess Severity = iota
	SeverityError
	SeverityInfo
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	}
	return "unknown"
}

// Notifier displays a message to the user. Notify must not block.
type Notifier interface {
	Notify(message string, sev Severity)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string, sev Severity)

// Notify calls fn.
func (fn NotifierFunc) Notify(message string, sev Severity) { fn(message, sev) }

// Translator resolves a message key with named parameters.
type Translator interface {
	T(key string, params map[string]any) string
}

// Inserter inserts a markdown fragment at the editing caret. It returns
// false when no caret is available.
type Inserter interface {
	InsertAtCursor(fragment string) bool
}

// ErrNoURL reports an upload response without a final URL.
var ErrNoURL = errors.New("upload response has no url")

// ErrClosed is returned for work started after the session was closed.
var ErrClosed = errors.New("upload session closed")
