// Package editor assembles the chip editor: an editing surface, the
// markdown text store it shares with in-flight uploads, and the upload
// orchestrator.
//
// The store holds the authoritative text. Every edit made through the
// Editor runs inside a store update, so a keystroke and an upload
// completion can never overwrite each other; store changes flow back into
// the surface through SetText.
package editor

import (
	"context"
	"log/slog"

	"github.com/slidecraft/chipedit/internal/logging"
	"github.com/slidecraft/chipedit/rich"
	"github.com/slidecraft/chipedit/surface"
	"github.com/slidecraft/chipedit/upload"
)

// Editor is one editor instance. Close must be called when it is torn
// down.
type Editor struct {
	store   *upload.TextStore
	surface *surface.Surface
	orch    *upload.Orchestrator
	logger  *slog.Logger
}

type options struct {
	logger     *slog.Logger
	uploadOpts []upload.Option
}

// Option configures an Editor.
type Option func(*options)

// WithLogger sets the logger shared by the surface and the orchestrator.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithUploadOptions passes options to the upload orchestrator.
func WithUploadOptions(opts ...upload.Option) Option {
	return func(o *options) { o.uploadOpts = append(o.uploadOpts, opts...) }
}

// New returns an editor showing text and uploading through up.
func New(text string, up upload.Uploader, opts ...Option) *Editor {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}

	e := &Editor{
		store:  upload.NewTextStore(text),
		logger: o.logger,
	}
	e.surface = surface.New(
		surface.WithText(text),
		surface.WithLogger(logging.NewComponentLogger(o.logger, "surface")),
	)
	uploadOpts := append([]upload.Option{
		upload.WithLogger(logging.NewComponentLogger(o.logger, "upload")),
	}, o.uploadOpts...)
	uploadOpts = append(uploadOpts, upload.WithInserter(e))
	e.orch = upload.New(e.store, up, uploadOpts...)

	e.store.Subscribe(func(_, text string) {
		e.surface.SetText(text)
	})
	return e
}

// Text returns the current markdown text.
func (e *Editor) Text() string { return e.store.Text() }

// SetText replaces the text from outside, as when the owning document
// changes. The surface reconciles without losing its caret.
func (e *Editor) SetText(text string) { e.store.Set(text) }

// OnChange registers fn to observe every change of the text, whether made
// by editing or by an upload settling. fn runs in mutation order while the
// text store is locked; it must not modify the editor.
func (e *Editor) OnChange(fn func(text string)) {
	e.store.Subscribe(func(_, text string) { fn(text) })
}

// Surface returns the editing surface for inspection. Edits must go
// through the Editor so they reach the text store.
func (e *Editor) Surface() *surface.Surface { return e.surface }

// edit runs fn against the surface inside a store update.
func (e *Editor) edit(fn func()) {
	e.store.Update(func(string) string {
		fn()
		return e.surface.Text()
	})
}

// HandleKey forwards a key event to the surface. It reports whether the
// key's default action was replaced by a chip action.
func (e *Editor) HandleKey(k surface.Key) (handled bool) {
	e.edit(func() { handled = e.surface.HandleKey(k) })
	return handled
}

// Click places the caret.
func (e *Editor) Click(p surface.Position) {
	e.edit(func() { e.surface.Click(p) })
}

// DoubleClick opens an in-place edit of chip.
func (e *Editor) DoubleClick(chip *rich.Node) (ok bool) {
	e.edit(func() { ok = e.surface.DoubleClick(chip) })
	return ok
}

// EditAlt updates the draft of the open chip edit.
func (e *Editor) EditAlt(draft string) { e.surface.EditAlt(draft) }

// CommitEdit applies the open chip edit.
func (e *Editor) CommitEdit() (changed bool) {
	e.edit(func() { changed = e.surface.CommitEdit() })
	return changed
}

// CancelEdit discards the open chip edit.
func (e *Editor) CancelEdit() { e.surface.CancelEdit() }

// Focus gives the editor keyboard focus.
func (e *Editor) Focus() { e.surface.Focus() }

// Blur removes focus, committing an open chip edit.
func (e *Editor) Blur() {
	e.edit(e.surface.Blur)
}

// InsertAtCursor inserts fragment at the caret. It returns false when the
// surface has no focus; the text is then unchanged.
func (e *Editor) InsertAtCursor(fragment string) (ok bool) {
	e.edit(func() { ok = e.surface.InsertAtCursor(fragment) })
	return ok
}

// Submit uploads files picked by the user.
func (e *Editor) Submit(ctx context.Context, files []upload.File) *upload.Batch {
	return e.orch.Submit(ctx, files)
}

// HandleDrop uploads files dropped onto the editor.
func (e *Editor) HandleDrop(ctx context.Context, files []upload.File) *upload.Batch {
	return e.orch.Submit(ctx, files)
}

// HandlePaste uploads the images of a paste. It reports whether the
// host's default paste must be suppressed.
func (e *Editor) HandlePaste(ctx context.Context, ev upload.PasteEvent) (*upload.Batch, bool) {
	return e.orch.HandlePaste(ctx, ev)
}

// Uploading reports whether any upload is in flight.
func (e *Editor) Uploading() bool { return e.orch.Uploading() }

// OnUploadingChange registers fn to be called when Uploading flips.
func (e *Editor) OnUploadingChange(fn func(uploading bool)) {
	e.orch.Session().OnUploadingChange(fn)
}

// Close releases the preview references still held by unsettled uploads.
func (e *Editor) Close() {
	e.orch.Close()
	e.logger.Debug("editor closed", slog.Bool("uploading", e.orch.Uploading()))
}

var _ upload.Inserter = (*Editor)(nil)
