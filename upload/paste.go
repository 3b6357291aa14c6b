package upload

import "context"

// PasteItem is one entry of a clipboard paste. File is nil for non-file
// items such as plain text.
type PasteItem struct {
	Kind string // "file" or "string"
	Type string
	File *File
}

// PasteEvent carries the clipboard items of a paste.
type PasteEvent struct {
	Items []PasteItem
}

// HandlePaste routes the accepted image files of a paste into Submit. It
// returns the started batch and true when the host must suppress its
// default paste, which happens only if at least one accepted image was
// found. Plain-text pastes pass through untouched. When the paste carried
// files but none were accepted, the unsupported-type warning is shown and
// the default paste still proceeds.
func (o *Orchestrator) HandlePaste(ctx context.Context, ev PasteEvent) (*Batch, bool) {
	var files []File
	for _, it := range ev.Items {
		if it.Kind != "file" || it.File == nil {
			continue
		}
		f := *it.File
		if f.Type == "" {
			f.Type = it.Type
		}
		files = append(files, f)
	}
	if len(files) == 0 {
		return nil, false
	}
	accepted, _ := Filter(files, o.cfg.AcceptedTypes)
	if len(accepted) == 0 {
		return o.Submit(ctx, files), false
	}
	return o.Submit(ctx, accepted), true
}
