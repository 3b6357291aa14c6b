package upload

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func fileItem(f File) PasteItem {
	return PasteItem{Kind: "file", Type: f.Type, File: &f}
}

func TestHandlePaste(t *testing.T) {
	for _, tc := range []struct {
		name         string
		items        []PasteItem
		wantSuppress bool
		wantBatch    bool
		wantNotes    []note
	}{
		{
			name:  "plain text",
			items: []PasteItem{{Kind: "string", Type: "text/plain"}},
		},
		{
			name:         "image",
			items:        []PasteItem{{Kind: "string", Type: "text/html"}, fileItem(png("shot.png"))},
			wantSuppress: true,
			wantBatch:    true,
			wantNotes:    []note{{MsgSuccessSingle, SeveritySuccess}},
		},
		{
			name:      "unsupported file",
			items:     []PasteItem{fileItem(File{Name: "a.zip", Type: "application/zip", Data: []byte("PK")})},
			wantBatch: true,
			wantNotes: []note{{MsgUnsupported + "{types=zip}", SeverityWarning}},
		},
		{
			name:  "file item without payload",
			items: []PasteItem{{Kind: "file", Type: "image/png"}},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, "")
			h.up.answer("shot.png", Result{URL: "/m/shot.png", Caption: "Shot"}, nil)

			b, suppress := h.o.HandlePaste(context.Background(), PasteEvent{Items: tc.items})
			if suppress != tc.wantSuppress {
				t.Errorf("suppress = %v, want %v", suppress, tc.wantSuppress)
			}
			if (b != nil) != tc.wantBatch {
				t.Fatalf("batch = %v, want batch %v", b, tc.wantBatch)
			}
			if b != nil {
				waitBatch(t, b)
			}
			if diff := cmp.Diff(tc.wantNotes, h.notes.list()); diff != "" {
				t.Errorf("notes (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHandlePasteTakesItemType(t *testing.T) {
	h := newHarness(t, "")
	h.up.answer("clip", Result{URL: "/m/clip.png", Caption: "Clip"}, nil)
	f := File{Name: "clip", Data: []byte("x")}
	item := PasteItem{Kind: "file", Type: "image/png", File: &f}

	b, suppress := h.o.HandlePaste(context.Background(), PasteEvent{Items: []PasteItem{item}})
	if !suppress || b == nil {
		t.Fatal("typed clipboard image not handled")
	}
	waitBatch(t, b)
	if got, want := h.store.Text(), "![Clip](/m/clip.png)\n"; got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}
