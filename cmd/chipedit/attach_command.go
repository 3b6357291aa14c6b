package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/slidecraft/chipedit/editor"
	"github.com/slidecraft/chipedit/internal/media"
	"github.com/slidecraft/chipedit/upload"
)

func newAttachCommand(ctx *commandContext) *cobra.Command {
	var output string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "attach FILE IMAGE...",
		Short: "Upload images into the media store and reference them from a markdown file",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			src, err := readFile(args[0])
			if err != nil {
				return err
			}
			files, err := readImages(args[1:])
			if err != nil {
				return err
			}

			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			store, err := media.Open(runContext(cmd), cfg.Media.Dir, cfg.Media.BaseURL, media.WithLogger(logger))
			if err != nil {
				return fmt.Errorf("open media store: %w", err)
			}
			defer store.Close()

			rec := &recordingUploader{store: store}
			out := cmd.OutOrStdout()
			ed := editor.New(src, rec,
				editor.WithLogger(logger),
				editor.WithUploadOptions(
					upload.WithConfig(upload.Config{
						AcceptedTypes: cfg.Upload.AcceptedTypes,
						WantCaption:   cfg.Upload.WantCaption,
						ContainerID:   cfg.Upload.ContainerID,
					}),
					upload.WithTranslator(ctx.catalog()),
					upload.WithNotifier(printNotifier(cmd.ErrOrStderr())),
				),
			)
			defer ed.Close()

			summary := ed.Submit(runContext(cmd), files).Wait()

			if items := rec.list(); len(items) > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"File", "Size", "Pixels", "Class", "URL"},
					itemRows(items),
					[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignLeft},
				))
			}

			text := ed.Text()
			switch {
			case dryRun:
				fmt.Fprint(out, text)
			case summary.Succeeded > 0 || summary.Failed > 0:
				target := output
				if target == "" {
					target = args[0]
				}
				if err := os.WriteFile(target, []byte(text), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", target, err)
				}
			}
			if summary.Succeeded == 0 {
				return fmt.Errorf("no image was attached")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the result here instead of FILE")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the result instead of writing it")
	return cmd
}

func runContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func readImages(paths []string) ([]upload.File, error) {
	files := make([]upload.File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		files = append(files, upload.File{Name: filepath.Base(p), Data: data})
	}
	return files, nil
}

func printNotifier(w io.Writer) upload.Notifier {
	var mu sync.Mutex
	return upload.NotifierFunc(func(msg string, sev upload.Severity) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(w, "[%s] %s\n", sev, msg)
	})
}

type attached struct {
	file string
	item *media.Item
}

// recordingUploader stores files in the media store and remembers what it
// stored for the report.
type recordingUploader struct {
	store *media.Store

	mu    sync.Mutex
	items []attached
}

func (r *recordingUploader) Upload(ctx context.Context, f upload.File, containerID string, wantCaption bool) (upload.Result, error) {
	item, err := r.store.Put(ctx, f, containerID, wantCaption)
	if err != nil {
		return upload.Result{}, err
	}
	r.mu.Lock()
	r.items = append(r.items, attached{file: f.Name, item: item})
	r.mu.Unlock()
	return upload.Result{URL: item.URL, Caption: item.Caption}, nil
}

func (r *recordingUploader) list() []attached {
	r.mu.Lock()
	items := append([]attached(nil), r.items...)
	r.mu.Unlock()
	sort.Slice(items, func(i, j int) bool { return items[i].file < items[j].file })
	return items
}

func itemRows(items []attached) [][]string {
	rows := make([][]string, 0, len(items))
	for _, a := range items {
		pixels := "-"
		if a.item.Width > 0 {
			pixels = strconv.Itoa(a.item.Width) + "x" + strconv.Itoa(a.item.Height)
		}
		class := a.item.Resolution
		if class == "" {
			class = "-"
		}
		rows = append(rows, []string{
			a.file,
			humanize.IBytes(uint64(a.item.Size)),
			pixels,
			class,
			a.item.URL,
		})
	}
	return rows
}
