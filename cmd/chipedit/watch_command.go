package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/slidecraft/chipedit/rich"
	"github.com/slidecraft/chipedit/surface"
)

const defaultDebounce = 150 * time.Millisecond

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Follow a markdown file and report how each save reaches the chip tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			src, err := readFile(args[0])
			if err != nil {
				return err
			}
			runCtx, stop := signal.NotifyContext(runContext(cmd), os.Interrupt)
			defer stop()

			fw := newFileFollower(args[0], src, logger)
			fmt.Fprintf(cmd.OutOrStdout(), "watching %s (%d chips)\n", args[0], len(fw.surf.Chips()))
			return fw.run(runCtx, debounce, cmd.OutOrStdout())
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "Quiet period before a change is applied")
	return cmd
}

// fileFollower keeps a surface in step with a file on disk.
type fileFollower struct {
	path   string
	surf   *surface.Surface
	logger *slog.Logger
}

func newFileFollower(path, text string, logger *slog.Logger) *fileFollower {
	return &fileFollower{
		path:   path,
		surf:   surface.New(surface.WithText(text), surface.WithLogger(logger)),
		logger: logger,
	}
}

// apply feeds text into the surface and describes what the sync did.
func (f *fileFollower) apply(text string) string {
	rebuilds, patches := f.surf.Stats()
	f.surf.SetText(text)
	r, p := f.surf.Stats()
	chips := len(f.surf.Chips())
	switch {
	case r > rebuilds:
		return fmt.Sprintf("rebuilt: %d chips", chips)
	case p > patches:
		return fmt.Sprintf("patched in place: %d chips", chips)
	default:
		return "unchanged"
	}
}

func (f *fileFollower) reload(out io.Writer) {
	text, err := readFile(f.path)
	if err != nil {
		f.logger.Warn("reload failed", slog.String("path", f.path), slog.Any("error", err))
		return
	}
	if rich.Serialize(f.surf.Root()) == text {
		return
	}
	fmt.Fprintf(out, "%s %s\n", time.Now().Format(time.TimeOnly), f.apply(text))
}

// run watches the file's directory so saves that replace the file by
// rename are still seen.
func (f *fileFollower) run(ctx context.Context, debounce time.Duration, out io.Writer) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(f.path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				timer.Reset(debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			f.logger.Warn("watch error", slog.Any("error", err))
		case <-timer.C:
			f.reload(out)
		}
	}
}
