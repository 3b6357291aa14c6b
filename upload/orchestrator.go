package upload

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Config controls an Orchestrator.
type Config struct {
	AcceptedTypes []string
	WantCaption   bool
	ContainerID   string
}

// DefaultConfig accepts DefaultAcceptedTypes and asks for captions.
func DefaultConfig() Config {
	return Config{AcceptedTypes: DefaultAcceptedTypes, WantCaption: true}
}

// Orchestrator runs upload batches against a TextStore.
type Orchestrator struct {
	cfg      Config
	store    *TextStore
	session  *Session
	uploader Uploader
	notifier Notifier
	tr       Translator
	inserter Inserter
	logger   *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(o *Orchestrator) {
		o.cfg = cfg
	}
}

// WithNotifier sets where batch notifications go.
func WithNotifier(n Notifier) Option {
	return func(o *Orchestrator) {
		o.notifier = n
	}
}

// WithTranslator sets the message catalog.
func WithTranslator(tr Translator) Option {
	return func(o *Orchestrator) {
		o.tr = tr
	}
}

// WithPreviews sets the preview store. The default keeps previews in
// memory.
func WithPreviews(p PreviewStore) Option {
	return func(o *Orchestrator) {
		o.session = NewSession(p)
	}
}

// WithInserter makes placeholders go in at the caret when one is
// available.
func WithInserter(in Inserter) Option {
	return func(o *Orchestrator) {
		o.inserter = in
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// New returns an orchestrator writing placeholders into store and
// uploading through up.
func New(store *TextStore, up Uploader, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:      DefaultConfig(),
		store:    store,
		uploader: up,
		notifier: NotifierFunc(func(string, Severity) {}),
		tr:       fallbackTranslator{},
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.session == nil {
		o.session = NewSession(NewMemoryPreviews())
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Session returns the orchestrator's upload session.
func (o *Orchestrator) Session() *Session { return o.session }

// Uploading reports whether any upload is in flight.
func (o *Orchestrator) Uploading() bool { return o.session.Uploading() }

// Close releases every preview still held. It does not wait for uploads.
func (o *Orchestrator) Close() { o.session.Close() }

// Batch tracks the uploads started by one Submit.
type Batch struct {
	Placeholders []Placeholder

	done    chan struct{}
	mu      sync.Mutex
	summary Summary
}

// Done is closed once every upload of the batch settled and the summary
// notifications were sent.
func (b *Batch) Done() <-chan struct{} { return b.done }

// Wait blocks until the batch settles and returns its summary.
func (b *Batch) Wait() Summary {
	<-b.done
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.summary
}

func (b *Batch) record(fn func(*Summary)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(&b.summary)
}

// Submit accepts files from a picker, paste or drop. Files outside the
// allow-list are dropped; if nothing remains a single warning names the
// rejected types. Each accepted file gets a placeholder in the text and an
// upload of its own. Submit returns once the placeholders are in place;
// the uploads settle in the background.
func (o *Orchestrator) Submit(ctx context.Context, files []File) *Batch {
	b := &Batch{done: make(chan struct{})}
	accepted, rejected := Filter(files, o.cfg.AcceptedTypes)
	if len(accepted) == 0 {
		if len(files) > 0 {
			labels := RejectedLabels(rejected)
			b.summary.Rejected = labels
			o.notify(MsgUnsupported, map[string]any{"types": strings.Join(labels, ", ")}, SeverityWarning)
		}
		close(b.done)
		return b
	}
	if len(rejected) > 0 {
		o.logger.Info("skipping unsupported files", slog.Any("types", RejectedLabels(rejected)))
	}

	failedEarly := 0
	for _, f := range accepted {
		h, err := o.session.createPreview(f)
		if err != nil {
			o.logger.Warn("preview failed", slog.String("file", f.Name), slog.String("error", err.Error()))
			failedEarly++
			continue
		}
		b.Placeholders = append(b.Placeholders, newPlaceholder(f, h))
	}
	b.summary.Failed = failedEarly

	frags := make([]string, len(b.Placeholders))
	for i, p := range b.Placeholders {
		frags[i] = p.Fragment
	}
	if len(frags) > 0 {
		if o.inserter != nil {
			o.inserter.InsertAtCursor(batchText(frags))
		}
		o.store.Update(func(text string) string { return appendMissing(text, frags) })
	}
	o.session.begin(len(b.Placeholders))

	var g errgroup.Group
	for _, p := range b.Placeholders {
		g.Go(func() error {
			o.settle(ctx, b, p)
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		o.summarize(b.snapshot())
		close(b.done)
	}()
	return b
}

func (b *Batch) snapshot() Summary {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.summary
}

// settle runs one upload and applies its outcome to the text. Errors stop
// here; they only show up in the batch summary.
func (o *Orchestrator) settle(ctx context.Context, b *Batch, p Placeholder) {
	defer o.session.settle()
	defer o.session.releasePreview(p.Preview)

	res, err := o.upload(ctx, p.File)
	if err != nil {
		o.logger.Warn("upload failed", slog.String("file", p.File.Name), slog.String("error", err.Error()))
		o.store.Update(func(text string) string { return removeFragment(text, p.Fragment) })
		b.record(func(s *Summary) { s.Failed++ })
		return
	}

	final := finalFragment(p.File.Name, res.Caption, res.URL)
	o.store.Update(func(text string) string { return replaceFragment(text, p.Fragment, final) })
	fallback := o.cfg.WantCaption && strings.TrimSpace(res.Caption) == ""
	b.record(func(s *Summary) {
		s.Succeeded++
		if fallback {
			s.CaptionFallback++
		}
	})
	o.logger.Debug("upload settled", slog.String("file", p.File.Name), slog.String("url", res.URL), slog.Bool("caption_fallback", fallback))
}

func (o *Orchestrator) upload(ctx context.Context, f File) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("uploader panicked: %v", r)
		}
	}()
	res, err = o.uploader.Upload(ctx, f, o.cfg.ContainerID, o.cfg.WantCaption)
	if err != nil {
		return Result{}, fmt.Errorf("upload %s: %w", f.Name, err)
	}
	if strings.TrimSpace(res.URL) == "" {
		return Result{}, fmt.Errorf("upload %s: %w", f.Name, ErrNoURL)
	}
	return res, nil
}

func (o *Orchestrator) summarize(s Summary) {
	if key, params, sev, ok := s.Message(); ok {
		o.notify(key, params, sev)
	}
	if s.CaptionFallback > 0 {
		o.notify(MsgCaptionFallback, map[string]any{"count": s.CaptionFallback}, SeverityWarning)
	}
}

func (o *Orchestrator) notify(key string, params map[string]any, sev Severity) {
	o.notifier.Notify(o.tr.T(key, params), sev)
}
