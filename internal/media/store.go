// Package media is a local media store: image files on disk with their
// metadata in SQLite. A Store implements upload.Uploader so the editor can
// run without a remote upload service.
package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/slidecraft/chipedit/internal/logging"
	"github.com/slidecraft/chipedit/upload"
)

// ErrLocked is returned by Open when another process holds the store.
var ErrLocked = errors.New("media store is locked by another process")

// Captioner describes a stored image. It is consulted only when the caller
// asks for a caption.
type Captioner func(ctx context.Context, item Item, data []byte) (string, error)

// Item is one stored image.
type Item struct {
	ID          string
	Name        string
	MIMEType    string
	Size        int64
	Width       int
	Height      int
	Resolution  string
	ContainerID string
	Caption     string
	URL         string
	CreatedAt   time.Time
}

// Store manages media files and their metadata.
type Store struct {
	db        *sql.DB
	dir       string
	dbPath    string
	baseURL   string
	lock      *flock.Flock
	captioner Captioner
	logger    *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithCaptioner sets the captioner used when a caption is requested.
func WithCaptioner(c Captioner) Option {
	return func(s *Store) { s.captioner = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = logging.NewComponentLogger(l, "media") }
}

// Open locks dir for exclusive use, then opens or creates the metadata
// database inside it. Stored files are served below baseURL.
func Open(ctx context.Context, dir, baseURL string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media directory: %w", err)
	}
	lock := flock.New(filepath.Join(dir, ".lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}

	dbPath := filepath.Join(dir, "media.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{
		db:      db,
		dir:     dir,
		dbPath:  dbPath,
		baseURL: baseURL,
		lock:    lock,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = s.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if err := s.initSchema(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database and releases the directory lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var err error
	if s.db != nil {
		err = s.db.Close()
	}
	if s.lock != nil {
		if uerr := s.lock.Unlock(); err == nil {
			err = uerr
		}
	}
	return err
}

// Dir returns the directory holding the stored files.
func (s *Store) Dir() string { return s.dir }

// Put stores f and records its metadata. The caption is filled in when
// wantCaption is set and a captioner is configured; captioner errors leave
// it empty.
func (s *Store) Put(ctx context.Context, f upload.File, containerID string, wantCaption bool) (*Item, error) {
	if len(f.Data) == 0 {
		return nil, upload.ErrEmptyFile
	}
	info, err := Probe(f.Data)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", f.Name, err)
	}

	id := uuid.NewString()
	item := Item{
		ID:          id,
		Name:        f.Name,
		MIMEType:    info.MIMEType(),
		Size:        int64(len(f.Data)),
		Width:       info.Width,
		Height:      info.Height,
		Resolution:  ResolutionClass(info.Width, info.Height),
		ContainerID: containerID,
		URL:         s.baseURL + id + info.Ext(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.writeFile(id+info.Ext(), f.Data); err != nil {
		return nil, err
	}
	if wantCaption && s.captioner != nil {
		caption, err := s.captioner(ctx, item, f.Data)
		if err != nil {
			s.logger.Warn("caption failed", slog.String("id", id), slog.String("error", err.Error()))
		}
		item.Caption = strings.TrimSpace(caption)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO media (
            id, name, mime_type, size_bytes, width, height, resolution,
            container_id, caption, url, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, item.MIMEType, item.Size, item.Width, item.Height, item.Resolution,
		nullableString(item.ContainerID), nullableString(item.Caption), item.URL,
		item.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		_ = os.Remove(filepath.Join(s.dir, id+info.Ext()))
		return nil, fmt.Errorf("insert media: %w", err)
	}
	s.logger.Debug("media stored",
		slog.String("id", id),
		slog.String("name", f.Name),
		slog.String("resolution", item.Resolution),
		slog.Int64("bytes", item.Size),
	)
	return &item, nil
}

// Upload implements upload.Uploader.
func (s *Store) Upload(ctx context.Context, f upload.File, containerID string, wantCaption bool) (upload.Result, error) {
	item, err := s.Put(ctx, f, containerID, wantCaption)
	if err != nil {
		return upload.Result{}, err
	}
	return upload.Result{URL: item.URL, Caption: item.Caption}, nil
}

const itemColumns = `id, name, mime_type, size_bytes, width, height, resolution,
    container_id, caption, url, created_at`

// Get returns the item with id, or nil when there is none.
func (s *Store) Get(ctx context.Context, id string) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM media WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get media: %w", err)
	}
	return item, nil
}

// List returns the items of containerID in insertion order. An empty
// containerID lists every item.
func (s *Store) List(ctx context.Context, containerID string) ([]*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM media`
	var args []any
	if containerID != "" {
		query += ` WHERE container_id = ?`
		args = append(args, containerID)
	}
	query += ` ORDER BY created_at, rowid`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Path returns the file path of item.
func (s *Store) Path(item *Item) string {
	return filepath.Join(s.dir, strings.TrimPrefix(item.URL, s.baseURL))
}

func (s *Store) writeFile(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*Item, error) {
	var (
		item      Item
		container sql.NullString
		caption   sql.NullString
		created   string
	)
	if err := row.Scan(
		&item.ID, &item.Name, &item.MIMEType, &item.Size, &item.Width, &item.Height,
		&item.Resolution, &container, &caption, &item.URL, &created,
	); err != nil {
		return nil, err
	}
	item.ContainerID = container.String
	item.Caption = caption.String
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	item.CreatedAt = t
	return &item, nil
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

var _ upload.Uploader = (*Store)(nil)
