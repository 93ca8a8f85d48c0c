// Package sqlite implements the SQLite storage backend for boards.
//
// elements.jsonl in the data directory is the source of truth. On Attach it
// is loaded into a fresh board.db, which serves ordered reads and the derived
// links table. Save rewrites both in one transaction.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/BakaI9/excalidraw/pkg/types"
)

// File names inside the data directory.
const (
	dbFile       = "board.db"
	elementsFile = "elements.jsonl"
)

var _ types.Board = (*Backend)(nil)

// Backend implements types.Board on SQLite with a JSONL file as the source
// of truth.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	logger   *zap.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(b *Backend) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach validates config, creates DataDir if needed, opens a fresh
// board.db, and loads elements.jsonl into it.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	// The database is a cache of the JSONL file and is rebuilt on every attach.
	dbPath := filepath.Join(dataDir, dbFile)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return err
	}

	jsonlPath := filepath.Join(dataDir, elementsFile)
	if err := ensureFile(jsonlPath); err != nil {
		db.Close()
		return err
	}
	n, err := loadElements(db, jsonlPath, b.logger)
	if err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	config.DataDir = dataDir
	b.db = db
	b.config = config
	b.attached = true
	b.logger.Debug("board attached",
		zap.String("dataDir", dataDir),
		zap.Int("elements", n))
	return nil
}

// Detach closes the SQLite connection. After Detach, all operations return
// ErrBoardDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.attached = false
	if b.db != nil {
		err := b.db.Close()
		b.db = nil
		return err
	}
	return nil
}

// Load returns every stored element, deleted ones included, ordered by
// fractional index and then by position in the last save.
func (b *Backend) Load() ([]*types.Element, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrBoardDetached
	}
	return queryElements(b.db)
}

// Save replaces the stored board with elements. The elements and links
// tables are rewritten in one transaction, and elements.jsonl is replaced
// atomically before it commits.
func (b *Backend) Save(elements []*types.Element) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrBoardDetached
	}

	seen := make(map[string]bool, len(elements))
	for _, el := range elements {
		if err := types.ValidateElement(el); err != nil {
			return err
		}
		if seen[el.ID] {
			return fmt.Errorf("%w: %s", types.ErrDuplicateID, el.ID)
		}
		seen[el.ID] = true
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM links"); err != nil {
		return fmt.Errorf("clearing links: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM elements"); err != nil {
		return fmt.Errorf("clearing elements: %w", err)
	}
	records, err := insertElements(tx, elements)
	if err != nil {
		return err
	}
	if err := insertLinks(tx, elements); err != nil {
		return err
	}
	if err := writeJSONL(filepath.Join(b.config.DataDir, elementsFile), records); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save transaction: %w", err)
	}
	return nil
}

// Config returns the configuration the backend was attached with.
func (b *Backend) Config() types.Config {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config
}

// ensureFile creates an empty file at path if none exists.
func ensureFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	return f.Close()
}
