// Package sqlite implements the SQLite storage backend for the grid.
// SQLite is the query engine; JSONL files in DataDir are the source of truth
// and are reloaded on every Attach.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/grid/pkg/types"
)

// dbFileName is the SQLite file created inside DataDir. It is rebuilt from the
// JSONL files on each Attach.
const dbFileName = "grid.db"

var _ types.Grid = (*Backend)(nil)

// Backend implements the Grid interface using SQLite as the query engine
// and JSONL files as the source of truth.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	tables   map[string]types.Table

	// writeMu serializes mutations so the JSONL files always reflect a
	// committed SQLite state.
	writeMu sync.Mutex
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{
		tables: make(map[string]types.Table),
	}
}

// GetTable returns a Table interface for the specified table name.
// Returns ErrTableNotFound if the table name is not recognized.
// Returns ErrGridDetached if the backend is not attached.
func (b *Backend) GetTable(name string) (types.Table, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrGridDetached
	}

	table, ok := b.tables[name]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return table, nil
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, builds the SQLite schema, creates
// missing JSONL files and loads the existing ones.
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

	if config.DataDir == "" {
		config.DataDir = "."
	}
	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(config.DataDir, dbFileName)
	// The database is a cache of the JSONL files; start from a fresh schema.
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	// A single connection keeps transactions and writes ordered.
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return err
	}

	if err := initJSONLFiles(config.DataDir); err != nil {
		db.Close()
		return err
	}

	if err := loadAllJSONL(db, config.DataDir); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.db = db
	b.config = config
	b.attached = true

	b.tables[types.TableFields] = &fieldsTable{backend: b}
	b.tables[types.TableRows] = &rowsTable{backend: b}

	return nil
}

// Detach releases all resources held by the backend.
// After Detach, all operations return ErrGridDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	b.tables = make(map[string]types.Table)

	return nil
}

// conn returns the open database and the data directory, or ErrGridDetached.
// Table accessors outlive Detach, so every operation goes through here.
func (b *Backend) conn() (*sql.DB, string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, "", types.ErrGridDetached
	}
	return b.db, b.config.DataDir, nil
}

// generateUUID generates a new UUID v7 for entity IDs.
func generateUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating UUID v7: %w", err)
	}
	return id.String(), nil
}
