package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"labelgen/internal/logging"
)

// DefaultDriver is the pure-Go modernc driver.
const DefaultDriver = "sqlite"

// ErrClosed is returned by operations on a closed Store.
var ErrClosed = errors.New("store is closed")

// Store is the append-only LabelHistory record store.
//
// Rows are only ever inserted; there is no update or delete path. The
// identity column is AUTOINCREMENT so ids are unique and monotonic even if
// the file is edited by hand, and serial_number carries a unique index as a
// safety net behind the serial allocator.
//
// Usage Example:
//
//	st, err := store.Open("labels.db", store.DefaultDriver)
//	if err != nil {
//		return err
//	}
//	defer st.Close()
//
//	last, _ := st.LastSerial(ctx)
//	id, err := st.Insert(ctx, store.Record{SerialNumber: "PS000001", Wood: "Oak", ...})
type Store struct {
	db     *sql.DB
	mu     sync.Mutex
	dbPath string
	driver string
	closed bool
}

// Open initializes the SQLite database at the given path using driver
// ("sqlite" or "sqlite3"). The LabelHistory table is created if absent.
func Open(path, driver string) (*Store, error) {
	timer := logging.StartTimer(logging.CategoryStore, "Open")
	defer timer.Stop()

	if driver == "" {
		driver = DefaultDriver
	}
	logging.Store("Opening label store at %s (driver %s)", path, driver)

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			logging.StoreError("Failed to create directory %s: %v", dir, err)
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		logging.StoreError("Failed to open database at %s: %v", path, err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		logging.StoreError("Failed to connect to %s: %v", path, err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}
	// A label reported as generated must survive a power cut.
	if _, err := db.Exec("PRAGMA synchronous = FULL"); err != nil {
		logging.StoreDebug("Failed to set sqlite synchronous=FULL: %v", err)
	}

	s := &Store{db: db, dbPath: path, driver: driver}
	if err := s.initialize(context.Background()); err != nil {
		logging.StoreError("Failed to initialize schema: %v", err)
		db.Close()
		return nil, err
	}
	logging.StoreDebug("LabelHistory schema ready")

	return s, nil
}

// initialize creates or upgrades the LabelHistory schema. The column names
// match databases written by the earlier label tool, so an existing labels.db
// opens unchanged.
func (s *Store) initialize(ctx context.Context) error {
	if _, err := RunMigrations(ctx, s.db); err != nil {
		return err
	}
	return nil
}

// Close closes the database connection. It is safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	logging.Store("Closing label store %s", s.dbPath)
	return s.db.Close()
}

// GetDB returns the underlying SQL database connection.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

// Path returns the database path the store was opened with.
func (s *Store) Path() string {
	return s.dbPath
}

// Driver returns the database/sql driver name in use.
func (s *Store) Driver() string {
	return s.driver
}
