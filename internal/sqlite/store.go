// Package sqlite implements the project store on an embedded SQLite file.
//
// A Store owns one connection pool at a time. Open, Save, Load and Close hold
// an operation lock for their whole duration so that at most one of them runs
// against the pool; the status cell has its own lock and can be read while an
// operation is in flight.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/gwen2d/internal/metrics"
	"github.com/mesh-intelligence/gwen2d/internal/paths"
	"github.com/mesh-intelligence/gwen2d/pkg/types"
)

// Operation names used for metrics and logs.
const (
	opOpen = "open"
	opSave = "save"
	opLoad = "load"
)

var _ types.Store = (*Store)(nil)

// Store implements types.Store on SQLite.
type Store struct {
	sem *semaphore.Weighted
	db  *sql.DB // guarded by sem

	statusMu sync.RWMutex
	status   types.Status
	path     string

	config  types.Config
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewStore creates a closed store. m may be nil; a nil logger uses
// slog.Default.
func NewStore(config types.Config, m *metrics.Metrics, logger *slog.Logger) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		sem:     semaphore.NewWeighted(1),
		status:  types.Status{State: types.StoreClosed},
		config:  config.WithDefaults(),
		metrics: m,
		logger:  logger.With("component", "store"),
	}, nil
}

// Open resolves path to a database file, creating it and its parent
// directory if absent, and makes it the store's database. Any previously
// open database is closed first. On failure the status cell holds
// StoreFailed and a message naming the path.
func (s *Store) Open(ctx context.Context, path string) (err error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.sem.Release(1)

	start := time.Now()
	defer func() { s.metrics.Observe(opOpen, start, err) }()

	s.setStatus(types.StoreOpening, "", path)
	if err := s.closeDB(); err != nil {
		s.logger.Warn("closing previous database", "error", err)
	}

	dbPath, err := paths.DatabasePath(path)
	if err != nil {
		return s.fail(path, fmt.Errorf("%w: %w", types.ErrStoreConnection, err))
	}
	s.logger.Debug("opening database", "path", dbPath)

	db, err := s.connect(ctx, dbPath)
	if err != nil {
		return s.fail(dbPath, err)
	}
	if err := createSchema(ctx, db); err != nil {
		db.Close()
		return s.fail(dbPath, err)
	}

	s.db = db
	s.setStatus(types.StoreOpen, dbPath, dbPath)
	s.logger.Info("database open", "path", dbPath)
	return nil
}

// IsLoaded reports whether a database is open.
func (s *Store) IsLoaded() bool {
	return s.Status().State == types.StoreOpen
}

// Status returns a snapshot of the status cell.
func (s *Store) Status() types.Status {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}

// Path returns the resolved path of the open database, or "".
func (s *Store) Path() string {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.path
}

// Close releases the connection pool. It waits for an operation in flight
// and is idempotent.
func (s *Store) Close() error {
	if err := s.sem.Acquire(context.Background(), 1); err != nil {
		return err
	}
	defer s.sem.Release(1)

	err := s.closeDB()
	s.setStatus(types.StoreClosed, "", "")
	return err
}

// connect opens the pool for dbPath and verifies it with a ping.
func (s *Store) connect(ctx context.Context, dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating directory: %w", types.ErrStoreConnection, err)
	}
	db, err := sql.Open("sqlite", dsn(dbPath, s.config.BusyTimeoutMS))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrStoreConnection, err)
	}
	db.SetMaxOpenConns(s.config.MaxOpenConns)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", types.ErrStoreConnection, err)
	}
	return db, nil
}

// dsn builds a modernc.org/sqlite data source name. The pragmas are applied
// to every pooled connection.
func dsn(dbPath string, busyTimeoutMS int) string {
	return fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)", dbPath, busyTimeoutMS)
}

// createSchema runs the schema DDL in a single transaction.
func createSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %w", types.ErrSchemaCreation, err)
	}
	defer tx.Rollback()

	for _, stmt := range schemaDDL {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: %w", types.ErrSchemaCreation, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing: %w", types.ErrSchemaCreation, err)
	}
	return nil
}

// closeDB closes the current pool if any. Caller holds sem.
func (s *Store) closeDB() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) fail(path string, err error) error {
	s.setStatus(types.StoreFailed, "", fmt.Sprintf("%s: %v", path, err))
	s.logger.Error("opening database failed", "path", path, "error", err)
	return err
}

func (s *Store) setStatus(state types.StoreState, path, message string) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status = types.Status{State: state, Message: message}
	s.path = path
}

// openDB returns the current pool or ErrStoreNotOpen. Caller holds sem.
func (s *Store) openDB() (*sql.DB, error) {
	if s.db == nil {
		return nil, types.ErrStoreNotOpen
	}
	return s.db, nil
}
