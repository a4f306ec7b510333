package types

import (
	"context"
	"errors"
)

// Store persists a Project to a single-file embedded database.
// Implementations serialize Open, Save, Load and Close against each other;
// IsLoaded, Status and Path never wait on an operation in flight.
type Store interface {
	// Open resolves the database file for path, creating it if absent,
	// establishes the connection pool and creates the schema. The outcome is
	// also published to the status cell.
	Open(ctx context.Context, path string) error

	// IsLoaded reports whether the store is in the StoreOpen state.
	IsLoaded() bool

	// Status returns a snapshot of the status cell.
	Status() Status

	// Path returns the resolved database path, or "" if not open.
	Path() string

	// Save writes the whole project in one transaction, parent rows first.
	// The project name is not persisted; Load derives it from the file path.
	Save(ctx context.Context, p *Project) error

	// Load reconstructs the project stored in the open database.
	Load(ctx context.Context) (*Project, error)

	// Close releases the connection pool. Idempotent.
	Close() error
}

// StoreState is the lifecycle state of a Store.
type StoreState int

// Store lifecycle states.
const (
	StoreClosed StoreState = iota
	StoreOpening
	StoreOpen
	StoreFailed
)

func (s StoreState) String() string {
	switch s {
	case StoreClosed:
		return "closed"
	case StoreOpening:
		return "opening"
	case StoreOpen:
		return "open"
	case StoreFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Status is the observable state of a Store. Message holds the resolved
// database path when open, or a human-readable error when failed.
type Status struct {
	State   StoreState
	Message string
}

// Store errors.
var (
	ErrStoreNotOpen    = errors.New("store is not open")
	ErrStoreConnection = errors.New("store connection failed")
	ErrSchemaCreation  = errors.New("schema creation failed")
)
