// Package editor owns the in-memory project for a single caller and runs
// its persistence work on a worker pool.
//
// All Editor methods must be called from the owning goroutine. Store work
// runs on the pool; a project produced by a create or open operation is
// parked until the owner calls Update, so the current project only changes
// on the owner's goroutine.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/mesh-intelligence/gwen2d/internal/paths"
	"github.com/mesh-intelligence/gwen2d/internal/worker"
	"github.com/mesh-intelligence/gwen2d/pkg/types"
)

// Operation kinds submitted by the editor.
const (
	KindCreate = "create"
	KindOpen   = "open"
	KindSave   = "save"
)

// DefaultProjectName names the project an Editor starts with.
const DefaultProjectName = "default"

// Editor errors.
var (
	// ErrProjectExists is returned when creating a project whose database
	// file is already present.
	ErrProjectExists = errors.New("project already exists")

	// ErrProjectSwitched is returned by a save whose project no longer
	// belongs to the database the store holds.
	ErrProjectSwitched = errors.New("store holds another project")
)

// ImageLoader decodes an image file into a frame.
type ImageLoader interface {
	Decode(path string) (types.Frame, error)
}

// Editor is the single writer of a project.
type Editor struct {
	store  types.Store
	pool   *worker.Pool
	images ImageLoader
	logger *slog.Logger

	project *types.Project
	path    string // database the current project was read from or created in

	// ops serializes the store sequences of editor tasks.
	ops sync.Mutex

	mu      sync.Mutex
	pending *loaded
}

// loaded is a project produced by a create or open task, waiting for Update.
type loaded struct {
	project *types.Project
	path    string
}

// New returns an editor holding an empty project named DefaultProjectName.
func New(store types.Store, pool *worker.Pool, images ImageLoader, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Editor{
		store:   store,
		pool:    pool,
		images:  images,
		logger:  logger.With("component", "editor"),
		project: types.NewProject(DefaultProjectName),
	}
}

// Project returns the current project. Callers must not retain it across
// Update.
func (e *Editor) Project() *types.Project { return e.project }

// Stats returns the counts of the current project.
func (e *Editor) Stats() types.Stats { return e.project.Stats() }

// Path returns the database file of the current project, or "" when the
// project has never been created or opened.
func (e *Editor) Path() string { return e.path }

// Status returns the store status cell.
func (e *Editor) Status() types.Status { return e.store.Status() }

// IsLoaded reports whether the store has an open database.
func (e *Editor) IsLoaded() bool { return e.store.IsLoaded() }

// AddCategory registers a category with no nominal size.
func (e *Editor) AddCategory(name string) error {
	return e.project.AddCategory(name)
}

// AddCategoryWithSize registers a category with a nominal cell size.
func (e *Editor) AddCategoryWithSize(name string, width, height int) error {
	return e.project.AddCategoryWithSize(name, width, height)
}

// AddEntity creates an entity in the named category.
func (e *Editor) AddEntity(categoryName, name string) error {
	return e.project.AddEntity(types.NewEntityCategory(categoryName), name)
}

// AddEntityState creates an empty state on an entity.
func (e *Editor) AddEntityState(entityName, stateName string) error {
	return e.project.AddEntityState(entityName, stateName)
}

// GetStates returns the states of an entity ordered by name.
func (e *Editor) GetStates(entityName string) []types.EntityState {
	return e.project.GetStates(entityName)
}

// ImportFrame decodes the image at path and appends it to a state.
func (e *Editor) ImportFrame(entityName, stateName, path string) error {
	f, err := e.images.Decode(path)
	if err != nil {
		return err
	}
	if err := e.project.AddFrame(entityName, stateName, f); err != nil {
		return fmt.Errorf("importing %s: %w", path, err)
	}
	e.logger.Debug("frame imported", "entity", entityName, "state", stateName, "path", path)
	return nil
}

// CreateProject creates dir/name as a new project database and saves an
// empty project into it. On success the new project becomes current at the
// next Update.
func (e *Editor) CreateProject(dir, name string) *worker.Operation {
	dbPath, err := paths.ProjectPath(dir, name)
	if err != nil {
		return worker.Completed(KindCreate, err)
	}
	fresh := types.NewProject(paths.ProjectName(dbPath))

	return e.submit(KindCreate, func(ctx context.Context) error {
		e.ops.Lock()
		defer e.ops.Unlock()

		if _, err := os.Stat(dbPath); err == nil {
			return fmt.Errorf("%w: %s", ErrProjectExists, dbPath)
		}
		if err := e.store.Open(ctx, dbPath); err != nil {
			return err
		}
		if err := e.store.Save(ctx, fresh.Clone()); err != nil {
			return e.release(err)
		}
		e.setPending(fresh, e.store.Path())
		return nil
	})
}

// OpenProject opens the project database at path and loads it. On success
// the loaded project becomes current at the next Update. When the load
// fails the store is closed, so no later save can overwrite the file.
func (e *Editor) OpenProject(path string) *worker.Operation {
	return e.submit(KindOpen, func(ctx context.Context) error {
		e.ops.Lock()
		defer e.ops.Unlock()

		if err := e.store.Open(ctx, path); err != nil {
			return err
		}
		p, err := e.store.Load(ctx)
		if err != nil {
			return e.release(err)
		}
		e.setPending(p, e.store.Path())
		return nil
	})
}

// Save writes a snapshot of the current project taken at call time into the
// database the project came from. Mutations made while the save runs are
// not part of it. The save fails with ErrProjectSwitched when the store has
// since opened another database, including one whose project is still
// waiting for Update.
func (e *Editor) Save() *worker.Operation {
	snapshot := e.project.Clone()
	target := e.path
	return e.submit(KindSave, func(ctx context.Context) error {
		e.ops.Lock()
		defer e.ops.Unlock()

		if !e.store.IsLoaded() {
			return types.ErrStoreNotOpen
		}
		if current := e.store.Path(); current != target {
			return fmt.Errorf("%w: saving %q into %s", ErrProjectSwitched, snapshot.Name(), current)
		}
		return e.store.Save(ctx, snapshot)
	})
}

// Update makes a project produced by a finished create or open operation
// current. It reports whether the project changed.
func (e *Editor) Update() bool {
	e.mu.Lock()
	l := e.pending
	e.pending = nil
	e.mu.Unlock()

	if l == nil {
		return false
	}
	e.project, e.path = l.project, l.path
	e.logger.Info("project switched", "project", l.project.Name(), "path", l.path)
	return true
}

func (e *Editor) submit(kind string, fn worker.Task) *worker.Operation {
	op := e.pool.Submit(kind, fn)
	e.logger.Debug("operation submitted", "kind", kind, "id", op.ID)
	return op
}

func (e *Editor) setPending(p *types.Project, path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = &loaded{project: p, path: path}
}

// release closes the store after a task left it open on a database whose
// project will not become current. Caller holds ops.
func (e *Editor) release(err error) error {
	if cerr := e.store.Close(); cerr != nil {
		e.logger.Warn("closing store", "error", cerr)
	}
	return err
}
