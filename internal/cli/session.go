package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mesh-intelligence/gwen2d/internal/editor"
	"github.com/mesh-intelligence/gwen2d/internal/imageload"
	"github.com/mesh-intelligence/gwen2d/internal/paths"
	"github.com/mesh-intelligence/gwen2d/internal/worker"
	"github.com/mesh-intelligence/gwen2d/pkg/sqlite"
	"github.com/mesh-intelligence/gwen2d/pkg/types"
)

// Worker pool sizing for one CLI invocation. Store operations are serialized
// by the store, so a single worker suffices.
const (
	sessionWorkers = 1
	sessionQueue   = 4
)

// closeTimeout bounds how long closing a session waits for queued work.
const closeTimeout = 30 * time.Second

var (
	errNoProject       = errors.New("no project selected: pass --project or set project in config.yaml")
	errProjectNotFound = errors.New("project not found")
)

// session wires a store, a worker pool and an editor for one command.
type session struct {
	store  types.Store
	pool   *worker.Pool
	editor *editor.Editor
	path   string
}

func (a *app) newSession() (*session, error) {
	store, err := sqlite.NewStore(types.DefaultConfig(), a.reg, a.logger)
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	pool := worker.NewPool(sessionWorkers, sessionQueue, a.logger)
	return &session{
		store:  store,
		pool:   pool,
		editor: editor.New(store, pool, imageload.Loader{}, a.logger),
	}, nil
}

func (s *session) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	return errors.Join(s.pool.Close(ctx), s.store.Close())
}

// projectPath resolves the selected project to a database path. A value
// that looks like a path is used as is; a bare name is looked up in the
// project directory.
func (a *app) projectPath() (string, error) {
	name := a.project
	if name == "" {
		name = a.cfg.GetString(cfgKeyProject)
	}
	if name == "" {
		return "", errNoProject
	}
	if strings.ContainsAny(name, `/\`) || filepath.Ext(name) == paths.DatabaseExt {
		return paths.DatabasePath(name)
	}
	dir, err := a.projectDir("")
	if err != nil {
		return "", err
	}
	return paths.ProjectPath(dir, name)
}

func (a *app) projectDir(flag string) (string, error) {
	dir, err := paths.ResolveProjectDir(flag, a.cfg.GetString(cfgKeyProjectDir))
	if err != nil {
		return "", fmt.Errorf("resolve project dir: %w", err)
	}
	return dir, nil
}

// existingProjectPath is projectPath for commands that must not create a
// database.
func (a *app) existingProjectPath() (string, error) {
	path, err := a.projectPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s (create it with gwen2d new)", errProjectNotFound, path)
		}
		return "", err
	}
	return path, nil
}

// openProject opens the selected project and makes it the editor's current
// project. The caller must close the session.
func (a *app) openProject(ctx context.Context) (*session, error) {
	path, err := a.existingProjectPath()
	if err != nil {
		return nil, err
	}
	s, err := a.newSession()
	if err != nil {
		return nil, err
	}
	if err := s.editor.OpenProject(path).Wait(ctx); err != nil {
		s.close()
		return nil, err
	}
	s.editor.Update()
	s.path = path
	return s, nil
}

// mutate opens the selected project, applies fn and saves the result. When
// fn fails nothing is saved.
func (a *app) mutate(ctx context.Context, fn func(e *editor.Editor) error) (err error) {
	s, err := a.openProject(ctx)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, s.close()) }()

	if err := fn(s.editor); err != nil {
		return err
	}
	return s.editor.Save().Wait(ctx)
}

// view opens the selected project read-only and passes it to fn.
func (a *app) view(ctx context.Context, fn func(p *types.Project) error) (err error) {
	s, err := a.openProject(ctx)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, s.close()) }()
	return fn(s.editor.Project())
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
