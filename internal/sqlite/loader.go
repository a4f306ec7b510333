package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mesh-intelligence/gwen2d/internal/paths"
	"github.com/mesh-intelligence/gwen2d/pkg/types"
)

type stateKey struct {
	entity string
	state  string
}

// Load rebuilds the project held in the open database. The project is
// assembled through its own mutation methods, so a database that violates
// the content rules fails to load rather than producing an inconsistent
// project. The project takes its name from the database file.
func (s *Store) Load(ctx context.Context) (p *types.Project, err error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)

	start := time.Now()
	defer func() { s.metrics.Observe(opLoad, start, err) }()

	db, err := s.openDB()
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	p = types.NewProject(paths.ProjectName(s.Path()))

	categories, err := fetchCategories(ctx, tx)
	if err != nil {
		return nil, err
	}
	categoryNames := make(map[int64]string, len(categories))
	for _, r := range categories {
		categoryNames[r.id] = r.category.Name
		if r.category.IsDefault() {
			continue
		}
		if err := p.AddCategoryWithSize(r.category.Name, r.category.Width, r.category.Height); err != nil {
			return nil, fmt.Errorf("loading category: %w", err)
		}
	}

	entities, err := fetchEntities(ctx, tx)
	if err != nil {
		return nil, err
	}
	entityNames := make(map[int64]string, len(entities))
	for _, r := range entities {
		categoryName, ok := categoryNames[r.categoryID]
		if !ok {
			return nil, fmt.Errorf("loading entity %q: no category with id %d", r.name, r.categoryID)
		}
		if err := p.AddEntity(types.NewEntityCategory(categoryName), r.name); err != nil {
			return nil, fmt.Errorf("loading entity: %w", err)
		}
		if r.width > 0 && r.height > 0 {
			if err := p.SetEntitySize(r.name, r.width, r.height); err != nil {
				return nil, fmt.Errorf("loading entity: %w", err)
			}
		}
		entityNames[r.id] = r.name
	}

	states, err := fetchStates(ctx, tx)
	if err != nil {
		return nil, err
	}
	stateKeys := make(map[int64]stateKey, len(states))
	for _, r := range states {
		entityName, ok := entityNames[r.entityID]
		if !ok {
			return nil, fmt.Errorf("loading state %q: no entity with id %d", r.name, r.entityID)
		}
		if err := p.AddEntityState(entityName, r.name); err != nil {
			return nil, fmt.Errorf("loading state: %w", err)
		}
		stateKeys[r.id] = stateKey{entity: entityName, state: r.name}
	}

	err = eachFrame(ctx, tx, func(stateID int64, f types.Frame) error {
		key, ok := stateKeys[stateID]
		if !ok {
			return fmt.Errorf("loading frame: no state with id %d", stateID)
		}
		if err := p.AddFrame(key.entity, key.state, f); err != nil {
			return fmt.Errorf("loading frame of %s/%s: %w", key.entity, key.state, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	st := p.Stats()
	s.logger.Info("project loaded",
		"project", p.Name(),
		"entities", st.Entities,
		"frames", st.Frames,
	)
	return p, nil
}
