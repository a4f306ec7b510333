package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/gwen2d/pkg/types"
)

// Save replaces the database contents with p in a single transaction.
// Rows are inserted parents first; frames keep their sequence within a state.
// The project name is not stored: Load names the project after the database
// file, so a project saved under another file name loads renamed.
func (s *Store) Save(ctx context.Context, p *types.Project) (err error) {
	if p == nil {
		return errors.New("saving project: nil project")
	}
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.sem.Release(1)

	start := time.Now()
	defer func() { s.metrics.Observe(opSave, start, err) }()

	db, err := s.openDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	if err := clearTables(ctx, tx); err != nil {
		return err
	}

	written := make(map[string]int, len(clearOrder))
	categoryIDs := make(map[string]int64)
	for _, c := range p.Categories() {
		id, err := insertCategory(ctx, tx, c)
		if err != nil {
			return err
		}
		categoryIDs[c.Name] = id
		written[tableCategory]++
	}

	for _, e := range p.Entities() {
		categoryID, ok := categoryIDs[e.Category.Name]
		if !ok {
			return fmt.Errorf("saving entity %q: %w: %q", e.Name, types.ErrUnknownCategory, e.Category.Name)
		}
		entityID, err := insertEntity(ctx, tx, entityRow{
			categoryID: categoryID,
			name:       e.Name,
			width:      e.Width,
			height:     e.Height,
		})
		if err != nil {
			return err
		}
		written[tableEntity]++

		for _, stateName := range e.StateNames() {
			stateID, err := insertState(ctx, tx, entityID, stateName)
			if err != nil {
				return fmt.Errorf("entity %q: %w", e.Name, err)
			}
			written[tableState]++

			for seq, f := range e.States[stateName].Frames {
				if err := insertFrame(ctx, tx, stateID, seq, f); err != nil {
					return err
				}
				written[tableFrame]++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}

	for table, n := range written {
		s.metrics.AddRows(table, n)
	}
	s.logger.Info("project saved",
		"project", p.Name(),
		"path", s.Path(),
		"entities", written[tableEntity],
		"frames", written[tableFrame],
	)
	return nil
}
