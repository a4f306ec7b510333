package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/gwen2d/pkg/types"
)

func insertFrame(ctx context.Context, tx *sql.Tx, stateID int64, seq int, f types.Frame) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO frame (state_id, seq, width, height, img) VALUES (?, ?, ?, ?, ?)",
		stateID, seq, f.Width, f.Height, f.Pix,
	)
	if err != nil {
		return fmt.Errorf("inserting frame %d of state %d: %w", seq, stateID, err)
	}
	return nil
}

// eachFrame streams frames ordered by state and sequence to fn. Frames are
// potentially large, so they are not collected.
func eachFrame(ctx context.Context, q queryer, fn func(stateID int64, f types.Frame) error) error {
	rows, err := q.QueryContext(ctx, "SELECT state_id, width, height, img FROM frame ORDER BY state_id, seq")
	if err != nil {
		return fmt.Errorf("querying frames: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			stateID int64
			f       types.Frame
		)
		if err := rows.Scan(&stateID, &f.Width, &f.Height, &f.Pix); err != nil {
			return fmt.Errorf("scanning frame: %w", err)
		}
		if err := fn(stateID, f); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating frames: %w", err)
	}
	return nil
}
