package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

type stateRow struct {
	id       int64
	entityID int64
	name     string
}

func insertState(ctx context.Context, tx *sql.Tx, entityID int64, name string) (int64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO state (entity_id, name) VALUES (?, ?)",
		entityID, name,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting state %q: %w", name, err)
	}
	return res.LastInsertId()
}

func fetchStates(ctx context.Context, q queryer) ([]stateRow, error) {
	rows, err := q.QueryContext(ctx, "SELECT id, entity_id, name FROM state ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying states: %w", err)
	}
	defer rows.Close()

	var out []stateRow
	for rows.Next() {
		var r stateRow
		if err := rows.Scan(&r.id, &r.entityID, &r.name); err != nil {
			return nil, fmt.Errorf("scanning state: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating states: %w", err)
	}
	return out, nil
}
