package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

type entityRow struct {
	id         int64
	categoryID int64
	name       string
	width      int
	height     int
}

func insertEntity(ctx context.Context, tx *sql.Tx, r entityRow) (int64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO entity (category_id, name, width, height) VALUES (?, ?, ?, ?)",
		r.categoryID, r.name, r.width, r.height,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting entity %q: %w", r.name, err)
	}
	return res.LastInsertId()
}

func fetchEntities(ctx context.Context, q queryer) ([]entityRow, error) {
	rows, err := q.QueryContext(ctx, "SELECT id, category_id, name, width, height FROM entity ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying entities: %w", err)
	}
	defer rows.Close()

	var out []entityRow
	for rows.Next() {
		r, err := hydrateEntityFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entities: %w", err)
	}
	return out, nil
}

func hydrateEntityFromRows(rows *sql.Rows) (entityRow, error) {
	var r entityRow
	err := rows.Scan(&r.id, &r.categoryID, &r.name, &r.width, &r.height)
	return r, err
}
