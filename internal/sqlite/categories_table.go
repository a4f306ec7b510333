package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/gwen2d/pkg/types"
)

type categoryRow struct {
	id       int64
	category types.EntityCategory
}

func insertCategory(ctx context.Context, tx *sql.Tx, c types.EntityCategory) (int64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO category (name, width, height) VALUES (?, ?, ?)",
		c.Name, c.Width, c.Height,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting category %q: %w", c.Name, err)
	}
	return res.LastInsertId()
}

// fetchCategories returns every category row in insertion order.
func fetchCategories(ctx context.Context, q queryer) ([]categoryRow, error) {
	rows, err := q.QueryContext(ctx, "SELECT id, name, width, height FROM category ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var out []categoryRow
	for rows.Next() {
		r, err := hydrateCategoryFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}
	return out, nil
}

func hydrateCategoryFromRows(rows *sql.Rows) (categoryRow, error) {
	var r categoryRow
	err := rows.Scan(&r.id, &r.category.Name, &r.category.Width, &r.category.Height)
	return r, err
}
