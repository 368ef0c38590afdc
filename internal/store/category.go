package store

import (
	"context"
	"fmt"

	"storefront/internal/database"
	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
)

const categoryColumns = `id, name, description, created_at`

func scanCategory(row interface{ Scan(...any) error }) (model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	return c, err
}

func ListCategories(ctx context.Context, db database.DB) ([]model.Category, error) {
	rows, err := db.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ListCategories: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Category, error) {
		return scanCategory(row)
	})
	if err != nil {
		return nil, fmt.Errorf("ListCategories: %w", err)
	}
	return out, nil
}

func GetCategory(ctx context.Context, db database.DB, id int64) (*model.Category, error) {
	c, err := scanCategory(db.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("GetCategory: %w", translate(err, false))
	}
	return &c, nil
}

func CategoryExists(ctx context.Context, db database.DB, id int64) (bool, error) {
	var exists bool
	if err := db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, id,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("CategoryExists: %w", err)
	}
	return exists, nil
}

func CreateCategory(ctx context.Context, db database.DB, c *model.Category) (*model.Category, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO categories (name, description)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		c.Name,
		c.Description,
	)
	if err := row.Scan(&c.ID, &c.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateCategory: %w", translate(err, false))
	}
	return c, nil
}

func UpdateCategory(ctx context.Context, db database.DB, c *model.Category) error {
	row := db.QueryRow(ctx,
		`UPDATE categories SET name = $1, description = $2
		 WHERE id = $3
		 RETURNING created_at`,
		c.Name,
		c.Description,
		c.ID,
	)
	if err := row.Scan(&c.CreatedAt); err != nil {
		return fmt.Errorf("UpdateCategory: %w", translate(err, false))
	}
	return nil
}

// DeleteCategory 仍有商品引用時回傳 ErrReferenced (ON DELETE RESTRICT)
func DeleteCategory(ctx context.Context, db database.DB, id int64) error {
	tag, err := db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("DeleteCategory: %w", translate(err, true))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteCategory: %w", ErrNotFound)
	}
	return nil
}
