package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const findCategories = `-- name: FindCategories :many
SELECT
    c.id, c.name, c.slug, c.description, c.parent_id, c.created_at,
    (SELECT count(*) FROM products p WHERE p.category_id = c.id AND p.is_active) AS product_count
FROM categories c
ORDER BY c.name`

type FindCategoriesRow struct {
	Category     Category `json:"category"`
	ProductCount int64    `json:"product_count"`
}

func (q *Queries) FindCategories(ctx context.Context) ([]FindCategoriesRow, error) {
	rows, err := q.db.Query(ctx, findCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []FindCategoriesRow{}
	for rows.Next() {
		var i FindCategoriesRow
		if err := rows.Scan(
			&i.Category.ID,
			&i.Category.Name,
			&i.Category.Slug,
			&i.Category.Description,
			&i.Category.ParentID,
			&i.Category.CreatedAt,
			&i.ProductCount,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const findCategoryBySlug = `-- name: FindCategoryBySlug :one
SELECT id, name, slug, description, parent_id, created_at FROM categories WHERE slug = $1`

func (q *Queries) FindCategoryBySlug(ctx context.Context, slug string) (Category, error) {
	row := q.db.QueryRow(ctx, findCategoryBySlug, slug)
	var i Category
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Slug,
		&i.Description,
		&i.ParentID,
		&i.CreatedAt,
	)
	return i, err
}

const insertCategory = `-- name: InsertCategory :one
INSERT INTO categories (name, slug, description, parent_id)
VALUES ($1, $2, $3, $4)
RETURNING id, name, slug, description, parent_id, created_at`

type InsertCategoryParams struct {
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Description pgtype.Text   `json:"description"`
	ParentID    uuid.NullUUID `json:"parent_id"`
}

func (q *Queries) InsertCategory(ctx context.Context, arg InsertCategoryParams) (Category, error) {
	row := q.db.QueryRow(ctx, insertCategory, arg.Name, arg.Slug, arg.Description, arg.ParentID)
	var i Category
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Slug,
		&i.Description,
		&i.ParentID,
		&i.CreatedAt,
	)
	return i, err
}
