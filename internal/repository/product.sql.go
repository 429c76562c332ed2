package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Alturino/dailycoffee/internal/option"
)

const productColumns = `id, category_id, name, slug, description, price, discount_price, stock, tags, is_active, is_featured, created_at, updated_at`

const productRowColumns = `p.id, p.category_id, p.name, p.slug, p.description, p.price, p.discount_price,
    p.stock, p.tags, p.is_active, p.is_featured, p.created_at, p.updated_at,
    c.name AS category_name, c.slug AS category_slug,
    (
        SELECT pi.url FROM product_images pi
        WHERE pi.product_id = p.id
        ORDER BY pi.is_primary DESC, pi.sort_order, pi.id
        LIMIT 1
    ) AS primary_image_url`

type ProductRow struct {
	Product         Product     `json:"product"`
	CategoryName    string      `json:"category_name"`
	CategorySlug    string      `json:"category_slug"`
	PrimaryImageUrl pgtype.Text `json:"primary_image_url"`
}

func productScanTargets(p *Product) []any {
	return []any{
		&p.ID,
		&p.CategoryID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.Price,
		&p.DiscountPrice,
		&p.Stock,
		&p.Tags,
		&p.IsActive,
		&p.IsFeatured,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
}

func scanProduct(row interface{ Scan(...any) error }) (Product, error) {
	var i Product
	err := row.Scan(productScanTargets(&i)...)
	return i, err
}

func scanProductRow(row interface{ Scan(...any) error }) (ProductRow, error) {
	var i ProductRow
	targets := append(
		productScanTargets(&i.Product),
		&i.CategoryName,
		&i.CategorySlug,
		&i.PrimaryImageUrl,
	)
	err := row.Scan(targets...)
	return i, err
}

func (q *Queries) queryProductRows(ctx context.Context, sql string, args ...any) ([]ProductRow, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ProductRow{}
	for rows.Next() {
		i, err := scanProductRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const findProducts = `-- name: FindProducts :many
SELECT ` + productRowColumns + `
FROM products p
JOIN categories c ON c.id = p.category_id
WHERE p.is_active
  AND ($1::uuid IS NULL OR p.category_id = $1::uuid)
  AND ($2::text IS NULL OR p.name ILIKE '%' || $2::text || '%' OR p.description ILIKE '%' || $2::text || '%')
ORDER BY
    CASE WHEN $3::text = 'price_asc' THEN LEAST(p.price, COALESCE(p.discount_price, p.price)) END ASC,
    CASE WHEN $3::text = 'price_desc' THEN LEAST(p.price, COALESCE(p.discount_price, p.price)) END DESC,
    CASE WHEN $3::text = 'popular' THEN (
        SELECT COALESCE(sum(oi.quantity), 0) FROM order_items oi WHERE oi.product_id = p.id
    ) END DESC,
    p.created_at DESC,
    p.id
LIMIT $4 OFFSET $5`

type FindProductsParams struct {
	CategoryID uuid.NullUUID `json:"category_id"`
	Search     pgtype.Text   `json:"search"`
	Sort       string        `json:"sort"`
	Limit      int32         `json:"limit"`
	Offset     int32         `json:"offset"`
}

func (q *Queries) FindProducts(ctx context.Context, arg FindProductsParams) ([]ProductRow, error) {
	return q.queryProductRows(
		ctx,
		findProducts,
		arg.CategoryID,
		arg.Search,
		arg.Sort,
		arg.Limit,
		arg.Offset,
	)
}

const countProducts = `-- name: CountProducts :one
SELECT count(*) FROM products p
WHERE p.is_active
  AND ($1::uuid IS NULL OR p.category_id = $1::uuid)
  AND ($2::text IS NULL OR p.name ILIKE '%' || $2::text || '%' OR p.description ILIKE '%' || $2::text || '%')`

type CountProductsParams struct {
	CategoryID uuid.NullUUID `json:"category_id"`
	Search     pgtype.Text   `json:"search"`
}

func (q *Queries) CountProducts(ctx context.Context, arg CountProductsParams) (int64, error) {
	row := q.db.QueryRow(ctx, countProducts, arg.CategoryID, arg.Search)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const findFeaturedProducts = `-- name: FindFeaturedProducts :many
SELECT ` + productRowColumns + `
FROM products p
JOIN categories c ON c.id = p.category_id
WHERE p.is_active AND p.is_featured
ORDER BY p.created_at DESC, p.id
LIMIT $1`

func (q *Queries) FindFeaturedProducts(ctx context.Context, limit int32) ([]ProductRow, error) {
	return q.queryProductRows(ctx, findFeaturedProducts, limit)
}

const findProductsByCategoryId = `-- name: FindProductsByCategoryId :many
SELECT ` + productRowColumns + `
FROM products p
JOIN categories c ON c.id = p.category_id
WHERE p.is_active AND p.category_id = $1
ORDER BY p.created_at DESC, p.id`

func (q *Queries) FindProductsByCategoryId(ctx context.Context, categoryID uuid.UUID) ([]ProductRow, error) {
	return q.queryProductRows(ctx, findProductsByCategoryId, categoryID)
}

const findAllProducts = `-- name: FindAllProducts :many
SELECT ` + productRowColumns + `
FROM products p
JOIN categories c ON c.id = p.category_id
ORDER BY p.created_at DESC, p.id
LIMIT $1 OFFSET $2`

type FindAllProductsParams struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (q *Queries) FindAllProducts(ctx context.Context, arg FindAllProductsParams) ([]ProductRow, error) {
	return q.queryProductRows(ctx, findAllProducts, arg.Limit, arg.Offset)
}

const countAllProducts = `-- name: CountAllProducts :one
SELECT count(*) FROM products`

func (q *Queries) CountAllProducts(ctx context.Context) (int64, error) {
	row := q.db.QueryRow(ctx, countAllProducts)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const findProductById = `-- name: FindProductById :one
SELECT ` + productRowColumns + `
FROM products p
JOIN categories c ON c.id = p.category_id
WHERE p.id = $1`

func (q *Queries) FindProductById(ctx context.Context, id uuid.UUID) (ProductRow, error) {
	row := q.db.QueryRow(ctx, findProductById, id)
	return scanProductRow(row)
}

const findProductImages = `-- name: FindProductImages :many
SELECT id, product_id, url, alt, is_primary, sort_order
FROM product_images
WHERE product_id = $1
ORDER BY is_primary DESC, sort_order, id`

func (q *Queries) FindProductImages(ctx context.Context, productID uuid.UUID) ([]ProductImage, error) {
	rows, err := q.db.Query(ctx, findProductImages, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ProductImage{}
	for rows.Next() {
		var i ProductImage
		if err := rows.Scan(
			&i.ID,
			&i.ProductID,
			&i.Url,
			&i.Alt,
			&i.IsPrimary,
			&i.SortOrder,
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

const findProductOptions = `-- name: FindProductOptions :many
SELECT id, product_id, kind::text, value, price_modifier
FROM product_options
WHERE product_id = $1
ORDER BY kind, value`

func (q *Queries) FindProductOptions(ctx context.Context, productID uuid.UUID) ([]ProductOption, error) {
	rows, err := q.db.Query(ctx, findProductOptions, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ProductOption{}
	for rows.Next() {
		var i ProductOption
		var kind string
		if err := rows.Scan(
			&i.ID,
			&i.ProductID,
			&kind,
			&i.Value,
			&i.PriceModifier,
		); err != nil {
			return nil, err
		}
		i.Kind = option.Kind(kind)
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertProduct = `-- name: InsertProduct :one
INSERT INTO products (
    category_id, name, slug, description, price, discount_price, stock, tags, is_active, is_featured
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + productColumns

type InsertProductParams struct {
	CategoryID    uuid.UUID      `json:"category_id"`
	Name          string         `json:"name"`
	Slug          string         `json:"slug"`
	Description   pgtype.Text    `json:"description"`
	Price         pgtype.Numeric `json:"price"`
	DiscountPrice pgtype.Numeric `json:"discount_price"`
	Stock         int32          `json:"stock"`
	Tags          []string       `json:"tags"`
	IsActive      bool           `json:"is_active"`
	IsFeatured    bool           `json:"is_featured"`
}

func (q *Queries) InsertProduct(ctx context.Context, arg InsertProductParams) (Product, error) {
	tags := arg.Tags
	if tags == nil {
		tags = []string{}
	}
	row := q.db.QueryRow(ctx, insertProduct,
		arg.CategoryID,
		arg.Name,
		arg.Slug,
		arg.Description,
		arg.Price,
		arg.DiscountPrice,
		arg.Stock,
		tags,
		arg.IsActive,
		arg.IsFeatured,
	)
	return scanProduct(row)
}

const updateProduct = `-- name: UpdateProduct :one
UPDATE products SET
    category_id = COALESCE($2::uuid, category_id),
    name = COALESCE($3::text, name),
    slug = COALESCE($4::text, slug),
    description = COALESCE($5::text, description),
    price = COALESCE($6::numeric, price),
    discount_price = CASE WHEN $7::bool THEN NULL ELSE COALESCE($8::numeric, discount_price) END,
    stock = COALESCE($9::integer, stock),
    tags = COALESCE($10::text[], tags),
    is_active = COALESCE($11::bool, is_active),
    is_featured = COALESCE($12::bool, is_featured),
    updated_at = now()
WHERE id = $1
RETURNING ` + productColumns

type UpdateProductParams struct {
	ID            uuid.UUID      `json:"id"`
	CategoryID    uuid.NullUUID  `json:"category_id"`
	Name          pgtype.Text    `json:"name"`
	Slug          pgtype.Text    `json:"slug"`
	Description   pgtype.Text    `json:"description"`
	Price         pgtype.Numeric `json:"price"`
	ClearDiscount bool           `json:"clear_discount"`
	DiscountPrice pgtype.Numeric `json:"discount_price"`
	Stock         pgtype.Int4    `json:"stock"`
	Tags          []string       `json:"tags"`
	IsActive      pgtype.Bool    `json:"is_active"`
	IsFeatured    pgtype.Bool    `json:"is_featured"`
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, updateProduct,
		arg.ID,
		arg.CategoryID,
		arg.Name,
		arg.Slug,
		arg.Description,
		arg.Price,
		arg.ClearDiscount,
		arg.DiscountPrice,
		arg.Stock,
		arg.Tags,
		arg.IsActive,
		arg.IsFeatured,
	)
	return scanProduct(row)
}

const deleteProduct = `-- name: DeleteProduct :execrows
DELETE FROM products WHERE id = $1`

func (q *Queries) DeleteProduct(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteProduct, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const insertProductImage = `-- name: InsertProductImage :one
INSERT INTO product_images (product_id, url, alt, is_primary, sort_order)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, product_id, url, alt, is_primary, sort_order`

type InsertProductImageParams struct {
	ProductID uuid.UUID   `json:"product_id"`
	Url       string      `json:"url"`
	Alt       pgtype.Text `json:"alt"`
	IsPrimary bool        `json:"is_primary"`
	SortOrder int32       `json:"sort_order"`
}

func (q *Queries) InsertProductImage(ctx context.Context, arg InsertProductImageParams) (ProductImage, error) {
	row := q.db.QueryRow(ctx, insertProductImage,
		arg.ProductID,
		arg.Url,
		arg.Alt,
		arg.IsPrimary,
		arg.SortOrder,
	)
	var i ProductImage
	err := row.Scan(
		&i.ID,
		&i.ProductID,
		&i.Url,
		&i.Alt,
		&i.IsPrimary,
		&i.SortOrder,
	)
	return i, err
}

const deleteProductImages = `-- name: DeleteProductImages :exec
DELETE FROM product_images WHERE product_id = $1`

func (q *Queries) DeleteProductImages(ctx context.Context, productID uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteProductImages, productID)
	return err
}

const insertProductOption = `-- name: InsertProductOption :one
INSERT INTO product_options (product_id, kind, value, price_modifier)
VALUES ($1, $2::option_kind, $3, $4)
RETURNING id, product_id, kind::text, value, price_modifier`

type InsertProductOptionParams struct {
	ProductID     uuid.UUID      `json:"product_id"`
	Kind          option.Kind    `json:"kind"`
	Value         string         `json:"value"`
	PriceModifier pgtype.Numeric `json:"price_modifier"`
}

func (q *Queries) InsertProductOption(ctx context.Context, arg InsertProductOptionParams) (ProductOption, error) {
	row := q.db.QueryRow(ctx, insertProductOption,
		arg.ProductID,
		string(arg.Kind),
		arg.Value,
		arg.PriceModifier,
	)
	var i ProductOption
	var kind string
	err := row.Scan(
		&i.ID,
		&i.ProductID,
		&kind,
		&i.Value,
		&i.PriceModifier,
	)
	i.Kind = option.Kind(kind)
	return i, err
}

const deleteProductOptions = `-- name: DeleteProductOptions :exec
DELETE FROM product_options WHERE product_id = $1`

func (q *Queries) DeleteProductOptions(ctx context.Context, productID uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteProductOptions, productID)
	return err
}
