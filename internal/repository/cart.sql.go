package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Alturino/dailycoffee/internal/option"
)

// selectionParam stores an empty selection as SQL NULL so that jsonb equality works as
// the merge key.
func selectionParam(s option.Selection) []byte {
	if len(s) == 0 {
		return nil
	}
	return s.Canonical()
}

const cartColumns = `id, user_id, created_at, updated_at`

func scanCart(row interface{ Scan(...any) error }) (Cart, error) {
	var i Cart
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const cartItemColumns = `id, cart_id, product_id, quantity, selected_options, created_at, updated_at`

func scanCartItem(row interface{ Scan(...any) error }) (CartItem, error) {
	var i CartItem
	err := row.Scan(
		&i.ID,
		&i.CartID,
		&i.ProductID,
		&i.Quantity,
		&i.SelectedOptions,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertCart = `-- name: UpsertCart :one
INSERT INTO carts (user_id) VALUES ($1)
ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
RETURNING ` + cartColumns

func (q *Queries) UpsertCart(ctx context.Context, userID uuid.UUID) (Cart, error) {
	row := q.db.QueryRow(ctx, upsertCart, userID)
	return scanCart(row)
}

const findCartByUserIdForUpdate = `-- name: FindCartByUserIdForUpdate :one
SELECT ` + cartColumns + ` FROM carts WHERE user_id = $1 FOR UPDATE`

func (q *Queries) FindCartByUserIdForUpdate(ctx context.Context, userID uuid.UUID) (Cart, error) {
	row := q.db.QueryRow(ctx, findCartByUserIdForUpdate, userID)
	return scanCart(row)
}

const touchCart = `-- name: TouchCart :exec
UPDATE carts SET updated_at = now() WHERE id = $1`

func (q *Queries) TouchCart(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, touchCart, id)
	return err
}

const findCartItems = `-- name: FindCartItems :many
SELECT
    ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.selected_options, ci.created_at, ci.updated_at,
    p.name, p.slug, p.price, p.discount_price, p.stock, p.is_active,
    (
        SELECT pi.url FROM product_images pi
        WHERE pi.product_id = p.id
        ORDER BY pi.is_primary DESC, pi.sort_order, pi.id
        LIMIT 1
    ) AS primary_image_url
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.cart_id = $1
ORDER BY ci.created_at, ci.id`

type CartItemRow struct {
	CartItem             CartItem       `json:"cart_item"`
	ProductName          string         `json:"product_name"`
	ProductSlug          string         `json:"product_slug"`
	ProductPrice         pgtype.Numeric `json:"product_price"`
	ProductDiscountPrice pgtype.Numeric `json:"product_discount_price"`
	ProductStock         int32          `json:"product_stock"`
	ProductIsActive      bool           `json:"product_is_active"`
	PrimaryImageUrl      pgtype.Text    `json:"primary_image_url"`
}

func (q *Queries) FindCartItems(ctx context.Context, cartID uuid.UUID) ([]CartItemRow, error) {
	rows, err := q.db.Query(ctx, findCartItems, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []CartItemRow{}
	for rows.Next() {
		var i CartItemRow
		if err := rows.Scan(
			&i.CartItem.ID,
			&i.CartItem.CartID,
			&i.CartItem.ProductID,
			&i.CartItem.Quantity,
			&i.CartItem.SelectedOptions,
			&i.CartItem.CreatedAt,
			&i.CartItem.UpdatedAt,
			&i.ProductName,
			&i.ProductSlug,
			&i.ProductPrice,
			&i.ProductDiscountPrice,
			&i.ProductStock,
			&i.ProductIsActive,
			&i.PrimaryImageUrl,
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

const findCartItemBySelection = `-- name: FindCartItemBySelection :one
SELECT ` + cartItemColumns + ` FROM cart_items
WHERE cart_id = $1
  AND product_id = $2
  AND selected_options IS NOT DISTINCT FROM $3::jsonb
LIMIT 1`

type FindCartItemBySelectionParams struct {
	CartID          uuid.UUID        `json:"cart_id"`
	ProductID       uuid.UUID        `json:"product_id"`
	SelectedOptions option.Selection `json:"selected_options"`
}

func (q *Queries) FindCartItemBySelection(
	ctx context.Context,
	arg FindCartItemBySelectionParams,
) (CartItem, error) {
	row := q.db.QueryRow(
		ctx,
		findCartItemBySelection,
		arg.CartID,
		arg.ProductID,
		selectionParam(arg.SelectedOptions),
	)
	return scanCartItem(row)
}

const insertCartItem = `-- name: InsertCartItem :one
INSERT INTO cart_items (cart_id, product_id, quantity, selected_options)
VALUES ($1, $2, $3, $4::jsonb)
RETURNING ` + cartItemColumns

type InsertCartItemParams struct {
	CartID          uuid.UUID        `json:"cart_id"`
	ProductID       uuid.UUID        `json:"product_id"`
	Quantity        int32            `json:"quantity"`
	SelectedOptions option.Selection `json:"selected_options"`
}

func (q *Queries) InsertCartItem(ctx context.Context, arg InsertCartItemParams) (CartItem, error) {
	row := q.db.QueryRow(ctx, insertCartItem,
		arg.CartID,
		arg.ProductID,
		arg.Quantity,
		selectionParam(arg.SelectedOptions),
	)
	return scanCartItem(row)
}

const incrementCartItemQuantity = `-- name: IncrementCartItemQuantity :one
UPDATE cart_items SET quantity = quantity + $2, updated_at = now()
WHERE id = $1
RETURNING ` + cartItemColumns

type IncrementCartItemQuantityParams struct {
	ID       uuid.UUID `json:"id"`
	Quantity int32     `json:"quantity"`
}

func (q *Queries) IncrementCartItemQuantity(
	ctx context.Context,
	arg IncrementCartItemQuantityParams,
) (CartItem, error) {
	row := q.db.QueryRow(ctx, incrementCartItemQuantity, arg.ID, arg.Quantity)
	return scanCartItem(row)
}

const updateCartItemQuantity = `-- name: UpdateCartItemQuantity :one
UPDATE cart_items SET quantity = $3, updated_at = now()
WHERE id = $1 AND cart_id = $2
RETURNING ` + cartItemColumns

type UpdateCartItemQuantityParams struct {
	ID       uuid.UUID `json:"id"`
	CartID   uuid.UUID `json:"cart_id"`
	Quantity int32     `json:"quantity"`
}

func (q *Queries) UpdateCartItemQuantity(
	ctx context.Context,
	arg UpdateCartItemQuantityParams,
) (CartItem, error) {
	row := q.db.QueryRow(ctx, updateCartItemQuantity, arg.ID, arg.CartID, arg.Quantity)
	return scanCartItem(row)
}

const deleteCartItem = `-- name: DeleteCartItem :execrows
DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`

type DeleteCartItemParams struct {
	ID     uuid.UUID `json:"id"`
	CartID uuid.UUID `json:"cart_id"`
}

func (q *Queries) DeleteCartItem(ctx context.Context, arg DeleteCartItemParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteCartItem, arg.ID, arg.CartID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteCartItemsByCartId = `-- name: DeleteCartItemsByCartId :execrows
DELETE FROM cart_items WHERE cart_id = $1`

func (q *Queries) DeleteCartItemsByCartId(ctx context.Context, cartID uuid.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteCartItemsByCartId, cartID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
