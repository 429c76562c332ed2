package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Alturino/dailycoffee/internal/option"
)

const orderColumns = `id, user_id, status::text, shipping_address, payment_method, total_amount, coupon_discount, point_discount, created_at, updated_at`

// orderRowColumns eager-loads order items with a product summary and the buyer as JSON,
// keyed the way the response types expect.
const orderRowColumns = `o.id, o.user_id, o.status::text, o.shipping_address, o.payment_method, o.total_amount,
    o.coupon_discount, o.point_discount, o.created_at, o.updated_at,
    COALESCE((
        SELECT json_agg(json_build_object(
            'id', oi.id,
            'orderId', oi.order_id,
            'productId', oi.product_id,
            'quantity', oi.quantity,
            'price', oi.price,
            'selectedOptions', oi.selected_options,
            'createdAt', oi.created_at,
            'product', json_build_object(
                'id', p.id,
                'name', p.name,
                'slug', p.slug,
                'imageUrl', (
                    SELECT pi.url FROM product_images pi
                    WHERE pi.product_id = p.id
                    ORDER BY pi.is_primary DESC, pi.sort_order, pi.id
                    LIMIT 1
                )
            )
        ) ORDER BY oi.created_at, oi.id)
        FROM order_items oi
        JOIN products p ON p.id = oi.product_id
        WHERE oi.order_id = o.id
    ), '[]'::json) AS order_items,
    json_build_object('id', u.id, 'name', u.name, 'email', u.email) AS buyer`

type OrderRow struct {
	Order      Order  `json:"order"`
	OrderItems []byte `json:"order_items"`
	Buyer      []byte `json:"buyer"`
}

func orderScanTargets(o *Order, status *string) []any {
	return []any{
		&o.ID,
		&o.UserID,
		status,
		&o.ShippingAddress,
		&o.PaymentMethod,
		&o.TotalAmount,
		&o.CouponDiscount,
		&o.PointDiscount,
		&o.CreatedAt,
		&o.UpdatedAt,
	}
}

func scanOrder(row interface{ Scan(...any) error }) (Order, error) {
	var i Order
	var status string
	err := row.Scan(orderScanTargets(&i, &status)...)
	i.Status = OrderStatus(status)
	return i, err
}

func scanOrderRow(row interface{ Scan(...any) error }) (OrderRow, error) {
	var i OrderRow
	var status string
	targets := append(orderScanTargets(&i.Order, &status), &i.OrderItems, &i.Buyer)
	err := row.Scan(targets...)
	i.Order.Status = OrderStatus(status)
	return i, err
}

func (q *Queries) queryOrderRows(ctx context.Context, sql string, args ...any) ([]OrderRow, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []OrderRow{}
	for rows.Next() {
		i, err := scanOrderRow(rows)
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

const insertOrder = `-- name: InsertOrder :one
INSERT INTO orders (user_id, shipping_address, payment_method, total_amount)
VALUES ($1, $2::jsonb, $3, $4)
RETURNING ` + orderColumns

type InsertOrderParams struct {
	UserID          uuid.UUID      `json:"user_id"`
	ShippingAddress []byte         `json:"shipping_address"`
	PaymentMethod   string         `json:"payment_method"`
	TotalAmount     pgtype.Numeric `json:"total_amount"`
}

func (q *Queries) InsertOrder(ctx context.Context, arg InsertOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, insertOrder,
		arg.UserID,
		arg.ShippingAddress,
		arg.PaymentMethod,
		arg.TotalAmount,
	)
	return scanOrder(row)
}

type InsertOrderItemParams struct {
	OrderID         uuid.UUID        `json:"order_id"`
	ProductID       uuid.UUID        `json:"product_id"`
	Quantity        int32            `json:"quantity"`
	Price           pgtype.Numeric   `json:"price"`
	SelectedOptions option.Selection `json:"selected_options"`
}

// iteratorForInsertOrderItem implements pgx.CopyFromSource.
type iteratorForInsertOrderItem struct {
	rows                 []InsertOrderItemParams
	skippedFirstNextCall bool
}

func (r *iteratorForInsertOrderItem) Next() bool {
	if len(r.rows) == 0 {
		return false
	}
	if !r.skippedFirstNextCall {
		r.skippedFirstNextCall = true
		return true
	}
	r.rows = r.rows[1:]
	return len(r.rows) > 0
}

func (r iteratorForInsertOrderItem) Values() ([]interface{}, error) {
	return []interface{}{
		r.rows[0].OrderID,
		r.rows[0].ProductID,
		r.rows[0].Quantity,
		r.rows[0].Price,
		selectionParam(r.rows[0].SelectedOptions),
	}, nil
}

func (r iteratorForInsertOrderItem) Err() error {
	return nil
}

func (q *Queries) InsertOrderItem(ctx context.Context, arg []InsertOrderItemParams) (int64, error) {
	return q.db.CopyFrom(
		ctx,
		pgx.Identifier{"order_items"},
		[]string{"order_id", "product_id", "quantity", "price", "selected_options"},
		&iteratorForInsertOrderItem{rows: arg},
	)
}

const findOrderByIdAndUserId = `-- name: FindOrderByIdAndUserId :one
SELECT ` + orderRowColumns + `
FROM orders o
JOIN users u ON u.id = o.user_id
WHERE o.id = $1 AND o.user_id = $2`

type FindOrderByIdAndUserIdParams struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
}

func (q *Queries) FindOrderByIdAndUserId(
	ctx context.Context,
	arg FindOrderByIdAndUserIdParams,
) (OrderRow, error) {
	row := q.db.QueryRow(ctx, findOrderByIdAndUserId, arg.ID, arg.UserID)
	return scanOrderRow(row)
}

const findOrderById = `-- name: FindOrderById :one
SELECT ` + orderRowColumns + `
FROM orders o
JOIN users u ON u.id = o.user_id
WHERE o.id = $1`

func (q *Queries) FindOrderById(ctx context.Context, id uuid.UUID) (OrderRow, error) {
	row := q.db.QueryRow(ctx, findOrderById, id)
	return scanOrderRow(row)
}

const findOrdersByUserId = `-- name: FindOrdersByUserId :many
SELECT ` + orderRowColumns + `
FROM orders o
JOIN users u ON u.id = o.user_id
WHERE o.user_id = $1
ORDER BY o.created_at DESC, o.id
LIMIT $2 OFFSET $3`

type FindOrdersByUserIdParams struct {
	UserID uuid.UUID `json:"user_id"`
	Limit  int32     `json:"limit"`
	Offset int32     `json:"offset"`
}

func (q *Queries) FindOrdersByUserId(
	ctx context.Context,
	arg FindOrdersByUserIdParams,
) ([]OrderRow, error) {
	return q.queryOrderRows(ctx, findOrdersByUserId, arg.UserID, arg.Limit, arg.Offset)
}

const countOrdersByUserId = `-- name: CountOrdersByUserId :one
SELECT count(*) FROM orders WHERE user_id = $1`

func (q *Queries) CountOrdersByUserId(ctx context.Context, userID uuid.UUID) (int64, error) {
	row := q.db.QueryRow(ctx, countOrdersByUserId, userID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const findOrders = `-- name: FindOrders :many
SELECT ` + orderRowColumns + `
FROM orders o
JOIN users u ON u.id = o.user_id
WHERE ($1::text IS NULL OR o.status::text = $1::text)
ORDER BY o.created_at DESC, o.id
LIMIT $2 OFFSET $3`

type FindOrdersParams struct {
	Status pgtype.Text `json:"status"`
	Limit  int32       `json:"limit"`
	Offset int32       `json:"offset"`
}

func (q *Queries) FindOrders(ctx context.Context, arg FindOrdersParams) ([]OrderRow, error) {
	return q.queryOrderRows(ctx, findOrders, arg.Status, arg.Limit, arg.Offset)
}

const countOrders = `-- name: CountOrders :one
SELECT count(*) FROM orders o
WHERE ($1::text IS NULL OR o.status::text = $1::text)`

func (q *Queries) CountOrders(ctx context.Context, status pgtype.Text) (int64, error) {
	row := q.db.QueryRow(ctx, countOrders, status)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const updateOrderStatus = `-- name: UpdateOrderStatus :one
UPDATE orders SET status = $2::order_status, updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns

type UpdateOrderStatusParams struct {
	ID     uuid.UUID   `json:"id"`
	Status OrderStatus `json:"status"`
}

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	row := q.db.QueryRow(ctx, updateOrderStatus, arg.ID, string(arg.Status))
	return scanOrder(row)
}
