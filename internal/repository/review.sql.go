package repository

import (
	"context"

	"github.com/google/uuid"
)

const reviewColumns = `id, user_id, product_id, order_id, rating, content, images, likes, created_at`

func reviewScanTargets(r *Review) []any {
	return []any{
		&r.ID,
		&r.UserID,
		&r.ProductID,
		&r.OrderID,
		&r.Rating,
		&r.Content,
		&r.Images,
		&r.Likes,
		&r.CreatedAt,
	}
}

func scanReview(row interface{ Scan(...any) error }) (Review, error) {
	var i Review
	err := row.Scan(reviewScanTargets(&i)...)
	return i, err
}

type ReviewRow struct {
	Review   Review `json:"review"`
	UserName string `json:"user_name"`
}

const insertReview = `-- name: InsertReview :one
INSERT INTO reviews (user_id, product_id, order_id, rating, content, images)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + reviewColumns

type InsertReviewParams struct {
	UserID    uuid.UUID     `json:"user_id"`
	ProductID uuid.UUID     `json:"product_id"`
	OrderID   uuid.NullUUID `json:"order_id"`
	Rating    int16         `json:"rating"`
	Content   string        `json:"content"`
	Images    []string      `json:"images"`
}

func (q *Queries) InsertReview(ctx context.Context, arg InsertReviewParams) (Review, error) {
	images := arg.Images
	if images == nil {
		images = []string{}
	}
	row := q.db.QueryRow(ctx, insertReview,
		arg.UserID,
		arg.ProductID,
		arg.OrderID,
		arg.Rating,
		arg.Content,
		images,
	)
	return scanReview(row)
}

const findReviewsByProductId = `-- name: FindReviewsByProductId :many
SELECT r.id, r.user_id, r.product_id, r.order_id, r.rating, r.content, r.images, r.likes, r.created_at,
    u.name AS user_name
FROM reviews r
JOIN users u ON u.id = r.user_id
WHERE r.product_id = $1
ORDER BY r.created_at DESC, r.id
LIMIT $2 OFFSET $3`

type FindReviewsByProductIdParams struct {
	ProductID uuid.UUID `json:"product_id"`
	Limit     int32     `json:"limit"`
	Offset    int32     `json:"offset"`
}

func (q *Queries) FindReviewsByProductId(
	ctx context.Context,
	arg FindReviewsByProductIdParams,
) ([]ReviewRow, error) {
	rows, err := q.db.Query(ctx, findReviewsByProductId, arg.ProductID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ReviewRow{}
	for rows.Next() {
		var i ReviewRow
		targets := append(reviewScanTargets(&i.Review), &i.UserName)
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countReviewsByProductId = `-- name: CountReviewsByProductId :one
SELECT count(*) FROM reviews WHERE product_id = $1`

func (q *Queries) CountReviewsByProductId(ctx context.Context, productID uuid.UUID) (int64, error) {
	row := q.db.QueryRow(ctx, countReviewsByProductId, productID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const incrementReviewLikes = `-- name: IncrementReviewLikes :one
UPDATE reviews SET likes = likes + 1
WHERE id = $1
RETURNING ` + reviewColumns

func (q *Queries) IncrementReviewLikes(ctx context.Context, id uuid.UUID) (Review, error) {
	row := q.db.QueryRow(ctx, incrementReviewLikes, id)
	return scanReview(row)
}
