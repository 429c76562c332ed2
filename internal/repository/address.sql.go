package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const addressColumns = `id, user_id, name, phone, zip_code, address1, address2, is_default, created_at, updated_at`

func scanAddress(row interface{ Scan(...any) error }) (Address, error) {
	var i Address
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Name,
		&i.Phone,
		&i.ZipCode,
		&i.Address1,
		&i.Address2,
		&i.IsDefault,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const findAddressesByUserId = `-- name: FindAddressesByUserId :many
SELECT ` + addressColumns + ` FROM addresses
WHERE user_id = $1
ORDER BY is_default DESC, created_at DESC, id`

func (q *Queries) FindAddressesByUserId(ctx context.Context, userID uuid.UUID) ([]Address, error) {
	rows, err := q.db.Query(ctx, findAddressesByUserId, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Address{}
	for rows.Next() {
		i, err := scanAddress(rows)
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

const findAddressByIdAndUserId = `-- name: FindAddressByIdAndUserId :one
SELECT ` + addressColumns + ` FROM addresses WHERE id = $1 AND user_id = $2`

type FindAddressByIdAndUserIdParams struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
}

func (q *Queries) FindAddressByIdAndUserId(
	ctx context.Context,
	arg FindAddressByIdAndUserIdParams,
) (Address, error) {
	row := q.db.QueryRow(ctx, findAddressByIdAndUserId, arg.ID, arg.UserID)
	return scanAddress(row)
}

const insertAddress = `-- name: InsertAddress :one
INSERT INTO addresses (user_id, name, phone, zip_code, address1, address2, is_default)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + addressColumns

type InsertAddressParams struct {
	UserID    uuid.UUID   `json:"user_id"`
	Name      string      `json:"name"`
	Phone     string      `json:"phone"`
	ZipCode   string      `json:"zip_code"`
	Address1  string      `json:"address1"`
	Address2  pgtype.Text `json:"address2"`
	IsDefault bool        `json:"is_default"`
}

func (q *Queries) InsertAddress(ctx context.Context, arg InsertAddressParams) (Address, error) {
	row := q.db.QueryRow(ctx, insertAddress,
		arg.UserID,
		arg.Name,
		arg.Phone,
		arg.ZipCode,
		arg.Address1,
		arg.Address2,
		arg.IsDefault,
	)
	return scanAddress(row)
}

const updateAddress = `-- name: UpdateAddress :one
UPDATE addresses SET
    name = COALESCE($3::text, name),
    phone = COALESCE($4::text, phone),
    zip_code = COALESCE($5::text, zip_code),
    address1 = COALESCE($6::text, address1),
    address2 = COALESCE($7::text, address2),
    is_default = COALESCE($8::bool, is_default),
    updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING ` + addressColumns

type UpdateAddressParams struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"user_id"`
	Name      pgtype.Text `json:"name"`
	Phone     pgtype.Text `json:"phone"`
	ZipCode   pgtype.Text `json:"zip_code"`
	Address1  pgtype.Text `json:"address1"`
	Address2  pgtype.Text `json:"address2"`
	IsDefault pgtype.Bool `json:"is_default"`
}

func (q *Queries) UpdateAddress(ctx context.Context, arg UpdateAddressParams) (Address, error) {
	row := q.db.QueryRow(ctx, updateAddress,
		arg.ID,
		arg.UserID,
		arg.Name,
		arg.Phone,
		arg.ZipCode,
		arg.Address1,
		arg.Address2,
		arg.IsDefault,
	)
	return scanAddress(row)
}

const deleteAddress = `-- name: DeleteAddress :execrows
DELETE FROM addresses WHERE id = $1 AND user_id = $2`

type DeleteAddressParams struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
}

func (q *Queries) DeleteAddress(ctx context.Context, arg DeleteAddressParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteAddress, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const clearDefaultAddress = `-- name: ClearDefaultAddress :exec
UPDATE addresses SET is_default = false, updated_at = now()
WHERE user_id = $1 AND is_default`

func (q *Queries) ClearDefaultAddress(ctx context.Context, userID uuid.UUID) error {
	_, err := q.db.Exec(ctx, clearDefaultAddress, userID)
	return err
}

const setDefaultAddress = `-- name: SetDefaultAddress :one
UPDATE addresses SET is_default = true, updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING ` + addressColumns

type SetDefaultAddressParams struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
}

func (q *Queries) SetDefaultAddress(ctx context.Context, arg SetDefaultAddressParams) (Address, error) {
	row := q.db.QueryRow(ctx, setDefaultAddress, arg.ID, arg.UserID)
	return scanAddress(row)
}
