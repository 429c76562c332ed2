package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const userColumns = `id, email, password, name, phone, role::text, points, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var i User
	var role string
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Password,
		&i.Name,
		&i.Phone,
		&role,
		&i.Points,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	i.Role = UserRole(role)
	return i, err
}

const insertUser = `-- name: InsertUser :one
INSERT INTO users (email, password, name, phone)
VALUES ($1, $2, $3, $4)
RETURNING ` + userColumns

type InsertUserParams struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Phone    pgtype.Text `json:"phone"`
}

func (q *Queries) InsertUser(ctx context.Context, arg InsertUserParams) (User, error) {
	row := q.db.QueryRow(ctx, insertUser, arg.Email, arg.Password, arg.Name, arg.Phone)
	return scanUser(row)
}

const findUserByEmail = `-- name: FindUserByEmail :one
SELECT ` + userColumns + ` FROM users WHERE email = $1`

func (q *Queries) FindUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRow(ctx, findUserByEmail, email)
	return scanUser(row)
}

const findUserById = `-- name: FindUserById :one
SELECT ` + userColumns + ` FROM users WHERE id = $1`

func (q *Queries) FindUserById(ctx context.Context, id uuid.UUID) (User, error) {
	row := q.db.QueryRow(ctx, findUserById, id)
	return scanUser(row)
}

const updateUserRole = `-- name: UpdateUserRole :one
UPDATE users SET role = $2::user_role, updated_at = now()
WHERE id = $1
RETURNING ` + userColumns

type UpdateUserRoleParams struct {
	ID   uuid.UUID `json:"id"`
	Role UserRole  `json:"role"`
}

func (q *Queries) UpdateUserRole(ctx context.Context, arg UpdateUserRoleParams) (User, error) {
	row := q.db.QueryRow(ctx, updateUserRole, arg.ID, string(arg.Role))
	return scanUser(row)
}

const findUsers = `-- name: FindUsers :many
SELECT ` + userColumns + ` FROM users
ORDER BY created_at DESC, id
LIMIT $1 OFFSET $2`

type FindUsersParams struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (q *Queries) FindUsers(ctx context.Context, arg FindUsersParams) ([]User, error) {
	rows, err := q.db.Query(ctx, findUsers, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []User{}
	for rows.Next() {
		i, err := scanUser(rows)
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

const countUsers = `-- name: CountUsers :one
SELECT count(*) FROM users`

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	row := q.db.QueryRow(ctx, countUsers)
	var count int64
	err := row.Scan(&count)
	return count, err
}
