package user

import (
	"context"
	"database/sql"
	"errors"

	"auth-api/pkg/utils"

	"github.com/jackc/pgx/v5/pgconn"
)

// NOTE: This repository assumes the following table exists:
//
//	CREATE TABLE users (
//	  id            BIGSERIAL PRIMARY KEY,
//	  username      TEXT NOT NULL UNIQUE,
//	  email         TEXT NOT NULL UNIQUE,
//	  password_hash TEXT NOT NULL,
//	  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
//	)
//
// The unique indexes are the authority on duplicates; the pre-insert check in
// Insert only exists to produce the common-case conflict without burning a
// sequence value.

// Repo is the Postgres-backed Store.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

var _ Store = (*Repo)(nil)

func (r *Repo) FindByID(ctx context.Context, id int64) (User, error) {
	const q = `
SELECT id, username, email, password_hash, created_at
FROM users
WHERE id = $1
`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

func (r *Repo) FindByUsername(ctx context.Context, username string) (User, error) {
	const q = `
SELECT id, username, email, password_hash, created_at
FROM users
WHERE username = $1
`
	return scanUser(r.db.QueryRowContext(ctx, q, username))
}

func (r *Repo) FindByEmail(ctx context.Context, email string) (User, error) {
	const q = `
SELECT id, username, email, password_hash, created_at
FROM users
WHERE email = $1
`
	return scanUser(r.db.QueryRowContext(ctx, q, email))
}

// Insert creates a user. The duplicate check and the insert run in one
// transaction; a race that slips past the check is caught by the unique
// index and reported as ErrEmailTaken all the same.
func (r *Repo) Insert(ctx context.Context, username, email, passwordHash string) (User, error) {
	var out User

	err := utils.WithTx(ctx, r.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		const check = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
		var exists bool
		if err := tx.QueryRowContext(ctx, check, email).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrEmailTaken
		}

		const ins = `
INSERT INTO users (username, email, password_hash)
VALUES ($1, $2, $3)
RETURNING id, username, email, password_hash, created_at
`
		u, err := scanUser(tx.QueryRowContext(ctx, ins, username, email, passwordHash))
		if err != nil {
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var u User
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
