package user

import (
	"context"
	"errors"
	"time"
)

// User is the stored identity record. PasswordHash is opaque to everything
// except the credential verifier and must never be serialized outward.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// View is the public projection of a User returned to clients.
type View struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u User) Public() View {
	return View{ID: u.ID, Username: u.Username, Email: u.Email}
}

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

// Store abstracts user persistence. Uniqueness of email (and username) under
// concurrent inserts is the store's responsibility; Insert must surface a
// losing concurrent registration as ErrEmailTaken.
type Store interface {
	FindByID(ctx context.Context, id int64) (User, error)
	FindByUsername(ctx context.Context, username string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	Insert(ctx context.Context, username, email, passwordHash string) (User, error)
}
