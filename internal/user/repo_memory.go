package user

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is a simple in-memory Store useful for tests and early
// development. It enforces the same email/username uniqueness the Postgres
// schema does.
//
// NOTE: This is not intended for production; use Repo.
type MemoryRepo struct {
	mu     sync.Mutex
	nextID int64
	users  []User
}

var _ Store = (*MemoryRepo)(nil)

func (r *MemoryRepo) FindByID(ctx context.Context, id int64) (User, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *MemoryRepo) FindByUsername(ctx context.Context, username string) (User, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *MemoryRepo) FindByEmail(ctx context.Context, email string) (User, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *MemoryRepo) Insert(ctx context.Context, username, email, passwordHash string) (User, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email || u.Username == username {
			return User{}, ErrEmailTaken
		}
	}

	r.nextID++
	u := User{
		ID:           r.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	r.users = append(r.users, u)
	return u, nil
}

// Delete removes a user by id. Not part of Store; tests use it to simulate
// accounts deleted after a token was issued.
func (r *MemoryRepo) Delete(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.users[:0]
	for _, u := range r.users {
		if u.ID != id {
			out = append(out, u)
		}
	}
	r.users = out
}
