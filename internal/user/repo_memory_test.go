package user

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryRepoInsertAndFind(t *testing.T) {
	r := &MemoryRepo{}
	ctx := context.Background()

	u, err := r.Insert(ctx, "alice", "a@x.com", "digest")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if u.ID != 1 {
		t.Fatalf("expected id 1, got %d", u.ID)
	}

	if got, err := r.FindByID(ctx, u.ID); err != nil || got.Username != "alice" {
		t.Fatalf("find by id: %v %+v", err, got)
	}
	if got, err := r.FindByUsername(ctx, "alice"); err != nil || got.ID != u.ID {
		t.Fatalf("find by username: %v %+v", err, got)
	}
	if got, err := r.FindByEmail(ctx, "a@x.com"); err != nil || got.ID != u.ID {
		t.Fatalf("find by email: %v %+v", err, got)
	}
}

func TestMemoryRepoDuplicateEmail(t *testing.T) {
	r := &MemoryRepo{}
	ctx := context.Background()

	if _, err := r.Insert(ctx, "alice", "a@x.com", "digest"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := r.Insert(ctx, "bob", "a@x.com", "digest"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestMemoryRepoNotFound(t *testing.T) {
	r := &MemoryRepo{}
	ctx := context.Background()

	if _, err := r.FindByID(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := r.FindByUsername(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRepoDelete(t *testing.T) {
	r := &MemoryRepo{}
	ctx := context.Background()

	u, _ := r.Insert(ctx, "alice", "a@x.com", "digest")
	r.Delete(u.ID)

	if _, err := r.FindByID(ctx, u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
