package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"auth-api/internal/config"
	"auth-api/internal/password"
	"auth-api/internal/token"
	"auth-api/internal/user"
)

var testNow = time.Unix(1700000000, 0).UTC()

func newTestService(t *testing.T) (*Service, *user.MemoryRepo) {
	t.Helper()

	codec, err := token.NewCodec(config.AuthConfig{
		AccessSecret:    "access-secret",
		RefreshSecret:   "refresh-secret",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 60 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("codec: %v", err)
	}

	repo := &user.MemoryRepo{}
	svc := NewService(repo, password.NewHasher(), codec, nil)
	svc.clock = func() time.Time { return testNow }
	return svc, repo
}

func TestRegisterReturnsPublicView(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	view, err := svc.Register(ctx, "alice", "a@x.com", "abcd1234")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if view.ID == 0 || view.Username != "alice" || view.Email != "a@x.com" {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "a@x.com", "abcd1234"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, "alice2", "a@x.com", "abcd1234"); !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "a@x.com", "abcd1234"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPw := svc.Login(ctx, "alice", "wrong-password")
	_, noUser := svc.Login(ctx, "nobody", "abcd1234")

	if !errors.Is(wrongPw, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPw)
	}
	if !errors.Is(noUser, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", noUser)
	}
	// Same error value either way: nothing to enumerate accounts with.
	if wrongPw.Error() != noUser.Error() {
		t.Fatalf("login failures must not differ: %q vs %q", wrongPw, noUser)
	}
}

func TestLoginThenRefreshKeepsSubject(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	view, err := svc.Register(ctx, "alice", "a@x.com", "abcd1234")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	pair, err := svc.Login(ctx, "alice", "abcd1234")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected token pair")
	}

	access, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	claims, err := svc.codec.ParseAccess(access, testNow)
	if err != nil {
		t.Fatalf("parse refreshed access: %v", err)
	}
	id, err := claims.UserID()
	if err != nil {
		t.Fatalf("user id: %v", err)
	}
	if id != view.ID {
		t.Fatalf("expected subject %d, got %d", view.ID, id)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "a@x.com", "abcd1234"); err != nil {
		t.Fatalf("register: %v", err)
	}
	pair, err := svc.Login(ctx, "alice", "abcd1234")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := svc.Refresh(ctx, pair.AccessToken); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCurrentUserResolvesRecord(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	view, _ := svc.Register(ctx, "alice", "a@x.com", "abcd1234")
	pair, err := svc.Login(ctx, "alice", "abcd1234")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	u, err := svc.CurrentUser(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if u.ID != view.ID || u.Username != "alice" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestCurrentUserFailsForDeletedAccount(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	view, _ := svc.Register(ctx, "alice", "a@x.com", "abcd1234")
	pair, err := svc.Login(ctx, "alice", "abcd1234")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	repo.Delete(view.ID)

	// Token is structurally valid and unexpired; resolution must still fail.
	if _, err := svc.CurrentUser(ctx, pair.AccessToken); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCurrentUserFailsAfterExpiry(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "a@x.com", "abcd1234"); err != nil {
		t.Fatalf("register: %v", err)
	}
	pair, err := svc.Login(ctx, "alice", "abcd1234")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	svc.clock = func() time.Time { return testNow.Add(31 * time.Minute) }

	if _, err := svc.CurrentUser(ctx, pair.AccessToken); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	// The refresh token is still good well past the access TTL.
	if _, err := svc.Refresh(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("refresh: %v", err)
	}
}

type fakeLimiter struct {
	allow bool
	err   error
	calls int
}

func (f *fakeLimiter) Allow(ctx context.Context, key string) (bool, error) {
	_ = ctx
	_ = key
	f.calls++
	return f.allow, f.err
}

func TestLoginThrottled(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "a@x.com", "abcd1234"); err != nil {
		t.Fatalf("register: %v", err)
	}

	lim := &fakeLimiter{allow: false}
	svc.limiter = lim

	if _, err := svc.Login(ctx, "alice", "abcd1234"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected throttled login to fail with ErrInvalidCredentials, got %v", err)
	}
	if lim.calls != 1 {
		t.Fatalf("expected limiter consulted once, got %d", lim.calls)
	}
}

func TestLoginLimiterFailureFailsOpen(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "a@x.com", "abcd1234"); err != nil {
		t.Fatalf("register: %v", err)
	}

	svc.limiter = &fakeLimiter{allow: false, err: errors.New("redis down")}

	if _, err := svc.Login(ctx, "alice", "abcd1234"); err != nil {
		t.Fatalf("expected login to succeed when limiter backend fails, got %v", err)
	}
}
