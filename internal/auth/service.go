package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auth-api/internal/password"
	"auth-api/internal/token"
	"auth-api/internal/user"
)

// ErrInvalidCredentials is the single outward failure for login, refresh and
// identity resolution. Unknown username, bad password, expired token, wrong
// token type, missing subject and deleted account all collapse into it so
// callers cannot probe which check failed. The wrapped cause survives for
// logging via errors.Is / %v.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Service composes the credential verifier, token codec and user store into
// the user-facing auth flows. It keeps no cross-request state; everything
// shared lives in the store.
type Service struct {
	store   user.Store
	hasher  *password.Hasher
	codec   *token.Codec
	limiter LoginLimiter
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

// NewService wires the auth flows. limiter may be nil to disable login
// throttling (tests, local runs without Redis).
func NewService(store user.Store, hasher *password.Hasher, codec *token.Codec, limiter LoginLimiter) *Service {
	return &Service{
		store:   store,
		hasher:  hasher,
		codec:   codec,
		limiter: limiter,
		clock:   time.Now,
	}
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Register creates an account and returns its public view.
// A duplicate email surfaces as user.ErrEmailTaken; the store enforces
// uniqueness atomically, so a lost registration race reports the same way.
func (s *Service) Register(ctx context.Context, username, email, plaintext string) (user.View, error) {
	digest, err := s.hasher.Hash(plaintext)
	if err != nil {
		return user.View{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.store.Insert(ctx, username, email, digest)
	if err != nil {
		return user.View{}, err
	}
	return u.Public(), nil
}

// Login verifies credentials and issues an access/refresh token pair.
// Unknown username and wrong password are deliberately indistinguishable.
func (s *Service) Login(ctx context.Context, username, plaintext string) (TokenPair, error) {
	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, username)
		if err == nil && !ok {
			return TokenPair{}, ErrInvalidCredentials
		}
		// Limiter backend failure fails open: an unreachable Redis must
		// not lock every user out.
	}

	u, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(plaintext, u.PasswordHash) {
		return TokenPair{}, ErrInvalidCredentials
	}

	now := s.clock().UTC()
	access, err := s.codec.IssueAccess(u.ID, now)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.codec.IssueRefresh(u.ID, now)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh validates a refresh token and mints a new access token for the
// same subject. The refresh token is not rotated; there is no server-side
// token state to invalidate.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	_ = ctx

	now := s.clock().UTC()
	claims, err := s.codec.ParseRefresh(refreshToken, now)
	if err != nil {
		return "", unauthorized(err)
	}

	sub, err := claims.UserID()
	if err != nil {
		return "", unauthorized(err)
	}

	access, err := s.codec.IssueAccess(sub, now)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return access, nil
}

// CurrentUser resolves an access token to the live user record. A
// structurally valid, unexpired token for a deleted account still fails.
func (s *Service) CurrentUser(ctx context.Context, accessToken string) (user.User, error) {
	now := s.clock().UTC()
	claims, err := s.codec.ParseAccess(accessToken, now)
	if err != nil {
		return user.User{}, unauthorized(err)
	}

	id, err := claims.UserID()
	if err != nil {
		return user.User{}, unauthorized(err)
	}

	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, unauthorized(err)
		}
		return user.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func unauthorized(cause error) error {
	return fmt.Errorf("%w: %v", ErrInvalidCredentials, cause)
}
