package token

import (
	"errors"
	"strconv"
	"time"

	"auth-api/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// Parse failure causes. Callers that face the network should collapse all of
// these into a single unauthorized outcome; they exist for diagnostics only.
var (
	ErrExpired        = errors.New("token expired")
	ErrInvalid        = errors.New("token invalid")
	ErrWrongType      = errors.New("token type mismatch")
	ErrMissingSubject = errors.New("token subject missing")
)

// Codec issues and parses signed, expiring tokens.
//
// Invariants:
// - every issued token is signed with the key matching its kind
// - a parsed token must carry the kind it is being parsed as
// - expiry is evaluated against the caller-supplied now, never the wall clock
//
// Codec holds no mutable state and is safe for concurrent use.
type Codec struct {
	accessKey  []byte
	refreshKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewCodec(cfg config.AuthConfig) (*Codec, error) {
	if cfg.AccessSecret == "" {
		return nil, errors.New("JWT_ACCESS_SECRET is required")
	}
	if cfg.RefreshSecret == "" {
		return nil, errors.New("JWT_REFRESH_SECRET is required")
	}
	return &Codec{
		accessKey:  []byte(cfg.AccessSecret),
		refreshKey: []byte(cfg.RefreshSecret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
	}, nil
}

// IssueAccess mints a short-lived access token for the given user id.
func (c *Codec) IssueAccess(subject int64, now time.Time) (string, error) {
	return c.issue(KindAccess, c.accessKey, subject, now, c.accessTTL)
}

// IssueRefresh mints a long-lived refresh token for the given user id.
func (c *Codec) IssueRefresh(subject int64, now time.Time) (string, error) {
	return c.issue(KindRefresh, c.refreshKey, subject, now, c.refreshTTL)
}

// ParseAccess verifies signature (access key), expiry and kind.
func (c *Codec) ParseAccess(tokenString string, now time.Time) (Claims, error) {
	return c.parse(tokenString, KindAccess, c.accessKey, now)
}

// ParseRefresh verifies signature (refresh key), expiry, kind and
// a present subject.
func (c *Codec) ParseRefresh(tokenString string, now time.Time) (Claims, error) {
	return c.parse(tokenString, KindRefresh, c.refreshKey, now)
}

func (c *Codec) issue(kind Kind, key []byte, subject int64, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subject, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: kind,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(key)
}

func (c *Codec) parse(tokenString string, kind Kind, key []byte, now time.Time) (Claims, error) {
	var claims Claims

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	_, err := parser.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		// Malformed token, bad signature, wrong alg: all collapse here.
		return Claims{}, ErrInvalid
	}

	if claims.TokenType != kind {
		return Claims{}, ErrWrongType
	}
	if claims.Subject == "" {
		return Claims{}, ErrMissingSubject
	}
	return claims, nil
}
