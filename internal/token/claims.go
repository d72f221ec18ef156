package token

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Kind tags a token as access or refresh. The two are never interchangeable:
// parsing enforces the tag in addition to the per-kind signature.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims is the only supported claims shape for this service.
// Subject carries the user id as a string-encoded integer.
type Claims struct {
	jwt.RegisteredClaims

	TokenType Kind `json:"type"`
}

// UserID decodes the subject claim into the store's identity type.
func (c Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalid
	}
	return id, nil
}
