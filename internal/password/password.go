package password

import "golang.org/x/crypto/bcrypt"

// DefaultCost balances hashing cost against login latency.
const DefaultCost = 12

// Hasher provides one-way password hashing and verification.
// It is stateless and safe for concurrent use.
type Hasher struct {
	cost int
}

func NewHasher() *Hasher {
	return &Hasher{cost: DefaultCost}
}

// Hash produces a salted bcrypt digest of the plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plaintext matches the stored digest.
// A malformed digest verifies as false rather than erroring: callers must not
// be able to distinguish "bad password" from "bad stored hash".
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
