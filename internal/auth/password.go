package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher wraps bcrypt with a configured work factor.
// The cost and salt are embedded in every digest, so verification of
// old hashes keeps working after the cost is tuned.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, errors.New("bcrypt cost out of range")
	}
	return &PasswordHasher{cost: cost}, nil
}

func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. bcrypt's
// comparison is constant-time; the boolean collapses mismatch and
// malformed-digest so callers cannot leak which one occurred.
func (h *PasswordHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
