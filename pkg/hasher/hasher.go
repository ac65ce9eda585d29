// Package hasher turns plaintext passwords into stored digests.
//
// The default SHA512 hasher is deterministic and unsalted: Hash(x) == Hash(x)
// for every x, and stored digests stay compatible with accounts created by
// earlier deployments. It is a single pass of a fast hash and therefore weak
// against offline guessing; production deployments should set
// PASSWORD_HASHER=bcrypt, which salts and iterates.
package hasher

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/akinalp/gamevault/pkg"
)

// Supported hasher kinds.
const (
	KindSHA512 = "sha512"
	KindBcrypt = "bcrypt"
)

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(secret string) (string, error)
	Verify(digest, secret string) bool
}

// New returns the hasher for kind. An empty kind selects SHA512.
func New(kind string) (Hasher, error) {
	switch kind {
	case "", KindSHA512:
		return SHA512{}, nil
	case KindBcrypt:
		return Bcrypt{Cost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", kind)
	}
}

// SHA512 is the hex-encoded SHA-512 of the secret.
type SHA512 struct{}

func (SHA512) Hash(secret string) (string, error) {
	sum := sha512.Sum512([]byte(secret))
	return hex.EncodeToString(sum[:]), nil
}

func (h SHA512) Verify(digest, secret string) bool {
	candidate, _ := h.Hash(secret)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(digest)) == 1
}

// Bcrypt is the salted alternative. Its digests differ on every call, so it
// can only be checked through Verify.
type Bcrypt struct {
	Cost int
}

func (b Bcrypt) Hash(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), b.Cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password longer than 72 bytes", pkg.ErrValidation)
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (Bcrypt) Verify(digest, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
}
