package auth

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	// bcrypt only reads the first 72 bytes of its input; recent versions
	// of the primitive reject longer inputs outright.
	bcryptByteLimit = 72
	// truncateLimit leaves a one byte margin below the primitive limit.
	truncateLimit = bcryptByteLimit - 1
)

// ErrEmptyPassword is returned when a password is empty, or becomes empty
// after truncation.
var ErrEmptyPassword = errors.New("password must not be empty")

// Hasher is the password hashing strategy. There is one canonical
// implementation; Verify additionally accepts hashes written by the legacy
// code path (see BcryptHasher.Verify).
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// BcryptHasher is the canonical Hasher implementation.
type BcryptHasher struct {
	// Cost overrides bcrypt.DefaultCost when non-zero. Tests lower it.
	Cost int
}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{Cost: bcrypt.DefaultCost}
}

func (h *BcryptHasher) cost() int {
	if h.Cost != 0 {
		return h.Cost
	}
	return bcrypt.DefaultCost
}

// Hash truncates plain to the policy limit and hashes it. If the primitive
// still rejects the length it retries once with a hard clamp at the raw
// 72-byte limit before surfacing the wrapped failure.
func (h *BcryptHasher) Hash(plain string) (string, error) {
	truncated, err := TruncatePassword(plain)
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(truncated), h.cost())
	if err != nil && errors.Is(err, bcrypt.ErrPasswordTooLong) {
		clamped := clampBytes(truncated, bcryptByteLimit)
		if clamped == "" {
			return "", ErrEmptyPassword
		}
		hash, err = bcrypt.GenerateFromPassword([]byte(clamped), h.cost())
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify applies the same truncation policy to the candidate and compares.
// It never panics or errors: a malformed or foreign hash yields false.
// Hashes carrying the legacy $2y$ prefix are bit-compatible with $2a$, so a
// hash the primitive rejects is normalized and compared once more.
func (h *BcryptHasher) Verify(plain, hash string) bool {
	candidate := clampBytes(plain, truncateLimit)
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate))
	if err == nil {
		return true
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false
	}
	if legacy, ok := normalizeLegacyHash(hash); ok {
		return bcrypt.CompareHashAndPassword([]byte(legacy), []byte(candidate)) == nil
	}
	return false
}

// TruncatePassword reduces plain to at most truncateLimit bytes, cutting on
// a full rune boundary. An input that is, or becomes, empty is an error.
func TruncatePassword(plain string) (string, error) {
	out := clampBytes(plain, truncateLimit)
	if out == "" {
		return "", ErrEmptyPassword
	}
	return out, nil
}

// clampBytes shortens s to at most limit bytes without splitting a
// multi-byte rune; trailing partial runes are dropped.
func clampBytes(s string, limit int) string {
	b := []byte(s)
	if len(b) <= limit {
		return s
	}
	b = b[:limit]
	for len(b) > 0 {
		r, size := utf8.DecodeLastRune(b)
		if r != utf8.RuneError || size > 1 {
			break
		}
		b = b[:len(b)-1]
	}
	return string(b)
}

func normalizeLegacyHash(hash string) (string, bool) {
	if strings.HasPrefix(hash, "$2y$") {
		return "$2a$" + hash[len("$2y$"):], true
	}
	return "", false
}
