package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func testHasher() *BcryptHasher {
	return &BcryptHasher{Cost: bcrypt.MinCost}
}

func TestHashAndVerify(t *testing.T) {
	h := testHasher()

	hash, err := h.Hash("supersecret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if hash == "supersecret" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !h.Verify("supersecret", hash) {
		t.Error("verify should succeed for the original password")
	}
	if h.Verify("wrongpw", hash) {
		t.Error("verify should fail for a wrong password")
	}
}

func TestHashLongPasswords(t *testing.T) {
	h := testHasher()

	for _, n := range []int{70, 71, 72, 73, 100, 200} {
		pw := strings.Repeat("a", n)
		hash, err := h.Hash(pw)
		if err != nil {
			t.Fatalf("hash error for length %d: %v", n, err)
		}
		if !h.Verify(pw, hash) {
			t.Errorf("verify should succeed for length %d", n)
		}
	}

	// past the truncation limit only the prefix matters
	long := strings.Repeat("b", 150)
	hash, err := h.Hash(long)
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if !h.Verify(strings.Repeat("b", 71), hash) {
		t.Error("71-byte prefix should verify against the truncated hash")
	}
	if h.Verify(strings.Repeat("b", 70), hash) {
		t.Error("a shorter prefix must not verify")
	}
}

func TestHashMultibyteBoundary(t *testing.T) {
	h := testHasher()

	// 40 two-byte runes = 80 bytes; the 71-byte cut lands mid-rune and
	// must back off to a full rune boundary
	pw := strings.Repeat("é", 40)
	hash, err := h.Hash(pw)
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if !h.Verify(pw, hash) {
		t.Error("verify should succeed for a truncated multi-byte password")
	}

	truncated, err := TruncatePassword(pw)
	if err != nil {
		t.Fatalf("truncate error: %v", err)
	}
	if len(truncated) != 70 {
		t.Errorf("expected 70 bytes after rune-boundary truncation, got %d", len(truncated))
	}
	for _, r := range truncated {
		if r != 'é' {
			t.Fatalf("truncation corrupted a rune: %q", r)
		}
	}
}

func TestHashEmptyPassword(t *testing.T) {
	h := testHasher()

	if _, err := h.Hash(""); !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	h := testHasher()

	for _, hash := range []string{"", "not-a-bcrypt-hash", "$1$foo", "$2a$truncated"} {
		if h.Verify("anything", hash) {
			t.Errorf("verify should be false for malformed hash %q", hash)
		}
	}
}

func TestVerifyLegacyHashVariant(t *testing.T) {
	h := testHasher()

	hash, err := h.Hash("secret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$") && !strings.HasPrefix(hash, "$2b$") {
		t.Fatalf("unexpected hash prefix: %q", hash[:4])
	}

	legacy := "$2y$" + hash[4:]
	if !h.Verify("secret", legacy) {
		t.Error("verify should accept the legacy $2y$ variant")
	}
	if h.Verify("wrong", legacy) {
		t.Error("legacy path must still reject wrong passwords")
	}
}
