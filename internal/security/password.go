package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltBytes  = 16
	keyBytes   = 32
	iterations = 100000
)

// HashPassword derives a salted credential hash for storage.
// Output is "salt:digest" in hex; the salt is random per call, so hashing
// the same password twice never yields the same value.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	digest := pbkdf2.Key([]byte(password), salt, iterations, keyBytes, sha256.New)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(digest), nil
}

// VerifyPassword recomputes the digest with the stored salt and compares in
// constant time. A malformed stored value verifies false rather than erroring.
func VerifyPassword(password, stored string) bool {
	salt, digest, ok := strings.Cut(stored, ":")
	if !ok {
		return false
	}

	saltRaw, err := hex.DecodeString(salt)
	if err != nil {
		return false
	}
	digestRaw, err := hex.DecodeString(digest)
	if err != nil || len(digestRaw) == 0 {
		return false
	}

	candidate := pbkdf2.Key([]byte(password), saltRaw, iterations, len(digestRaw), sha256.New)
	return subtle.ConstantTimeCompare(candidate, digestRaw) == 1
}
