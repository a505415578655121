package security

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if !strings.Contains(hash, ":") {
		t.Fatalf("expected salt:digest format, got %q", hash)
	}

	if !VerifyPassword("correct-horse-battery", hash) {
		t.Error("correct password should verify")
	}
	if VerifyPassword("wrong-password", hash) {
		t.Error("wrong password should not verify")
	}
}

func TestHashPasswordSaltRandomization(t *testing.T) {
	first, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	second, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if first == second {
		t.Error("two hashes of the same password should differ")
	}
	if !VerifyPassword("same-password", first) || !VerifyPassword("same-password", second) {
		t.Error("both hashes should verify the original password")
	}
}

func TestVerifyPasswordFailsClosed(t *testing.T) {
	malformed := []string{
		"",
		"no-separator",
		"nothex:deadbeef",
		"deadbeef:nothex",
		":",
		"deadbeef:",
	}

	for _, stored := range malformed {
		if VerifyPassword("anything", stored) {
			t.Errorf("malformed stored value %q should verify false", stored)
		}
	}
}
