package utils

import (
	"errors"
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=3,p=2$") {
		t.Fatalf("unexpected hash format %q", hash)
	}
	if strings.Contains(hash, "correct horse") {
		t.Fatal("hash contains the plaintext")
	}

	ok, err := VerifyPassword("correct horse", hash)
	if err != nil || !ok {
		t.Fatalf("VerifyPassword(correct) = %v, %v", ok, err)
	}
	ok, err = VerifyPassword("battery staple", hash)
	if err != nil || ok {
		t.Fatalf("VerifyPassword(wrong) = %v, %v", ok, err)
	}

	other, _ := HashPassword("correct horse")
	if other == hash {
		t.Fatal("two hashes of the same password should differ by salt")
	}
}

func TestVerifyPasswordRejectsPlaintext(t *testing.T) {
	if _, err := VerifyPassword("secret", "secret"); !errors.Is(err, ErrInvalidHash) {
		t.Fatalf("got %v, want ErrInvalidHash", err)
	}
}
