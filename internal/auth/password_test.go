package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("rahasia-123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$12$") {
		t.Errorf("hash = %q, want bcrypt at cost 12", hash)
	}
	if err := VerifyPassword("rahasia-123", hash); err != nil {
		t.Errorf("VerifyPassword() with correct password = %v", err)
	}
}

func TestHashPasswordTooShort(t *testing.T) {
	_, err := HashPassword("pendek")
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("HashPassword() error = %v, want ErrPasswordTooShort", err)
	}
	if !strings.Contains(err.Error(), "8") {
		t.Errorf("error %q must state the minimum length", err)
	}
}

func TestVerifyPasswordMismatch(t *testing.T) {
	hash, err := HashPassword("rahasia-123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if err := VerifyPassword("salah-besar", hash); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("VerifyPassword() with wrong password = %v, want ErrPasswordMismatch", err)
	}
}
