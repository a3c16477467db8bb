package auth

import "testing"

func TestNormalizeEmail(t *testing.T) {
	email, err := NormalizeEmail("  Bob@Example.COM ")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if email != "bob@example.com" {
		t.Fatalf("expected lowercase email, got %q", email)
	}

	for _, raw := range []string{"", "no-at-sign", "@example.com", "bob@"} {
		if _, err := NormalizeEmail(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret-pass" {
		t.Fatal("hash must not equal plaintext")
	}

	if !VerifyPassword(hash, "secret-pass") {
		t.Fatal("expected matching password to verify")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatal("expected mismatched password to fail")
	}
	if VerifyPassword("", "anything") {
		t.Fatal("empty hash must never verify")
	}
}

func TestHashPasswordRequiresInput(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}
