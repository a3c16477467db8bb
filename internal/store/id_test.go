package store

import (
	"strings"
	"testing"
)

func TestGenerateEntryID(t *testing.T) {
	id, err := GenerateEntryID(nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(id, "en-") {
		t.Fatalf("expected en- prefix, got %q", id)
	}
	if len(id) != len("en-")+idHashLength {
		t.Fatalf("unexpected id length: %q", id)
	}
}

func TestGenerateIDRetriesOnCollision(t *testing.T) {
	calls := 0
	id, err := GenerateID("en", func(string) (bool, error) {
		calls++
		return calls < 3, nil
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if id == "" {
		t.Fatal("expected id after retries")
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestGenerateIDExhaustsAttempts(t *testing.T) {
	_, err := GenerateID("en", func(string) (bool, error) {
		return true, nil
	})
	if err == nil {
		t.Fatal("expected error when every attempt collides")
	}
}
