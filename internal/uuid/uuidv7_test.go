package uuid

import (
	"testing"

	googleuuid "github.com/google/uuid"
)

func TestNewIsVersion7(t *testing.T) {
	id := New()
	parsed, err := googleuuid.Parse(id)
	if err != nil {
		t.Fatalf("New() returned invalid uuid %q: %v", id, err)
	}
	if parsed.Version() != 7 {
		t.Errorf("expected version 7, got %d", parsed.Version())
	}
}

func TestNewIsOrdered(t *testing.T) {
	prev := New()
	for i := 0; i < 100; i++ {
		next := New()
		if next <= prev {
			t.Fatalf("expected %s > %s", next, prev)
		}
		prev = next
	}
}

func TestParse(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		got, err := Parse("0190C8E2-7A3B-7C00-8000-000000000001")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "0190c8e2-7a3b-7c00-8000-000000000001" {
			t.Errorf("expected lower-case form, got %s", got)
		}
	})
	t.Run("invalid", func(t *testing.T) {
		if _, err := Parse("nope"); err == nil {
			t.Error("expected error")
		}
		if IsValid("nope") {
			t.Error("IsValid should be false")
		}
	})
}
