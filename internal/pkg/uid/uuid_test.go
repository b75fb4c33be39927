package uid

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUID_Generate(t *testing.T) {
	gen := NewUUID()

	a, b := gen.Generate(), gen.Generate()
	if a == b {
		t.Fatalf("expected unique ids, got %q twice", a)
	}

	parsed, err := uuid.Parse(a)
	if err != nil {
		t.Fatalf("uuid.Parse(%q): %v", a, err)
	}
	if parsed.Version() != 7 {
		t.Fatalf("version = %d, want 7", parsed.Version())
	}
}
