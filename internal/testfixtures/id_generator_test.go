package testfixtures

import "testing"

func TestIDGeneratorProducesSequentialIDs(t *testing.T) {
	gen := NewIDGenerator("")

	if last := gen.Last(); last != "" {
		t.Fatalf("expected no last id before first call, got %q", last)
	}

	first := gen.Next()
	second := gen.Next()

	if first != "jti-1" || second != "jti-2" {
		t.Fatalf("unexpected identifiers: %q, %q", first, second)
	}
	if gen.Last() != second {
		t.Fatalf("Last() = %q, want %q", gen.Last(), second)
	}
}
