package repository

import (
	"testing"

	"github.com/oklog/ulid/v2"
)

func TestULIDGenerator_GenerateIsValidAndOrdered(t *testing.T) {
	g := NewULIDGenerator()

	prev := g.Generate()
	if _, err := ulid.ParseStrict(prev); err != nil {
		t.Fatalf("invalid ULID %q: %v", prev, err)
	}

	for i := 0; i < 100; i++ {
		next := g.Generate()
		if next <= prev {
			t.Fatalf("expected %q to sort after %q", next, prev)
		}
		prev = next
	}
}
