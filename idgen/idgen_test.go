package idgen_test

import (
	"testing"

	"github.com/brinedb/queryengine/idgen"
)

func TestGenerateProducesDistinctPositiveIDs(t *testing.T) {
	g := idgen.New()
	seen := make(map[int64]bool)
	for i := 0; i < 100; i++ {
		id := g.Generate()
		if id < 0 {
			t.Fatalf("id %d is negative", id)
		}
		seen[id] = true
	}
	if len(seen) < 80 {
		t.Errorf("only %d distinct ids out of 100 draws, expected mostly unique", len(seen))
	}
}
