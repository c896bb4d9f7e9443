package db

import (
	"fmt"
	"testing"
)

func TestChunkIDs(t *testing.T) {
	ids := make([]string, 25)
	for i := range ids {
		ids[i] = fmt.Sprintf("id-%02d", i)
	}

	chunks := chunkIDs(ids, userBatchSize)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if len(chunks[0]) != 10 || len(chunks[1]) != 10 || len(chunks[2]) != 5 {
		t.Errorf("unexpected chunk sizes: %d, %d, %d", len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}

	// Order must survive chunking.
	i := 0
	for _, chunk := range chunks {
		for _, id := range chunk {
			if id != ids[i] {
				t.Fatalf("order broken at %d: got %s", i, id)
			}
			i++
		}
	}
}

func TestChunkIDsExactMultiple(t *testing.T) {
	chunks := chunkIDs([]string{"a", "b", "c", "d"}, 2)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
}

func TestChunkIDsEdgeCases(t *testing.T) {
	if chunks := chunkIDs(nil, 10); chunks != nil {
		t.Errorf("expected nil for empty input, got %v", chunks)
	}
	if chunks := chunkIDs([]string{"a"}, 0); chunks != nil {
		t.Errorf("expected nil for zero size, got %v", chunks)
	}
}
