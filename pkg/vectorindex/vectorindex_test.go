package vectorindex

import (
	"context"
	"errors"
	"os"
	"testing"
)

func TestMemoryQueryRanksByCosine(t *testing.T) {
	idx := NewMemory()
	ctx := context.Background()

	err := idx.Upsert(ctx, []Vector{
		{ID: "a#0", Values: []float32{1, 0, 0}, Metadata: map[string]interface{}{"text": "alpha"}},
		{ID: "b#0", Values: []float32{0.7, 0.7, 0}, Metadata: map[string]interface{}{"text": "beta"}},
		{ID: "c#0", Values: []float32{0, 0, 1}, Metadata: map[string]interface{}{"text": "gamma"}},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	matches, err := idx.Query(ctx, []float32{1, 0.1, 0}, 2)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].ID != "a#0" || matches[1].ID != "b#0" {
		t.Fatalf("unexpected order %s, %s", matches[0].ID, matches[1].ID)
	}
	if MetadataString(matches[0].Metadata, "text") != "alpha" {
		t.Fatalf("metadata not returned: %+v", matches[0].Metadata)
	}
}

func TestMemoryUpsertOverwrites(t *testing.T) {
	idx := NewMemory()
	ctx := context.Background()

	_ = idx.Upsert(ctx, []Vector{{ID: "x#0", Values: []float32{1, 0}, Metadata: map[string]interface{}{"text": "old"}}})
	_ = idx.Upsert(ctx, []Vector{{ID: "x#0", Values: []float32{1, 0}, Metadata: map[string]interface{}{"text": "new"}}})

	matches, err := idx.Query(ctx, []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(matches) != 1 || MetadataString(matches[0].Metadata, "text") != "new" {
		t.Fatalf("expected single overwritten vector, got %+v", matches)
	}
}

func TestMemoryQueryValidation(t *testing.T) {
	idx := NewMemory()

	if _, err := idx.Query(context.Background(), nil, 3); !errors.Is(err, ErrEmptyVector) {
		t.Fatalf("expected ErrEmptyVector, got %v", err)
	}
	if _, err := idx.Query(context.Background(), []float32{1}, 0); !errors.Is(err, ErrInvalidTopK) {
		t.Fatalf("expected ErrInvalidTopK, got %v", err)
	}
	if err := idx.Upsert(context.Background(), []Vector{{ID: "e"}}); !errors.Is(err, ErrEmptyVector) {
		t.Fatalf("expected ErrEmptyVector on upsert, got %v", err)
	}
}

func TestMemoryEmptyIndex(t *testing.T) {
	matches, err := NewMemory().Query(context.Background(), []float32{1, 2}, 5)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no matches, got %d", len(matches))
	}
}

func TestToPineconeVectorMetadata(t *testing.T) {
	pv, err := toPineconeVector(Vector{
		ID:       "h#1",
		Values:   []float32{0.1, 0.2},
		Metadata: map[string]interface{}{"text": "hello", "chunk": 1},
	})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	md := fromPineconeMetadata(pv.Metadata)
	if MetadataString(md, "text") != "hello" {
		t.Fatalf("text lost: %+v", md)
	}
	if md["chunk"] != float64(1) {
		t.Fatalf("chunk = %v", md["chunk"])
	}

	if _, err := toPineconeVector(Vector{ID: "empty"}); !errors.Is(err, ErrEmptyVector) {
		t.Fatalf("expected ErrEmptyVector, got %v", err)
	}
}

func TestPgvectorRoundTrip(t *testing.T) {
	url := os.Getenv("PGVECTOR_TEST_URL")
	if url == "" {
		t.Skip("PGVECTOR_TEST_URL not set")
	}

	ctx := context.Background()
	idx, err := NewPgvector(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer idx.Close()

	if err := idx.Upsert(ctx, []Vector{
		{ID: "pg-test#0", Values: []float32{1, 0, 0}, Metadata: map[string]interface{}{"text": "near"}},
		{ID: "pg-test#1", Values: []float32{0, 1, 0}, Metadata: map[string]interface{}{"text": "far"}},
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	matches, err := idx.Query(ctx, []float32{1, 0, 0}, 1)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(matches) != 1 || MetadataString(matches[0].Metadata, "text") != "near" {
		t.Fatalf("unexpected matches %+v", matches)
	}
}

func TestNewUnknownBackend(t *testing.T) {
	if _, err := New(context.Background(), Config{Backend: "faiss"}); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
	idx, err := New(context.Background(), Config{Backend: "memory"})
	if err != nil || idx == nil {
		t.Fatalf("memory backend: %v", err)
	}
}
