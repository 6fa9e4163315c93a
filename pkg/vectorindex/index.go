package vectorindex

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrEmptyVector    = errors.New("vector has no values")
	ErrInvalidTopK    = errors.New("topK must be positive")
	ErrUnknownBackend = errors.New("unknown vector backend")
)

// Vector is one embedded chunk. ID is deterministic so re-upserting the same
// chunk overwrites it.
type Vector struct {
	ID       string
	Values   []float32
	Metadata map[string]interface{}
}

type Match struct {
	ID       string
	Score    float32
	Metadata map[string]interface{}
}

type IVectorIndex interface {
	Upsert(ctx context.Context, vectors []Vector) error
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)
	Close() error
}

type Config struct {
	Backend     string
	Pinecone    PineconeConfig
	DatabaseURL string
}

func New(ctx context.Context, cfg Config) (IVectorIndex, error) {
	switch cfg.Backend {
	case "pinecone":
		return NewPinecone(ctx, cfg.Pinecone)
	case "pgvector":
		return NewPgvector(ctx, cfg.DatabaseURL)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// MetadataString reads a string field from match metadata, tolerating absent keys.
func MetadataString(md map[string]interface{}, key string) string {
	if md == nil {
		return ""
	}
	if s, ok := md[key].(string); ok {
		return s
	}
	return ""
}

func validate(vector []float32, topK int) error {
	if len(vector) == 0 {
		return ErrEmptyVector
	}
	if topK <= 0 {
		return ErrInvalidTopK
	}
	return nil
}
