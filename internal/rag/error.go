package rag

import "errors"

var (
	ErrEmptyQuery    = errors.New("query is empty")
	ErrEmbed         = errors.New("failed to embed text")
	ErrUpsert        = errors.New("failed to upsert vectors")
	ErrSearch        = errors.New("failed to search vector index")
	ErrGenerate      = errors.New("failed to generate answer")
	ErrListSource    = errors.New("failed to list document source")
	ErrHashSet       = errors.New("failed to persist ingested hash set")
	ErrEmbedMismatch = errors.New("embedding count does not match chunk count")
)
