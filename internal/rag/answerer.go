package rag

import (
	"context"
	"fmt"
	"strings"

	"CallAgent/internal/entity"
	"CallAgent/pkg/vectorindex"
)

const answerTemplate = `You are a helpful support assistant. Answer the question using only the context below. If the context does not contain the answer, say that you don't know.

Context:
%s

Question:
%s

Answer:`

type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type IAnswerer interface {
	Answer(ctx context.Context, query string) (string, []entity.Passage, error)
}

type Answerer struct {
	embedder  QueryEmbedder
	index     vectorindex.IVectorIndex
	generator Generator
	topK      int
}

func NewAnswerer(embedder QueryEmbedder, index vectorindex.IVectorIndex, generator Generator, topK int) *Answerer {
	if topK <= 0 {
		topK = 5
	}
	return &Answerer{
		embedder:  embedder,
		index:     index,
		generator: generator,
		topK:      topK,
	}
}

// Answer retrieves the topK closest chunks and asks the model to answer from
// them alone. With no matches the model is still asked, with an empty context.
func (a *Answerer) Answer(ctx context.Context, query string) (string, []entity.Passage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil, ErrEmptyQuery
	}

	vector, err := a.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrEmbed, err)
	}

	matches, err := a.index.Query(ctx, vector, a.topK)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrSearch, err)
	}

	passages := make([]entity.Passage, 0, len(matches))
	texts := make([]string, 0, len(matches))
	for _, m := range matches {
		p := entity.Passage{
			Key:    m.ID,
			Score:  m.Score,
			Text:   vectorindex.MetadataString(m.Metadata, "text"),
			Source: vectorindex.MetadataString(m.Metadata, "source"),
		}
		passages = append(passages, p)
		texts = append(texts, p.Text)
	}

	answer, err := a.generator.Generate(ctx, BuildAnswerPrompt(strings.Join(texts, "\n\n"), query))
	if err != nil {
		return "", passages, fmt.Errorf("%w: %w", ErrGenerate, err)
	}

	return strings.TrimSpace(answer), passages, nil
}

func BuildAnswerPrompt(context, query string) string {
	return fmt.Sprintf(answerTemplate, context, query)
}
