package vectorindex

import (
	"context"
	"math"
	"sort"
	"sync"
)

type memoryIndex struct {
	mu      sync.RWMutex
	vectors map[string]Vector
}

// NewMemory keeps vectors in process and ranks by cosine similarity. Used for
// local runs and tests; nothing survives a restart.
func NewMemory() IVectorIndex {
	return &memoryIndex{vectors: make(map[string]Vector)}
}

func (m *memoryIndex) Upsert(_ context.Context, vectors []Vector) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, v := range vectors {
		if len(v.Values) == 0 {
			return ErrEmptyVector
		}
		values := make([]float32, len(v.Values))
		copy(values, v.Values)

		md := make(map[string]interface{}, len(v.Metadata))
		for k, val := range v.Metadata {
			md[k] = val
		}

		m.vectors[v.ID] = Vector{ID: v.ID, Values: values, Metadata: md}
	}
	return nil
}

func (m *memoryIndex) Query(_ context.Context, vector []float32, topK int) ([]Match, error) {
	if err := validate(vector, topK); err != nil {
		return nil, err
	}

	m.mu.RLock()
	matches := make([]Match, 0, len(m.vectors))
	for _, v := range m.vectors {
		if len(v.Values) != len(vector) {
			continue
		}
		matches = append(matches, Match{ID: v.ID, Score: cosine(vector, v.Values), Metadata: v.Metadata})
	}
	m.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score == matches[j].Score {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func (m *memoryIndex) Close() error {
	return nil
}

func cosine(a, b []float32) float32 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
