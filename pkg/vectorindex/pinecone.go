package vectorindex

import (
	"context"
	"fmt"

	"github.com/pinecone-io/go-pinecone/pinecone"
	"google.golang.org/protobuf/types/known/structpb"
)

const pineconeUpsertBatch = 100

type PineconeConfig struct {
	APIKey    string
	IndexName string
	// Host skips the DescribeIndex lookup when set.
	Host      string
	Namespace string
}

type pineconeIndex struct {
	conn *pinecone.IndexConnection
}

func NewPinecone(ctx context.Context, cfg PineconeConfig) (IVectorIndex, error) {
	pc, err := pinecone.NewClient(pinecone.NewClientParams{ApiKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("pinecone client: %w", err)
	}

	host := cfg.Host
	if host == "" {
		idx, err := pc.DescribeIndex(ctx, cfg.IndexName)
		if err != nil {
			return nil, fmt.Errorf("pinecone describe index %q: %w", cfg.IndexName, err)
		}
		host = idx.Host
	}

	conn, err := pc.Index(pinecone.NewIndexConnParams{Host: host, Namespace: cfg.Namespace})
	if err != nil {
		return nil, fmt.Errorf("pinecone index connection: %w", err)
	}

	return &pineconeIndex{conn: conn}, nil
}

func (p *pineconeIndex) Upsert(ctx context.Context, vectors []Vector) error {
	for start := 0; start < len(vectors); start += pineconeUpsertBatch {
		end := min(start+pineconeUpsertBatch, len(vectors))

		batch := make([]*pinecone.Vector, 0, end-start)
		for _, v := range vectors[start:end] {
			pv, err := toPineconeVector(v)
			if err != nil {
				return err
			}
			batch = append(batch, pv)
		}

		if _, err := p.conn.UpsertVectors(ctx, batch); err != nil {
			return fmt.Errorf("pinecone upsert: %w", err)
		}
	}
	return nil
}

func (p *pineconeIndex) Query(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	if err := validate(vector, topK); err != nil {
		return nil, err
	}

	res, err := p.conn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          vector,
		TopK:            uint32(topK),
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("pinecone query: %w", err)
	}

	matches := make([]Match, 0, len(res.Matches))
	for _, m := range res.Matches {
		if m == nil || m.Vector == nil {
			continue
		}
		matches = append(matches, Match{
			ID:       m.Vector.Id,
			Score:    m.Score,
			Metadata: fromPineconeMetadata(m.Vector.Metadata),
		})
	}
	return matches, nil
}

func (p *pineconeIndex) Close() error {
	return p.conn.Close()
}

func toPineconeVector(v Vector) (*pinecone.Vector, error) {
	if len(v.Values) == 0 {
		return nil, ErrEmptyVector
	}

	md, err := structpb.NewStruct(v.Metadata)
	if err != nil {
		return nil, fmt.Errorf("pinecone metadata for %s: %w", v.ID, err)
	}

	return &pinecone.Vector{
		Id:       v.ID,
		Values:   v.Values,
		Metadata: md,
	}, nil
}

func fromPineconeMetadata(md *pinecone.Metadata) map[string]interface{} {
	if md == nil {
		return map[string]interface{}{}
	}
	return md.AsMap()
}
