package rag

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"CallAgent/pkg/s3"
)

// Candidate is one document a source offers for ingestion. Load is deferred so
// unsupported files are never read.
type Candidate struct {
	Source string
	Name   string
	Load   func(ctx context.Context) ([]byte, error)
}

type DocumentSource interface {
	Name() string
	List(ctx context.Context) ([]Candidate, error)
}

type localDirSource struct {
	dir string
}

// NewLocalDirSource offers the regular files directly inside dir, in name order.
// Subdirectories are not walked.
func NewLocalDirSource(dir string) DocumentSource {
	return &localDirSource{dir: dir}
}

func (l *localDirSource) Name() string {
	return "dir:" + l.dir
}

func (l *localDirSource) List(_ context.Context) ([]Candidate, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", l.dir, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	candidates := make([]Candidate, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		p := filepath.Join(l.dir, entry.Name())
		candidates = append(candidates, Candidate{
			Source: p,
			Name:   entry.Name(),
			Load: func(context.Context) ([]byte, error) {
				return os.ReadFile(p)
			},
		})
	}
	return candidates, nil
}

type s3Source struct {
	client s3.ItfS3
	bucket string
	prefix string
}

func NewS3Source(client s3.ItfS3, bucket, prefix string) DocumentSource {
	return &s3Source{client: client, bucket: bucket, prefix: prefix}
}

func (s *s3Source) Name() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.prefix)
}

func (s *s3Source) List(ctx context.Context) ([]Candidate, error) {
	objects, err := s.client.List(ctx, s.prefix)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(objects))
	for _, obj := range objects {
		key := obj.Key
		candidates = append(candidates, Candidate{
			Source: fmt.Sprintf("s3://%s/%s", s.bucket, key),
			Name:   path.Base(key),
			Load: func(ctx context.Context) ([]byte, error) {
				return s.client.Download(ctx, key)
			},
		})
	}
	return candidates, nil
}
