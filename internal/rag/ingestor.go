package rag

import (
	"context"
	"errors"
	"fmt"
	"time"

	"CallAgent/internal/entity"
	"CallAgent/pkg/extract"
	"CallAgent/pkg/log"
	"CallAgent/pkg/utils"
	"CallAgent/pkg/vectorindex"

	"github.com/sirupsen/logrus"
)

type DocumentEmbedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

type IngestConfig struct {
	ChunkTokens  int
	ChunkOverlap int
	// MetadataChars caps the chunk text stored next to each vector.
	MetadataChars int
}

// Report summarises one ingestion pass.
type Report struct {
	Scanned     int
	Ingested    int
	Skipped     int
	Empty       int
	Unsupported int
	Failed      int
	Chunks      int
	Duration    time.Duration
}

type IIngestor interface {
	Run(ctx context.Context) (Report, error)
}

type Ingestor struct {
	log       *logrus.Logger
	sources   []DocumentSource
	extractor extract.IExtractor
	embedder  DocumentEmbedder
	index     vectorindex.IVectorIndex
	hashes    *HashSet
	utils     utils.IUtils
	cfg       IngestConfig
}

func NewIngestor(
	log *logrus.Logger,
	sources []DocumentSource,
	extractor extract.IExtractor,
	embedder DocumentEmbedder,
	index vectorindex.IVectorIndex,
	hashes *HashSet,
	utils utils.IUtils,
	cfg IngestConfig,
) *Ingestor {
	if cfg.MetadataChars <= 0 {
		cfg.MetadataChars = 8000
	}

	return &Ingestor{
		log:       log,
		sources:   sources,
		extractor: extractor,
		embedder:  embedder,
		index:     index,
		hashes:    hashes,
		utils:     utils,
		cfg:       cfg,
	}
}

// Run ingests every new document once. A document that fails is logged and
// left unmarked so the next run retries it; listing or hash-set failures abort
// the run.
func (i *Ingestor) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	var report Report

	for _, src := range i.sources {
		candidates, err := src.List(ctx)
		if err != nil {
			report.Duration = time.Since(start)
			return report, fmt.Errorf("%w %s: %w", ErrListSource, src.Name(), err)
		}

		for _, c := range candidates {
			if err := ctx.Err(); err != nil {
				report.Duration = time.Since(start)
				return report, err
			}

			report.Scanned++
			if !i.extractor.Supported(c.Name) {
				report.Unsupported++
				continue
			}

			doc, err := i.ingest(ctx, c)
			switch {
			case errors.Is(err, errAlreadySeen):
				report.Skipped++
				i.log.WithFields(log.Fields{"source": c.Source}).Debug("Skipped, already ingested")
			case errors.Is(err, errNoText):
				report.Empty++
				i.log.WithFields(log.Fields{"source": c.Source}).Warn("Skipped, no text extracted")
			case errors.Is(err, ErrHashSet):
				report.Duration = time.Since(start)
				return report, err
			case err != nil:
				report.Failed++
				i.log.WithFields(log.Fields{
					"source": c.Source,
					"error":  err.Error(),
				}).Error("Failed to ingest document")
			default:
				report.Ingested++
				report.Chunks += len(doc.Chunks)
				i.log.WithFields(log.Fields{
					"source": c.Source,
					"hash":   doc.Hash,
					"chunks": len(doc.Chunks),
				}).Info("Ingested document")
			}
		}
	}

	report.Duration = time.Since(start)
	return report, nil
}

var (
	errAlreadySeen = errors.New("document already ingested")
	errNoText      = errors.New("document has no text")
)

func (i *Ingestor) ingest(ctx context.Context, c Candidate) (entity.IngestedDocument, error) {
	data, err := c.Load(ctx)
	if err != nil {
		return entity.IngestedDocument{}, fmt.Errorf("load: %w", err)
	}

	text, err := i.extractor.Extract(ctx, c.Name, data)
	if err != nil {
		return entity.IngestedDocument{}, err
	}
	if text == "" {
		return entity.IngestedDocument{}, errNoText
	}

	hash := i.utils.HashContent(text)
	if i.hashes.Has(hash) {
		return entity.IngestedDocument{}, errAlreadySeen
	}

	texts := chunkText(text, i.cfg.ChunkTokens, i.cfg.ChunkOverlap)
	if len(texts) == 0 {
		return entity.IngestedDocument{}, errNoText
	}

	embeddings, err := i.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return entity.IngestedDocument{}, fmt.Errorf("%w: %w", ErrEmbed, err)
	}
	if len(embeddings) != len(texts) {
		return entity.IngestedDocument{}, fmt.Errorf("%w: %d embeddings for %d chunks", ErrEmbedMismatch, len(embeddings), len(texts))
	}

	doc := entity.IngestedDocument{Hash: hash, SourcePath: c.Source}
	vectors := make([]vectorindex.Vector, 0, len(texts))
	for pos, t := range texts {
		chunk := entity.DocumentChunk{Key: chunkKey(hash, pos), Pos: pos, Text: t}
		doc.Chunks = append(doc.Chunks, chunk)

		vectors = append(vectors, vectorindex.Vector{
			ID:     chunk.Key,
			Values: embeddings[pos],
			Metadata: map[string]interface{}{
				"text":   i.utils.Truncate(t, i.cfg.MetadataChars),
				"source": c.Source,
				"hash":   hash,
				"chunk":  pos,
			},
		})
	}

	if err := i.index.Upsert(ctx, vectors); err != nil {
		return entity.IngestedDocument{}, fmt.Errorf("%w: %w", ErrUpsert, err)
	}

	if err := i.hashes.Add(hash); err != nil {
		return entity.IngestedDocument{}, fmt.Errorf("%w: %w", ErrHashSet, err)
	}

	return doc, nil
}

// chunkKey is stable across runs, so re-ingesting after a crash overwrites
// rather than duplicates.
func chunkKey(hash string, pos int) string {
	return fmt.Sprintf("%s#%d", hash, pos)
}
