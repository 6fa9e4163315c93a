package config

import (
	"context"
	"errors"
	"fmt"

	"CallAgent/internal/rag"
	"CallAgent/pkg/extract"
	"CallAgent/pkg/gemini"
	"CallAgent/pkg/s3"
	"CallAgent/pkg/utils"
	"CallAgent/pkg/vectorindex"

	"github.com/sirupsen/logrus"
)

// IngestApp holds the batch pipeline: the ingestor, the retrieval answerer and
// the clients they share.
type IngestApp struct {
	Ingestor *rag.Ingestor
	Answerer *rag.Answerer

	log    *logrus.Logger
	env    *IngestEnv
	gemini gemini.IGemini
	index  vectorindex.IVectorIndex
}

func NewIngestApp(ctx context.Context, logger *logrus.Logger, env *IngestEnv) (*IngestApp, error) {
	geminiClient, err := gemini.NewGeminiClient(ctx, gemini.Config{
		APIKey:     env.Gemini.APIKey,
		ModelName:  env.Gemini.ModelName,
		EmbedModel: env.Gemini.EmbedModel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	index, err := vectorindex.New(ctx, env.VectorConfig())
	if err != nil {
		_ = geminiClient.Close()
		return nil, fmt.Errorf("failed to open %s vector index: %w", env.VectorBackend, err)
	}

	hashes, err := rag.LoadHashSet(env.HashFile)
	if err != nil {
		_ = geminiClient.Close()
		_ = index.Close()
		return nil, err
	}

	sources := []rag.DocumentSource{rag.NewLocalDirSource(env.DataDir)}
	if env.S3Bucket != "" {
		client, err := s3.New(env.S3Config())
		if err != nil {
			_ = geminiClient.Close()
			_ = index.Close()
			return nil, fmt.Errorf("failed to create S3 client: %w", err)
		}
		sources = append(sources, rag.NewS3Source(client, env.S3Bucket, env.S3Prefix))
	}

	ingestor := rag.NewIngestor(
		logger,
		sources,
		extract.New(nil),
		geminiClient,
		index,
		hashes,
		utils.New(),
		rag.IngestConfig{
			ChunkTokens:   env.ChunkTokens,
			ChunkOverlap:  env.ChunkOverlap,
			MetadataChars: env.MetadataChars,
		},
	)

	logger.WithFields(logrus.Fields{
		"vector_backend": env.VectorBackend,
		"sources":        len(sources),
		"known_hashes":   hashes.Len(),
	}).Info("Ingest pipeline ready")

	return &IngestApp{
		Ingestor: ingestor,
		Answerer: rag.NewAnswerer(geminiClient, index, geminiClient, env.TopK),
		log:      logger,
		env:      env,
		gemini:   geminiClient,
		index:    index,
	}, nil
}

func (a *IngestApp) NewScheduler() (*rag.Scheduler, error) {
	return rag.NewScheduler(a.log, a.Ingestor, a.env.Cron)
}

func (a *IngestApp) Close() error {
	return errors.Join(a.index.Close(), a.gemini.Close())
}
