package rag

import (
	"context"
	"fmt"

	"CallAgent/pkg/log"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

type Scheduler struct {
	log       *logrus.Logger
	scheduler gocron.Scheduler
	ingestor  IIngestor
	cron      string
}

func NewScheduler(logger *logrus.Logger, ingestor IIngestor, cron string) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create ingest scheduler: %w", err)
	}

	return &Scheduler{
		log:       logger,
		scheduler: s,
		ingestor:  ingestor,
		cron:      cron,
	}, nil
}

// Start runs the ingestor once right away and then on the cron schedule.
// Runs never overlap; a tick that lands during a run is skipped.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.scheduler.NewJob(
		gocron.CronJob(s.cron, false),
		gocron.NewTask(func() {
			s.run(ctx)
		}),
		gocron.WithName("document_ingest"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to register ingest job %q: %w", s.cron, err)
	}

	s.scheduler.Start()
	s.log.WithFields(log.Fields{"cron": s.cron}).Info("Ingest scheduler started")
	return nil
}

func (s *Scheduler) Shutdown() error {
	return s.scheduler.Shutdown()
}

func (s *Scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	s.log.Info("Starting document sync")
	report, err := s.ingestor.Run(ctx)

	fields := log.Fields{
		"scanned":     report.Scanned,
		"ingested":    report.Ingested,
		"skipped":     report.Skipped,
		"empty":       report.Empty,
		"unsupported": report.Unsupported,
		"failed":      report.Failed,
		"chunks":      report.Chunks,
		"duration_ms": report.Duration.Milliseconds(),
	}
	if err != nil {
		fields["error"] = err.Error()
		s.log.WithFields(fields).Error("Document sync aborted")
		return
	}
	s.log.WithFields(fields).Info("Document sync finished")
}
