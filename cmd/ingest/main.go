package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"CallAgent/internal/config"
	"CallAgent/pkg/log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Sync reference documents into the vector index and query them",
	Long: `ingest keeps the retrieval index in step with the document folder.

Commands:
  run        Ingest new documents once and exit
  schedule   Ingest now, then again on INGEST_CRON (default daily at 01:00)
  ask <q>    Answer a question from the indexed documents`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Ingest new documents once",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		report, err := app.Ingestor.Run(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "scanned %d, ingested %d (%d chunks), skipped %d, empty %d, unsupported %d, failed %d in %s\n",
			report.Scanned, report.Ingested, report.Chunks, report.Skipped, report.Empty, report.Unsupported, report.Failed, report.Duration)
		return nil
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Ingest now and then on the configured cron schedule",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		scheduler, err := app.NewScheduler()
		if err != nil {
			return err
		}
		if err := scheduler.Start(cmd.Context()); err != nil {
			return err
		}

		<-cmd.Context().Done()
		log.NewLogger().Info("Stopping ingest scheduler...")
		return scheduler.Shutdown()
	},
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question from the indexed documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		answer, passages, err := app.Answerer.Answer(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, answer)

		if verbose, _ := cmd.Flags().GetBool("sources"); verbose {
			fmt.Fprintln(out)
			for _, p := range passages {
				fmt.Fprintf(out, "  %.3f  %s  (%s)\n", p.Score, p.Source, p.Key)
			}
		}
		return nil
	},
}

func init() {
	askCmd.Flags().Bool("sources", false, "Print the passages used as context")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(askCmd)
}

func newApp(ctx context.Context) (*config.IngestApp, error) {
	logger := log.NewLogger()

	env, err := config.LoadIngestEnv(config.NewValidator())
	if err != nil {
		return nil, err
	}

	return config.NewIngestApp(ctx, logger, env)
}

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Infof("No .env file loaded, using process environment: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
