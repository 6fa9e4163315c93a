package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"CallAgent/internal/config"
	"CallAgent/pkg/log"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Infof("No .env file loaded, using process environment: %v", err)
	}

	validator := config.NewValidator()
	env, err := config.LoadGatewayEnv(validator)
	if err != nil {
		logger.Fatal(err)
	}

	ctx := context.Background()
	fiberApp := config.NewFiber(logger)

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithEnv(env),
		config.WithMiddleware(),
		config.WithMetrics(prometheus.DefaultRegisterer),
		config.WithUtils(),
		config.WithSessionStore(ctx),
		config.WithGeminiClient(ctx),
		config.WithSheets(ctx),
	)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Infof("Server started on port %s, relay at %s", env.Port, env.RelayURL())

	<-sigChan
	logger.Info("Shutting down server...")

	if err := server.Shutdown(10 * time.Second); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
}
