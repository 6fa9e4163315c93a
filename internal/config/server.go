package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	callHandler "CallAgent/internal/api/call/handler"
	callRepository "CallAgent/internal/api/call/repository"
	callService "CallAgent/internal/api/call/service"
	"CallAgent/internal/middleware"
	"CallAgent/pkg/gemini"
	"CallAgent/pkg/google"
	"CallAgent/pkg/handlerUtil"
	"CallAgent/pkg/metrics"
	"CallAgent/pkg/nlp"
	redisPkg "CallAgent/pkg/redis"
	"CallAgent/pkg/utils"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine       *fiber.App
	log          *logrus.Logger
	env          *GatewayEnv
	middleware   middleware.Middleware
	validator    *validator.Validate
	utils        utils.IUtils
	metrics      *metrics.Metrics
	handlers     []handler
	sessionStore callRepository.SessionStore
	redisClient  *redis.Client
	geminiClient gemini.IGemini
	sheets       google.ISheets
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.env == nil {
		return nil, fmt.Errorf("gateway environment is required")
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithEnv(env *GatewayEnv) ServerOption {
	return func(s *Server) error {
		s.env = env
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil || s.env == nil {
			return fmt.Errorf("logger and environment must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log, s.env.RateLimit, s.env.RateBurst)
		return nil
	}
}

func WithMetrics(reg prometheus.Registerer) ServerOption {
	return func(s *Server) error {
		s.metrics = metrics.New(reg)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

// WithSessionStore picks the in-process store or redis from SESSION_BACKEND.
func WithSessionStore(ctx context.Context) ServerOption {
	return func(s *Server) error {
		if s.env == nil {
			return fmt.Errorf("environment must be initialized before the session store")
		}

		switch s.env.SessionBackend {
		case "redis":
			client, err := redisPkg.New(ctx, redisPkg.Config{
				Address:  s.env.RedisAddress,
				Password: s.env.RedisPassword,
				DB:       s.env.RedisDB,
			})
			if err != nil {
				if s.log != nil {
					s.log.Errorf("Failed to connect to redis session store: %v", err)
				}
				return fmt.Errorf("failed to create redis session store: %w", err)
			}
			s.redisClient = client
			s.sessionStore = callRepository.NewRedisSessionStore(client, s.env.SessionTTL, s.log)
		default:
			s.sessionStore = callRepository.NewMemorySessionStore(s.env.SessionTTL)
		}

		return nil
	}
}

func WithGeminiClient(ctx context.Context) ServerOption {
	return func(s *Server) error {
		if s.env == nil {
			return fmt.Errorf("environment must be initialized before the Gemini client")
		}

		client, err := gemini.NewGeminiClient(ctx, gemini.Config{
			APIKey:            s.env.Gemini.APIKey,
			ModelName:         s.env.Gemini.ModelName,
			EmbedModel:        s.env.Gemini.EmbedModel,
			SystemInstruction: nlp.SystemInstruction,
			JSONChat:          true,
		})
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to create Gemini client: %v", err)
			}
			return fmt.Errorf("failed to create Gemini client: %w", err)
		}
		s.geminiClient = client
		return nil
	}
}

func WithSheets(ctx context.Context) ServerOption {
	return func(s *Server) error {
		if s.env == nil {
			return fmt.Errorf("environment must be initialized before the Sheets client")
		}

		sheets, err := google.NewSheetsFromCredentials(ctx, s.env.SpreadsheetID, s.env.Credentials())
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to create Sheets client: %v", err)
			}
			return fmt.Errorf("failed to create Sheets client: %w", err)
		}
		s.sheets = sheets
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Call Domain
	sheetLog := callRepository.NewSheetLog(s.sheets, s.env.AppointmentSheet, s.env.QASheet, s.log)
	extractor := nlp.NewIntentExtractor(s.geminiClient)

	var availability callService.IAvailabilityChecker
	switch s.env.AvailabilityMode {
	case "sheet":
		availability = callService.NewBookedSlotChecker(sheetLog)
	default:
		availability = callService.NewAlwaysAvailable()
	}

	callServices := callService.New(s.log, s.sessionStore, extractor, availability, sheetLog, sheetLog, s.utils, s.metrics)
	callHandlers := callHandler.New(s.log, s.validator, s.middleware, callServices, s.utils, callHandler.RelayConfig{
		URL:             s.env.RelayURL(),
		WelcomeGreeting: s.env.WelcomeGreeting,
		TTSProvider:     s.env.TTSProvider,
		Voice:           s.env.Voice,
	})

	s.setupHealthCheck()
	s.handlers = append(s.handlers, callHandlers)
}

func (s *Server) Run() error {
	prom := fiberprometheus.New("callagent")
	prom.RegisterAt(s.engine, "/metrics")

	s.engine.Use(prom.Middleware)
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())

	for _, h := range s.handlers {
		h.Start(s.engine)
	}

	return s.engine.Listen(fmt.Sprintf(":%s", s.env.Port))
}

// Shutdown stops accepting calls and releases the external clients.
func (s *Server) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.engine.ShutdownWithTimeout(timeout); err != nil {
		errs = append(errs, fmt.Errorf("fiber shutdown: %w", err))
	}
	if s.geminiClient != nil {
		if err := s.geminiClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("gemini close: %w", err))
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (s *Server) setupHealthCheck() {
	h := handlerUtil.New(s.log)
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return h.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
