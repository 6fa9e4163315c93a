package callHandler

import (
	"time"

	callService "CallAgent/internal/api/call/service"
	"CallAgent/internal/middleware"
	"CallAgent/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type RelayConfig struct {
	URL             string
	WelcomeGreeting string
	TTSProvider     string
	Voice           string
	ReadTimeout     time.Duration
}

type CallHandler struct {
	log         *logrus.Logger
	validator   *validator.Validate
	middleware  middleware.Middleware
	callService callService.ICallService
	utils       utils.IUtils
	relay       RelayConfig
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	cs callService.ICallService,
	utils utils.IUtils,
	relay RelayConfig,
) *CallHandler {
	if relay.ReadTimeout <= 0 {
		relay.ReadTimeout = 10 * time.Minute
	}

	return &CallHandler{
		log:         log,
		validator:   validate,
		middleware:  middleware,
		callService: cs,
		utils:       utils,
		relay:       relay,
	}
}

func (h *CallHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	srv.Post("/twiml", h.middleware.NewRateLimiter, h.Twiml)

	srv.Use("/ws", wsMiddleware)
	srv.Get("/ws", websocket.New(h.handleRelay))
}
