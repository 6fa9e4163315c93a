package middleware

import (
	"time"

	"CallAgent/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

const RequestIDKey = "X-Request-ID"

// twilioRequestIDHeader is set by Twilio on every webhook and is reused so
// gateway logs line up with the provider's request inspector.
const twilioRequestIDHeader = "I-Twilio-Idempotency-Token"

func NewRequestIDMiddleware() fiber.Handler {
	utilsInstance := utils.New()

	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDKey)
		if requestID == "" {
			requestID = c.Get(twilioRequestIDHeader)
		}
		if requestID == "" {
			requestID, _ = utilsInstance.NewULIDFromTimestamp(time.Now())
		}

		c.Locals(RequestIDKey, requestID)
		c.Set(RequestIDKey, requestID)

		return c.Next()
	}
}
