package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func TestRateLimiterRejectsBurst(t *testing.T) {
	m := New(logrus.New(), 1, 2)
	app := fiber.New()
	app.Get("/", m.NewRateLimiter, func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		codes = append(codes, resp.StatusCode)
	}

	if codes[0] != fiber.StatusOK || codes[1] != fiber.StatusOK || codes[2] != fiber.StatusTooManyRequests {
		t.Fatalf("unexpected status codes %v", codes)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	m := New(logrus.New(), 10, 10)
	app := fiber.New()
	app.Use(m.NewRequestIDMiddleware())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(m.GetRequestID(c)) })

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(twilioRequestIDHeader, "twilio-123")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if got := resp.Header.Get(RequestIDKey); got != "twilio-123" {
		t.Fatalf("expected provider id to be reused, got %q", got)
	}

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if got := resp.Header.Get(RequestIDKey); len(got) != 26 {
		t.Fatalf("expected generated ulid, got %q", got)
	}
}

func TestSanitizeRequestBody(t *testing.T) {
	form := sanitizeRequestBody(fiber.MIMEApplicationForm, "CallSid=CA1&From=%2B15551234567&To=%2B15557654321")
	if strings.Contains(form, "5551234567") || strings.Contains(form, "5557654321") {
		t.Fatalf("phone numbers leaked: %s", form)
	}
	if !strings.Contains(form, "CallSid=CA1") {
		t.Fatalf("call sid dropped: %s", form)
	}

	js := sanitizeRequestBody(fiber.MIMEApplicationJSON, `{"token":"abc","type":"prompt"}`)
	if strings.Contains(js, "abc") || !strings.Contains(js, "prompt") {
		t.Fatalf("unexpected json sanitization: %s", js)
	}

	if got := sanitizeRequestBody("text/plain", "hello"); got != "[non-JSON body]" {
		t.Fatalf("unexpected plain body result: %s", got)
	}
}
