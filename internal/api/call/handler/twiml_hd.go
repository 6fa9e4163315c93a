package callHandler

import (
	"CallAgent/internal/api/call"
	"CallAgent/pkg/handlerUtil"
	"CallAgent/pkg/log"
	"CallAgent/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/twilio/twilio-go/twiml"
)

// conversationRelay is the <ConversationRelay> noun of <Connect>.
type conversationRelay struct {
	url             string
	welcomeGreeting string
	ttsProvider     string
	voice           string
}

func (r conversationRelay) GetName() string {
	return "ConversationRelay"
}

func (r conversationRelay) GetText() string {
	return ""
}

func (r conversationRelay) GetAttr() (map[string]string, map[string]string) {
	return nil, map[string]string{
		"url":             r.url,
		"welcomeGreeting": r.welcomeGreeting,
		"ttsProvider":     r.ttsProvider,
		"voice":           r.voice,
	}
}

func (r conversationRelay) GetInnerElements() []twiml.Element {
	return nil
}

func (h *CallHandler) Twiml(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	var req call.TwimlRequest
	if err := ctx.BodyParser(&req); err != nil {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Debug("Webhook body not parsed")
	}

	relay := conversationRelay{
		url:             h.relay.URL,
		welcomeGreeting: h.relay.WelcomeGreeting,
		ttsProvider:     h.relay.TTSProvider,
		voice:           h.relay.Voice,
	}

	doc, err := twiml.Voice([]twiml.Element{
		&twiml.VoiceConnect{InnerElements: []twiml.Element{relay}},
	})
	if err != nil {
		return errHandler.Handle(ctx, requestID, response.Wrap(call.ErrTwimlBuild, err), ctx.Path(), "build_twiml")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"call_id":    req.CallSid,
		"direction":  req.Direction,
	}).Info("Incoming call, connecting relay")

	ctx.Set(fiber.HeaderContentType, "text/xml")
	return ctx.Status(fiber.StatusOK).SendString(doc)
}
