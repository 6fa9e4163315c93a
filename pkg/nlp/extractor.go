package nlp

import (
	"context"
	"fmt"
	"time"

	"CallAgent/internal/entity"
)

type IntentExtractor struct {
	chat Chatter
	now  func() time.Time
}

func NewIntentExtractor(chat Chatter) *IntentExtractor {
	return &IntentExtractor{
		chat: chat,
		now:  time.Now,
	}
}

func (e *IntentExtractor) Extract(ctx context.Context, history []entity.Turn, utterance string) (Result, error) {
	raw, err := e.chat.Chat(ctx, history, BuildPrompt(utterance, e.now()))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrModelCall, err)
	}

	intent, err := ParseIntent(raw)
	if err != nil {
		return Result{Raw: raw}, err
	}

	return Result{Intent: intent, Raw: raw}, nil
}
