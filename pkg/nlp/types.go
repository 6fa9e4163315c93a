package nlp

import (
	"context"
	"errors"

	"CallAgent/internal/entity"
)

var (
	ErrEmptyReply = errors.New("model returned an empty reply")
	ErrModelCall  = errors.New("model call failed")
)

// Chatter is the slice of the model client the extractor needs.
type Chatter interface {
	Chat(ctx context.Context, history []entity.Turn, prompt string) (string, error)
}

type IIntentExtractor interface {
	Extract(ctx context.Context, history []entity.Turn, utterance string) (Result, error)
}

// Result carries the parsed intent and the model's reply as received, which is
// what gets appended to the conversation history.
type Result struct {
	Intent entity.Intent
	Raw    string
}
