package gemini

import (
	"context"
	"errors"
	"testing"

	"CallAgent/internal/entity"

	"github.com/google/generative-ai-go/genai"
)

func TestNewGeminiClientRequiresKey(t *testing.T) {
	if _, err := NewGeminiClient(context.Background(), Config{}); !errors.Is(err, ErrAPIKeyRequired) {
		t.Fatalf("expected ErrAPIKeyRequired, got %v", err)
	}
}

func TestToContentsKeepsOrderAndRoles(t *testing.T) {
	contents := toContents([]entity.Turn{
		{Role: entity.RoleUser, Text: "book me in"},
		{Role: entity.RoleModel, Text: `{"type":"qa","answer":"sure"}`},
	})

	if len(contents) != 2 {
		t.Fatalf("expected 2 contents, got %d", len(contents))
	}
	if contents[0].Role != "user" || contents[1].Role != "model" {
		t.Fatalf("unexpected roles %s, %s", contents[0].Role, contents[1].Role)
	}
	if text, ok := contents[0].Parts[0].(genai.Text); !ok || string(text) != "book me in" {
		t.Fatalf("unexpected first part %#v", contents[0].Parts[0])
	}
}

func TestResponseText(t *testing.T) {
	res := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("Hello, "), genai.Text("caller.")}},
		}},
	}

	text, err := responseText(res)
	if err != nil {
		t.Fatalf("response text: %v", err)
	}
	if text != "Hello, caller." {
		t.Fatalf("text = %q", text)
	}

	for name, empty := range map[string]*genai.GenerateContentResponse{
		"nil":           nil,
		"no candidates": {},
		"no content":    {Candidates: []*genai.Candidate{{}}},
		"no text":       {Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "audio/wav"}}}}}},
	} {
		if _, err := responseText(empty); !errors.Is(err, ErrEmptyResponse) {
			t.Errorf("%s: expected ErrEmptyResponse, got %v", name, err)
		}
	}
}
