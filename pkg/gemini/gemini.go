package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"CallAgent/internal/entity"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	defaultModelName  = "gemini-2.5-flash"
	defaultEmbedModel = "text-embedding-004"
	maxEmbedBatch     = 100
)

var (
	ErrAPIKeyRequired = errors.New("gemini API key is required")
	ErrEmptyResponse  = errors.New("no response from Gemini API")
)

type IGemini interface {
	Chat(ctx context.Context, history []entity.Turn, prompt string) (string, error)
	Generate(ctx context.Context, prompt string) (string, error)
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	Close() error
}

type Config struct {
	APIKey            string
	ModelName         string
	EmbedModel        string
	SystemInstruction string
	// JSONChat asks the model to reply to Chat with application/json only.
	JSONChat bool
	// ClientOptions are appended after the API key; tests point the client at a fake endpoint with them.
	ClientOptions []option.ClientOption
}

type geminiClient struct {
	cfg    Config
	client *genai.Client
}

func NewGeminiClient(ctx context.Context, cfg Config) (IGemini, error) {
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}
	if cfg.ModelName == "" {
		cfg.ModelName = defaultModelName
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = defaultEmbedModel
	}

	opts := append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, cfg.ClientOptions...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	return &geminiClient{
		cfg:    cfg,
		client: client,
	}, nil
}

func (g *geminiClient) Chat(ctx context.Context, history []entity.Turn, prompt string) (string, error) {
	model := g.model()
	if g.cfg.JSONChat {
		model.ResponseMIMEType = "application/json"
	}

	cs := model.StartChat()
	cs.History = toContents(history)

	res, err := cs.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini chat: %w", err)
	}

	return responseText(res)
}

func (g *geminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	res, err := g.model().GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	return responseText(res)
}

func (g *geminiClient) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	em := g.client.EmbeddingModel(g.cfg.EmbedModel)
	em.TaskType = genai.TaskTypeRetrievalDocument

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxEmbedBatch {
		end := min(start+maxEmbedBatch, len(texts))

		batch := em.NewBatch()
		for _, t := range texts[start:end] {
			batch.AddContent(genai.Text(t))
		}

		res, err := em.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("gemini batch embed: %w", err)
		}
		if len(res.Embeddings) != end-start {
			return nil, fmt.Errorf("gemini batch embed: got %d embeddings for %d texts", len(res.Embeddings), end-start)
		}
		for _, e := range res.Embeddings {
			out = append(out, e.Values)
		}
	}

	return out, nil
}

func (g *geminiClient) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	em := g.client.EmbeddingModel(g.cfg.EmbedModel)
	em.TaskType = genai.TaskTypeRetrievalQuery

	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, ErrEmptyResponse
	}

	return res.Embedding.Values, nil
}

func (g *geminiClient) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func (g *geminiClient) model() *genai.GenerativeModel {
	model := g.client.GenerativeModel(g.cfg.ModelName)
	if g.cfg.SystemInstruction != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(g.cfg.SystemInstruction))
	}
	return model
}

func toContents(turns []entity.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		contents = append(contents, &genai.Content{
			Role:  string(t.Role),
			Parts: []genai.Part{genai.Text(t.Text)},
		})
	}
	return contents
}

func responseText(res *genai.GenerateContentResponse) (string, error) {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}

	return sb.String(), nil
}
