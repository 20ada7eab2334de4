// Package provider constructs the configured language-model backend. The
// three supported providers are interchangeable from the pipeline's point
// of view: it only ever calls Generate. Exactly one provider is active per
// process lifetime.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	openaichat "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/volleykb/assistant/backend/internal/config"
)

// ErrConfig marks provider construction failures: an unknown provider name
// or a missing credential. Fatal at startup, never retried.
var ErrConfig = errors.New("provider configuration error")

// Generator is the single capability the answer pipeline depends on.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// New selects and constructs the provider named in cfg. It fails closed:
// a missing credential for the selected provider is an error even if
// another provider is fully configured.
func New(ctx context.Context, cfg config.ProviderConfig) (Generator, error) {
	switch cfg.Name {
	case config.ProviderOpenAI:
		return newOpenAI(ctx, cfg)
	case config.ProviderDeepSeek:
		return newDeepSeek(ctx, cfg)
	case config.ProviderGemini:
		return newGemini(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrConfig, cfg.Name)
	}
}

// chatGenerator adapts an eino chat model to the prompt-in, text-out shape
// the pipeline needs. The whole composed prompt travels as one user message.
type chatGenerator struct {
	name string
	cm   model.BaseChatModel
}

func (g *chatGenerator) Name() string { return g.name }

func (g *chatGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := g.cm.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", fmt.Errorf("%s generation failed: %w", g.name, err)
	}
	return msg.Content, nil
}

func newOpenAI(ctx context.Context, cfg config.ProviderConfig) (Generator, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is required", ErrConfig)
	}

	temperature := float32(cfg.Temperature)
	cm, err := openaichat.NewChatModel(ctx, &openaichat.ChatModelConfig{
		APIKey:      cfg.OpenAIAPIKey,
		Model:       cfg.OpenAIModel,
		BaseURL:     cfg.OpenAIBaseURL,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create openai model: %v", ErrConfig, err)
	}
	return &chatGenerator{name: config.ProviderOpenAI, cm: cm}, nil
}

func newDeepSeek(ctx context.Context, cfg config.ProviderConfig) (Generator, error) {
	if cfg.DeepSeekAPIKey == "" {
		return nil, fmt.Errorf("%w: DEEPSEEK_API_KEY is required", ErrConfig)
	}

	cm, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
		APIKey:      cfg.DeepSeekAPIKey,
		Model:       cfg.DeepSeekModel,
		BaseURL:     cfg.DeepSeekBaseURL,
		Temperature: float32(cfg.Temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create deepseek model: %v", ErrConfig, err)
	}
	return &chatGenerator{name: config.ProviderDeepSeek, cm: cm}, nil
}

func newGemini(ctx context.Context, cfg config.ProviderConfig) (Generator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY is required", ErrConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create gemini client: %v", ErrConfig, err)
	}

	temperature := float32(cfg.Temperature)
	cm, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.GeminiModel,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create gemini model: %v", ErrConfig, err)
	}
	return &chatGenerator{name: config.ProviderGemini, cm: cm}, nil
}
