// Package llm provides the text-generation clients used by the campaign
// pipeline. All providers satisfy the Client interface so components and
// tests can substitute fakes.
package llm

import (
	"context"
	"fmt"
	"strings"

	"leadbrain/internal/config"
)

// Client defines the interface for LLM providers.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// New constructs a Client from config. The "template" provider returns
// (nil, nil): callers treat a nil client as template-only generation.
func New(cfg config.LLMConfig) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "template":
		return nil, nil
	case "openai":
		return NewOpenAIClient(OpenAIConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil
	case "gemini":
		return NewGeminiClient(context.Background(), cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", cfg.Provider)
	}
}
