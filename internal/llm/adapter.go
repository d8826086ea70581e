// Package llm adapts the remote generative text model behind a single
// blocking call. The assembled prompt already carries patient context, memory
// context, and language directive; adapters only move text.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Adapter produces an answer for a fully assembled prompt.
type Adapter interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config controls adapter construction.
type Config struct {
	Mode         string
	GeminiAPIKey string
	GeminiModel  string
}

func NewAdapter(ctx context.Context, cfg Config) (Adapter, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.GeminiAPIKey) != "" {
			return NewGeminiAdapter(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		}
		return NewMockAdapter(), nil
	case "gemini":
		if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
			return nil, errors.New("gemini API key is required for gemini mode")
		}
		return NewGeminiAdapter(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "mock":
		return NewMockAdapter(), nil
	default:
		return nil, fmt.Errorf("unsupported generation mode %q", cfg.Mode)
	}
}
