package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Config controls store construction.
type Config struct {
	Mode         string
	Mem0APIKey   string
	Mem0BaseURL  string
	DatabaseURL  string
	Embedder     Embedder
	EmbeddingDim int
	SearchLimit  int
}

// NewStore selects a memory backend. Auto prefers the hosted service, then
// PostgreSQL, then the in-process store.
func NewStore(ctx context.Context, cfg Config) (Store, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.Mem0APIKey) != "" {
			return NewRemoteStore(cfg.Mem0BaseURL, cfg.Mem0APIKey), nil
		}
		if strings.TrimSpace(cfg.DatabaseURL) != "" {
			return NewPostgresStore(ctx, cfg.DatabaseURL, cfg.Embedder, cfg.EmbeddingDim, cfg.SearchLimit)
		}
		return NewInMemoryStore(cfg.SearchLimit), nil
	case "remote":
		if strings.TrimSpace(cfg.Mem0APIKey) == "" {
			return nil, errors.New("memory service API key is required for remote mode")
		}
		return NewRemoteStore(cfg.Mem0BaseURL, cfg.Mem0APIKey), nil
	case "postgres":
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return nil, errors.New("DATABASE_URL is required for postgres mode")
		}
		return NewPostgresStore(ctx, cfg.DatabaseURL, cfg.Embedder, cfg.EmbeddingDim, cfg.SearchLimit)
	case "memory":
		return NewInMemoryStore(cfg.SearchLimit), nil
	default:
		return nil, fmt.Errorf("unsupported memory mode %q", cfg.Mode)
	}
}
