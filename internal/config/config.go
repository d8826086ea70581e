package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/antoniostano/sahay/internal/language"
)

// Config contains all runtime settings for the health assistant service.
type Config struct {
	BindAddr                 string
	ShutdownTimeout          time.Duration
	SessionInactivityTimeout time.Duration
	MetricsNamespace         string

	AllowAnyOrigin  bool
	DefaultLanguage string

	GenerationProvider string
	GeminiAPIKey       string
	GeminiModel        string

	TranslationProvider string
	SutraAPIKey         string
	SutraBaseURL        string
	SutraModel          string

	MemoryProvider     string
	Mem0APIKey         string
	Mem0BaseURL        string
	DatabaseURL        string
	EmbeddingModel     string
	MemoryEmbeddingDim int
	MemorySearchLimit  int
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:            envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:    envOrDefault("APP_METRICS_NAMESPACE", "sahay"),
		AllowAnyOrigin:      false,
		DefaultLanguage:     envOrDefault("APP_DEFAULT_LANGUAGE", "English"),
		GenerationProvider:  envOrDefault("GENERATION_PROVIDER", "auto"),
		GeminiAPIKey:        envTrimmed("GEMINI_API_KEY"),
		GeminiModel:         envOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		TranslationProvider: envOrDefault("TRANSLATION_PROVIDER", "auto"),
		SutraAPIKey:         envTrimmed("SUTRA_API_KEY"),
		SutraBaseURL:        envOrDefault("SUTRA_BASE_URL", "https://api.two.ai/v2"),
		SutraModel:          envOrDefault("SUTRA_MODEL", "sutra-v2"),
		MemoryProvider:      envOrDefault("MEMORY_PROVIDER", "auto"),
		Mem0APIKey:          envTrimmed("MEM0_API_KEY"),
		Mem0BaseURL:         envOrDefault("MEM0_BASE_URL", "https://api.mem0.ai"),
		DatabaseURL:         envTrimmed("DATABASE_URL"),
		EmbeddingModel:      envOrDefault("EMBEDDING_MODEL", "text-embedding-004"),
		MemoryEmbeddingDim:  768,
		MemorySearchLimit:   8,
		ShutdownTimeout:     15 * time.Second,
		// Browser sessions are form-driven, so allow longer idle gaps than a
		// realtime session would.
		SessionInactivityTimeout: 30 * time.Minute,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionInactivityTimeout, err = durationFromEnv("APP_SESSION_INACTIVITY_TIMEOUT", cfg.SessionInactivityTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}
	cfg.MemoryEmbeddingDim, err = intFromEnv("MEMORY_EMBEDDING_DIM", cfg.MemoryEmbeddingDim)
	if err != nil {
		return Config{}, err
	}
	cfg.MemorySearchLimit, err = intFromEnv("MEMORY_SEARCH_LIMIT", cfg.MemorySearchLimit)
	if err != nil {
		return Config{}, err
	}

	if cfg.SessionInactivityTimeout < 5*time.Second {
		return Config{}, fmt.Errorf("APP_SESSION_INACTIVITY_TIMEOUT must be at least 5s")
	}
	if cfg.MemoryEmbeddingDim <= 0 {
		return Config{}, fmt.Errorf("MEMORY_EMBEDDING_DIM must be positive")
	}
	if cfg.MemorySearchLimit <= 0 {
		return Config{}, fmt.Errorf("MEMORY_SEARCH_LIMIT must be positive")
	}
	normalized, ok := language.Normalize(cfg.DefaultLanguage)
	if !ok {
		return Config{}, fmt.Errorf("APP_DEFAULT_LANGUAGE %q is not a supported language", cfg.DefaultLanguage)
	}
	cfg.DefaultLanguage = normalized

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envTrimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(envTrimmed(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
