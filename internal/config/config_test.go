package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	setCoreEnvEmpty(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BindAddr != ":8080" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":8080")
	}
	if cfg.DefaultLanguage != "English" {
		t.Fatalf("DefaultLanguage = %q, want %q", cfg.DefaultLanguage, "English")
	}
	if cfg.GenerationProvider != "auto" || cfg.TranslationProvider != "auto" || cfg.MemoryProvider != "auto" {
		t.Fatalf("provider modes = %q/%q/%q, want auto/auto/auto",
			cfg.GenerationProvider, cfg.TranslationProvider, cfg.MemoryProvider)
	}
	if cfg.SutraBaseURL != "https://api.two.ai/v2" {
		t.Fatalf("SutraBaseURL = %q, want default", cfg.SutraBaseURL)
	}
	if cfg.MemorySearchLimit != 8 {
		t.Fatalf("MemorySearchLimit = %d, want 8", cfg.MemorySearchLimit)
	}
}

func TestLoadNormalizesDefaultLanguage(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_DEFAULT_LANGUAGE", "hindi")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultLanguage != "Hindi" {
		t.Fatalf("DefaultLanguage = %q, want %q", cfg.DefaultLanguage, "Hindi")
	}
}

func TestLoadRejectsUnsupportedLanguage(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_DEFAULT_LANGUAGE", "Klingon")

	if _, err := Load(); err == nil {
		t.Fatalf("Load() should fail for unsupported default language")
	}
}

func TestLoadRejectsTinyInactivityTimeout(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_SESSION_INACTIVITY_TIMEOUT", "1s")

	if _, err := Load(); err == nil {
		t.Fatalf("Load() should fail for sub-5s inactivity timeout")
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_BIND_ADDR", ":9090")
	t.Setenv("APP_SESSION_INACTIVITY_TIMEOUT", "10m")
	t.Setenv("MEMORY_SEARCH_LIMIT", "12")
	t.Setenv("MEM0_API_KEY", "  k-123  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BindAddr != ":9090" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":9090")
	}
	if cfg.SessionInactivityTimeout != 10*time.Minute {
		t.Fatalf("SessionInactivityTimeout = %v, want 10m", cfg.SessionInactivityTimeout)
	}
	if cfg.MemorySearchLimit != 12 {
		t.Fatalf("MemorySearchLimit = %d, want 12", cfg.MemorySearchLimit)
	}
	if cfg.Mem0APIKey != "k-123" {
		t.Fatalf("Mem0APIKey = %q, want trimmed value", cfg.Mem0APIKey)
	}
}

func setCoreEnvEmpty(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_BIND_ADDR",
		"APP_SHUTDOWN_TIMEOUT",
		"APP_SESSION_INACTIVITY_TIMEOUT",
		"APP_METRICS_NAMESPACE",
		"APP_ALLOW_ANY_ORIGIN",
		"APP_DEFAULT_LANGUAGE",
		"GENERATION_PROVIDER",
		"GEMINI_API_KEY",
		"GEMINI_MODEL",
		"TRANSLATION_PROVIDER",
		"SUTRA_API_KEY",
		"SUTRA_BASE_URL",
		"SUTRA_MODEL",
		"MEMORY_PROVIDER",
		"MEM0_API_KEY",
		"MEM0_BASE_URL",
		"DATABASE_URL",
		"EMBEDDING_MODEL",
		"MEMORY_EMBEDDING_DIM",
		"MEMORY_SEARCH_LIMIT",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}
