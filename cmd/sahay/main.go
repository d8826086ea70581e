package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/antoniostano/sahay/internal/assistant"
	"github.com/antoniostano/sahay/internal/chat"
	"github.com/antoniostano/sahay/internal/config"
	"github.com/antoniostano/sahay/internal/httpapi"
	"github.com/antoniostano/sahay/internal/llm"
	"github.com/antoniostano/sahay/internal/memory"
	"github.com/antoniostano/sahay/internal/observability"
	"github.com/antoniostano/sahay/internal/session"
	"github.com/antoniostano/sahay/internal/translate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)
	ctx := context.Background()

	translator, err := translate.NewTranslator(translate.Config{
		Mode:    cfg.TranslationProvider,
		APIKey:  cfg.SutraAPIKey,
		BaseURL: cfg.SutraBaseURL,
		Model:   cfg.SutraModel,
	})
	if err != nil {
		log.Fatalf("translator init failed: %v", err)
	}
	log.Printf("translation provider: %s", providerName(cfg.TranslationProvider, cfg.SutraAPIKey != "", "sutra"))

	generator, err := llm.NewAdapter(ctx, llm.Config{
		Mode:         cfg.GenerationProvider,
		GeminiAPIKey: cfg.GeminiAPIKey,
		GeminiModel:  cfg.GeminiModel,
	})
	if err != nil {
		log.Fatalf("generation adapter init failed: %v", err)
	}
	log.Printf("generation provider: %s", providerName(cfg.GenerationProvider, cfg.GeminiAPIKey != "", "gemini"))

	// The embedder only matters for the postgres backend; the hosted memory
	// service embeds server-side.
	var embedder memory.Embedder
	if strings.TrimSpace(cfg.DatabaseURL) != "" && strings.TrimSpace(cfg.GeminiAPIKey) != "" {
		e, err := memory.NewGenAIEmbedder(ctx, cfg.GeminiAPIKey, cfg.EmbeddingModel, cfg.MemoryEmbeddingDim)
		if err != nil {
			log.Printf("embedder unavailable, falling back to keyword search: %v", err)
		} else {
			embedder = e
		}
	}

	memoryStore, err := memory.NewStore(ctx, memory.Config{
		Mode:         cfg.MemoryProvider,
		Mem0APIKey:   cfg.Mem0APIKey,
		Mem0BaseURL:  cfg.Mem0BaseURL,
		DatabaseURL:  cfg.DatabaseURL,
		Embedder:     embedder,
		EmbeddingDim: cfg.MemoryEmbeddingDim,
		SearchLimit:  cfg.MemorySearchLimit,
	})
	if err != nil {
		log.Fatalf("memory store init failed: %v", err)
	}
	defer memoryStore.Close()
	log.Printf("memory store: %T", memoryStore)

	labels := translate.NewLabelCache(translator, metrics)
	pipeline := chat.NewPipeline(translator, memoryStore, generator, metrics)

	sessions := session.NewManager(cfg.SessionInactivityTimeout)
	sessions.SetExpireHook(func(_ *session.Session) {
		metrics.CountSessionEvent("expired")
		metrics.SetActiveSessions(sessions.ActiveCount())
	})

	orchestrator := assistant.NewOrchestrator(sessions, pipeline, memoryStore, translator, labels, metrics)

	api := httpapi.New(cfg, sessions, orchestrator, metrics)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	sessions.StartJanitor(runCtx, 30*time.Second)

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}

func providerName(mode string, hasKey bool, real string) string {
	mode = strings.ToLower(strings.TrimSpace(mode))
	switch mode {
	case "", "auto":
		if hasKey {
			return real
		}
		return "mock"
	default:
		return mode
	}
}
