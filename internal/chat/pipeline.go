// Package chat implements the question-answering pipeline: normalize the
// query, recall memories, generate a grounded answer and render it in the
// user's language.
package chat

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/antoniostano/sahay/internal/language"
	"github.com/antoniostano/sahay/internal/llm"
	"github.com/antoniostano/sahay/internal/memory"
	"github.com/antoniostano/sahay/internal/observability"
	"github.com/antoniostano/sahay/internal/profile"
	"github.com/antoniostano/sahay/internal/translate"
)

// apology is shown whenever the pipeline cannot produce an answer. It is
// translated into the session language before delivery.
const apology = "Sorry, I encountered an error while processing your request. Please try again."

// Request carries one user message through the pipeline.
type Request struct {
	UserID   string
	Text     string
	Language string
	// Profile, when present, supplies personal signals directly instead of
	// re-deriving them from retrieved memories.
	Profile *profile.Profile
}

// Pipeline wires the translator, the memory store and the generator into a
// single Respond call. It is stateless and safe for concurrent use.
type Pipeline struct {
	translator translate.Translator
	store      memory.Store
	generator  llm.Adapter
	metrics    *observability.Metrics
}

func NewPipeline(translator translate.Translator, store memory.Store, generator llm.Adapter, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		translator: translator,
		store:      store,
		generator:  generator,
		metrics:    metrics,
	}
}

// Respond answers a user message. It never returns an error: every failure
// degrades to an apology in the session language, so the conversation keeps
// going even when a provider is down.
func (p *Pipeline) Respond(ctx context.Context, req Request) string {
	lang := req.Language
	if _, ok := language.Normalize(lang); !ok {
		lang = language.Working
	}

	query, _ := translate.ToWorking(ctx, p.translator, req.Text)

	records, err := p.recall(ctx, query, req.UserID)
	if err != nil {
		return p.apologize(ctx, lang)
	}

	signals := profile.SignalsFromProfile(req.Profile)
	if req.Profile == nil {
		signals = profile.ExtractSignals(records)
	}

	prompt := buildPrompt(signals, records, query, lang)

	started := time.Now()
	answer, err := p.generator.Generate(ctx, prompt)
	p.metrics.ObserveProviderLatency("generation", "generate", time.Since(started))
	if err != nil || strings.TrimSpace(answer) == "" {
		if err != nil {
			log.Printf("chat: generation failed for user %s: %v", req.UserID, err)
			p.metrics.CountProviderError("generation", "generate")
		}
		return p.apologize(ctx, lang)
	}

	// The model is asked to answer in the session language, but it drifts;
	// a final translation pass pins the output language.
	final := translate.Text(ctx, p.translator, answer, lang)

	// Conversation turns are stored with the user's original wording so the
	// memory keeps the language they actually used. A storage failure means
	// the exchange is lost, so the user gets the apology instead of an
	// answer the assistant will not remember.
	if err := p.persist(ctx, req.UserID, req.Text, final); err != nil {
		return p.apologize(ctx, lang)
	}

	return final
}

func (p *Pipeline) recall(ctx context.Context, query, userID string) ([]memory.Record, error) {
	started := time.Now()
	records, err := p.store.Search(ctx, query, userID)
	p.metrics.ObserveProviderLatency("memory", "search", time.Since(started))
	if err != nil {
		log.Printf("chat: memory search failed for user %s: %v", userID, err)
		p.metrics.CountProviderError("memory", "search")
		return nil, err
	}
	return records, nil
}

func (p *Pipeline) persist(ctx context.Context, userID, userText, answer string) error {
	turns := []memory.Turn{
		{Role: "user", Content: userText},
		{Role: "assistant", Content: answer},
	}
	if err := p.store.AddTurns(ctx, userID, turns); err != nil {
		log.Printf("chat: storing turns failed for user %s: %v", userID, err)
		p.metrics.CountProviderError("memory", "add")
		return err
	}
	return nil
}

func (p *Pipeline) apologize(ctx context.Context, lang string) string {
	return translate.Text(ctx, p.translator, apology, lang)
}
