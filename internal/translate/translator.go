// Package translate adapts the remote translation/detection model. The
// provider is a plain text-completion endpoint; detection and translation
// are both expressed as natural-language instructions.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/antoniostano/sahay/internal/language"
)

// Translator is the capability surface consumed by the wizard and the chat
// pipeline. Implementations return errors; callers decide the fallback.
type Translator interface {
	// Detect returns the language name of the given text.
	Detect(ctx context.Context, text string) (string, error)
	// Translate renders text into the target display language.
	Translate(ctx context.Context, text, target string) (string, error)
}

// Config controls translator construction.
type Config struct {
	Mode    string
	APIKey  string
	BaseURL string
	Model   string
}

func NewTranslator(cfg Config) (Translator, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.APIKey) != "" {
			return NewSutraTranslator(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
		}
		return NewMockTranslator(), nil
	case "sutra":
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, errors.New("sutra API key is required for sutra mode")
		}
		return NewSutraTranslator(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case "mock":
		return NewMockTranslator(), nil
	default:
		return nil, fmt.Errorf("unsupported translation mode %q", cfg.Mode)
	}
}

// Text translates text into target, returning the original text unchanged
// when the target is the working language or when translation fails. This is
// the silent-fallback path used for UI strings; callers that need the error
// use the Translator directly.
func Text(ctx context.Context, tr Translator, text, target string) string {
	if language.IsWorking(target) || strings.TrimSpace(text) == "" {
		return text
	}
	out, err := tr.Translate(ctx, text, target)
	if err != nil || strings.TrimSpace(out) == "" {
		return text
	}
	return out
}

// ToWorking detects the language of text and translates it into the working
// language for internal processing. Detection failure assumes the text is
// already in the working language; translation failure returns the original.
func ToWorking(ctx context.Context, tr Translator, text string) (normalized, detected string) {
	detected, err := tr.Detect(ctx, text)
	if err != nil || strings.TrimSpace(detected) == "" {
		return text, language.Working
	}
	detected = strings.TrimSpace(detected)
	if language.IsWorking(detected) {
		return text, detected
	}
	out, err := tr.Translate(ctx, text, language.Working)
	if err != nil || strings.TrimSpace(out) == "" {
		return text, detected
	}
	return strings.TrimSpace(out), detected
}
