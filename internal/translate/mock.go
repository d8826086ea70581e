package translate

import (
	"context"
	"fmt"

	"github.com/antoniostano/sahay/internal/language"
)

// MockTranslator provides deterministic local behavior when no translation
// provider is configured. Everything is reported as English and translations
// are tagged rather than rendered.
type MockTranslator struct{}

func NewMockTranslator() *MockTranslator { return &MockTranslator{} }

func (t *MockTranslator) Detect(ctx context.Context, text string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	return language.Working, nil
}

func (t *MockTranslator) Translate(ctx context.Context, text, target string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	if language.IsWorking(target) {
		return text, nil
	}
	return fmt.Sprintf("[%s] %s", language.Code(target), text), nil
}
