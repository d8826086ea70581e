package translate

import (
	"context"
	"errors"
	"testing"
)

type countingTranslator struct {
	calls int
	fail  bool
}

func (t *countingTranslator) Detect(ctx context.Context, text string) (string, error) {
	return "English", nil
}

func (t *countingTranslator) Translate(ctx context.Context, text, target string) (string, error) {
	t.calls++
	if t.fail {
		return "", errors.New("provider down")
	}
	return "<" + target + ">" + text, nil
}

func TestLabelCacheTranslatesOnceDoesNotRetranslate(t *testing.T) {
	tr := &countingTranslator{}
	cache := NewLabelCache(tr, nil)
	ctx := context.Background()

	first := cache.Get(ctx, "Hindi", "Next")
	second := cache.Get(ctx, "Hindi", "Next")

	if first != "<Hindi>Next" || second != first {
		t.Fatalf("Get() = %q then %q, want stable %q", first, second, "<Hindi>Next")
	}
	if tr.calls != 1 {
		t.Fatalf("provider calls = %d, want 1", tr.calls)
	}
}

func TestLabelCacheSeparatesLanguages(t *testing.T) {
	tr := &countingTranslator{}
	cache := NewLabelCache(tr, nil)
	ctx := context.Background()

	cache.Get(ctx, "Hindi", "Next")
	cache.Get(ctx, "Tamil", "Next")

	if tr.calls != 2 {
		t.Fatalf("provider calls = %d, want 2", tr.calls)
	}
}

func TestLabelCacheWorkingLanguageShortCircuits(t *testing.T) {
	tr := &countingTranslator{}
	cache := NewLabelCache(tr, nil)

	if got := cache.Get(context.Background(), "English", "Next"); got != "Next" {
		t.Fatalf("Get() = %q, want passthrough", got)
	}
	if tr.calls != 0 {
		t.Fatalf("provider calls = %d, want 0", tr.calls)
	}
}

func TestLabelCacheFailureFallsBackAndRetries(t *testing.T) {
	tr := &countingTranslator{fail: true}
	cache := NewLabelCache(tr, nil)
	ctx := context.Background()

	if got := cache.Get(ctx, "Hindi", "Next"); got != "Next" {
		t.Fatalf("Get() on failure = %q, want original label", got)
	}

	// Failures must not poison the cache.
	tr.fail = false
	if got := cache.Get(ctx, "Hindi", "Next"); got != "<Hindi>Next" {
		t.Fatalf("Get() after recovery = %q, want translation", got)
	}
	if tr.calls != 2 {
		t.Fatalf("provider calls = %d, want 2", tr.calls)
	}
}
