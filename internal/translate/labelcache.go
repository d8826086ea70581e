package translate

import (
	"context"
	"strings"
	"sync"

	"github.com/antoniostano/sahay/internal/language"
	"github.com/antoniostano/sahay/internal/observability"
)

// LabelCache memoizes translations of static UI labels per display language,
// so repeated renders of the same form step do not re-invoke the provider.
// Failed translations are not cached; the original label is returned and the
// next render retries.
type LabelCache struct {
	mu      sync.RWMutex
	tr      Translator
	metrics *observability.Metrics
	byLang  map[string]map[string]string
}

func NewLabelCache(tr Translator, metrics *observability.Metrics) *LabelCache {
	return &LabelCache{
		tr:      tr,
		metrics: metrics,
		byLang:  make(map[string]map[string]string),
	}
}

// Get returns label rendered in the target display language. The working
// language short-circuits without a provider call.
func (c *LabelCache) Get(ctx context.Context, target, label string) string {
	if language.IsWorking(target) || strings.TrimSpace(label) == "" {
		return label
	}

	c.mu.RLock()
	cached, ok := c.byLang[target][label]
	c.mu.RUnlock()
	if ok {
		c.metrics.CountLabelCache("hit")
		return cached
	}
	c.metrics.CountLabelCache("miss")

	out, err := c.tr.Translate(ctx, label, target)
	out = strings.TrimSpace(out)
	if err != nil || out == "" {
		return label
	}

	c.mu.Lock()
	if c.byLang[target] == nil {
		c.byLang[target] = make(map[string]string)
	}
	c.byLang[target][label] = out
	c.mu.Unlock()

	return out
}
