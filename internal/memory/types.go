// Package memory wraps the long-term memory store keyed by user identity.
// The store holds natural-language fact statements and past conversation
// turns, retrievable by semantic similarity to a query string.
package memory

import (
	"context"
	"strings"
)

// Turn is a single statement to persist, in submission order.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Record is a retrieved memory. A record is either a stored conversation
// turn (Role set) or a distilled memory the store synthesized (Role empty).
type Record struct {
	Role    string
	Content string
}

// Line renders the record for prompt assembly.
func (r Record) Line() string {
	if strings.TrimSpace(r.Role) == "" {
		return "Memory: " + r.Content
	}
	return capitalize(r.Role) + ": " + r.Content
}

// Store persists and retrieves per-user memory. All operations are scoped by
// the caller-supplied identity key.
type Store interface {
	// Exists reports whether any memory is stored under the identity key.
	Exists(ctx context.Context, userID string) (bool, error)
	// Search returns records relevant to the query for the identity key.
	Search(ctx context.Context, query, userID string) ([]Record, error)
	// AddTurns appends an ordered batch of statements under the identity key.
	AddTurns(ctx context.Context, userID string, turns []Turn) error
	Close() error
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
