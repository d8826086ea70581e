package memory

import (
	"context"
	"testing"
)

func TestNewStoreAutoFallsBackToInMemory(t *testing.T) {
	s, err := NewStore(context.Background(), Config{Mode: "auto", SearchLimit: 4})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	defer s.Close()
	if _, ok := s.(*InMemoryStore); !ok {
		t.Fatalf("NewStore() = %T, want *InMemoryStore", s)
	}
}

func TestNewStoreAutoPrefersRemoteWithKey(t *testing.T) {
	s, err := NewStore(context.Background(), Config{Mode: "auto", Mem0APIKey: "k-123", Mem0BaseURL: "https://api.mem0.ai"})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	defer s.Close()
	if _, ok := s.(*RemoteStore); !ok {
		t.Fatalf("NewStore() = %T, want *RemoteStore", s)
	}
}

func TestNewStoreRemoteRequiresKey(t *testing.T) {
	if _, err := NewStore(context.Background(), Config{Mode: "remote"}); err == nil {
		t.Fatalf("NewStore() should fail without an API key")
	}
}

func TestNewStorePostgresRequiresURL(t *testing.T) {
	if _, err := NewStore(context.Background(), Config{Mode: "postgres"}); err == nil {
		t.Fatalf("NewStore() should fail without DATABASE_URL")
	}
}

func TestNewStoreRejectsUnknownMode(t *testing.T) {
	if _, err := NewStore(context.Background(), Config{Mode: "redis"}); err == nil {
		t.Fatalf("NewStore() should reject unknown mode")
	}
}
