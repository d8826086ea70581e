package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/antoniostano/sahay/internal/reliability"
)

const (
	remoteRetryMax     = 2
	remoteRetryBase    = 250 * time.Millisecond
	remoteRetryCap     = 2 * time.Second
	remoteBodyLimit    = 4 << 10
	remoteExistenceKey = "check"
)

// RemoteStore talks to a Mem0-compatible hosted memory service.
type RemoteStore struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewRemoteStore(baseURL, apiKey string) *RemoteStore {
	return &RemoteStore{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type remoteSearchRequest struct {
	Query  string `json:"query"`
	UserID string `json:"user_id"`
}

type remoteAddRequest struct {
	Messages []Turn `json:"messages"`
	UserID   string `json:"user_id"`
}

// remoteRecord tolerates both response shapes the service emits: a stored
// message turn or a distilled memory string.
type remoteRecord struct {
	Memory  string `json:"memory"`
	Message *struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
}

func (s *RemoteStore) Exists(ctx context.Context, userID string) (bool, error) {
	records, err := s.Search(ctx, remoteExistenceKey, userID)
	if err != nil {
		return false, err
	}
	return len(records) > 0, nil
}

func (s *RemoteStore) Search(ctx context.Context, query, userID string) ([]Record, error) {
	body, err := s.post(ctx, "/v1/memories/search/", remoteSearchRequest{
		Query:  query,
		UserID: userID,
	})
	if err != nil {
		return nil, err
	}

	var raw []remoteRecord
	if err := json.Unmarshal(body, &raw); err != nil {
		// Some deployments wrap the list in a results envelope.
		var wrapped struct {
			Results []remoteRecord `json:"results"`
		}
		if err2 := json.Unmarshal(body, &wrapped); err2 != nil {
			return nil, fmt.Errorf("decode search response: %w", err)
		}
		raw = wrapped.Results
	}

	records := make([]Record, 0, len(raw))
	for _, r := range raw {
		switch {
		case r.Message != nil && strings.TrimSpace(r.Message.Content) != "":
			records = append(records, Record{Role: r.Message.Role, Content: r.Message.Content})
		case strings.TrimSpace(r.Memory) != "":
			records = append(records, Record{Content: r.Memory})
		}
	}
	return records, nil
}

func (s *RemoteStore) AddTurns(ctx context.Context, userID string, turns []Turn) error {
	if len(turns) == 0 {
		return nil
	}
	_, err := s.post(ctx, "/v1/memories/", remoteAddRequest{
		Messages: turns,
		UserID:   userID,
	})
	return err
}

func (s *RemoteStore) Close() error { return nil }

func (s *RemoteStore) post(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= remoteRetryMax; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(reliability.ExponentialBackoff(attempt-1, remoteRetryBase, remoteRetryCap)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if s.apiKey != "" {
			req.Header.Set("Authorization", "Token "+s.apiKey)
		}

		res, err := s.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("send request: %w", err)
			continue
		}

		respBody, readErr := io.ReadAll(io.LimitReader(res.Body, 1<<20))
		res.Body.Close()

		if res.StatusCode >= 200 && res.StatusCode < 300 {
			if readErr != nil {
				return nil, fmt.Errorf("read response: %w", readErr)
			}
			return respBody, nil
		}

		truncated := respBody
		if len(truncated) > remoteBodyLimit {
			truncated = truncated[:remoteBodyLimit]
		}
		lastErr = fmt.Errorf("memory service status %d: %s", res.StatusCode, string(truncated))
		if !reliability.IsRetryableHTTPStatus(res.StatusCode) {
			return nil, lastErr
		}
	}
	return nil, lastErr
}
