// Package session tracks live assistant sessions: language choice, the
// logged-in user, registration progress and the visible transcript.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/antoniostano/sahay/internal/language"
	"github.com/antoniostano/sahay/internal/wizard"
)

type Status string

const (
	StatusActive Status = "active"
	StatusEnded  Status = "ended"
)

var ErrNotFound = errors.New("session not found")

// ChatTurn is one visible transcript entry.
type ChatTurn struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Session is the state of one connected client. The wizard pointer is shared
// with the connection orchestrator, which is the only writer; the manager
// guards everything else.
type Session struct {
	ID             string         `json:"session_id"`
	Language       string         `json:"language"`
	UserID         string         `json:"user_id"`
	Status         Status         `json:"status"`
	Wizard         *wizard.Wizard `json:"-"`
	Transcript     []ChatTurn     `json:"transcript"`
	StartedAt      time.Time      `json:"started_at"`
	LastActivityAt time.Time      `json:"last_activity_at"`
}

// Registered reports whether the session user has a stored profile.
func (s *Session) Registered() bool {
	return s.UserID != "" && s.Wizard != nil && s.Wizard.State() == wizard.StateComplete
}

type Manager struct {
	mu                sync.RWMutex
	sessions          map[string]*Session
	inactivityTimeout time.Duration
	onExpire          func(*Session)
}

func NewManager(inactivityTimeout time.Duration) *Manager {
	if inactivityTimeout <= 0 {
		inactivityTimeout = 30 * time.Minute
	}
	return &Manager{
		sessions:          make(map[string]*Session),
		inactivityTimeout: inactivityTimeout,
	}
}

func (m *Manager) SetExpireHook(hook func(*Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExpire = hook
}

// Create starts a session in the given display language. An unsupported
// language falls back to the working language.
func (m *Manager) Create(lang string) *Session {
	normalized, ok := language.Normalize(lang)
	if !ok {
		normalized = language.Working
	}

	now := time.Now().UTC()
	s := &Session{
		ID:             uuid.NewString(),
		Language:       normalized,
		Status:         StatusActive,
		StartedAt:      now,
		LastActivityAt: now,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return clone(s)
}

func (m *Manager) Get(sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(s), nil
}

func (m *Manager) Touch(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}
	s.LastActivityAt = time.Now().UTC()
	return nil
}

// SetLanguage switches the session display language.
func (m *Manager) SetLanguage(sessionID, lang string) error {
	normalized, ok := language.Normalize(lang)
	if !ok {
		return language.ErrUnsupported
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok2 := m.sessions[sessionID]
	if !ok2 {
		return ErrNotFound
	}
	s.Language = normalized
	s.LastActivityAt = time.Now().UTC()
	return nil
}

// Login binds a user to the session together with their registration wizard.
func (m *Manager) Login(sessionID, userID string, w *wizard.Wizard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}
	s.UserID = userID
	s.Wizard = w
	s.Transcript = nil
	s.LastActivityAt = time.Now().UTC()
	return nil
}

// Logout detaches the user and drops everything tied to them.
func (m *Manager) Logout(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}
	s.UserID = ""
	s.Wizard = nil
	s.Transcript = nil
	s.LastActivityAt = time.Now().UTC()
	return nil
}

// AppendTurn adds an entry to the visible transcript.
func (m *Manager) AppendTurn(sessionID, role, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}
	s.Transcript = append(s.Transcript, ChatTurn{Role: role, Text: text, At: time.Now().UTC()})
	s.LastActivityAt = time.Now().UTC()
	return nil
}

// ResetTranscript clears the visible transcript without touching the stored
// memories.
func (m *Manager) ResetTranscript(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}
	s.Transcript = nil
	s.LastActivityAt = time.Now().UTC()
	return nil
}

func (m *Manager) End(sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	s.Status = StatusEnded
	s.LastActivityAt = time.Now().UTC()
	return clone(s), nil
}

func (m *Manager) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.expireInactive()
			}
		}
	}()
}

func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, s := range m.sessions {
		if s.Status == StatusActive {
			count++
		}
	}
	return count
}

func (m *Manager) expireInactive() {
	now := time.Now().UTC()
	var expired []*Session

	m.mu.Lock()
	for _, s := range m.sessions {
		if s.Status != StatusActive {
			continue
		}
		if now.Sub(s.LastActivityAt) < m.inactivityTimeout {
			continue
		}
		s.Status = StatusEnded
		s.LastActivityAt = now
		expired = append(expired, clone(s))
	}
	hook := m.onExpire
	m.mu.Unlock()

	if hook != nil {
		for _, s := range expired {
			hook(s)
		}
	}
}

// clone copies the session for callers outside the lock. The transcript
// slice is copied; the wizard pointer is shared with the orchestrator.
func clone(s *Session) *Session {
	c := *s
	if len(s.Transcript) > 0 {
		c.Transcript = append([]ChatTurn(nil), s.Transcript...)
	}
	return &c
}
