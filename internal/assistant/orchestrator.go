// Package assistant drives one client connection: language selection, login,
// the registration wizard and the chat loop, all over a message channel pair.
package assistant

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/antoniostano/sahay/internal/chat"
	"github.com/antoniostano/sahay/internal/language"
	"github.com/antoniostano/sahay/internal/memory"
	"github.com/antoniostano/sahay/internal/observability"
	"github.com/antoniostano/sahay/internal/profile"
	"github.com/antoniostano/sahay/internal/protocol"
	"github.com/antoniostano/sahay/internal/session"
	"github.com/antoniostano/sahay/internal/translate"
	"github.com/antoniostano/sahay/internal/wizard"
)

// UI strings rendered through the label cache before delivery.
const (
	labelWelcomeBack   = "Existing user detected. Welcome back!"
	labelNewUser       = "New user detected. Let's collect some basic information."
	labelEmptyAnswer   = "Please provide an answer before continuing"
	labelEmptyMessage  = "Please enter a message before sending"
	labelInvalidAge    = "Please enter a valid age between 1 and 120"
	labelSaveFailed    = "Failed to save your information. Please try again."
	labelSummaryTitle  = "Your Information Summary:"
	labelLoginFirst    = "Please log in before chatting"
	labelRegisterFirst = "Please finish registration before chatting"
)

const outboundSendTimeout = 5 * time.Second

// Orchestrator handles all connections; per-connection state lives in the
// session and in RunConnection locals.
type Orchestrator struct {
	sessions *session.Manager
	pipeline *chat.Pipeline
	store    memory.Store
	tr       translate.Translator
	labels   *translate.LabelCache
	metrics  *observability.Metrics
}

func NewOrchestrator(
	sessions *session.Manager,
	pipeline *chat.Pipeline,
	store memory.Store,
	tr translate.Translator,
	labels *translate.LabelCache,
	metrics *observability.Metrics,
) *Orchestrator {
	return &Orchestrator{
		sessions: sessions,
		pipeline: pipeline,
		store:    store,
		tr:       tr,
		labels:   labels,
		metrics:  metrics,
	}
}

// RunConnection services one websocket until the context ends or the inbound
// channel closes. Messages are handled strictly in order; chat generation is
// synchronous, matching the one-question-at-a-time UI.
func (o *Orchestrator) RunConnection(ctx context.Context, s *session.Session, inbound <-chan any, outbound chan<- any) error {
	if s.Registered() {
		o.sendProfileSnapshot(ctx, outbound, s)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-inbound:
			if !ok {
				return nil
			}
			if err := o.handle(ctx, s, outbound, msg); err != nil {
				return err
			}
		}
	}
}

func (o *Orchestrator) handle(ctx context.Context, s *session.Session, outbound chan<- any, msg any) error {
	if err := o.sessions.Touch(s.ID); err != nil && !errors.Is(err, session.ErrNotFound) {
		return err
	}

	switch m := msg.(type) {
	case protocol.SetLanguage:
		o.handleSetLanguage(ctx, s, outbound, m)
	case protocol.Login:
		o.handleLogin(ctx, s, outbound, m)
	case protocol.RegistrationAnswer:
		o.handleRegistrationAnswer(ctx, s, outbound, m)
	case protocol.ConfirmRegistration:
		o.handleConfirm(ctx, s, outbound)
	case protocol.ChatMessage:
		o.handleChat(ctx, s, outbound, m)
	case protocol.ResetChat:
		o.handleReset(s, outbound)
	case protocol.Logout:
		o.handleLogout(s, outbound)
	default:
		o.sendError(outbound, s.ID, "unsupported_message", "message type not handled")
	}
	return nil
}

func (o *Orchestrator) handleSetLanguage(ctx context.Context, s *session.Session, outbound chan<- any, m protocol.SetLanguage) {
	if err := o.sessions.SetLanguage(s.ID, m.Language); err != nil {
		o.sendError(outbound, s.ID, "unsupported_language", err.Error())
		return
	}
	normalized, _ := language.Normalize(m.Language)
	s.Language = normalized
	o.metrics.CountSessionEvent("language_changed")
	o.send(outbound, protocol.SystemEvent{
		Type:      protocol.TypeSystemEvent,
		SessionID: s.ID,
		Code:      "language_set",
		Detail:    normalized,
	})

	// Re-issue the current wizard prompt so the form follows the new
	// language immediately.
	if s.Wizard != nil && s.Wizard.State() == wizard.StateRegistering {
		o.sendPrompt(ctx, outbound, s)
	}
}

func (o *Orchestrator) handleLogin(ctx context.Context, s *session.Session, outbound chan<- any, m protocol.Login) {
	exists, err := o.store.Exists(ctx, m.UserID)
	if err != nil {
		log.Printf("assistant: existence check failed for user %s: %v", m.UserID, err)
		o.metrics.CountProviderError("memory", "exists")
		exists = false
	}

	w := wizard.New(o.tr, exists)
	if err := o.sessions.Login(s.ID, m.UserID, w); err != nil {
		o.sendError(outbound, s.ID, "session_not_found", err.Error())
		return
	}
	s.UserID = m.UserID
	s.Wizard = w
	o.metrics.CountSessionEvent("login")

	greeting := labelNewUser
	if exists {
		greeting = labelWelcomeBack
	}
	o.send(outbound, protocol.LoginResult{
		Type:         protocol.TypeLoginResult,
		SessionID:    s.ID,
		UserID:       m.UserID,
		ExistingUser: exists,
		Greeting:     o.labels.Get(ctx, s.Language, greeting),
	})

	if exists {
		o.sendProfileSnapshot(ctx, outbound, s)
		return
	}
	o.sendPrompt(ctx, outbound, s)
}

func (o *Orchestrator) handleRegistrationAnswer(ctx context.Context, s *session.Session, outbound chan<- any, m protocol.RegistrationAnswer) {
	if s.Wizard == nil {
		o.sendError(outbound, s.ID, "not_logged_in", o.labels.Get(ctx, s.Language, labelLoginFirst))
		return
	}

	if m.Action == protocol.ActionPrevious {
		s.Wizard.Previous()
		o.sendPrompt(ctx, outbound, s)
		return
	}

	err := s.Wizard.Next(ctx, m.Answer)
	var ageErr *wizard.AgeError
	switch {
	case errors.Is(err, wizard.ErrEmptyAnswer):
		o.sendError(outbound, s.ID, "empty_answer", o.labels.Get(ctx, s.Language, labelEmptyAnswer))
		return
	case errors.As(err, &ageErr):
		o.sendError(outbound, s.ID, "invalid_age", o.labels.Get(ctx, s.Language, labelInvalidAge))
		return
	case err != nil:
		o.sendError(outbound, s.ID, "registration_failed", err.Error())
		return
	}

	if s.Wizard.State() == wizard.StateConfirming {
		o.sendSummary(ctx, outbound, s)
		return
	}
	o.sendPrompt(ctx, outbound, s)
}

func (o *Orchestrator) handleConfirm(ctx context.Context, s *session.Session, outbound chan<- any) {
	if s.Wizard == nil {
		o.sendError(outbound, s.ID, "not_logged_in", o.labels.Get(ctx, s.Language, labelLoginFirst))
		return
	}

	if err := s.Wizard.Confirm(ctx, o.store, s.UserID); err != nil {
		if errors.Is(err, wizard.ErrNotConfirming) {
			o.sendError(outbound, s.ID, "not_confirming", err.Error())
			return
		}
		log.Printf("assistant: profile save failed for user %s: %v", s.UserID, err)
		o.metrics.CountProviderError("memory", "add")
		o.sendError(outbound, s.ID, "save_failed", o.labels.Get(ctx, s.Language, labelSaveFailed))
		return
	}

	o.metrics.CountSessionEvent("registration_complete")
	p := s.Wizard.Profile()
	welcome := "Thanks " + p.DisplayName() + ", your health info is stored for personalized support. How can I help you today?"
	welcome = translate.Text(ctx, o.tr, welcome, s.Language)
	o.sessions.AppendTurn(s.ID, "assistant", welcome)

	o.send(outbound, protocol.RegistrationComplete{
		Type:      protocol.TypeRegistrationComplete,
		SessionID: s.ID,
		Welcome:   welcome,
	})
	o.sendProfileSnapshot(ctx, outbound, s)
}

func (o *Orchestrator) handleChat(ctx context.Context, s *session.Session, outbound chan<- any, m protocol.ChatMessage) {
	if s.UserID == "" {
		o.sendError(outbound, s.ID, "not_logged_in", o.labels.Get(ctx, s.Language, labelLoginFirst))
		return
	}
	if !s.Registered() {
		o.sendError(outbound, s.ID, "not_registered", o.labels.Get(ctx, s.Language, labelRegisterFirst))
		return
	}
	if isBlank(m.Text) {
		o.sendError(outbound, s.ID, "empty_message", o.labels.Get(ctx, s.Language, labelEmptyMessage))
		return
	}

	o.sessions.AppendTurn(s.ID, "user", m.Text)
	o.metrics.CountSessionEvent("chat_message")

	var p *profile.Profile
	if s.Wizard != nil {
		if prof := s.Wizard.Profile(); prof.Name != "" {
			p = prof
		}
	}

	answer := o.pipeline.Respond(ctx, chat.Request{
		UserID:   s.UserID,
		Text:     m.Text,
		Language: s.Language,
		Profile:  p,
	})
	o.sessions.AppendTurn(s.ID, "assistant", answer)

	o.send(outbound, protocol.AssistantTurn{
		Type:      protocol.TypeAssistantTurn,
		SessionID: s.ID,
		Text:      answer,
	})
}

func (o *Orchestrator) handleReset(s *session.Session, outbound chan<- any) {
	if err := o.sessions.ResetTranscript(s.ID); err != nil {
		o.sendError(outbound, s.ID, "session_not_found", err.Error())
		return
	}
	o.metrics.CountSessionEvent("chat_reset")
	o.send(outbound, protocol.SystemEvent{
		Type:      protocol.TypeSystemEvent,
		SessionID: s.ID,
		Code:      "chat_reset",
	})
}

func (o *Orchestrator) handleLogout(s *session.Session, outbound chan<- any) {
	if err := o.sessions.Logout(s.ID); err != nil {
		o.sendError(outbound, s.ID, "session_not_found", err.Error())
		return
	}
	s.UserID = ""
	s.Wizard = nil
	o.metrics.CountSessionEvent("logout")
	o.send(outbound, protocol.SystemEvent{
		Type:      protocol.TypeSystemEvent,
		SessionID: s.ID,
		Code:      "logged_out",
	})
}

func (o *Orchestrator) sendPrompt(ctx context.Context, outbound chan<- any, s *session.Session) {
	q, ok := s.Wizard.Question()
	if !ok {
		o.sendSummary(ctx, outbound, s)
		return
	}
	o.send(outbound, protocol.RegistrationPrompt{
		Type:        protocol.TypeRegistrationPrompt,
		SessionID:   s.ID,
		Step:        s.Wizard.Step() + 1,
		Total:       s.Wizard.TotalSteps(),
		Key:         q.Key,
		Question:    o.labels.Get(ctx, s.Language, q.Label),
		Placeholder: o.labels.Get(ctx, s.Language, q.Placeholder),
		InputType:   string(q.Input),
	})
}

func (o *Orchestrator) sendSummary(ctx context.Context, outbound chan<- any, s *session.Session) {
	o.send(outbound, protocol.RegistrationSummary{
		Type:      protocol.TypeRegistrationSummary,
		SessionID: s.ID,
		Title:     o.labels.Get(ctx, s.Language, labelSummaryTitle),
		Entries:   o.summaryEntries(ctx, s),
	})
}

func (o *Orchestrator) sendProfileSnapshot(ctx context.Context, outbound chan<- any, s *session.Session) {
	o.send(outbound, protocol.ProfileSnapshot{
		Type:      protocol.TypeProfileSnapshot,
		SessionID: s.ID,
		Entries:   o.summaryEntries(ctx, s),
	})
}

func (o *Orchestrator) summaryEntries(ctx context.Context, s *session.Session) []protocol.SummaryEntry {
	entries := make([]protocol.SummaryEntry, 0, len(profile.Questions))
	if s.Wizard == nil {
		return entries
	}
	p := s.Wizard.Profile()
	for _, q := range profile.Questions {
		value := p.Field(q.Key)
		if value == "" {
			continue
		}
		entries = append(entries, protocol.SummaryEntry{
			Key:   q.Key,
			Label: o.labels.Get(ctx, s.Language, profile.SummaryLabels[q.Key]),
			Value: value,
		})
	}
	return entries
}

func (o *Orchestrator) sendError(outbound chan<- any, sessionID, code, detail string) {
	o.send(outbound, protocol.ErrorEvent{
		Type:      protocol.TypeErrorEvent,
		SessionID: sessionID,
		Code:      code,
		Detail:    detail,
	})
}

func (o *Orchestrator) send(outbound chan<- any, msg any) {
	timer := time.NewTimer(outboundSendTimeout)
	defer timer.Stop()
	select {
	case outbound <- msg:
	case <-timer.C:
		log.Printf("assistant: outbound send timed out, dropping %T", msg)
		o.metrics.CountSessionEvent("outbound_drop")
	}
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
