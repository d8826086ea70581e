// Package protocol defines the websocket payloads exchanged between the
// browser client and the assistant.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MessageType identifies websocket payload variants.
type MessageType string

const (
	TypeSetLanguage         MessageType = "set_language"
	TypeLogin               MessageType = "login"
	TypeRegistrationAnswer  MessageType = "registration_answer"
	TypeConfirmRegistration MessageType = "confirm_registration"
	TypeChatMessage         MessageType = "chat_message"
	TypeResetChat           MessageType = "reset_chat"
	TypeLogout              MessageType = "logout"

	TypeLoginResult          MessageType = "login_result"
	TypeRegistrationPrompt   MessageType = "registration_prompt"
	TypeRegistrationSummary  MessageType = "registration_summary"
	TypeRegistrationComplete MessageType = "registration_complete"
	TypeAssistantTurn        MessageType = "assistant_turn"
	TypeProfileSnapshot      MessageType = "profile_snapshot"
	TypeSystemEvent          MessageType = "system_event"
	TypeErrorEvent           MessageType = "error_event"
)

// Registration answer actions.
const (
	ActionNext     = "next"
	ActionPrevious = "previous"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

// Client -> server.

type SetLanguage struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Language  string      `json:"language"`
}

type Login struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	UserID    string      `json:"user_id"`
}

type RegistrationAnswer struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Answer    string      `json:"answer"`
	Action    string      `json:"action"`
}

type ConfirmRegistration struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
}

type ChatMessage struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Text      string      `json:"text"`
}

type ResetChat struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
}

type Logout struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
}

// Server -> client.

type LoginResult struct {
	Type         MessageType `json:"type"`
	SessionID    string      `json:"session_id"`
	UserID       string      `json:"user_id"`
	ExistingUser bool        `json:"existing_user"`
	Greeting     string      `json:"greeting"`
}

type RegistrationPrompt struct {
	Type        MessageType `json:"type"`
	SessionID   string      `json:"session_id"`
	Step        int         `json:"step"`
	Total       int         `json:"total"`
	Key         string      `json:"key"`
	Question    string      `json:"question"`
	Placeholder string      `json:"placeholder"`
	InputType   string      `json:"input_type"`
}

// SummaryEntry is one confirmed answer shown before saving.
type SummaryEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

type RegistrationSummary struct {
	Type      MessageType    `json:"type"`
	SessionID string         `json:"session_id"`
	Title     string         `json:"title"`
	Entries   []SummaryEntry `json:"entries"`
}

type RegistrationComplete struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Welcome   string      `json:"welcome"`
}

type AssistantTurn struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Text      string      `json:"text"`
}

type ProfileSnapshot struct {
	Type      MessageType    `json:"type"`
	SessionID string         `json:"session_id"`
	Entries   []SummaryEntry `json:"entries"`
}

type SystemEvent struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Code      string      `json:"code"`
	Detail    string      `json:"detail,omitempty"`
}

type ErrorEvent struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Code      string      `json:"code"`
	Detail    string      `json:"detail"`
}

// ParseClientMessage decodes and validates an inbound payload.
func ParseClientMessage(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeSetLanguage:
		var msg SetLanguage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.SessionID == "" || msg.Language == "" {
			return nil, errors.New("invalid set_language")
		}
		return msg, nil
	case TypeLogin:
		var msg Login
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.SessionID == "" || msg.UserID == "" {
			return nil, errors.New("invalid login")
		}
		return msg, nil
	case TypeRegistrationAnswer:
		var msg RegistrationAnswer
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.SessionID == "" {
			return nil, errors.New("invalid registration_answer")
		}
		if msg.Action == "" {
			msg.Action = ActionNext
		}
		if msg.Action != ActionNext && msg.Action != ActionPrevious {
			return nil, fmt.Errorf("invalid registration_answer action %q", msg.Action)
		}
		return msg, nil
	case TypeConfirmRegistration:
		var msg ConfirmRegistration
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.SessionID == "" {
			return nil, errors.New("invalid confirm_registration")
		}
		return msg, nil
	case TypeChatMessage:
		var msg ChatMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.SessionID == "" {
			return nil, errors.New("invalid chat_message")
		}
		return msg, nil
	case TypeResetChat:
		var msg ResetChat
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.SessionID == "" {
			return nil, errors.New("invalid reset_chat")
		}
		return msg, nil
	case TypeLogout:
		var msg Logout
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.SessionID == "" {
			return nil, errors.New("invalid logout")
		}
		return msg, nil
	default:
		return nil, ErrUnsupportedType
	}
}
