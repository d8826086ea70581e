package protocol

import (
	"errors"
	"testing"
)

func TestParseClientMessageLogin(t *testing.T) {
	raw := []byte(`{"type":"login","session_id":"s1","user_id":"asha_k"}`)
	msg, err := ParseClientMessage(raw)
	if err != nil {
		t.Fatalf("ParseClientMessage() error = %v", err)
	}
	login, ok := msg.(Login)
	if !ok {
		t.Fatalf("message type = %T, want Login", msg)
	}
	if login.UserID != "asha_k" {
		t.Fatalf("UserID = %q", login.UserID)
	}
}

func TestParseClientMessageRegistrationAnswerDefaultsToNext(t *testing.T) {
	raw := []byte(`{"type":"registration_answer","session_id":"s1","answer":"Asha"}`)
	msg, err := ParseClientMessage(raw)
	if err != nil {
		t.Fatalf("ParseClientMessage() error = %v", err)
	}
	answer := msg.(RegistrationAnswer)
	if answer.Action != ActionNext {
		t.Fatalf("Action = %q, want %q", answer.Action, ActionNext)
	}
}

func TestParseClientMessageRejectsUnknownAction(t *testing.T) {
	raw := []byte(`{"type":"registration_answer","session_id":"s1","answer":"x","action":"skip"}`)
	if _, err := ParseClientMessage(raw); err == nil {
		t.Fatalf("ParseClientMessage() should reject action=skip")
	}
}

func TestParseClientMessageRequiresSessionID(t *testing.T) {
	cases := []string{
		`{"type":"set_language","language":"Hindi"}`,
		`{"type":"login","user_id":"asha_k"}`,
		`{"type":"chat_message","text":"hi"}`,
		`{"type":"confirm_registration"}`,
		`{"type":"reset_chat"}`,
		`{"type":"logout"}`,
	}
	for _, raw := range cases {
		if _, err := ParseClientMessage([]byte(raw)); err == nil {
			t.Errorf("ParseClientMessage(%s) should fail without session_id", raw)
		}
	}
}

func TestParseClientMessageUnsupportedType(t *testing.T) {
	raw := []byte(`{"type":"client_audio_chunk","session_id":"s1"}`)
	if _, err := ParseClientMessage(raw); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("ParseClientMessage() error = %v, want ErrUnsupportedType", err)
	}
}

func TestParseClientMessageInvalidJSON(t *testing.T) {
	if _, err := ParseClientMessage([]byte(`{not json`)); err == nil {
		t.Fatalf("ParseClientMessage() should reject malformed JSON")
	}
}
