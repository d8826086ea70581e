package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/antoniostano/sahay/internal/memory"
	"github.com/antoniostano/sahay/internal/profile"
	"github.com/antoniostano/sahay/internal/translate"
)

type stubStore struct {
	addErr error
	added  map[string][]memory.Turn
}

func newStubStore() *stubStore {
	return &stubStore{added: make(map[string][]memory.Turn)}
}

func (s *stubStore) Exists(ctx context.Context, userID string) (bool, error) { return false, nil }

func (s *stubStore) Search(ctx context.Context, query, userID string) ([]memory.Record, error) {
	return nil, nil
}

func (s *stubStore) AddTurns(ctx context.Context, userID string, turns []memory.Turn) error {
	if s.addErr != nil {
		return s.addErr
	}
	s.added[userID] = append(s.added[userID], turns...)
	return nil
}

func (s *stubStore) Close() error { return nil }

func answers() []string {
	return []string{"Asha Kumar", "34", "Female", "Type 2", "Metformin", "Occasional fatigue", "Pune, Maharashtra"}
}

func TestWizardSevenStepsToConfirming(t *testing.T) {
	ctx := context.Background()
	w := New(translate.NewMockTranslator(), false)

	for i, answer := range answers() {
		if w.Step() != i {
			t.Fatalf("step = %d, want %d", w.Step(), i)
		}
		q, ok := w.Question()
		if !ok {
			t.Fatalf("Question() not available at step %d", i)
		}
		if q.Key != profile.Questions[i].Key {
			t.Fatalf("question key = %q, want %q", q.Key, profile.Questions[i].Key)
		}
		if err := w.Next(ctx, answer); err != nil {
			t.Fatalf("Next(%q) error = %v", answer, err)
		}
	}

	if w.State() != StateConfirming {
		t.Fatalf("state = %v, want StateConfirming", w.State())
	}
	if got := w.Profile().Name; got != "Asha Kumar" {
		t.Fatalf("profile name = %q", got)
	}
}

func TestWizardRejectsEmptyAnswer(t *testing.T) {
	w := New(translate.NewMockTranslator(), false)
	if err := w.Next(context.Background(), "   "); !errors.Is(err, ErrEmptyAnswer) {
		t.Fatalf("Next() error = %v, want ErrEmptyAnswer", err)
	}
	if w.Step() != 0 {
		t.Fatalf("step advanced on empty answer")
	}
}

func TestWizardValidatesAgeRange(t *testing.T) {
	ctx := context.Background()
	w := New(translate.NewMockTranslator(), false)
	if err := w.Next(ctx, "Asha"); err != nil {
		t.Fatalf("Next(name) error = %v", err)
	}

	for _, bad := range []string{"0", "121", "abc", "-4"} {
		var ageErr *AgeError
		if err := w.Next(ctx, bad); !errors.As(err, &ageErr) {
			t.Errorf("Next(%q) error = %v, want *AgeError", bad, err)
		}
	}
	if w.Step() != 1 {
		t.Fatalf("step = %d, want 1 after rejected ages", w.Step())
	}
	if err := w.Next(ctx, "34"); err != nil {
		t.Fatalf("Next(34) error = %v", err)
	}
}

func TestWizardAcceptsAgeInOtherDigitScripts(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		script string
		answer string
		want   string
	}{
		{"Devanagari", "३४", "34"},
		{"Bengali", "৬৫", "65"},
		{"Tamil", "௪௨", "42"},
		{"Devanagari out of range", "१२१", ""},
	}
	for _, tc := range cases {
		w := New(translate.NewMockTranslator(), false)
		if err := w.Next(ctx, "Asha"); err != nil {
			t.Fatalf("Next(name) error = %v", err)
		}
		err := w.Next(ctx, tc.answer)
		if tc.want == "" {
			var ageErr *AgeError
			if !errors.As(err, &ageErr) {
				t.Errorf("%s: Next(%q) error = %v, want *AgeError", tc.script, tc.answer, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: Next(%q) error = %v", tc.script, tc.answer, err)
			continue
		}
		if got := w.Profile().Age; got != tc.want {
			t.Errorf("%s: age = %q, want %q", tc.script, got, tc.want)
		}
	}
}

func TestWizardPreviousClampsAtFirstQuestion(t *testing.T) {
	w := New(translate.NewMockTranslator(), false)
	w.Previous()
	if w.Step() != 0 {
		t.Fatalf("step = %d, want 0", w.Step())
	}

	if err := w.Next(context.Background(), "Asha"); err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	w.Previous()
	if w.Step() != 0 {
		t.Fatalf("step = %d, want 0 after Previous", w.Step())
	}
}

func TestWizardPreviousReopensLastQuestionFromSummary(t *testing.T) {
	ctx := context.Background()
	w := New(translate.NewMockTranslator(), false)
	for _, answer := range answers() {
		if err := w.Next(ctx, answer); err != nil {
			t.Fatalf("Next() error = %v", err)
		}
	}

	w.Previous()
	if w.State() != StateRegistering || w.Step() != len(profile.Questions)-1 {
		t.Fatalf("state = %v step = %d, want registering at last question", w.State(), w.Step())
	}
}

func TestWizardExistingUserSkipsFlow(t *testing.T) {
	w := New(translate.NewMockTranslator(), true)
	if w.State() != StateComplete {
		t.Fatalf("state = %v, want StateComplete", w.State())
	}
	if err := w.Next(context.Background(), "anything"); !errors.Is(err, ErrNotRegistering) {
		t.Fatalf("Next() error = %v, want ErrNotRegistering", err)
	}
}

func TestWizardConfirmPersistsFactStatements(t *testing.T) {
	ctx := context.Background()
	w := New(translate.NewMockTranslator(), false)
	for _, answer := range answers() {
		if err := w.Next(ctx, answer); err != nil {
			t.Fatalf("Next() error = %v", err)
		}
	}

	store := newStubStore()
	if err := w.Confirm(ctx, store, "asha_k"); err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if w.State() != StateComplete {
		t.Fatalf("state = %v, want StateComplete", w.State())
	}
	turns := store.added["asha_k"]
	if len(turns) != 8 {
		t.Fatalf("persisted %d turns, want 8", len(turns))
	}
	if turns[0].Content != "My name is Asha Kumar." {
		t.Fatalf("first fact = %q", turns[0].Content)
	}
}

func TestWizardConfirmStaysConfirmingOnStorageFailure(t *testing.T) {
	ctx := context.Background()
	w := New(translate.NewMockTranslator(), false)
	for _, answer := range answers() {
		if err := w.Next(ctx, answer); err != nil {
			t.Fatalf("Next() error = %v", err)
		}
	}

	store := newStubStore()
	store.addErr = errors.New("service unavailable")
	if err := w.Confirm(ctx, store, "asha_k"); err == nil {
		t.Fatalf("Confirm() should surface storage failure")
	}
	if w.State() != StateConfirming {
		t.Fatalf("state = %v, want StateConfirming after failure", w.State())
	}

	store.addErr = nil
	if err := w.Confirm(ctx, store, "asha_k"); err != nil {
		t.Fatalf("retry Confirm() error = %v", err)
	}
	if w.State() != StateComplete {
		t.Fatalf("state = %v, want StateComplete after retry", w.State())
	}
}

func TestWizardResetClearsAnswers(t *testing.T) {
	ctx := context.Background()
	w := New(translate.NewMockTranslator(), false)
	if err := w.Next(ctx, "Asha"); err != nil {
		t.Fatalf("Next() error = %v", err)
	}

	w.Reset()
	if w.Step() != 0 || w.State() != StateRegistering {
		t.Fatalf("reset left step=%d state=%v", w.Step(), w.State())
	}
	if w.Profile().Name != "" {
		t.Fatalf("reset kept profile name %q", w.Profile().Name)
	}
}
