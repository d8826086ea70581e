// Package wizard drives the step-by-step registration flow for new users.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/antoniostano/sahay/internal/memory"
	"github.com/antoniostano/sahay/internal/profile"
	"github.com/antoniostano/sahay/internal/translate"
)

// State tracks where a user is in the registration flow.
type State int

const (
	// StateRegistering means the wizard is collecting answers.
	StateRegistering State = iota
	// StateConfirming means all answers are in and the summary is shown.
	StateConfirming
	// StateComplete means the profile has been persisted.
	StateComplete
)

const (
	minAge = 1
	maxAge = 120
)

var (
	// ErrEmptyAnswer is returned when Next is called with a blank answer.
	ErrEmptyAnswer = errors.New("answer must not be empty")
	// ErrNotRegistering is returned when an answer arrives outside the
	// collection phase.
	ErrNotRegistering = errors.New("registration is not collecting answers")
	// ErrNotConfirming is returned when Confirm is called before all
	// answers are collected.
	ErrNotConfirming = errors.New("registration is not awaiting confirmation")
)

// AgeError reports an out-of-range or non-numeric age answer.
type AgeError struct {
	Answer string
}

func (e *AgeError) Error() string {
	return fmt.Sprintf("age %q must be a number between %d and %d", e.Answer, minAge, maxAge)
}

// Wizard collects a health profile one question at a time. Answers given in
// any supported language are normalized to the working language before they
// are stored. A Wizard is not safe for concurrent use; the session layer
// serializes access.
type Wizard struct {
	translator translate.Translator
	state      State
	step       int
	profile    profile.Profile
}

// New returns a wizard at the first question. Existing users skip the flow
// entirely, landing directly in the complete state.
func New(translator translate.Translator, existingUser bool) *Wizard {
	w := &Wizard{translator: translator}
	if existingUser {
		w.state = StateComplete
		w.step = len(profile.Questions)
	}
	return w
}

func (w *Wizard) State() State { return w.state }

// Step returns the zero-based index of the current question.
func (w *Wizard) Step() int { return w.step }

// TotalSteps returns the number of registration questions.
func (w *Wizard) TotalSteps() int { return len(profile.Questions) }

// Question returns the current question, or false when the collection phase
// is over.
func (w *Wizard) Question() (profile.Question, bool) {
	if w.state != StateRegistering || w.step >= len(profile.Questions) {
		return profile.Question{}, false
	}
	return profile.Questions[w.step], true
}

// Profile returns the answers collected so far.
func (w *Wizard) Profile() *profile.Profile { return &w.profile }

// Next records an answer for the current question and advances. Non-working-
// language answers are translated before storage so the profile is uniform.
// After the last question the wizard moves to the confirming state.
func (w *Wizard) Next(ctx context.Context, answer string) error {
	if w.state != StateRegistering {
		return ErrNotRegistering
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return ErrEmptyAnswer
	}

	q := profile.Questions[w.step]
	if q.Input == profile.InputNumber {
		n, err := strconv.Atoi(asciiDigits(answer))
		if err != nil || n < minAge || n > maxAge {
			return &AgeError{Answer: answer}
		}
		answer = strconv.Itoa(n)
	} else {
		answer, _ = translate.ToWorking(ctx, w.translator, answer)
		answer = strings.TrimSpace(answer)
		if answer == "" {
			return ErrEmptyAnswer
		}
	}

	w.profile.SetField(q.Key, answer)
	w.step++
	if w.step >= len(profile.Questions) {
		w.state = StateConfirming
	}
	return nil
}

// asciiDigits maps decimal digits from other scripts onto 0-9 so an age
// typed in Devanagari or Bengali numerals still parses. Unicode decimal
// digits sit in contiguous runs of ten, so walking down to the start of the
// run gives the digit's value.
func asciiDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || !unicode.IsDigit(r) {
			return r
		}
		zero := r
		for r-zero < 9 && unicode.IsDigit(zero-1) {
			zero--
		}
		return '0' + (r - zero)
	}, s)
}

// Previous moves back one question. At the first question it is a no-op.
// From the confirmation screen it reopens the last question.
func (w *Wizard) Previous() {
	switch w.state {
	case StateRegistering:
		if w.step > 0 {
			w.step--
		}
	case StateConfirming:
		w.state = StateRegistering
		w.step = len(profile.Questions) - 1
	}
}

// Confirm persists the collected profile as fact statements. On storage
// failure the wizard stays in the confirming state so the user can retry.
func (w *Wizard) Confirm(ctx context.Context, store memory.Store, userID string) error {
	if w.state != StateConfirming {
		return ErrNotConfirming
	}
	if err := store.AddTurns(ctx, userID, w.profile.FactStatements()); err != nil {
		return fmt.Errorf("persist profile: %w", err)
	}
	w.state = StateComplete
	return nil
}

// Reset discards all answers and restarts at the first question.
func (w *Wizard) Reset() {
	w.state = StateRegistering
	w.step = 0
	w.profile = profile.Profile{}
}
