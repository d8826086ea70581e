package profile

import (
	"testing"

	"github.com/antoniostano/sahay/internal/memory"
)

func TestExtractSignalsFromFactStatements(t *testing.T) {
	records := []memory.Record{
		{Role: "user", Content: "My name is Asha."},
		{Role: "user", Content: "I have Type 2 diabetes."},
		{Role: "user", Content: "I currently live in: Pune."},
	}

	s := ExtractSignals(records)
	if s.Name != "Asha" {
		t.Errorf("Name = %q, want Asha", s.Name)
	}
	if s.DiabetesType != "Type 2" {
		t.Errorf("DiabetesType = %q, want Type 2", s.DiabetesType)
	}
	if s.Location != "Pune" {
		t.Errorf("Location = %q, want Pune", s.Location)
	}
}

func TestExtractSignalsFromFreeText(t *testing.T) {
	records := []memory.Record{
		{Content: "the user's name is ravi, and they live in Mumbai. Diagnosed with type 1."},
	}

	s := ExtractSignals(records)
	if s.Name != "Ravi" {
		t.Errorf("Name = %q, want Ravi", s.Name)
	}
	if s.DiabetesType != "Type 1" {
		t.Errorf("DiabetesType = %q, want Type 1", s.DiabetesType)
	}
	if s.Location != "Mumbai" {
		t.Errorf("Location = %q, want Mumbai", s.Location)
	}
}

func TestExtractSignalsPrefersType2WhenBothPresent(t *testing.T) {
	records := []memory.Record{
		{Content: "Started as type 1, later reconsidered as type 2."},
	}
	if s := ExtractSignals(records); s.DiabetesType != "Type 2" {
		t.Errorf("DiabetesType = %q, want Type 2", s.DiabetesType)
	}
}

func TestExtractSignalsDefaults(t *testing.T) {
	s := ExtractSignals(nil)
	if s.Name != UnknownName || s.DiabetesType != Unspecified || s.Location != Unspecified {
		t.Errorf("defaults = %+v", s)
	}
}

func TestSignalsFromProfile(t *testing.T) {
	p := &Profile{Name: "Asha", DiabetesType: "Type 2", Location: "Pune"}
	s := SignalsFromProfile(p)
	if s.Name != "Asha" || s.DiabetesType != "Type 2" || s.Location != "Pune" {
		t.Errorf("signals = %+v", s)
	}

	empty := SignalsFromProfile(&Profile{})
	if empty.Name != UnknownName || empty.Location != Unspecified {
		t.Errorf("empty profile signals = %+v", empty)
	}
}

func TestFactStatementsRoundTripThroughExtractor(t *testing.T) {
	p := &Profile{
		Name:         "Asha",
		Age:          "34",
		Gender:       "Female",
		DiabetesType: "Type 2",
		Medication:   "Metformin",
		Symptoms:     "Occasional fatigue",
		Location:     "Pune",
	}

	turns := p.FactStatements()
	if len(turns) != 8 {
		t.Fatalf("len(turns) = %d, want 8", len(turns))
	}
	if turns[7].Role != "assistant" {
		t.Fatalf("last turn role = %q, want assistant", turns[7].Role)
	}

	records := make([]memory.Record, 0, len(turns))
	for _, turn := range turns {
		records = append(records, memory.Record{Role: turn.Role, Content: turn.Content})
	}

	s := ExtractSignals(records)
	if s.Name != "Asha" || s.DiabetesType != "Type 2" || s.Location != "Pune" {
		t.Errorf("signals = %+v", s)
	}
}

func TestProfileFieldAccessors(t *testing.T) {
	var p Profile
	for _, q := range Questions {
		p.SetField(q.Key, "  value for "+q.Key+"  ")
		if got := p.Field(q.Key); got != "value for "+q.Key {
			t.Errorf("Field(%q) = %q", q.Key, got)
		}
	}
	if p.DisplayName() != "value for name" {
		t.Errorf("DisplayName() = %q", p.DisplayName())
	}
	if (&Profile{}).DisplayName() != "there" {
		t.Errorf("empty DisplayName() = %q", (&Profile{}).DisplayName())
	}
}
