// Package profile holds the health profile collected during registration and
// the heuristics that recover personal signals from stored memories.
package profile

import (
	"fmt"
	"strings"

	"github.com/antoniostano/sahay/internal/memory"
)

// Profile is the health information gathered from a new user, one field per
// registration question. Values are stored in the working language.
type Profile struct {
	Name         string `json:"name"`
	Age          string `json:"age"`
	Gender       string `json:"gender"`
	DiabetesType string `json:"diabetes_type"`
	Medication   string `json:"medication"`
	Symptoms     string `json:"symptoms"`
	Location     string `json:"location"`
}

// InputType hints how a client should render an answer field.
type InputType string

const (
	InputText     InputType = "text"
	InputNumber   InputType = "number"
	InputTextArea InputType = "text_area"
)

// Question is a single registration step shown to the user.
type Question struct {
	Key         string    `json:"key"`
	Label       string    `json:"label"`
	Placeholder string    `json:"placeholder"`
	Input       InputType `json:"input_type"`
}

// Questions lists the registration steps in order.
var Questions = []Question{
	{Key: "name", Label: "What's your full name?", Placeholder: "Enter your full name", Input: InputText},
	{Key: "age", Label: "What is your age?", Placeholder: "Enter your age", Input: InputNumber},
	{Key: "gender", Label: "What is your gender?", Placeholder: "e.g., Male, Female, Other", Input: InputText},
	{Key: "diabetes_type", Label: "What type of Diabetes do you have?", Placeholder: "e.g., Type 1, Type 2, Gestational", Input: InputText},
	{Key: "medication", Label: "What medications are you currently taking?", Placeholder: "List your current medications", Input: InputTextArea},
	{Key: "symptoms", Label: "Are you experiencing any unusual symptoms?", Placeholder: "Describe any symptoms you're experiencing", Input: InputTextArea},
	{Key: "location", Label: "Where are you currently living?", Placeholder: "City, State", Input: InputText},
}

// SummaryLabels maps question keys to the captions used when the collected
// profile is shown back for confirmation.
var SummaryLabels = map[string]string{
	"name":          "Full Name",
	"age":           "Age",
	"gender":        "Gender",
	"diabetes_type": "Diabetes Type",
	"medication":    "Current Medications",
	"symptoms":      "Symptoms",
	"location":      "Location",
}

// Field returns the answer stored under a question key.
func (p *Profile) Field(key string) string {
	switch key {
	case "name":
		return p.Name
	case "age":
		return p.Age
	case "gender":
		return p.Gender
	case "diabetes_type":
		return p.DiabetesType
	case "medication":
		return p.Medication
	case "symptoms":
		return p.Symptoms
	case "location":
		return p.Location
	default:
		return ""
	}
}

// SetField stores an answer under a question key.
func (p *Profile) SetField(key, value string) {
	value = strings.TrimSpace(value)
	switch key {
	case "name":
		p.Name = value
	case "age":
		p.Age = value
	case "gender":
		p.Gender = value
	case "diabetes_type":
		p.DiabetesType = value
	case "medication":
		p.Medication = value
	case "symptoms":
		p.Symptoms = value
	case "location":
		p.Location = value
	}
}

// DisplayName returns the user's name or a friendly fallback.
func (p *Profile) DisplayName() string {
	if strings.TrimSpace(p.Name) == "" {
		return "there"
	}
	return p.Name
}

// FactStatements renders the profile as first-person statements for the
// memory store, closing with the assistant's acknowledgement. Phrasing is
// load-bearing: ExtractSignals relies on "name is", "type N" and "live in"
// appearing in these sentences.
func (p *Profile) FactStatements() []memory.Turn {
	return []memory.Turn{
		{Role: "user", Content: fmt.Sprintf("My name is %s.", p.Name)},
		{Role: "user", Content: fmt.Sprintf("I am %s years old.", p.Age)},
		{Role: "user", Content: fmt.Sprintf("I am a %s.", p.Gender)},
		{Role: "user", Content: fmt.Sprintf("I have %s diabetes.", p.DiabetesType)},
		{Role: "user", Content: fmt.Sprintf("My medications include: %s.", p.Medication)},
		{Role: "user", Content: fmt.Sprintf("My symptoms include: %s.", p.Symptoms)},
		{Role: "user", Content: fmt.Sprintf("I currently live in: %s.", p.Location)},
		{Role: "assistant", Content: fmt.Sprintf("Thanks %s, your health info is stored for personalized support.", p.Name)},
	}
}
