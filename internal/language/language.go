// Package language defines the closed set of display languages supported by
// the assistant. All internal processing (memory storage, prompt assembly)
// happens in the working language, English; the display language only affects
// what the user sees.
package language

import (
	"errors"
	"strings"
)

// ErrUnsupported is returned when a language name is outside the supported
// set.
var ErrUnsupported = errors.New("unsupported language")

// Working is the internal language used for memory storage and prompt
// assembly regardless of the selected display language.
const Working = "English"

// Supported is the fixed, ordered set of display languages.
var Supported = []string{
	"English", "Hindi", "Gujarati", "Bengali", "Tamil",
	"Telugu", "Kannada", "Malayalam", "Punjabi", "Marathi",
	"Urdu", "Assamese", "Odia", "Sanskrit",
}

var codes = map[string]string{
	"English":   "en",
	"Hindi":     "hi",
	"Gujarati":  "gu",
	"Bengali":   "bn",
	"Tamil":     "ta",
	"Telugu":    "te",
	"Kannada":   "kn",
	"Malayalam": "ml",
	"Punjabi":   "pa",
	"Marathi":   "mr",
	"Urdu":      "ur",
	"Assamese":  "as",
	"Odia":      "or",
	"Sanskrit":  "sa",
}

// Normalize maps a user-supplied language name onto the supported set.
// The second return is false when the name is not supported.
func Normalize(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, l := range Supported {
		if strings.EqualFold(l, name) {
			return l, true
		}
	}
	return "", false
}

// Code returns the ISO 639-1 code for a supported language, or "" otherwise.
func Code(name string) string {
	l, ok := Normalize(name)
	if !ok {
		return ""
	}
	return codes[l]
}

// IsWorking reports whether the given display language is the English
// working language, in which case no translation round-trip is needed.
func IsWorking(name string) bool {
	l, ok := Normalize(name)
	return ok && l == Working
}
