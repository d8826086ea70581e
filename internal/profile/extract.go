package profile

import (
	"strings"

	"github.com/antoniostano/sahay/internal/memory"
)

// Defaults used when no memory yields a signal.
const (
	UnknownName = "User"
	Unspecified = "Not specified"
)

// Signals are the personal details woven into the generation prompt. They are
// intentionally coarse: a name, a diabetes type and a place are enough to
// ground the answer without quoting the whole profile.
type Signals struct {
	Name         string
	DiabetesType string
	Location     string
}

// SignalsFromProfile builds signals straight from a session's profile,
// skipping the text heuristics when structured data is at hand.
func SignalsFromProfile(p *Profile) Signals {
	s := Signals{Name: UnknownName, DiabetesType: Unspecified, Location: Unspecified}
	if p == nil {
		return s
	}
	if v := strings.TrimSpace(p.Name); v != "" {
		s.Name = v
	}
	if v := strings.TrimSpace(p.DiabetesType); v != "" {
		s.DiabetesType = v
	}
	if v := strings.TrimSpace(p.Location); v != "" {
		s.Location = v
	}
	return s
}

// ExtractSignals scans retrieved memories for personal details. Later records
// win, matching how fresher memories override stale ones.
func ExtractSignals(records []memory.Record) Signals {
	s := Signals{Name: UnknownName, DiabetesType: Unspecified, Location: Unspecified}
	for _, r := range records {
		text := strings.ToLower(r.Content)
		if text == "" {
			continue
		}
		if strings.Contains(text, "name is") {
			if name := firstWordAfter(text, "name is"); name != "" {
				s.Name = capitalize(name)
			}
		}
		if strings.Contains(text, "type 1") || strings.Contains(text, "type 2") {
			if strings.Contains(text, "type 2") {
				s.DiabetesType = "Type 2"
			} else {
				s.DiabetesType = "Type 1"
			}
		}
		if strings.Contains(text, "live in") {
			if loc := clauseAfter(text, "live in"); loc != "" {
				s.Location = capitalize(loc)
			}
		}
	}
	return s
}

// firstWordAfter returns the first whitespace-delimited token following the
// last occurrence of marker, with trailing punctuation removed.
func firstWordAfter(text, marker string) string {
	idx := strings.LastIndex(text, marker)
	if idx < 0 {
		return ""
	}
	rest := strings.Fields(text[idx+len(marker):])
	if len(rest) == 0 {
		return ""
	}
	return strings.TrimRight(rest[0], ".,!?;:")
}

// clauseAfter returns everything between the last occurrence of marker and
// the next period, with any leading label punctuation dropped.
func clauseAfter(text, marker string) string {
	idx := strings.LastIndex(text, marker)
	if idx < 0 {
		return ""
	}
	clause := text[idx+len(marker):]
	if dot := strings.IndexByte(clause, '.'); dot >= 0 {
		clause = clause[:dot]
	}
	return strings.TrimSpace(strings.TrimLeft(clause, " :"))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
