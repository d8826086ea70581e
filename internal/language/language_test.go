package language

import "testing"

func TestNormalizeAcceptsAllSupported(t *testing.T) {
	if len(Supported) != 14 {
		t.Fatalf("len(Supported) = %d, want 14", len(Supported))
	}
	for _, name := range Supported {
		got, ok := Normalize(name)
		if !ok || got != name {
			t.Fatalf("Normalize(%q) = %q, %v", name, got, ok)
		}
	}
}

func TestNormalizeIsCaseInsensitive(t *testing.T) {
	got, ok := Normalize("  hindi ")
	if !ok || got != "Hindi" {
		t.Fatalf("Normalize(\"  hindi \") = %q, %v, want %q", got, ok, "Hindi")
	}
}

func TestNormalizeRejectsUnknown(t *testing.T) {
	if _, ok := Normalize("Klingon"); ok {
		t.Fatalf("Normalize(\"Klingon\") should not be supported")
	}
}

func TestCode(t *testing.T) {
	cases := map[string]string{
		"English":  "en",
		"hindi":    "hi",
		"Sanskrit": "sa",
		"Klingon":  "",
	}
	for name, want := range cases {
		if got := Code(name); got != want {
			t.Fatalf("Code(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestIsWorking(t *testing.T) {
	if !IsWorking("english") {
		t.Fatalf("IsWorking(\"english\") = false, want true")
	}
	if IsWorking("Tamil") {
		t.Fatalf("IsWorking(\"Tamil\") = true, want false")
	}
}
