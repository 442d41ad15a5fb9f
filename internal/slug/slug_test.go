package slug

import "testing"

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "Hello World", "hello-world"},
		{"dutch blog title", "De perfecte pubquiz samenstellen", "de-perfecte-pubquiz-samenstellen"},
		{"punctuation stripped", "Quizronde: muziek, deel 2!", "quizronde-muziek-deel-2"},
		{"already a slug", "vijf-lastige-quizvragen", "vijf-lastige-quizvragen"},
		{"mixed case", "HoReCa Tips & Tricks", "horeca-tips-tricks"},
		{"accents stripped", "Café quiz", "caf-quiz"},
		{"numbers kept", "Jaren 90 ronde", "jaren-90-ronde"},
		{"tabs and newlines collapsed", "hello\tbig\nworld", "hello-big-world"},
		{"surrounding whitespace", "  hello world  ", "hello-world"},
		{"hyphen runs collapsed", "  --hello -- world--  ", "hello-world"},
		{"empty string", "", ""},
		{"only specials", "!@#$%", ""},
		{"only hyphens", "-----", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Generating a slug from an existing slug must not change it, otherwise
// re-saving a post would silently move its URL.
func TestGenerate_Idempotent(t *testing.T) {
	for _, s := range []string{"hello-world", "quizronde-2026", "a", "123"} {
		if got := Generate(s); got != s {
			t.Errorf("Generate(%q) = %q, want unchanged", s, got)
		}
	}
}
