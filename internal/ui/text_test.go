package ui

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "milk", 10, "milk"},
		{"cut", "buy oat milk", 7, "buy oa…"},
		{"wide runes", "日本語のノート", 5, "日本…"},
		{"zero width", "milk", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.width); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestFirstLine(t *testing.T) {
	if got := FirstLine("  first \nsecond"); got != "first" {
		t.Errorf("FirstLine = %q, want %q", got, "first")
	}
	if got := FirstLine("only"); got != "only" {
		t.Errorf("FirstLine = %q, want %q", got, "only")
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 4); got != "ab  " {
		t.Errorf("PadRight = %q", got)
	}
	if got := PadRight("abcdef", 4); got != "abcdef" {
		t.Errorf("PadRight should not cut, got %q", got)
	}
}
