package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Truncate shortens s to at most width display cells, ending in "…" when cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// FirstLine returns s up to the first newline, with surrounding space trimmed.
func FirstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// PadRight pads s with spaces to width display cells.
func PadRight(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
