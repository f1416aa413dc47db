package ui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

// noteList renders n rows of a 40-column notes list.
func noteList(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("%-40s", fmt.Sprintf("  Note %02d  [Todo]  buy milk and eggs", i+1))
	}
	return lines
}

var deleteDialog = []string{
	"+--------+",
	"| Delete |",
	"+--------+",
}

func plainLines(s string) []string {
	return strings.Split(ansi.Strip(s), "\n")
}

func TestOverlayModal_CentersDialogOverList(t *testing.T) {
	bg := noteList(10)
	out := plainLines(OverlayModal(strings.Join(bg, "\n"), strings.Join(deleteDialog, "\n"), 40, 10))

	if len(out) != 10 {
		t.Fatalf("lines = %d, want 10", len(out))
	}
	startX, startY := 15, 3
	for y, got := range out {
		want := bg[y]
		if row := y - startY; row >= 0 && row < len(deleteDialog) {
			want = bg[y][:startX] + deleteDialog[row] + bg[y][startX+10:]
		}
		if got != want {
			t.Errorf("row %d = %q, want %q", y, got, want)
		}
	}
}

func TestOverlayModal_PadsShortBackground(t *testing.T) {
	bg := noteList(2)
	out := plainLines(OverlayModal(strings.Join(bg, "\n"), strings.Join(deleteDialog, "\n"), 40, 12))

	if len(out) != 12 {
		t.Fatalf("lines = %d, want 12", len(out))
	}
	if out[11] != "" {
		t.Errorf("last row = %q, want empty", out[11])
	}
	// Rows past the list still place the dialog at its column.
	if want := strings.Repeat(" ", 15) + deleteDialog[1]; out[5] != want {
		t.Errorf("dialog row = %q, want %q", out[5], want)
	}
}

func TestOverlayModal_DimsStyledBackground(t *testing.T) {
	selected := "\x1b[1;35m> Note 01\x1b[0m"
	out := OverlayModal(selected, strings.Join(deleteDialog, "\n"), 40, 10)

	if strings.Contains(out, "\x1b[1;35m") {
		t.Error("background styling should be replaced by the dim style")
	}
	if first := plainLines(out)[0]; first != "> Note 01" {
		t.Errorf("first row = %q, want the stripped note row", first)
	}
}

func TestOverlayModal_WideDialogStartsAtLeftEdge(t *testing.T) {
	dialog := strings.Repeat("x", 50)
	out := plainLines(OverlayModal(strings.Join(noteList(4), "\n"), dialog, 40, 4))

	if out[1] != dialog {
		t.Errorf("row 1 = %q, want the dialog at column 0", out[1])
	}
}

func TestMaxLineWidth(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  int
	}{
		{"none", nil, 0},
		{"dialog", deleteDialog, 10},
		{"styled title", []string{"\x1b[1mNew note\x1b[0m"}, 8},
		{"wide runes", []string{"日本", "abc"}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := maxLineWidth(tt.lines); got != tt.want {
				t.Errorf("maxLineWidth = %d, want %d", got, tt.want)
			}
		})
	}
}
