// Package ui provides shared rendering helpers for the TUI.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// DimStyle greys out whatever sits behind a modal. Existing ANSI codes are
// stripped first since faint does not combine reliably with colors.
var DimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

// Common modal widths.
const (
	ModalWidthSmall  = 40
	ModalWidthMedium = 50
	ModalWidthLarge  = 70
)

func maxLineWidth(lines []string) int {
	w := 0
	for _, line := range lines {
		w = max(w, ansi.StringWidth(line))
	}
	return w
}

func dimLine(s string) string {
	return DimStyle.Render(ansi.Strip(s))
}

// compositeRow returns dimmed-left + modalLine + dimmed-right for one row.
func compositeRow(bgLine, modalLine string, modalStartX, modalWidth, totalWidth int) string {
	var b strings.Builder

	plain := ansi.Strip(bgLine)
	bgWidth := ansi.StringWidth(plain)

	if modalStartX > 0 {
		left := ansi.Truncate(plain, modalStartX, "")
		b.WriteString(DimStyle.Render(left))
		if w := ansi.StringWidth(left); w < modalStartX {
			b.WriteString(strings.Repeat(" ", modalStartX-w))
		}
	}

	b.WriteString(modalLine)

	rightX := modalStartX + modalWidth
	if rightX < totalWidth && bgWidth > rightX {
		b.WriteString(DimStyle.Render(ansi.Cut(plain, rightX, bgWidth)))
	}
	return b.String()
}

// OverlayModal centers modal over a dimmed copy of background and returns
// exactly height lines.
func OverlayModal(background, modal string, width, height int) string {
	bgLines := strings.Split(background, "\n")
	modalLines := strings.Split(modal, "\n")

	modalWidth := maxLineWidth(modalLines)
	startX := max(0, (width-modalWidth)/2)
	startY := max(0, (height-len(modalLines))/2)

	out := make([]string, height)
	for y := range out {
		bg := ""
		if y < len(bgLines) {
			bg = bgLines[y]
		}
		if row := y - startY; row >= 0 && row < len(modalLines) {
			out[y] = compositeRow(bg, modalLines[row], startX, modalWidth, width)
		} else {
			out[y] = dimLine(bg)
		}
	}
	return strings.Join(out, "\n")
}
