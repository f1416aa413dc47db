package modal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/notehub/internal/mouse"
	"github.com/marcus/notehub/internal/styles"
)

type renderedSection struct {
	content    string
	height     int
	focusables []FocusableInfo
}

// renderSections renders every section at contentWidth and collects the
// focusable IDs in display order. Empty sections are dropped.
func (m *Modal) renderSections(contentWidth int) ([]renderedSection, []string) {
	focusID := m.currentFocusID()
	rendered := make([]renderedSection, 0, len(m.sections))
	var focusIDs []string

	for _, s := range m.sections {
		res := s.Render(contentWidth, focusID, m.hoverID)
		h := measureHeight(res.Content)
		if h == 0 {
			continue
		}
		rendered = append(rendered, renderedSection{
			content:    res.Content,
			height:     h,
			focusables: res.Focusables,
		})
		for _, f := range res.Focusables {
			focusIDs = append(focusIDs, f.ID)
		}
	}
	return rendered, focusIDs
}

// buildLayout renders the modal box and registers hit regions:
// the full-screen backdrop first, then the body, then each visible focusable.
func (m *Modal) buildLayout(screenW, screenH int, handler *mouse.Handler) string {
	maxWidth := max(1, screenW-4)
	minWidth := min(MinModalWidth, maxWidth)
	modalWidth := clamp(m.width, minWidth, maxWidth)
	contentWidth := max(1, modalWidth-ModalPadding)

	headerLines := 0
	if m.title != "" {
		headerLines = 2 // title + margin
	}
	footerLines := 0
	if m.showHints {
		footerLines = 1
	}
	maxViewportHeight := max(1, max(1, screenH-6)-headerLines-footerLines)

	rendered, focusIDs := m.renderSections(contentWidth)
	contentHeight := totalHeight(rendered)
	needsScrollbar := contentHeight > maxViewportHeight
	if needsScrollbar && contentWidth > 1 {
		// Leave a column for the scrollbar.
		rendered, focusIDs = m.renderSections(contentWidth - 1)
		contentHeight = totalHeight(rendered)
		needsScrollbar = contentHeight > maxViewportHeight
	}
	m.focusIDs = focusIDs
	if m.focusIdx >= len(m.focusIDs) {
		m.focusIdx = 0
	}

	m.focusPositions = make(map[string]focusablePos, len(focusIDs))
	y := 0
	parts := make([]string, 0, len(rendered))
	for _, r := range rendered {
		for _, f := range r.focusables {
			m.focusPositions[f.ID] = focusablePos{y: y + f.OffsetY, height: f.Height}
		}
		y += r.height
		parts = append(parts, r.content)
	}
	fullContent := strings.Join(parts, "\n")

	viewportHeight := maxViewportHeight
	pad := true
	if contentHeight <= maxViewportHeight {
		viewportHeight = max(1, contentHeight)
		pad = false
	}
	m.lastViewportH = viewportHeight
	m.scrollOffset = clamp(m.scrollOffset, 0, max(0, contentHeight-viewportHeight))

	viewport := sliceLines(fullContent, m.scrollOffset, viewportHeight, pad)
	if needsScrollbar {
		viewport = lipgloss.JoinHorizontal(lipgloss.Top, viewport,
			renderScrollbar(contentHeight, m.scrollOffset, viewportHeight))
	}

	var inner strings.Builder
	if m.title != "" {
		inner.WriteString(renderTitleLine(m.title, m.variant))
		inner.WriteString("\n")
	}
	inner.WriteString(viewport)
	if m.showHints {
		inner.WriteString("\n")
		inner.WriteString(renderHintLine())
	}

	styled := m.modalStyle(modalWidth).Render(inner.String())
	if handler == nil {
		return styled
	}

	modalH := lipgloss.Height(styled)
	modalX := (screenW - modalWidth) / 2
	modalY := (screenH - modalH) / 2

	handler.HitMap.Clear()
	handler.HitMap.AddRect(RegionBackdrop, 0, 0, screenW, screenH, nil)
	handler.HitMap.AddRect(RegionBody, modalX, modalY, modalWidth, modalH, nil)

	contentX := modalX + 3 // border + horizontal padding
	contentY := modalY + 2 + headerLines
	sectionY := 0
	for _, r := range rendered {
		for _, f := range r.focusables {
			absY := contentY + sectionY + f.OffsetY - m.scrollOffset
			if intersectsViewport(absY, f.Height, contentY, viewportHeight) {
				handler.HitMap.AddRect(f.ID, contentX+f.OffsetX, absY, f.Width, f.Height, f.ID)
			}
		}
		sectionY += r.height
	}

	return styled
}

func totalHeight(sections []renderedSection) int {
	h := 0
	for _, r := range sections {
		h += r.height
	}
	return h
}

// renderScrollbar renders a one-column track with a proportional thumb.
func renderScrollbar(total, offset, viewportHeight int) string {
	if viewportHeight < 1 || total < 1 {
		return ""
	}
	thumb := clamp(viewportHeight*viewportHeight/total, 1, viewportHeight)
	maxOffset := max(1, total-viewportHeight)
	pos := clamp(offset*(viewportHeight-thumb)/maxOffset, 0, viewportHeight-thumb)

	track := lipgloss.NewStyle().Foreground(styles.TextSubtle).Render("│")
	bar := lipgloss.NewStyle().Foreground(styles.TextMuted).Render("┃")

	lines := make([]string, viewportHeight)
	for i := range lines {
		if i >= pos && i < pos+thumb {
			lines[i] = bar
		} else {
			lines[i] = track
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Modal) modalStyle(width int) lipgloss.Style {
	return styles.ModalBox.
		BorderForeground(variantColor(m.variant, styles.Primary)).
		Width(width)
}

func renderTitleLine(title string, variant Variant) string {
	return styles.ModalTitle.
		Foreground(variantColor(variant, styles.TextPrimary)).
		Render(title)
}

func variantColor(v Variant, fallback lipgloss.Color) lipgloss.Color {
	switch v {
	case VariantDanger:
		return styles.Error
	case VariantWarning:
		return styles.Warning
	case VariantInfo:
		return styles.Info
	}
	return fallback
}

func renderHintLine() string {
	return styles.Muted.Render("Tab to switch · Enter to confirm · Esc to cancel")
}

// measureHeight counts lines, ignoring one trailing newline.
func measureHeight(content string) int {
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return 0
	}
	return strings.Count(content, "\n") + 1
}

// sliceLines returns height lines starting at offset, padding with blank
// lines when padToHeight is set.
func sliceLines(content string, offset, height int, padToHeight bool) string {
	lines := strings.Split(content, "\n")
	if offset >= len(lines) {
		offset = max(0, len(lines)-1)
	}
	lines = lines[offset:]
	if len(lines) > height {
		lines = lines[:height]
	}
	for padToHeight && len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func intersectsViewport(y, h, viewportY, viewportH int) bool {
	return y < viewportY+viewportH && y+h > viewportY
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
