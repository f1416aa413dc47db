package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/marcus/notehub/internal/modal"
	"github.com/marcus/notehub/internal/plugin"
	"github.com/marcus/notehub/internal/styles"
	"github.com/marcus/notehub/internal/ui"
)

// diagnosticsModal builds the diagnostics modal from the current state.
// Only the mouse handler persists between frames.
func (m *Model) diagnosticsModal() *modal.Modal {
	modalW := min(ui.ModalWidthMedium+5, m.width-4)
	modalW = max(modalW, 20)

	return modal.New("NoteHub",
		modal.WithWidth(modalW),
		modal.WithHints(false),
	).
		AddSection(m.diagnosticsPluginsSection()).
		AddSection(modal.Spacer()).
		AddSection(m.diagnosticsSystemSection()).
		AddSection(m.diagnosticsErrorSection()).
		AddSection(modal.Spacer()).
		AddSection(modal.StyledText("Press ! or esc to close", styles.Subtle))
}

func statusIcon(status string) string {
	switch status {
	case "ok":
		return styles.StatusCompleted.Render("•")
	case "warning", "degraded":
		return styles.StatusModified.Render("•")
	case "error":
		return styles.StatusBlocked.Render("•")
	}
	return styles.Muted.Render("•")
}

// diagnosticsPluginsSection renders the views and their health checks.
func (m *Model) diagnosticsPluginsSection() modal.Section {
	return modal.Custom(func(contentWidth int, focusID, hoverID string) modal.RenderedSection {
		var b strings.Builder
		b.WriteString(styles.Title.Render("Views"))
		b.WriteString("\n")

		plugins := m.registry.Plugins()
		for _, p := range plugins {
			fmt.Fprintf(&b, "  %s %s: active\n", styles.StatusCompleted.Render("✓"), p.Name())
			if dp, ok := p.(plugin.DiagnosticProvider); ok {
				for _, d := range dp.Diagnostics() {
					label := fmt.Sprintf("%-6s %s", d.ID, d.Status)
					detail := ui.Truncate(d.Detail, max(0, contentWidth-7-len(label)))
					fmt.Fprintf(&b, "    %s %s %s\n", statusIcon(d.Status), label, styles.Muted.Render(detail))
				}
			}
		}

		unavail := m.registry.Unavailable()
		ids := make([]string, 0, len(unavail))
		for id := range unavail {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Fprintf(&b, "  %s %s: %s\n", styles.StatusBlocked.Render("✗"), id, unavail[id])
		}

		if len(plugins) == 0 && len(unavail) == 0 {
			b.WriteString(styles.Muted.Render("  No views registered\n"))
		}

		return modal.RenderedSection{Content: strings.TrimSuffix(b.String(), "\n")}
	}, nil)
}

// diagnosticsSystemSection renders endpoint, storage and version info.
func (m *Model) diagnosticsSystemSection() modal.Section {
	return modal.Custom(func(contentWidth int, focusID, hoverID string) modal.RenderedSection {
		var b strings.Builder
		b.WriteString(styles.Title.Render("System"))
		b.WriteString("\n")
		fmt.Fprintf(&b, "  API:     %s\n", styles.Muted.Render(ui.Truncate(m.apiURL, contentWidth-11)))
		fmt.Fprintf(&b, "  Storage: %s\n", styles.Muted.Render(m.storageBackend))
		fmt.Fprintf(&b, "  Refresh: %s\n", styles.Muted.Render(m.lastRefresh.Format("15:04:05")))
		fmt.Fprintf(&b, "  Version: %s", styles.Muted.Render(m.currentVersion))
		return modal.RenderedSection{Content: b.String()}
	}, nil)
}

// diagnosticsErrorSection renders the last error section if present.
func (m *Model) diagnosticsErrorSection() modal.Section {
	return modal.Custom(func(contentWidth int, focusID, hoverID string) modal.RenderedSection {
		if m.lastError == nil {
			return modal.RenderedSection{}
		}
		var b strings.Builder
		b.WriteString("\n")
		b.WriteString(styles.Title.Render("Last Error"))
		b.WriteString("\n")
		b.WriteString(styles.StatusBlocked.Width(contentWidth).Render("  " + m.lastError.Error()))
		return modal.RenderedSection{Content: b.String()}
	}, nil)
}

// renderDiagnosticsModal renders the diagnostics modal.
func (m Model) renderDiagnosticsModal(content string) string {
	modalContent := m.diagnosticsModal().Render(m.width, m.height, m.diagnosticsMouseHandler)
	return ui.OverlayModal(content, modalContent, m.width, m.height)
}
