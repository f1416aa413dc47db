package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/notehub/internal/keymap"
	"github.com/marcus/notehub/internal/mouse"
	"github.com/marcus/notehub/internal/plugin"
	"github.com/marcus/notehub/internal/router"
	"github.com/marcus/notehub/internal/styles"
	"github.com/marcus/notehub/internal/ui"
)

const (
	headerHeight = 2 // header line + spacing
	footerHeight = 1
	minWidth     = 60
	minHeight    = 16

	notFoundTitle   = "404 - Page not found"
	notFoundMessage = "Sorry, the page you are looking for does not exist."
)

// View renders the entire application UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	// Show warning if terminal is too small
	if m.width < minWidth || m.height < minHeight {
		msg := fmt.Sprintf("Terminal too small (%dx%d)\nMinimum: %dx%d",
			m.width, m.height, minWidth, minHeight)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			styles.StatusBlocked.Render(msg))
	}

	// Calculate content area
	contentHeight := m.height - headerHeight
	if m.showFooter {
		contentHeight -= footerHeight
	}
	contentHeight = max(contentHeight, 0)

	// Build layout
	var b strings.Builder

	// Header
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString("\n") // spacing between header and content

	// Main content
	b.WriteString(m.renderContent(m.width, contentHeight))

	// Footer (optional)
	if m.showFooter {
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
	}

	// Overlay modals (priority order via activeModal)
	bg := b.String()
	switch m.activeModal() {
	case ModalQuitConfirm:
		return m.renderQuitConfirmOverlay(bg)
	case ModalHelp:
		return m.renderHelpOverlay(bg)
	case ModalDiagnostics:
		return m.renderDiagnosticsModal(bg)
	}
	return bg
}

// openQuitConfirm shows the quit confirmation dialog.
func (m *Model) openQuitConfirm() {
	d := ui.NewConfirmDialog("Quit notehub?", "Your unsaved draft is kept for next time.")
	d.ConfirmLabel = " Quit "
	d.Width = ui.ModalWidthSmall + 4
	m.quitModal = d.ToModal()
	m.quitMouseHandler = mouse.NewHandler()
	m.showQuitConfirm = true
	m.updateContext()
}

// renderQuitConfirmOverlay renders the quit confirmation modal.
func (m Model) renderQuitConfirmOverlay(content string) string {
	if m.quitModal == nil {
		return content
	}
	modalContent := m.quitModal.Render(m.width, m.height, m.quitMouseHandler)
	return ui.OverlayModal(content, modalContent, m.width, m.height)
}

// renderHeader renders the top bar with the title, the route and the clock.
func (m Model) renderHeader() string {
	title := styles.BarTitle.Render(" NoteHub")
	route := styles.BarText.Render(m.history.Current().Path)
	clock := styles.BarText.Render(m.clock.Format("15:04") + " ")

	spacing := m.width - lipgloss.Width(title) - lipgloss.Width(route) - lipgloss.Width(clock)
	if spacing < 2 {
		route = ""
		spacing = max(0, m.width-lipgloss.Width(title)-lipgloss.Width(clock))
	}

	header := title + strings.Repeat(" ", spacing/2) + route + strings.Repeat(" ", spacing-(spacing/2)) + clock
	return styles.Header.Width(m.width).MaxWidth(m.width).Render(header)
}

// renderContent renders the main content area.
func (m Model) renderContent(width, height int) string {
	if height == 0 {
		return ""
	}
	if m.history.Current().Kind == router.KindNotFound {
		return m.renderNotFound(width, height)
	}

	p := m.ActivePlugin()
	if p == nil {
		msg := "No views loaded"
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, styles.Muted.Render(msg))
	}

	content := p.View(width, height)
	// MaxHeight truncates content taller than the area so the header
	// stays on screen.
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(content)
}

// renderNotFound renders the screen for unknown routes.
func (m Model) renderNotFound(width, height int) string {
	var b strings.Builder
	b.WriteString(styles.ModalTitle.Render(notFoundTitle))
	b.WriteString("\n")
	b.WriteString(styles.Body.Render(notFoundMessage))
	b.WriteString("\n\n")
	b.WriteString(styles.Muted.Render(m.history.Current().Path))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Align(lipgloss.Center).Render(b.String()))
}

// renderFooter renders the bottom bar with key hints and status.
func (m Model) renderFooter() string {
	// Toast/status message
	var status string
	if m.statusMsg != "" {
		toastStyle := styles.ToastSuccess
		if m.statusIsError {
			toastStyle = styles.ToastError
		}
		status = toastStyle.Render(m.statusMsg)
	}

	// Last refresh
	refresh := styles.Muted.Render(fmt.Sprintf("↻ %s", m.lastRefresh.Format("15:04:05")))

	// Calculate available width for hints (leave room for status, refresh, and spacing)
	statusWidth := lipgloss.Width(status)
	refreshWidth := lipgloss.Width(refresh)
	minSpacing := 4
	availableForHints := m.width - statusWidth - refreshWidth - minSpacing

	// Key hints (context-aware) - truncate to fit
	hintsStr := renderHintLineTruncated(m.footerHints(), availableForHints)

	hintsWidth := lipgloss.Width(hintsStr)
	spacing := max(0, m.width-hintsWidth-statusWidth-refreshWidth)

	footer := hintsStr + strings.Repeat(" ", spacing/2) + status + strings.Repeat(" ", spacing-(spacing/2)) + refresh

	// MaxWidth keeps the footer on one line
	return styles.Footer.Width(m.width).MaxWidth(m.width).Render(footer)
}

type footerHint struct {
	keys  string
	label string
}

func (m Model) footerHints() []footerHint {
	var hints []footerHint
	if m.activeContext == keymap.ContextNotFound {
		keysByCmd := bindingKeysByCommand(m.keymap.BindingsForContext(keymap.ContextNotFound))
		for _, spec := range []struct{ id, label string }{{"back", "back"}, {"home", "home"}} {
			if keys := keysByCmd[spec.id]; len(keys) > 0 {
				hints = append(hints, footerHint{keys: keys[0], label: spec.label})
			}
		}
	} else if p := m.ActivePlugin(); p != nil {
		// Plugin hints first
		hints = m.pluginFooterHints(p, m.activeContext)
	}
	return append(hints, m.globalFooterHints()...)
}

func (m Model) globalFooterHints() []footerHint {
	keysByCmd := bindingKeysByCommand(m.keymap.BindingsForContext(keymap.GlobalContext))

	specs := []struct {
		id    string
		label string
	}{
		{id: "toggle-help", label: "help"},
		{id: "quit", label: "quit"},
	}

	var hints []footerHint
	for _, spec := range specs {
		keys := keysByCmd[spec.id]
		if len(keys) == 0 {
			continue
		}
		hints = append(hints, footerHint{keys: keys[0], label: spec.label})
	}
	return hints
}

func (m Model) pluginFooterHints(p plugin.Plugin, context string) []footerHint {
	if context == "" || context == keymap.GlobalContext {
		return nil
	}

	keysByCmd := bindingKeysByCommand(m.keymap.BindingsForContext(context))

	type cmdWithPriority struct {
		cmd      plugin.Command
		keys     []string
		priority int
	}

	var cmds []cmdWithPriority
	for _, cmd := range p.Commands() {
		if cmd.Context != context {
			continue
		}
		keys := keysByCmd[cmd.ID]
		if len(keys) == 0 {
			continue
		}
		priority := cmd.Priority
		if priority == 0 {
			priority = 99
		}
		cmds = append(cmds, cmdWithPriority{cmd, keys, priority})
	}

	// Lower priority value is shown first
	sort.SliceStable(cmds, func(i, j int) bool {
		return cmds[i].priority < cmds[j].priority
	})

	hints := make([]footerHint, 0, len(cmds))
	for _, c := range cmds {
		hints = append(hints, footerHint{
			keys:  formatBindingKeys(c.keys),
			label: c.cmd.Name,
		})
	}
	return hints
}

func bindingKeysByCommand(bindings []keymap.Binding) map[string][]string {
	keysByCmd := make(map[string][]string, len(bindings))
	for _, b := range bindings {
		keysByCmd[b.Command] = append(keysByCmd[b.Command], b.Key)
	}
	return keysByCmd
}

// renderHintLineTruncated renders hints but stops adding when maxWidth is exceeded.
func renderHintLineTruncated(hints []footerHint, maxWidth int) string {
	if len(hints) == 0 || maxWidth <= 0 {
		return ""
	}
	var result string
	separator := "  "
	for _, hint := range hints {
		if hint.keys == "" || hint.label == "" {
			continue
		}
		part := fmt.Sprintf("%s %s", styles.KeyHint.Render(hint.keys), hint.label)
		candidate := part
		if result != "" {
			candidate = result + separator + part
		}
		if lipgloss.Width(candidate) > maxWidth {
			break
		}
		result = candidate
	}
	return result
}

// renderHelpOverlay renders the help modal over content.
func (m Model) renderHelpOverlay(content string) string {
	help := m.buildHelpContent()
	modal := styles.ModalBox.Render(help)
	return ui.OverlayModal(content, modal, m.width, m.height)
}

// buildHelpContent creates the help modal content.
func (m Model) buildHelpContent() string {
	var b strings.Builder

	b.WriteString(styles.ModalTitle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	b.WriteString(styles.Title.Render("Global"))
	b.WriteString("\n")
	m.renderBindingSection(&b, keymap.GlobalContext)
	b.WriteString("\n")

	// Bindings of the view under the help overlay
	ctx := keymap.ContextNotFound
	name := "Not found"
	if m.history.Current().Kind != router.KindNotFound {
		if p := m.ActivePlugin(); p != nil {
			ctx, name = p.FocusContext(), p.Name()
		}
	}
	if len(m.keymap.BindingsForContext(ctx)) > 0 {
		b.WriteString(styles.Title.Render(name))
		b.WriteString("\n")
		m.renderBindingSection(&b, ctx)
		b.WriteString("\n")
	}

	b.WriteString(styles.Subtle.Render("Press ? or esc to close"))
	return b.String()
}

// renderBindingSection renders bindings for a context, one line per command.
func (m Model) renderBindingSection(b *strings.Builder, context string) {
	bindings := m.keymap.BindingsForContext(context)
	keysByCmd := bindingKeysByCommand(bindings)

	seen := make(map[string]bool)
	for _, binding := range bindings {
		if seen[binding.Command] {
			continue
		}
		seen[binding.Command] = true

		keyStr := formatBindingKeys(keysByCmd[binding.Command])
		padded := fmt.Sprintf("%-11s", keyStr)
		fmt.Fprintf(b, "  %s %s\n", styles.Muted.Render(padded), formatCommandName(binding.Command))
	}
}

// formatBindingKeys formats multiple keys into a display string.
func formatBindingKeys(keys []string) string {
	if len(keys) > 2 {
		keys = keys[:2]
	}
	return strings.Join(keys, ", ")
}

// formatCommandName converts a command ID to a display name.
func formatCommandName(cmd string) string {
	return strings.ReplaceAll(cmd, "-", " ")
}
