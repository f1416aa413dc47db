package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/notehub/internal/keymap"
	"github.com/marcus/notehub/internal/modal"
	"github.com/marcus/notehub/internal/mouse"
	toast "github.com/marcus/notehub/internal/msg"
	"github.com/marcus/notehub/internal/plugin"
	"github.com/marcus/notehub/internal/router"
)

// Update handles all messages and returns the updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case TickMsg:
		m.clock = time.Time(msg)
		m.ClearToast()
		return m, tickCmd()

	case toast.ToastMsg:
		m.showToastMsg(msg)
		return m, nil

	case RefreshMsg:
		m.lastRefresh = m.now()
		return m.forwardActive(msg)

	case ErrorMsg:
		m.lastError = msg.Err
		m.ShowToast("Error: "+msg.Err.Error(), errorToastDuration, true)
		return m, nil

	case router.NavigateMsg:
		return m.navigate(msg)

	case router.BackMsg:
		return m.back()
	}

	// Forward other messages to all plugins so async results reach their
	// owner regardless of focus.
	return m.forward(msg)
}

// handleKeyMsg processes keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.activeModal() {
	case ModalQuitConfirm:
		return m.handleQuitConfirmKey(msg)
	case ModalHelp:
		switch cmd, _ := m.keymap.Lookup(msg.String(), keymap.ContextHelp); cmd {
		case "close":
			m.showHelp = false
			m.updateContext()
		case "quit":
			m.showHelp = false
			m.openQuitConfirm()
		}
		return m, nil
	case ModalDiagnostics:
		if cmd, _ := m.keymap.Lookup(msg.String(), keymap.ContextDiagnostics); cmd == "close" {
			m.closeDiagnostics()
		}
		return m, nil
	}

	// Text input contexts: forward all keys to the plugin except ctrl+c so
	// typing "q" or "?" into a field works.
	if p := m.ActivePlugin(); p != nil && m.Route().Kind != router.KindNotFound {
		if tc, ok := p.(plugin.TextInputConsumer); ok && tc.ConsumesTextInput() {
			if msg.String() == "ctrl+c" {
				m.openQuitConfirm()
				return m, nil
			}
			return m.forwardActive(msg)
		}
	}

	cmd, _ := m.keymap.Lookup(msg.String(), m.activeContext)
	switch cmd {
	case "quit":
		m.openQuitConfirm()
		return m, nil
	case "toggle-help":
		m.showHelp = true
		m.updateContext()
		return m, nil
	case "toggle-diagnostics":
		m.showDiagnostics = true
		m.diagnosticsMouseHandler = mouse.NewHandler()
		m.updateContext()
		return m, nil
	case "toggle-footer":
		m.showFooter = !m.showFooter
		return m, nil
	case "refresh":
		return m, Refresh()
	case "back":
		return m.back()
	case "home":
		return m.navigate(router.NavigateMsg{Path: router.Home})
	}

	if m.Route().Kind == router.KindNotFound {
		return m, nil
	}
	return m.forwardActive(msg)
}

func (m Model) handleQuitConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	action, _ := m.keymap.Lookup(msg.String(), keymap.ContextQuit)
	if action != "confirm" && action != modal.ActionCancel {
		action, _ = m.quitModal.HandleKey(msg)
	}
	return m.quitAction(action)
}

func (m Model) quitAction(action string) (tea.Model, tea.Cmd) {
	switch action {
	case "confirm":
		return m.quit()
	case modal.ActionCancel:
		m.showQuitConfirm = false
		m.quitModal = nil
		m.updateContext()
	}
	return m, nil
}

func (m *Model) closeDiagnostics() {
	m.showDiagnostics = false
	m.diagnosticsMouseHandler = nil
	m.updateContext()
}

// handleMouseMsg routes mouse input to the open modal or, shifted below
// the header, to the active plugin.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch m.activeModal() {
	case ModalQuitConfirm:
		return m.quitAction(m.quitModal.HandleMouse(msg, m.quitMouseHandler))
	case ModalDiagnostics:
		if m.diagnosticsModal().HandleMouse(msg, m.diagnosticsMouseHandler) == modal.ActionCancel {
			m.closeDiagnostics()
		}
		return m, nil
	case ModalHelp:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.showHelp = false
			m.updateContext()
		}
		return m, nil
	}

	if m.Route().Kind == router.KindNotFound || msg.Y < headerHeight {
		return m, nil
	}
	msg.Y -= headerHeight
	return m.forwardActive(msg)
}

// updateContext sets activeContext based on current state.
func (m *Model) updateContext() {
	switch m.activeModal() {
	case ModalQuitConfirm:
		m.activeContext = keymap.ContextQuit
		return
	case ModalHelp:
		m.activeContext = keymap.ContextHelp
		return
	case ModalDiagnostics:
		m.activeContext = keymap.ContextDiagnostics
		return
	}
	if m.history.Current().Kind == router.KindNotFound {
		m.activeContext = keymap.ContextNotFound
		return
	}
	if p := m.ActivePlugin(); p != nil {
		m.activeContext = p.FocusContext()
	} else {
		m.activeContext = keymap.GlobalContext
	}
}
