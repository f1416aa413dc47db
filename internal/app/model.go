package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/notehub/internal/config"
	"github.com/marcus/notehub/internal/keymap"
	"github.com/marcus/notehub/internal/modal"
	"github.com/marcus/notehub/internal/mouse"
	toast "github.com/marcus/notehub/internal/msg"
	"github.com/marcus/notehub/internal/plugin"
	"github.com/marcus/notehub/internal/router"
)

// ModalKind identifies an app-level modal with explicit priority ordering.
// Lower values = higher priority (checked first for rendering and input routing).
type ModalKind int

const (
	ModalNone        ModalKind = iota // No modal open
	ModalQuitConfirm                  // Quit confirmation dialog
	ModalHelp                         // Help overlay
	ModalDiagnostics                  // Diagnostics info
)

// activeModal returns the highest-priority open modal.
func (m *Model) activeModal() ModalKind {
	switch {
	case m.showQuitConfirm:
		return ModalQuitConfirm
	case m.showHelp:
		return ModalHelp
	case m.showDiagnostics:
		return ModalDiagnostics
	default:
		return ModalNone
	}
}

// Options carries startup details that only the entry point knows.
type Options struct {
	Version        string
	APIURL         string
	StorageBackend string

	// InitialPath is the first route. Empty means "/".
	InitialPath string

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Model is the root Bubble Tea model for the notehub application.
type Model struct {
	// Configuration
	cfg *config.Config

	// Plugin management
	registry     *plugin.Registry
	activePlugin int

	// Keymap
	keymap        *keymap.Registry
	activeContext string

	// Routing
	history *router.History

	// UI state
	width, height   int
	showHelp        bool
	showDiagnostics bool
	showFooter      bool
	showQuitConfirm bool

	quitModal               *modal.Modal
	quitMouseHandler        *mouse.Handler
	diagnosticsMouseHandler *mouse.Handler

	// Status/toast messages
	statusMsg     string
	statusExpiry  time.Time
	statusIsError bool

	clock       time.Time
	lastRefresh time.Time
	now         func() time.Time

	// Error handling
	lastError error

	// Ready state
	ready bool

	currentVersion string
	apiURL         string
	storageBackend string
}

// New creates a new application model. The first registered plugin is
// focused.
func New(reg *plugin.Registry, km *keymap.Registry, cfg *config.Config, opts Options) Model {
	if cfg == nil {
		cfg = config.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	m := Model{
		cfg:            cfg,
		registry:       reg,
		keymap:         km,
		activeContext:  keymap.GlobalContext,
		history:        router.NewHistory(opts.InitialPath),
		showFooter:     cfg.UI.ShowFooter,
		clock:          now(),
		lastRefresh:    now(),
		now:            now,
		currentVersion: opts.Version,
		apiURL:         opts.APIURL,
		storageBackend: opts.StorageBackend,
	}
	if p := m.ActivePlugin(); p != nil {
		p.SetFocused(true)
	}
	m.updateContext()
	return m
}

// Init initializes the model and returns initial commands.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	cmds = append(cmds, m.registry.Start()...)

	// Plugins learn the starting route the same way they learn every
	// later one.
	cur := m.history.Current()
	cmds = append(cmds, func() tea.Msg {
		return router.RouteChangedMsg{Route: cur, Prev: cur}
	})
	return tea.Batch(cmds...)
}

// ActivePlugin returns the currently active plugin.
func (m Model) ActivePlugin() plugin.Plugin {
	plugins := m.registry.Plugins()
	if len(plugins) == 0 {
		return nil
	}
	if m.activePlugin >= len(plugins) {
		return plugins[0]
	}
	return plugins[m.activePlugin]
}

// Route returns the active route.
func (m Model) Route() router.Route {
	return m.history.Current()
}

// ShowToast displays a temporary status message.
func (m *Model) ShowToast(msg string, duration time.Duration, isError bool) {
	m.statusMsg = msg
	m.statusExpiry = m.now().Add(duration)
	m.statusIsError = isError
}

// ClearToast clears any expired toast message.
func (m *Model) ClearToast() {
	if m.statusMsg != "" && m.now().After(m.statusExpiry) {
		m.statusMsg = ""
		m.statusIsError = false
	}
}

func (m *Model) showToastMsg(t toast.ToastMsg) {
	d := t.Duration
	if d <= 0 {
		d = 2 * time.Second
	}
	m.ShowToast(t.Message, d, t.IsError)
}

// navigate pushes (or replaces) a route and tells the plugins.
func (m Model) navigate(nav router.NavigateMsg) (tea.Model, tea.Cmd) {
	prev := m.history.Current()
	var r router.Route
	if nav.Replace {
		r = m.history.Replace(nav.Path)
	} else {
		r = m.history.Push(nav.Path)
	}
	return m.routeChanged(r, prev)
}

// back pops the active route. On the root entry the route is replaced by
// the list it sits on, so a deep-linked overlay still closes.
func (m Model) back() (tea.Model, tea.Cmd) {
	prev := m.history.Current()
	r, err := m.history.Back()
	if err != nil {
		r = m.history.Replace(m.history.Underlying().Path)
	}
	return m.routeChanged(r, prev)
}

func (m Model) routeChanged(r, prev router.Route) (tea.Model, tea.Cmd) {
	if p := m.ActivePlugin(); p != nil {
		p.SetFocused(true)
	}
	return m.forward(router.RouteChangedMsg{Route: r, Prev: prev})
}

// forward sends msg to every plugin.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	plugins := m.registry.Plugins()
	for i, p := range plugins {
		newPlugin, cmd := p.Update(msg)
		plugins[i] = newPlugin
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	m.updateContext()
	return m, tea.Batch(cmds...)
}

// forwardActive sends msg to the active plugin only.
func (m Model) forwardActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	p := m.ActivePlugin()
	if p == nil {
		return m, nil
	}
	newPlugin, cmd := p.Update(msg)
	plugins := m.registry.Plugins()
	if m.activePlugin < len(plugins) {
		plugins[m.activePlugin] = newPlugin
	}
	m.updateContext()
	return m, cmd
}

// quit stops the plugins and ends the program.
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.registry.Stop()
	return m, tea.Quit
}
