package plugin

import tea "github.com/charmbracelet/bubbletea"

// Plugin defines the interface for all notehub views.
type Plugin interface {
	ID() string
	Name() string
	Icon() string
	Init(ctx *Context) error
	Start() tea.Cmd
	Stop()
	Update(msg tea.Msg) (Plugin, tea.Cmd)
	View(width, height int) string
	IsFocused() bool
	SetFocused(bool)
	Commands() []Command
	FocusContext() string
}

// TextInputConsumer is an optional capability for plugins that need
// alphanumeric key input to be forwarded as typed text instead of being
// intercepted by app-level shortcuts.
type TextInputConsumer interface {
	ConsumesTextInput() bool
}

// Category represents a logical grouping of commands for the help view.
type Category string

const (
	CategoryNavigation Category = "Navigation"
	CategoryActions    Category = "Actions"
	CategoryView       Category = "View"
	CategorySearch     Category = "Search"
	CategoryEdit       Category = "Edit"
	CategorySystem     Category = "System"
)

// Command represents a keybinding command exposed by a plugin.
type Command struct {
	ID          string         // Unique identifier (e.g., "new-note")
	Name        string         // Short name for footer (e.g., "New")
	Description string         // Full description for help
	Category    Category       // Logical grouping for help display
	Handler     func() tea.Cmd // Action to execute (optional)
	Context     string         // Activation context
	Priority    int            // Footer display priority: 1=highest, 0=default (treated as 99)
}

// DiagnosticProvider is implemented by plugins that expose diagnostics.
type DiagnosticProvider interface {
	Diagnostics() []Diagnostic
}

// Diagnostic represents a health/status check result.
type Diagnostic struct {
	ID     string
	Status string
	Detail string
}

// PluginFocusedMsg is sent to a plugin when it becomes the active plugin.
type PluginFocusedMsg struct{}

// EpochMessage is implemented by async messages that need staleness detection.
// Messages from async operations should embed an Epoch field and implement this interface.
type EpochMessage interface {
	GetEpoch() uint64
}

// IsStale returns true if the message's epoch doesn't match the current context epoch.
// Use this in Update() handlers to discard results from a previous session:
//
//	if plugin.IsStale(p.ctx, msg) { return p, nil }
func IsStale(ctx *Context, msg EpochMessage) bool {
	return ctx != nil && msg.GetEpoch() != ctx.Epoch
}
