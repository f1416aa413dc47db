// Package keymap maps key strings to command IDs per focus context.
package keymap

import (
	"sort"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// GlobalContext is consulted after the active context.
const GlobalContext = "global"

// Binding binds a key to a command in a context.
type Binding struct {
	Key     string
	Command string
	Context string
}

// Command is a named action with an optional handler.
type Command struct {
	ID      string
	Name    string
	Context string
	Handler func() tea.Cmd
}

// Registry holds bindings and commands. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	bindings  map[string][]Binding // context -> bindings in registration order
	commands  map[string]Command
	overrides map[string]string // key -> command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		bindings:  make(map[string][]Binding),
		commands:  make(map[string]Command),
		overrides: make(map[string]string),
	}
}

// RegisterBinding adds b. A later binding for the same key and context
// replaces the earlier one.
func (r *Registry) RegisterBinding(b Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.bindings[b.Context]
	for i, existing := range list {
		if existing.Key == b.Key {
			list[i] = b
			return
		}
	}
	r.bindings[b.Context] = append(list, b)
}

// RegisterPluginBinding is a shorthand for plugins registering in Init.
func (r *Registry) RegisterPluginBinding(key, command, context string) {
	r.RegisterBinding(Binding{Key: key, Command: command, Context: context})
}

// RegisterCommand adds or replaces a command.
func (r *Registry) RegisterCommand(c Command) {
	r.mu.Lock()
	r.commands[c.ID] = c
	r.mu.Unlock()
}

// GetCommand looks up a command by ID.
func (r *Registry) GetCommand(id string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.commands[id]
	return c, ok
}

// SetUserOverride rebinds key to command. The binding is added to every
// context that already binds command, or to the global context if none do.
// Any previous key for the command in those contexts is dropped.
func (r *Registry) SetUserOverride(key, command string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.overrides[key] = command
	found := false
	for ctx, list := range r.bindings {
		kept := list[:0]
		has := false
		for _, b := range list {
			if b.Command == command {
				has = true
				continue
			}
			if b.Key == key {
				continue
			}
			kept = append(kept, b)
		}
		if has {
			found = true
			kept = append(kept, Binding{Key: key, Command: command, Context: ctx})
		}
		r.bindings[ctx] = kept
	}
	if !found {
		r.bindings[GlobalContext] = append(r.bindings[GlobalContext],
			Binding{Key: key, Command: command, Context: GlobalContext})
	}
}

// ApplyOverrides calls SetUserOverride for each entry, in key order.
func (r *Registry) ApplyOverrides(overrides map[string]string) {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r.SetUserOverride(k, overrides[k])
	}
}

// Lookup returns the command bound to key in context, falling back to the
// global context.
func (r *Registry) Lookup(key, context string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ctx := range []string{context, GlobalContext} {
		for _, b := range r.bindings[ctx] {
			if b.Key == key {
				return b.Command, true
			}
		}
	}
	return "", false
}

// Handle runs the handler of the command bound to msg in context. It
// returns nil when nothing is bound or the command has no handler.
func (r *Registry) Handle(msg tea.KeyMsg, context string) tea.Cmd {
	id, ok := r.Lookup(msg.String(), context)
	if !ok {
		return nil
	}
	c, ok := r.GetCommand(id)
	if !ok || c.Handler == nil {
		return nil
	}
	return c.Handler()
}

// BindingsForContext returns a copy of the bindings registered for context.
func (r *Registry) BindingsForContext(context string) []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Binding, len(r.bindings[context]))
	copy(out, r.bindings[context])
	return out
}

// KeysForCommand returns the keys bound to command in context.
func (r *Registry) KeysForCommand(command, context string) []string {
	var keys []string
	for _, b := range r.BindingsForContext(context) {
		if b.Command == command {
			keys = append(keys, b.Key)
		}
	}
	return keys
}
