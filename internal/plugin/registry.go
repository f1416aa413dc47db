package plugin

import (
	"fmt"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Registry owns the registered plugins in display order.
type Registry struct {
	mu          sync.RWMutex
	ctx         *Context
	plugins     []Plugin
	unavailable map[string]string // plugin ID -> reason
}

// NewRegistry creates a registry that initializes plugins with ctx.
func NewRegistry(ctx *Context) *Registry {
	if ctx.Logger == nil {
		ctx.Logger = slog.Default()
	}
	return &Registry{
		ctx:         ctx,
		unavailable: make(map[string]string),
	}
}

// Context returns the shared plugin context.
func (r *Registry) Context() *Context {
	return r.ctx
}

// Register initializes p and adds it. A plugin whose Init fails or panics
// is recorded as unavailable instead of being added.
func (r *Registry) Register(p Plugin) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("plugin %s panicked during init: %v", p.ID(), rec)
		}
		if err != nil {
			r.mu.Lock()
			r.unavailable[p.ID()] = err.Error()
			r.mu.Unlock()
			r.ctx.Logger.Warn("plugin unavailable", "plugin", p.ID(), "err", err)
		}
	}()

	if err := p.Init(r.ctx); err != nil {
		return err
	}

	r.mu.Lock()
	r.plugins = append(r.plugins, p)
	r.mu.Unlock()
	return nil
}

// Plugins returns the registered plugins. The slice is shared so the app
// can store updated plugin values back into it.
func (r *Registry) Plugins() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.plugins
}

// Get returns the plugin with id.
func (r *Registry) Get(id string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.plugins {
		if p.ID() == id {
			return p, true
		}
	}
	return nil, false
}

// Unavailable returns plugins that failed to initialize, by ID.
func (r *Registry) Unavailable() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.unavailable))
	for k, v := range r.unavailable {
		out[k] = v
	}
	return out
}

// Start returns the start commands of all plugins.
func (r *Registry) Start() []tea.Cmd {
	var cmds []tea.Cmd
	for _, p := range r.Plugins() {
		if cmd := p.Start(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

// Stop stops all plugins.
func (r *Registry) Stop() {
	for _, p := range r.Plugins() {
		p.Stop()
	}
}
