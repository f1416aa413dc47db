package notes

import (
	"fmt"

	"github.com/marcus/notehub/internal/plugin"
)

// Diagnostics reports cache and draft health for the diagnostics overlay.
func (p *Plugin) Diagnostics() []plugin.Diagnostic {
	diags := []plugin.Diagnostic{
		{ID: "lists", Status: "ok", Detail: fmt.Sprintf("%d cached pages", p.lists.Len())},
		{ID: "notes", Status: "ok", Detail: fmt.Sprintf("%d cached notes", p.notes.Len())},
	}

	if snap := p.snapshot(); snap.Err != nil {
		diags[0].Status = "error"
		diags[0].Detail = snap.Err.Error()
	}

	d := plugin.Diagnostic{ID: "draft", Status: "ok", Detail: "persisted"}
	if !p.draft.Persistent() {
		d.Status = "degraded"
		d.Detail = "memory only"
	}
	diags = append(diags, d)

	w := plugin.Diagnostic{ID: "watch", Status: "off"}
	if p.watchCh != nil {
		w.Status = "ok"
		w.Detail = p.draftPath
	}
	return append(diags, w)
}
