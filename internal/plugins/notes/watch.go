package notes

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/notehub/internal/storage"
)

// startDraftWatch watches the draft file so edits from another notehub
// process show up in an open form.
func (p *Plugin) startDraftWatch() tea.Cmd {
	if p.draftPath == "" || p.watchCh != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := storage.Watch(ctx, p.draftPath, storage.DefaultWatchDebounce, p.logger())
	if err != nil {
		cancel()
		p.logger().Debug("notes: draft watch unavailable", "path", p.draftPath, "error", err)
		return nil
	}
	p.watchCancel = cancel
	p.watchCh = ch
	return waitForDraftChange(ch)
}

// waitForDraftChange blocks until the watcher reports a change.
func waitForDraftChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return draftWatchClosedMsg{}
		}
		return DraftChangedMsg{}
	}
}
