package notes

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/notehub/internal/mouse"
	"github.com/marcus/notehub/internal/plugin"
	"github.com/marcus/notehub/internal/router"
)

// Mouse region identifiers
const (
	regionTag      = "tag"       // Tag bar chip (Data: tag string)
	regionSearch   = "search"    // Search input
	regionCreate   = "create"    // Create note button
	regionNoteList = "note-list" // Whole list area for scrolling
	regionNoteItem = "note-item" // One note row (Data: index on page)
	regionRetry    = "retry"     // Try again button
	regionPage     = "page"      // Page number (Data: page int)
	regionPagePrev = "page-prev" // Previous page arrow
	regionPageNext = "page-next" // Next page arrow
)

// handleMouse dispatches to the topmost overlay, or to the list.
func (p *Plugin) handleMouse(m tea.MouseMsg) (plugin.Plugin, tea.Cmd) {
	switch {
	case p.del != nil:
		return p, p.handleDeleteMouse(m)
	case p.form != nil:
		return p, p.handleFormMouse(m)
	case p.detail != nil:
		return p, p.handleDetailMouse(m)
	}

	action := p.mouseHandler.HandleMouse(m)

	switch action.Type {
	case mouse.ActionClick:
		return p, p.handleMouseClick(action)
	case mouse.ActionDoubleClick:
		return p, p.handleMouseDoubleClick(action)
	case mouse.ActionScrollUp, mouse.ActionScrollDown:
		p.handleMouseScroll(action)
	}
	return p, nil
}

func (p *Plugin) handleMouseClick(action mouse.Action) tea.Cmd {
	if action.Region == nil {
		return nil
	}

	// Any click outside the search box leaves search mode.
	if action.Region.ID != regionSearch && p.searchMode {
		p.searchMode = false
		p.searchInput.Blur()
	}

	switch action.Region.ID {
	case regionTag:
		if tag, ok := action.Region.Data.(string); ok {
			return p.switchTag(tag)
		}
	case regionSearch:
		p.searchMode = true
		return p.searchInput.Focus()
	case regionCreate:
		return router.Navigate(router.CreatePath(p.tag))
	case regionNoteItem:
		if idx, ok := action.Region.Data.(int); ok {
			p.cursor = idx
		}
	case regionRetry:
		return p.ensureList()
	case regionPage:
		if n, ok := action.Region.Data.(int); ok {
			return p.setPage(n)
		}
	case regionPagePrev:
		return p.setPage(p.page - 1)
	case regionPageNext:
		return p.setPage(p.page + 1)
	}
	return nil
}

func (p *Plugin) handleMouseDoubleClick(action mouse.Action) tea.Cmd {
	if action.Region == nil || action.Region.ID != regionNoteItem {
		return p.handleMouseClick(action)
	}
	idx, ok := action.Region.Data.(int)
	if !ok {
		return nil
	}
	p.cursor = idx
	if n := p.selectedNote(); n != nil {
		return router.Navigate(router.DetailPath(n.ID))
	}
	return nil
}

// handleMouseScroll moves the cursor one row per wheel notch.
func (p *Plugin) handleMouseScroll(action mouse.Action) {
	n := len(p.visibleNotes())
	if n == 0 {
		return
	}
	if action.Delta < 0 {
		p.cursor = max(0, p.cursor-1)
	} else {
		p.cursor = min(n-1, p.cursor+1)
	}
}
