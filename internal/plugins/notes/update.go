package notes

import (
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/notehub/internal/app"
	"github.com/marcus/notehub/internal/keymap"
	"github.com/marcus/notehub/internal/msg"
	"github.com/marcus/notehub/internal/note"
	"github.com/marcus/notehub/internal/plugin"
	"github.com/marcus/notehub/internal/router"
)

// Update handles messages.
func (p *Plugin) Update(m tea.Msg) (plugin.Plugin, tea.Cmd) {
	switch m := m.(type) {
	case tea.WindowSizeMsg:
		p.width = m.Width
		p.height = m.Height

	case router.RouteChangedMsg:
		return p, p.applyRoute(m.Route)

	case NotesLoadedMsg:
		if plugin.IsStale(p.ctx, m) {
			return p, nil
		}
		return p, p.handleNotesLoaded(m)

	case NoteLoadedMsg:
		if plugin.IsStale(p.ctx, m) {
			return p, nil
		}
		if m.Err != nil {
			p.logger().Warn("notes: load note failed", "id", m.ID, "error", m.Err)
		}

	case NoteCreatedMsg:
		if plugin.IsStale(p.ctx, m) {
			return p, nil
		}
		return p, p.handleCreated(m)

	case NoteDeletedMsg:
		if plugin.IsStale(p.ctx, m) {
			return p, nil
		}
		return p, p.handleDeleted(m)

	case searchDebounceMsg:
		if m.ID != p.debounceID {
			return p, nil
		}
		p.debouncedSearch = p.searchInput.Value()
		return p, p.ensureList()

	case DraftChangedMsg:
		d, changed := p.draft.Reload()
		if changed && p.form != nil && p.form.state == formEditing {
			p.form.load(d)
		}
		return p, waitForDraftChange(p.watchCh)

	case draftWatchClosedMsg:
		p.watchCh = nil

	case app.RefreshMsg:
		cmds := []tea.Cmd{p.ensureList()}
		if p.detail != nil {
			cmds = append(cmds, p.ensureNote(p.detail.id))
		}
		return p, tea.Batch(cmds...)

	case plugin.PluginFocusedMsg:
		return p, p.ensureList()

	case tea.KeyMsg:
		return p.handleKey(m)

	case tea.MouseMsg:
		return p.handleMouse(m)
	}

	return p, nil
}

func (p *Plugin) handleNotesLoaded(m NotesLoadedMsg) tea.Cmd {
	if m.Err != nil {
		p.logger().Warn("notes: load failed", "key", m.Key.String(), "error", m.Err)
		return nil
	}
	if !m.Key.Equal(p.currentKey()) {
		return nil
	}
	// A result that raced a create or delete comes back stale.
	if p.snapshot().Stale {
		return p.ensureList()
	}
	// The page can disappear under us after a delete.
	if total := m.Result.TotalPages; total > 0 && p.page > total {
		p.page = total
		p.cursor = 0
		return p.ensureList()
	}
	if n := len(m.Result.Notes); p.cursor >= n {
		p.cursor = max(0, n-1)
	}
	return nil
}

func (p *Plugin) handleKey(k tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	switch {
	case p.del != nil:
		return p, p.handleDeleteKey(k)
	case p.form != nil:
		return p, p.handleFormKey(k)
	case p.detail != nil:
		return p, p.handleDetailKey(k)
	case p.searchMode:
		return p, p.handleSearchKey(k)
	}
	return p, p.handleListKey(k)
}

func (p *Plugin) handleListKey(k tea.KeyMsg) tea.Cmd {
	notes := p.visibleNotes()

	switch cmd := p.lookup(k.String(), keymap.ContextNotes); cmd {
	case "cursor-down":
		if p.cursor < len(notes)-1 {
			p.cursor++
		}
	case "cursor-up":
		if p.cursor > 0 {
			p.cursor--
		}
	case "cursor-top":
		p.cursor = 0
	case "cursor-bottom":
		p.cursor = max(0, len(notes)-1)
	case "open-note":
		if n := p.selectedNote(); n != nil {
			return router.Navigate(router.DetailPath(n.ID))
		}
	case "search":
		p.searchMode = true
		return p.searchInput.Focus()
	case "new-note":
		return router.Navigate(router.CreatePath(p.tag))
	case "delete-note":
		if n := p.selectedNote(); n != nil {
			p.openDelete(*n)
		}
	case "yank-note":
		if n := p.selectedNote(); n != nil {
			return yankNote(*n)
		}
	case "next-page":
		return p.setPage(p.page + 1)
	case "prev-page":
		return p.setPage(p.page - 1)
	case "next-tag":
		return p.cycleTag(1)
	case "prev-tag":
		return p.cycleTag(-1)
	case "retry":
		return p.ensureList()
	default:
		// tag-1 .. tag-6 select a filter by position.
		if n, ok := strings.CutPrefix(cmd, "tag-"); ok {
			tags := note.FilterTags()
			if i, err := strconv.Atoi(n); err == nil && i >= 1 && i <= len(tags) {
				return p.switchTag(tags[i-1])
			}
		}
	}
	return nil
}

// switchTag navigates to the list of tag.
func (p *Plugin) switchTag(tag string) tea.Cmd {
	if tag == p.tag {
		return nil
	}
	return router.Navigate(router.FilterPath(tag))
}

func (p *Plugin) cycleTag(delta int) tea.Cmd {
	tags := note.FilterTags()
	idx := 0
	for i, t := range tags {
		if t == p.tag {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(tags)) % len(tags)
	return p.switchTag(tags[idx])
}

func (p *Plugin) handleSearchKey(k tea.KeyMsg) tea.Cmd {
	switch p.lookup(k.String(), keymap.ContextNotesSearch) {
	case "clear-search":
		p.searchMode = false
		p.searchInput.Blur()
		if p.searchInput.Value() == "" && p.debouncedSearch == "" {
			return nil
		}
		p.searchInput.SetValue("")
		p.debouncedSearch = ""
		p.debounceID++
		p.page = 1
		p.cursor = 0
		return p.ensureList()
	case "confirm-search":
		p.searchMode = false
		p.searchInput.Blur()
		p.debounceID++
		if p.searchInput.Value() == p.debouncedSearch {
			return nil
		}
		p.debouncedSearch = p.searchInput.Value()
		return p.ensureList()
	}

	before := p.searchInput.Value()
	var cmd tea.Cmd
	p.searchInput, cmd = p.searchInput.Update(k)
	if p.searchInput.Value() == before {
		return cmd
	}
	return tea.Batch(cmd, p.onSearchInput())
}

// onSearchInput resets paging and schedules the debounce tick for the
// current text.
func (p *Plugin) onSearchInput() tea.Cmd {
	var fetch tea.Cmd
	if p.page != 1 {
		p.page = 1
		fetch = p.ensureList()
	}
	p.cursor = 0
	p.scrollY = 0
	p.debounceID++
	id := p.debounceID
	tick := tea.Tick(p.debounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{ID: id}
	})
	return tea.Batch(fetch, tick)
}

func showToast(text string) tea.Cmd {
	return msg.ShowToast(text, toastDuration)
}

func showErrorToast(text string) tea.Cmd {
	return msg.ShowErrorToast(text, 4*time.Second)
}
