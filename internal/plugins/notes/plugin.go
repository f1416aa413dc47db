package notes

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/notehub/internal/draft"
	"github.com/marcus/notehub/internal/mouse"
	"github.com/marcus/notehub/internal/note"
	"github.com/marcus/notehub/internal/notehub"
	"github.com/marcus/notehub/internal/plugin"
	"github.com/marcus/notehub/internal/query"
	"github.com/marcus/notehub/internal/router"
	"github.com/marcus/notehub/internal/styles"
)

const (
	pluginID   = "notes"
	pluginName = "notes"
	pluginIcon = "N"

	perPage = notehub.DefaultPerPage

	// DefaultSearchDebounce is how long typing must pause before the
	// search text is sent to the service.
	DefaultSearchDebounce = 300 * time.Millisecond

	toastDuration = 2 * time.Second
)

// API is the part of the notes service the plugin talks to.
type API interface {
	List(ctx context.Context, p note.ListParams) (note.ListResult, error)
	Get(ctx context.Context, id string) (note.Note, error)
	Create(ctx context.Context, in note.CreateInput) (note.Note, error)
	Delete(ctx context.Context, id string) (note.Note, error)
}

// Deps are the collaborators of the plugin.
type Deps struct {
	API   API
	Lists *query.Cache[note.ListResult]
	Notes *query.Cache[note.Note]
	Draft *draft.Store

	// Initial is the first page of the unfiltered list fetched before the
	// program started. It is seeded into Lists under the startup key.
	Initial *note.ListResult

	// DraftPath is the file watched for draft edits made by another
	// process. Empty disables watching.
	DraftPath string

	Debounce time.Duration
}

// Plugin is the notes view: tag bar, search box, paginated list and the
// create, detail and delete overlays.
type Plugin struct {
	ctx     *plugin.Context
	focused bool

	api       API
	lists     *query.Cache[note.ListResult]
	notes     *query.Cache[note.Note]
	draft     *draft.Store
	initial   *note.ListResult
	draftPath string
	debounce  time.Duration

	// View dimensions
	width  int
	height int

	route router.Route

	// List state
	tag     string
	page    int
	cursor  int
	scrollY int

	// Search state. debounceID is bumped on every keystroke; only the
	// tick carrying the latest ID commits the text.
	searchMode      bool
	searchInput     textinput.Model
	debouncedSearch string
	debounceID      int

	mouseHandler *mouse.Handler

	form   *createForm
	detail *detailView
	del    *deleteConfirm

	renderCache map[renderCacheKey]string

	watchCancel context.CancelFunc
	watchCh     <-chan struct{}
}

// New creates the notes plugin.
func New(d Deps) *Plugin {
	if d.Lists == nil {
		d.Lists = query.New[note.ListResult]()
	}
	if d.Notes == nil {
		d.Notes = query.New[note.Note]()
	}
	if d.Draft == nil {
		d.Draft = draft.New(nil, nil)
	}
	if d.Debounce <= 0 {
		d.Debounce = DefaultSearchDebounce
	}

	ti := textinput.New()
	ti.Placeholder = "Search notes"
	ti.Prompt = ""
	ti.PlaceholderStyle = styles.Muted

	return &Plugin{
		api:          d.API,
		lists:        d.Lists,
		notes:        d.Notes,
		draft:        d.Draft,
		initial:      d.Initial,
		draftPath:    d.DraftPath,
		debounce:     d.Debounce,
		tag:          note.AllTags,
		page:         1,
		searchInput:  ti,
		mouseHandler: mouse.NewHandler(),
		renderCache:  make(map[renderCacheKey]string),
	}
}

// ID returns the plugin identifier.
func (p *Plugin) ID() string { return pluginID }

// Name returns the plugin display name.
func (p *Plugin) Name() string { return pluginName }

// Icon returns the plugin icon character.
func (p *Plugin) Icon() string { return pluginIcon }

// Init initializes the plugin with context.
func (p *Plugin) Init(ctx *plugin.Context) error {
	p.ctx = ctx
	p.route = router.Parse(router.Home)
	p.cursor = 0
	p.scrollY = 0
	p.form = nil
	p.detail = nil
	p.del = nil
	p.mouseHandler.Clear()

	if p.initial != nil {
		p.lists.Seed(listKey(1, "", note.AllTags), *p.initial)
	}
	return nil
}

// Start begins watching the draft file. The list is fetched when the
// first route arrives, so only the starting filter is requested.
func (p *Plugin) Start() tea.Cmd {
	return p.startDraftWatch()
}

// Stop cleans up plugin resources.
func (p *Plugin) Stop() {
	if p.watchCancel != nil {
		p.watchCancel()
		p.watchCancel = nil
	}
	p.watchCh = nil
}

// IsFocused returns whether the plugin is focused.
func (p *Plugin) IsFocused() bool { return p.focused }

// SetFocused sets the focus state.
func (p *Plugin) SetFocused(f bool) { p.focused = f }

// ConsumesTextInput reports whether typed keys belong to an input.
func (p *Plugin) ConsumesTextInput() bool {
	return p.searchMode || p.form != nil
}

func (p *Plugin) logger() *slog.Logger {
	if p.ctx != nil && p.ctx.Logger != nil {
		return p.ctx.Logger
	}
	return slog.Default()
}

func (p *Plugin) epoch() uint64 {
	if p.ctx == nil {
		return 0
	}
	return p.ctx.Epoch
}

// lookup resolves key to a command ID in context.
func (p *Plugin) lookup(key, context string) string {
	if p.ctx == nil || p.ctx.Keymap == nil {
		return ""
	}
	cmd, _ := p.ctx.Keymap.Lookup(key, context)
	return cmd
}

// listKey is the cache key of one list page.
func listKey(page int, search, tag string) query.Key {
	return query.Key{"notes", page, search, tag}
}

// noteKey is the cache key of one note.
func noteKey(id string) query.Key {
	return query.Key{"note", id}
}

func (p *Plugin) currentKey() query.Key {
	return listKey(p.page, p.debouncedSearch, p.tag)
}

func (p *Plugin) currentParams() note.ListParams {
	return note.ListParams{
		Page:    p.page,
		PerPage: perPage,
		Search:  p.debouncedSearch,
		Tag:     note.FilterParam(p.tag),
	}
}

// snapshot returns the cache state of the current key.
func (p *Plugin) snapshot() query.Snapshot[note.ListResult] {
	return p.lists.Snapshot(p.currentKey())
}

// visibleNotes returns the notes of the current key, if loaded.
func (p *Plugin) visibleNotes() []note.Note {
	return p.snapshot().Data.Notes
}

func (p *Plugin) totalPages() int {
	return p.snapshot().Data.TotalPages
}

// selectedNote returns the note under the cursor, or nil.
func (p *Plugin) selectedNote() *note.Note {
	notes := p.visibleNotes()
	if p.cursor < 0 || p.cursor >= len(notes) {
		return nil
	}
	n := notes[p.cursor]
	return &n
}

// ensureList starts a fetch for the current key unless it is fresh or
// already in flight.
func (p *Plugin) ensureList() tea.Cmd {
	key := p.currentKey()
	if !p.lists.Start(key) {
		return nil
	}
	return p.fetchList(key, p.currentParams())
}

func (p *Plugin) fetchList(key query.Key, params note.ListParams) tea.Cmd {
	api, lists, epoch := p.api, p.lists, p.epoch()
	return func() tea.Msg {
		res, err := lists.Fetch(context.Background(), key, func(ctx context.Context) (note.ListResult, error) {
			return api.List(ctx, params)
		})
		return NotesLoadedMsg{Key: key, Result: res, Err: err, Epoch: epoch}
	}
}

// ensureNote starts a detail fetch for id unless it is fresh.
func (p *Plugin) ensureNote(id string) tea.Cmd {
	key := noteKey(id)
	if !p.notes.Start(key) {
		return nil
	}
	api, notes, epoch := p.api, p.notes, p.epoch()
	return func() tea.Msg {
		n, err := notes.Fetch(context.Background(), key, func(ctx context.Context) (note.Note, error) {
			return api.Get(ctx, id)
		})
		return NoteLoadedMsg{ID: id, Note: n, Err: err, Epoch: epoch}
	}
}

// resetFilter switches to tag and drops the page, search text and any
// pending debounce.
func (p *Plugin) resetFilter(tag string) {
	p.tag = tag
	p.page = 1
	p.cursor = 0
	p.scrollY = 0
	p.searchMode = false
	p.searchInput.SetValue("")
	p.searchInput.Blur()
	p.debouncedSearch = ""
	p.debounceID++
}

// setPage moves to page n within the known page range.
func (p *Plugin) setPage(n int) tea.Cmd {
	total := p.totalPages()
	if n < 1 || (total > 0 && n > total) || n == p.page {
		return nil
	}
	p.page = n
	p.cursor = 0
	p.scrollY = 0
	return p.ensureList()
}

// applyRoute syncs the view with a route change.
func (p *Plugin) applyRoute(r router.Route) tea.Cmd {
	p.route = r
	var cmds []tea.Cmd

	switch r.Kind {
	case router.KindList, router.KindCreate:
		if r.Tag != p.tag {
			p.resetFilter(r.Tag)
		}
		p.detail = nil
		if r.Kind == router.KindCreate {
			if p.form == nil {
				p.openForm()
			}
		} else {
			p.form = nil
		}
	case router.KindDetail:
		p.form = nil
		if p.detail == nil || p.detail.id != r.ID {
			p.openDetail(r.ID)
		}
		cmds = append(cmds, p.ensureNote(r.ID))
	default:
		p.form = nil
		p.detail = nil
		p.del = nil
	}

	cmds = append(cmds, p.ensureList())
	return tea.Batch(cmds...)
}
