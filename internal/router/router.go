// Package router parses client routes and keeps the navigation history.
package router

import (
	"errors"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/notehub/internal/note"
)

// ErrNoHistory is returned by Back when there is no earlier entry.
var ErrNoHistory = errors.New("router: no earlier history entry")

// Kind classifies a parsed route.
type Kind int

const (
	KindNotFound Kind = iota
	KindList          // /notes/filter/<tag>[/...], any tag
	KindCreate        // /notes/filter/<tag>/new
	KindDetail        // /notes/<id>
)

// Home is where "/" redirects.
const Home = "/notes/filter/All"

// Route is a parsed path.
type Route struct {
	Path string
	Kind Kind
	Tag  string // filter tag for list and create routes
	ID   string // note id for detail routes
}

// FilterPath returns the list path for tag.
func FilterPath(tag string) string {
	if tag == "" {
		tag = note.AllTags
	}
	return "/notes/filter/" + url.PathEscape(tag)
}

// CreatePath returns the creation overlay path on top of the tag's list.
func CreatePath(tag string) string {
	return FilterPath(tag) + "/new"
}

// DetailPath returns the detail path for a note.
func DetailPath(id string) string {
	return "/notes/" + url.PathEscape(id)
}

// Parse resolves path into a Route. "/" and "" redirect to Home.
func Parse(path string) Route {
	if path == "" || path == "/" {
		path = Home
	}
	segs := splitPath(path)

	if len(segs) == 0 || segs[0] != "notes" {
		return Route{Path: path, Kind: KindNotFound}
	}

	if len(segs) >= 2 && segs[1] == "filter" {
		tag := note.AllTags
		if len(segs) >= 3 && segs[2] != "" {
			tag = segs[2]
		}
		r := Route{Path: path, Kind: KindList, Tag: tag}
		if len(segs) == 4 && segs[3] == "new" {
			r.Kind = KindCreate
		}
		return r
	}

	if len(segs) == 2 && segs[1] != "" {
		return Route{Path: path, Kind: KindDetail, ID: segs[1]}
	}
	return Route{Path: path, Kind: KindNotFound}
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	raw := strings.Split(path, "/")
	segs := make([]string, 0, len(raw))
	for _, s := range raw {
		if u, err := url.PathUnescape(s); err == nil {
			s = u
		}
		segs = append(segs, s)
	}
	return segs
}

// History is a stack of routes. The zero value is not usable; use
// NewHistory.
type History struct {
	stack []Route
}

// NewHistory starts a history at path.
func NewHistory(path string) *History {
	return &History{stack: []Route{Parse(path)}}
}

// Current returns the active route.
func (h *History) Current() Route {
	return h.stack[len(h.stack)-1]
}

// Push navigates to path.
func (h *History) Push(path string) Route {
	r := Parse(path)
	h.stack = append(h.stack, r)
	return r
}

// Replace swaps the active route for path.
func (h *History) Replace(path string) Route {
	r := Parse(path)
	h.stack[len(h.stack)-1] = r
	return r
}

// Back pops the active route. It fails on the root entry.
func (h *History) Back() (Route, error) {
	if len(h.stack) <= 1 {
		return h.Current(), ErrNoHistory
	}
	h.stack = h.stack[:len(h.stack)-1]
	return h.Current(), nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.stack)
}

// Underlying returns the list route an overlay sits on. For list and
// create routes it is the list of the same tag; for detail and not-found
// routes it is the nearest list route below the top of the stack.
func (h *History) Underlying() Route {
	for i := len(h.stack) - 1; i >= 0; i-- {
		r := h.stack[i]
		switch r.Kind {
		case KindList:
			return r
		case KindCreate:
			return Parse(FilterPath(r.Tag))
		}
	}
	return Parse(Home)
}

// NavigateMsg asks the app to push (or replace) a route.
type NavigateMsg struct {
	Path    string
	Replace bool
}

// BackMsg asks the app to pop the active route.
type BackMsg struct{}

// RouteChangedMsg is sent after every history change.
type RouteChangedMsg struct {
	Route Route
	Prev  Route
}

// Navigate returns a command that pushes path.
func Navigate(path string) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Path: path}
	}
}

// Redirect returns a command that replaces the active route with path.
func Redirect(path string) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Path: path, Replace: true}
	}
}

// Back returns a command that pops the active route.
func Back() tea.Cmd {
	return func() tea.Msg {
		return BackMsg{}
	}
}
