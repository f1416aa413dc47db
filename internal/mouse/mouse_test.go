package mouse

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// notesScreen registers regions the way the notes list does: the list area
// first, then one region per row, then the tag chips and page links.
func notesScreen() *Handler {
	h := NewHandler()
	h.HitMap.AddRect("note-list", 0, 4, 80, 12, nil)
	for i := range 3 {
		h.HitMap.AddRect("note-item", 0, 4+i*2, 80, 2, i)
	}
	for i, tag := range []string{"All", "Todo", "Work"} {
		h.HitMap.AddRect("tag", i*8, 0, 6, 1, tag)
	}
	h.HitMap.AddRect("page", 30, 17, 3, 1, 1)
	h.HitMap.AddRect("page", 34, 17, 3, 1, 2)
	return h
}

func leftPress(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 10, Y: 4, W: 6, H: 2}
	tests := []struct {
		x, y int
		want bool
	}{
		{10, 4, true},
		{15, 5, true},
		{16, 4, false}, // right edge is exclusive
		{10, 6, false}, // bottom edge is exclusive
		{9, 4, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
	if (Rect{X: 1, Y: 1}).Contains(1, 1) {
		t.Error("empty rect should contain nothing")
	}
}

func TestHitMap_NotesScreen(t *testing.T) {
	h := notesScreen()

	tests := []struct {
		name     string
		x, y     int
		wantID   string
		wantData any
	}{
		{"first row", 5, 4, "note-item", 0},
		{"second line of third row", 70, 9, "note-item", 2},
		{"list below the rows", 5, 12, "note-list", nil},
		{"work chip", 17, 0, "tag", "Work"},
		{"gap between chips", 7, 0, "", nil},
		{"page two", 35, 17, "page", 2},
		{"header line", 40, 2, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := h.HitMap.Test(tt.x, tt.y)
			if tt.wantID == "" {
				if r != nil {
					t.Fatalf("Test(%d,%d) = %q, want miss", tt.x, tt.y, r.ID)
				}
				return
			}
			if r == nil || r.ID != tt.wantID || r.Data != tt.wantData {
				t.Fatalf("Test(%d,%d) = %+v, want %s %v", tt.x, tt.y, r, tt.wantID, tt.wantData)
			}
		})
	}
}

func TestHitMap_ClearAndRegions(t *testing.T) {
	h := notesScreen()
	regions := h.HitMap.Regions()
	if len(regions) != 9 || regions[0].ID != "note-list" {
		t.Fatalf("regions = %d (first %q), want 9 starting with note-list", len(regions), regions[0].ID)
	}
	regions[1].ID = "changed"
	if h.HitMap.Regions()[1].ID != "note-item" {
		t.Error("Regions should return a copy")
	}

	h.HitMap.Clear()
	if len(h.HitMap.Regions()) != 0 || h.HitMap.Test(5, 4) != nil {
		t.Error("Clear should drop every region")
	}
}

func TestHandler_DoubleClickOpensRow(t *testing.T) {
	h := notesScreen()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }

	steps := []struct {
		name    string
		after   time.Duration
		x, y    int
		want    ActionType
		wantRow int
	}{
		{"select row 0", 0, 5, 4, ActionClick, 0},
		{"open row 0", 200 * time.Millisecond, 5, 5, ActionDoubleClick, 0},
		{"third click starts over", 100 * time.Millisecond, 5, 4, ActionClick, 0},
		{"other row is a new click", 100 * time.Millisecond, 5, 6, ActionClick, 1},
		{"too slow", time.Second, 5, 6, ActionClick, 1},
	}
	for _, s := range steps {
		now = now.Add(s.after)
		a := h.HandleMouse(leftPress(s.x, s.y))
		if a.Type != s.want {
			t.Fatalf("%s: type = %v, want %v", s.name, a.Type, s.want)
		}
		if a.Region == nil || a.Region.Data != s.wantRow {
			t.Fatalf("%s: region = %+v, want row %d", s.name, a.Region, s.wantRow)
		}
	}
}

func TestHandler_ClearForgetsLastClick(t *testing.T) {
	h := notesScreen()
	h.HandleMouse(leftPress(5, 4))
	h.Clear()
	h.HitMap.AddRect("note-item", 0, 4, 80, 2, 0)

	if a := h.HandleMouse(leftPress(5, 4)); a.Type != ActionClick {
		t.Errorf("type after Clear = %v, want click", a.Type)
	}
}

func TestHandleMouse_Events(t *testing.T) {
	h := notesScreen()

	tests := []struct {
		name      string
		msg       tea.MouseMsg
		wantType  ActionType
		wantID    string
		wantDelta int
	}{
		{"miss", leftPress(79, 2), ActionNone, "", 0},
		{"wheel up over list", tea.MouseMsg{X: 5, Y: 12, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp}, ActionScrollUp, "note-list", -scrollStep},
		{"wheel down over row", tea.MouseMsg{X: 5, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown}, ActionScrollDown, "note-item", scrollStep},
		{"hover chip", tea.MouseMsg{X: 9, Y: 0, Action: tea.MouseActionMotion}, ActionHover, "tag", 0},
		{"release", tea.MouseMsg{X: 5, Y: 4, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}, ActionNone, "", 0},
		{"right button", tea.MouseMsg{X: 5, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonRight}, ActionNone, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := h.HandleMouse(tt.msg)
			if a.Type != tt.wantType || a.Delta != tt.wantDelta {
				t.Fatalf("action = %+v, want type %v delta %d", a, tt.wantType, tt.wantDelta)
			}
			id := ""
			if a.Region != nil {
				id = a.Region.ID
			}
			if id != tt.wantID {
				t.Errorf("region = %q, want %q", id, tt.wantID)
			}
			if a.X != tt.msg.X || a.Y != tt.msg.Y {
				t.Errorf("position = (%d,%d), want (%d,%d)", a.X, a.Y, tt.msg.X, tt.msg.Y)
			}
		})
	}
}
