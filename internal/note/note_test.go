package note

import (
	"strings"
	"testing"
)

func TestCanSubmit(t *testing.T) {
	tests := []struct {
		name  string
		title string
		tag   string
		want  bool
	}{
		{"min title", "abc", "Todo", true},
		{"max title", strings.Repeat("a", 50), "Work", true},
		{"too short", "ab", "Todo", false},
		{"empty", "", "Todo", false},
		{"too long", strings.Repeat("a", 51), "Todo", false},
		{"multibyte counts runes", "ééé", "Personal", true},
		{"unknown tag", "Buy milk", "Errands", false},
		{"filter sentinel is not a tag", "Buy milk", "All", false},
		{"empty tag", "Buy milk", "", false},
		{"case sensitive tag", "Buy milk", "todo", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanSubmit(tt.title, tt.tag); got != tt.want {
				t.Errorf("CanSubmit(%q, %q) = %v, want %v", tt.title, tt.tag, got, tt.want)
			}
		})
	}
}

func TestCanSubmitIgnoresContent(t *testing.T) {
	// Content never enables or disables submission, whatever its value.
	for _, content := range []string{"", "x", strings.Repeat("y", 600)} {
		d := Draft{Title: "ab", Content: content, Tag: "Todo"}
		if CanSubmit(d.Title, d.Tag) {
			t.Errorf("content %d runes: short title should stay disabled", len(content))
		}
		d.Title = "abc"
		if !CanSubmit(d.Title, d.Tag) {
			t.Errorf("content %d runes: valid title should be enabled", len(content))
		}
	}
}

func TestCreateInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      CreateInput
		wantErr string
	}{
		{"valid", CreateInput{Title: "Buy milk", Tag: TagShopping}, ""},
		{"short title", CreateInput{Title: "ab", Tag: TagTodo}, "title must be at least 3 characters"},
		{"missing title", CreateInput{Tag: TagTodo}, "title is required"},
		{"long content", CreateInput{Title: "Buy milk", Content: strings.Repeat("c", 501), Tag: TagTodo}, "content must be at most 500 characters"},
		{"bad tag", CreateInput{Title: "Buy milk", Tag: "Errands"}, "tag must be one of Todo, Work, Personal, Meeting, Shopping"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("Validate() = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestFilterParam(t *testing.T) {
	if got := FilterParam("All"); got != "" {
		t.Errorf("FilterParam(All) = %q", got)
	}
	if got := FilterParam(""); got != "" {
		t.Errorf("FilterParam(\"\") = %q", got)
	}
	if got := FilterParam("Work"); got != "Work" {
		t.Errorf("FilterParam(Work) = %q", got)
	}
}

func TestDefaultDraft(t *testing.T) {
	d := DefaultDraft()
	if d.Title != "" || d.Content != "" || d.Tag != "Todo" {
		t.Errorf("DefaultDraft() = %+v", d)
	}
	if got := FilterTags(); len(got) != 6 || got[0] != "All" || got[5] != "Shopping" {
		t.Errorf("FilterTags() = %v", got)
	}
}
