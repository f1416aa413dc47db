// Package note defines the notes domain: notes, tags, drafts and the
// validation rules for creating a note.
package note

import "time"

// Tag categorizes a note.
type Tag string

const (
	TagTodo     Tag = "Todo"
	TagWork     Tag = "Work"
	TagPersonal Tag = "Personal"
	TagMeeting  Tag = "Meeting"
	TagShopping Tag = "Shopping"
)

// AllTags is the filter value meaning "no tag filter".
const AllTags = "All"

// Tags lists the allowed tags in display order.
var Tags = []Tag{TagTodo, TagWork, TagPersonal, TagMeeting, TagShopping}

// Valid reports whether t is one of the allowed tags.
func (t Tag) Valid() bool {
	for _, v := range Tags {
		if v == t {
			return true
		}
	}
	return false
}

// FilterTags returns the tag filter choices: AllTags followed by Tags.
func FilterTags() []string {
	out := make([]string, 0, len(Tags)+1)
	out = append(out, AllTags)
	for _, t := range Tags {
		out = append(out, string(t))
	}
	return out
}

// FilterParam converts a filter value into the tag sent to the API.
// "All" and "" mean unfiltered and yield "".
func FilterParam(filter string) string {
	if filter == AllTags {
		return ""
	}
	return filter
}

// Note is a note as stored by the remote service.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tag       Tag       `json:"tag"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListParams selects one page of notes.
type ListParams struct {
	Page    int
	PerPage int
	Search  string // omitted when empty
	Tag     string // omitted when empty
}

// ListResult is one page of notes.
type ListResult struct {
	Notes      []Note `json:"notes"`
	TotalPages int    `json:"totalPages"`
}

// Draft is an in-progress note that has not been submitted.
type Draft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tag     string `json:"tag"`
}

// DefaultDraft is the empty draft.
func DefaultDraft() Draft {
	return Draft{Tag: string(TagTodo)}
}

// Input converts the draft into a create request.
func (d Draft) Input() CreateInput {
	return CreateInput{Title: d.Title, Content: d.Content, Tag: Tag(d.Tag)}
}
