package notes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/marcus/notehub/internal/note"
	"github.com/marcus/notehub/internal/styles"
	"github.com/marcus/notehub/internal/ui"
)

const (
	// Status messages shown in place of the list.
	msgLoading = "Loading, please wait..."
	msgError   = "Failed to load notes. Please try again."
	msgEmpty   = "No notes found for this filter."

	retryLabel  = " Try again ... "
	createLabel = " Create note + "

	rowHeight  = 2 // title line + content preview line
	pageWindow = 5 // page numbers shown around the current page
)

// View renders the list and any open overlay.
func (p *Plugin) View(width, height int) string {
	p.width = width
	p.height = height

	view := p.renderList(width, height)
	if p.detail != nil {
		view = ui.OverlayModal(view, p.detail.modal.Render(width, height, p.detail.mouseHandler), width, height)
	}
	if p.form != nil {
		view = ui.OverlayModal(view, p.form.modal.Render(width, height, p.form.mouseHandler), width, height)
	}
	if p.del != nil {
		view = ui.OverlayModal(view, p.del.modal.Render(width, height, p.del.mouseHandler), width, height)
	}
	return view
}

// renderList renders the list screen and registers its hit regions.
func (p *Plugin) renderList(width, height int) string {
	p.mouseHandler.HitMap.Clear()

	var lines []string
	lines = append(lines, p.renderTagBar(len(lines)))
	lines = append(lines, p.renderSearchBar(len(lines), width))
	lines = append(lines, "")
	lines = append(lines, p.renderHeader())
	lines = append(lines, "")

	snap := p.snapshot()
	total := 0
	if snap.HasData {
		total = snap.Data.TotalPages
	}
	footer := 0
	if total > 1 {
		footer = 2
	}

	switch {
	case snap.Err != nil:
		lines = append(lines, styles.ErrorText.Render(msgError))
		retry := styles.Button.Render(retryLabel)
		p.mouseHandler.HitMap.AddRect(regionRetry, 0, len(lines), ansi.StringWidth(retry), 1, nil)
		lines = append(lines, retry, "")
		if snap.HasData && len(snap.Data.Notes) > 0 {
			lines = p.appendNotes(lines, snap.Data.Notes, width, height-len(lines)-footer)
		}
	case !snap.HasData:
		lines = append(lines, styles.Muted.Render(msgLoading))
	case len(snap.Data.Notes) == 0:
		lines = append(lines, styles.Muted.Render(msgEmpty))
	default:
		lines = p.appendNotes(lines, snap.Data.Notes, width, height-len(lines)-footer)
	}

	if total > 1 {
		for len(lines) < height-1 {
			lines = append(lines, "")
		}
		lines = append(lines, p.renderPagination(len(lines), total))
	}

	if len(lines) > height {
		lines = lines[:height]
	}
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, width, "")
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// renderTagBar renders the filter chips on row y.
func (p *Plugin) renderTagBar(y int) string {
	var sb strings.Builder
	label := styles.BarText.Render("Tags ")
	sb.WriteString(label)
	x := ansi.StringWidth(label)
	for i, tag := range note.FilterTags() {
		if i > 0 {
			sb.WriteString(" ")
			x++
		}
		style := styles.BarChip
		if tag == p.tag {
			style = styles.BarChipActive
		}
		chip := style.Render(tag)
		w := ansi.StringWidth(chip)
		p.mouseHandler.HitMap.AddRect(regionTag, x, y, w, 1, tag)
		sb.WriteString(chip)
		x += w
	}
	return sb.String()
}

// renderSearchBar renders the search input and the create button on row y.
func (p *Plugin) renderSearchBar(y, width int) string {
	label := styles.BarText.Render("Search ")
	labelW := ansi.StringWidth(label)

	create := styles.Button.Render(createLabel)
	createW := ansi.StringWidth(create)

	inputW := max(10, width-labelW-createW-4)
	p.searchInput.Width = inputW
	input := p.searchInput.View()
	if !p.searchMode && p.searchInput.Value() == "" {
		input = styles.Muted.Render("/ to search")
	}
	input = ui.PadRight(ansi.Truncate(input, inputW, ""), inputW)

	p.mouseHandler.HitMap.AddRect(regionSearch, 0, y, labelW+inputW, 1, nil)
	createX := labelW + inputW + 2
	p.mouseHandler.HitMap.AddRect(regionCreate, createX, y, createW, 1, nil)

	return label + input + "  " + create
}

func (p *Plugin) renderHeader() string {
	header := styles.Title.Render("Notes for tag: " + p.tag)
	var extra []string
	if p.debouncedSearch != "" {
		extra = append(extra, fmt.Sprintf("matching %q", p.debouncedSearch))
	}
	snap := p.snapshot()
	if snap.HasData && snap.Fetching {
		extra = append(extra, "refreshing")
	}
	if len(extra) > 0 {
		header += styles.Muted.Render("  " + strings.Join(extra, " · "))
	}
	return header
}

// appendNotes renders as many note rows as fit in avail lines, keeping
// the cursor visible.
func (p *Plugin) appendNotes(lines []string, notes []note.Note, width, avail int) []string {
	visible := max(1, avail/rowHeight)
	if p.cursor < p.scrollY {
		p.scrollY = p.cursor
	}
	if p.cursor >= p.scrollY+visible {
		p.scrollY = p.cursor - visible + 1
	}
	p.scrollY = max(0, min(p.scrollY, max(0, len(notes)-visible)))

	top := len(lines)
	end := min(len(notes), p.scrollY+visible)
	p.mouseHandler.HitMap.AddRect(regionNoteList, 0, top, width, (end-p.scrollY)*rowHeight, nil)
	for i := p.scrollY; i < end; i++ {
		y := len(lines)
		p.mouseHandler.HitMap.AddRect(regionNoteItem, 0, y, width, rowHeight, i)
		lines = append(lines, p.renderNoteRow(notes[i], i == p.cursor, width)...)
	}
	return lines
}

func (p *Plugin) renderNoteRow(n note.Note, selected bool, width int) []string {
	cursor := "  "
	titleStyle := styles.ListItemNormal
	if selected {
		cursor = styles.ListCursor.Render("> ")
		titleStyle = styles.ListItemSelected
	}
	chip := styles.TagChip(string(n.Tag))
	titleW := max(1, width-2-ansi.StringWidth(chip)-2)
	title := titleStyle.Bold(true).Render(ui.Truncate(n.Title, titleW))

	preview := ui.FirstLine(n.Content)
	if preview == "" {
		preview = "(no content)"
	}
	return []string{
		cursor + title + "  " + chip,
		"  " + styles.Muted.Render(ui.Truncate(preview, max(1, width-2))),
	}
}

// renderPagination renders page arrows and numbers on row y.
func (p *Plugin) renderPagination(y, total int) string {
	var sb strings.Builder
	x := 0
	add := func(s, region string, data any) {
		if x > 0 {
			sb.WriteString(" ")
			x++
		}
		w := ansi.StringWidth(s)
		if region != "" {
			p.mouseHandler.HitMap.AddRect(region, x, y, w, 1, data)
		}
		sb.WriteString(s)
		x += w
	}

	prev := styles.BarChip
	if p.page <= 1 {
		prev = styles.Subtle
	}
	add(prev.Render("<"), regionPagePrev, nil)
	for _, n := range pageItems(p.page, total) {
		switch {
		case n == 0:
			add(styles.Muted.Render("…"), "", nil)
		case n == p.page:
			add(styles.BarChipActive.Render(fmt.Sprint(n)), regionPage, n)
		default:
			add(styles.BarChip.Render(fmt.Sprint(n)), regionPage, n)
		}
	}
	next := styles.BarChip
	if p.page >= total {
		next = styles.Subtle
	}
	add(next.Render(">"), regionPageNext, nil)
	return sb.String()
}

// pageItems returns the page numbers to show, with 0 marking a gap. The
// first and last pages are always present.
func pageItems(current, total int) []int {
	if total <= pageWindow+2 {
		items := make([]int, total)
		for i := range items {
			items[i] = i + 1
		}
		return items
	}
	start := max(2, current-pageWindow/2)
	end := min(total-1, start+pageWindow-1)
	start = max(2, end-pageWindow+1)

	items := []int{1}
	if start > 2 {
		items = append(items, 0)
	}
	for i := start; i <= end; i++ {
		items = append(items, i)
	}
	if end < total-1 {
		items = append(items, 0)
	}
	return append(items, total)
}
