package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/shelf/internal/library"
	"github.com/mmcdole/shelf/internal/search"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// Layout constants for the list
const (
	// Border adds 1 char on each side
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2
)

// Matcher ranks catalog names against a filter query
type Matcher func(query string) []search.Result

// GameList is a scrollable, filterable list of catalog rows
type GameList struct {
	rows  []library.Row
	index map[int]int // entry id -> row index

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool
	title   string

	// Filter state
	matcher      Matcher
	filterActive bool
	filterInput  textinput.Model
	filteredIdx  []int         // indices into rows; nil = unfiltered
	highlights   map[int][]int // row index -> matched rune positions

	keys ListKeyMap
}

// NewGameList creates an empty list with the given title
func NewGameList(title string, matcher Matcher) *GameList {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &GameList{
		title:       title,
		matcher:     matcher,
		filterInput: ti,
		keys:        DefaultListKeyMap(),
		focused:     true,
	}
}

// SetRows replaces the list content and resets selection and filter
func (l *GameList) SetRows(rows []library.Row) {
	l.rows = rows
	l.index = make(map[int]int, len(rows))
	for i, r := range rows {
		l.index[r.ID] = i
	}
	l.cursor = 0
	l.offset = 0
	l.clearFilter()
}

func (l *GameList) Update(msg tea.Msg) (*GameList, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)

	// Typing mode
	if l.IsFilterTyping() {
		if ok {
			switch {
			case key.Matches(keyMsg, l.keys.Escape):
				l.clearFilter()
				return l, nil
			case key.Matches(keyMsg, l.keys.Enter):
				l.filterInput.Blur()
				return l, nil
			case keyMsg.Type == tea.KeyBackspace && l.filterInput.Value() == "":
				l.clearFilter()
				return l, nil
			}
		}
		var cmd tea.Cmd
		l.filterInput, cmd = l.filterInput.Update(msg)
		l.applyFilter()
		return l, cmd
	}

	if !ok {
		return l, nil
	}

	switch {
	case key.Matches(keyMsg, l.keys.Filter):
		l.ToggleFilter()
		return l, textinput.Blink
	case l.filterActive && key.Matches(keyMsg, l.keys.Escape):
		l.clearFilter()
		return l, nil
	}

	count := l.ItemCount()
	if count == 0 {
		return l, nil
	}

	switch {
	case key.Matches(keyMsg, l.keys.Down):
		l.moveTo(l.cursor + 1)
	case key.Matches(keyMsg, l.keys.Up):
		l.moveTo(l.cursor - 1)
	case key.Matches(keyMsg, l.keys.Home):
		l.moveTo(0)
	case key.Matches(keyMsg, l.keys.End):
		l.moveTo(count - 1)
	case key.Matches(keyMsg, l.keys.HalfDown):
		l.moveTo(l.cursor + max(l.maxVisible/2, 1))
	case key.Matches(keyMsg, l.keys.HalfUp):
		l.moveTo(l.cursor - max(l.maxVisible/2, 1))
	case key.Matches(keyMsg, l.keys.PageDown):
		l.moveTo(l.cursor + l.maxVisible)
	case key.Matches(keyMsg, l.keys.PageUp):
		l.moveTo(l.cursor - l.maxVisible)
	}
	return l, nil
}

func (l *GameList) View() string {
	style := styles.InactiveBorder
	if l.focused {
		style = styles.ActiveBorder
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(max(l.width-frameW, 0)).
		Height(max(l.height-frameH, 0)).
		Render(l.renderContent())
}

func (l *GameList) renderContent() string {
	contentWidth := max(l.width-BorderWidth, 10)
	var b strings.Builder

	title := fmt.Sprintf("%s (%d)", l.title, l.ItemCount())
	if l.filterActive && l.filteredIdx != nil {
		title = fmt.Sprintf("%s (%d/%d)", l.title, l.ItemCount(), len(l.rows))
	}
	b.WriteString(styles.AccentStyle.Render(styles.Truncate(title, contentWidth)))
	b.WriteString("\n")

	if l.filterActive {
		b.WriteString(l.filterInput.View())
		b.WriteString("\n")
	}

	count := l.ItemCount()
	if count == 0 {
		b.WriteString(styles.DimStyle.Render("No entries"))
		return b.String()
	}

	if l.offset > 0 {
		b.WriteString(styles.DimStyle.Render("↑ more"))
	}
	b.WriteString("\n")

	end := min(l.offset+l.maxVisible, count)
	for i := l.offset; i < end; i++ {
		b.WriteString(l.renderRow(i, contentWidth))
		b.WriteString("\n")
	}

	if end < count {
		b.WriteString(styles.DimStyle.Render("↓ more"))
	}
	return b.String()
}

func (l *GameList) renderRow(pos, width int) string {
	idx := l.mapIndex(pos)
	row := l.rows[idx]

	year := "    "
	if row.ReleaseYear > 0 {
		year = fmt.Sprintf("%4d", row.ReleaseYear)
	}
	meta := fmt.Sprintf(" %s %-5s", year, row.AppType)

	nameWidth := max(width-len([]rune(meta))-2, 4)
	name := styles.Truncate(row.Name, nameWidth)

	parts := styles.HighlightParts(name, l.highlights[idx])
	parts = append(parts, styles.RowPart{Text: strings.Repeat(" ", nameWidth-len([]rune(name)))})
	dim := styles.DimGray
	parts = append(parts, styles.RowPart{Text: meta, Foreground: &dim})

	return styles.RenderListRow(parts, pos == l.cursor, width)
}

func (l *GameList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.recalcMaxVisible()
	l.ensureVisible()
}

func (l *GameList) SetFocused(focused bool) {
	l.focused = focused
}

// SelectedRow returns the row under the cursor
func (l *GameList) SelectedRow() (library.Row, bool) {
	if l.ItemCount() == 0 {
		return library.Row{}, false
	}
	return l.rows[l.mapIndex(l.cursor)], true
}

// Select moves the cursor to the row for id if it is visible
func (l *GameList) Select(id int) bool {
	idx, ok := l.index[id]
	if !ok {
		return false
	}
	for pos := 0; pos < l.ItemCount(); pos++ {
		if l.mapIndex(pos) == idx {
			l.moveTo(pos)
			return true
		}
	}
	return false
}

// VisibleIDs returns the ids of the rows currently listed, in list order
func (l *GameList) VisibleIDs() []int {
	ids := make([]int, l.ItemCount())
	for pos := range ids {
		ids[pos] = l.rows[l.mapIndex(pos)].ID
	}
	return ids
}

func (l *GameList) ItemCount() int {
	if l.filteredIdx != nil {
		return len(l.filteredIdx)
	}
	return len(l.rows)
}

// ToggleFilter activates the filter input
func (l *GameList) ToggleFilter() {
	l.filterActive = true
	l.filterInput.Focus()
	l.recalcMaxVisible()
}

// IsFiltering returns true if filter mode is active
func (l *GameList) IsFiltering() bool {
	return l.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused
func (l *GameList) IsFilterTyping() bool {
	return l.filterActive && l.filterInput.Focused()
}

// FilterQuery returns the current filter text
func (l *GameList) FilterQuery() string {
	return l.filterInput.Value()
}

// Internal methods

func (l *GameList) mapIndex(pos int) int {
	if l.filteredIdx != nil {
		return l.filteredIdx[pos]
	}
	return pos
}

func (l *GameList) moveTo(pos int) {
	count := l.ItemCount()
	if count == 0 {
		l.cursor = 0
		return
	}
	l.cursor = min(max(pos, 0), count-1)
	l.ensureVisible()
}

func (l *GameList) recalcMaxVisible() {
	// Interior minus title line and scroll indicators
	l.maxVisible = l.height - BorderHeight - ScrollIndicatorLines - 1
	if l.filterActive {
		l.maxVisible--
	}
	if l.maxVisible < 1 {
		l.maxVisible = 1
	}
}

func (l *GameList) ensureVisible() {
	if l.maxVisible <= 0 {
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.maxVisible {
		l.offset = l.cursor - l.maxVisible + 1
	}
}

func (l *GameList) clearFilter() {
	l.filterActive = false
	l.filteredIdx = nil
	l.highlights = nil
	l.filterInput.SetValue("")
	l.filterInput.Blur()
	l.recalcMaxVisible()
}

func (l *GameList) applyFilter() {
	query := strings.TrimSpace(l.filterInput.Value())
	if query == "" || l.matcher == nil {
		l.filteredIdx = nil
		l.highlights = nil
		return
	}

	results := l.matcher(query)
	l.filteredIdx = make([]int, 0, len(results))
	l.highlights = make(map[int][]int, len(results))
	for _, r := range results {
		idx, ok := l.index[r.ID]
		if !ok {
			continue
		}
		l.filteredIdx = append(l.filteredIdx, idx)
		l.highlights[idx] = r.MatchedIndexes
	}

	// Reset cursor to first match
	l.cursor = 0
	l.offset = 0
}
