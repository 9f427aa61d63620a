package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// Layout constants for the poster grid
const (
	// Filter bar takes one line while active
	FilterBarLines = 1
)

// PosterGrid shows posters in rows and implements domain.Renderer.
// Posters are kept in insertion order; the quick filter narrows the
// visible set without touching it.
type PosterGrid struct {
	posters  []domain.Poster
	emptyMsg string

	// Selection, in visible-index space
	cursor    int
	rowOffset int

	// Dimensions
	width   int
	height  int
	columns int // 0 = fit to width
	focused bool

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filteredIdx  []int // indices into posters
}

// NewPosterGrid creates an empty poster grid
func NewPosterGrid() *PosterGrid {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &PosterGrid{filterInput: ti, focused: true}
}

// Append implements domain.Renderer
func (g *PosterGrid) Append(p domain.Poster) {
	g.emptyMsg = ""
	g.posters = append(g.posters, p)
	if g.filterActive {
		g.applyFilter(false)
	}
}

// Clear implements domain.Renderer
func (g *PosterGrid) Clear() {
	g.posters = nil
	g.emptyMsg = ""
	g.cursor = 0
	g.rowOffset = 0
	if g.filterActive {
		g.applyFilter(true)
	}
}

// ShowEmptyMessage implements domain.Renderer
func (g *PosterGrid) ShowEmptyMessage(msg string) {
	g.Clear()
	g.emptyMsg = msg
}

// Len returns the number of posters in the grid, ignoring the filter
func (g *PosterGrid) Len() int {
	return len(g.posters)
}

// Posters returns the posters in insertion order
func (g *PosterGrid) Posters() []domain.Poster {
	return g.posters
}

// EmptyMessage returns the message shown instead of posters, if any
func (g *PosterGrid) EmptyMessage() string {
	return g.emptyMsg
}

// SetSize updates the component dimensions
func (g *PosterGrid) SetSize(width, height int) {
	g.width = width
	g.height = height
	g.ensureVisible()
}

// SetColumns fixes the number of columns; 0 fits the terminal width
func (g *PosterGrid) SetColumns(n int) {
	g.columns = max(n, 0)
	g.ensureVisible()
}

// SetFocused sets the focus state
func (g *PosterGrid) SetFocused(focused bool) {
	g.focused = focused
}

// Columns returns the number of posters per row
func (g *PosterGrid) Columns() int {
	if g.columns > 0 {
		return g.columns
	}
	return max(g.width/CellWidth, 1)
}

// visibleRows returns how many poster rows fit in the grid
func (g *PosterGrid) visibleRows() int {
	h := g.height
	if g.filterActive {
		h -= FilterBarLines
	}
	return max(h/CellHeight, 1)
}

// Cursor returns the selected position among visible posters
func (g *PosterGrid) Cursor() int {
	return g.cursor
}

// Selected returns the selected poster
func (g *PosterGrid) Selected() (domain.Poster, bool) {
	n := g.visibleCount()
	if n == 0 || g.cursor >= n {
		return domain.Poster{}, false
	}
	return g.posters[g.mapIndex(g.cursor)], true
}

// visibleCount returns the number of posters after filtering
func (g *PosterGrid) visibleCount() int {
	if g.filteredIdx != nil {
		return len(g.filteredIdx)
	}
	return len(g.posters)
}

// mapIndex maps a visible position to an index into posters
func (g *PosterGrid) mapIndex(i int) int {
	if g.filteredIdx != nil && i < len(g.filteredIdx) {
		return g.filteredIdx[i]
	}
	return i
}

// AtEnd reports whether the selection is on the last row
func (g *PosterGrid) AtEnd() bool {
	n := g.visibleCount()
	cols := g.Columns()
	return n == 0 || g.cursor/cols == (n-1)/cols
}

// move shifts the cursor by delta positions, clamped to the posters
func (g *PosterGrid) move(delta int) {
	n := g.visibleCount()
	if n == 0 {
		return
	}
	g.cursor = min(max(g.cursor+delta, 0), n-1)
	g.ensureVisible()
}

// ensureVisible keeps the cursor row on screen
func (g *PosterGrid) ensureVisible() {
	n := g.visibleCount()
	if g.cursor >= n {
		g.cursor = max(n-1, 0)
	}
	cols := g.Columns()
	rows := g.visibleRows()
	row := g.cursor / cols
	if row < g.rowOffset {
		g.rowOffset = row
	}
	if row >= g.rowOffset+rows {
		g.rowOffset = row - rows + 1
	}
}

// StartFilter activates the quick filter input
func (g *PosterGrid) StartFilter() tea.Cmd {
	g.filterActive = true
	g.ensureVisible()
	return g.filterInput.Focus()
}

// IsFiltering returns true if the quick filter is active
func (g *PosterGrid) IsFiltering() bool {
	return g.filterActive
}

// IsFilterTyping returns true if the filter input has focus
func (g *PosterGrid) IsFilterTyping() bool {
	return g.filterActive && g.filterInput.Focused()
}

// FilterQuery returns the current quick filter text
func (g *PosterGrid) FilterQuery() string {
	return g.filterInput.Value()
}

// ClearFilter deactivates the filter and shows all posters
func (g *PosterGrid) ClearFilter() {
	g.filterActive = false
	g.filteredIdx = nil
	g.filterInput.SetValue("")
	g.filterInput.Blur()
	g.ensureVisible()
}

// applyFilter matches the query against poster titles
func (g *PosterGrid) applyFilter(resetCursor bool) {
	query := g.filterInput.Value()
	if query == "" {
		g.filteredIdx = nil
		return
	}

	lowerTitles := make([]string, len(g.posters))
	for i, p := range g.posters {
		lowerTitles[i] = strings.ToLower(p.Title)
	}

	matches := fuzzy.Find(strings.ToLower(query), lowerTitles)

	g.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		g.filteredIdx[i] = match.Index
	}

	if resetCursor {
		g.cursor = 0
		g.rowOffset = 0
	}
	g.ensureVisible()
}

// Update handles navigation and filter keys
func (g *PosterGrid) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	// Typing into the filter
	if g.IsFilterTyping() {
		switch {
		case key.Matches(keyMsg, GridKeys.Escape):
			g.ClearFilter()
			return nil
		case key.Matches(keyMsg, GridKeys.Accept):
			g.filterInput.Blur()
			return nil
		case keyMsg.String() == "backspace" && g.filterInput.Value() == "":
			g.ClearFilter()
			return nil
		}

		var cmd tea.Cmd
		g.filterInput, cmd = g.filterInput.Update(msg)
		g.applyFilter(true)
		return cmd
	}

	if g.filterActive && key.Matches(keyMsg, GridKeys.Escape) {
		g.ClearFilter()
		return nil
	}

	cols := g.Columns()
	switch {
	case key.Matches(keyMsg, GridKeys.Left):
		g.move(-1)
	case key.Matches(keyMsg, GridKeys.Right):
		g.move(1)
	case key.Matches(keyMsg, GridKeys.Up):
		g.move(-cols)
	case key.Matches(keyMsg, GridKeys.Down):
		g.move(cols)
	case key.Matches(keyMsg, GridKeys.PageUp):
		g.move(-cols * g.visibleRows())
	case key.Matches(keyMsg, GridKeys.PageDown):
		g.move(cols * g.visibleRows())
	case key.Matches(keyMsg, GridKeys.Home):
		g.cursor = 0
		g.ensureVisible()
	case key.Matches(keyMsg, GridKeys.End):
		g.cursor = max(g.visibleCount()-1, 0)
		g.ensureVisible()
	}
	return nil
}

// View renders the visible rows of the grid
func (g *PosterGrid) View() string {
	var sections []string

	if g.filterActive {
		sections = append(sections, g.filterInput.View())
	}

	n := g.visibleCount()
	switch {
	case g.emptyMsg != "":
		sections = append(sections, styles.DimStyle.Render(g.emptyMsg))
	case n == 0 && g.filterActive && g.filterInput.Value() != "":
		sections = append(sections, styles.DimStyle.Render("No matches"))
	case n == 0:
		sections = append(sections, styles.DimStyle.Render("No posters"))
	default:
		sections = append(sections, g.renderRows())
	}

	return lipgloss.NewStyle().
		Width(g.width).
		MaxHeight(g.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (g *PosterGrid) renderRows() string {
	cols := g.Columns()
	n := g.visibleCount()
	first := g.rowOffset * cols
	last := min(first+cols*g.visibleRows(), n)

	var rows []string
	for start := first; start < last; start += cols {
		cells := make([]string, 0, cols)
		for i := start; i < start+cols; i++ {
			if i >= n {
				cells = append(cells, blankCell())
				continue
			}
			selected := g.focused && i == g.cursor
			cells = append(cells, RenderPosterCell(g.posters[g.mapIndex(i)], selected))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

// Status returns a short "n posters" summary, with the filter count
func (g *PosterGrid) Status() string {
	if g.filteredIdx != nil {
		return fmt.Sprintf("%d/%d posters", len(g.filteredIdx), len(g.posters))
	}
	return fmt.Sprintf("%d posters", len(g.posters))
}
