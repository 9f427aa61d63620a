package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/filter"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// genreFormWidth is the inner width of the form rows
const genreFormWidth = 32

// GenreForm is a popup with one checkbox per genre. It implements
// filter.Form; the search trigger reads it when the user submits.
type GenreForm struct {
	visible bool
	genres  []domain.Genre
	checked map[string]bool

	cursor  int   // index into matches
	matches []int // indices into genres, in document order
	query   textinput.Model
}

// NewGenreForm creates a form offering genres in the given order
func NewGenreForm(genres []domain.Genre) *GenreForm {
	ti := textinput.New()
	ti.Placeholder = "type to narrow..."
	ti.Prompt = "› "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	f := &GenreForm{
		genres:  genres,
		checked: make(map[string]bool),
		query:   ti,
	}
	f.narrow()
	return f
}

// Checkboxes implements filter.Form. Every genre is reported in document
// order, including the ones hidden by the narrowing query.
func (f *GenreForm) Checkboxes() []filter.Checkbox {
	boxes := make([]filter.Checkbox, len(f.genres))
	for i, g := range f.genres {
		boxes[i] = filter.Checkbox{
			Name:    filter.GenreField,
			Value:   g.ID,
			Checked: f.checked[g.ID],
		}
	}
	return boxes
}

// Show displays the form
func (f *GenreForm) Show() tea.Cmd {
	f.visible = true
	return f.query.Focus()
}

// Hide dismisses the form, keeping the checked genres
func (f *GenreForm) Hide() {
	f.visible = false
	f.query.Blur()
	f.query.SetValue("")
	f.narrow()
}

// IsVisible returns whether the form is shown
func (f *GenreForm) IsVisible() bool {
	return f.visible
}

// Toggle flips the checkbox of the genre with the given id
func (f *GenreForm) Toggle(id string) {
	f.checked[id] = !f.checked[id]
}

// CheckedNames returns the names of the checked genres in document order
func (f *GenreForm) CheckedNames() []string {
	var names []string
	for _, g := range f.genres {
		if f.checked[g.ID] {
			names = append(names, g.Name)
		}
	}
	return names
}

// Visible returns the genres matching the narrowing query
func (f *GenreForm) Visible() []domain.Genre {
	out := make([]domain.Genre, len(f.matches))
	for i, idx := range f.matches {
		out[i] = f.genres[idx]
	}
	return out
}

// narrow recomputes the visible genres from the query. Matching ignores
// case and accents, so "acao" finds "Ação e Aventura".
func (f *GenreForm) narrow() {
	query := strings.TrimSpace(f.query.Value())
	f.matches = f.matches[:0]
	for i, g := range f.genres {
		if query == "" || fuzzy.MatchNormalizedFold(query, g.Name) {
			f.matches = append(f.matches, i)
		}
	}
	if f.cursor >= len(f.matches) {
		f.cursor = max(len(f.matches)-1, 0)
	}
}

// HandleKey processes a key press, returns (handled, submitted, cmd).
// submitted is true when the user pressed the search key.
func (f *GenreForm) HandleKey(msg tea.KeyMsg) (handled bool, submitted bool, cmd tea.Cmd) {
	if !f.visible {
		return false, false, nil
	}

	switch {
	case key.Matches(msg, GenreFormKeys.Up):
		if f.cursor > 0 {
			f.cursor--
		}
		return true, false, nil
	case key.Matches(msg, GenreFormKeys.Down):
		if f.cursor < len(f.matches)-1 {
			f.cursor++
		}
		return true, false, nil
	case key.Matches(msg, GenreFormKeys.Toggle):
		if len(f.matches) > 0 {
			f.Toggle(f.genres[f.matches[f.cursor]].ID)
		}
		return true, false, nil
	case key.Matches(msg, GenreFormKeys.Clear):
		f.checked = make(map[string]bool)
		return true, false, nil
	case key.Matches(msg, GenreFormKeys.Submit):
		f.Hide()
		return true, true, nil
	case key.Matches(msg, GenreFormKeys.Close):
		f.Hide()
		return true, false, nil
	}

	// Everything else narrows the list
	f.query, cmd = f.query.Update(msg)
	f.narrow()
	return true, false, cmd
}

// View renders the form
func (f *GenreForm) View() string {
	if !f.visible {
		return ""
	}

	lines := []string{f.query.View(), ""}
	if len(f.matches) == 0 {
		lines = append(lines, styles.DimStyle.Render(styles.Pad("Nenhum gênero", genreFormWidth)))
	}
	for i, idx := range f.matches {
		g := f.genres[idx]
		box := "[ ] "
		if f.checked[g.ID] {
			box = "[x] "
		}
		text := styles.Pad(box+g.Name, genreFormWidth)

		switch {
		case i == f.cursor:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(styles.White).
				Background(styles.SlateLight).
				Render(text))
		case f.checked[g.ID]:
			lines = append(lines, styles.AccentStyle.Render(text))
		default:
			lines = append(lines, styles.SubtitleStyle.Render(text))
		}
	}

	hint := styles.HelpKeyStyle.Render("space") + styles.HelpDescStyle.Render(" marcar  ") +
		styles.HelpKeyStyle.Render("enter") + styles.HelpDescStyle.Render(" buscar  ") +
		styles.HelpKeyStyle.Render("esc") + styles.HelpDescStyle.Render(" fechar")
	lines = append(lines, "", hint)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.MarqueeGold).
		Background(styles.SlateDark).
		Padding(0, 1).
		Render(styles.ModalTitleStyle.Render("Gêneros") + "\n" + strings.Join(lines, "\n"))
}
