package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// Poster cell geometry in terminal cells, border included
const (
	CellWidth  = 22
	CellHeight = 5

	cellTextWidth = CellWidth - 4 // border + padding
)

// RenderPosterCell renders a poster as a fixed-size bordered cell:
// two lines of title and a line of year and rating.
func RenderPosterCell(p domain.Poster, selected bool) string {
	style := styles.PosterCellStyle
	titleStyle := styles.SubtitleStyle
	if selected {
		style = styles.PosterCellSelectedStyle
		titleStyle = styles.TitleStyle
	}

	lines := strings.Split(styles.WordWrap(p.Title, cellTextWidth), "\n")
	if len(lines) > 2 {
		lines = lines[:2]
		lines[1] = styles.Truncate(lines[1]+" ...", cellTextWidth)
	}
	for len(lines) < 2 {
		lines = append(lines, "")
	}
	for i, l := range lines {
		lines[i] = titleStyle.Render(styles.Pad(l, cellTextWidth))
	}

	lines = append(lines, styles.DimStyle.Render(styles.Pad(posterMeta(p.Item), cellTextWidth)))

	return style.Height(CellHeight - 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// posterMeta returns the "year · ★ rating" line for an item
func posterMeta(item domain.CatalogItem) string {
	var parts []string
	if y := item.Year(); y != "" {
		parts = append(parts, y)
	}
	if item.Rating > 0 {
		parts = append(parts, fmt.Sprintf("★ %.1f", item.Rating))
	}
	return strings.Join(parts, " · ")
}

// blankCell fills the space of a missing cell in a row
func blankCell() string {
	return strings.Repeat(strings.Repeat(" ", CellWidth)+"\n", CellHeight-1) + strings.Repeat(" ", CellWidth)
}
