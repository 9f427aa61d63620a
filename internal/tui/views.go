package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// InspectorLines is the height of the inspector block
const InspectorLines = 3

// RenderTabs renders the view tabs, highlighting the active one
func RenderTabs(titles []string, active int, width int) string {
	var tabs []string
	for i, t := range titles {
		label := fmt.Sprintf("%d %s", i+1, t)
		if i == active {
			tabs = append(tabs, styles.ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, styles.TabStyle.Render(label))
		}
	}
	left := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	right := styles.AccentStyle.Bold(true).Render("marquee")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// RenderInspector renders title, date, rating and synopsis of a poster
func RenderInspector(p *domain.Poster, width int) string {
	if p == nil {
		return styles.DimStyle.Render("Nenhum item selecionado") + strings.Repeat("\n", InspectorLines-1)
	}

	item := p.Item
	var meta []string
	if item.ReleaseDate != "" {
		meta = append(meta, item.ReleaseDate)
	}
	if item.Rating > 0 {
		meta = append(meta, fmt.Sprintf("★ %.1f", item.Rating))
	}

	title := styles.TitleStyle.Render(styles.Truncate(p.Title, width/2))
	header := title
	if len(meta) > 0 {
		header += "  " + styles.DimStyle.Render(strings.Join(meta, " · "))
	}

	synopsis := item.Synopsis
	if synopsis == "" {
		synopsis = "Sinopse indisponível."
	}
	lines := strings.Split(styles.WordWrap(synopsis, width-2), "\n")
	if len(lines) > InspectorLines-1 {
		lines = lines[:InspectorLines-1]
		lines[len(lines)-1] = styles.Truncate(lines[len(lines)-1]+" ...", width-2)
	}
	for len(lines) < InspectorLines-1 {
		lines = append(lines, "")
	}

	return header + "\n" + styles.SubtitleStyle.Render(strings.Join(lines, "\n"))
}

// RenderKeyHint renders a "key description" pair for the footer
func RenderKeyHint(k, desc string) string {
	return styles.HelpKeyStyle.Render(k) + styles.HelpDescStyle.Render(" "+desc)
}

// RenderSpinner renders a loading spinner
func RenderSpinner(frame int) string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return styles.SpinnerStyle.Render(frames[frame%len(frames)])
}
