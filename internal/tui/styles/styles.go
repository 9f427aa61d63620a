package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	MarqueeGold = lipgloss.Color("#E5A00D")
	SlateDark   = lipgloss.Color("#1F2937")
	SlateLight  = lipgloss.Color("#374151")
	DimGray     = lipgloss.Color("#6B7280")
	LightGray   = lipgloss.Color("#9CA3AF")
	White       = lipgloss.Color("#F9FAFB")
	Green       = lipgloss.Color("#10B981")
	Red         = lipgloss.Color("#EF4444")
	Blue        = lipgloss.Color("#3B82F6")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(MarqueeGold)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)
)

// Header tab styles
var (
	TabStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(SlateDark).
			Background(MarqueeGold).
			Bold(true).
			Padding(0, 1)
)

// Poster cell styles
var (
	PosterCellStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray).
			Padding(0, 1).
			Width(20)

	PosterCellSelectedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(MarqueeGold).
				Padding(0, 1).
				Width(20)
)

// Trigger button styles
var (
	ButtonStyle = lipgloss.NewStyle().
			Foreground(SlateDark).
			Background(MarqueeGold).
			Bold(true).
			Padding(0, 2)

	ButtonDisabledStyle = lipgloss.NewStyle().
				Foreground(LightGray).
				Background(SlateLight).
				Padding(0, 2)

	ButtonRetryStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(Red).
				Bold(true).
				Padding(0, 2)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(MarqueeGold).
			Padding(1, 2).
			Background(SlateDark)

	ModalTitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true).
			MarginBottom(1)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(MarqueeGold)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Spinner style
var (
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(MarqueeGold)
)

// Filter styles
var (
	FilterStyle = lipgloss.NewStyle().
			Foreground(MarqueeGold)

	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(MarqueeGold).
				Bold(true)
)

// Helper functions

// Truncate truncates a string to the given display width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 3 {
		return string(runes[:min(width, len(runes))])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// Pad pads a string with spaces to the given display width
func Pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return Truncate(s, width)
	}
	return s + strings.Repeat(" ", width-w)
}

// WordWrap wraps text to the specified width
func WordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wordLen := lipgloss.Width(word)

		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}

		if i > 0 && lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}

		result.WriteString(word)
		lineLen += wordLen
	}

	return result.String()
}
