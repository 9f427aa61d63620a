package cli

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across commands.
var (
	colorHeader = color.New(color.Bold)
	colorTitle  = color.New(color.FgYellow, color.Bold)
	colorStats  = color.New(color.FgGreen)
	colorMuted  = color.New(color.FgWhite, color.Faint)
	colorWarn   = color.New(color.FgRed)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatTitle(s string) string {
	return colorTitle.Sprint(s)
}

func formatStats(s string) string {
	return colorStats.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

func formatWarn(s string) string {
	return colorWarn.Sprint(s)
}
