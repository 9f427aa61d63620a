package components

import (
	"github.com/mmcdole/marquee/internal/pagination"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// RenderTrigger renders a trigger control as a button. spin is the
// spinner frame shown while a request is in flight.
func RenderTrigger(t pagination.Trigger, spin string) string {
	switch {
	case t.Phase == pagination.PhaseLoading:
		return spin + " " + styles.ButtonDisabledStyle.Render(t.Label)
	case t.Phase == pagination.PhaseRetry:
		return styles.ButtonRetryStyle.Render(t.Label)
	case t.Disabled:
		return styles.ButtonDisabledStyle.Render(t.Label)
	default:
		return styles.ButtonStyle.Render(t.Label)
	}
}
