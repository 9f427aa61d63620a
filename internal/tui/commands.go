package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/marquee/internal/carousel"
	"github.com/mmcdole/marquee/internal/pagination"
)

// Command factories for async operations

// FetchTimeout bounds a single page request
const FetchTimeout = 30 * time.Second

// FetchPageCmd performs the network half of req off the UI loop
func FetchPageCmd(ctrl *pagination.Controller, req pagination.Request) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), FetchTimeout)
		defer cancel()

		items, err := ctrl.Fetch(ctx, req)
		return PageLoadedMsg{Ctrl: ctrl, Req: req, Items: items, Err: err}
	}
}

// FrameCmd returns a command that sends the next animation frame
func FrameCmd() tea.Cmd {
	return tea.Tick(carousel.FrameInterval, func(t time.Time) tea.Msg {
		return FrameMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}
