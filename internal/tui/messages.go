package tui

import (
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/pagination"
)

// Message types for the TUI

// PageLoadedMsg carries the response to a page request
type PageLoadedMsg struct {
	Ctrl  *pagination.Controller
	Req   pagination.Request
	Items []domain.CatalogItem
	Err   error
}

// FrameMsg advances carousel scroll animations by one frame
type FrameMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}

// TickMsg advances the spinner
type TickMsg struct{}
