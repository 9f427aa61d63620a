package cli

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/marquee/internal/adapter/catalog"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/tui"
)

// runTUI opens the terminal UI against the configured catalog API
func (a *App) runTUI() error {
	logger := a.fileLogger()
	slog.SetDefault(logger)
	logger.Info("starting marquee", "version", Version, "server", a.config.Server.URL)

	client := catalog.NewClient(a.config.Server.URL, logger)
	model := tui.NewModel(client, tui.Options{
		Lists:       a.config.Lists,
		Genres:      a.config.Genres,
		Labels:      a.config.Labels,
		Step:        a.config.Carousel.Step,
		Tolerance:   a.config.Carousel.EndTolerance,
		GridColumns: a.config.UI.GridColumns,
		DefaultView: domain.ListKind(a.config.UI.DefaultView),
		Logger:      logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running terminal UI: %w", err)
	}
	return nil
}
