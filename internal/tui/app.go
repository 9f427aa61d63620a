package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/marquee/internal/carousel"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/pagination"
	"github.com/mmcdole/marquee/internal/tui/components"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
)

// HomeView is the index of the carousel view
const HomeView = 0

// Layout
const (
	HeaderHeight  = 1
	TriggerHeight = 1
	ChromeHeight  = 1 // Footer

	statusDuration = 4 * time.Second
	spinnerDelay   = 100 * time.Millisecond
)

// Options configures the model
type Options struct {
	Lists       []domain.List
	Genres      []domain.Genre
	Labels      pagination.Labels
	Step        int // Carousel step in pixels, 0 = defaults for both
	Tolerance   int // Carousel end tolerance in pixels
	GridColumns int // 0 = fit to width
	DefaultView domain.ListKind
	Logger      *slog.Logger
}

// gridView is one full-screen paginated list
type gridView struct {
	list   domain.List
	ctrl   *pagination.Controller
	grid   *components.PosterGrid
	form   *components.GenreForm // nil when the list has no filtered endpoint
	loaded bool
}

// homeRow is one carousel on the home view
type homeRow struct {
	list     domain.List
	ctrl     *pagination.Controller
	carousel *components.Carousel
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	// Views: HomeView, then one grid per list
	views  []*gridView
	home   []*homeRow
	active int

	// Home carousels
	scroller  carousel.Scroller
	homeFocus int
	animating bool

	initialView int
	logger      *slog.Logger

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	SpinnerFrame int
}

// NewModel creates a new application model. Every list gets a carousel on
// the home view and its own grid view, each paginated by its own controller.
func NewModel(fetcher domain.PageFetcher, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	registry := carousel.Registry{}
	m := Model{
		State:  StateBrowsing,
		logger: logger,
	}

	for _, list := range opts.Lists {
		strip := components.NewCarousel(list.Title)
		registry[string(list.Key)] = strip
		m.home = append(m.home, &homeRow{
			list:     list,
			carousel: strip,
			ctrl: pagination.New(list, fetcher, strip,
				pagination.WithLabels(opts.Labels),
				pagination.WithLogger(logger.With("view", "home")),
			),
		})

		grid := components.NewPosterGrid()
		grid.SetColumns(opts.GridColumns)
		v := &gridView{
			list: list,
			grid: grid,
			ctrl: pagination.New(list, fetcher, grid,
				pagination.WithLabels(opts.Labels),
				pagination.WithLogger(logger.With("view", "grid")),
			),
		}
		if list.Filterable() {
			v.form = components.NewGenreForm(opts.Genres)
		}
		m.views = append(m.views, v)

		if list.Key == opts.DefaultView {
			m.initialView = len(m.views)
		}
	}

	m.scroller = carousel.NewScroller(registry)
	if opts.Step > 0 {
		m.scroller.Step = opts.Step
		m.scroller.EndTolerance = max(opts.Tolerance, 0)
	}
	m.active = m.initialView
	m.focusHome()
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{TickCmd(spinnerDelay), m.loadHome()}
	if v := m.activeView(); v != nil {
		cmds = append(cmds, m.ensureLoaded(v))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case PageLoadedMsg:
		res := msg.Ctrl.Complete(msg.Req, msg.Items, msg.Err)
		m.logger.Debug("page loaded",
			"list", msg.Req.Query.List.Key,
			"page", msg.Req.Query.Page,
			"outcome", res.Outcome.String(),
		)
		if res.Outcome == pagination.OutcomeFailed {
			return m, m.loadFailed(msg.Ctrl)
		}
		return m, nil

	case FrameMsg:
		animating := false
		for _, row := range m.home {
			if row.carousel.Tick() {
				animating = true
			}
		}
		m.animating = animating
		if animating {
			return m, FrameCmd()
		}
		return m, nil

	case TickMsg:
		m.SpinnerFrame++
		return m, TickCmd(spinnerDelay)

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		return m, ClearStatusCmd(statusDuration)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.State == StateHelp {
		m.State = StateBrowsing
		return m, nil
	}

	v := m.activeView()

	// Modal and filter input take priority over global keys
	if v != nil && v.form != nil && v.form.IsVisible() {
		_, submitted, cmd := v.form.HandleKey(msg)
		if submitted {
			return m, m.search(v)
		}
		return m, cmd
	}
	if v != nil && v.grid.IsFilterTyping() {
		return m, v.grid.Update(msg)
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil
	case key.Matches(msg, Keys.NextView):
		return m, m.switchView((m.active + 1) % m.viewCount())
	case key.Matches(msg, Keys.PrevView):
		return m, m.switchView((m.active + m.viewCount() - 1) % m.viewCount())
	case key.Matches(msg, Keys.GoToView):
		idx := int(msg.Runes[0] - '1')
		if idx < m.viewCount() {
			return m, m.switchView(idx)
		}
		return m, nil
	case key.Matches(msg, Keys.Refresh):
		if v == nil {
			return m, m.loadHome()
		}
		return m, m.refresh(v)
	}

	if v == nil {
		return m.handleHomeKey(msg)
	}
	return m.handleGridKey(v, msg)
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Up):
		if m.homeFocus > 0 {
			m.homeFocus--
			m.focusHome()
		}
	case key.Matches(msg, Keys.Down):
		if m.homeFocus < len(m.home)-1 {
			m.homeFocus++
			m.focusHome()
		}
	case key.Matches(msg, Keys.Left):
		return m, m.scroll(false)
	case key.Matches(msg, Keys.Right):
		return m, m.scroll(true)
	case key.Matches(msg, Keys.LoadMore):
		// Open the focused list in its grid
		if len(m.home) > 0 {
			return m, m.switchView(m.homeFocus + 1)
		}
	}
	return m, nil
}

func (m Model) handleGridKey(v *gridView, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.LoadMore):
		return m, m.loadMore(v)
	case key.Matches(msg, Keys.Filter):
		return m, v.grid.StartFilter()
	case key.Matches(msg, Keys.Genres):
		if v.form == nil {
			return m, statusCmd(fmt.Sprintf("%s não tem filtro de gêneros", v.list.Title), true)
		}
		return m, v.form.Show()
	}
	return m, v.grid.Update(msg)
}

// scroll steps the focused carousel and starts the frame loop if needed
func (m *Model) scroll(right bool) tea.Cmd {
	if len(m.home) == 0 {
		return nil
	}
	id := string(m.home[m.homeFocus].list.Key)

	var action carousel.Action
	if right {
		action = m.scroller.ScrollRight(id)
	} else {
		action = m.scroller.ScrollLeft(id)
	}
	if action.Kind == carousel.ActionNone || m.animating {
		return nil
	}
	m.animating = true
	return FrameCmd()
}

// loadHome refreshes every carousel
func (m *Model) loadHome() tea.Cmd {
	var cmds []tea.Cmd
	for _, row := range m.home {
		if req, ok := row.ctrl.BeginRefresh(); ok {
			cmds = append(cmds, FetchPageCmd(row.ctrl, req))
		}
	}
	return tea.Batch(cmds...)
}

// loadFailed reports a failed page. An empty home carousel shows the
// retry label in place of its loading placeholder.
func (m *Model) loadFailed(ctrl *pagination.Controller) tea.Cmd {
	retry := ctrl.Labels().Retry
	for _, row := range m.home {
		if row.ctrl == ctrl && row.carousel.Len() == 0 {
			row.carousel.ShowEmptyMessage(fmt.Sprintf("%s (r)", retry))
		}
	}
	return statusCmd(fmt.Sprintf("%s: %s", ctrl.List().Title, retry), true)
}

// ensureLoaded requests the first page of a grid the first time it is shown
func (m *Model) ensureLoaded(v *gridView) tea.Cmd {
	if v.loaded {
		return nil
	}
	v.loaded = true
	return m.refresh(v)
}

func (m *Model) refresh(v *gridView) tea.Cmd {
	req, ok := v.ctrl.BeginRefresh()
	if !ok {
		return nil
	}
	return FetchPageCmd(v.ctrl, req)
}

func (m *Model) loadMore(v *gridView) tea.Cmd {
	req, ok := v.ctrl.BeginLoadMore()
	if !ok {
		return nil
	}
	return FetchPageCmd(v.ctrl, req)
}

func (m *Model) search(v *gridView) tea.Cmd {
	v.grid.ClearFilter()
	req, ok := v.ctrl.BeginSearch(v.form)
	if !ok {
		return nil
	}
	return FetchPageCmd(v.ctrl, req)
}

// switchView activates view idx, loading it on first visit
func (m *Model) switchView(idx int) tea.Cmd {
	m.active = idx
	m.focusHome()
	m.updateLayout()
	if v := m.activeView(); v != nil {
		return m.ensureLoaded(v)
	}
	return nil
}

// activeView returns the active grid view, or nil on the home view
func (m Model) activeView() *gridView {
	if m.active == HomeView || m.active > len(m.views) {
		return nil
	}
	return m.views[m.active-1]
}

func (m Model) viewCount() int {
	return len(m.views) + 1
}

func (m *Model) focusHome() {
	for i, row := range m.home {
		row.carousel.SetFocused(m.active == HomeView && i == m.homeFocus)
	}
	for i, v := range m.views {
		v.grid.SetFocused(m.active == i+1)
	}
}

// updateLayout sizes components to the window
func (m *Model) updateLayout() {
	if !m.Ready {
		return
	}
	for _, row := range m.home {
		row.carousel.SetWidth(m.Width)
	}
	gridHeight := m.Height - HeaderHeight - TriggerHeight - InspectorLines - ChromeHeight
	for _, v := range m.views {
		v.grid.SetSize(m.Width, max(gridHeight, components.CellHeight))
	}
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}
	if m.State == StateHelp {
		return m.renderHelp()
	}

	titles := []string{"Início"}
	for _, v := range m.views {
		titles = append(titles, v.list.Title)
	}
	header := RenderTabs(titles, m.active, m.Width)

	var body, triggers, inspector string
	bodyHeight := m.Height - HeaderHeight - TriggerHeight - InspectorLines - ChromeHeight

	if v := m.activeView(); v != nil {
		body = v.grid.View()
		if v.form != nil && v.form.IsVisible() {
			body = lipgloss.Place(m.Width, max(bodyHeight, 0),
				lipgloss.Center, lipgloss.Center, v.form.View())
		}
		triggers = m.renderTriggers(v)
		if p, ok := v.grid.Selected(); ok {
			inspector = RenderInspector(&p, m.Width)
		} else {
			inspector = RenderInspector(nil, m.Width)
		}
	} else {
		body = m.renderHome()
		triggers = RenderKeyHint("←/→", "rolar") + "  " +
			RenderKeyHint("↑/↓", "lista") + "  " +
			RenderKeyHint("enter", "ver todos")
		if len(m.home) > 0 {
			if p, ok := m.home[m.homeFocus].carousel.Current(); ok {
				inspector = RenderInspector(&p, m.Width)
			}
		}
		if inspector == "" {
			inspector = RenderInspector(nil, m.Width)
		}
	}

	body = lipgloss.NewStyle().
		Height(max(bodyHeight, 0)).
		MaxHeight(max(bodyHeight, 0)).
		Render(body)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		triggers,
		inspector,
		m.renderFooter(),
	)
}

func (m Model) renderHome() string {
	if len(m.home) == 0 {
		return styles.DimStyle.Render("Nenhuma lista configurada")
	}
	rows := make([]string, len(m.home))
	for i, row := range m.home {
		rows[i] = row.carousel.View()
	}
	return strings.Join(rows, "\n")
}

// renderTriggers renders the load more and search buttons of a grid view
func (m Model) renderTriggers(v *gridView) string {
	spin := RenderSpinner(m.SpinnerFrame)
	parts := []string{components.RenderTrigger(v.ctrl.LoadMoreTrigger(), spin)}

	if v.form != nil {
		parts = append(parts, components.RenderTrigger(v.ctrl.SearchTrigger(), spin))
		if names := v.form.CheckedNames(); len(names) > 0 {
			parts = append(parts, styles.AccentStyle.Render(strings.Join(names, ", ")))
		}
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	var left string
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.DimStyle.Render(m.StatusMsg)
		}
	} else if v := m.activeView(); v != nil {
		left = styles.DimStyle.Render(v.grid.Status())
		if q := v.grid.FilterQuery(); q != "" {
			left += styles.FilterStyle.Render(" /" + q)
		}
	}

	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
NAVIGATION                      LISTS
  h/j/k/l    Move                  m/Enter  Load more
  g/G        First/last poster     /        Filter posters
  PgUp/PgDn  Scroll page           f        Genres
  Tab        Next view             r        Refresh
  1-9        Go to view

HOME                            OTHER
  ←/→        Scroll carousel       q        Quit
  ↑/↓        Focus carousel        ?        This help
  Enter      Open list             Esc      Close / Cancel

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

// statusCmd emits a StatusMsg
func statusCmd(message string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Message: message, IsError: isErr}
	}
}
