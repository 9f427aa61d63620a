package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mmcdole/marquee/internal/carousel"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// PixelsPerColumn maps carousel pixel geometry onto terminal columns
const PixelsPerColumn = 10

// CarouselHeight is the rendered height: title line plus one poster row
const CarouselHeight = CellHeight + 1

// Carousel is a horizontal poster strip. It implements domain.Renderer
// and carousel.Scrollable; offsets are in pixels.
type Carousel struct {
	title    string
	posters  []domain.Poster
	emptyMsg string
	view     *carousel.View

	width   int
	focused bool
}

// NewCarousel creates an empty carousel
func NewCarousel(title string) *Carousel {
	return &Carousel{title: title, view: carousel.NewView(0, 0)}
}

// Title returns the carousel heading
func (c *Carousel) Title() string {
	return c.title
}

// Append implements domain.Renderer
func (c *Carousel) Append(p domain.Poster) {
	c.emptyMsg = ""
	c.posters = append(c.posters, p)
	c.resize()
}

// Clear implements domain.Renderer
func (c *Carousel) Clear() {
	c.posters = nil
	c.emptyMsg = ""
	c.resize()
	c.view.ScrollTo(0, carousel.Instant)
}

// ShowEmptyMessage implements domain.Renderer
func (c *Carousel) ShowEmptyMessage(msg string) {
	c.Clear()
	c.emptyMsg = msg
}

// EmptyMessage returns the message shown in place of posters
func (c *Carousel) EmptyMessage() string {
	return c.emptyMsg
}

// Len returns the number of posters
func (c *Carousel) Len() int {
	return len(c.posters)
}

// SetWidth updates the visible width in columns
func (c *Carousel) SetWidth(width int) {
	c.width = max(width, 0)
	c.resize()
}

// SetFocused sets the focus state
func (c *Carousel) SetFocused(focused bool) {
	c.focused = focused
}

func (c *Carousel) resize() {
	c.view.SetSize(c.width*PixelsPerColumn, len(c.posters)*CellWidth*PixelsPerColumn)
}

// Metrics implements carousel.Scrollable
func (c *Carousel) Metrics() carousel.Metrics {
	return c.view.Metrics()
}

// ScrollTo implements carousel.Scrollable
func (c *Carousel) ScrollTo(left int, b carousel.Behavior) {
	c.view.ScrollTo(left, b)
}

// ScrollBy implements carousel.Scrollable
func (c *Carousel) ScrollBy(delta int, b carousel.Behavior) {
	c.view.ScrollBy(delta, b)
}

// Animating reports whether a smooth scroll is in progress
func (c *Carousel) Animating() bool {
	return c.view.Animating()
}

// Tick advances the scroll animation by one frame
func (c *Carousel) Tick() bool {
	return c.view.Tick()
}

// Current returns the leftmost fully or partially visible poster
func (c *Carousel) Current() (domain.Poster, bool) {
	if len(c.posters) == 0 {
		return domain.Poster{}, false
	}
	col := c.view.Offset() / PixelsPerColumn
	i := min(col/CellWidth, len(c.posters)-1)
	return c.posters[i], true
}

// View renders the heading and the visible slice of the strip
func (c *Carousel) View() string {
	heading := styles.SubtitleStyle.Render(c.title)
	if c.focused {
		heading = styles.AccentStyle.Bold(true).Render("▸ " + c.title)
	}

	if len(c.posters) == 0 {
		msg := c.emptyMsg
		if msg == "" {
			msg = "Carregando..."
		}
		body := styles.DimStyle.Render(msg) + strings.Repeat("\n", CellHeight-1)
		return lipgloss.JoinVertical(lipgloss.Left, heading, body)
	}

	left := c.view.Offset() / PixelsPerColumn
	first := left / CellWidth
	last := min((left+c.width)/CellWidth+1, len(c.posters))

	cells := make([]string, 0, last-first)
	for i := first; i < last; i++ {
		cells = append(cells, RenderPosterCell(c.posters[i], false))
	}
	strip := lipgloss.JoinHorizontal(lipgloss.Top, cells...)

	// Cut the strip to the viewport, relative to the first rendered cell
	cut := left - first*CellWidth
	lines := strings.Split(strip, "\n")
	for i, line := range lines {
		lines[i] = ansi.Cut(line, cut, cut+c.width)
	}

	return lipgloss.JoinVertical(lipgloss.Left, heading, strings.Join(lines, "\n"))
}
