// Package carousel scrolls horizontal poster strips, wrapping around at both ends.
package carousel

// Default scroll parameters, in pixels
const (
	DefaultStep         = 300
	DefaultEndTolerance = 10
)

// Behavior selects how a scroll is performed
type Behavior int

const (
	Smooth Behavior = iota
	Instant
)

// Metrics describes the scroll geometry of a container at a point in time
type Metrics struct {
	ScrollLeft  int // Current horizontal offset
	ClientWidth int // Visible width
	ScrollWidth int // Total content width
}

// MaxOffset returns the largest valid scroll offset
func (m Metrics) MaxOffset() int {
	return max(m.ScrollWidth-m.ClientWidth, 0)
}

// Scrollable is a horizontally scrollable container
type Scrollable interface {
	Metrics() Metrics
	ScrollTo(left int, b Behavior)
	ScrollBy(delta int, b Behavior)
}

// Lookup resolves container ids
type Lookup interface {
	Container(id string) (Scrollable, bool)
}

// Registry is a Lookup backed by a map
type Registry map[string]Scrollable

// Container implements Lookup
func (r Registry) Container(id string) (Scrollable, bool) {
	s, ok := r[id]
	return s, ok && s != nil
}

// ActionKind is what a scroll call decided to do
type ActionKind int

const (
	ActionNone ActionKind = iota // Container not found
	ActionStep                   // Scrolled by a fixed step
	ActionWrap                   // Jumped to the opposite end
)

// Action reports the scroll that was issued
type Action struct {
	Kind  ActionKind
	Delta int // Step actions
	To    int // Wrap actions
}

// Scroller issues scroll commands to containers. It keeps no state
// between calls: every decision is made from the metrics read at call time.
type Scroller struct {
	containers   Lookup
	Step         int
	EndTolerance int
}

// NewScroller creates a scroller with the default step and tolerance
func NewScroller(containers Lookup) Scroller {
	return Scroller{
		containers:   containers,
		Step:         DefaultStep,
		EndTolerance: DefaultEndTolerance,
	}
}

// ScrollLeft scrolls the container one step to the left, or wraps to the
// far right when it is already at the start.
func (s Scroller) ScrollLeft(id string) Action {
	c, ok := s.lookup(id)
	if !ok {
		return Action{Kind: ActionNone}
	}

	m := c.Metrics()
	if m.ScrollLeft <= 0 {
		to := m.MaxOffset()
		c.ScrollTo(to, Smooth)
		return Action{Kind: ActionWrap, To: to}
	}

	c.ScrollBy(-s.Step, Smooth)
	return Action{Kind: ActionStep, Delta: -s.Step}
}

// ScrollRight scrolls the container one step to the right, or wraps to the
// start when it is within EndTolerance of the end.
func (s Scroller) ScrollRight(id string) Action {
	c, ok := s.lookup(id)
	if !ok {
		return Action{Kind: ActionNone}
	}

	m := c.Metrics()
	if m.ScrollLeft+m.ClientWidth >= m.ScrollWidth-s.EndTolerance {
		c.ScrollTo(0, Smooth)
		return Action{Kind: ActionWrap, To: 0}
	}

	c.ScrollBy(s.Step, Smooth)
	return Action{Kind: ActionStep, Delta: s.Step}
}

func (s Scroller) lookup(id string) (Scrollable, bool) {
	if s.containers == nil {
		return nil, false
	}
	return s.containers.Container(id)
}
