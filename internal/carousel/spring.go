package carousel

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// Spring animation parameters
const (
	FPS              = 60
	angularFrequency = 7.0
	dampingRatio     = 1.0 // Critically damped: no overshoot past the ends
	settleDistance   = 0.5
)

// FrameInterval is the time between animation frames
var FrameInterval = time.Second / FPS

// View is a Scrollable whose smooth scrolls are animated by a spring.
// Call Tick once per frame while Animating reports true.
type View struct {
	spring   harmonica.Spring
	pos      float64
	velocity float64
	target   int

	clientWidth int
	scrollWidth int
}

// NewView creates a view with the given visible and content widths
func NewView(clientWidth, scrollWidth int) *View {
	v := &View{spring: harmonica.NewSpring(harmonica.FPS(FPS), angularFrequency, dampingRatio)}
	v.SetSize(clientWidth, scrollWidth)
	return v
}

// SetSize updates the geometry, clamping the current position
func (v *View) SetSize(clientWidth, scrollWidth int) {
	v.clientWidth = max(clientWidth, 0)
	v.scrollWidth = max(scrollWidth, v.clientWidth)
	v.target = v.clamp(v.target)
	if v.pos > float64(v.Metrics().MaxOffset()) {
		v.pos = float64(v.target)
		v.velocity = 0
	}
}

// Metrics implements Scrollable. ScrollLeft is the animated position.
func (v *View) Metrics() Metrics {
	return Metrics{
		ScrollLeft:  int(math.Round(v.pos)),
		ClientWidth: v.clientWidth,
		ScrollWidth: v.scrollWidth,
	}
}

// ScrollTo implements Scrollable
func (v *View) ScrollTo(left int, b Behavior) {
	v.target = v.clamp(left)
	if b == Instant {
		v.pos = float64(v.target)
		v.velocity = 0
	}
}

// ScrollBy implements Scrollable
func (v *View) ScrollBy(delta int, b Behavior) {
	v.ScrollTo(v.Metrics().ScrollLeft+delta, b)
}

// Target returns the offset the view is moving towards
func (v *View) Target() int {
	return v.target
}

// Offset returns the current animated offset
func (v *View) Offset() int {
	return v.Metrics().ScrollLeft
}

// Animating reports whether the view has not settled on its target yet
func (v *View) Animating() bool {
	return math.Abs(v.pos-float64(v.target)) > settleDistance || math.Abs(v.velocity) > settleDistance
}

// Tick advances the animation by one frame and reports whether it is still running
func (v *View) Tick() bool {
	if !v.Animating() {
		v.pos = float64(v.target)
		v.velocity = 0
		return false
	}
	v.pos, v.velocity = v.spring.Update(v.pos, v.velocity, float64(v.target))
	return v.Animating()
}

func (v *View) clamp(x int) int {
	return min(max(x, 0), v.Metrics().MaxOffset())
}
