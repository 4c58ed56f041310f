// Per-point motion state machine.
// Each control point cycles Idle -> Displacing -> Returning -> Idle. A
// pointer inside a point's range (re)starts Displacing from wherever the
// point currently is; ticks advance the tweens and chain Returning.

package liquid

import (
	"math"
	"sync"
	"time"

	"github.com/ha1tch/liquid-toolkit/pkg/geom"
)

// State is the motion phase of a control point.
type State int

const (
	Idle       State = iota // at rest on its origin
	Displacing              // pushed away from the pointer
	Returning               // springing back to its origin
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Displacing:
		return "displacing"
	case Returning:
		return "returning"
	}
	return "unknown"
}

// ControlPoint is one sampled point of a shape.
type ControlPoint struct {
	Index   int
	Origin  geom.Point // rest position, fixed after sampling
	Current geom.Point // animated position
}

// MotionTask is the active motion of one point. The zero value is Idle.
type MotionTask struct {
	State     State
	From      geom.Point
	Target    geom.Point
	StartedAt time.Time
	Duration  time.Duration
	Easing    Easing
}

func (m MotionTask) tween() Tween {
	return Tween{From: m.From, To: m.Target, Start: m.StartedAt, Duration: m.Duration, Ease: m.Easing}
}

// End returns the instant the task's phase completes.
func (m MotionTask) End() time.Time {
	return m.StartedAt.Add(m.Duration)
}

// Transition records one state change of one point.
type Transition struct {
	Index int
	From  State
	To    State
	At    time.Time
}

// historyLimit bounds the transition history kept by a Controller.
const historyLimit = 1024

// InRange reports whether pointer is within r of origin on both axes.
func InRange(origin, pointer geom.Point, r Range) bool {
	return math.Abs(origin.X-pointer.X) <= r.X && math.Abs(origin.Y-pointer.Y) <= r.Y
}

// DisplacementTarget reflects origin away from pointer (origin + (origin -
// pointer)) and clamps the result to origin ± maxDist on each axis.
func DisplacementTarget(origin, pointer, maxDist geom.Point) geom.Point {
	raw := origin.Add(origin.Sub(pointer))
	return geom.Point{
		X: clamp(raw.X, origin.X-maxDist.X, origin.X+maxDist.X),
		Y: clamp(raw.Y, origin.Y-maxDist.Y, origin.Y+maxDist.Y),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MaxDisplacement returns how far points may move on each axis: half the
// distance between the first two origins on enabled axes, zero otherwise.
func MaxDisplacement(origins []geom.Point, axes []Axis) geom.Point {
	if len(origins) < 2 {
		return geom.Point{}
	}
	half := origins[0].Dist(origins[1]) / 2
	if !finite(half) {
		return geom.Point{}
	}

	var m geom.Point
	for _, a := range axes {
		switch a {
		case AxisX:
			m.X = half
		case AxisY:
			m.Y = half
		}
	}
	return m
}

// Controller owns the control points of one shape and their motion.
// It is safe for concurrent use; Pointer and Step never block on each
// other beyond a short critical section.
type Controller struct {
	mu       sync.Mutex
	points   []ControlPoint
	tasks    []MotionTask
	rng      Range
	maxDist  geom.Point
	timing   Timing
	displace Easing
	ret      Easing
	history  []Transition
}

// NewController creates a controller with every point idle on its origin.
func NewController(origins []geom.Point, cfg PathConfig) *Controller {
	timing := cfg.Timing.WithDefaults()
	displace, ret := phaseEasings(timing)

	c := &Controller{
		points:   make([]ControlPoint, len(origins)),
		tasks:    make([]MotionTask, len(origins)),
		rng:      cfg.Range,
		maxDist:  MaxDisplacement(origins, cfg.Axis),
		timing:   timing,
		displace: displace,
		ret:      ret,
	}
	for i, o := range origins {
		c.points[i] = ControlPoint{Index: i, Origin: o, Current: o}
	}
	return c
}

// Pointer reacts to a pointer at local position p. Every point in range
// has its motion replaced by a new Displacing task towards its clamped
// target, starting from its current position. Pending phase changes of
// replaced tasks are discarded. It returns the number of points triggered.
func (c *Controller) Pointer(p geom.Point, now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for i := range c.points {
		cp := &c.points[i]
		if !InRange(cp.Origin, p, c.rng) {
			continue
		}

		prev := c.tasks[i].State
		c.tasks[i] = MotionTask{
			State:     Displacing,
			From:      cp.Current,
			Target:    DisplacementTarget(cp.Origin, p, c.maxDist),
			StartedAt: now,
			Duration:  c.timing.Displace,
			Easing:    c.displace,
		}
		c.record(i, prev, Displacing, now)
		n++
	}
	return n
}

// Step advances every active task to now and updates current positions.
// A finished Displacing task chains into Returning starting at the moment
// it finished; a finished Returning task leaves the point exactly on its
// origin. It reports whether any point is still moving.
func (c *Controller) Step(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	busy := false
	for i := range c.points {
		cp := &c.points[i]
		task := &c.tasks[i]

		if task.State == Displacing && !now.Before(task.End()) {
			end := task.End()
			*task = MotionTask{
				State:     Returning,
				From:      task.Target,
				Target:    cp.Origin,
				StartedAt: end,
				Duration:  c.timing.Return,
				Easing:    c.ret,
			}
			c.record(i, Displacing, Returning, end)
		}
		if task.State == Returning && !now.Before(task.End()) {
			c.record(i, Returning, Idle, task.End())
			*task = MotionTask{}
			cp.Current = cp.Origin
			continue
		}
		if task.State == Idle {
			continue
		}

		cp.Current = task.tween().At(now)
		busy = true
	}
	return busy
}

func (c *Controller) record(i int, from, to State, at time.Time) {
	if len(c.history) >= historyLimit {
		n := copy(c.history, c.history[len(c.history)-historyLimit+1:])
		c.history = c.history[:n]
	}
	c.history = append(c.history, Transition{Index: i, From: from, To: to, At: at})
}

// Reset puts every point back on its origin and clears all motion and
// history.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.points {
		c.points[i].Current = c.points[i].Origin
		c.tasks[i] = MotionTask{}
	}
	c.history = nil
}

// Len returns the number of control points.
func (c *Controller) Len() int {
	return len(c.points)
}

// Snapshot returns the current positions in path order.
func (c *Controller) Snapshot() []geom.Point {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]geom.Point, len(c.points))
	for i, cp := range c.points {
		out[i] = cp.Current
	}
	return out
}

// Origins returns the rest positions in path order.
func (c *Controller) Origins() []geom.Point {
	out := make([]geom.Point, len(c.points))
	for i, cp := range c.points {
		out[i] = cp.Origin
	}
	return out
}

// Points returns a copy of the control points.
func (c *Controller) Points() []ControlPoint {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ControlPoint(nil), c.points...)
}

// State returns the motion phase of point i.
func (c *Controller) State(i int) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tasks[i].State
}

// Task returns the active task of point i.
func (c *Controller) Task(i int) MotionTask {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tasks[i]
}

// MaxDist returns the per-axis displacement limit.
func (c *Controller) MaxDist() geom.Point {
	return c.maxDist
}

// Busy reports whether any point has an active task.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.tasks {
		if t.State != Idle {
			return true
		}
	}
	return false
}

// History returns the recorded state transitions, oldest first.
func (c *Controller) History() []Transition {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Transition(nil), c.history...)
}
