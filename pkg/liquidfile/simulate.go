// Scripted pointer simulation.
// Runs an engine against a manual clock so the same script always
// produces the same frames.

package liquidfile

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ha1tch/liquid-toolkit/pkg/geom"
	"github.com/ha1tch/liquid-toolkit/pkg/liquid"
)

// PointerEvent is one pointer move in device coordinates.
type PointerEvent struct {
	AtMs int     `yaml:"atMs" json:"atMs"`
	X    float64 `yaml:"x" json:"x"`
	Y    float64 `yaml:"y" json:"y"`
}

// PointerScript drives a simulation.
type PointerScript struct {
	Bounds     [4]float64     `yaml:"bounds,flow" json:"bounds"` // device viewport: x y width height
	DurationMs int            `yaml:"durationMs,omitempty" json:"durationMs,omitempty"`
	FPS        int            `yaml:"fps,omitempty" json:"fps,omitempty"`
	Events     []PointerEvent `yaml:"events" json:"events"`
}

// settleMs is added after the last event when no duration is given.
const settleMs = 1500

// ParseScript decodes a pointer script and fills in defaults.
func ParseScript(data []byte, format Format) (*PointerScript, error) {
	var s PointerScript
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parsing YAML script: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parsing JSON script: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err := s.normalise(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ReadScriptFile reads a pointer script, picking the format from the
// extension.
func ReadScriptFile(path string) (*PointerScript, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data, format)
}

func (s *PointerScript) normalise() error {
	if s.Bounds[2] <= 0 || s.Bounds[3] <= 0 {
		return fmt.Errorf("script bounds %v: %w", s.Bounds, geom.ErrZeroSize)
	}
	if s.FPS < 0 || s.DurationMs < 0 {
		return fmt.Errorf("script fps and duration must not be negative")
	}
	if s.FPS == 0 {
		s.FPS = 60
	}
	for i, ev := range s.Events {
		if ev.AtMs < 0 {
			return fmt.Errorf("event %d: negative time %dms", i, ev.AtMs)
		}
	}
	sort.SliceStable(s.Events, func(i, j int) bool { return s.Events[i].AtMs < s.Events[j].AtMs })
	if s.DurationMs == 0 {
		s.DurationMs = settleMs
		if n := len(s.Events); n > 0 {
			s.DurationMs += s.Events[n-1].AtMs
		}
	}
	return nil
}

// BoundsRect returns the script's device viewport.
func (s *PointerScript) BoundsRect() geom.Rect {
	return geom.R(s.Bounds[0], s.Bounds[1], s.Bounds[2], s.Bounds[3])
}

// SimOptions configures Simulate.
type SimOptions struct {
	ReducedMotion bool
	Logger        *slog.Logger
}

// SimResult holds the frames produced by a simulation.
type SimResult struct {
	Shape       Shape
	Script      *PointerScript
	Start       time.Time
	Frames      []liquid.Frame
	Points      [][]geom.Point // control points for each frame
	Transitions []liquid.Transition
	Delivered   int // pointer events published to the engine
}

// simEpoch is the fixed clock origin for simulations.
var simEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Simulate runs the shape's engine through the script. Pointer events are
// delivered before the frame at the same instant. With reduced motion the
// result has a single rest frame.
func Simulate(sh Shape, script *PointerScript, opts SimOptions) (*SimResult, error) {
	clock := liquid.NewManualClock(simEpoch)
	engineOpts := []liquid.Option{
		liquid.WithClock(clock),
		liquid.WithViewport(sh.Viewport(script.BoundsRect())),
		liquid.WithReducedMotion(opts.ReducedMotion),
	}
	if opts.Logger != nil {
		engineOpts = append(engineOpts, liquid.WithLogger(opts.Logger))
	}
	e, err := sh.Engine(engineOpts...)
	if err != nil {
		return nil, err
	}
	defer e.Close()

	res := &SimResult{Shape: sh, Script: script, Start: simEpoch}
	sink := func(f liquid.Frame) {
		res.Frames = append(res.Frames, f)
		res.Points = append(res.Points, e.Controller().Snapshot())
	}

	pointers := liquid.NewPointerFeed()
	frames := liquid.NewIntervalFrames(liquid.FPS(script.FPS))
	if err := e.Attach(pointers, frames, sink); err != nil {
		return nil, err
	}
	if opts.ReducedMotion {
		return res, nil
	}

	step := frames.Interval()
	end := simEpoch.Add(time.Duration(script.DurationMs) * time.Millisecond)
	next := 0
	for now := simEpoch; !now.After(end); now = now.Add(step) {
		for next < len(script.Events) {
			ev := script.Events[next]
			at := simEpoch.Add(time.Duration(ev.AtMs) * time.Millisecond)
			if at.After(now) {
				break
			}
			clock.Set(at)
			pointers.Publish(geom.Pt(ev.X, ev.Y))
			res.Delivered++
			next++
		}
		clock.Set(now)
		frames.Fire(now)
	}

	res.Transitions = e.Controller().History()
	return res, nil
}

// ShapeFrames converts the simulation frames to drawable shape frames.
func (r *SimResult) ShapeFrames() []ShapeFrame {
	out := make([]ShapeFrame, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = ShapeFrame{Shape: r.Shape, Curve: f.Curve}
		if i < len(r.Points) {
			out[i].Points = r.Points[i]
		}
	}
	return out
}

// Offset returns the time of frame i relative to the simulation start.
func (r *SimResult) Offset(i int) time.Duration {
	return r.Frames[i].At.Sub(r.Start)
}
