// Package liquid animates the control points of a vector shape so they
// are pushed away by a nearby pointer and spring back to rest.
package liquid

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrInvalidConfig is returned when a PathConfig fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Axis names a coordinate axis along which points may move.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// ParseAxes parses a comma or space separated axis list ("x,y", "x").
func ParseAxes(s string) ([]Axis, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	axes := make([]Axis, 0, len(fields))
	for _, f := range fields {
		a := Axis(strings.ToLower(f))
		if a != AxisX && a != AxisY {
			return nil, fmt.Errorf("%w: unknown axis %q", ErrInvalidConfig, f)
		}
		axes = append(axes, a)
	}
	return axes, nil
}

// Range is the trigger distance around each point, per axis, in local units.
type Range struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Timing controls the two motion phases.
type Timing struct {
	Displace  time.Duration // push-away phase
	Return    time.Duration // elastic return phase
	Amplitude float64       // elastic amplitude, at least 1
	Period    float64       // elastic period as a fraction of Return

	// Optional easing names for the two phases (see EasingByName).
	// Empty selects sine.out and elastic.out. A bare elastic.out uses
	// Amplitude and Period; "elastic.out(a, p)" overrides them.
	DisplaceEase string
	ReturnEase   string
}

// Default phase timings.
const (
	DefaultDisplace  = 175 * time.Millisecond
	DefaultReturn    = 1250 * time.Millisecond
	DefaultAmplitude = 1.0
	DefaultPeriod    = 0.3
)

// DefaultTiming returns the standard push and return timings.
func DefaultTiming() Timing {
	return Timing{
		Displace:  DefaultDisplace,
		Return:    DefaultReturn,
		Amplitude: DefaultAmplitude,
		Period:    DefaultPeriod,
	}
}

// WithDefaults fills zero fields with the default timings.
func (t Timing) WithDefaults() Timing {
	if t.Displace == 0 {
		t.Displace = DefaultDisplace
	}
	if t.Return == 0 {
		t.Return = DefaultReturn
	}
	if t.Amplitude == 0 {
		t.Amplitude = DefaultAmplitude
	}
	if t.Period == 0 {
		t.Period = DefaultPeriod
	}
	return t
}

// PathConfig configures how a shape is sampled and animated.
type PathConfig struct {
	Detail  int     // number of control points
	Tension float64 // spline tension, 1 is Catmull-Rom
	Closed  bool
	Axis    []Axis // axes along which points may move
	Range   Range
	Timing  Timing
}

// MaxDetail is the largest number of control points a shape may request.
const MaxDetail = 4096

// DefaultPathConfig returns the configuration used by the demo shapes.
func DefaultPathConfig() PathConfig {
	return PathConfig{
		Detail:  16,
		Tension: 1,
		Closed:  true,
		Axis:    []Axis{AxisX, AxisY},
		Range:   Range{X: 20, Y: 20},
		Timing:  DefaultTiming(),
	}
}

// HasAxis reports whether points may move along a.
func (c PathConfig) HasAxis(a Axis) bool {
	for _, x := range c.Axis {
		if x == a {
			return true
		}
	}
	return false
}

// Validate checks the configuration for values the engine cannot use.
// Detail above MaxDetail is rejected here; too small a detail is left to
// sampling, which reports ErrInsufficientGeometry.
func (c PathConfig) Validate() error {
	if c.Detail > MaxDetail {
		return fmt.Errorf("%w: detail %d exceeds %d", ErrInvalidConfig, c.Detail, MaxDetail)
	}
	if !finite(c.Tension) {
		return fmt.Errorf("%w: tension %g", ErrInvalidConfig, c.Tension)
	}
	if !finite(c.Range.X) || !finite(c.Range.Y) || c.Range.X < 0 || c.Range.Y < 0 {
		return fmt.Errorf("%w: range (%g, %g)", ErrInvalidConfig, c.Range.X, c.Range.Y)
	}

	seen := make(map[Axis]bool)
	for _, a := range c.Axis {
		if a != AxisX && a != AxisY {
			return fmt.Errorf("%w: unknown axis %q", ErrInvalidConfig, a)
		}
		if seen[a] {
			return fmt.Errorf("%w: duplicate axis %q", ErrInvalidConfig, a)
		}
		seen[a] = true
	}

	t := c.Timing
	if t.Displace < 0 || t.Return < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidConfig)
	}
	if !finite(t.Amplitude) || t.Amplitude < 0 {
		return fmt.Errorf("%w: amplitude %g", ErrInvalidConfig, t.Amplitude)
	}
	if !finite(t.Period) || t.Period < 0 {
		return fmt.Errorf("%w: period %g", ErrInvalidConfig, t.Period)
	}
	for _, name := range []string{t.DisplaceEase, t.ReturnEase} {
		if name == "" {
			continue
		}
		if _, err := EasingByName(name); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
