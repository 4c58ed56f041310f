// Easing curves for the motion phases.

package liquid

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/tanema/gween/ease"
)

// Easing maps elapsed fraction t ∈ [0,1] to progress. Progress starts at 0
// and ends at exactly 1 but may overshoot in between.
type Easing func(t float64) float64

func clamp01(t float64) float64 {
	if t < 0 || math.IsNaN(t) {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Linear is constant-speed progress.
func Linear(t float64) float64 {
	return clamp01(t)
}

// SineOut decelerates along a quarter sine wave.
func SineOut(t float64) float64 {
	return math.Sin(clamp01(t) * math.Pi / 2)
}

// SineInOut accelerates then decelerates along a half cosine wave.
func SineInOut(t float64) float64 {
	return -(math.Cos(math.Pi*clamp01(t)) - 1) / 2
}

// ElasticOut returns a damped oscillation that overshoots the target and
// settles. amplitude below 1 is treated as 1; period is the oscillation
// length as a fraction of the whole tween (0.3 gives one visible bounce).
func ElasticOut(amplitude, period float64) Easing {
	a := amplitude
	p := period
	if p <= 0 {
		p = DefaultPeriod
	}
	if a < 1 {
		// Small amplitudes shorten the period instead
		if a > 0 {
			p /= a
		}
		a = 1
	}
	s := p / (2 * math.Pi) * math.Asin(1/a)
	w := 2 * math.Pi / p

	return func(t float64) float64 {
		t = clamp01(t)
		if t == 0 {
			return 0
		}
		if t == 1 {
			return 1
		}
		return a*math.Pow(2, -10*t)*math.Sin((t-s)*w) + 1
	}
}

// fromTween adapts a Penner function (t, begin, change, duration) to Easing.
func fromTween(fn ease.TweenFunc) Easing {
	return func(t float64) float64 {
		t = clamp01(t)
		if t == 1 {
			return 1
		}
		return float64(fn(float32(t), 0, 1, 1))
	}
}

var easings = map[string]Easing{
	"linear":      Linear,
	"none":        Linear,
	"sine.out":    SineOut,
	"sine.inout":  SineInOut,
	"elastic.out": ElasticOut(DefaultAmplitude, DefaultPeriod),
	"quad.in":     fromTween(ease.InQuad),
	"quad.out":    fromTween(ease.OutQuad),
	"quad.inout":  fromTween(ease.InOutQuad),
	"cubic.out":   fromTween(ease.OutCubic),
	"cubic.inout": fromTween(ease.InOutCubic),
	"expo.out":    fromTween(ease.OutExpo),
	"circ.out":    fromTween(ease.OutCirc),
	"back.out":    fromTween(ease.OutBack),
	"bounce.out":  fromTween(ease.OutBounce),
}

// EasingByName looks up an easing by its dotted name, e.g. "sine.out" or
// "bounce.out". Names are case-insensitive. elastic.out also takes the
// parameterised form "elastic.out(amplitude, period)"; either argument may
// be omitted.
func EasingByName(name string) (Easing, error) {
	return resolveEasing(name, DefaultAmplitude, DefaultPeriod)
}

// resolveEasing is EasingByName with the amplitude and period a bare
// "elastic.out" should use.
func resolveEasing(name string, amplitude, period float64) (Easing, error) {
	base, args, err := splitEasing(name)
	if err != nil {
		return nil, err
	}
	if base == "elastic.out" {
		if len(args) > 0 {
			amplitude = args[0]
		}
		if len(args) > 1 {
			period = args[1]
		}
		return ElasticOut(amplitude, period), nil
	}
	if args != nil {
		return nil, fmt.Errorf("easing %q takes no parameters", name)
	}
	if e, ok := easings[base]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("unknown easing %q", name)
}

// splitEasing separates "name(a, b)" into its lowercased name and
// arguments. args is nil when there are no parentheses.
func splitEasing(name string) (base string, args []float64, err error) {
	s := strings.ToLower(strings.TrimSpace(name))
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return s, nil, nil
	}
	if !strings.HasSuffix(s, ")") {
		return "", nil, fmt.Errorf("unterminated easing parameters in %q", name)
	}
	base = strings.TrimSpace(s[:open])
	inner := strings.TrimSpace(s[open+1 : len(s)-1])

	args = []float64{}
	if inner == "" {
		return base, args, nil
	}
	for _, f := range strings.Split(inner, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil || !finite(v) || v < 0 {
			return "", nil, fmt.Errorf("bad easing parameter %q in %q", strings.TrimSpace(f), name)
		}
		args = append(args, v)
	}
	if len(args) > 2 {
		return "", nil, fmt.Errorf("too many easing parameters in %q", name)
	}
	return base, args, nil
}

// EasingNames returns the known easing names, sorted.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for n := range easings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// phaseEasings resolves the easings for both phases of a timing. An
// elastic.out without parameters takes the timing's amplitude and period,
// so naming it behaves like leaving the name empty.
func phaseEasings(t Timing) (displace, ret Easing) {
	displace, ret = SineOut, ElasticOut(t.Amplitude, t.Period)
	if e, err := resolveEasing(t.DisplaceEase, t.Amplitude, t.Period); err == nil {
		displace = e
	}
	if e, err := resolveEasing(t.ReturnEase, t.Amplitude, t.Period); err == nil {
		ret = e
	}
	return displace, ret
}
