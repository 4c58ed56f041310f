package liquid

import (
	"time"

	"github.com/ha1tch/liquid-toolkit/pkg/geom"
)

// Tween moves a point from From to To over Duration starting at Start.
type Tween struct {
	From     geom.Point
	To       geom.Point
	Start    time.Time
	Duration time.Duration
	Ease     Easing
}

// End returns the instant the tween completes.
func (tw Tween) End() time.Time {
	return tw.Start.Add(tw.Duration)
}

// Progress returns the elapsed fraction at now, clamped to [0,1].
func (tw Tween) Progress(now time.Time) float64 {
	if tw.Duration <= 0 {
		return 1
	}
	return clamp01(float64(now.Sub(tw.Start)) / float64(tw.Duration))
}

// Done reports whether the tween has finished at now.
func (tw Tween) Done(now time.Time) bool {
	return !now.Before(tw.End())
}

// At returns the eased position at now. A finished tween yields To exactly.
func (tw Tween) At(now time.Time) geom.Point {
	t := tw.Progress(now)
	if t >= 1 {
		return tw.To
	}
	ease := tw.Ease
	if ease == nil {
		ease = Linear
	}
	return tw.From.Lerp(tw.To, ease(t))
}
