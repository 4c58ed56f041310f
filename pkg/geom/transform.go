// Viewport mapping between device space and a shape's local space.
// Follows the SVG viewBox and preserveAspectRatio rules.

package geom

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"
)

// Align selects how a viewBox is fitted into its on-screen bounds.
type Align int

const (
	AlignMeet    Align = iota // xMidYMid meet: uniform scale, whole viewBox visible
	AlignSlice                // xMidYMid slice: uniform scale, bounds fully covered
	AlignStretch              // none: independent x and y scale
)

// String returns the preserveAspectRatio value for the alignment.
func (a Align) String() string {
	switch a {
	case AlignSlice:
		return "xMidYMid slice"
	case AlignStretch:
		return "none"
	}
	return "xMidYMid meet"
}

// ParseAlign converts a preserveAspectRatio-style name to an Align.
// "meet", "slice" and "none"/"stretch" are accepted, as are the full
// xMidYMid forms. Empty input yields AlignMeet.
func ParseAlign(s string) (Align, error) {
	switch s {
	case "", "meet", "xMidYMid", "xMidYMid meet":
		return AlignMeet, nil
	case "slice", "xMidYMid slice":
		return AlignSlice, nil
	case "none", "stretch":
		return AlignStretch, nil
	}
	return AlignMeet, fmt.Errorf("unknown alignment %q", s)
}

// Viewport describes how a shape's local coordinates are placed on a
// rendering surface.
type Viewport struct {
	ViewBox Rect  // intrinsic local coordinate box
	Bounds  Rect  // on-screen rectangle in device units
	Align   Align // aspect handling
}

// Transformer maps points between device and local space for one
// viewport. Build a new one whenever the surface is resized.
type Transformer struct {
	vp       Viewport
	toDevice gg.Matrix
	toLocal  gg.Matrix
}

// NewTransformer validates the viewport and precomputes both mappings.
// It fails with ErrZeroSize if either rectangle has no finite area.
func NewTransformer(vp Viewport) (*Transformer, error) {
	for _, r := range []Rect{vp.ViewBox, vp.Bounds} {
		if !Pt(r.X, r.Y).IsFinite() {
			return nil, fmt.Errorf("%w: viewport origin (%g, %g)", ErrNonFinite, r.X, r.Y)
		}
	}
	if vp.ViewBox.Empty() {
		return nil, fmt.Errorf("%w: viewBox %gx%g", ErrZeroSize, vp.ViewBox.W, vp.ViewBox.H)
	}
	if vp.Bounds.Empty() {
		return nil, fmt.Errorf("%w: bounds %gx%g", ErrZeroSize, vp.Bounds.W, vp.Bounds.H)
	}

	sx := vp.Bounds.W / vp.ViewBox.W
	sy := vp.Bounds.H / vp.ViewBox.H
	switch vp.Align {
	case AlignMeet:
		sx = math.Min(sx, sy)
		sy = sx
	case AlignSlice:
		sx = math.Max(sx, sy)
		sy = sx
	}

	// Centre the scaled viewBox inside the bounds
	tx := vp.Bounds.X + (vp.Bounds.W-vp.ViewBox.W*sx)/2
	ty := vp.Bounds.Y + (vp.Bounds.H-vp.ViewBox.H*sy)/2

	m := gg.Translate(tx, ty).
		Multiply(gg.Scale(sx, sy)).
		Multiply(gg.Translate(-vp.ViewBox.X, -vp.ViewBox.Y))

	return &Transformer{vp: vp, toDevice: m, toLocal: m.Invert()}, nil
}

// Viewport returns the viewport the transformer was built for.
func (t *Transformer) Viewport() Viewport {
	return t.vp
}

// ToLocal maps a device-space point into local space.
func (t *Transformer) ToLocal(device Point) (Point, error) {
	if !device.IsFinite() {
		return Point{}, fmt.Errorf("%w: device point (%g, %g)", ErrNonFinite, device.X, device.Y)
	}
	q := t.toLocal.TransformPoint(gg.Pt(device.X, device.Y))
	return Point{q.X, q.Y}, nil
}

// ToDevice maps a local-space point onto the surface.
func (t *Transformer) ToDevice(local Point) Point {
	q := t.toDevice.TransformPoint(gg.Pt(local.X, local.Y))
	return Point{q.X, q.Y}
}

// Matrix returns the local-to-device matrix, for hosts that draw with gg.
func (t *Transformer) Matrix() gg.Matrix {
	return t.toDevice
}

// Scale returns the horizontal and vertical scale factors from local to
// device units.
func (t *Transformer) Scale() (sx, sy float64) {
	return t.toDevice.A, t.toDevice.E
}
