// Vector path model for liquid shapes.
// Paths are built from lines, quadratic and cubic Béziers; arcs are
// converted to cubics on insertion (see arc.go).

package geom

import "math"

// SegmentKind identifies the curve type of a segment.
type SegmentKind int

const (
	SegLine  SegmentKind = iota // Straight line From -> To
	SegQuad                     // Quadratic Bézier with control C1
	SegCubic                    // Cubic Bézier with controls C1, C2
)

// DefaultTolerance is the flattening tolerance used for length and
// sampling, in path units.
const DefaultTolerance = 0.05

// Segment is one drawing step of a subpath.
type Segment struct {
	Kind SegmentKind
	From Point
	C1   Point // quad and cubic only
	C2   Point // cubic only
	To   Point
}

// Eval returns the point at parameter t ∈ [0,1].
func (s Segment) Eval(t float64) Point {
	switch s.Kind {
	case SegQuad:
		mt := 1 - t
		return Point{
			X: mt*mt*s.From.X + 2*mt*t*s.C1.X + t*t*s.To.X,
			Y: mt*mt*s.From.Y + 2*mt*t*s.C1.Y + t*t*s.To.Y,
		}
	case SegCubic:
		return cubicAt(s.From, s.C1, s.C2, s.To, t)
	}
	return s.From.Lerp(s.To, t)
}

// flattenSteps estimates how many line pieces keep the segment within tol
// of the true curve (Wang's formula).
func (s Segment) flattenSteps(tol float64) int {
	var m, k float64
	switch s.Kind {
	case SegQuad:
		m = s.From.Sub(s.C1.Scale(2)).Add(s.To).Dist(Point{})
		k = 0.25
	case SegCubic:
		m1 := s.From.Sub(s.C1.Scale(2)).Add(s.C2).Dist(Point{})
		m2 := s.C1.Sub(s.C2.Scale(2)).Add(s.To).Dist(Point{})
		m = math.Max(m1, m2)
		k = 0.75
	default:
		return 1
	}
	n := int(math.Ceil(math.Sqrt(k * m / tol)))
	if n < 1 {
		n = 1
	}
	if n > 1000 {
		n = 1000
	}
	return n
}

// Subpath is a connected run of segments starting at Start.
type Subpath struct {
	Start    Point
	Segments []Segment
	Closed   bool
}

// Path represents a vector path made of one or more subpaths.
type Path struct {
	subpaths   []Subpath
	current    Point
	hasCurrent bool
}

// NewPath creates an empty path.
func NewPath() *Path {
	return &Path{subpaths: make([]Subpath, 0, 1)}
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	pt := Pt(x, y)
	p.subpaths = append(p.subpaths, Subpath{Start: pt})
	p.current = pt
	p.hasCurrent = true
}

// open returns the subpath drawing commands should extend, starting a new
// one at the current point if the last subpath was closed.
func (p *Path) open() *Subpath {
	if len(p.subpaths) == 0 || p.subpaths[len(p.subpaths)-1].Closed {
		p.subpaths = append(p.subpaths, Subpath{Start: p.current})
		p.hasCurrent = true
	}
	return &p.subpaths[len(p.subpaths)-1]
}

// LineTo draws a straight line to (x, y).
func (p *Path) LineTo(x, y float64) {
	sp := p.open()
	to := Pt(x, y)
	sp.Segments = append(sp.Segments, Segment{Kind: SegLine, From: p.current, To: to})
	p.current = to
}

// QuadTo draws a quadratic Bézier curve.
func (p *Path) QuadTo(cx, cy, x, y float64) {
	sp := p.open()
	to := Pt(x, y)
	sp.Segments = append(sp.Segments, Segment{Kind: SegQuad, From: p.current, C1: Pt(cx, cy), To: to})
	p.current = to
}

// CubicTo draws a cubic Bézier curve.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	sp := p.open()
	to := Pt(x, y)
	sp.Segments = append(sp.Segments, Segment{
		Kind: SegCubic,
		From: p.current,
		C1:   Pt(c1x, c1y),
		C2:   Pt(c2x, c2y),
		To:   to,
	})
	p.current = to
}

// Close closes the current subpath with a line back to its start.
func (p *Path) Close() {
	if len(p.subpaths) == 0 {
		return
	}
	sp := &p.subpaths[len(p.subpaths)-1]
	if sp.Closed {
		return
	}
	if p.current != sp.Start {
		sp.Segments = append(sp.Segments, Segment{Kind: SegLine, From: p.current, To: sp.Start})
	}
	sp.Closed = true
	p.current = sp.Start
}

// Subpaths returns the subpaths of the path.
func (p *Path) Subpaths() []Subpath {
	return p.subpaths
}

// CurrentPoint returns the pen position and whether there is one.
func (p *Path) CurrentPoint() (Point, bool) {
	return p.current, p.hasCurrent
}

// Closed reports whether every subpath with segments is closed.
func (p *Path) Closed() bool {
	found := false
	for _, sp := range p.subpaths {
		if len(sp.Segments) == 0 {
			continue
		}
		if !sp.Closed {
			return false
		}
		found = true
	}
	return found
}

// Flatten converts the path to one polyline per subpath, keeping every
// point within tolerance of the true curve. Closed subpaths end at their
// start point.
func (p *Path) Flatten(tolerance float64) [][]Point {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	var lines [][]Point
	for _, sp := range p.subpaths {
		if len(sp.Segments) == 0 {
			continue
		}
		line := []Point{sp.Start}
		for _, seg := range sp.Segments {
			n := seg.flattenSteps(tolerance)
			for i := 1; i <= n; i++ {
				line = append(line, seg.Eval(float64(i)/float64(n)))
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// Length returns the arc length of the path.
func (p *Path) Length() float64 {
	total := 0.0
	for _, line := range p.Flatten(DefaultTolerance) {
		total += polylineLength(line)
	}
	return total
}

// Bounds returns the bounding rectangle of the flattened path.
func (p *Path) Bounds() Rect {
	var all []Point
	for _, line := range p.Flatten(DefaultTolerance) {
		all = append(all, line...)
	}
	return BoundsOf(all)
}

func polylineLength(line []Point) float64 {
	length := 0.0
	for i := 1; i < len(line); i++ {
		length += line[i-1].Dist(line[i])
	}
	return length
}

// cubicAt evaluates a cubic Bézier at t.
func cubicAt(p0, p1, p2, p3 Point, t float64) Point {
	mt := 1 - t
	mt2 := mt * mt
	mt3 := mt2 * mt
	t2 := t * t
	t3 := t2 * t

	return Point{
		X: mt3*p0.X + 3*mt2*t*p1.X + 3*mt*t2*p2.X + t3*p3.X,
		Y: mt3*p0.Y + 3*mt2*t*p1.Y + 3*mt*t2*p2.Y + t3*p3.Y,
	}
}
