// Smooth curves through control points.
// Catmull-Rom splines converted to cubic Bézier segments, emitted as
// draw commands a rendering surface can consume directly.

package geom

import (
	"strconv"
	"strings"
)

// Op is a curve drawing command.
type Op int

const (
	OpMove  Op = iota // Points[0] is the new pen position
	OpCubic           // Points are ctrl1, ctrl2, end
	OpClose           // No points
)

// Command is one step of a Curve.
type Command struct {
	Op     Op
	Points []Point
}

// Curve is an ordered list of draw commands.
type Curve struct {
	Commands []Command
}

// Spline builds a smooth curve passing through every point in order.
//
// Each segment p1->p2 uses its neighbours p0 and p3:
//
//	ctrl1 = p1 + (p2-p0)/6*tension
//	ctrl2 = p2 - (p3-p1)/6*tension
//
// Closed curves wrap the neighbours and add a segment from the last point
// back to the first, followed by a close command. Open curves repeat the
// end points as their own neighbours. Fewer than two points yield a
// move-only curve (or an empty one for no points).
func Spline(points []Point, tension float64, closed bool) Curve {
	n := len(points)
	if n == 0 {
		return Curve{}
	}

	cmds := make([]Command, 0, n+2)
	cmds = append(cmds, Command{Op: OpMove, Points: []Point{points[0]}})
	if n < 2 {
		return Curve{Commands: cmds}
	}

	at := func(i int) Point {
		if closed {
			return points[((i%n)+n)%n]
		}
		if i < 0 {
			return points[0]
		}
		if i >= n {
			return points[n-1]
		}
		return points[i]
	}

	segments := n - 1
	if closed {
		segments = n
	}
	k := tension / 6
	for i := 0; i < segments; i++ {
		p0, p1, p2, p3 := at(i-1), at(i), at(i+1), at(i+2)
		ctrl1 := p1.Add(p2.Sub(p0).Scale(k))
		ctrl2 := p2.Sub(p3.Sub(p1).Scale(k))
		cmds = append(cmds, Command{Op: OpCubic, Points: []Point{ctrl1, ctrl2, p2}})
	}
	if closed {
		cmds = append(cmds, Command{Op: OpClose})
	}
	return Curve{Commands: cmds}
}

// String formats the curve as SVG path data, e.g.
// "M100,10 C107.5,10 ... Z". Numbers carry at most three decimals.
func (c Curve) String() string {
	var sb strings.Builder
	for i, cmd := range c.Commands {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch cmd.Op {
		case OpMove:
			sb.WriteByte('M')
		case OpCubic:
			sb.WriteByte('C')
		case OpClose:
			sb.WriteByte('Z')
			continue
		}
		for j, p := range cmd.Points {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(FormatNum(p.X))
			sb.WriteByte(',')
			sb.WriteString(FormatNum(p.Y))
		}
	}
	return sb.String()
}

// FormatNum formats v for path data: at most three decimals, no
// trailing zeros.
func FormatNum(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		s = "0"
	}
	return s
}

// Points returns the on-curve points of the curve in order, without
// control points. A closed curve does not repeat its start.
func (c Curve) Points() []Point {
	var out []Point
	var start Point
	for i, cmd := range c.Commands {
		switch cmd.Op {
		case OpMove:
			start = cmd.Points[0]
			out = append(out, start)
		case OpCubic:
			end := cmd.Points[2]
			closing := i+1 < len(c.Commands) && c.Commands[i+1].Op == OpClose
			if closing && end == start {
				continue
			}
			out = append(out, end)
		}
	}
	return out
}

// Closed reports whether the curve ends with a close command.
func (c Curve) Closed() bool {
	n := len(c.Commands)
	return n > 0 && c.Commands[n-1].Op == OpClose
}

// Flatten samples every cubic segment with the given number of steps and
// returns one polyline per subpath. Closed subpaths end at their start.
func (c Curve) Flatten(steps int) [][]Point {
	if steps < 1 {
		steps = 1
	}

	var lines [][]Point
	var line []Point
	var cur, start Point
	for _, cmd := range c.Commands {
		switch cmd.Op {
		case OpMove:
			if len(line) > 0 {
				lines = append(lines, line)
			}
			cur = cmd.Points[0]
			start = cur
			line = []Point{cur}
		case OpCubic:
			c1, c2, end := cmd.Points[0], cmd.Points[1], cmd.Points[2]
			for i := 1; i <= steps; i++ {
				line = append(line, cubicAt(cur, c1, c2, end, float64(i)/float64(steps)))
			}
			cur = end
		case OpClose:
			if cur != start {
				line = append(line, start)
			}
			cur = start
		}
	}
	if len(line) > 0 {
		lines = append(lines, line)
	}
	return lines
}

// Path converts the curve to a Path for measuring or rasterising.
func (c Curve) Path() *Path {
	p := NewPath()
	for _, cmd := range c.Commands {
		switch cmd.Op {
		case OpMove:
			p.MoveTo(cmd.Points[0].X, cmd.Points[0].Y)
		case OpCubic:
			c1, c2, end := cmd.Points[0], cmd.Points[1], cmd.Points[2]
			p.CubicTo(c1.X, c1.Y, c2.X, c2.Y, end.X, end.Y)
		case OpClose:
			p.Close()
		}
	}
	return p
}

// Equal reports whether both curves have identical commands and points.
func (c Curve) Equal(other Curve) bool {
	if len(c.Commands) != len(other.Commands) {
		return false
	}
	for i, cmd := range c.Commands {
		o := other.Commands[i]
		if cmd.Op != o.Op || len(cmd.Points) != len(o.Points) {
			return false
		}
		for j := range cmd.Points {
			if cmd.Points[j] != o.Points[j] {
				return false
			}
		}
	}
	return true
}

// Transform returns a copy of the curve with every point mapped by fn.
func (c Curve) Transform(fn func(Point) Point) Curve {
	out := Curve{Commands: make([]Command, len(c.Commands))}
	for i, cmd := range c.Commands {
		pts := make([]Point, len(cmd.Points))
		for j, p := range cmd.Points {
			pts[j] = fn(p)
		}
		out.Commands[i] = Command{Op: cmd.Op, Points: pts}
	}
	return out
}
