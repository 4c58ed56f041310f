// Elliptical arcs in SVG endpoint parameterisation.
// Converted to center form, then approximated by cubic Béziers of at
// most 90° each.

package geom

import "math"

// ArcTo draws an elliptical arc from the current point to (x, y).
// rx and ry are the radii, rot the x-axis rotation in degrees, and large
// and sweep the SVG large-arc and sweep flags.
func (p *Path) ArcTo(rx, ry, rot float64, large, sweep bool, x, y float64) {
	start := p.current
	end := Pt(x, y)
	if start == end {
		return
	}
	if rx == 0 || ry == 0 {
		p.LineTo(x, y)
		return
	}

	rx, ry = math.Abs(rx), math.Abs(ry)
	phi := rot * math.Pi / 180
	cos, sin := math.Cos(phi), math.Sin(phi)

	// Midpoint in the rotated frame
	dx2 := (start.X - end.X) / 2
	dy2 := (start.Y - end.Y) / 2
	x1 := cos*dx2 + sin*dy2
	y1 := -sin*dx2 + cos*dy2

	// Scale up radii that cannot span the endpoints
	lambda := (x1*x1)/(rx*rx) + (y1*y1)/(ry*ry)
	if lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	rx2, ry2 := rx*rx, ry*ry
	num := rx2*ry2 - rx2*y1*y1 - ry2*x1*x1
	den := rx2*y1*y1 + ry2*x1*x1
	coef := 0.0
	if den > 0 && num > 0 {
		coef = math.Sqrt(num / den)
	}
	if large == sweep {
		coef = -coef
	}
	cx1 := coef * rx * y1 / ry
	cy1 := -coef * ry * x1 / rx

	center := Point{
		X: cos*cx1 - sin*cy1 + (start.X+end.X)/2,
		Y: sin*cx1 + cos*cy1 + (start.Y+end.Y)/2,
	}

	ux, uy := (x1-cx1)/rx, (y1-cy1)/ry
	vx, vy := (-x1-cx1)/rx, (-y1-cy1)/ry
	theta := vectorAngle(1, 0, ux, uy)
	delta := vectorAngle(ux, uy, vx, vy)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	e := ellipse{center: center, rx: rx, ry: ry, cos: cos, sin: sin}
	n := int(math.Ceil(math.Abs(delta) / (math.Pi / 2)))
	if n < 1 {
		n = 1
	}
	step := delta / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)

	for i := 0; i < n; i++ {
		t0 := theta + float64(i)*step
		t1 := t0 + step

		p0 := e.at(t0)
		p3 := e.at(t1)
		if i == n-1 {
			p3 = end
		}
		c1 := p0.Add(e.deriv(t0).Scale(k))
		c2 := p3.Sub(e.deriv(t1).Scale(k))
		p.CubicTo(c1.X, c1.Y, c2.X, c2.Y, p3.X, p3.Y)
	}
}

type ellipse struct {
	center   Point
	rx, ry   float64
	cos, sin float64
}

func (e ellipse) at(t float64) Point {
	ct, st := math.Cos(t), math.Sin(t)
	return Point{
		X: e.center.X + e.rx*ct*e.cos - e.ry*st*e.sin,
		Y: e.center.Y + e.rx*ct*e.sin + e.ry*st*e.cos,
	}
}

func (e ellipse) deriv(t float64) Point {
	ct, st := math.Cos(t), math.Sin(t)
	return Point{
		X: -e.rx*st*e.cos - e.ry*ct*e.sin,
		Y: -e.rx*st*e.sin + e.ry*ct*e.cos,
	}
}

// vectorAngle returns the signed angle from u to v.
func vectorAngle(ux, uy, vx, vy float64) float64 {
	return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
}
