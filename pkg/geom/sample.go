package geom

import (
	"fmt"
	"math"
)

// Sample returns detail points evenly spaced by arc length along the path,
// in drawing order. For closed shapes the first sample is the path start
// and spacing is length/detail; for open shapes both ends are included
// and spacing is length/(detail-1).
//
// It fails with ErrInsufficientGeometry when the path has no length or
// detail is too small for a meaningful spline (3 closed, 2 open).
func Sample(p *Path, detail int, closed bool) ([]Point, error) {
	minDetail := 2
	if closed {
		minDetail = 3
	}
	if detail < minDetail {
		return nil, fmt.Errorf("%w: detail %d, need at least %d", ErrInsufficientGeometry, detail, minDetail)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: no path", ErrInsufficientGeometry)
	}

	lines := p.Flatten(DefaultTolerance)
	total := 0.0
	for _, line := range lines {
		total += polylineLength(line)
	}
	if !(total > 0) || math.IsInf(total, 0) {
		return nil, fmt.Errorf("%w: path length is %g", ErrInsufficientGeometry, total)
	}

	step := total / float64(detail)
	if !closed {
		step = total / float64(detail-1)
	}

	w := walker{lines: lines}
	points := make([]Point, 0, detail)
	for i := 0; i < detail; i++ {
		points = append(points, w.at(float64(i)*step))
	}
	if !closed {
		// Avoid drift on the final sample
		last := lines[len(lines)-1]
		points[detail-1] = last[len(last)-1]
	}
	return points, nil
}

// walker finds points at increasing arc-length offsets along a set of
// polylines without rescanning from the start.
type walker struct {
	lines [][]Point
	line  int     // current polyline
	seg   int     // current segment end index within line
	base  float64 // arc length at the start of the current segment
}

func (w *walker) at(dist float64) Point {
	for w.line < len(w.lines) {
		line := w.lines[w.line]
		if w.seg == 0 {
			w.seg = 1
		}
		for w.seg < len(line) {
			a, b := line[w.seg-1], line[w.seg]
			l := a.Dist(b)
			if dist <= w.base+l {
				if l == 0 {
					return a
				}
				return a.Lerp(b, (dist-w.base)/l)
			}
			w.base += l
			w.seg++
		}
		if w.line == len(w.lines)-1 {
			return line[len(line)-1]
		}
		w.line++
		w.seg = 0
	}
	return Point{}
}
