package liquidfile

import (
	"fmt"

	"github.com/ha1tch/liquid-toolkit/pkg/geom"
	"github.com/ha1tch/liquid-toolkit/pkg/liquid"
)

// Grid lays shapes out in equally sized cells, left to right and then
// top to bottom.
type Grid struct {
	CellWidth  int // cell width in pixels
	CellHeight int // cell height in pixels
	Padding    int // gap around and between cells
	Columns    int // cells per row; 0 puts every shape on one row
	Header     int // space reserved above the first row for a title
}

// DefaultGrid returns 200x200 cells with a 16 pixel gap.
func DefaultGrid() Grid {
	return Grid{CellWidth: 200, CellHeight: 200, Padding: 16}
}

func (g Grid) withDefaults() Grid {
	if g.CellWidth <= 0 {
		g.CellWidth = 200
	}
	if g.CellHeight <= 0 {
		g.CellHeight = 200
	}
	if g.Padding < 0 {
		g.Padding = 0
	}
	return g
}

func (g Grid) columns(n int) int {
	if g.Columns <= 0 || g.Columns > n {
		return n
	}
	return g.Columns
}

// Size returns the canvas size needed for n cells.
func (g Grid) Size(n int) (w, h int) {
	g = g.withDefaults()
	if n <= 0 {
		return 2 * g.Padding, 2*g.Padding + g.Header
	}
	cols := g.columns(n)
	rows := (n + cols - 1) / cols
	w = cols*g.CellWidth + (cols+1)*g.Padding
	h = rows*g.CellHeight + (rows+1)*g.Padding + g.Header
	return w, h
}

// Cell returns the bounds of cell i out of n.
func (g Grid) Cell(i, n int) geom.Rect {
	g = g.withDefaults()
	cols := g.columns(n)
	if cols == 0 {
		cols = 1
	}
	col, row := i%cols, i/cols
	x := g.Padding + col*(g.CellWidth+g.Padding)
	y := g.Header + g.Padding + row*(g.CellHeight+g.Padding)
	return geom.R(float64(x), float64(y), float64(g.CellWidth), float64(g.CellHeight))
}

// ShapeFrame is one shape ready to draw: its curve in local coordinates
// and, optionally, the control points it passes through.
type ShapeFrame struct {
	Shape  Shape
	Curve  geom.Curve
	Points []geom.Point
}

// RestFrame builds the frame for a shape with every point at rest.
func RestFrame(sh Shape) (ShapeFrame, error) {
	e, err := sh.Engine(liquid.WithReducedMotion(true))
	if err != nil {
		return ShapeFrame{}, err
	}
	defer e.Close()
	return ShapeFrame{Shape: sh, Curve: e.RestCurve(), Points: e.Controller().Origins()}, nil
}

// RestFrames builds rest frames for every shape in the scene.
func RestFrames(s *Scene) ([]ShapeFrame, error) {
	frames := make([]ShapeFrame, 0, len(s.Shapes))
	for _, sh := range s.Shapes {
		f, err := RestFrame(sh)
		if err != nil {
			return nil, fmt.Errorf("shape %s: %w", sh.Name, err)
		}
		frames = append(frames, f)
	}
	return frames, nil
}
