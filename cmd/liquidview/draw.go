package main

import (
	"fmt"
	"math"
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/gogpu/gg"

	"github.com/ha1tch/liquid-toolkit/pkg/geom"
)

var (
	styleDefault = tcell.StyleDefault
	styleStatus  = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleHelp    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	stylePoint   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
)

// curveSteps is the number of line segments per cubic when rasterising.
const curveSteps = 8

// canvas is the drawing area of the screen. Each cell holds two pixels
// stacked vertically, and one pixel is one device unit.
type canvas struct {
	top  int // first screen row
	cols int
	rows int
}

// bounds returns the device-space rectangle covered by the canvas.
func (c canvas) bounds() geom.Rect {
	return geom.R(0, 0, float64(c.cols), float64(c.rows*2))
}

// toDevice maps a screen cell to the device point at its centre.
func (c canvas) toDevice(col, row int) (geom.Point, bool) {
	r := row - c.top
	if col < 0 || col >= c.cols || r < 0 || r >= c.rows {
		return geom.Point{}, false
	}
	return geom.Pt(float64(col)+0.5, float64(r*2)+1), true
}

// rasterize fills closed polylines with the even-odd rule on a w x h
// pixel grid, sampling each pixel at its centre.
func rasterize(lines [][]geom.Point, w, h int) [][]bool {
	mask := make([][]bool, h)
	for y := range mask {
		mask[y] = make([]bool, w)
	}

	var xs []float64
	for py := 0; py < h; py++ {
		y := float64(py) + 0.5
		xs = xs[:0]
		for _, line := range lines {
			n := len(line)
			for i := 0; i < n; i++ {
				a, b := line[i], line[(i+1)%n]
				if (a.Y <= y) == (b.Y <= y) {
					continue
				}
				xs = append(xs, a.X+(y-a.Y)/(b.Y-a.Y)*(b.X-a.X))
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			from := max(0, int(math.Ceil(xs[i]-0.5)))
			to := min(w-1, int(math.Floor(xs[i+1]-0.5)))
			for px := from; px <= to; px++ {
				mask[py][px] = true
			}
		}
	}
	return mask
}

// cellRune picks the half-block character for two stacked pixels.
func cellRune(top, bottom bool) rune {
	switch {
	case top && bottom:
		return '█'
	case top:
		return '▀'
	case bottom:
		return '▄'
	}
	return ' '
}

// hexColor converts a #rgb or #rrggbb fill to a terminal colour.
func hexColor(hex string) tcell.Color {
	c := gg.Hex(hex)
	return tcell.NewRGBColor(int32(c.R*255+0.5), int32(c.G*255+0.5), int32(c.B*255+0.5))
}

func (v *viewer) draw() {
	v.screen.Clear()
	w, h := v.screen.Size()

	v.mu.Lock()
	frame, message := v.frame, v.message
	v.mu.Unlock()

	tr := v.engine.Transformer()
	if tr != nil && v.canvas.cols > 0 && v.canvas.rows > 0 {
		lines := frame.Curve.Flatten(curveSteps)
		for _, line := range lines {
			for i, p := range line {
				line[i] = tr.ToDevice(p)
			}
		}
		mask := rasterize(lines, v.canvas.cols, v.canvas.rows*2)
		style := styleDefault.Foreground(v.fill)
		for row := 0; row < v.canvas.rows; row++ {
			for col := 0; col < v.canvas.cols; col++ {
				if r := cellRune(mask[row*2][col], mask[row*2+1][col]); r != ' ' {
					v.screen.SetContent(col, v.canvas.top+row, r, nil, style)
				}
			}
		}

		if v.settings.ShowPoints {
			for _, p := range v.engine.Controller().Snapshot() {
				d := tr.ToDevice(p)
				col, row := int(d.X), v.canvas.top+int(d.Y/2)
				if col >= 0 && col < v.canvas.cols && row >= v.canvas.top && row < v.canvas.top+v.canvas.rows {
					v.screen.SetContent(col, row, '●', nil, stylePoint)
				}
			}
		}
	}

	// Status line
	motion := "on"
	if v.settings.ReducedMotion {
		motion = "reduced"
	}
	status := fmt.Sprintf(" %s (%d/%d)  motion %s  %d fps  frame %d",
		v.shape.Name, v.settings.Shape+1, len(v.scene.Shapes), motion, v.settings.FPS, frame.Seq)
	if frame.Busy {
		status += "  moving"
	}
	drawText(v.screen, 0, 0, w, status, styleStatus)

	if message != "" {
		drawText(v.screen, 0, h-1, w, message, styleError)
	} else {
		drawText(v.screen, 0, h-1, w, "q quit  Tab shape  r reduced motion  p points  +/- fps", styleHelp)
	}
}

// drawText writes s at (x, y), padding with the style up to width w.
func drawText(s tcell.Screen, x, y, w int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		if col >= w {
			return
		}
		s.SetContent(col, y, r, nil, style)
		col++
	}
	for ; col < w; col++ {
		s.SetContent(col, y, ' ', nil, style)
	}
}
