// SVG output for shape frames.
// Each shape is a nested <svg> with its own viewBox, so the browser applies
// the same mapping the engine uses for pointer input.

package liquidfile

import (
	"fmt"
	"html"
	"strings"

	"github.com/ha1tch/liquid-toolkit/pkg/geom"
)

// SVGOptions controls SVG rendering.
type SVGOptions struct {
	Grid
	Title      string // document title, drawn in the header
	FontSize   int    // title font size
	Background string // hex colour; empty for transparent
	ShowPoints bool   // mark control points
	PointColor string // marker colour
	PointSize  float64
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Grid:       DefaultGrid(),
		FontSize:   16,
		Background: "#ffffff",
		PointColor: "#333333",
		PointSize:  2.5,
	}
}

// GenerateSVG renders frames to a standalone SVG document.
func GenerateSVG(frames []ShapeFrame, opts SVGOptions) string {
	if opts.FontSize == 0 {
		opts.FontSize = 16
	}
	if opts.PointSize == 0 {
		opts.PointSize = 2.5
	}
	if opts.PointColor == "" {
		opts.PointColor = "#333333"
	}
	if opts.Title != "" && opts.Header == 0 {
		opts.Header = opts.FontSize * 2
	}

	width, height := opts.Size(len(frames))

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, width, height)
	if opts.Background != "" {
		fmt.Fprintf(&sb, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", html.EscapeString(opts.Background))
	}
	if opts.Title != "" {
		fmt.Fprintf(&sb, `  <text x="%d" y="%d" font-family="sans-serif" font-size="%d" text-anchor="middle" fill="#333">%s</text>`+"\n",
			width/2, opts.Header/2+opts.FontSize/2, opts.FontSize, html.EscapeString(opts.Title))
	}

	for i, f := range frames {
		cell := opts.Cell(i, len(frames))
		vb := f.Shape.ViewBoxRect()
		align, _ := geom.ParseAlign(f.Shape.Align)

		fmt.Fprintf(&sb, `  <svg x="%s" y="%s" width="%s" height="%s" viewBox="%s %s %s %s" preserveAspectRatio="%s">`+"\n",
			num(cell.X), num(cell.Y), num(cell.W), num(cell.H),
			num(vb.X), num(vb.Y), num(vb.W), num(vb.H), align)
		if f.Shape.Name != "" {
			fmt.Fprintf(&sb, "    <title>%s</title>\n", html.EscapeString(f.Shape.Name))
		}
		fmt.Fprintf(&sb, `    <path d="%s" fill="%s"/>`+"\n", f.Curve.String(), html.EscapeString(f.Shape.FillColor()))
		if opts.ShowPoints {
			for _, p := range f.Points {
				fmt.Fprintf(&sb, `    <circle cx="%s" cy="%s" r="%s" fill="%s"/>`+"\n",
					num(p.X), num(p.Y), num(opts.PointSize), html.EscapeString(opts.PointColor))
			}
		}
		sb.WriteString("  </svg>\n")
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func num(v float64) string {
	return geom.FormatNum(v)
}
