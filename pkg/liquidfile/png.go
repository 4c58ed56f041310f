// PNG output for shape frames.
// Curves are filled with gg at 4x size and downsampled for smooth edges.

package liquidfile

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ha1tch/liquid-toolkit/pkg/geom"
)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Grid
	Title      string
	FontSize   float64 // caption and title size in points
	Captions   bool    // print each shape's name under its cell
	Background string  // hex colour; empty for transparent
	ShowPoints bool
	PointColor string
	PointSize  float64 // marker radius in output pixels
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Grid:       DefaultGrid(),
		FontSize:   12,
		Background: "#ffffff",
		PointColor: "#333333",
		PointSize:  2.5,
	}
}

// supersample is the render scale before downsampling.
const supersample = 4

var colorText = color.RGBA{51, 51, 51, 255} // #333

// RenderPNG renders frames to PNG format.
func RenderPNG(frames []ShapeFrame, w io.Writer, opts PNGOptions) error {
	img, err := RenderImage(frames, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// RenderPNGFile renders frames to a PNG file.
func RenderPNGFile(path string, frames []ShapeFrame, opts PNGOptions) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return RenderPNG(frames, file, opts)
}

// RenderImage renders frames to an RGBA image.
func RenderImage(frames []ShapeFrame, opts PNGOptions) (*image.RGBA, error) {
	if opts.FontSize == 0 {
		opts.FontSize = 12
	}
	if opts.PointSize == 0 {
		opts.PointSize = 2.5
	}
	if opts.PointColor == "" {
		opts.PointColor = "#333333"
	}
	if opts.Title != "" && opts.Header == 0 {
		opts.Header = int(opts.FontSize * 2.5)
	}
	if opts.Captions && opts.Padding < int(opts.FontSize*1.5) {
		opts.Padding = int(opts.FontSize * 1.5)
	}

	width, height := opts.Size(len(frames))
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image size %dx%d: %w", width, height, geom.ErrZeroSize)
	}

	// Render large, then downsample
	dc := gg.NewContext(width*supersample, height*supersample)
	defer dc.Close()
	if opts.Background != "" {
		dc.ClearWithColor(gg.Hex(opts.Background))
	}

	for i, f := range frames {
		cell := opts.Cell(i, len(frames))
		large := geom.R(cell.X*supersample, cell.Y*supersample, cell.W*supersample, cell.H*supersample)
		tr, err := geom.NewTransformer(f.Shape.Viewport(large))
		if err != nil {
			return nil, fmt.Errorf("shape %s: %w", f.Shape.Name, err)
		}
		if err := fillCurve(dc, tr, f.Curve, f.Shape.FillColor()); err != nil {
			return nil, fmt.Errorf("shape %s: %w", f.Shape.Name, err)
		}
		if opts.ShowPoints {
			dc.SetHexColor(opts.PointColor)
			for _, p := range f.Points {
				d := tr.ToDevice(p)
				dc.DrawCircle(d.X, d.Y, opts.PointSize*supersample)
				if err := dc.Fill(); err != nil {
					return nil, err
				}
			}
		}
	}

	final := image.NewRGBA(image.Rect(0, 0, width, height))
	large := dc.Image()
	draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Over, nil)

	if opts.Title == "" && !opts.Captions {
		return final, nil
	}

	face, err := newFace(opts.FontSize)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	if opts.Title != "" {
		drawTextCentered(final, face, width/2, opts.Header/2, opts.Title)
	}
	if opts.Captions {
		for i, f := range frames {
			cell := opts.Cell(i, len(frames))
			x := int(cell.X + cell.W/2)
			y := int(cell.Y+cell.H) + opts.Padding/2
			drawTextCentered(final, face, x, y, f.Shape.Name)
		}
	}
	return final, nil
}

// fillCurve fills a local-space curve mapped through tr.
func fillCurve(dc *gg.Context, tr *geom.Transformer, c geom.Curve, fill string) error {
	dc.Push()
	defer dc.Pop()

	dc.SetTransform(tr.Matrix())
	dc.ClearPath()
	for _, cmd := range c.Commands {
		switch cmd.Op {
		case geom.OpMove:
			dc.MoveTo(cmd.Points[0].X, cmd.Points[0].Y)
		case geom.OpCubic:
			c1, c2, end := cmd.Points[0], cmd.Points[1], cmd.Points[2]
			dc.CubicTo(c1.X, c1.Y, c2.X, c2.Y, end.X, end.Y)
		case geom.OpClose:
			dc.ClosePath()
		}
	}
	dc.SetHexColor(fill)
	return dc.Fill()
}

func newFace(size float64) (font.Face, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// drawTextCentered draws text with its visual centre at (x, y).
func drawTextCentered(dst draw.Image, face font.Face, x, y int, text string) {
	width := font.MeasureString(face, text).Ceil()
	ascent := face.Metrics().Ascent.Ceil()

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(colorText),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(x - width/2),
			Y: fixed.I(y + int(float64(ascent)*0.35)),
		},
	}
	d.DrawString(text)
}
