package liquidfile

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/ha1tch/liquid-toolkit/pkg/geom"
)

func TestGridLayout(t *testing.T) {
	g := DefaultGrid()

	w, h := g.Size(5)
	if w != 1096 || h != 232 {
		t.Errorf("Expected 1096x232, got %dx%d", w, h)
	}
	if got := g.Cell(1, 5); got != geom.R(232, 16, 200, 200) {
		t.Errorf("Expected cell 1 at (232, 16), got %+v", got)
	}

	g.Columns = 2
	g.Header = 40
	w, h = g.Size(5)
	if w != 448 || h != 704 {
		t.Errorf("Expected 448x704, got %dx%d", w, h)
	}
	if got := g.Cell(4, 5); got != geom.R(16, 488, 200, 200) {
		t.Errorf("Expected cell 4 at (16, 488), got %+v", got)
	}
}

func TestRestFrames(t *testing.T) {
	frames, err := RestFrames(Presets())
	if err != nil {
		t.Fatalf("RestFrames failed: %v", err)
	}
	if len(frames) != 5 {
		t.Fatalf("Expected 5 frames, got %d", len(frames))
	}
	for _, f := range frames {
		if len(f.Points) != 16 {
			t.Errorf("%s: expected 16 points, got %d", f.Shape.Name, len(f.Points))
		}
		if !f.Curve.Closed() {
			t.Errorf("%s: expected closed curve", f.Shape.Name)
		}
		if got := f.Curve.Points(); len(got) != 16 || got[0] != f.Points[0] {
			t.Errorf("%s: curve does not pass through the origins", f.Shape.Name)
		}
	}

	bad := &Scene{Shapes: []Shape{{Name: "dot", D: "M5,5 L5,5"}}}
	if _, err := RestFrames(bad); err == nil || !strings.Contains(err.Error(), "shape dot") {
		t.Errorf("Expected error naming shape dot, got %v", err)
	}
}

func TestGenerateSVG(t *testing.T) {
	frames, err := RestFrames(Presets())
	if err != nil {
		t.Fatalf("RestFrames failed: %v", err)
	}

	opts := DefaultSVGOptions()
	opts.Title = "Blobs <&>"
	opts.ShowPoints = true
	svg := GenerateSVG(frames, opts)

	if !strings.HasPrefix(svg, "<svg xmlns=\"http://www.w3.org/2000/svg\"") {
		t.Errorf("Expected SVG root element, got %q", svg[:40])
	}
	if n := strings.Count(svg, "<svg x="); n != 5 {
		t.Errorf("Expected 5 nested viewports, got %d", n)
	}
	if n := strings.Count(svg, "<circle"); n != 80 {
		t.Errorf("Expected 80 point markers, got %d", n)
	}
	if !strings.Contains(svg, `viewBox="0 0 200 200" preserveAspectRatio="xMidYMid meet"`) {
		t.Error("Expected preset viewBox with meet alignment")
	}
	if !strings.Contains(svg, "Blobs &lt;&amp;&gt;") {
		t.Error("Expected escaped title")
	}
	for _, f := range frames {
		if !strings.Contains(svg, `<path d="`+f.Curve.String()+`" fill="`+f.Shape.Fill+`"/>`) {
			t.Errorf("Missing path for %s", f.Shape.Name)
		}
	}

	plain := GenerateSVG(frames[:1], SVGOptions{})
	if strings.Contains(plain, "<circle") || strings.Contains(plain, "<rect") || strings.Contains(plain, "<text") {
		t.Error("Expected no markers, background or title with zero options")
	}
}

func TestRenderImage(t *testing.T) {
	frame, err := RestFrame(Presets().Shapes[0])
	if err != nil {
		t.Fatalf("RestFrame failed: %v", err)
	}

	opts := DefaultPNGOptions()
	opts.Grid = Grid{CellWidth: 100, CellHeight: 100}
	img, err := RenderImage([]ShapeFrame{frame}, opts)
	if err != nil {
		t.Fatalf("RenderImage failed: %v", err)
	}

	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("Expected 100x100, got %v", b)
	}

	// Circle fill (#4f9dde) at the centre, background in the corner
	c := img.RGBAAt(50, 50)
	if diff(c.R, 0x4f) > 8 || diff(c.G, 0x9d) > 8 || diff(c.B, 0xde) > 8 {
		t.Errorf("Expected fill colour at centre, got %v", c)
	}
	c = img.RGBAAt(1, 1)
	if c.R < 240 || c.G < 240 || c.B < 240 {
		t.Errorf("Expected white corner, got %v", c)
	}
}

func diff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestRenderPNG(t *testing.T) {
	frames, err := RestFrames(Presets())
	if err != nil {
		t.Fatalf("RestFrames failed: %v", err)
	}

	opts := DefaultPNGOptions()
	opts.Grid = Grid{CellWidth: 60, CellHeight: 60, Padding: 4, Columns: 3}
	opts.Title = "presets"
	opts.Captions = true
	opts.ShowPoints = true

	var buf bytes.Buffer
	if err := RenderPNG(frames, &buf, opts); err != nil {
		t.Fatalf("RenderPNG failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Output is not a PNG: %v", err)
	}

	// Captions widen the padding to 18, the title adds a 30 pixel header
	if b := img.Bounds(); b.Dx() != 3*60+4*18 || b.Dy() != 2*60+3*18+30 {
		t.Errorf("Unexpected size %v", b)
	}
}
