package geom

import (
	"errors"
	"math"
	"testing"
)

func TestSampleSquare(t *testing.T) {
	p := MustParsePath("M0,0 H200 V200 H0 Z")

	pts, err := Sample(p, 16, true)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if len(pts) != 16 {
		t.Fatalf("Expected 16 points, got %d", len(pts))
	}

	// 800 units of perimeter, one sample every 50
	want := []Point{{0, 0}, {50, 0}, {100, 0}, {150, 0}, {200, 0}, {200, 50}}
	for i, w := range want {
		if !approx(pts[i].X, w.X, 1e-9) || !approx(pts[i].Y, w.Y, 1e-9) {
			t.Errorf("Sample %d: expected %v, got %v", i, w, pts[i])
		}
	}
	if last := pts[15]; !approx(last.X, 0, 1e-9) || !approx(last.Y, 50, 1e-9) {
		t.Errorf("Last sample: expected (0,50), got %v", last)
	}
}

func TestSampleCircle(t *testing.T) {
	p := MustParsePath(circleD)

	pts, err := Sample(p, 16, true)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}

	// First sample is the path start, the topmost point
	if !approx(pts[0].X, 100, 1e-9) || !approx(pts[0].Y, 10, 1e-9) {
		t.Errorf("Expected first sample at (100,10), got %v", pts[0])
	}

	// Quarter turns land on the compass points, clockwise on screen
	compass := map[int]Point{4: {190, 100}, 8: {100, 190}, 12: {10, 100}}
	for i, w := range compass {
		if pts[i].Dist(w) > 0.5 {
			t.Errorf("Sample %d: expected ~%v, got %v", i, w, pts[i])
		}
	}

	// Even spacing
	spacing := pts[0].Dist(pts[1])
	for i := 1; i < len(pts); i++ {
		d := pts[i].Dist(pts[(i+1)%len(pts)])
		if !approx(d, spacing, 0.05) {
			t.Errorf("Uneven spacing at %d: %.3f vs %.3f", i, d, spacing)
		}
	}
}

func TestSampleOpen(t *testing.T) {
	p := MustParsePath("M0,0 H100")

	pts, err := Sample(p, 5, false)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	for i, pt := range pts {
		if !approx(pt.X, float64(i)*25, 1e-9) || pt.Y != 0 {
			t.Errorf("Sample %d: expected (%d,0), got %v", i, i*25, pt)
		}
	}
}

func TestSampleAcrossSubpaths(t *testing.T) {
	p := MustParsePath("M0,0 H10 M100,0 H110")

	pts, err := Sample(p, 3, false)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	// Midpoint by length is the end of the first subpath
	if pts[1] != Pt(10, 0) {
		t.Errorf("Expected middle sample at (10,0), got %v", pts[1])
	}
	if pts[2] != Pt(110, 0) {
		t.Errorf("Expected last sample at (110,0), got %v", pts[2])
	}
}

func TestSampleInsufficientGeometry(t *testing.T) {
	circle := MustParsePath(circleD)
	dot := MustParsePath("M5,5 Z")

	tests := []struct {
		name   string
		path   *Path
		detail int
		closed bool
	}{
		{"closed detail 2", circle, 2, true},
		{"closed detail 0", circle, 0, true},
		{"open detail 1", circle, 1, false},
		{"zero length", dot, 16, true},
		{"nil path", nil, 16, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts, err := Sample(tt.path, tt.detail, tt.closed)
			if !errors.Is(err, ErrInsufficientGeometry) {
				t.Errorf("Expected ErrInsufficientGeometry, got %v", err)
			}
			if pts != nil {
				t.Errorf("Expected no points, got %d", len(pts))
			}
		})
	}
}

func TestSampleDeterministic(t *testing.T) {
	p := MustParsePath("M100,10 L190,80 L160,190 L40,190 L10,80 Z")

	a, _ := Sample(p, 16, true)
	b, _ := Sample(p, 16, true)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Sample %d differs between calls: %v vs %v", i, a[i], b[i])
		}
		if !a[i].IsFinite() {
			t.Errorf("Sample %d not finite: %v", i, a[i])
		}
	}
	if math.IsNaN(a[0].Dist(a[1])) {
		t.Error("Spacing is NaN")
	}
}
