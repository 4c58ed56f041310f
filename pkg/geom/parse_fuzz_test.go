package geom

import (
	"math"
	"testing"
)

// FuzzParsePath looks for panics and non-finite results on well-formed paths.
// Run with: go test -fuzz=FuzzParsePath ./pkg/geom/
func FuzzParsePath(f *testing.F) {
	f.Add(circleD)
	f.Add("M0,0 H200 V200 H0 Z")
	f.Add("M100,10 L190,190 H10 Z")
	f.Add("m0,0 c1,2 3,4 5,6 s7,8 9,10 q1,1 2,2 t3,3 a4,4 0 1,0 5,5 z")
	f.Add("M0,0 a5,5 0 1110,0")
	f.Add("")
	f.Add("M")
	f.Add("M1e308,1e308 A1e-308,1 0 1 1 -1e308,0")
	f.Add("M0,0 L,,,")

	f.Fuzz(func(t *testing.T, d string) {
		p, err := ParsePath(d)
		if err != nil {
			return
		}

		l := p.Length()
		if l < 0 {
			t.Errorf("Negative length %g for %q", l, d)
		}
		if math.IsInf(l, 0) || math.IsNaN(l) {
			return
		}

		// Sampling either fails cleanly or yields the requested count
		pts, err := Sample(p, 8, p.Closed())
		if err == nil && len(pts) != 8 {
			t.Errorf("Expected 8 samples, got %d for %q", len(pts), d)
		}
	})
}
