package main

import (
	"testing"
	"time"

	"github.com/ha1tch/liquid-toolkit/pkg/geom"
	"github.com/ha1tch/liquid-toolkit/pkg/liquid"
	"github.com/ha1tch/liquid-toolkit/pkg/liquidfile"
)

func testGame(t *testing.T, reduced bool) *game {
	t.Helper()
	settings := liquidfile.DefaultViewerSettings()
	settings.ReducedMotion = reduced
	g, err := newGame(liquidfile.Presets(), liquidfile.DefaultGrid(), settings)
	if err != nil {
		t.Fatalf("newGame failed: %v", err)
	}
	t.Cleanup(g.close)
	return g
}

func TestGameLayout(t *testing.T) {
	g := testGame(t, false)
	w, h := g.Layout(1920, 1080)
	if w != 1096 || h != 232 {
		t.Errorf("Expected 1096x232, got %dx%d", w, h)
	}
	if len(g.engines) != 5 || len(g.curves) != 5 || len(g.fills) != 5 {
		t.Fatalf("Expected 5 engines, got %d", len(g.engines))
	}
	if g.pointers.Subscribers() != 5 || g.frames.Subscribers() != 5 {
		t.Errorf("Expected 5 subscriptions per source, got %d and %d",
			g.pointers.Subscribers(), g.frames.Subscribers())
	}
}

func TestGamePointerReachesOneShape(t *testing.T) {
	g := testGame(t, false)

	// Top of the second shape (square, cell at x=232) is its corner (0, 0)
	g.moveCursor(geom.Pt(234, 18))
	g.step(time.Now())

	for i, e := range g.engines {
		moving := false
		for j := 0; j < e.Controller().Len(); j++ {
			if e.Controller().State(j) != liquid.Idle {
				moving = true
			}
		}
		if moving != (i == 1) {
			t.Errorf("Shape %d: moving=%v", i, moving)
		}
	}
}

func TestGameReducedMotion(t *testing.T) {
	g := testGame(t, true)
	if g.pointers.Subscribers() != 0 || g.frames.Subscribers() != 0 {
		t.Error("Expected no subscriptions with reduced motion")
	}
	rest := make([]geom.Curve, len(g.curves))
	copy(rest, g.curves)

	g.moveCursor(geom.Pt(110, 30))
	g.step(time.Now())
	for i := range g.curves {
		if !g.curves[i].Equal(rest[i]) {
			t.Errorf("Shape %d changed with reduced motion", i)
		}
	}
}

func TestGameRebuildReleasesSubscriptions(t *testing.T) {
	g := testGame(t, false)
	g.settings.ReducedMotion = true
	if err := g.build(); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if g.pointers.Subscribers() != 0 || g.frames.Subscribers() != 0 {
		t.Errorf("Expected old subscriptions released, got %d and %d",
			g.pointers.Subscribers(), g.frames.Subscribers())
	}
}

func TestCurvePath(t *testing.T) {
	tr, err := geom.NewTransformer(geom.Viewport{ViewBox: geom.R(0, 0, 10, 10), Bounds: geom.R(0, 0, 20, 20)})
	if err != nil {
		t.Fatalf("NewTransformer failed: %v", err)
	}
	c := geom.Spline([]geom.Point{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(5, 10)}, 1, true)
	if curvePath(c, tr) == nil {
		t.Error("Expected a path")
	}
}
