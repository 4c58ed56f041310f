package liquidfile

import (
	"errors"
	"testing"

	"github.com/ha1tch/liquid-toolkit/pkg/geom"
	"github.com/ha1tch/liquid-toolkit/pkg/liquid"
)

// topScript pokes the top of the circle preset drawn at twice its size.
func topScript() *PointerScript {
	return &PointerScript{
		Bounds:     [4]float64{0, 0, 400, 400},
		DurationMs: 1500,
		FPS:        60,
		Events:     []PointerEvent{{AtMs: 0, X: 192, Y: 32}},
	}
}

func circlePreset(t *testing.T) Shape {
	t.Helper()
	sh, ok := Preset("circle")
	if !ok {
		t.Fatal("circle preset missing")
	}
	return sh
}

func TestParseScript(t *testing.T) {
	data := `
bounds: [0, 0, 200, 200]
events:
  - {atMs: 300, x: 10, y: 10}
  - {atMs: 100, x: 20, y: 20}
`
	s, err := ParseScript([]byte(data), FormatYAML)
	if err != nil {
		t.Fatalf("ParseScript failed: %v", err)
	}
	if s.FPS != 60 {
		t.Errorf("Expected default fps 60, got %d", s.FPS)
	}
	if s.DurationMs != 1800 {
		t.Errorf("Expected duration 1800ms, got %d", s.DurationMs)
	}
	if s.Events[0].AtMs != 100 || s.Events[1].AtMs != 300 {
		t.Errorf("Expected events sorted by time, got %+v", s.Events)
	}

	js := `{"bounds":[0,0,100,50],"fps":30,"durationMs":500,"events":[]}`
	s, err = ParseScript([]byte(js), FormatJSON)
	if err != nil {
		t.Fatalf("ParseScript JSON failed: %v", err)
	}
	if s.BoundsRect() != geom.R(0, 0, 100, 50) || s.FPS != 30 || s.DurationMs != 500 {
		t.Errorf("Unexpected script %+v", s)
	}
}

func TestParseScriptErrors(t *testing.T) {
	tests := map[string]string{
		"zero bounds":   `{"bounds":[0,0,0,100]}`,
		"negative fps":  `{"bounds":[0,0,10,10],"fps":-1}`,
		"negative time": `{"bounds":[0,0,10,10],"events":[{"atMs":-5,"x":0,"y":0}]}`,
		"malformed":     `{"bounds":`,
	}
	for name, data := range tests {
		if _, err := ParseScript([]byte(data), FormatJSON); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	if _, err := ParseScript([]byte("{}"), Format("xml")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat, got %v", err)
	}
}

func TestSimulate(t *testing.T) {
	sh := circlePreset(t)
	res, err := Simulate(sh, topScript(), SimOptions{})
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	// Frames at every 1/60s up to and including 1500ms
	if len(res.Frames) != 91 {
		t.Fatalf("Expected 91 frames, got %d", len(res.Frames))
	}
	if res.Delivered != 1 {
		t.Errorf("Expected 1 delivered event, got %d", res.Delivered)
	}
	for i, f := range res.Frames {
		if f.Seq != uint64(i+1) {
			t.Errorf("Frame %d: expected seq %d, got %d", i, i+1, f.Seq)
			break
		}
	}

	want := []struct {
		from, to liquid.State
		atMs     int64
	}{
		{liquid.Idle, liquid.Displacing, 0},
		{liquid.Displacing, liquid.Returning, 175},
		{liquid.Returning, liquid.Idle, 1425},
	}
	if len(res.Transitions) != len(want) {
		t.Fatalf("Expected %d transitions, got %+v", len(want), res.Transitions)
	}
	for i, w := range want {
		tr := res.Transitions[i]
		if tr.Index != 0 || tr.From != w.from || tr.To != w.to || tr.At.Sub(res.Start).Milliseconds() != w.atMs {
			t.Errorf("Transition %d: expected point 0 %s->%s at %dms, got %+v", i, w.from, w.to, w.atMs, tr)
		}
	}

	rest, err := RestFrame(sh)
	if err != nil {
		t.Fatalf("RestFrame failed: %v", err)
	}

	// Pointer at local (96, 16) pushes the top point to (104, 4)
	mid := res.Points[10]
	if mid[0].X <= 100 || mid[0].Y >= 10 {
		t.Errorf("Expected top point pushed up and right at 166ms, got %v", mid[0])
	}
	for i := 1; i < len(mid); i++ {
		if mid[i] != rest.Points[i] {
			t.Errorf("Point %d moved to %v", i, mid[i])
		}
	}

	last := res.Frames[len(res.Frames)-1]
	if last.Busy {
		t.Error("Expected motion finished by the last frame")
	}
	if !last.Curve.Equal(rest.Curve) {
		t.Errorf("Expected rest curve at the end, got %s", last.Curve)
	}
}

func TestSimulateReducedMotion(t *testing.T) {
	res, err := Simulate(circlePreset(t), topScript(), SimOptions{ReducedMotion: true})
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if len(res.Frames) != 1 {
		t.Fatalf("Expected a single rest frame, got %d", len(res.Frames))
	}
	if res.Delivered != 0 || len(res.Transitions) != 0 {
		t.Errorf("Expected no input handling, got %d events and %d transitions", res.Delivered, len(res.Transitions))
	}
}

func TestSimulateOutOfRange(t *testing.T) {
	script := topScript()
	script.Events = []PointerEvent{{AtMs: 0, X: 200, Y: 200}, {AtMs: 500, X: 5, Y: 395}}
	res, err := Simulate(circlePreset(t), script, SimOptions{})
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if len(res.Transitions) != 0 {
		t.Errorf("Expected no transitions, got %+v", res.Transitions)
	}
	first := res.Frames[0].Curve
	for _, f := range res.Frames {
		if !f.Curve.Equal(first) || f.Busy {
			t.Fatalf("Frame %d changed with the pointer out of range", f.Seq)
		}
	}
}
