package liquid

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestDefaultPathConfig(t *testing.T) {
	cfg := DefaultPathConfig()

	if cfg.Detail != 16 || cfg.Tension != 1 || !cfg.Closed {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
	if !cfg.HasAxis(AxisX) || !cfg.HasAxis(AxisY) {
		t.Errorf("Expected both axes, got %v", cfg.Axis)
	}
	if cfg.Range != (Range{20, 20}) {
		t.Errorf("Expected range 20x20, got %v", cfg.Range)
	}
	if cfg.Timing.Displace != 175*time.Millisecond || cfg.Timing.Return != 1250*time.Millisecond {
		t.Errorf("Unexpected timing: %+v", cfg.Timing)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestTimingWithDefaults(t *testing.T) {
	got := Timing{Return: time.Second}.WithDefaults()
	if got.Displace != DefaultDisplace {
		t.Errorf("Expected default displace, got %v", got.Displace)
	}
	if got.Return != time.Second {
		t.Errorf("Explicit return overwritten: %v", got.Return)
	}
	if got.Amplitude != 1 || got.Period != 0.3 {
		t.Errorf("Expected elastic defaults, got %g/%g", got.Amplitude, got.Period)
	}
}

func TestPathConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*PathConfig)
	}{
		{"negative range", func(c *PathConfig) { c.Range.X = -1 }},
		{"NaN range", func(c *PathConfig) { c.Range.Y = math.NaN() }},
		{"infinite tension", func(c *PathConfig) { c.Tension = math.Inf(1) }},
		{"unknown axis", func(c *PathConfig) { c.Axis = []Axis{"z"} }},
		{"duplicate axis", func(c *PathConfig) { c.Axis = []Axis{AxisX, AxisX} }},
		{"negative duration", func(c *PathConfig) { c.Timing.Return = -time.Second }},
		{"negative period", func(c *PathConfig) { c.Timing.Period = -0.3 }},
		{"unknown easing", func(c *PathConfig) { c.Timing.DisplaceEase = "wobble.out" }},
		{"huge detail", func(c *PathConfig) { c.Detail = MaxDetail + 1 }},
		{"elastic args", func(c *PathConfig) { c.Timing.ReturnEase = "elastic.out(1, x)" }},
		{"args on sine", func(c *PathConfig) { c.Timing.DisplaceEase = "sine.out(2)" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultPathConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	// Small detail is left to the sampler
	cfg := DefaultPathConfig()
	cfg.Detail = 2
	if err := cfg.Validate(); err != nil {
		t.Errorf("Small detail should not be checked by Validate: %v", err)
	}
	cfg.Detail = MaxDetail
	if err := cfg.Validate(); err != nil {
		t.Errorf("Detail %d should be accepted: %v", MaxDetail, err)
	}
}

func TestParseAxes(t *testing.T) {
	axes, err := ParseAxes("x, Y")
	if err != nil {
		t.Fatalf("ParseAxes failed: %v", err)
	}
	if len(axes) != 2 || axes[0] != AxisX || axes[1] != AxisY {
		t.Errorf("Expected [x y], got %v", axes)
	}

	axes, err = ParseAxes("")
	if err != nil || len(axes) != 0 {
		t.Errorf("Expected no axes, got %v (%v)", axes, err)
	}

	if _, err := ParseAxes("x,z"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}
