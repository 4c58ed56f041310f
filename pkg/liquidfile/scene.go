// Package liquidfile reads and writes liquid scenes and renders their
// curves to SVG and PNG.
package liquidfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ha1tch/liquid-toolkit/pkg/geom"
	"github.com/ha1tch/liquid-toolkit/pkg/liquid"
)

var (
	// ErrUnknownFormat is returned for file extensions other than
	// .yaml, .yml and .json.
	ErrUnknownFormat = errors.New("unknown file format")

	// ErrNoShape is returned when a scene has no shape of the requested
	// name or index.
	ErrNoShape = errors.New("no such shape")
)

// Format is a scene serialisation format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Scene is a named set of shapes.
type Scene struct {
	Name   string  `yaml:"name,omitempty" json:"name,omitempty"`
	Shapes []Shape `yaml:"shapes" json:"shapes"`
}

// Shape is one animated path and how it is displayed.
type Shape struct {
	Name    string     `yaml:"name" json:"name"`
	D       string     `yaml:"d" json:"d"`                                      // SVG path data
	ViewBox [4]float64 `yaml:"viewBox,flow,omitempty" json:"viewBox,omitempty"` // minX minY width height
	Align   string     `yaml:"align,omitempty" json:"align,omitempty"`          // meet, slice or none
	Fill    string     `yaml:"fill,omitempty" json:"fill,omitempty"`            // #rgb, #rrggbb or #rrggbbaa
	Options Options    `yaml:"options,omitempty" json:"options,omitempty"`
}

// Options mirrors liquid.PathConfig. Unset fields take the defaults of
// liquid.DefaultPathConfig.
type Options struct {
	Detail       int           `yaml:"detail,omitempty" json:"detail,omitempty"`
	Tension      *float64      `yaml:"tension,omitempty" json:"tension,omitempty"`
	Closed       *bool         `yaml:"closed,omitempty" json:"closed,omitempty"`
	Axis         []string      `yaml:"axis,flow,omitempty" json:"axis,omitempty"`
	Range        *liquid.Range `yaml:"range,omitempty" json:"range,omitempty"`
	DisplaceMs   int           `yaml:"displaceMs,omitempty" json:"displaceMs,omitempty"`
	ReturnMs     int           `yaml:"returnMs,omitempty" json:"returnMs,omitempty"`
	Amplitude    float64       `yaml:"amplitude,omitempty" json:"amplitude,omitempty"`
	Period       float64       `yaml:"period,omitempty" json:"period,omitempty"`
	DisplaceEase string        `yaml:"displaceEase,omitempty" json:"displaceEase,omitempty"`
	ReturnEase   string        `yaml:"returnEase,omitempty" json:"returnEase,omitempty"`
}

// DefaultFill is used for shapes without a fill colour.
const DefaultFill = "#4f9dde"

var hexColor = regexp.MustCompile(`^#?([0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ParseScene decodes a scene in the given format and validates it.
func ParseScene(data []byte, format Format) (*Scene, error) {
	var s Scene
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parsing YAML scene: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parsing JSON scene: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// MarshalScene encodes a scene. JSON output is indented.
func MarshalScene(s *Scene, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(s)
	case FormatJSON:
		return json.MarshalIndent(s, "", "  ")
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// ReadSceneFile reads a scene, picking the format from the extension.
func ReadSceneFile(path string) (*Scene, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScene(data, format)
}

// WriteSceneFile writes a scene, picking the format from the extension.
func WriteSceneFile(path string, s *Scene) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := MarshalScene(s, format)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every shape. Errors name the offending shape.
func (s *Scene) Validate() error {
	if len(s.Shapes) == 0 {
		return fmt.Errorf("%w: scene has no shapes", ErrNoShape)
	}
	seen := make(map[string]bool)
	for i, sh := range s.Shapes {
		label := sh.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}
		if err := sh.Validate(); err != nil {
			return fmt.Errorf("shape %s: %w", label, err)
		}
		if sh.Name != "" && seen[sh.Name] {
			return fmt.Errorf("shape %s: duplicate name", label)
		}
		seen[sh.Name] = true
	}
	return nil
}

// Shape returns the shape with the given name, or the shape at that
// index if name is a number.
func (s *Scene) Shape(name string) (*Shape, error) {
	for i := range s.Shapes {
		if s.Shapes[i].Name == name {
			return &s.Shapes[i], nil
		}
	}
	if idx, err := strconv.Atoi(name); err == nil && idx >= 0 && idx < len(s.Shapes) {
		return &s.Shapes[idx], nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNoShape, name)
}

// Names returns the shape names in order.
func (s *Scene) Names() []string {
	names := make([]string, len(s.Shapes))
	for i, sh := range s.Shapes {
		names[i] = sh.Name
	}
	return names
}

// Validate checks that the shape's path, view box, fill and options are
// usable. Sampling problems are reported by Engine.
func (sh Shape) Validate() error {
	if _, err := sh.Path(); err != nil {
		return err
	}
	for _, v := range sh.ViewBox {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("viewBox %v: %w", sh.ViewBox, geom.ErrNonFinite)
		}
	}
	if sh.ViewBox != ([4]float64{}) && (sh.ViewBox[2] <= 0 || sh.ViewBox[3] <= 0) {
		return fmt.Errorf("viewBox %v: %w", sh.ViewBox, geom.ErrZeroSize)
	}
	if _, err := geom.ParseAlign(sh.Align); err != nil {
		return err
	}
	if sh.Fill != "" && !hexColor.MatchString(sh.Fill) {
		return fmt.Errorf("fill %q is not a hex colour", sh.Fill)
	}
	_, err := sh.Config()
	return err
}

// Path parses the shape's path data.
func (sh Shape) Path() (*geom.Path, error) {
	return geom.ParsePath(sh.D)
}

// ViewBoxRect returns the shape's view box. Without one, the bounds of
// the path are used.
func (sh Shape) ViewBoxRect() geom.Rect {
	if sh.ViewBox != ([4]float64{}) {
		return geom.R(sh.ViewBox[0], sh.ViewBox[1], sh.ViewBox[2], sh.ViewBox[3])
	}
	p, err := sh.Path()
	if err != nil {
		return geom.Rect{}
	}
	return p.Bounds()
}

// Viewport places the shape's view box in bounds.
func (sh Shape) Viewport(bounds geom.Rect) geom.Viewport {
	align, _ := geom.ParseAlign(sh.Align)
	return geom.Viewport{ViewBox: sh.ViewBoxRect(), Bounds: bounds, Align: align}
}

// FillColor returns the fill, or DefaultFill if none is set.
func (sh Shape) FillColor() string {
	if sh.Fill == "" {
		return DefaultFill
	}
	if !strings.HasPrefix(sh.Fill, "#") {
		return "#" + sh.Fill
	}
	return sh.Fill
}

// Config converts the options to a validated liquid.PathConfig.
func (sh Shape) Config() (liquid.PathConfig, error) {
	cfg := liquid.DefaultPathConfig()
	o := sh.Options

	if o.Detail != 0 {
		cfg.Detail = o.Detail
	}
	if o.Tension != nil {
		cfg.Tension = *o.Tension
	}
	if o.Closed != nil {
		cfg.Closed = *o.Closed
	}
	if o.Axis != nil {
		axes, err := liquid.ParseAxes(strings.Join(o.Axis, ","))
		if err != nil {
			return cfg, err
		}
		cfg.Axis = axes
	}
	if o.Range != nil {
		cfg.Range = *o.Range
	}
	if o.DisplaceMs < 0 || o.ReturnMs < 0 {
		return cfg, fmt.Errorf("%w: negative duration", liquid.ErrInvalidConfig)
	}
	if o.DisplaceMs != 0 {
		cfg.Timing.Displace = time.Duration(o.DisplaceMs) * time.Millisecond
	}
	if o.ReturnMs != 0 {
		cfg.Timing.Return = time.Duration(o.ReturnMs) * time.Millisecond
	}
	if o.Amplitude != 0 {
		cfg.Timing.Amplitude = o.Amplitude
	}
	if o.Period != 0 {
		cfg.Timing.Period = o.Period
	}
	cfg.Timing.DisplaceEase = o.DisplaceEase
	cfg.Timing.ReturnEase = o.ReturnEase

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Engine builds an animation engine for the shape.
func (sh Shape) Engine(opts ...liquid.Option) (*liquid.Engine, error) {
	p, err := sh.Path()
	if err != nil {
		return nil, err
	}
	cfg, err := sh.Config()
	if err != nil {
		return nil, err
	}
	return liquid.New(p, cfg, opts...)
}
