package liquidfile

// PresetViewBox is the view box shared by the preset shapes.
var PresetViewBox = [4]float64{0, 0, 200, 200}

var presetShapes = []struct {
	name, d, fill string
}{
	{"circle", "M100,10 A90,90 0 1,1 100,190 A90,90 0 1,1 100,10 Z", "#4f9dde"},
	{"square", "M0,0 H200 V200 H0 Z", "#e4572e"},
	{"triangle", "M100,10 L190,190 H10 Z", "#29bf12"},
	{"pentagon", "M100,10 L190,80 L160,190 L40,190 L10,80 Z", "#ffc914"},
	{"hexagon", "M100,10 L190,60 L190,140 L100,190 L10,140 L10,60 Z", "#9b5de5"},
}

// Presets returns the five demo shapes with default options.
func Presets() *Scene {
	s := &Scene{Name: "presets"}
	for _, p := range presetShapes {
		s.Shapes = append(s.Shapes, Shape{
			Name:    p.name,
			D:       p.d,
			ViewBox: PresetViewBox,
			Fill:    p.fill,
		})
	}
	return s
}

// Preset returns a single preset shape by name.
func Preset(name string) (Shape, bool) {
	for _, sh := range Presets().Shapes {
		if sh.Name == name {
			return sh, true
		}
	}
	return Shape{}, false
}
