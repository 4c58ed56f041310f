// Command liquidview shows a liquid shape in the terminal and pushes its
// points around with the mouse.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/liquid-toolkit/pkg/liquid"
	"github.com/ha1tch/liquid-toolkit/pkg/liquidfile"
)

const (
	minFPS = 10
	maxFPS = 120
)

type viewer struct {
	screen   tcell.Screen
	scene    *liquidfile.Scene
	store    *liquidfile.SettingsStore
	settings *liquidfile.ViewerSettings

	pointers *liquid.PointerFeed
	frames   *liquid.IntervalFrames
	engine   *liquid.Engine
	shape    liquidfile.Shape
	fill     tcell.Color
	canvas   canvas

	mu      sync.Mutex
	frame   liquid.Frame
	message string
}

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		fmt.Println("Usage: liquidview [scene.yaml|scene.json]")
		fmt.Println()
		fmt.Println("Keys: q quit, Tab next shape, r reduced motion, p points, +/- fps")
		return
	}

	// Logs would corrupt the screen; only keep them when asked for a file
	if path := os.Getenv("LIQUID_LOG"); path != "" {
		if f, err := os.Create(path); err == nil {
			defer f.Close()
			liquid.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
		}
	}

	store, err := liquidfile.OpenSettings(liquidfile.AppName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (settings will not be saved)\n", err)
	}

	v := &viewer{
		store:    store,
		settings: store.Settings(),
		pointers: liquid.NewPointerFeed(),
	}

	scenePath := v.settings.Scene
	if len(os.Args) > 1 {
		scenePath = os.Args[1]
	}
	v.scene = liquidfile.Presets()
	if scenePath != "" {
		s, err := liquidfile.ReadSceneFile(scenePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", scenePath, err)
			os.Exit(1)
		}
		v.scene = s
		v.settings.Scene = scenePath
	}
	if v.settings.Shape >= len(v.scene.Shapes) {
		v.settings.Shape = 0
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()
	screen.Clear()
	v.screen = screen

	v.frames = liquid.NewIntervalFrames(liquid.FPS(v.settings.FPS))
	ctx, cancel := context.WithCancel(context.Background())
	v.frames.Start(ctx)

	v.layout()
	if err := v.load(); err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Main loop
	v.run()

	cancel()
	v.frames.Stop()
	v.engine.Close()
	screen.Fini()

	if err := v.store.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving settings: %v\n", err)
	}
}

// load builds the engine for the selected shape and attaches it to the
// pointer feed and frame source.
func (v *viewer) load() error {
	if v.engine != nil {
		v.engine.Close()
	}

	v.shape = v.scene.Shapes[v.settings.Shape]
	v.fill = hexColor(v.shape.FillColor())

	e, err := v.shape.Engine(
		liquid.WithViewport(v.shape.Viewport(v.canvas.bounds())),
		liquid.WithReducedMotion(v.settings.ReducedMotion),
	)
	if err != nil {
		return fmt.Errorf("shape %s: %w", v.shape.Name, err)
	}
	v.engine = e

	v.mu.Lock()
	v.frame = liquid.Frame{Curve: e.RestCurve()}
	v.mu.Unlock()

	return e.Attach(v.pointers, v.frames, v.onFrame)
}

// onFrame runs on the frame goroutine.
func (v *viewer) onFrame(f liquid.Frame) {
	v.mu.Lock()
	v.frame = f
	v.mu.Unlock()
	v.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

func (v *viewer) layout() {
	w, h := v.screen.Size()
	v.canvas = canvas{top: 1, cols: w, rows: h - 2}
}

func (v *viewer) setMessage(format string, a ...any) {
	v.mu.Lock()
	v.message = fmt.Sprintf(format, a...)
	v.mu.Unlock()
}

func (v *viewer) run() {
	for {
		v.draw()
		v.screen.Show()

		ev := v.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			v.screen.Sync()
			v.layout()
			if err := v.engine.Resize(v.shape.Viewport(v.canvas.bounds())); err != nil {
				v.setMessage("Window too small")
			} else {
				v.setMessage("")
			}
		case *tcell.EventKey:
			if v.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			col, row := ev.Position()
			if p, ok := v.canvas.toDevice(col, row); ok {
				v.pointers.Publish(p)
			}
		case *tcell.EventInterrupt:
			// New frame, just redraw
		}
	}
}

func (v *viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyTab:
		v.settings.Shape = (v.settings.Shape + 1) % len(v.scene.Shapes)
		v.reload()
		return false
	case tcell.KeyBacktab:
		n := len(v.scene.Shapes)
		v.settings.Shape = (v.settings.Shape + n - 1) % n
		v.reload()
		return false
	}

	switch ev.Rune() {
	case 'q', 'Q':
		return true
	case 'r', 'R':
		v.settings.ReducedMotion = !v.settings.ReducedMotion
		v.reload()
	case 'p', 'P':
		v.settings.ShowPoints = !v.settings.ShowPoints
	case '+', '=':
		v.setFPS(v.settings.FPS + 10)
	case '-', '_':
		v.setFPS(v.settings.FPS - 10)
	}
	return false
}

func (v *viewer) reload() {
	if err := v.load(); err != nil {
		v.setMessage("Error: %v", err)
		return
	}
	v.setMessage("")
}

func (v *viewer) setFPS(fps int) {
	fps = max(minFPS, min(maxFPS, fps))
	v.settings.FPS = fps
	v.frames.SetInterval(liquid.FPS(fps))
}
