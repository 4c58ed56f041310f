// Command liquidwin opens a window with every shape of a scene side by
// side. Moving the cursor over a shape pushes its points away.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/gg"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/ha1tch/liquid-toolkit/pkg/geom"
	"github.com/ha1tch/liquid-toolkit/pkg/liquid"
	"github.com/ha1tch/liquid-toolkit/pkg/liquidfile"
)

var (
	colorBackground = color.RGBA{245, 245, 245, 255}
	colorPoint      = color.RGBA{51, 51, 51, 255} // #333
)

// game hosts one engine per shape. All engine calls happen on the ebiten
// goroutine, so frame callbacks need no locking.
type game struct {
	scene    *liquidfile.Scene
	grid     liquidfile.Grid
	settings *liquidfile.ViewerSettings

	pointers *liquid.PointerFeed
	frames   *liquid.IntervalFrames
	engines  []*liquid.Engine
	curves   []geom.Curve
	fills    []color.Color

	cursor    geom.Point
	hasCursor bool
}

func newGame(scene *liquidfile.Scene, grid liquidfile.Grid, settings *liquidfile.ViewerSettings) (*game, error) {
	g := &game{
		scene:    scene,
		grid:     grid,
		settings: settings,
		pointers: liquid.NewPointerFeed(),
		frames:   liquid.NewIntervalFrames(0),
	}
	for _, sh := range scene.Shapes {
		g.fills = append(g.fills, gg.Hex(sh.FillColor()).Color())
	}
	if err := g.build(); err != nil {
		return nil, err
	}
	return g, nil
}

// build creates and attaches an engine for every shape.
func (g *game) build() error {
	g.close()

	n := len(g.scene.Shapes)
	g.engines = make([]*liquid.Engine, n)
	g.curves = make([]geom.Curve, n)
	for i, sh := range g.scene.Shapes {
		e, err := sh.Engine(
			liquid.WithViewport(sh.Viewport(g.grid.Cell(i, n))),
			liquid.WithReducedMotion(g.settings.ReducedMotion),
		)
		if err != nil {
			g.close()
			return fmt.Errorf("shape %s: %w", sh.Name, err)
		}
		g.engines[i] = e
		g.curves[i] = e.RestCurve()

		idx := i
		if err := e.Attach(g.pointers, g.frames, func(f liquid.Frame) {
			g.curves[idx] = f.Curve
		}); err != nil {
			g.close()
			return err
		}
	}
	return nil
}

func (g *game) close() {
	for _, e := range g.engines {
		if e != nil {
			e.Close()
		}
	}
	g.engines = nil
}

// moveCursor publishes the cursor position if it changed.
func (g *game) moveCursor(p geom.Point) {
	if g.hasCursor && p == g.cursor {
		return
	}
	g.cursor, g.hasCursor = p, true
	g.pointers.Publish(p)
}

// step renders one frame on every engine.
func (g *game) step(now time.Time) {
	g.frames.Fire(now)
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.settings.ShowPoints = !g.settings.ShowPoints
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.settings.ReducedMotion = !g.settings.ReducedMotion
		if err := g.build(); err != nil {
			return err
		}
	}

	x, y := ebiten.CursorPosition()
	g.moveCursor(geom.Pt(float64(x), float64(y)))
	g.step(time.Now())
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	for i, e := range g.engines {
		tr := e.Transformer()
		if tr == nil {
			continue
		}

		var op vector.DrawPathOptions
		op.AntiAlias = true
		op.ColorScale.ScaleWithColor(g.fills[i])
		vector.FillPath(screen, curvePath(g.curves[i], tr), nil, &op)

		if g.settings.ShowPoints {
			for _, p := range e.Controller().Snapshot() {
				d := tr.ToDevice(p)
				vector.DrawFilledCircle(screen, float32(d.X), float32(d.Y), 3, colorPoint, true)
			}
		}
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.grid.Size(len(g.scene.Shapes))
}

// curvePath converts a local-space curve to a device-space vector path.
func curvePath(c geom.Curve, tr *geom.Transformer) *vector.Path {
	var path vector.Path
	for _, cmd := range c.Commands {
		pts := make([]geom.Point, len(cmd.Points))
		for i, p := range cmd.Points {
			pts[i] = tr.ToDevice(p)
		}
		switch cmd.Op {
		case geom.OpMove:
			path.MoveTo(float32(pts[0].X), float32(pts[0].Y))
		case geom.OpCubic:
			path.CubicTo(float32(pts[0].X), float32(pts[0].Y),
				float32(pts[1].X), float32(pts[1].Y),
				float32(pts[2].X), float32(pts[2].Y))
		case geom.OpClose:
			path.Close()
		}
	}
	return &path
}

func main() {
	cellSize := flag.Int("size", 240, "cell size in pixels")
	columns := flag.Int("columns", 0, "shapes per row (0 for one row)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: liquidwin [options] [scene.yaml|scene.json]")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Keys: q quit, r reduced motion, p points")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *verbose {
		liquid.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	store, err := liquidfile.OpenSettings(liquidfile.AppName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (settings will not be saved)\n", err)
	}

	scene := liquidfile.Presets()
	if flag.NArg() > 0 {
		scene, err = liquidfile.ReadSceneFile(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", flag.Arg(0), err)
			os.Exit(1)
		}
	}

	grid := liquidfile.DefaultGrid()
	grid.CellWidth, grid.CellHeight = *cellSize, *cellSize
	grid.Columns = *columns

	g, err := newGame(scene, grid, store.Settings())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer g.close()

	w, h := g.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	title := "liquid"
	if scene.Name != "" {
		title += " - " + scene.Name
	}
	ebiten.SetWindowTitle(title)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := store.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving settings: %v\n", err)
	}
}
