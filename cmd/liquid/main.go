// Command liquid is a CLI tool for inspecting, rendering and simulating
// liquid blob shapes.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ha1tch/liquid-toolkit/pkg/geom"
	"github.com/ha1tch/liquid-toolkit/pkg/liquid"
	"github.com/ha1tch/liquid-toolkit/pkg/liquidfile"
)

const usage = `liquid - liquid blob toolkit

Usage:
  liquid <command> [options] [-v]

Commands:
  info       Show scene information
  sample     Print sampled control points
  spline     Print the rest curve as SVG path data
  render     Render shapes to SVG or PNG
  simulate   Run a pointer script and record the frames
  run        Drive a shape interactively
  validate   Validate a scene file
  convert    Convert between formats (yaml, json)
  presets    Write the built-in shapes
  easings    List easing names

A scene argument of "presets" uses the built-in shapes.

Examples:
  liquid presets -o blobs.yaml
  liquid render blobs.yaml -o blobs.png --captions
  liquid spline blobs.yaml -s circle -t 0.5
  liquid simulate blobs.yaml poke.yaml -s circle -o out.zip --format svg
  liquid run presets -s hexagon

Use -v on any command for debug logging.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	var args []string
	for _, a := range os.Args[2:] {
		if a == "-v" || a == "--verbose" {
			liquid.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
			continue
		}
		args = append(args, a)
	}

	switch cmd {
	case "info":
		cmdInfo(args)
	case "sample":
		cmdSample(args)
	case "spline":
		cmdSpline(args)
	case "render":
		cmdRender(args)
	case "simulate":
		cmdSimulate(args)
	case "run":
		cmdRun(args)
	case "validate":
		cmdValidate(args)
	case "convert":
		cmdConvert(args)
	case "presets":
		cmdPresets(args)
	case "easings":
		for _, name := range liquid.EasingNames() {
			fmt.Println(name)
		}
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}

func fail(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

func loadScene(path string) *liquidfile.Scene {
	if path == "presets" {
		return liquidfile.Presets()
	}
	s, err := liquidfile.ReadSceneFile(path)
	if err != nil {
		fail("Error loading %s: %v", path, err)
	}
	return s
}

// selectShapes returns the named shape, or every shape if name is empty.
func selectShapes(s *liquidfile.Scene, name string) []liquidfile.Shape {
	if name == "" {
		return s.Shapes
	}
	sh, err := s.Shape(name)
	if err != nil {
		fail("Error: %v (have %s)", err, strings.Join(s.Names(), ", "))
	}
	return []liquidfile.Shape{*sh}
}

func atoi(flag, v string) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		fail("Invalid value for %s: %q", flag, v)
	}
	return n
}

func atof(flag, v string) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		fail("Invalid value for %s: %q", flag, v)
	}
	return f
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fail("Usage: liquid info <scene>")
	}

	s := loadScene(args[0])
	if s.Name != "" {
		fmt.Printf("Scene:   %s\n", s.Name)
	}
	fmt.Printf("Shapes:  %d\n", len(s.Shapes))

	for _, sh := range s.Shapes {
		fmt.Println()
		fmt.Printf("Shape:     %s\n", sh.Name)
		p, err := sh.Path()
		if err != nil {
			fmt.Printf("  Error:   %v\n", err)
			continue
		}
		b := p.Bounds()
		vb := sh.ViewBoxRect()
		fmt.Printf("  Length:  %.2f\n", p.Length())
		fmt.Printf("  Bounds:  %g %g %g %g\n", b.X, b.Y, b.W, b.H)
		fmt.Printf("  ViewBox: %g %g %g %g\n", vb.X, vb.Y, vb.W, vb.H)
		fmt.Printf("  Fill:    %s\n", sh.FillColor())

		cfg, err := sh.Config()
		if err != nil {
			fmt.Printf("  Error:   %v\n", err)
			continue
		}
		fmt.Printf("  Detail:  %d\n", cfg.Detail)
		fmt.Printf("  Tension: %g\n", cfg.Tension)
		fmt.Printf("  Closed:  %v\n", cfg.Closed)
		fmt.Printf("  Axis:    %v\n", cfg.Axis)
		fmt.Printf("  Range:   %g x %g\n", cfg.Range.X, cfg.Range.Y)
		fmt.Printf("  Timing:  displace %v, return %v (amplitude %g, period %g)\n",
			cfg.Timing.Displace, cfg.Timing.Return, cfg.Timing.Amplitude, cfg.Timing.Period)

		e, err := sh.Engine()
		if err != nil {
			fmt.Printf("  Error:   %v\n", err)
			continue
		}
		md := e.Controller().MaxDist()
		fmt.Printf("  MaxDist: %.2f x %.2f\n", md.X, md.Y)
		e.Close()
	}
}

func cmdSample(args []string) {
	if len(args) < 1 {
		fail("Usage: liquid sample <scene> [-s shape] [-n detail]")
	}

	var shape string
	detail := 0
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-s", "--shape":
			if i+1 < len(args) {
				shape = args[i+1]
				i++
			}
		case "-n", "--detail":
			if i+1 < len(args) {
				detail = atoi(args[i], args[i+1])
				i++
			}
		}
	}

	for _, sh := range selectShapes(loadScene(args[0]), shape) {
		p, err := sh.Path()
		if err != nil {
			fail("Error in shape %s: %v", sh.Name, err)
		}
		cfg, err := sh.Config()
		if err != nil {
			fail("Error in shape %s: %v", sh.Name, err)
		}
		if detail > 0 {
			cfg.Detail = detail
		}

		pts, err := geom.Sample(p, cfg.Detail, cfg.Closed)
		if err != nil {
			fail("Error sampling %s: %v", sh.Name, err)
		}

		fmt.Printf("%s: %d points\n", sh.Name, len(pts))
		for i, pt := range pts {
			next := i + 1
			if next == len(pts) {
				if !cfg.Closed {
					fmt.Printf("  %2d  %8.3f %8.3f\n", i, pt.X, pt.Y)
					continue
				}
				next = 0
			}
			fmt.Printf("  %2d  %8.3f %8.3f  -> %.3f\n", i, pt.X, pt.Y, pt.Dist(pts[next]))
		}
	}
}

func cmdSpline(args []string) {
	if len(args) < 1 {
		fail("Usage: liquid spline <scene> [-s shape] [-t tension] [--open]")
	}

	var shape string
	tension := -1.0
	open := false
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-s", "--shape":
			if i+1 < len(args) {
				shape = args[i+1]
				i++
			}
		case "-t", "--tension":
			if i+1 < len(args) {
				tension = atof(args[i], args[i+1])
				i++
			}
		case "--open":
			open = true
		}
	}

	for _, sh := range selectShapes(loadScene(args[0]), shape) {
		p, err := sh.Path()
		if err != nil {
			fail("Error in shape %s: %v", sh.Name, err)
		}
		cfg, err := sh.Config()
		if err != nil {
			fail("Error in shape %s: %v", sh.Name, err)
		}
		if tension >= 0 {
			cfg.Tension = tension
		}
		if open {
			cfg.Closed = false
		}

		e, err := liquid.New(p, cfg)
		if err != nil {
			fail("Error in shape %s: %v", sh.Name, err)
		}
		fmt.Printf("%s: %s\n", sh.Name, e.RestCurve())
		e.Close()
	}
}

func cmdRender(args []string) {
	if len(args) < 1 {
		fail("Usage: liquid render <scene> [-s shape] [-o out.svg|out.png] [-W width] [-H height] [-c columns] [-t title] [--points] [--captions]")
	}

	var shape, output, title string
	width, height, columns := 0, 0, 0
	points, captions := false, false
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-s", "--shape":
			if i+1 < len(args) {
				shape = args[i+1]
				i++
			}
		case "-o", "--output":
			if i+1 < len(args) {
				output = args[i+1]
				i++
			}
		case "-W", "--width":
			if i+1 < len(args) {
				width = atoi(args[i], args[i+1])
				i++
			}
		case "-H", "--height":
			if i+1 < len(args) {
				height = atoi(args[i], args[i+1])
				i++
			}
		case "-c", "--columns":
			if i+1 < len(args) {
				columns = atoi(args[i], args[i+1])
				i++
			}
		case "-t", "--title":
			if i+1 < len(args) {
				title = args[i+1]
				i++
			}
		case "--points":
			points = true
		case "--captions":
			captions = true
		}
	}

	s := loadScene(args[0])
	scene := &liquidfile.Scene{Name: s.Name, Shapes: selectShapes(s, shape)}
	frames, err := liquidfile.RestFrames(scene)
	if err != nil {
		fail("Error: %v", err)
	}

	grid := liquidfile.DefaultGrid()
	if width > 0 {
		grid.CellWidth = width
	}
	if height > 0 {
		grid.CellHeight = height
	}
	grid.Columns = columns

	switch strings.ToLower(filepath.Ext(output)) {
	case "", ".svg":
		opts := liquidfile.DefaultSVGOptions()
		opts.Grid = grid
		opts.Title = title
		opts.ShowPoints = points
		svg := liquidfile.GenerateSVG(frames, opts)
		if output == "" {
			fmt.Print(svg)
			return
		}
		err = os.WriteFile(output, []byte(svg), 0644)
	case ".png":
		opts := liquidfile.DefaultPNGOptions()
		opts.Grid = grid
		opts.Title = title
		opts.ShowPoints = points
		opts.Captions = captions
		err = liquidfile.RenderPNGFile(output, frames, opts)
	default:
		fail("Unknown output format: %s", filepath.Ext(output))
	}

	if err != nil {
		fail("Error writing %s: %v", output, err)
	}
	fmt.Printf("Written: %s\n", output)
}

func cmdSimulate(args []string) {
	if len(args) < 2 {
		fail("Usage: liquid simulate <scene> <script> [-s shape] [-o dir|out.zip] [--format svg|png] [--reduced-motion]")
	}

	var shape, output, format string
	reduced := false
	for i := 2; i < len(args); i++ {
		switch args[i] {
		case "-s", "--shape":
			if i+1 < len(args) {
				shape = args[i+1]
				i++
			}
		case "-o", "--output":
			if i+1 < len(args) {
				output = args[i+1]
				i++
			}
		case "--format":
			if i+1 < len(args) {
				format = args[i+1]
				i++
			}
		case "--reduced-motion":
			reduced = true
		}
	}

	s := loadScene(args[0])
	script, err := liquidfile.ReadScriptFile(args[1])
	if err != nil {
		fail("Error loading %s: %v", args[1], err)
	}

	sh := s.Shapes[0]
	if shape != "" {
		p, err := s.Shape(shape)
		if err != nil {
			fail("Error: %v", err)
		}
		sh = *p
	}

	res, err := liquidfile.Simulate(sh, script, liquidfile.SimOptions{ReducedMotion: reduced})
	if err != nil {
		fail("Error simulating %s: %v", sh.Name, err)
	}

	summary := res.Summarise(format)
	fmt.Printf("Shape:       %s\n", summary.Shape)
	fmt.Printf("Frames:      %d at %d fps\n", summary.Frames, summary.FPS)
	fmt.Printf("Events:      %d\n", summary.Events)
	fmt.Printf("Transitions: %d\n", len(summary.Transitions))
	for _, t := range summary.Transitions {
		fmt.Printf("  %6dms  point %2d  %s -> %s\n", t.AtMs, t.Index, t.From, t.To)
	}

	if output == "" {
		return
	}
	opts := liquidfile.RecordOptions{
		FrameFormat: format,
		SVG:         liquidfile.DefaultSVGOptions(),
		PNG:         liquidfile.DefaultPNGOptions(),
	}
	if err := liquidfile.WriteRecordingFile(output, res, opts); err != nil {
		fail("Error writing %s: %v", output, err)
	}
	fmt.Printf("Written: %s\n", output)
}

func cmdValidate(args []string) {
	if len(args) < 1 {
		fail("Usage: liquid validate <scene>")
	}

	input := args[0]
	s := loadScene(input)

	// Sampling problems only show up when building engines
	for _, sh := range s.Shapes {
		e, err := sh.Engine()
		if err != nil {
			fail("Validation failed: shape %s: %v", sh.Name, err)
		}
		e.Close()
	}

	fmt.Printf("%s: valid scene with %d shapes\n", input, len(s.Shapes))
}

func cmdConvert(args []string) {
	if len(args) < 1 {
		fail("Usage: liquid convert <input> [-o output]")
	}

	input := args[0]
	var output string
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 < len(args) {
				output = args[i+1]
				i++
			}
		}
	}

	s := loadScene(input)

	if output == "" {
		// Default: swap the extension
		ext := filepath.Ext(input)
		base := strings.TrimSuffix(input, ext)
		if ext == ".json" {
			output = base + ".yaml"
		} else {
			output = base + ".json"
		}
	}

	if err := liquidfile.WriteSceneFile(output, s); err != nil {
		fail("Error writing %s: %v", output, err)
	}
	fmt.Printf("Written: %s\n", output)
}

func cmdPresets(args []string) {
	var output string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 < len(args) {
				output = args[i+1]
				i++
			}
		}
	}

	s := liquidfile.Presets()
	if output == "" {
		data, err := liquidfile.MarshalScene(s, liquidfile.FormatYAML)
		if err != nil {
			fail("Error: %v", err)
		}
		fmt.Print(string(data))
		return
	}
	if err := liquidfile.WriteSceneFile(output, s); err != nil {
		fail("Error writing %s: %v", output, err)
	}
	fmt.Printf("Written: %s\n", output)
}

func cmdRun(args []string) {
	if len(args) < 1 {
		fail("Usage: liquid run <scene> [-s shape]")
	}

	var shape string
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-s", "--shape":
			if i+1 < len(args) {
				shape = args[i+1]
				i++
			}
		}
	}

	s := loadScene(args[0])
	sh := s.Shapes[0]
	if shape != "" {
		p, err := s.Shape(shape)
		if err != nil {
			fail("Error: %v", err)
		}
		sh = *p
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := liquid.NewManualClock(start)
	e, err := sh.Engine(liquid.WithClock(clock))
	if err != nil {
		fail("Error creating engine: %v", err)
	}
	defer e.Close()

	fmt.Printf("Shape: %s (%d points, local coordinates)\n", sh.Name, e.Controller().Len())
	fmt.Printf("Commands: <x> <y>, tick [ms], status, curve, history, reset, quit\n")
	fmt.Println()

	printStatus(e, clock.Now().Sub(start))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit", "q":
			return
		case "reset":
			e.Controller().Reset()
			fmt.Println("All points at rest")
		case "status":
			printStatus(e, clock.Now().Sub(start))
		case "curve":
			fmt.Println(e.Tick().Curve)
		case "history":
			printHistory(e, start)
		case "tick":
			d := 100 * time.Millisecond
			if len(fields) > 1 {
				ms, err := strconv.Atoi(fields[1])
				if err != nil || ms < 0 {
					fmt.Fprintf(os.Stderr, "Error: invalid duration %q\n", fields[1])
					continue
				}
				d = time.Duration(ms) * time.Millisecond
			}
			clock.Advance(d)
			e.Tick()
			printStatus(e, clock.Now().Sub(start))
		case "help", "?":
			fmt.Println("Commands:")
			fmt.Println("  <x> <y>    - Move the pointer (local coordinates)")
			fmt.Println("  tick [ms]  - Advance the clock (default 100ms) and render")
			fmt.Println("  status     - Show moving points")
			fmt.Println("  curve      - Print the current curve")
			fmt.Println("  history    - Show state transitions")
			fmt.Println("  reset      - Put every point back at rest")
			fmt.Println("  quit       - Exit")
		default:
			if len(fields) != 2 {
				fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", fields[0])
				continue
			}
			x, errX := strconv.ParseFloat(fields[0], 64)
			y, errY := strconv.ParseFloat(fields[1], 64)
			if errX != nil || errY != nil {
				fmt.Fprintf(os.Stderr, "Error: expected two numbers\n")
				continue
			}
			if !e.PointerMove(geom.Pt(x, y)) {
				fmt.Println("Pointer ignored")
				continue
			}
			printStatus(e, clock.Now().Sub(start))
		}
	}
}

func printStatus(e *liquid.Engine, elapsed time.Duration) {
	ctrl := e.Controller()
	moving := 0
	for i, cp := range ctrl.Points() {
		state := ctrl.State(i)
		if state == liquid.Idle {
			continue
		}
		moving++
		fmt.Printf("  %2d  %-10s (%.2f, %.2f) -> (%.2f, %.2f)\n",
			i, state, cp.Current.X, cp.Current.Y, ctrl.Task(i).Target.X, ctrl.Task(i).Target.Y)
	}
	fmt.Printf("t=%v, %d of %d points moving\n", elapsed, moving, ctrl.Len())
}

func printHistory(e *liquid.Engine, start time.Time) {
	history := e.Controller().History()
	if len(history) == 0 {
		fmt.Println("No history yet")
		return
	}

	fmt.Println("History:")
	for i, tr := range history {
		fmt.Printf("  %d: point %d %s --> %s at %v\n", i+1, tr.Index, tr.From, tr.To, tr.At.Sub(start))
	}
}
