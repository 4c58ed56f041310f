// Simulation recordings.
// A recording is a zip archive (or a directory) holding summary.yaml,
// curves.txt with one path per frame, and optionally a rendered image per
// frame under frames/.

package liquidfile

import (
	"archive/zip"
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frame image formats for recordings.
const (
	FrameNone = ""
	FrameSVG  = "svg"
	FramePNG  = "png"
)

// Summary describes a recording.
type Summary struct {
	Shape       string             `yaml:"shape"`
	Frames      int                `yaml:"frames"`
	FPS         int                `yaml:"fps"`
	DurationMs  int                `yaml:"durationMs"`
	Events      int                `yaml:"events"`
	FrameFormat string             `yaml:"frameFormat,omitempty"`
	Transitions []TransitionRecord `yaml:"transitions,omitempty"`
}

// TransitionRecord is one point state change, timed from the start.
type TransitionRecord struct {
	Index int    `yaml:"index"`
	From  string `yaml:"from"`
	To    string `yaml:"to"`
	AtMs  int64  `yaml:"atMs"`
}

// Recording is a decoded recording.
type Recording struct {
	Summary Summary
	Curves  []string // SVG path data, one per frame
}

// RecordOptions configures how frames are written.
type RecordOptions struct {
	FrameFormat string // FrameNone, FrameSVG or FramePNG
	SVG         SVGOptions
	PNG         PNGOptions
}

// Summarise builds the summary of a simulation.
func (r *SimResult) Summarise(frameFormat string) Summary {
	s := Summary{
		Shape:       r.Shape.Name,
		Frames:      len(r.Frames),
		FrameFormat: frameFormat,
		Events:      r.Delivered,
	}
	if r.Script != nil {
		s.FPS = r.Script.FPS
		s.DurationMs = r.Script.DurationMs
	}
	for _, t := range r.Transitions {
		s.Transitions = append(s.Transitions, TransitionRecord{
			Index: t.Index,
			From:  t.From.String(),
			To:    t.To.String(),
			AtMs:  t.At.Sub(r.Start).Milliseconds(),
		})
	}
	return s
}

// entryWriter creates named entries in a recording.
type entryWriter interface {
	create(name string) (io.Writer, error)
}

type zipEntries struct{ zw *zip.Writer }

func (z zipEntries) create(name string) (io.Writer, error) {
	return z.zw.Create(name)
}

type dirEntries struct {
	dir  string
	open []*os.File
}

func (d *dirEntries) create(name string) (io.Writer, error) {
	path := filepath.Join(d.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	d.open = append(d.open, f)
	return f, nil
}

func (d *dirEntries) close() error {
	var first error
	for _, f := range d.open {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// WriteRecordingFile writes a recording to path. Paths ending in .zip
// become archives; anything else is treated as a directory.
func WriteRecordingFile(path string, r *SimResult, opts RecordOptions) error {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()

		return WriteRecording(file, r, opts)
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return err
	}
	d := &dirEntries{dir: path}
	err := writeEntries(d, r, opts)
	if cerr := d.close(); err == nil {
		err = cerr
	}
	return err
}

// WriteRecording writes a recording to a writer as a zip archive.
func WriteRecording(w io.Writer, r *SimResult, opts RecordOptions) error {
	zw := zip.NewWriter(w)
	if err := writeEntries(zipEntries{zw}, r, opts); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

func writeEntries(ew entryWriter, r *SimResult, opts RecordOptions) error {
	switch opts.FrameFormat {
	case FrameNone, FrameSVG, FramePNG:
	default:
		return fmt.Errorf("%w: frame format %q", ErrUnknownFormat, opts.FrameFormat)
	}

	// Write summary.yaml
	summary, err := yaml.Marshal(r.Summarise(opts.FrameFormat))
	if err != nil {
		return err
	}
	sw, err := ew.create("summary.yaml")
	if err != nil {
		return err
	}
	if _, err := sw.Write(summary); err != nil {
		return err
	}

	// Write curves.txt
	cw, err := ew.create("curves.txt")
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(cw)
	for _, f := range r.Frames {
		fmt.Fprintln(bw, f.Curve.String())
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	if opts.FrameFormat == FrameNone {
		return nil
	}

	for i, f := range r.ShapeFrames() {
		name := fmt.Sprintf("frames/%05d.%s", i, opts.FrameFormat)
		fw, err := ew.create(name)
		if err != nil {
			return err
		}
		switch opts.FrameFormat {
		case FrameSVG:
			svgOpts := opts.SVG
			svgOpts.Title = fmt.Sprintf("%s %dms", r.Shape.Name, r.Offset(i).Milliseconds())
			if _, err := io.WriteString(fw, GenerateSVG([]ShapeFrame{f}, svgOpts)); err != nil {
				return err
			}
		case FramePNG:
			if err := RenderPNG([]ShapeFrame{f}, fw, opts.PNG); err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
		}
	}
	return nil
}

// ReadRecordingFile reads a recording archive.
func ReadRecordingFile(path string) (*Recording, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	return ReadRecording(file, info.Size())
}

// ReadRecording reads a recording from a zip archive. Frame images are
// skipped.
func ReadRecording(r io.ReaderAt, size int64) (*Recording, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}

	var summary, curves []byte
	for _, f := range zr.File {
		if f.Name != "summary.yaml" && f.Name != "curves.txt" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		if f.Name == "summary.yaml" {
			summary = data
		} else {
			curves = data
		}
	}

	if summary == nil {
		return nil, fmt.Errorf("summary.yaml not found in archive")
	}

	rec := &Recording{}
	if err := yaml.Unmarshal(summary, &rec.Summary); err != nil {
		return nil, fmt.Errorf("parsing summary: %w", err)
	}
	sc := bufio.NewScanner(bytes.NewReader(curves))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			rec.Curves = append(rec.Curves, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rec, nil
}

// ReadRecordingBytes reads a recording from bytes.
func ReadRecordingBytes(data []byte) (*Recording, error) {
	return ReadRecording(bytes.NewReader(data), int64(len(data)))
}
