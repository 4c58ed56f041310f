package liquidfile

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func simulateTop(t *testing.T) *SimResult {
	t.Helper()
	res, err := Simulate(circlePreset(t), topScript(), SimOptions{})
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	return res
}

func TestWriteRecording(t *testing.T) {
	res := simulateTop(t)

	var buf bytes.Buffer
	if err := WriteRecording(&buf, res, RecordOptions{FrameFormat: FrameSVG, SVG: DefaultSVGOptions()}); err != nil {
		t.Fatalf("WriteRecording failed: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("Not a zip archive: %v", err)
	}
	frames := 0
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "frames/") && strings.HasSuffix(f.Name, ".svg") {
			frames++
		}
	}
	if frames != len(res.Frames) {
		t.Errorf("Expected %d frame files, got %d", len(res.Frames), frames)
	}

	rec, err := ReadRecordingBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("ReadRecordingBytes failed: %v", err)
	}
	s := rec.Summary
	if s.Shape != "circle" || s.Frames != 91 || s.FPS != 60 || s.DurationMs != 1500 || s.Events != 1 {
		t.Errorf("Unexpected summary %+v", s)
	}
	if s.FrameFormat != FrameSVG {
		t.Errorf("Expected frame format svg, got %q", s.FrameFormat)
	}
	if len(s.Transitions) != 3 || s.Transitions[2].To != "idle" || s.Transitions[2].AtMs != 1425 {
		t.Errorf("Unexpected transitions %+v", s.Transitions)
	}
	if len(rec.Curves) != len(res.Frames) {
		t.Fatalf("Expected %d curves, got %d", len(res.Frames), len(rec.Curves))
	}
	for i, f := range res.Frames {
		if rec.Curves[i] != f.Curve.String() {
			t.Errorf("Curve %d: expected %q, got %q", i, f.Curve.String(), rec.Curves[i])
			break
		}
	}
}

func TestWriteRecordingDirectory(t *testing.T) {
	res := simulateTop(t)
	dir := filepath.Join(t.TempDir(), "out")

	if err := WriteRecordingFile(dir, res, RecordOptions{}); err != nil {
		t.Fatalf("WriteRecordingFile failed: %v", err)
	}
	for _, name := range []string{"summary.yaml", "curves.txt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Expected %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "frames")); !os.IsNotExist(err) {
		t.Error("Expected no frames directory without a frame format")
	}

	archive := filepath.Join(t.TempDir(), "rec.zip")
	if err := WriteRecordingFile(archive, res, RecordOptions{}); err != nil {
		t.Fatalf("WriteRecordingFile zip failed: %v", err)
	}
	rec, err := ReadRecordingFile(archive)
	if err != nil {
		t.Fatalf("ReadRecordingFile failed: %v", err)
	}
	if len(rec.Curves) != len(res.Frames) {
		t.Errorf("Expected %d curves, got %d", len(res.Frames), len(rec.Curves))
	}
}

func TestWriteRecordingErrors(t *testing.T) {
	res := simulateTop(t)

	var buf bytes.Buffer
	err := WriteRecording(&buf, res, RecordOptions{FrameFormat: "gif"})
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat, got %v", err)
	}

	var empty bytes.Buffer
	zw := zip.NewWriter(&empty)
	zw.Close()
	if _, err := ReadRecordingBytes(empty.Bytes()); err == nil {
		t.Error("Expected error for archive without summary")
	}
	if _, err := ReadRecordingBytes([]byte("not a zip")); err == nil {
		t.Error("Expected error for non-zip data")
	}
}
