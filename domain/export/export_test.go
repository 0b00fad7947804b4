package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soocke/boxlabel-go/domain/annotation"
)

func sampleMeta(dir string) annotation.ImageMeta {
	return annotation.ImageMeta{Path: filepath.Join(dir, "images", "frame_01.jpg"), Width: 1920, Height: 1080}
}

func sampleBoxes() []annotation.Box {
	return []annotation.Box{
		{Rect: image.Rect(240, 300, 720, 780), Label: "cat"},
		{Rect: image.Rect(0, 0, 10, 10), Label: "object"},
		{Rect: image.Rect(1900, 1000, 1920, 1080), Label: "dog"},
	}
}

func TestFormatLine_Scenario(t *testing.T) {
	got := FormatLine(0, Entry{X: 240, Y: 300, Width: 480, Height: 480}, Size{Width: 1920, Height: 1080})
	want := "0 0.250000 0.500000 0.250000 0.444444"
	if got != want {
		t.Fatalf("expected %q got %q", want, got)
	}
}

func TestBuild_ParallelOrderAndValues(t *testing.T) {
	meta := sampleMeta("/data")
	rec, lines, err := Build(meta, sampleBoxes(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.Annotations) != 3 || len(lines) != 3 {
		t.Fatalf("expected 3 entries and lines, got %d/%d", len(rec.Annotations), len(lines))
	}
	if rec.Image != meta.Path || rec.Size != (Size{1920, 1080}) {
		t.Fatalf("unexpected header: %+v", rec)
	}
	for i, line := range lines {
		var cls int
		var xc, yc, w, h float64
		if _, err := fmt.Sscanf(line, "%d %f %f %f %f", &cls, &xc, &yc, &w, &h); err != nil {
			t.Fatalf("line %d %q: %v", i, line, err)
		}
		for _, v := range []float64{xc, yc, w, h} {
			if v < 0 || v > 1 {
				t.Fatalf("line %d: value %v outside [0,1]", i, v)
			}
		}
		e := rec.Annotations[i]
		x := (xc - w/2) * 1920
		y := (yc - h/2) * 1080
		if math.Abs(x-float64(e.X)) > 1 || math.Abs(y-float64(e.Y)) > 1 ||
			math.Abs(w*1920-float64(e.Width)) > 1 || math.Abs(h*1080-float64(e.Height)) > 1 {
			t.Fatalf("line %d %q does not agree with entry %+v", i, line, e)
		}
		parts := strings.Fields(line)
		for _, p := range parts[1:] {
			if dot := strings.IndexByte(p, '.'); dot < 0 || len(p)-dot-1 != 6 {
				t.Fatalf("line %d: %q not printed with six decimals", i, p)
			}
		}
	}
	if rec.Annotations[0].Label != "cat" || rec.Annotations[2].Label != "dog" {
		t.Fatalf("insertion order not preserved: %+v", rec.Annotations)
	}

	// Two boxes on a 1000x500 image give two lines of five fields.
	small := annotation.ImageMeta{Path: "/data/images/small.png", Width: 1000, Height: 500}
	_, lines, err = Build(small, []annotation.Box{
		{Rect: image.Rect(100, 50, 300, 250), Label: "a"},
		{Rect: image.Rect(500, 0, 1000, 500), Label: "b"},
	}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := Text(lines)
	got := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if len(got) != 2 || !strings.HasSuffix(text, "\n") {
		t.Fatalf("expected exactly 2 newline-terminated lines, got %q", text)
	}
	want := []string{"0 0.200000 0.300000 0.200000 0.400000", "0 0.750000 0.500000 0.500000 1.000000"}
	for i, line := range got {
		fields := strings.Fields(line)
		if len(fields) != 5 {
			t.Fatalf("line %d %q: expected 5 fields", i, line)
		}
		for _, f := range fields[1:] {
			if dot := strings.IndexByte(f, '.'); dot < 0 || len(f)-dot-1 != 6 {
				t.Fatalf("line %d: %q not printed with six decimals", i, f)
			}
		}
		if line != want[i] {
			t.Fatalf("line %d: got %q want %q", i, line, want[i])
		}
	}
}

func TestBuild_Errors(t *testing.T) {
	if _, _, err := Build(annotation.ImageMeta{Path: "a.png", Width: 10, Height: 10}, nil, 0); !errors.Is(err, ErrEmptyExport) {
		t.Fatalf("expected ErrEmptyExport got %v", err)
	}
	if _, _, err := Build(annotation.ImageMeta{Path: "a.png"}, sampleBoxes(), 0); !errors.Is(err, ErrMissingDimensions) {
		t.Fatalf("expected ErrMissingDimensions got %v", err)
	}
}

func TestWriter_WritesBothFiles(t *testing.T) {
	dir := t.TempDir()
	meta := sampleMeta(dir)
	res, err := Writer{}.Write(meta, sampleBoxes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantJSON := filepath.Join(dir, "labels", "frame_01.json")
	wantTxt := filepath.Join(dir, "labels", "frame_01.txt")
	if res.JSONPath != wantJSON || res.TextPath != wantTxt || res.Count != 3 {
		t.Fatalf("unexpected result %+v", res)
	}
	raw, err := os.ReadFile(wantJSON)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	if !strings.Contains(string(raw), "\n  \"image\"") {
		t.Fatalf("json should be indented with two spaces: %s", raw)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(rec.Annotations) != 3 || rec.Annotations[0] != (Entry{Label: "cat", X: 240, Y: 300, Width: 480, Height: 480}) {
		t.Fatalf("unexpected record %+v", rec)
	}
	txt, err := os.ReadFile(wantTxt)
	if err != nil {
		t.Fatalf("read txt: %v", err)
	}
	if !strings.HasSuffix(string(txt), "\n") || strings.Count(string(txt), "\n") != 3 {
		t.Fatalf("expected three newline-terminated lines, got %q", txt)
	}
	if loaded, err := Load(wantJSON); err != nil || loaded.Image != meta.Path {
		t.Fatalf("load failed: %v %+v", err, loaded)
	}
	if leftovers, _ := filepath.Glob(filepath.Join(dir, "labels", ".*.tmp")); len(leftovers) != 0 {
		t.Fatalf("temp files left behind: %v", leftovers)
	}
}

func TestWriter_Overwrites(t *testing.T) {
	dir := t.TempDir()
	meta := sampleMeta(dir)
	w := Writer{ClassIndex: 2}
	if _, err := w.Write(meta, sampleBoxes()); err != nil {
		t.Fatalf("first write: %v", err)
	}
	res, err := w.Write(meta, sampleBoxes()[:1])
	if err != nil {
		t.Fatalf("second write: %v", err)
	}
	txt, _ := os.ReadFile(res.TextPath)
	if string(txt) != "2 0.250000 0.500000 0.250000 0.444444\n" {
		t.Fatalf("unexpected overwritten text %q", txt)
	}
}

func TestWriter_PartialFailureReportsBothSides(t *testing.T) {
	dir := t.TempDir()
	meta := sampleMeta(dir)
	w := Writer{}
	_, textPath := w.Paths(meta.Path)
	// A non-empty directory at the text target makes the rename fail.
	if err := os.MkdirAll(filepath.Join(textPath, "blocker"), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	res, err := w.Write(meta, sampleBoxes())
	var werr *WriteError
	if !errors.As(err, &werr) {
		t.Fatalf("expected *WriteError got %v", err)
	}
	if werr.JSONErr != nil || werr.TextErr == nil || !werr.Partial() {
		t.Fatalf("expected json ok and text failed: %+v", werr)
	}
	if _, err := os.Stat(res.JSONPath); err != nil {
		t.Fatalf("json side should remain written: %v", err)
	}
	if !strings.Contains(werr.Error(), res.TextPath) {
		t.Fatalf("error should name the failed path: %v", werr)
	}
}

func TestWriter_EmptySetWritesNothing(t *testing.T) {
	dir := t.TempDir()
	meta := sampleMeta(dir)
	if _, err := (Writer{}).Write(meta, nil); !errors.Is(err, ErrEmptyExport) {
		t.Fatalf("expected ErrEmptyExport got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "labels")); !os.IsNotExist(err) {
		t.Fatalf("labels dir must not be created for an empty export")
	}
}

func TestLabelsDirFor(t *testing.T) {
	got := LabelsDirFor(filepath.Join("data", "set", "images", "a.png"), "")
	if got != filepath.Join("data", "set", "labels") {
		t.Fatalf("unexpected labels dir %q", got)
	}
	if BaseName("x/y/photo.final.jpeg") != "photo.final" {
		t.Fatalf("unexpected base name")
	}
}
