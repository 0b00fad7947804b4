package images

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/soocke/boxlabel-go/domain/annotation"
	"github.com/soocke/boxlabel-go/domain/geometry"
)

func sameColor(a, b color.Color) bool {
	r1, g1, b1, a1 := a.RGBA()
	r2, g2, b2, a2 := b.RGBA()
	return r1 == r2 && g1 == g2 && b1 == b2 && a1 == a2
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func TestRender_LetterboxAndBoxes(t *testing.T) {
	tr, _ := geometry.FitToDisplay(1920, 1080, 800, 600)
	scaled := image.NewRGBA(image.Rect(0, 0, tr.DisplayW, tr.DisplayH))
	out := Render(Frame{
		Transform: tr,
		SurfaceW:  800,
		SurfaceH:  600,
		Image:     scaled,
		Boxes:     []annotation.Box{{Rect: image.Rect(240, 300, 720, 780), Label: "cat"}},
	})
	if out.Bounds().Dx() != 800 || out.Bounds().Dy() != 600 {
		t.Fatalf("unexpected surface size %v", out.Bounds())
	}
	if !sameColor(out.At(10, 10), ColorLetterbox) {
		t.Fatalf("expected letterbox color above the image, got %v", out.At(10, 10))
	}
	// box maps to display (100,200)-(300,400); its bottom-right corner is outline
	if !sameColor(out.At(299, 399), ColorBox) {
		t.Fatalf("expected box outline at (299,399), got %v", out.At(299, 399))
	}
	if sameColor(out.At(200, 300), ColorBox) {
		t.Fatalf("box interior must not be filled")
	}
}

func TestRender_Preview(t *testing.T) {
	tr, _ := geometry.FitToDisplay(400, 300, 800, 600)
	out := Render(Frame{Transform: tr, SurfaceW: 800, SurfaceH: 600, Preview: image.Rect(10, 10, 50, 50), HasPreview: true})
	p := image.Pt(tr.OffsetX+10, tr.OffsetY+30)
	if !sameColor(out.At(p.X, p.Y), ColorPreview) {
		t.Fatalf("expected preview outline at %v, got %v", p, out.At(p.X, p.Y))
	}
}

func TestAnnotate_KeepsResolution(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 100))
	out := Annotate(src, []annotation.Box{{Rect: image.Rect(20, 30, 80, 90), Label: "x"}})
	if out.Bounds().Dx() != 200 || out.Bounds().Dy() != 100 {
		t.Fatalf("unexpected size %v", out.Bounds())
	}
	if !sameColor(out.At(20, 60), ColorBox) {
		t.Fatalf("expected outline at left edge")
	}
	if sameColor(src.At(20, 60), ColorBox) {
		t.Fatalf("source must not be modified")
	}
}

func TestLoader_CachesAndScales(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	writePNG(t, path, 64, 32)
	l, err := NewLoader(2, nil)
	if err != nil {
		t.Fatalf("loader: %v", err)
	}
	opens := 0
	base := l.openFunc
	l.openFunc = func(p string) (image.Image, error) { opens++; return base(p) }
	img, err := l.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 32 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	if _, err := l.Open(path); err != nil || opens != 1 {
		t.Fatalf("expected cached decode, opens=%d err=%v", opens, err)
	}
	s, err := l.Scaled(path, 32, 16)
	if err != nil || s.Bounds().Dx() != 32 || s.Bounds().Dy() != 16 {
		t.Fatalf("unexpected scaled image %v err=%v", s, err)
	}
	l.Forget(path)
	if l.Len() != 0 {
		t.Fatalf("forget should evict the decoded image")
	}
	if _, err := l.Open(filepath.Join(dir, "missing.png")); err == nil {
		t.Fatalf("expected error for missing file")
	} else if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped not-exist error, got %v", err)
	}
}

func TestSaveImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annotated_images", "a.png")
	if err := SaveImage(path, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file: %v", err)
	}
}

func TestEncodePNG(t *testing.T) {
	if EncodePNG(nil) != nil {
		t.Fatalf("nil image should encode to nil")
	}
	if len(EncodePNG(image.NewRGBA(image.Rect(0, 0, 2, 2)))) == 0 {
		t.Fatalf("expected png bytes")
	}
}
