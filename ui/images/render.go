package images

import (
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/soocke/boxlabel-go/domain/annotation"
	"github.com/soocke/boxlabel-go/domain/geometry"
)

// Overlay colors. Committed boxes are green like the exported preview images.
var (
	ColorBox       = color.NRGBA{R: 0, G: 200, B: 0, A: 255}
	ColorPreview   = color.NRGBA{R: 255, G: 140, B: 0, A: 255}
	ColorLetterbox = color.NRGBA{R: 40, G: 44, B: 52, A: 255}
	ColorLabelText = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// BoxThickness is the outline width in surface pixels.
const BoxThickness = 3

// Frame is everything needed to draw one view of the display surface.
type Frame struct {
	Transform geometry.Transform
	SurfaceW  int
	SurfaceH  int
	// Image is the picture already scaled to Transform.DisplayW x DisplayH.
	Image      image.Image
	Boxes      []annotation.Box
	Preview    image.Rectangle
	HasPreview bool
}

// Render draws the letterboxed image with its boxes and the optional in-progress preview.
func Render(f Frame) *image.NRGBA {
	w, h := f.SurfaceW, f.SurfaceH
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := imaging.New(w, h, ColorLetterbox)
	if f.Image != nil && f.Transform.Valid() {
		draw.Draw(dst, f.Transform.DisplayRect(), f.Image, f.Image.Bounds().Min, draw.Src)
	}
	for _, b := range f.Boxes {
		r := f.Transform.ImageToDisplay(b.Rect)
		DrawBox(dst, r, ColorBox, BoxThickness)
		DrawLabel(dst, r, b.Label, ColorBox)
	}
	if f.HasPreview {
		DrawBox(dst, f.Transform.ImageToDisplay(f.Preview), ColorPreview, 2)
	}
	return dst
}

// Annotate returns a full-resolution copy of src with the boxes drawn on it.
func Annotate(src image.Image, boxes []annotation.Box) *image.NRGBA {
	dst := imaging.Clone(src)
	for _, b := range boxes {
		DrawBox(dst, b.Rect, ColorBox, BoxThickness)
		DrawLabel(dst, b.Rect, b.Label, ColorBox)
	}
	return dst
}

// DrawBox outlines r with the given thickness, drawing inward from the edges.
func DrawBox(dst draw.Image, r image.Rectangle, c color.Color, thick int) {
	r = r.Canon()
	if r.Empty() {
		return
	}
	if thick < 1 {
		thick = 1
	}
	src := &image.Uniform{C: c}
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thick),
		image.Rect(r.Min.X, r.Max.Y-thick, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+thick, r.Max.Y),
		image.Rect(r.Max.X-thick, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(r), src, image.Point{}, draw.Src)
	}
}

// DrawLabel writes text on a filled tag just above r, or inside its top edge when there
// is no room above.
func DrawLabel(dst draw.Image, r image.Rectangle, text string, bg color.Color) {
	if text == "" {
		return
	}
	face := basicfont.Face7x13
	tw := font.MeasureString(face, text).Ceil() + 4
	th := face.Height + 2
	top := r.Min.Y - th
	if top < dst.Bounds().Min.Y {
		top = r.Min.Y
	}
	tag := image.Rect(r.Min.X, top, r.Min.X+tw, top+th)
	draw.Draw(dst, tag, &image.Uniform{C: bg}, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(ColorLabelText),
		Face: face,
		Dot:  fixed.P(tag.Min.X+2, tag.Min.Y+face.Ascent+1),
	}
	d.DrawString(text)
}

// SaveImage writes img to path, creating parent directories. The format follows the
// file extension.
func SaveImage(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return imaging.Save(img, path)
}
