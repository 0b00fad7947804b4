package view

import (
	"image"

	"github.com/soocke/boxlabel-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// PointerHandlers receive surface coordinates of the left mouse button gesture.
type PointerHandlers struct {
	Down func(x, y int)
	Move func(x, y int)
	Up   func(x, y int)
}

// Surface is the display area the image is letterboxed into.
type Surface interface {
	Show(img image.Image)
	Reset()
}

type surface struct {
	label     *LabelWidget
	w, h      int
	prevPhoto *Img // disposed before replacement so old pixel buffers are freed
}

// NewSurface creates the image label at (row, col), sized w x h, and binds the pointer
// events. The label has no border so event coordinates match rendered pixels.
func NewSurface(row, col, span, w, h int, ph PointerHandlers) Surface {
	s := &surface{w: w, h: h}
	s.prevPhoto = NewPhoto(Data(images.EncodePNG(blank(w, h))))
	s.label = Label(Image(s.prevPhoto), Borderwidth(0), Anchor("nw"))
	Grid(s.label, Row(row), Column(col), Columnspan(span), Sticky("nw"), Padx("0.4m"), Pady("0.4m"))
	bindPointer(s.label, "<ButtonPress-1>", ph.Down)
	bindPointer(s.label, "<B1-Motion>", ph.Move)
	bindPointer(s.label, "<ButtonRelease-1>", ph.Up)
	return s
}

func bindPointer(w *LabelWidget, event string, h func(x, y int)) {
	if h == nil {
		return
	}
	Bind(w, event, Command(func(e *Event) { h(e.X, e.Y) }))
}

func blank(w, h int) image.Image {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return images.Render(images.Frame{SurfaceW: w, SurfaceH: h})
}

// Show replaces the displayed frame.
func (s *surface) Show(img image.Image) {
	if s == nil || s.label == nil || img == nil {
		return
	}
	b := img.Bounds()
	s.w, s.h = b.Dx(), b.Dy()
	s.replace(images.EncodePNG(img))
}

// Reset shows an empty letterbox.
func (s *surface) Reset() {
	if s == nil || s.label == nil {
		return
	}
	s.replace(images.EncodePNG(blank(s.w, s.h)))
}

func (s *surface) replace(pngBytes []byte) {
	if s.prevPhoto != nil {
		s.prevPhoto.Delete()
	}
	s.prevPhoto = NewPhoto(Data(pngBytes))
	s.label.Configure(Image(s.prevPhoto))
}
