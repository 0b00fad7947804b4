package presenter

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"

	"github.com/soocke/boxlabel-go/domain/annotation"
	"github.com/soocke/boxlabel-go/domain/export"
	"github.com/soocke/boxlabel-go/domain/files"
	"github.com/soocke/boxlabel-go/domain/geometry"
	"github.com/soocke/boxlabel-go/domain/session"
	"github.com/soocke/boxlabel-go/ui/images"
	"github.com/soocke/boxlabel-go/ui/model"
)

// ImageSource decodes images and their display-sized copies. Satisfied by *images.Loader.
type ImageSource interface {
	Open(path string) (image.Image, error)
	Scaled(path string, w, h int) (image.Image, error)
}

// Exporter persists a set. Satisfied by export.Writer.
type Exporter interface {
	Write(meta annotation.ImageMeta, boxes []annotation.Box) (export.Result, error)
	Paths(imagePath string) (jsonPath, textPath string)
}

// AnnotationSession is the gesture engine plus the read accessors rendering needs.
type AnnotationSession interface {
	session.Contract
	Candidate() (image.Rectangle, bool)
	Image() annotation.ImageMeta
	Transform() geometry.Transform
}

// AnnotationView shows the surface and the text around it.
type AnnotationView interface {
	ShowFrame(img image.Image)
	SetInfo(text string)
	SetStatus(text string)
	SetDetails(text string)
	SetExportEnabled(enabled bool)
}

// AnnotationOptions holds the layout settings the presenter needs from config.
type AnnotationOptions struct {
	SurfaceW     int
	SurfaceH     int
	AnnotatedDir string
}

// AnnotationPresenter connects the loaded image, its box set and the gesture session to
// the display surface. It runs on the UI thread.
type AnnotationPresenter struct {
	logger   *slog.Logger
	opts     AnnotationOptions
	store    *annotation.Store
	images   ImageSource
	exporter Exporter
	view     AnnotationView
	activity *model.ActivityModel
	sess     AnnotationSession

	path   string
	scaled image.Image
}

func NewAnnotationPresenter(logger *slog.Logger, opts AnnotationOptions, store *annotation.Store, src ImageSource, exp Exporter, view AnnotationView, activity *model.ActivityModel) *AnnotationPresenter {
	if opts.SurfaceW < 1 {
		opts.SurfaceW = 1
	}
	if opts.SurfaceH < 1 {
		opts.SurfaceH = 1
	}
	return &AnnotationPresenter{logger: logger, opts: opts, store: store, images: src, exporter: exp, view: view, activity: activity}
}

// Attach binds the session. It is separate from construction because the session's
// callbacks point back at the presenter.
func (p *AnnotationPresenter) Attach(s AnnotationSession) {
	if p != nil {
		p.sess = s
	}
}

// Callbacks returns session callbacks that redraw the surface.
func (p *AnnotationPresenter) Callbacks() session.Callbacks {
	return session.Callbacks{
		Preview:   func(image.Rectangle) { p.render() },
		Committed: p.onCommitted,
		Discarded: p.onDiscarded,
	}
}

func (p *AnnotationPresenter) ready() bool {
	return p != nil && p.sess != nil && p.view != nil && p.store != nil && p.images != nil
}

// Path returns the loaded image path or "".
func (p *AnnotationPresenter) Path() string {
	if p == nil {
		return ""
	}
	return p.path
}

// Editable reports whether an image is loaded and may be annotated.
func (p *AnnotationPresenter) Editable() bool {
	return p.ready() && p.path != "" && p.sess.Editable()
}

// SelectImage loads path, activates its set and resets the gesture.
func (p *AnnotationPresenter) SelectImage(path string) error {
	if !p.ready() {
		return nil
	}
	img, err := p.images.Open(path)
	if err != nil {
		p.view.SetStatus("Failed to load image: " + err.Error())
		return err
	}
	b := img.Bounds()
	meta := annotation.ImageMeta{Path: path, Width: b.Dx(), Height: b.Dy()}
	tr, err := geometry.FitToDisplay(meta.Width, meta.Height, p.opts.SurfaceW, p.opts.SurfaceH)
	if err != nil {
		p.view.SetStatus("Cannot display image: " + err.Error())
		return err
	}
	scaled, err := p.images.Scaled(path, tr.DisplayW, tr.DisplayH)
	if err != nil {
		p.view.SetStatus("Failed to scale image: " + err.Error())
		return err
	}
	editable := !files.ReadOnly(path, p.opts.AnnotatedDir)
	set := p.store.Activate(path)
	p.sess.Load(meta, set, tr, editable)
	p.path, p.scaled = path, scaled

	p.view.SetInfo(fmt.Sprintf("%s  %dx%d", filepath.Base(path), meta.Width, meta.Height))
	p.view.SetDetails(p.existingLabels(path))
	p.refreshStatus()
	if p.logger != nil {
		p.logger.Info("image selected", "path", path, "width", meta.Width, "height", meta.Height, "editable", editable)
	}
	p.render()
	return nil
}

// existingLabels returns the stored JSON for path, if an export exists.
func (p *AnnotationPresenter) existingLabels(path string) string {
	if p.exporter == nil {
		return ""
	}
	jsonPath, _ := p.exporter.Paths(path)
	rec, err := export.Load(jsonPath)
	if err != nil {
		return ""
	}
	return formatRecord(rec)
}

func formatRecord(rec export.Record) string {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}

// PointerDown, PointerMove and PointerUp forward surface coordinates to the session.
func (p *AnnotationPresenter) PointerDown(x, y int) {
	if !p.ready() {
		return
	}
	err := p.sess.PointerDown(image.Pt(x, y))
	switch {
	case err == nil:
		p.render()
	case errors.Is(err, session.ErrNoImage):
		p.view.SetStatus("Select an image first")
	case errors.Is(err, session.ErrNotEditable):
		p.view.SetStatus("Read-only: annotated copies cannot be edited")
	default:
		p.debug("pointer down ignored", err)
	}
}

func (p *AnnotationPresenter) PointerMove(x, y int) {
	if !p.ready() {
		return
	}
	if err := p.sess.PointerMove(image.Pt(x, y)); err != nil {
		p.debug("pointer move ignored", err)
	}
}

func (p *AnnotationPresenter) PointerUp(x, y int) {
	if !p.ready() {
		return
	}
	if err := p.sess.PointerUp(image.Pt(x, y)); err != nil {
		p.debug("pointer up ignored", err)
	}
	p.render()
}

// Undo removes the most recent box.
func (p *AnnotationPresenter) Undo() {
	if !p.ready() {
		return
	}
	_, set, ok := p.store.Active()
	if !ok || !p.sess.Editable() {
		p.view.SetStatus("Nothing to undo")
		return
	}
	box, ok := set.UndoLast()
	if !ok {
		p.view.SetStatus("Nothing to undo")
		return
	}
	p.activity.BoxesRemoved(1)
	if p.logger != nil {
		p.logger.Info("box removed", "image", p.path, "label", box.Label, "count", set.Len())
	}
	p.refreshStatus()
	p.render()
}

// Clear removes every box of the current image.
func (p *AnnotationPresenter) Clear() {
	if !p.ready() {
		return
	}
	_, set, ok := p.store.Active()
	if !ok || !p.sess.Editable() {
		return
	}
	n := set.Len()
	p.sess.Abandon()
	set.Clear()
	p.activity.BoxesRemoved(n)
	if p.logger != nil && n > 0 {
		p.logger.Info("boxes cleared", "image", p.path, "count", n)
	}
	p.refreshStatus()
	p.render()
}

// Export writes the label files and the annotated copy of the current image.
func (p *AnnotationPresenter) Export() {
	if !p.ready() || p.exporter == nil {
		return
	}
	if p.path == "" {
		p.view.SetStatus("Select an image first")
		return
	}
	if !p.sess.Editable() {
		p.view.SetStatus("Read-only: annotated copies cannot be exported")
		return
	}
	_, set, _ := p.store.Active()
	res, err := p.exporter.Write(p.sess.Image(), set.All())
	var werr *export.WriteError
	switch {
	case errors.Is(err, export.ErrEmptyExport):
		p.view.SetStatus("No annotations to export")
		return
	case errors.Is(err, export.ErrMissingDimensions):
		p.view.SetStatus("Image dimensions unknown; reload the image")
		return
	case errors.As(err, &werr):
		if werr.Partial() {
			p.view.SetStatus("Export partially failed: " + werr.Error())
		} else {
			p.view.SetStatus("Export failed: " + werr.Error())
		}
		return
	case err != nil:
		p.view.SetStatus("Export failed: " + err.Error())
		return
	}
	p.activity.ImageExported()
	msg := fmt.Sprintf("Saved %d annotations to %s and %s", res.Count, res.JSONPath, res.TextPath)
	if copyPath, err := p.saveAnnotatedCopy(set.All()); err != nil {
		msg += "; annotated copy failed: " + err.Error()
	} else if p.logger != nil {
		p.logger.Info("annotated copy saved", "path", copyPath)
	}
	p.view.SetStatus(msg)
	if rec, err := export.Load(res.JSONPath); err == nil {
		p.view.SetDetails(formatRecord(rec))
	}
}

// ThumbnailSide bounds the longer side of label prompt thumbnails.
const ThumbnailSide = 160

// Thumbnail crops rect out of the current image for the label prompt. It returns nil
// when no image is loaded.
func (p *AnnotationPresenter) Thumbnail(rect image.Rectangle) image.Image {
	if !p.ready() || p.path == "" {
		return nil
	}
	src, err := p.images.Open(p.path)
	if err != nil {
		return nil
	}
	thumb, _, err := images.CropBox(src, rect, ThumbnailSide)
	if err != nil {
		p.debug("thumbnail failed", err)
		return nil
	}
	return thumb
}

// AnnotatedPath returns where the rendered copy of imagePath is stored.
func AnnotatedPath(imagePath, dirName string) string {
	parent := filepath.Dir(filepath.Dir(imagePath))
	return filepath.Join(parent, dirName, filepath.Base(imagePath))
}

func (p *AnnotationPresenter) saveAnnotatedCopy(boxes []annotation.Box) (string, error) {
	if p.opts.AnnotatedDir == "" {
		return "", nil
	}
	src, err := p.images.Open(p.path)
	if err != nil {
		return "", err
	}
	target := AnnotatedPath(p.path, p.opts.AnnotatedDir)
	return target, images.SaveImage(target, images.Annotate(src, boxes))
}

// Resize refits the current image to a new surface size. Any in-flight gesture is dropped.
func (p *AnnotationPresenter) Resize(w, h int) {
	if !p.ready() || w < 1 || h < 1 {
		return
	}
	if w == p.opts.SurfaceW && h == p.opts.SurfaceH {
		return
	}
	p.opts.SurfaceW, p.opts.SurfaceH = w, h
	if p.path == "" {
		p.render()
		return
	}
	meta := p.sess.Image()
	tr, err := geometry.FitToDisplay(meta.Width, meta.Height, w, h)
	if err != nil {
		p.debug("resize ignored", err)
		return
	}
	scaled, err := p.images.Scaled(p.path, tr.DisplayW, tr.DisplayH)
	if err != nil {
		p.view.SetStatus("Failed to scale image: " + err.Error())
		return
	}
	p.sess.SetTransform(tr)
	p.scaled = scaled
	p.render()
}

// Forget drops the current image, e.g. after it was renamed or deleted.
func (p *AnnotationPresenter) Forget() {
	if !p.ready() {
		return
	}
	p.sess.Abandon()
	p.store.Deactivate()
	p.path, p.scaled = "", nil
	p.sess.Load(annotation.ImageMeta{}, nil, geometry.Transform{}, false)
	p.view.SetInfo("")
	p.view.SetDetails("")
	p.refreshStatus()
	p.render()
}

func (p *AnnotationPresenter) onCommitted(annotation.Box) {
	p.activity.BoxAdded()
	p.refreshStatus()
	p.render()
}

func (p *AnnotationPresenter) onDiscarded(reason error) {
	p.debug("gesture discarded", reason)
	p.render()
}

// StatusText summarizes the active set.
func StatusText(n int) string {
	if n == 0 {
		return "No annotations"
	}
	if n == 1 {
		return "Annotations: 1 bounding box"
	}
	return fmt.Sprintf("Annotations: %d bounding boxes", n)
}

func (p *AnnotationPresenter) refreshStatus() {
	_, set, ok := p.store.Active()
	n := 0
	if ok {
		n = set.Len()
	}
	editable := p.path != "" && p.sess.Editable()
	p.view.SetExportEnabled(editable && n > 0)
	if p.path != "" && !editable {
		p.view.SetStatus("Read-only: annotated copy")
		return
	}
	p.view.SetStatus(StatusText(n))
}

func (p *AnnotationPresenter) render() {
	if !p.ready() {
		return
	}
	f := images.Frame{SurfaceW: p.opts.SurfaceW, SurfaceH: p.opts.SurfaceH}
	if p.path != "" {
		f.Transform = p.sess.Transform()
		f.Image = p.scaled
		if _, set, ok := p.store.Active(); ok {
			f.Boxes = set.All()
		}
		f.Preview, f.HasPreview = p.sess.Candidate()
	}
	p.view.ShowFrame(images.Render(f))
}

func (p *AnnotationPresenter) debug(msg string, err error) {
	if p.logger != nil && err != nil {
		p.logger.Debug(msg, "error", err)
	}
}
