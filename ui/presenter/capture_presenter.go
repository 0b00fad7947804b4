package presenter

import (
	"path/filepath"

	"github.com/soocke/boxlabel-go/domain/capture"
)

// CaptureView updates UI elements affected by screenshot capture.
type CaptureView interface {
	SetStatus(text string)
	SetCaptureBusy(busy bool)
}

// CapturePresenter requests screenshots and reflects finished captures on Tick.
type CapturePresenter struct {
	service capture.Service
	view    CaptureView
	dir     func() string
	onSaved func(path string)
	lastSeq uint64
	busy    bool
}

// NewCapturePresenter returns a presenter writing into the directory returned by dir.
// onSaved runs on the UI thread once per successful capture.
func NewCapturePresenter(service capture.Service, view CaptureView, dir func() string, onSaved func(path string)) *CapturePresenter {
	return &CapturePresenter{service: service, view: view, dir: dir, onSaved: onSaved}
}

// Request starts a capture unless one is already running.
func (c *CapturePresenter) Request() {
	if c == nil || c.service == nil || c.view == nil || c.dir == nil {
		return
	}
	if !c.service.Request(c.dir()) {
		c.view.SetStatus("Screenshot already in progress")
		return
	}
	c.busy = true
	c.view.SetCaptureBusy(true)
	c.view.SetStatus("Taking screenshot...")
}

// Tick publishes the latest capture once.
func (c *CapturePresenter) Tick() {
	if c == nil || c.service == nil || c.view == nil {
		return
	}
	if busy := c.service.Busy(); busy != c.busy {
		c.busy = busy
		c.view.SetCaptureBusy(busy)
	}
	shot, ok := c.service.Latest()
	if !ok || shot.Sequence == c.lastSeq {
		return
	}
	c.lastSeq = shot.Sequence
	if shot.Err != nil {
		c.view.SetStatus("Screenshot failed: " + shot.Err.Error())
		return
	}
	c.view.SetStatus("Saved screenshot " + filepath.Base(shot.Path))
	if c.onSaved != nil {
		c.onSaved(shot.Path)
	}
}
