package presenter

import (
	"errors"
	"testing"

	"github.com/soocke/boxlabel-go/domain/capture"
)

// mockService implements capture.Service with a settable latest shot.
type mockService struct {
	requests int
	refuse   bool
	busy     bool
	shot     capture.Shot
	has      bool
	dir      string
}

func (s *mockService) Request(dir string) bool {
	if s.refuse {
		return false
	}
	s.requests++
	s.dir = dir
	s.busy = true
	return true
}
func (s *mockService) Latest() (capture.Shot, bool) { return s.shot, s.has }
func (s *mockService) Busy() bool                   { return s.busy }
func (s *mockService) Stats() capture.CaptureStats  { return capture.CaptureStats{} }

var _ capture.Service = (*mockService)(nil)

type captureView struct {
	status    string
	busyCalls int
	busy      bool
}

func (v *captureView) SetStatus(text string)    { v.status = text }
func (v *captureView) SetCaptureBusy(busy bool) { v.busyCalls++; v.busy = busy }

func TestCapturePresenter_RequestAndPublish(t *testing.T) {
	svc := &mockService{}
	view := &captureView{}
	var saved []string
	p := NewCapturePresenter(svc, view, func() string { return "/shots" }, func(path string) { saved = append(saved, path) })

	p.Request()
	if svc.requests != 1 || svc.dir != "/shots" || !view.busy {
		t.Fatalf("request not forwarded: requests=%d dir=%q busy=%v", svc.requests, svc.dir, view.busy)
	}

	// Capture finishes.
	svc.busy = false
	svc.shot, svc.has = capture.Shot{Path: "/shots/Screenshot_1.png", Sequence: 1}, true
	p.Tick()
	if view.busy || view.status != "Saved screenshot Screenshot_1.png" || len(saved) != 1 {
		t.Fatalf("capture not published: busy=%v status=%q saved=%v", view.busy, view.status, saved)
	}
	// Same sequence is published once.
	p.Tick()
	if len(saved) != 1 {
		t.Fatalf("shot published twice")
	}
}

func TestCapturePresenter_RefusedAndFailed(t *testing.T) {
	svc := &mockService{refuse: true}
	view := &captureView{}
	p := NewCapturePresenter(svc, view, func() string { return "." }, nil)
	p.Request()
	if view.status != "Screenshot already in progress" || view.busyCalls != 0 {
		t.Fatalf("refused request: status=%q busyCalls=%d", view.status, view.busyCalls)
	}
	svc.shot, svc.has = capture.Shot{Err: errors.New("no display"), Sequence: 4}, true
	p.Tick()
	if view.status != "Screenshot failed: no display" {
		t.Fatalf("unexpected status %q", view.status)
	}
}
