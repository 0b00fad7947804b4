package capture

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/disintegration/imaging"
	"github.com/vova616/screenshot"
)

// FilePrefix names saved screenshots: Screenshot_1.png, Screenshot_2.png, ...
const FilePrefix = "Screenshot_"

var ErrNoImage = errors.New("screen grab returned no image")

type captureService struct {
	busy         atomic.Bool
	latest       atomic.Pointer[Shot]
	grab         GrabFunc
	logger       *slog.Logger
	captures     atomic.Uint64
	failures     atomic.Uint64
	captureNanos atomic.Uint64
	sequence     atomic.Uint64
}

// NewCaptureService returns a service grabbing the primary screen. Captures run in a
// background goroutine; presenters poll Latest from the UI thread.
func NewCaptureService(logger *slog.Logger) Service {
	return newCaptureService(logger, screenshot.CaptureScreen)
}

func newCaptureService(logger *slog.Logger, grab GrabFunc) *captureService {
	return &captureService{grab: grab, logger: logger}
}

func (s *captureService) Busy() bool { return s.busy.Load() }

func (s *captureService) Latest() (Shot, bool) {
	snap := s.latest.Load()
	if snap == nil {
		return Shot{}, false
	}
	return *snap, true
}

func (s *captureService) Request(dir string) bool {
	if !s.busy.CompareAndSwap(false, true) {
		return false
	}
	go func() {
		defer s.busy.Store(false)
		defer func() {
			if r := recover(); r != nil {
				s.store(Shot{Err: fmt.Errorf("capture panic: %v", r), TakenAt: time.Now()})
			}
		}()
		s.store(s.captureTo(dir))
	}()
	return true
}

// captureTo grabs the screen and writes it to the next free name in dir.
func (s *captureService) captureTo(dir string) Shot {
	start := time.Now()
	img, err := s.grab()
	if err == nil && img == nil {
		err = ErrNoImage
	}
	if err != nil {
		return Shot{Err: fmt.Errorf("grab screen: %w", err), TakenAt: start}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Shot{Err: err, TakenAt: start}
	}
	path, err := NextName(dir)
	if err != nil {
		return Shot{Err: err, TakenAt: start}
	}
	if err := imaging.Save(img, path); err != nil {
		return Shot{Err: fmt.Errorf("save %s: %w", path, err), TakenAt: start}
	}
	s.captureNanos.Add(uint64(time.Since(start).Nanoseconds()))
	return Shot{Path: path, Size: img.Bounds().Size(), TakenAt: start}
}

func (s *captureService) store(shot Shot) {
	if shot.Err != nil {
		s.failures.Add(1)
		if s.logger != nil {
			s.logger.Error("capture failed", "error", shot.Err)
		}
	} else {
		s.captures.Add(1)
		if s.logger != nil {
			s.logger.Info("screenshot saved", "path", shot.Path, "width", shot.Size.X, "height", shot.Size.Y)
		}
	}
	shot.Sequence = s.sequence.Add(1)
	s.latest.Store(&shot)
}

func (s *captureService) Stats() CaptureStats {
	captures := s.captures.Load()
	var avg time.Duration
	if captures > 0 {
		avg = time.Duration(s.captureNanos.Load() / captures)
	}
	st := CaptureStats{Captures: captures, Failures: s.failures.Load(), AvgCapture: avg, Sequence: s.sequence.Load()}
	if snap, ok := s.Latest(); ok {
		st.LastCapture = snap.TakenAt
	}
	return st
}

var shotName = regexp.MustCompile(`^` + FilePrefix + `(\d+)\.png$`)

// NextName returns dir/Screenshot_<n>.png where n is one above the highest existing index.
func NextName(dir string) (string, error) {
	des, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return "", err
	}
	highest := 0
	for _, de := range des {
		m := shotName.FindStringSubmatch(de.Name())
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
			highest = n
		}
	}
	return filepath.Join(dir, fmt.Sprintf("%s%d.png", FilePrefix, highest+1)), nil
}

var _ Service = (*captureService)(nil)
