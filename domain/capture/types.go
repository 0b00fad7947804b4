package capture

import (
	"image"
	"time"
)

// GrabFunc returns one image of the screen.
type GrabFunc func() (*image.RGBA, error)

// Shot describes the outcome of one capture request.
type Shot struct {
	Path     string
	Size     image.Point
	TakenAt  time.Time
	Err      error
	Sequence uint64
}

// ShotSource gives read-only access to the most recent capture.
type ShotSource interface {
	Latest() (Shot, bool)
	Busy() bool
}

// Service is the capture contract used by presenters.
type Service interface {
	ShotSource
	// Request starts a capture into dir. It returns false when one is already running.
	Request(dir string) bool
	Stats() CaptureStats
}
