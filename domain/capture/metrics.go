package capture

import "time"

// CaptureStats summarises capture requests for instrumentation.
type CaptureStats struct {
	Captures    uint64
	Failures    uint64
	AvgCapture  time.Duration
	LastCapture time.Time
	Sequence    uint64
}
