package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// It calls Tick on the sub-presenters and invokes a scheduler callback.
// The zero value is usable (methods are nil-safe).
type Loop struct {
	Activity *ActivityPresenter
	State    *StatePresenter
	Capture  *CapturePresenter
	Schedule func()
}

func NewLoop(activity *ActivityPresenter, state *StatePresenter, capture *CapturePresenter, schedule func()) *Loop {
	return &Loop{Activity: activity, State: state, Capture: capture, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	if l.State != nil {
		l.State.Tick()
	}
	if l.Activity != nil {
		l.Activity.Tick(now)
	}
	if l.Capture != nil {
		l.Capture.Tick()
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
