package presenter

import (
	"github.com/soocke/boxlabel-go/domain/session"
)

// StateView sets the state label in the view. The config form is locked while a
// gesture is in progress.
type StateView interface {
	SetStateLabel(string)
	SetConfigEditable(bool)
}

// StatePresenter receives session transitions and reflects the newest on Tick.
type StatePresenter struct {
	view    StateView
	latest  session.State
	shown   bool
	pending []session.State
}

func NewStatePresenter(view StateView) *StatePresenter {
	return &StatePresenter{view: view}
}

// OnState queues a transition. It matches session.StateListener.
func (p *StatePresenter) OnState(_, next session.State) {
	if p == nil {
		return
	}
	p.pending = append(p.pending, next)
}

// Tick shows the most recent queued state and clears the queue.
func (p *StatePresenter) Tick() {
	if p == nil || p.view == nil {
		return
	}
	if !p.shown {
		p.shown = true
		p.view.SetStateLabel("State: " + p.latest.String())
		p.view.SetConfigEditable(p.latest == session.StateIdle)
	}
	if len(p.pending) == 0 {
		return
	}
	last := p.pending[len(p.pending)-1]
	p.pending = p.pending[:0]
	if last != p.latest {
		p.latest = last
		p.view.SetStateLabel("State: " + last.String())
		p.view.SetConfigEditable(last == session.StateIdle)
	}
}
