package presenter

import (
	"testing"
	"time"

	"github.com/soocke/boxlabel-go/domain/session"
	"github.com/soocke/boxlabel-go/ui/model"
)

type stateView struct {
	labels   []string
	editable bool
}

func (v *stateView) SetStateLabel(s string)    { v.labels = append(v.labels, s) }
func (v *stateView) SetConfigEditable(on bool) { v.editable = on }

func TestStatePresenter_ShowsLatestQueuedState(t *testing.T) {
	view := &stateView{}
	p := NewStatePresenter(view)
	p.Tick()
	if len(view.labels) != 1 || view.labels[0] != "State: idle" || !view.editable {
		t.Fatalf("initial label missing: %v", view.labels)
	}
	p.OnState(session.StateIdle, session.StateDragging)
	p.OnState(session.StateDragging, session.StateAwaitingLabel)
	p.Tick()
	if got := view.labels[len(view.labels)-1]; got != "State: awaiting_label" {
		t.Fatalf("expected latest state, got %q", got)
	}
	if view.editable {
		t.Fatalf("config must be locked while a label is pending")
	}
	n := len(view.labels)
	p.Tick()
	if len(view.labels) != n {
		t.Fatalf("empty queue must not update the view")
	}
}

type labelingSource struct{ editable bool }

func (s *labelingSource) Editable() bool { return s.editable }

type activityView struct {
	current, total  time.Duration
	added, exported int
	calls           int
}

func (v *activityView) SetActivity(current, total time.Duration, added, exported int) {
	v.current, v.total, v.added, v.exported = current, total, added, exported
	v.calls++
}

func TestActivityPresenter_Tick(t *testing.T) {
	act := model.NewActivityModel()
	src := &labelingSource{editable: true}
	view := &activityView{}
	p := NewActivityPresenter(act, src, view)
	base := time.Unix(100, 0)
	p.Tick(base)
	act.BoxAdded()
	p.Tick(base.Add(3 * time.Second))
	if view.current != 3*time.Second || view.total != 3*time.Second || view.added != 1 {
		t.Fatalf("unexpected view values %+v", view)
	}
	src.editable = false
	p.Tick(base.Add(10 * time.Second))
	if view.total != 10*time.Second {
		t.Fatalf("closing the image banks the elapsed time, got %v", view.total)
	}
}

func TestLoop_TicksAndReschedules(t *testing.T) {
	view := &stateView{}
	scheduled := 0
	l := NewLoop(nil, NewStatePresenter(view), nil, func() { scheduled++ })
	l.Tick()
	l.Tick()
	if scheduled != 2 || len(view.labels) != 1 {
		t.Fatalf("unexpected loop effects scheduled=%d labels=%v", scheduled, view.labels)
	}
	var nilLoop *Loop
	nilLoop.Tick()
}
