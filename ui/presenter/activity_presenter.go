package presenter

import (
	"time"

	"github.com/soocke/boxlabel-go/ui/model"
)

// LabelingSource reports whether an editable image is open.
type LabelingSource interface{ Editable() bool }

// ActivityView displays labeling time and run counters.
type ActivityView interface {
	SetActivity(current, total time.Duration, added, exported int)
}

// ActivityPresenter advances the activity model and pushes its values to the view.
type ActivityPresenter struct {
	activity *model.ActivityModel
	src      LabelingSource
	view     ActivityView
}

func NewActivityPresenter(activity *model.ActivityModel, src LabelingSource, view ActivityView) *ActivityPresenter {
	return &ActivityPresenter{activity: activity, src: src, view: view}
}

func (p *ActivityPresenter) Tick(now time.Time) {
	if p == nil || p.activity == nil || p.src == nil || p.view == nil {
		return
	}
	p.activity.OnTick(p.src.Editable(), now)
	cur, total := p.activity.Durations()
	added, _, exported := p.activity.Counts()
	p.view.SetActivity(cur, total, added, exported)
}
