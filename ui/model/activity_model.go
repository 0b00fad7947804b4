package model

import (
	"time"
)

// ActivityModel tracks time spent labeling and the work produced in this run.
// Time accrues only while an editable image is open. The zero value is ready to use.
type ActivityModel struct {
	active       bool
	openedAt     time.Time
	current      time.Duration
	accumulated  time.Duration
	boxesAdded   int
	imagesSaved  int
	boxesRemoved int
}

func NewActivityModel() *ActivityModel { return &ActivityModel{} }

// OnTick advances the clock. labeling reports whether an editable image is open.
func (m *ActivityModel) OnTick(labeling bool, now time.Time) {
	if m == nil {
		return
	}
	if labeling {
		if !m.active {
			m.active = true
			m.openedAt = now
			m.current = 0
		}
		m.current = now.Sub(m.openedAt)
	} else if m.active {
		m.current = now.Sub(m.openedAt)
		m.accumulated += m.current
		m.active = false
	}
}

// Durations returns the time on the current image and the run total including it.
func (m *ActivityModel) Durations() (current, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	current = m.current
	total = m.accumulated
	if m.active {
		total += current
	}
	return
}

func (m *ActivityModel) BoxAdded() {
	if m != nil {
		m.boxesAdded++
	}
}

func (m *ActivityModel) BoxesRemoved(n int) {
	if m != nil && n > 0 {
		m.boxesRemoved += n
	}
}

func (m *ActivityModel) ImageExported() {
	if m != nil {
		m.imagesSaved++
	}
}

// Counts returns boxes added, boxes removed by undo/clear and images exported.
func (m *ActivityModel) Counts() (added, removed, exported int) {
	if m == nil {
		return 0, 0, 0
	}
	return m.boxesAdded, m.boxesRemoved, m.imagesSaved
}
