package view

import (
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// ActivityStats shows labeling time and run counters.
type ActivityStats interface {
	SetActivity(current, total time.Duration, added, exported int)
}

type activityStats struct {
	currentLbl *LabelWidget
	totalLbl   *LabelWidget
	countLbl   *LabelWidget
}

// NewActivityStats grids three labels into parent starting at (row, startCol).
func NewActivityStats(parent *FrameWidget, row, startCol int) ActivityStats {
	s := &activityStats{currentLbl: Label(Width(14)), totalLbl: Label(Width(14)), countLbl: Label(Width(22))}
	for i, l := range []*LabelWidget{s.currentLbl, s.totalLbl, s.countLbl} {
		if parent != nil {
			Grid(l, In(parent), Row(row), Column(startCol+i), Sticky("w"), Padx("0.2m"))
		} else {
			Grid(l, Row(row), Column(startCol+i), Sticky("w"), Padx("0.2m"))
		}
	}
	s.SetActivity(0, 0, 0, 0)
	return s
}

func (s *activityStats) SetActivity(current, total time.Duration, added, exported int) {
	if s == nil || s.currentLbl == nil {
		return
	}
	s.currentLbl.Configure(Txt("Image: " + clock(current)))
	s.totalLbl.Configure(Txt("Total: " + clock(total)))
	s.countLbl.Configure(Txt(fmt.Sprintf("Boxes: %d  Exported: %d", added, exported)))
}

func clock(d time.Duration) string {
	seconds := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
