package session

import (
	"errors"
	"image"

	"github.com/soocke/boxlabel-go/domain/annotation"
	"github.com/soocke/boxlabel-go/domain/geometry"
)

// State enumerates the phases of a box-drawing gesture.
type State int

const (
	StateIdle State = iota
	StateDragging
	// StateAwaitingLabel holds a finished rectangle while the label prompt is open.
	StateAwaitingLabel
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateAwaitingLabel:
		return "awaiting_label"
	default:
		return "unknown"
	}
}

// DefaultMinBoxSize is the exclusive lower bound, in image pixels, for both sides of a box.
const DefaultMinBoxSize = 5

var (
	// ErrOutOfBounds aliases the mapper error so callers need only this package.
	ErrOutOfBounds    = geometry.ErrOutOfBounds
	ErrDegenerate     = errors.New("rectangle below minimum size")
	ErrLabelCancelled = errors.New("label prompt cancelled")
	ErrNotEditable    = errors.New("image is read-only")
	ErrPromptPending  = errors.New("label prompt pending")
	ErrNoImage        = errors.New("no image loaded")
)

// LabelPrompt asks the operator for a label. reply must be invoked exactly once, on the
// UI thread, either synchronously or later.
type LabelPrompt interface {
	RequestLabel(rect image.Rectangle, suggested string, reply func(accepted bool, text string))
}

// LabelPromptFunc adapts a function to LabelPrompt.
type LabelPromptFunc func(rect image.Rectangle, suggested string, reply func(accepted bool, text string))

func (f LabelPromptFunc) RequestLabel(rect image.Rectangle, suggested string, reply func(bool, string)) {
	f(rect, suggested, reply)
}

// Callbacks externalize rendering side effects. Any field may be nil.
type Callbacks struct {
	// Preview receives the in-progress rectangle in image coordinates.
	Preview func(rect image.Rectangle)
	// Committed is called after a box was appended to the set.
	Committed func(box annotation.Box)
	// Discarded is called when a finished gesture produced no box.
	Discarded func(reason error)
}

// StateListener is called on each state transition.
type StateListener func(prev, next State)

// Options tune the gesture rules.
type Options struct {
	MinBoxSize   int
	DefaultLabel string
}

// Contract is what presenters need from a session.
type Contract interface {
	Load(meta annotation.ImageMeta, set *annotation.Set, tr geometry.Transform, editable bool)
	SetTransform(tr geometry.Transform)
	Abandon()
	PointerDown(p image.Point) error
	PointerMove(p image.Point) error
	PointerUp(p image.Point) error
	Current() State
	Editable() bool
	AddListener(StateListener)
}
