package session

import (
	"image"
	"log/slog"

	"github.com/soocke/boxlabel-go/domain/annotation"
	"github.com/soocke/boxlabel-go/domain/geometry"
)

// Session turns pointer events on the display surface into labeled boxes.
// All methods must be called from the UI thread.
type Session struct {
	logger    *slog.Logger
	prompt    LabelPrompt
	cb        Callbacks
	opts      Options
	listeners []StateListener

	state     State
	meta      annotation.ImageMeta
	set       *annotation.Set
	tr        geometry.Transform
	editable  bool
	anchor    image.Point
	candidate image.Rectangle
	// token invalidates prompt replies that outlive their gesture.
	token uint64
}

// New constructs an idle session without an image.
func New(logger *slog.Logger, prompt LabelPrompt, cb Callbacks, opts Options) *Session {
	if opts.MinBoxSize <= 0 {
		opts.MinBoxSize = DefaultMinBoxSize
	}
	if opts.DefaultLabel == "" {
		opts.DefaultLabel = annotation.DefaultLabel
	}
	return &Session{logger: logger, prompt: prompt, cb: cb, opts: opts}
}

// Load binds the session to a new image and its set. Any in-flight gesture is dropped.
func (s *Session) Load(meta annotation.ImageMeta, set *annotation.Set, tr geometry.Transform, editable bool) {
	s.abandon("image changed")
	s.meta, s.set, s.tr, s.editable = meta, set, tr, editable
}

// SetTransform replaces the display mapping after a surface resize.
func (s *Session) SetTransform(tr geometry.Transform) {
	s.abandon("surface resized")
	s.tr = tr
}

// Abandon drops an in-flight gesture or pending prompt without producing a box.
func (s *Session) Abandon() { s.abandon("abandoned") }

func (s *Session) abandon(reason string) {
	s.token++
	if s.state != StateIdle && s.logger != nil {
		s.logger.Debug("gesture abandoned", "reason", reason, "state", s.state.String())
	}
	s.candidate = image.Rectangle{}
	s.transition(StateIdle)
}

// PointerDown starts a gesture when p lies on the displayed image.
func (s *Session) PointerDown(p image.Point) error {
	switch {
	case s.set == nil:
		return ErrNoImage
	case !s.editable:
		return ErrNotEditable
	case s.state == StateAwaitingLabel:
		return ErrPromptPending
	}
	pt, err := s.tr.DisplayToImage(p)
	if err != nil {
		return err
	}
	s.anchor = pt
	s.candidate = image.Rectangle{Min: pt, Max: pt}
	s.transition(StateDragging)
	return nil
}

// PointerMove updates the preview rectangle while dragging.
func (s *Session) PointerMove(p image.Point) error {
	if s.state != StateDragging {
		return nil
	}
	pt, err := s.tr.DisplayToImage(p)
	if err != nil {
		return err
	}
	s.candidate = annotation.Normalize(s.anchor, pt)
	if s.cb.Preview != nil {
		s.cb.Preview(s.candidate)
	}
	return nil
}

// PointerUp finishes the gesture. A release outside the image drops the gesture and
// returns ErrOutOfBounds. Boxes at or below the minimum size are discarded; otherwise
// the label prompt is requested and the session waits for its reply.
func (s *Session) PointerUp(p image.Point) error {
	if s.state != StateDragging {
		return nil
	}
	pt, err := s.tr.DisplayToImage(p)
	if err != nil {
		rect := s.candidate
		s.transition(StateIdle)
		s.discard(err, rect)
		return err
	}
	rect := annotation.Normalize(s.anchor, pt)
	s.candidate = rect
	if rect.Dx() <= s.opts.MinBoxSize || rect.Dy() <= s.opts.MinBoxSize {
		s.transition(StateIdle)
		s.discard(ErrDegenerate, rect)
		return nil
	}
	s.transition(StateAwaitingLabel)
	if s.prompt == nil {
		s.commit(rect, s.opts.DefaultLabel)
		return nil
	}
	s.token++
	tok := s.token
	s.prompt.RequestLabel(rect, s.opts.DefaultLabel, func(accepted bool, text string) {
		s.reply(tok, rect, accepted, text)
	})
	return nil
}

func (s *Session) reply(tok uint64, rect image.Rectangle, accepted bool, text string) {
	if tok != s.token || s.state != StateAwaitingLabel {
		if s.logger != nil {
			s.logger.Debug("stale label reply dropped", "rect", rect.String())
		}
		return
	}
	if !accepted {
		s.transition(StateIdle)
		s.discard(ErrLabelCancelled, rect)
		return
	}
	s.commit(rect, annotation.NormalizeLabel(text, s.opts.DefaultLabel))
}

func (s *Session) commit(rect image.Rectangle, label string) {
	s.transition(StateIdle)
	box := annotation.Box{Rect: rect, Label: label}
	if err := s.set.Add(box); err != nil {
		s.discard(err, rect)
		return
	}
	if s.logger != nil {
		s.logger.Info("box added", "image", s.meta.Path, "label", label, "rect", rect.String(), "count", s.set.Len())
	}
	if s.cb.Committed != nil {
		s.cb.Committed(box)
	}
}

func (s *Session) discard(reason error, rect image.Rectangle) {
	s.candidate = image.Rectangle{}
	if s.logger != nil {
		s.logger.Debug("gesture discarded", "reason", reason.Error(), "rect", rect.String())
	}
	if s.cb.Discarded != nil {
		s.cb.Discarded(reason)
	}
}

func (s *Session) transition(next State) {
	prev := s.state
	if prev == next {
		return
	}
	s.state = next
	for _, l := range s.listeners {
		l(prev, next)
	}
}

// Candidate returns the in-progress rectangle while dragging or awaiting a label.
func (s *Session) Candidate() (image.Rectangle, bool) {
	if s.state == StateIdle {
		return image.Rectangle{}, false
	}
	return s.candidate, true
}

func (s *Session) AddListener(l StateListener) {
	if l != nil {
		s.listeners = append(s.listeners, l)
	}
}

func (s *Session) Current() State                { return s.state }
func (s *Session) Editable() bool                { return s.editable }
func (s *Session) Image() annotation.ImageMeta   { return s.meta }
func (s *Session) Transform() geometry.Transform { return s.tr }

var _ Contract = (*Session)(nil)
