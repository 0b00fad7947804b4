package annotation

// Set is the ordered collection of boxes drawn on one image.
// Insertion order is drawing order. The zero value is an empty set.
type Set struct {
	boxes []Box
}

// NewSet returns an empty set.
func NewSet() *Set { return &Set{} }

// Add appends b. The rectangle is normalized before validation.
func (s *Set) Add(b Box) error {
	if s == nil {
		return nil
	}
	b.Rect = b.Rect.Canon()
	if err := b.Validate(); err != nil {
		return err
	}
	s.boxes = append(s.boxes, b)
	return nil
}

// UndoLast removes and returns the most recent box. ok is false when the set is empty.
func (s *Set) UndoLast() (b Box, ok bool) {
	if s == nil || len(s.boxes) == 0 {
		return Box{}, false
	}
	last := len(s.boxes) - 1
	b = s.boxes[last]
	s.boxes = s.boxes[:last]
	return b, true
}

// Clear removes every box.
func (s *Set) Clear() {
	if s == nil {
		return
	}
	s.boxes = nil
}

// All returns a copy of the boxes in insertion order.
func (s *Set) All() []Box {
	if s == nil || len(s.boxes) == 0 {
		return nil
	}
	out := make([]Box, len(s.boxes))
	copy(out, s.boxes)
	return out
}

// Len returns the number of boxes.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.boxes)
}
