package annotation

import (
	"errors"
	"image"
	"testing"
)

func TestSet_AddPreservesOrder(t *testing.T) {
	s := NewSet()
	rects := []image.Rectangle{
		image.Rect(0, 0, 10, 10),
		image.Rect(5, 5, 50, 40),
		image.Rect(0, 0, 10, 10), // overlap and duplicate are allowed
	}
	for i, r := range rects {
		if err := s.Add(Box{Rect: r, Label: "obj"}); err != nil {
			t.Fatalf("add %d: unexpected error: %v", i, err)
		}
	}
	all := s.All()
	if len(all) != len(rects) {
		t.Fatalf("expected %d boxes got %d", len(rects), len(all))
	}
	for i, b := range all {
		if b.Rect != rects[i] {
			t.Fatalf("box %d: expected %v got %v", i, rects[i], b.Rect)
		}
	}
}

func TestSet_AddNormalizesCorners(t *testing.T) {
	s := NewSet()
	if err := s.Add(Box{Rect: image.Rectangle{Min: image.Pt(50, 60), Max: image.Pt(10, 20)}, Label: "a"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.All()[0].Rect; got != image.Rect(10, 20, 50, 60) {
		t.Fatalf("expected normalized rect got %v", got)
	}
}

func TestSet_AddRejectsInvalid(t *testing.T) {
	s := NewSet()
	if err := s.Add(Box{Rect: image.Rect(10, 10, 10, 40), Label: "a"}); !errors.Is(err, ErrDegenerate) {
		t.Fatalf("expected ErrDegenerate got %v", err)
	}
	if err := s.Add(Box{Rect: image.Rect(0, 0, 10, 10)}); !errors.Is(err, ErrEmptyLabel) {
		t.Fatalf("expected ErrEmptyLabel got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("rejected boxes must not be stored, len=%d", s.Len())
	}
}

func TestSet_UndoAfterAddsRestoresPrefix(t *testing.T) {
	s := NewSet()
	for i := 0; i < 5; i++ {
		_ = s.Add(Box{Rect: image.Rect(i, i, i+10, i+10), Label: "obj"})
	}
	before := s.All()
	for k := 1; k <= 3; k++ {
		b, ok := s.UndoLast()
		if !ok {
			t.Fatalf("undo %d: expected ok", k)
		}
		if b != before[len(before)-k] {
			t.Fatalf("undo %d: expected %v got %v", k, before[len(before)-k], b)
		}
	}
	after := s.All()
	if len(after) != 2 || after[0] != before[0] || after[1] != before[1] {
		t.Fatalf("expected 2-element prefix got %v", after)
	}
}

func TestSet_UndoOnEmpty(t *testing.T) {
	s := NewSet()
	if _, ok := s.UndoLast(); ok {
		t.Fatalf("undo on empty set should report nothing to undo")
	}
	if s.Len() != 0 {
		t.Fatalf("state changed by empty undo")
	}
}

func TestSet_ClearAndCopy(t *testing.T) {
	s := NewSet()
	_ = s.Add(Box{Rect: image.Rect(0, 0, 10, 10), Label: "obj"})
	all := s.All()
	all[0].Label = "mutated"
	if s.All()[0].Label != "obj" {
		t.Fatalf("All must return a copy")
	}
	s.Clear()
	if s.Len() != 0 || s.All() != nil {
		t.Fatalf("clear should empty the set")
	}
}

func TestSet_NilSafe(t *testing.T) {
	var s *Set
	if s.Len() != 0 || s.All() != nil {
		t.Fatalf("nil set should be empty")
	}
	if _, ok := s.UndoLast(); ok {
		t.Fatalf("nil set undo should be false")
	}
	s.Clear()
}

func TestNormalizeLabel(t *testing.T) {
	cases := map[string]string{"": DefaultLabel, "   ": DefaultLabel, " cat ": "cat", "dog": "dog"}
	for in, want := range cases {
		if got := NormalizeLabel(in, ""); got != want {
			t.Fatalf("NormalizeLabel(%q): expected %q got %q", in, want, got)
		}
	}
	if got := NormalizeLabel(" ", "person"); got != "person" {
		t.Fatalf("expected configured fallback, got %q", got)
	}
}

func TestStore_ActivateDiscardsPrevious(t *testing.T) {
	st := NewStore()
	a := st.Activate("a.png")
	_ = a.Add(Box{Rect: image.Rect(0, 0, 10, 10), Label: "obj"})
	b := st.Activate("b.png")
	if b.Len() != 0 {
		t.Fatalf("new set should be empty")
	}
	if _, ok := st.Lookup("a.png"); ok {
		t.Fatalf("previous image set should be discarded")
	}
	if st.Len() != 1 {
		t.Fatalf("expected exactly one live set got %d", st.Len())
	}
	id, s, ok := st.Active()
	if !ok || id != "b.png" || s != b {
		t.Fatalf("unexpected active entry id=%q ok=%v", id, ok)
	}
	// Re-activating the same id starts over as well.
	_ = b.Add(Box{Rect: image.Rect(0, 0, 10, 10), Label: "obj"})
	if again := st.Activate("b.png"); again.Len() != 0 {
		t.Fatalf("re-activation should start from an empty set")
	}
	st.Deactivate()
	if _, _, ok := st.Active(); ok || st.Len() != 0 {
		t.Fatalf("deactivate should drop the active set")
	}
}
