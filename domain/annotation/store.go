package annotation

// Store keeps the annotation set of the currently active image.
// Activating another image discards the previous entry; at most one set is live.
type Store struct {
	sets   map[string]*Set
	active string
}

// NewStore returns an empty store.
func NewStore() *Store { return &Store{sets: make(map[string]*Set)} }

// Activate makes id the active image with a fresh empty set and returns it.
func (st *Store) Activate(id string) *Set {
	if st == nil {
		return nil
	}
	if st.sets == nil {
		st.sets = make(map[string]*Set)
	}
	for k := range st.sets {
		delete(st.sets, k)
	}
	s := NewSet()
	st.sets[id] = s
	st.active = id
	return s
}

// Active returns the active image id and its set. ok is false when nothing is active.
func (st *Store) Active() (id string, s *Set, ok bool) {
	if st == nil {
		return "", nil, false
	}
	s, ok = st.sets[st.active]
	if !ok {
		return "", nil, false
	}
	return st.active, s, true
}

// Lookup returns the set for id if it is still held.
func (st *Store) Lookup(id string) (*Set, bool) {
	if st == nil {
		return nil, false
	}
	s, ok := st.sets[id]
	return s, ok
}

// Deactivate drops the active entry.
func (st *Store) Deactivate() {
	if st == nil {
		return
	}
	delete(st.sets, st.active)
	st.active = ""
}

// Len returns the number of held sets (0 or 1).
func (st *Store) Len() int {
	if st == nil {
		return 0
	}
	return len(st.sets)
}
