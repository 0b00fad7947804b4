package model

import (
	"github.com/soocke/boxlabel-go/domain/files"
)

// WorkspaceModel holds the browsed directory, its images and the selected entry.
// Updates happen on the UI thread. The zero value is an empty workspace.
type WorkspaceModel struct {
	dir      string
	entries  []files.Entry
	selected int
	hasSel   bool
}

func NewWorkspaceModel() *WorkspaceModel { return &WorkspaceModel{} }

// SetListing replaces the directory listing. The selection survives when the selected
// path is still listed.
func (m *WorkspaceModel) SetListing(dir string, entries []files.Entry) {
	if m == nil {
		return
	}
	prev, had := m.Selected()
	m.dir = dir
	m.entries = entries
	m.hasSel = false
	if had {
		if i := m.IndexOf(prev.Path); i >= 0 {
			m.selected, m.hasSel = i, true
		}
	}
}

func (m *WorkspaceModel) Dir() string {
	if m == nil {
		return ""
	}
	return m.dir
}

// Entries returns the listing in display order.
func (m *WorkspaceModel) Entries() []files.Entry {
	if m == nil {
		return nil
	}
	return m.entries
}

// Names returns entry names for list widgets.
func (m *WorkspaceModel) Names() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Name
	}
	return out
}

// Select marks entry i as selected.
func (m *WorkspaceModel) Select(i int) (files.Entry, bool) {
	if m == nil || i < 0 || i >= len(m.entries) {
		return files.Entry{}, false
	}
	m.selected, m.hasSel = i, true
	return m.entries[i], true
}

// Selected returns the selected entry, if any.
func (m *WorkspaceModel) Selected() (files.Entry, bool) {
	if m == nil || !m.hasSel || m.selected >= len(m.entries) {
		return files.Entry{}, false
	}
	return m.entries[m.selected], true
}

// SelectedIndex returns the selected position or -1.
func (m *WorkspaceModel) SelectedIndex() int {
	if _, ok := m.Selected(); !ok {
		return -1
	}
	return m.selected
}

// Step moves the selection by delta, clamped to the listing.
func (m *WorkspaceModel) Step(delta int) (files.Entry, bool) {
	if m == nil || len(m.entries) == 0 {
		return files.Entry{}, false
	}
	i := 0
	if _, ok := m.Selected(); ok {
		i = m.selected + delta
	}
	if i < 0 {
		i = 0
	}
	if i >= len(m.entries) {
		i = len(m.entries) - 1
	}
	return m.Select(i)
}

// IndexOf returns the position of path or -1.
func (m *WorkspaceModel) IndexOf(path string) int {
	if m == nil {
		return -1
	}
	for i, e := range m.entries {
		if e.Path == path {
			return i
		}
	}
	return -1
}
