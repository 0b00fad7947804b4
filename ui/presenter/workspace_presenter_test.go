package presenter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soocke/boxlabel-go/ui/model"
)

type fakeSelector struct {
	current  string
	selected []string
	forgot   int
}

func (s *fakeSelector) SelectImage(path string) error {
	s.current = path
	s.selected = append(s.selected, path)
	return nil
}
func (s *fakeSelector) Path() string { return s.current }
func (s *fakeSelector) Forget()      { s.current = ""; s.forgot++ }

type fakeCache struct {
	forgotten []string
	purged    int
}

func (c *fakeCache) Forget(path string) { c.forgotten = append(c.forgotten, path) }
func (c *fakeCache) Purge()             { c.purged++ }

type workspaceView struct {
	dir      string
	names    []string
	selected int
	status   string
}

func (v *workspaceView) SetDirectory(dir string) { v.dir = dir }
func (v *workspaceView) SetImages(names []string, selected int) {
	v.names, v.selected = names, selected
}
func (v *workspaceView) SetStatus(text string) { v.status = text }

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("data"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
}

func newWorkspace(t *testing.T) (*WorkspacePresenter, *fakeSelector, *fakeCache, *workspaceView, string) {
	t.Helper()
	root := t.TempDir()
	imgDir := filepath.Join(root, "images")
	writeFiles(t, imgDir, "a.png", "b.png", "c.jpg", "notes.txt")
	sel := &fakeSelector{}
	cache := &fakeCache{}
	view := &workspaceView{}
	p := NewWorkspacePresenter(discardLogger, model.NewWorkspaceModel(), sel, cache, view,
		SplitOptions{LabelsDir: "labels", Cumulative: []int{80, 90, 100}, Seed: 1})
	if err := p.Open(imgDir); err != nil {
		t.Fatalf("open: %v", err)
	}
	return p, sel, cache, view, imgDir
}

func TestWorkspacePresenter_OpenAndNavigate(t *testing.T) {
	p, sel, _, view, imgDir := newWorkspace(t)
	if view.dir != imgDir || len(view.names) != 3 || view.selected != -1 {
		t.Fatalf("unexpected listing dir=%q names=%v sel=%d", view.dir, view.names, view.selected)
	}
	if !strings.HasPrefix(view.status, "3 images") {
		t.Fatalf("unexpected status %q", view.status)
	}
	p.Next()
	if sel.current != filepath.Join(imgDir, "a.png") || view.selected != 0 {
		t.Fatalf("next from nothing should load the first image, got %q", sel.current)
	}
	p.Select(2)
	p.Next()
	if sel.current != filepath.Join(imgDir, "c.jpg") || view.selected != 2 {
		t.Fatalf("next at the end should stay, got %q", sel.current)
	}
	p.Prev()
	if sel.current != filepath.Join(imgDir, "b.png") {
		t.Fatalf("prev should load b.png, got %q", sel.current)
	}
	p.Select(9)
	if sel.current != filepath.Join(imgDir, "b.png") {
		t.Fatalf("out of range select must be ignored")
	}
}

func TestWorkspacePresenter_RenameCurrent(t *testing.T) {
	p, sel, cache, view, imgDir := newWorkspace(t)
	p.Select(0)
	old := sel.current
	p.RenameSelected("z.png")
	if sel.forgot != 1 || len(cache.forgotten) != 1 || cache.forgotten[0] != old {
		t.Fatalf("rename should invalidate the old path: forgot=%d cache=%v", sel.forgot, cache.forgotten)
	}
	if sel.current != filepath.Join(imgDir, "z.png") {
		t.Fatalf("renamed image should be reloaded, got %q", sel.current)
	}
	if view.status != "Renamed to z.png" {
		t.Fatalf("unexpected status %q", view.status)
	}
	p.RenameSelected("b.png")
	if !strings.HasPrefix(view.status, "Rename failed") {
		t.Fatalf("rename over an existing file must fail, got %q", view.status)
	}
}

func TestWorkspacePresenter_Delete(t *testing.T) {
	p, sel, _, view, imgDir := newWorkspace(t)
	p.DeleteSelected()
	if view.status != "Select an image first" {
		t.Fatalf("unexpected status %q", view.status)
	}
	p.Select(1)
	p.DeleteSelected()
	if _, err := os.Stat(filepath.Join(imgDir, "b.png")); !os.IsNotExist(err) {
		t.Fatalf("file should be deleted")
	}
	if sel.current != "" || len(view.names) != 2 {
		t.Fatalf("delete should drop the image and relist: current=%q names=%v", sel.current, view.names)
	}
}

func TestWorkspacePresenter_CopyPasteAndImport(t *testing.T) {
	p, _, _, view, imgDir := newWorkspace(t)
	p.Select(0)
	p.CopySelected()
	p.Paste()
	if !strings.HasPrefix(view.status, "Paste failed") {
		t.Fatalf("pasting into the same folder must collide, got %q", view.status)
	}
	other := filepath.Join(filepath.Dir(imgDir), "other")
	writeFiles(t, other)
	p.Open(other)
	p.Paste()
	if view.status != "Pasted a.png" || len(view.names) != 1 {
		t.Fatalf("unexpected paste result %q %v", view.status, view.names)
	}
	p.Import([]string{filepath.Join(imgDir, "b.png"), filepath.Join(imgDir, "notes.txt")})
	if !strings.HasPrefix(view.status, "imported 1 file(s)") || len(view.names) != 2 {
		t.Fatalf("unexpected import result %q %v", view.status, view.names)
	}
}

func TestWorkspacePresenter_Split(t *testing.T) {
	root := t.TempDir()
	imgDir := filepath.Join(root, "images")
	lblDir := filepath.Join(root, "labels")
	for i := 0; i < 10; i++ {
		writeFiles(t, imgDir, fmt.Sprintf("s%d.png", i))
		writeFiles(t, lblDir, fmt.Sprintf("s%d.txt", i))
	}
	writeFiles(t, imgDir, "loose.png")
	view := &workspaceView{}
	p := NewWorkspacePresenter(discardLogger, model.NewWorkspaceModel(), &fakeSelector{}, nil, view,
		SplitOptions{LabelsDir: "labels", Cumulative: []int{80, 90, 100}, Seed: 1})
	p.Open(imgDir)
	p.Split()
	if view.status != "Split: train 8, val 1, test 1, unlabeled 1" {
		t.Fatalf("unexpected status %q", view.status)
	}
	if len(view.names) != 1 || view.names[0] != "loose.png" {
		t.Fatalf("only the unlabeled image should remain listed, got %v", view.names)
	}
}

func TestWorkspacePresenter_PurgesCacheOnFolderChange(t *testing.T) {
	p, _, cache, view, imgDir := newWorkspace(t)
	if cache.purged != 1 {
		t.Fatalf("opening a folder should purge the cache, got %d", cache.purged)
	}
	p.Refresh()
	if cache.purged != 1 {
		t.Fatalf("refreshing the same folder must keep the cache")
	}
	p.Up()
	if cache.purged != 2 || view.dir != filepath.Dir(imgDir) {
		t.Fatalf("up should purge and browse the parent: purged=%d dir=%q", cache.purged, view.dir)
	}
	if !strings.HasSuffix(view.status, ", 1 folders") {
		t.Fatalf("status should count sub-folders, got %q", view.status)
	}
}
