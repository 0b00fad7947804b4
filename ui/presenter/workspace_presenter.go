package presenter

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/soocke/boxlabel-go/domain/dataset"
	"github.com/soocke/boxlabel-go/domain/files"
	"github.com/soocke/boxlabel-go/ui/model"
)

// ImageSelector loads and drops the annotated image. Satisfied by *AnnotationPresenter.
type ImageSelector interface {
	SelectImage(path string) error
	Path() string
	Forget()
}

// CacheInvalidator drops cached decodes. Satisfied by *images.Loader.
type CacheInvalidator interface {
	Forget(path string)
	Purge()
}

// WorkspaceView shows the browsed directory and its images.
type WorkspaceView interface {
	SetDirectory(dir string)
	SetImages(names []string, selected int)
	SetStatus(text string)
}

// SplitOptions configure dataset splitting of the browsed folder.
type SplitOptions struct {
	LabelsDir  string
	Cumulative []int
	Seed       int64
}

// WorkspacePresenter browses a folder of images and runs file operations on it.
type WorkspacePresenter struct {
	logger *slog.Logger
	model  *model.WorkspaceModel
	images ImageSelector
	cache  CacheInvalidator
	view   WorkspaceView
	split  SplitOptions
	clip   files.Clipboard
}

func NewWorkspacePresenter(logger *slog.Logger, m *model.WorkspaceModel, sel ImageSelector, cache CacheInvalidator, view WorkspaceView, split SplitOptions) *WorkspacePresenter {
	return &WorkspacePresenter{logger: logger, model: m, images: sel, cache: cache, view: view, split: split}
}

func (p *WorkspacePresenter) ready() bool {
	return p != nil && p.model != nil && p.images != nil && p.view != nil
}

// Dir returns the browsed directory.
func (p *WorkspacePresenter) Dir() string {
	if p == nil {
		return ""
	}
	return p.model.Dir()
}

// Open lists dir and shows it.
func (p *WorkspacePresenter) Open(dir string) error {
	if !p.ready() {
		return nil
	}
	entries, err := files.ListImages(dir)
	if err != nil {
		p.view.SetStatus("Cannot open folder: " + err.Error())
		return err
	}
	if p.cache != nil && filepath.Clean(dir) != filepath.Clean(p.model.Dir()) {
		p.cache.Purge()
	}
	p.model.SetListing(dir, entries)
	p.view.SetDirectory(dir)
	p.view.SetImages(p.model.Names(), p.model.SelectedIndex())
	var total int64
	for _, e := range entries {
		total += e.Size
	}
	status := fmt.Sprintf("%d images, %s", len(entries), humanize.Bytes(uint64(total)))
	if dirs, err := files.ListDirs(dir); err == nil && len(dirs) > 0 {
		status += fmt.Sprintf(", %d folders", len(dirs))
	}
	p.view.SetStatus(status)
	return nil
}

// Refresh re-lists the current directory.
func (p *WorkspacePresenter) Refresh() {
	if !p.ready() || p.model.Dir() == "" {
		return
	}
	_ = p.Open(p.model.Dir())
}

// Up browses the parent directory.
func (p *WorkspacePresenter) Up() {
	if !p.ready() || p.model.Dir() == "" {
		return
	}
	_ = p.Open(filepath.Dir(filepath.Clean(p.model.Dir())))
}

// Select loads the image at index i.
func (p *WorkspacePresenter) Select(i int) {
	if !p.ready() {
		return
	}
	e, ok := p.model.Select(i)
	if !ok {
		return
	}
	p.load(e)
}

// Next and Prev move through the listing.
func (p *WorkspacePresenter) Next() { p.step(1) }
func (p *WorkspacePresenter) Prev() { p.step(-1) }

func (p *WorkspacePresenter) step(delta int) {
	if !p.ready() {
		return
	}
	if e, ok := p.model.Step(delta); ok {
		p.load(e)
	}
}

// SelectPath re-lists the directory and loads path when it is listed.
func (p *WorkspacePresenter) SelectPath(path string) {
	if !p.ready() {
		return
	}
	p.Refresh()
	if i := p.model.IndexOf(path); i >= 0 {
		p.Select(i)
	}
}

func (p *WorkspacePresenter) load(e files.Entry) {
	p.view.SetImages(p.model.Names(), p.model.SelectedIndex())
	if err := p.images.SelectImage(e.Path); err != nil && p.logger != nil {
		p.logger.Warn("image load failed", "path", e.Path, "error", err)
	}
}

// NewFolder creates a folder in the browsed directory.
func (p *WorkspacePresenter) NewFolder(name string) {
	if !p.ready() {
		return
	}
	path, err := files.NewFolder(p.model.Dir(), name)
	if err != nil {
		p.view.SetStatus("New folder failed: " + err.Error())
		return
	}
	p.view.SetStatus("Created " + filepath.Base(path))
}

// RenameSelected renames the selected image.
func (p *WorkspacePresenter) RenameSelected(newName string) {
	if !p.ready() {
		return
	}
	e, ok := p.model.Selected()
	if !ok {
		p.view.SetStatus("Select an image first")
		return
	}
	target, err := files.Rename(e.Path, newName)
	if err != nil {
		p.view.SetStatus("Rename failed: " + err.Error())
		return
	}
	p.invalidate(e.Path)
	p.log("renamed", "from", e.Path, "to", target)
	p.SelectPath(target)
	p.view.SetStatus("Renamed to " + filepath.Base(target))
}

// DeleteSelected removes the selected image from disk.
func (p *WorkspacePresenter) DeleteSelected() {
	if !p.ready() {
		return
	}
	e, ok := p.model.Selected()
	if !ok {
		p.view.SetStatus("Select an image first")
		return
	}
	if err := files.Delete(e.Path); err != nil {
		p.view.SetStatus("Delete failed: " + err.Error())
		return
	}
	p.invalidate(e.Path)
	p.log("deleted", "path", e.Path)
	p.Refresh()
	p.view.SetStatus("Deleted " + e.Name)
}

// CopySelected and CutSelected put the selected image on the clipboard.
func (p *WorkspacePresenter) CopySelected() { p.hold(false) }
func (p *WorkspacePresenter) CutSelected()  { p.hold(true) }

func (p *WorkspacePresenter) hold(cut bool) {
	if !p.ready() {
		return
	}
	e, ok := p.model.Selected()
	if !ok {
		p.view.SetStatus("Select an image first")
		return
	}
	if cut {
		p.clip.Cut(e.Path)
		p.view.SetStatus("Cut " + e.Name)
		return
	}
	p.clip.Copy(e.Path)
	p.view.SetStatus("Copied " + e.Name)
}

// Paste places the clipboard entry into the browsed directory.
func (p *WorkspacePresenter) Paste() {
	if !p.ready() {
		return
	}
	src, cut, _ := p.clip.Pending()
	target, err := p.clip.Paste(p.model.Dir())
	if err != nil {
		p.view.SetStatus("Paste failed: " + err.Error())
		return
	}
	if cut {
		p.invalidate(src)
	}
	p.log("pasted", "from", src, "to", target, "cut", cut)
	p.Refresh()
	p.view.SetStatus("Pasted " + filepath.Base(target))
}

// Import copies image files into the browsed directory.
func (p *WorkspacePresenter) Import(paths []string) {
	if !p.ready() || len(paths) == 0 {
		return
	}
	sum, err := files.Import(paths, p.model.Dir())
	p.Refresh()
	if err != nil {
		p.view.SetStatus("Import failed: " + err.Error())
		return
	}
	p.view.SetStatus(sum.String())
}

// Split moves labeled images of the browsed folder into train/val/test sub-folders.
func (p *WorkspacePresenter) Split() {
	if !p.ready() || p.model.Dir() == "" {
		return
	}
	dir := filepath.Clean(p.model.Dir())
	if cur := p.images.Path(); cur != "" {
		p.invalidate(cur)
	}
	sum, err := dataset.Run(filepath.Dir(dir), filepath.Base(dir), p.split.LabelsDir, p.split.Cumulative, p.split.Seed, p.logger)
	p.Refresh()
	if err != nil {
		p.view.SetStatus("Split failed: " + err.Error())
		return
	}
	msg := ""
	for _, name := range dataset.DefaultNames {
		if n, ok := sum.Counts[name]; ok {
			msg += fmt.Sprintf("%s %d, ", name, n)
		}
	}
	p.view.SetStatus(fmt.Sprintf("Split: %sunlabeled %d", msg, sum.Unlabeled))
}

// invalidate drops cached state for a path that moved or vanished.
func (p *WorkspacePresenter) invalidate(path string) {
	if p.cache != nil {
		p.cache.Forget(path)
	}
	if p.images.Path() == path {
		p.images.Forget()
	}
}

func (p *WorkspacePresenter) log(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info("file "+msg, args...)
	}
}
