package app

import (
	"image"
	"log/slog"

	"github.com/soocke/boxlabel-go/config"
	"github.com/soocke/boxlabel-go/domain/annotation"
	"github.com/soocke/boxlabel-go/domain/capture"
	"github.com/soocke/boxlabel-go/domain/export"
	"github.com/soocke/boxlabel-go/domain/session"
	"github.com/soocke/boxlabel-go/ui/images"
	"github.com/soocke/boxlabel-go/ui/model"
	"github.com/soocke/boxlabel-go/ui/presenter"
	"github.com/soocke/boxlabel-go/ui/view"
)

// AppContainer assembles models, services, presenters and the root view.
type AppContainer struct {
	Config     *config.Config
	ConfigPath string
	Logger     *slog.Logger
	Store      *annotation.Store
	Loader     *images.Loader
	Writer     export.Writer
	Session    *session.Session
	Workspace  *model.WorkspaceModel
	Activity   *model.ActivityModel
	CaptureSvc capture.Service
	RootView   *view.RootView
	UI         view.UI

	// Presenters
	Annotation        *presenter.AnnotationPresenter
	Files             *presenter.WorkspacePresenter
	StatePresenter    *presenter.StatePresenter
	ActivityPresenter *presenter.ActivityPresenter
	CapturePresenter  *presenter.CapturePresenter
	Loop              *presenter.Loop
}

// BuildContainer constructs all components. No Tk widgets are created here; the root
// view is built by the app once the container is wired.
func BuildContainer(cfg *config.Config, cfgPath string, logger *slog.Logger) (*AppContainer, error) {
	c := &AppContainer{Config: cfg, ConfigPath: cfgPath, Logger: logger}
	loader, err := images.NewLoader(cfg.CacheSize, logger)
	if err != nil {
		return nil, err
	}
	c.Loader = loader
	c.Store = annotation.NewStore()
	c.Writer = export.Writer{LabelsDirName: cfg.LabelsDir, ClassIndex: cfg.ClassIndex, Logger: logger}
	c.Workspace = model.NewWorkspaceModel()
	c.Activity = model.NewActivityModel()
	c.CaptureSvc = capture.NewCaptureService(logger)

	// View
	c.RootView = view.NewRootView(cfg, cfgPath, logger)
	c.UI = c.RootView

	// Presenters; the session is created after the annotation presenter because its
	// callbacks redraw through it.
	c.Annotation = presenter.NewAnnotationPresenter(logger, presenter.AnnotationOptions{
		SurfaceW:     cfg.SurfaceW,
		SurfaceH:     cfg.SurfaceH,
		AnnotatedDir: cfg.AnnotatedDir,
	}, c.Store, c.Loader, c.Writer, c.UI, c.Activity)
	prompt := session.LabelPromptFunc(func(rect image.Rectangle, suggested string, reply func(bool, string)) {
		c.RootView.Prompt.RequestLabel(rect, suggested, c.Annotation.Thumbnail(rect), reply)
	})
	c.Session = session.New(logger, prompt, c.Annotation.Callbacks(), session.Options{
		MinBoxSize:   cfg.MinBoxSize,
		DefaultLabel: cfg.DefaultLabel,
	})
	c.Annotation.Attach(c.Session)

	c.StatePresenter = presenter.NewStatePresenter(c.UI)
	c.Session.AddListener(c.StatePresenter.OnState)
	c.Files = presenter.NewWorkspacePresenter(logger, c.Workspace, c.Annotation, c.Loader, c.UI, presenter.SplitOptions{
		LabelsDir:  cfg.LabelsDir,
		Cumulative: cfg.Splits,
		Seed:       cfg.SplitSeed,
	})
	c.ActivityPresenter = presenter.NewActivityPresenter(c.Activity, c.Annotation, c.UI)
	c.CapturePresenter = presenter.NewCapturePresenter(c.CaptureSvc, c.UI, c.captureDir, c.Files.SelectPath)
	return c, nil
}

func (c *AppContainer) captureDir() string {
	if dir := c.Files.Dir(); dir != "" {
		return dir
	}
	return c.Config.ImageDir
}

// Handlers maps root view actions onto the presenters.
func (c *AppContainer) Handlers(exit func()) view.Handlers {
	return view.Handlers{
		OpenDir: func(dir string) { _ = c.Files.Open(dir) },
		Up:      c.Files.Up,
		Select:  c.Files.Select,
		Next:    c.Files.Next,
		Prev:    c.Files.Prev,
		Pointer: view.PointerHandlers{
			Down: c.Annotation.PointerDown,
			Move: c.Annotation.PointerMove,
			Up:   c.Annotation.PointerUp,
		},
		Undo:      c.Annotation.Undo,
		Clear:     c.Annotation.Clear,
		Export:    c.Annotation.Export,
		Capture:   c.CapturePresenter.Request,
		Split:     c.Files.Split,
		NewFolder: c.Files.NewFolder,
		Rename:    c.Files.RenameSelected,
		Delete:    c.Files.DeleteSelected,
		Copy:      c.Files.CopySelected,
		Cut:       c.Files.CutSelected,
		Paste:     c.Files.Paste,
		Import:    c.Files.Import,
		Applied:   c.applied,
		Exit:      exit,
	}
}

// applied reacts to a saved config. Surface size applies immediately; the rest on restart.
func (c *AppContainer) applied(cfg *config.Config) {
	c.Annotation.Resize(cfg.SurfaceW, cfg.SurfaceH)
	if c.Logger != nil {
		c.Logger.Info("config applied; labels, class index and cache size take effect on restart")
	}
}
