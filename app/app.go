package app

import (
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/boxlabel-go/ui/presenter"
	"github.com/soocke/boxlabel-go/ui/theme"
)

const (
	tick = 100 * time.Millisecond
)

type app struct {
	c       *AppContainer
	afterID string
}

// NewApp prepares the main window for c.
func NewApp(title string, c *AppContainer) *app {
	a := &app{c: c}
	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", c.Config.WindowW, c.Config.WindowH))
	return a
}

// Start builds the UI, opens the configured folder and blocks in the Tk event loop.
func (a *app) Start() {
	cfg := a.c.Config
	theme.InitStyles(cfg.DarkMode)
	a.c.RootView.Build(a.c.Handlers(a.exitHandler))
	if err := a.c.Files.Open(cfg.ImageDir); err != nil && a.c.Logger != nil {
		a.c.Logger.Warn("image folder not opened", "dir", cfg.ImageDir, "error", err)
	}
	a.c.Loop = presenter.NewLoop(a.c.ActivityPresenter, a.c.StatePresenter, a.c.CapturePresenter, a.scheduleUpdate)
	a.scheduleUpdate()
	App.Wait()
}

func (a *app) exitHandler() {
	// Cancel scheduled after event if any.
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	a.c.Session.Abandon()
	Destroy(App)
}

func (a *app) scheduleUpdate() {
	// Schedule the next update using TclAfter to stay on Tk's event loop thread.
	a.afterID = TclAfter(tick, func() { a.c.Loop.Tick() })
}
