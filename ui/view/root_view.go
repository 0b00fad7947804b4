package view

import (
	"image"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/soocke/boxlabel-go/config"
	"github.com/soocke/boxlabel-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Handlers are invoked on user actions. Any field may be nil.
type Handlers struct {
	OpenDir   func(dir string)
	Up        func()
	Select    func(index int)
	Next      func()
	Prev      func()
	Pointer   PointerHandlers
	Undo      func()
	Clear     func()
	Export    func()
	Capture   func()
	Split     func()
	NewFolder func(name string)
	Rename    func(name string)
	Delete    func()
	Copy      func()
	Cut       func()
	Paste     func()
	Import    func(paths []string)
	Applied   func(cfg *config.Config)
	Exit      func()
}

// RootView composes the top-level application layout and wires UI callbacks.
// It owns high-level subviews but exposes minimal exported fields for presenters.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Activity    ActivityStats
	ConfigPanel ConfigPanel
	Surface     Surface
	Prompt      Prompt

	// Widgets
	StateLabel  *LabelWidget
	DirText     *TextWidget
	ImageSelect *TComboboxWidget
	InfoLabel   *LabelWidget
	StatusLabel *LabelWidget
	Details     *TextWidget
	exportBtn   *TButtonWidget
	captureBtn  *TButtonWidget
	names       []string
}

// UI abstracts the subset of view operations needed by presenters, enabling decoupling
// from the concrete RootView implementation.
type UI interface {
	SetStateLabel(text string)
	ShowFrame(img image.Image)
	SetInfo(text string)
	SetStatus(text string)
	SetDetails(text string)
	SetExportEnabled(enabled bool)
	SetCaptureBusy(busy bool)
	SetDirectory(dir string)
	SetImages(names []string, selected int)
	SetActivity(current, total time.Duration, added, exported int)
	SetConfigEditable(enabled bool)
}

var _ UI = (*RootView)(nil)

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger, Prompt: NewPrompt()}
}

// Build constructs the layout.
func (rv *RootView) Build(h Handlers) {
	if rv == nil {
		return
	}
	// Row 0: activity, state label, folder controls
	top := Frame()
	Grid(top, Row(0), Column(0), Columnspan(5), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	rv.Activity = NewActivityStats(top, 0, 0)
	rv.StateLabel = Label(Txt("State: idle"), Borderwidth(1), Relief("ridge"))
	Grid(rv.StateLabel, In(top), Row(0), Column(3), Sticky("we"), Padx("0.4m"))
	rv.DirText = Text(Height(1), Width(40))
	Grid(rv.DirText, In(top), Row(0), Column(4), Sticky("we"), Padx("0.4m"))
	rv.button(top, 0, 5, "Open Folder", "", func() {
		if h.OpenDir != nil {
			h.OpenDir(strings.TrimSpace(strings.Join(rv.DirText.Get("1.0", END), "")))
		}
	})
	rv.button(top, 0, 6, "Up", "", h.Up)

	// Row 1: image selection and info
	nav := Frame()
	Grid(nav, Row(1), Column(0), Columnspan(5), Sticky("we"), Padx("0.3m"))
	rv.button(nav, 0, 0, "< Prev", "", h.Prev)
	rv.ImageSelect = TCombobox(Values([]string{"<none>"}), Width(36))
	Grid(rv.ImageSelect, In(nav), Row(0), Column(1), Sticky("we"), Padx("0.2m"))
	Bind(rv.ImageSelect, "<<ComboboxSelected>>", Command(func() {
		idx, err := strconv.Atoi(rv.ImageSelect.Current(nil))
		if err != nil || idx < 0 || idx >= len(rv.names) {
			if rv.logger != nil {
				rv.logger.Error("image selection parse error", "error", err)
			}
			return
		}
		if h.Select != nil {
			h.Select(idx)
		}
	}))
	rv.button(nav, 0, 2, "Next >", "", h.Next)
	rv.InfoLabel = Label(Txt(""), Anchor("w"))
	Grid(rv.InfoLabel, In(nav), Row(0), Column(3), Sticky("we"), Padx("0.4m"))

	// Row 2: surface and side panel
	rv.Surface = NewSurface(2, 0, 4, rv.cfg.SurfaceW, rv.cfg.SurfaceH, h.Pointer)
	side := Frame()
	Grid(side, Row(2), Column(4), Sticky("ne"), Padx("0.3m"), Pady("0.3m"))
	rv.button(side, 0, 0, "Undo [Ctrl+Z]", "", h.Undo)
	rv.button(side, 1, 0, "Clear All", theme.StyleDangerButton, h.Clear)
	rv.exportBtn = rv.button(side, 2, 0, "Export [Ctrl+S]", theme.StylePrimaryButton, h.Export)
	rv.captureBtn = rv.button(side, 3, 0, "Screenshot", "", h.Capture)
	rv.button(side, 4, 0, "Split Dataset", "", h.Split)
	rv.button(side, 5, 0, "New Folder", "", rv.ask("New Folder", "Folder name", "New Folder", h.NewFolder))
	rv.button(side, 6, 0, "Rename", "", rv.ask("Rename", "New file name", "", h.Rename))
	rv.button(side, 7, 0, "Delete", theme.StyleDangerButton, rv.confirm("Delete", "Type yes to delete the selected image", h.Delete))
	rv.button(side, 8, 0, "Copy", "", h.Copy)
	rv.button(side, 9, 0, "Cut", "", h.Cut)
	rv.button(side, 10, 0, "Paste", "", h.Paste)
	rv.button(side, 11, 0, "Import", "", rv.ask("Import", "Image paths, separated by ;", "", func(text string) {
		if h.Import != nil {
			h.Import(splitPaths(text))
		}
	}))
	rv.button(side, 12, 0, "Exit", theme.StyleDangerButton, h.Exit)
	rv.SetExportEnabled(false)

	cfgFrame := Frame()
	Grid(cfgFrame, Row(3), Column(4), Sticky("ne"), Padx("0.3m"))
	rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger, h.Applied)
	rv.ConfigPanel.Build(cfgFrame, 0)

	// Row 3-4: status and record details
	rv.StatusLabel = Label(Txt("No annotations"), Anchor("w"), Borderwidth(1), Relief("sunken"))
	Grid(rv.StatusLabel, Row(4), Column(0), Columnspan(5), Sticky("we"), Padx("0.4m"), Pady("0.2m"))
	pal := theme.Current()
	rv.Details = Text(Height(10), Width(60), Background(pal.Surface), Foreground(pal.Text))
	Grid(rv.Details, Row(3), Column(0), Columnspan(4), Sticky("we"), Padx("0.4m"), Pady("0.2m"))

	Bind(App, "<Control-z>", Command(func() { call(h.Undo) }))
	Bind(App, "<Control-s>", Command(func() { call(h.Export) }))
	Bind(App, "<Escape>", Command(func() { rv.Prompt.Cancel() }))
}

func (rv *RootView) button(parent *FrameWidget, row, col int, text, style string, fn func()) *TButtonWidget {
	opts := []Opt{Txt(text), Command(func() { call(fn) })}
	if style != "" {
		opts = append(opts, Style(style))
	}
	b := TButton(opts...)
	Grid(b, In(parent), Row(row), Column(col), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	return b
}

// ask returns a handler that opens the prompt and passes accepted text to fn.
func (rv *RootView) ask(title, message, initial string, fn func(text string)) func() {
	return func() {
		if fn == nil {
			return
		}
		rv.Prompt.Ask(title, message, initial, func(ok bool, text string) {
			if ok && text != "" {
				fn(text)
			}
		})
	}
}

func (rv *RootView) confirm(title, message string, fn func()) func() {
	return rv.ask(title, message, "", func(text string) {
		if strings.EqualFold(text, "yes") {
			call(fn)
		}
	})
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

func splitPaths(text string) []string {
	var out []string
	for _, p := range strings.Split(text, ";") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SetStateLabel updates the state label text.
func (rv *RootView) SetStateLabel(text string) {
	if rv != nil && rv.StateLabel != nil {
		rv.StateLabel.Configure(Txt(text))
	}
}

// ShowFrame proxies to the surface.
func (rv *RootView) ShowFrame(img image.Image) {
	if rv != nil && rv.Surface != nil {
		rv.Surface.Show(img)
	}
}

func (rv *RootView) SetInfo(text string) {
	if rv != nil && rv.InfoLabel != nil {
		rv.InfoLabel.Configure(Txt(text))
	}
}

func (rv *RootView) SetStatus(text string) {
	if rv != nil && rv.StatusLabel != nil {
		rv.StatusLabel.Configure(Txt(text))
	}
}

// SetDetails replaces the record text shown below the surface.
func (rv *RootView) SetDetails(text string) {
	if rv == nil || rv.Details == nil {
		return
	}
	rv.Details.Delete("1.0", END)
	rv.Details.Insert("1.0", text)
}

func (rv *RootView) SetExportEnabled(enabled bool) { setEnabled(rv.exportBtn, enabled) }

func (rv *RootView) SetCaptureBusy(busy bool) { setEnabled(rv.captureBtn, !busy) }

func setEnabled(b *TButtonWidget, enabled bool) {
	if b == nil {
		return
	}
	state := "disabled"
	if enabled {
		state = "normal"
	}
	b.Configure(State(state))
}

func (rv *RootView) SetDirectory(dir string) {
	if rv == nil || rv.DirText == nil {
		return
	}
	rv.DirText.Delete("1.0", END)
	rv.DirText.Insert("1.0", dir)
}

// SetImages refreshes the image dropdown.
func (rv *RootView) SetImages(names []string, selected int) {
	if rv == nil || rv.ImageSelect == nil {
		return
	}
	rv.names = names
	values := names
	if len(values) == 0 {
		values = []string{"<none>"}
	}
	rv.ImageSelect.Configure(Values(values))
	if selected >= 0 && selected < len(names) {
		rv.ImageSelect.Current(selected)
	}
}

// SetActivity updates the activity labels.
func (rv *RootView) SetActivity(current, total time.Duration, added, exported int) {
	if rv == nil || rv.Activity == nil {
		return
	}
	rv.Activity.SetActivity(current, total, added, exported)
}

// SetConfigEditable toggles config panel editability.
func (rv *RootView) SetConfigEditable(enabled bool) {
	if rv != nil && rv.ConfigPanel != nil {
		rv.ConfigPanel.SetEditable(enabled)
	}
}
