package view

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/boxlabel-go/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel encapsulates the configuration form widgets and apply logic.
// It owns its widgets and writes back into *config.Config on ApplyChanges.
type ConfigPanel interface {
	Build(parent *FrameWidget, startRow int) (endRow int) // returns next free row
	SetEditable(enabled bool)
	ApplyChanges() // parses widget text into underlying config and persists
}

type configPanel struct {
	cfg       *config.Config
	cfgPath   string
	logger    *slog.Logger
	onApplied func(*config.Config)
	applyBtn  *ButtonWidget
	widgets   map[string]*TextWidget // keyed by internal field id
}

// NewConfigPanel creates the view bound to cfg. onApplied runs after a successful save.
func NewConfigPanel(cfg *config.Config, cfgPath string, logger *slog.Logger, onApplied func(*config.Config)) ConfigPanel {
	return &configPanel{cfg: cfg, cfgPath: cfgPath, logger: logger, onApplied: onApplied, widgets: make(map[string]*TextWidget)}
}

func (v *configPanel) Build(parent *FrameWidget, startRow int) (row int) {
	c := v.cfg
	row = startRow
	makeRow := func(id, label, value string) {
		lbl := Label(Txt(label), Anchor("w"))
		Grid(lbl, In(parent), Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(16))
		Grid(w, In(parent), Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		v.widgets[id] = w
		row++
	}
	makeRow("surfaceW", "Surface Width", strconv.Itoa(c.SurfaceW))
	makeRow("surfaceH", "Surface Height", strconv.Itoa(c.SurfaceH))
	makeRow("minBoxSize", "Min Box Size Px", strconv.Itoa(c.MinBoxSize))
	makeRow("defaultLabel", "Default Label", c.DefaultLabel)
	makeRow("classIndex", "Class Index", strconv.Itoa(c.ClassIndex))
	makeRow("labelsDir", "Labels Folder", c.LabelsDir)
	makeRow("annotatedDir", "Annotated Folder", c.AnnotatedDir)
	makeRow("splits", "Splits (e.g. 80,90,100)", formatIntList(c.Splits))
	makeRow("splitSeed", "Split Seed", strconv.FormatInt(c.SplitSeed, 10))
	makeRow("cacheSize", "Image Cache Size", strconv.Itoa(c.CacheSize))
	makeRow("debug", "Debug (true/false)", fmt.Sprintf("%t", c.Debug))
	makeRow("darkMode", "Dark Mode (true/false)", fmt.Sprintf("%t", c.DarkMode))
	v.applyBtn = Button(Txt("Apply Changes"), Command(func() { v.ApplyChanges() }))
	Grid(v.applyBtn, In(parent), Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *configPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.widgets {
		if w != nil {
			w.Configure(State(state))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *configPanel) text(id string) (string, bool) {
	w := v.widgets[id]
	if w == nil {
		return "", false
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), "")), true
}

func (v *configPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	cfg := *v.cfg // copy
	assignInt := func(id string, dst *int) {
		if s, ok := v.text(id); ok {
			if i, ok := parseIntField(s); ok {
				*dst = i
			}
		}
	}
	assignString := func(id string, dst *string) {
		if s, ok := v.text(id); ok && s != "" {
			*dst = s
		}
	}
	assignInt("surfaceW", &cfg.SurfaceW)
	assignInt("surfaceH", &cfg.SurfaceH)
	assignInt("minBoxSize", &cfg.MinBoxSize)
	assignString("defaultLabel", &cfg.DefaultLabel)
	assignInt("classIndex", &cfg.ClassIndex)
	assignString("labelsDir", &cfg.LabelsDir)
	assignString("annotatedDir", &cfg.AnnotatedDir)
	assignInt("cacheSize", &cfg.CacheSize)
	if s, ok := v.text("splits"); ok {
		if list, ok := parseIntList(s); ok {
			cfg.Splits = list
		}
	}
	if s, ok := v.text("splitSeed"); ok {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			cfg.SplitSeed = n
		}
	}
	assignBool := func(id string, dst *bool) {
		if s, ok := v.text(id); ok {
			if b, ok := parseBoolLoose(s); ok {
				*dst = b
			}
		}
	}
	assignBool("debug", &cfg.Debug)
	assignBool("darkMode", &cfg.DarkMode)
	if verr := cfg.Validate(); verr != nil {
		return
	}
	*v.cfg = cfg
	if err := v.cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
		return
	}
	if v.logger != nil {
		v.logger.Info("config saved", "path", v.cfgPath)
	}
	if v.onApplied != nil {
		v.onApplied(v.cfg)
	}
}

// parsing helpers (unexported)
func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}

func parseIntList(s string) ([]int, bool) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		i, ok := parseIntField(part)
		if !ok {
			return nil, false
		}
		out = append(out, i)
	}
	return out, len(out) > 0
}

func formatIntList(list []int) string {
	parts := make([]string, len(list))
	for i, v := range list {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func parseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, true
	case "false", "0", "no", "n", "off", "f":
		return false, true
	default:
		return false, false
	}
}
