package theme

// Styling for the annotation window: a light palette and the few ttk styles the
// toolbar buttons use.

import (
	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Colors defines core semantic colors used across widgets. The name avoids the tk9.0
// Palette command pulled in by the dot import.
type Colors struct {
	AppBg   string
	Surface string
	Primary string
	Danger  string
	Text    string
}

// Light is the default palette; Dark is used when the config asks for it.
var (
	Light = Colors{AppBg: "#f7f9fb", Surface: "#ffffff", Primary: "#2563eb", Danger: "#dc2626", Text: "#1e293b"}
	Dark  = Colors{AppBg: "#0f172a", Surface: "#1e293b", Primary: "#3b82f6", Danger: "#ef4444", Text: "#f1f5f9"}
)

// style names used with Style("primary.TButton") etc.
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
)

var current = Light

// Current returns the active palette.
func Current() Colors { return current }

// InitStyles activates the base theme and configures the button styles.
func InitStyles(dark bool) {
	current = Light
	if dark {
		current = Dark
	}
	_ = ActivateTheme("azure light") // baseline metrics
	App.Configure(Background(current.AppBg))
	StyleConfigure(StylePrimaryButton,
		Background(current.Primary),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleDangerButton,
		Background(current.Danger),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
}
