package view

import (
	"fmt"
	"image"
	"strings"

	"github.com/soocke/boxlabel-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Prompt is a small modal-looking dialog with one text field. Only one is open at a
// time; opening another cancels the first.
type Prompt interface {
	Ask(title, message, initial string, done func(ok bool, text string))
	RequestLabel(rect image.Rectangle, suggested string, thumb image.Image, reply func(accepted bool, text string))
	Cancel()
	Open() bool
}

type prompt struct {
	win   *ToplevelWidget
	text  *TextWidget
	done  func(bool, string)
	photo *Img
}

func NewPrompt() Prompt { return &prompt{} }

// RequestLabel asks for the label of a finished box, showing thumb above the field.
func (p *prompt) RequestLabel(rect image.Rectangle, suggested string, thumb image.Image, reply func(bool, string)) {
	p.Ask("Label", fmt.Sprintf("Label for %dx%d box at (%d,%d)", rect.Dx(), rect.Dy(), rect.Min.X, rect.Min.Y), suggested, reply)
	if thumb == nil || p.win == nil {
		return
	}
	p.photo = NewPhoto(Data(images.EncodePNG(thumb)))
	preview := p.win.Label(Image(p.photo), Borderwidth(1), Relief("sunken"))
	Grid(preview, Row(3), Column(0), Columnspan(2), Padx("0.4m"), Pady("0.3m"))
}

func (p *prompt) Ask(title, message, initial string, done func(bool, string)) {
	p.Cancel()
	win := App.Toplevel(Borderwidth(2))
	win.WmTitle(title)
	WmAttributes(win.Window, "-topmost", 1)
	p.win, p.done = win, done

	msg := win.Label(Txt(message), Anchor("w"))
	Grid(msg, Row(0), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	p.text = win.Text(Height(1), Width(32))
	Grid(p.text, Row(1), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	p.text.Insert("1.0", initial)
	ok := win.Button(Txt("OK [Enter]"), Command(p.accept))
	Grid(ok, Row(2), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	cancel := win.Button(Txt("Cancel [Esc]"), Command(p.Cancel))
	Grid(cancel, Row(2), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	Bind(win, "<Return>", Command(p.accept))
	Bind(win, "<Escape>", Command(p.Cancel))
	WmProtocol(win.Window, "WM_DELETE_WINDOW", p.Cancel)
}

// Open reports whether a dialog is showing.
func (p *prompt) Open() bool { return p.win != nil }

func (p *prompt) accept() {
	if p.win == nil {
		return
	}
	text := strings.TrimSpace(strings.Join(p.text.Get("1.0", END), ""))
	p.finish(true, text)
}

// Cancel closes the dialog and reports a cancellation.
func (p *prompt) Cancel() { p.finish(false, "") }

func (p *prompt) finish(ok bool, text string) {
	if p.win == nil {
		return
	}
	done := p.done
	Destroy(p.win)
	if p.photo != nil {
		p.photo.Delete()
	}
	p.win, p.text, p.done, p.photo = nil, nil, nil, nil
	if done != nil {
		done(ok, text)
	}
}
