package element

import "github.com/go-drift/behaviors/pkg/focus"

// Window is the root of an element tree and owns its focus state.
type Window struct {
	Element
	FocusManager *focus.FocusManager
}

// NewWindow creates an empty window.
func NewWindow(name string) *Window {
	w := &Window{FocusManager: focus.NewFocusManager()}
	w.init(w, name, KindWindow)
	return w
}

// FocusedElement returns the element holding primary focus, or nil.
func (w *Window) FocusedElement() Node {
	var found Node
	w.Walk(func(d *Element) bool {
		if d.IsFocused() {
			found = d.self
			return false
		}
		return true
	})
	return found
}

// MoveFocus moves focus delta steps through the focusable elements, in the
// order they joined the window.
func (w *Window) MoveFocus(delta int) bool {
	return w.FocusManager.MoveFocus(delta)
}

// Button is a focusable, clickable element.
type Button struct {
	Element
	OnClick func()
}

// NewButton creates a button.
func NewButton(name string) *Button {
	b := &Button{}
	b.init(b, name, KindButton)
	b.makeFocusable()
	return b
}

// Click invokes OnClick.
func (b *Button) Click() {
	if b.OnClick != nil {
		b.OnClick()
	}
}

// TextBox is a focusable element holding editable text.
type TextBox struct {
	Element
	Text string

	selectionStart  int
	selectionLength int
}

// NewTextBox creates a text box.
func NewTextBox(name string) *TextBox {
	t := &TextBox{}
	t.init(t, name, KindTextBox)
	t.makeFocusable()
	return t
}

// SelectAll selects the whole text.
func (t *TextBox) SelectAll() {
	t.selectionStart = 0
	t.selectionLength = len(t.Text)
}

// SelectedText returns the selected part of the text.
func (t *TextBox) SelectedText() string {
	end := min(t.selectionStart+t.selectionLength, len(t.Text))
	return t.Text[t.selectionStart:end]
}
