// Package element provides a minimal retained element tree that hosts
// behaviors: elements carry an inherited data context, a behavior slot and
// bubbling focus events.
package element

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/go-drift/behaviors/pkg/behavior"
	"github.com/go-drift/behaviors/pkg/binding"
	"github.com/go-drift/behaviors/pkg/errors"
	"github.com/go-drift/behaviors/pkg/focus"
)

// Kind names the type of an element.
type Kind string

const (
	// KindWindow is the root of a tree. It owns focus.
	KindWindow Kind = "window"
	// KindPanel groups child elements.
	KindPanel Kind = "panel"
	// KindButton is a focusable leaf.
	KindButton Kind = "button"
	// KindTextBox is a focusable leaf with selectable text.
	KindTextBox Kind = "textbox"
)

// Node is implemented by every element type. Base returns the shared
// element state.
type Node interface {
	focus.Target
	behavior.SlotHost
	Base() *Element
}

// Element is the state shared by all element types. Concrete types embed
// it and register themselves with init so that events and behavior hosts
// refer to the outer value.
type Element struct {
	ID   uuid.UUID
	Name string
	Kind Kind

	self     Node
	parent   *Element
	children []*Element

	context      *binding.Observable[any]
	local        any
	hasLocal     bool
	removeParent func()

	events *binding.Observable[focus.Event]
	node   *focus.FocusNode
	slot   *behavior.Slot
}

func (e *Element) init(self Node, name string, kind Kind) {
	e.ID = uuid.New()
	e.Name = name
	e.Kind = kind
	e.self = self
	e.context = binding.NewValue(nil)
	// Every event is delivered, even when identical to the previous one.
	e.events = binding.NewObservableFunc(focus.Event{}, nil)
	e.slot = behavior.NewSlot(self)
}

func (e *Element) makeFocusable() {
	e.node = &focus.FocusNode{
		CanRequestFocus: true,
		DebugLabel:      e.Name,
		OnFocusChange:   e.raiseFocus,
	}
}

// NewPanel creates a non-focusable container.
func NewPanel(name string) *Element {
	e := &Element{}
	e.init(e, name, KindPanel)
	return e
}

// Base returns e.
func (e *Element) Base() *Element {
	return e
}

// Self returns the outer element value e belongs to.
func (e *Element) Self() Node {
	return e.self
}

func (e *Element) String() string {
	return fmt.Sprintf("%s:%s", e.Kind, e.Name)
}

// Parent returns the parent element, or nil.
func (e *Element) Parent() Node {
	if e.parent == nil {
		return nil
	}
	return e.parent.self
}

// Children returns the child elements in order.
func (e *Element) Children() []Node {
	nodes := make([]Node, len(e.children))
	for i, c := range e.children {
		nodes[i] = c.self
	}
	return nodes
}

// AppendChild adds child as the last child of e. child takes e's data
// context unless it has one of its own, and its focusable descendants join
// the window's traversal order.
func (e *Element) AppendChild(child Node) {
	c := child.Base()
	if c.parent != nil {
		errors.Violate("element.AppendChild", "%s already has parent %s", c, c.parent)
	}
	c.parent = e
	e.children = append(e.children, c)
	c.removeParent = e.context.AddListener(c.onParentContext)
	c.onParentContext(e.context.Value())

	if w := e.window(); w != nil {
		c.Walk(func(d *Element) bool {
			if d.node != nil {
				w.FocusManager.Register(d.node)
			}
			return true
		})
	}
}

// RemoveChild detaches child from e and reports whether it was a child.
func (e *Element) RemoveChild(child Node) bool {
	c := child.Base()
	for i, existing := range e.children {
		if existing != c {
			continue
		}
		if w := e.window(); w != nil {
			c.Walk(func(d *Element) bool {
				w.FocusManager.Unregister(d.node)
				return true
			})
		}
		e.children = append(e.children[:i], e.children[i+1:]...)
		c.parent = nil
		c.removeParent()
		c.removeParent = nil
		c.onParentContext(nil)
		return true
	}
	return false
}

// Walk visits e and its descendants depth-first until visit returns false.
func (e *Element) Walk(visit func(*Element) bool) bool {
	if !visit(e) {
		return false
	}
	for _, c := range e.children {
		if !c.Walk(visit) {
			return false
		}
	}
	return true
}

// Find returns the first element named name in e's subtree.
func (e *Element) Find(name string) Node {
	var found Node
	e.Walk(func(d *Element) bool {
		if d.Name == name {
			found = d.self
			return false
		}
		return true
	})
	return found
}

func (e *Element) window() *Window {
	top := e
	for top.parent != nil {
		top = top.parent
	}
	w, _ := top.self.(*Window)
	return w
}

// DataContext returns the effective data context: the local value if one
// was set, otherwise the parent's.
func (e *Element) DataContext() any {
	return e.context.Value()
}

// SetDataContext sets a local data context that overrides the inherited one.
func (e *Element) SetDataContext(value any) {
	e.local = value
	e.hasLocal = true
	e.context.Set(value)
}

// ClearDataContext drops the local data context and inherits again.
func (e *Element) ClearDataContext() {
	e.local = nil
	e.hasLocal = false
	var inherited any
	if e.parent != nil {
		inherited = e.parent.DataContext()
	}
	e.context.Set(inherited)
}

// HasLocalDataContext reports whether the element overrides the inherited
// data context.
func (e *Element) HasLocalDataContext() bool {
	return e.hasLocal
}

// AddDataContextListener registers fn to run when the effective data
// context changes.
func (e *Element) AddDataContextListener(fn func(any)) func() {
	return e.context.AddListener(fn)
}

func (e *Element) onParentContext(value any) {
	if e.hasLocal {
		return
	}
	e.context.Set(value)
}

// BehaviorSlot returns the element's behavior binding point.
func (e *Element) BehaviorSlot() *behavior.Slot {
	return e.slot
}

// Behaviors returns the controller installed on the element, or nil.
func (e *Element) Behaviors() *behavior.Controller {
	return e.slot.Get()
}

// SetBehaviors installs c on the element, dissociating any previous
// controller. Pass nil to remove it.
func (e *Element) SetBehaviors(c *behavior.Controller) {
	e.slot.Set(c)
}

// Focusable reports whether the element can take focus.
func (e *Element) Focusable() bool {
	return e.node != nil && e.window() != nil
}

// IsFocused reports whether the element holds primary focus.
func (e *Element) IsFocused() bool {
	return e.node != nil && e.node.HasFocus()
}

// Focus requests primary focus and reports whether the element holds it.
func (e *Element) Focus() bool {
	if e.node == nil {
		return false
	}
	return e.node.RequestFocus()
}

// AddFocusListener registers fn for focus events of e and its descendants.
func (e *Element) AddFocusListener(fn func(focus.Event)) func() {
	return e.events.AddListener(fn)
}

// raiseFocus delivers a focus event to e and then to each ancestor.
func (e *Element) raiseFocus(gained bool) {
	evt := focus.Event{Source: e.self, Gained: gained}
	for el := e; el != nil; el = el.parent {
		el.events.Set(evt)
	}
}
