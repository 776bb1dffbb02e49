package focus

import (
	"github.com/go-drift/behaviors/pkg/behavior"
	"github.com/go-drift/behaviors/pkg/binding"
)

// Event is a gained or lost focus notification. Events bubble: a host
// also sees the events of its descendants, with Source identifying the
// element whose focus actually changed.
type Event struct {
	Source any
	Gained bool
}

// Target is the capability set of hosts that take part in focus.
type Target interface {
	behavior.Host
	// Focus requests primary focus and reports whether the host holds it.
	Focus() bool
	// AddFocusListener registers fn for focus events raised on the host or
	// bubbled up from its descendants.
	AddFocusListener(fn func(Event)) (remove func())
}

// Selectable is the capability set of text hosts.
type Selectable interface {
	Target
	SelectAll()
}

// Behavior keeps its host focused while HasFocus is true and reflects the
// host's own focus changes back into HasFocus.
//
// When Path is set, HasFocus is bound two-way to the boolean observable of
// that name on the behavior's data context.
type Behavior struct {
	behavior.Base[Target]

	HasFocus *binding.Observable[bool]
	Path     string

	updatingSelf bool
	removeFocus  func()
	unbind       func()
}

// NewBehavior creates a focus behavior bound to path on its data context.
// An empty path leaves HasFocus unbound.
func NewBehavior(path string) *Behavior {
	b := &Behavior{
		HasFocus: binding.NewObservable(false),
		Path:     path,
	}
	b.SetSelf(b)
	b.HasFocus.AddListener(b.onHasFocusChanged)
	b.AddDataContextListener(b.rebind)
	return b
}

// Attached subscribes to the host's focus events and applies a pending
// HasFocus request. The request is applied before Attached returns, so
// behaviors attached after this one in the same collection do not see the
// resulting gained event.
func (b *Behavior) Attached(host Target) {
	b.removeFocus = host.AddFocusListener(b.onFocusEvent)
	if b.HasFocus.Value() {
		host.Focus()
	}
}

// Detached removes the focus subscription.
func (b *Behavior) Detached(Target) {
	if b.removeFocus != nil {
		b.removeFocus()
		b.removeFocus = nil
	}
}

func (b *Behavior) onHasFocusChanged(hasFocus bool) {
	if b.updatingSelf || !hasFocus {
		return
	}
	if host := b.AttachedElement(); host != nil {
		host.Focus()
	}
}

func (b *Behavior) onFocusEvent(e Event) {
	// Descendant events bubble through the host and are not ours.
	if !binding.Same(e.Source, b.AttachedHost()) {
		return
	}
	b.updatingSelf = true
	defer func() { b.updatingSelf = false }()
	b.HasFocus.Set(e.Gained)
}

func (b *Behavior) rebind(ctx any) {
	if b.unbind != nil {
		b.unbind()
		b.unbind = nil
	}
	if src, ok := binding.Lookup[bool](ctx, b.Path); ok {
		b.unbind = binding.Bind(src, b.HasFocus)
	}
}

// SelectAllBehavior selects the host's text whenever the host itself gains
// focus.
type SelectAllBehavior struct {
	behavior.Base[Selectable]

	// Selections counts how many times the text was selected.
	Selections int

	removeFocus func()
}

// NewSelectAllBehavior creates a select-all-on-focus behavior.
func NewSelectAllBehavior() *SelectAllBehavior {
	b := &SelectAllBehavior{}
	b.SetSelf(b)
	return b
}

// Attached subscribes to the host's focus events.
func (b *SelectAllBehavior) Attached(host Selectable) {
	b.removeFocus = host.AddFocusListener(func(e Event) {
		if e.Gained && binding.Same(e.Source, b.AttachedHost()) {
			b.Selections++
			host.SelectAll()
		}
	})
}

// Detached removes the focus subscription.
func (b *SelectAllBehavior) Detached(Selectable) {
	if b.removeFocus != nil {
		b.removeFocus()
		b.removeFocus = nil
	}
}
