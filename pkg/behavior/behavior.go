package behavior

import (
	"reflect"

	"github.com/go-drift/behaviors/pkg/binding"
	"github.com/go-drift/behaviors/pkg/errors"
)

// Host is an element that behaviors can be attached to. Its data context
// is mirrored onto the controller associated with it.
type Host interface {
	// DataContext returns the host's current data context.
	DataContext() any
	// AddDataContextListener registers fn to run when the data context
	// changes. Returns a function that removes the listener.
	AddDataContextListener(fn func(any)) (remove func())
}

// Behavior is an attachable unit of host-specific logic.
//
// Implementations embed [Base]; the lifecycle methods are driven by a
// [Controller] and should not be called directly.
type Behavior interface {
	// IsCompatible reports whether host provides the capability set the
	// behavior was declared against. A nil host is never compatible.
	IsCompatible(host Host) bool
	// OnAttachedTo attaches the behavior to a compatible host.
	OnAttachedTo(host Host)
	// OnDetachedFrom detaches the behavior from the host it is attached to.
	OnDetachedFrom(host Host)
	// AttachedHost returns the current host, or nil.
	AttachedHost() Host

	DataContext() any
	SetDataContext(value any)
	AddDataContextListener(fn func(any)) (remove func())
}

// Extension holds the overridable hooks of a behavior. Both are no-ops on
// [Base].
type Extension[H any] interface {
	// Attached runs after the host has been recorded.
	Attached(host H)
	// Detached runs before the host is cleared.
	Detached(host H)
}

// Base implements [Behavior] for hosts satisfying H. Embed it in a
// concrete behavior and call SetSelf from the constructor so that the
// behavior's own Attached and Detached methods are used.
type Base[H any] struct {
	self    Extension[H]
	host    Host
	element H
	context *binding.Observable[any]
}

// SetSelf registers the embedding behavior as the receiver of the
// Attached and Detached hooks.
func (b *Base[H]) SetSelf(self Extension[H]) {
	b.self = self
}

func (b *Base[H]) extension() Extension[H] {
	if b.self != nil {
		return b.self
	}
	return b
}

// Attached is a no-op hook.
func (b *Base[H]) Attached(H) {}

// Detached is a no-op hook.
func (b *Base[H]) Detached(H) {}

// IsCompatible reports whether host implements H.
func (b *Base[H]) IsCompatible(host Host) bool {
	if isNil(host) {
		return false
	}
	_, ok := any(host).(H)
	return ok
}

// TargetType returns the name of the capability set H.
func (b *Base[H]) TargetType() string {
	return reflect.TypeFor[H]().String()
}

// OnAttachedTo records host and runs the Attached hook.
func (b *Base[H]) OnAttachedTo(host Host) {
	const op = "behavior.Base.OnAttachedTo"
	if !b.IsCompatible(host) {
		errors.Violate(op, "host %T does not implement %s", host, b.TargetType())
	}
	if b.host != nil {
		errors.Violate(op, "already attached to %T", b.host)
	}
	b.host = host
	b.element = any(host).(H)
	b.extension().Attached(b.element)
}

// OnDetachedFrom runs the Detached hook and clears the host. host must be
// the host the behavior is attached to.
func (b *Base[H]) OnDetachedFrom(host Host) {
	const op = "behavior.Base.OnDetachedFrom"
	if b.host == nil {
		errors.Violate(op, "not attached, cannot detach from %T", host)
	}
	if !binding.Same(b.host, host) {
		errors.Violate(op, "attached to %T, not to the given %T", b.host, host)
	}
	b.extension().Detached(b.element)
	var zero H
	b.host = nil
	b.element = zero
}

// AttachedHost returns the host the behavior is attached to, or nil.
func (b *Base[H]) AttachedHost() Host {
	return b.host
}

// AttachedElement returns the attached host typed as H, or the zero value.
func (b *Base[H]) AttachedElement() H {
	return b.element
}

// IsAttached reports whether the behavior currently has a host.
func (b *Base[H]) IsAttached() bool {
	return b.host != nil
}

func (b *Base[H]) dataContext() *binding.Observable[any] {
	if b.context == nil {
		b.context = binding.NewValue(nil)
	}
	return b.context
}

// DataContext returns the context mirrored from the owning controller.
func (b *Base[H]) DataContext() any {
	return b.dataContext().Value()
}

// SetDataContext replaces the behavior's data context.
func (b *Base[H]) SetDataContext(value any) {
	b.dataContext().Set(value)
}

// AddDataContextListener registers fn to run when the data context changes.
func (b *Base[H]) AddDataContextListener(fn func(any)) func() {
	return b.dataContext().AddListener(fn)
}

// isNil reports whether host is nil or a typed nil pointer.
func isNil(host Host) bool {
	if host == nil {
		return true
	}
	v := reflect.ValueOf(host)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
