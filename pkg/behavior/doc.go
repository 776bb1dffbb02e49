// Package behavior attaches reusable pieces of UI logic to host elements and
// manages their lifecycle as hosts and behavior lists change.
//
// # Types
//
// A [Behavior] is a unit of attachable logic. Concrete behaviors embed
// [Base], parameterized by the capability set they require from a host,
// expressed as a Go interface:
//
//	type selectOnFocus struct {
//	    behavior.Base[focus.Target]
//	    remove func()
//	}
//
//	func newSelectOnFocus() *selectOnFocus {
//	    b := &selectOnFocus{}
//	    b.SetSelf(b)
//	    return b
//	}
//
//	func (b *selectOnFocus) Attached(host focus.Target) {
//	    b.remove = host.AddFocusListener(b.onFocus)
//	}
//
//	func (b *selectOnFocus) Detached(host focus.Target) {
//	    b.remove()
//	}
//
// A [Controller] owns the behavior list of exactly one host at a time. It
// attaches every compatible behavior when it is associated with a host,
// reconciles attach/detach as its [Collection] changes, and mirrors the
// host's data context onto its behaviors.
//
// A [Slot] is the per-host binding point. Setting a controller into a
// host's slot associates it; clearing the slot dissociates it.
//
//	ctrl := behavior.NewController(focus.NewBehavior("ButtonHasFocus"))
//	behavior.Set(button, ctrl)
//
// # Threading
//
// Everything in this package runs synchronously on the UI thread. An
// Attached or Detached hook must not mutate the behavior list of the
// controller it is being attached through, nor the slot that owns that
// controller; doing so is reported as a contract violation.
//
// # Contract Violations
//
// Lifecycle preconditions (detaching from a host that was never attached,
// associating an already associated controller, sharing one controller
// between two hosts) are checked on every call. A failed check reports to
// the errors package handler and panics with *errors.ContractViolation.
// Absent hosts, empty lists and nil contexts are never violations.
package behavior
