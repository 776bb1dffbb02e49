package behavior

import (
	"reflect"

	"github.com/go-drift/behaviors/pkg/errors"
)

// Slot is the per-host binding point holding at most one Controller.
// Changing its value drives association and dissociation.
type Slot struct {
	owner      Host
	controller *Controller
	changing   bool
}

// NewSlot creates an empty slot owned by host.
func NewSlot(owner Host) *Slot {
	return &Slot{owner: owner}
}

// Owner returns the host the slot belongs to.
func (s *Slot) Owner() Host {
	return s.owner
}

// Get returns the installed controller, or nil.
func (s *Slot) Get() *Controller {
	if s == nil {
		return nil
	}
	return s.controller
}

// Set installs c, replacing the current controller. The previous controller
// is dissociated before c is associated; passing nil only dissociates.
// Installing a controller that is associated with another host is a
// contract violation.
func (s *Slot) Set(c *Controller) {
	const op = "behavior.Slot.Set"
	if isNil(s.owner) {
		errors.Violate(op, "slot has no owner")
	}
	if s.changing {
		errors.Violate(op, "re-entrant slot change")
	}
	if c == s.controller {
		return
	}
	s.changing = true
	defer func() { s.changing = false }()

	if old := s.controller; old != nil {
		s.controller = nil
		old.Dissociate(s.owner)
	}
	if c != nil {
		c.Associate(s.owner)
		s.controller = c
	}
}

// SlotHost is implemented by hosts that carry their own binding point.
type SlotHost interface {
	Host
	BehaviorSlot() *Slot
}

// sideKey identifies a host in the side table by pointer identity, never
// by value.
type sideKey struct {
	typ reflect.Type
	ptr uintptr
}

// sideSlots holds binding points for hosts that cannot carry a field. The
// slot's owner keeps its host reachable, so a key's address stays valid
// until Release.
var sideSlots = make(map[sideKey]*Slot)

// sideKeyOf returns the identity of host. Only pointer hosts have one.
func sideKeyOf(host Host) (sideKey, bool) {
	v := reflect.ValueOf(host)
	if v.Kind() != reflect.Pointer {
		return sideKey{}, false
	}
	return sideKey{typ: v.Type(), ptr: v.Pointer()}, true
}

// SlotFor returns the binding point of host, creating a side-table entry
// for hosts that do not implement SlotHost. Returns nil for a nil host.
// A host that neither implements SlotHost nor is a pointer has no identity
// to key a side-table entry by, which is a contract violation.
func SlotFor(host Host) *Slot {
	if isNil(host) {
		return nil
	}
	if sh, ok := host.(SlotHost); ok {
		return sh.BehaviorSlot()
	}
	key, ok := sideKeyOf(host)
	if !ok {
		errors.Violate("behavior.SlotFor", "host %T is not a pointer and does not implement SlotHost", host)
	}
	s, ok := sideSlots[key]
	if !ok {
		s = NewSlot(host)
		sideSlots[key] = s
	}
	return s
}

// Get returns the controller installed on host, or nil.
func Get(host Host) *Controller {
	if isNil(host) {
		return nil
	}
	if sh, ok := host.(SlotHost); ok {
		return sh.BehaviorSlot().Get()
	}
	key, ok := sideKeyOf(host)
	if !ok {
		return nil
	}
	return sideSlots[key].Get()
}

// Set installs c on host. See [Slot.Set].
func Set(host Host, c *Controller) {
	if isNil(host) {
		errors.Violate("behavior.Set", "nil host")
	}
	SlotFor(host).Set(c)
}

// Release clears the side-table slot of host, dissociating its controller.
// Hosts implementing SlotHost are unaffected.
func Release(host Host) {
	key, ok := sideKeyOf(host)
	if !ok {
		return
	}
	s, ok := sideSlots[key]
	if !ok {
		return
	}
	s.Set(nil)
	delete(sideSlots, key)
}
