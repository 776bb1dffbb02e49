package behavior

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlot_SetAndClear(t *testing.T) {
	var log callLog
	host := newSlotButton("A")
	b := newRecorder[clickable]("b", &log)
	ctrl := NewController(b)

	Set(host, ctrl)
	assert.Same(t, ctrl, Get(host))
	assert.Same(t, host, ctrl.Host())

	Set(host, ctrl)
	assert.Equal(t, []string{"b.attached(A)"}, log.take(), "setting the same controller again is a no-op")

	Set(host, nil)
	assert.Nil(t, Get(host))
	assert.Equal(t, Unassociated, ctrl.State())
	assert.Equal(t, []string{"b.detached(A)"}, log.take())
}

func TestSlot_SwapDissociatesFirst(t *testing.T) {
	var log callLog
	host := newSlotButton("A")
	first := NewController(newRecorder[clickable]("first", &log))
	second := NewController(newRecorder[clickable]("second", &log))

	host.BehaviorSlot().Set(first)
	host.BehaviorSlot().Set(second)

	assert.Equal(t, []string{
		"first.attached(A)",
		"first.detached(A)",
		"second.attached(A)",
	}, log.take())
	assert.Equal(t, Unassociated, first.State())
	assert.Same(t, second, host.BehaviorSlot().Get())
}

func TestSlot_ControllerCannotBeShared(t *testing.T) {
	var log callLog
	a, other := newSlotButton("A"), newSlotButton("B")
	ctrl := NewController(newRecorder[clickable]("b", &log))

	Set(a, ctrl)
	requireViolation(t, "cannot be shared", func() { Set(other, ctrl) })

	assert.Nil(t, Get(other), "the rejected slot must stay empty")
	assert.Same(t, a, ctrl.Host())
}

func TestSlot_SideTableForPlainHosts(t *testing.T) {
	var log callLog
	host := newButton("plain")
	ctrl := NewController(newRecorder[clickable]("b", &log))

	assert.Nil(t, Get(host))
	Set(host, ctrl)
	assert.Same(t, ctrl, Get(host))
	assert.Same(t, SlotFor(host), SlotFor(host))
	assert.Same(t, host, SlotFor(host).Owner())

	Release(host)
	assert.Nil(t, Get(host))
	assert.Equal(t, Unassociated, ctrl.State())
	assert.Equal(t, []string{"b.attached(plain)", "b.detached(plain)"}, log.take())

	Release(host)
}

// valueHost is a host passed by value; it has no identity.
type valueHost struct {
	tags []string
}

func (valueHost) DataContext() any                        { return nil }
func (valueHost) AddDataContextListener(func(any)) func() { return func() {} }

func TestSlot_SideTableRequiresPointerHosts(t *testing.T) {
	host := valueHost{tags: []string{"a"}}

	requireViolation(t, "is not a pointer", func() { SlotFor(host) })
	requireViolation(t, "is not a pointer", func() { Set(host, NewController()) })
	assert.Nil(t, Get(host))
	assert.NotPanics(t, func() { Release(host) })
}

func TestSlot_SideTableKeysByIdentity(t *testing.T) {
	a, b := newButton("same"), newButton("same")
	assert.NotSame(t, SlotFor(a), SlotFor(b))

	ctrl := NewController()
	Set(a, ctrl)
	t.Cleanup(func() { Release(a) })
	assert.Same(t, ctrl, Get(a))
	assert.Nil(t, Get(b))
	Release(b)
}

func TestSlot_NilHosts(t *testing.T) {
	assert.Nil(t, Get(nil))
	assert.Nil(t, SlotFor(nil))
	var nilSlot *Slot
	assert.Nil(t, nilSlot.Get())
	requireViolation(t, "nil host", func() { Set(nil, NewController()) })
	requireViolation(t, "no owner", func() { (&Slot{}).Set(NewController()) })
}

func TestSlot_ReentrantChangeFromHook(t *testing.T) {
	var log callLog
	host := newSlotButton("A")
	b := newRecorder[clickable]("b", &log)
	b.onAttach = func(clickable) { host.BehaviorSlot().Set(nil) }

	requireViolation(t, "re-entrant slot change", func() {
		host.BehaviorSlot().Set(NewController(b))
	})
}
