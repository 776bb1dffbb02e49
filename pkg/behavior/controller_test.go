package behavior

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_EndToEnd(t *testing.T) {
	var log callLog
	b1 := newRecorder[clickable]("b1", &log)
	b2 := newRecorder[textInput]("b2", &log)
	b3 := newRecorder[clickable]("b3", &log)
	hostA := newButton("A")

	ctrl := NewController(b1, b2)
	assert.Equal(t, Unassociated, ctrl.State())
	assert.Empty(t, log.take())

	ctrl.Associate(hostA)
	assert.Equal(t, Associated, ctrl.State())
	assert.Same(t, hostA, ctrl.Host())
	assert.Equal(t, []string{"b1.attached(A)"}, log.take())
	assert.False(t, b2.IsAttached())

	ctrl.SetDataContext("x")
	assert.Equal(t, "x", b1.DataContext())
	assert.Equal(t, []string{"b1.context=x"}, log.take())

	ctrl.Collection().Add(b3)
	assert.Equal(t, "x", b3.DataContext())
	assert.Equal(t, []string{"b3.context=x", "b3.attached(A)"}, log.take())
	assert.Equal(t, []Behavior{b1, b2, b3}, ctrl.Behaviors())

	ctrl.Dissociate(hostA)
	assert.Equal(t, []string{
		"b1.detached(A)", "b1.context=<nil>",
		"b3.detached(A)", "b3.context=<nil>",
	}, log.take())
	assert.Equal(t, Unassociated, ctrl.State())
	assert.Nil(t, ctrl.Host())
	assert.Empty(t, ctrl.Behaviors())
	for _, b := range []Behavior{b1, b2, b3} {
		assert.Nil(t, b.DataContext())
		assert.Nil(t, b.AttachedHost())
	}
	assert.Equal(t, 0, b2.attaches)
	assert.Equal(t, 0, b2.detaches)
}

func TestController_CompatibilityGating(t *testing.T) {
	var log callLog
	onPanel := newRecorder[clickable]("click", &log)
	panel := newPanel("P")

	ctrl := NewController(onPanel)
	ctrl.Associate(panel)
	ctrl.Collection().Add(newRecorder[textInput]("text", &log))
	ctrl.Collection().Reset(onPanel)
	ctrl.Dissociate(panel)

	for _, entry := range log.take() {
		assert.NotContains(t, entry, "attached", "incompatible behavior must never attach")
	}
	assert.Equal(t, 0, onPanel.attaches)
}

func TestController_HostContextFlowsToBehaviors(t *testing.T) {
	var log callLog
	b := newRecorder[clickable]("b", &log)
	host := newButton("A")
	host.SetDataContext("vm1")

	ctrl := NewController(b)
	var seen []any
	ctrl.AddDataContextListener(func(v any) { seen = append(seen, v) })

	ctrl.Associate(host)
	assert.Equal(t, "vm1", ctrl.DataContext())
	assert.Equal(t, "vm1", b.DataContext())

	host.SetDataContext("vm2")
	assert.Equal(t, "vm2", ctrl.DataContext())
	assert.Equal(t, "vm2", b.DataContext())

	ctrl.Dissociate(host)
	host.SetDataContext("vm3")
	assert.Equal(t, "vm2", ctrl.DataContext(), "a dissociated controller must stop following the host")
	assert.Nil(t, b.DataContext())
	assert.Equal(t, []any{"vm1", "vm2"}, seen)
}

// listState is a view model whose interface field may hold a slice.
type listState struct{ Items any }

func TestController_MirrorsUncomparableContext(t *testing.T) {
	var log callLog
	b := newRecorder[clickable]("b", &log)
	host := newSlotButton("A")
	Set(host, NewController(b))

	require.NotPanics(t, func() {
		host.SetDataContext(listState{Items: []int{1}})
		host.SetDataContext(listState{Items: []int{2}})
	})
	assert.Equal(t, listState{Items: []int{2}}, b.DataContext())
	assert.Equal(t, listState{Items: []int{2}}, Get(host).DataContext())
}

func TestController_ContextSkipsDetachedMembers(t *testing.T) {
	var log callLog
	attached := newRecorder[clickable]("attached", &log)
	incompatible := newRecorder[textInput]("incompatible", &log)
	host := newButton("A")

	ctrl := NewController(attached, incompatible)
	ctrl.Associate(host)
	ctrl.SetDataContext("x")

	assert.Equal(t, "x", attached.DataContext())
	assert.Nil(t, incompatible.DataContext())
}

func TestController_LazyAttachWhileUnassociated(t *testing.T) {
	var log callLog
	ctrl := NewController()
	ctrl.SetDataContext("early")

	b := newRecorder[clickable]("b", &log)
	ctrl.Collection().Add(b)
	assert.Equal(t, []Behavior{b}, ctrl.Behaviors())
	assert.False(t, b.IsAttached())
	assert.Equal(t, "early", b.DataContext())

	ctrl.Collection().Remove(b)
	ctrl.Collection().Add(b)
	assert.Equal(t, []string{"b.context=early", "b.context=<nil>", "b.context=early"}, log.take())

	host := newButton("A")
	host.SetDataContext("vm")
	ctrl.Associate(host)
	assert.Equal(t, []string{"b.context=vm", "b.attached(A)"}, log.take())
}

func TestController_Remove(t *testing.T) {
	var log callLog
	b1 := newRecorder[clickable]("b1", &log)
	b2 := newRecorder[clickable]("b2", &log)
	ctrl := NewController(b1, b2)
	ctrl.Associate(newButton("A"))
	ctrl.SetDataContext("x")
	log.take()

	ctrl.Collection().Remove(b1)

	assert.Equal(t, []string{"b1.detached(A)", "b1.context=<nil>"}, log.take())
	assert.Equal(t, []Behavior{b2}, ctrl.Behaviors())
	assert.True(t, b2.IsAttached())
}

func TestController_ResetDetachesBeforeAttaching(t *testing.T) {
	var log callLog
	b1 := newRecorder[clickable]("b1", &log)
	b2 := newRecorder[clickable]("b2", &log)
	b3 := newRecorder[clickable]("b3", &log)
	ctrl := NewController(b1, b2)
	ctrl.Associate(newButton("A"))
	ctrl.SetDataContext("x")
	log.take()

	ctrl.Collection().Reset(b2, b3)

	assert.Equal(t, []string{
		"b1.detached(A)", "b1.context=<nil>",
		"b2.detached(A)", "b2.context=<nil>",
		"b2.context=x", "b2.attached(A)",
		"b3.context=x", "b3.attached(A)",
	}, log.take())
	assert.Equal(t, []Behavior{b2, b3}, ctrl.Behaviors())
	assert.Equal(t, 1, b2.detaches, "overlapping member must still be detached once")
	assert.Equal(t, 2, b2.attaches)
}

func TestController_ReplaceRebuilds(t *testing.T) {
	var log callLog
	b1 := newRecorder[clickable]("b1", &log)
	b2 := newRecorder[clickable]("b2", &log)
	b3 := newRecorder[clickable]("b3", &log)
	ctrl := NewController(b1, b2)
	ctrl.Associate(newButton("A"))
	log.take()

	ctrl.Collection().Replace(0, b3)

	assert.Equal(t, []string{
		"b1.detached(A)",
		"b2.detached(A)",
		"b3.attached(A)",
		"b2.attached(A)",
	}, log.take())
	assert.Equal(t, []Behavior{b3, b2}, ctrl.Behaviors())
	assert.False(t, b1.IsAttached())
}

func TestController_ClearDetachesEverything(t *testing.T) {
	var log callLog
	b1 := newRecorder[clickable]("b1", &log)
	ctrl := NewController(b1)
	ctrl.Associate(newButton("A"))
	log.take()

	ctrl.Collection().Clear()
	assert.Equal(t, []string{"b1.detached(A)"}, log.take())
	assert.Empty(t, ctrl.Behaviors())
}

func TestController_MoveIsInert(t *testing.T) {
	var log callLog
	b1 := newRecorder[clickable]("b1", &log)
	b2 := newRecorder[clickable]("b2", &log)
	ctrl := NewController(b1, b2)
	ctrl.Associate(newButton("A"))
	ctrl.SetDataContext("x")
	log.take()

	ctrl.Collection().Move(0, 1)

	assert.Empty(t, log.take())
	assert.True(t, b1.IsAttached())
	assert.True(t, b2.IsAttached())
	assert.Equal(t, "x", b1.DataContext())
}

func TestController_SetCollection(t *testing.T) {
	var log callLog
	old1 := newRecorder[clickable]("old1", &log)
	new1 := newRecorder[clickable]("new1", &log)
	ctrl := NewController(old1)
	ctrl.Associate(newButton("A"))
	ctrl.SetDataContext("x")
	oldList := ctrl.Collection()
	log.take()

	newList := NewCollection(new1)
	ctrl.SetCollection(newList)

	assert.Equal(t, []string{
		"old1.detached(A)", "old1.context=<nil>",
		"new1.context=x", "new1.attached(A)",
	}, log.take())
	assert.Same(t, newList, ctrl.Collection())
	assert.Equal(t, 0, oldList.ListenerCount())
	assert.Equal(t, 1, newList.ListenerCount())

	oldList.Add(newRecorder[clickable]("stray", &log))
	assert.Empty(t, log.take(), "the old list must no longer drive the controller")

	ctrl.SetCollection(nil)
	assert.Equal(t, []string{"new1.detached(A)", "new1.context=<nil>"}, log.take())
	assert.Empty(t, ctrl.Behaviors())
}

func TestController_ReassociateWithAnotherHost(t *testing.T) {
	var log callLog
	b := newRecorder[clickable]("b", &log)
	a, other := newButton("A"), newButton("B")
	ctrl := NewController(b)

	ctrl.Associate(a)
	ctrl.Dissociate(a)
	ctrl.Associate(other)
	ctrl.Dissociate(other)

	assert.Equal(t, []string{
		"b.attached(A)", "b.detached(A)",
		"b.attached(B)", "b.detached(B)",
	}, log.take())
}

// TestController_PairingUnderMixedMutations drives a long sequence of
// mutations and checks that attaches and detaches alternate per behavior.
func TestController_PairingUnderMixedMutations(t *testing.T) {
	var log callLog
	bs := []*recorder[clickable]{
		newRecorder[clickable]("b0", &log),
		newRecorder[clickable]("b1", &log),
		newRecorder[clickable]("b2", &log),
	}
	ctrl := NewController(bs[0])
	col := ctrl.Collection()
	a, other := newButton("A"), newButton("B")

	steps := []func(){
		func() { ctrl.Associate(a) },
		func() { col.Add(bs[1]) },
		func() { col.Move(0, 1) },
		func() { col.Replace(1, bs[2]) },
		func() { col.Reset(bs[0], bs[1], bs[2]) },
		func() { col.Remove(bs[1]) },
		func() { ctrl.Dissociate(a) },
		func() { col.Add(bs[1]) },
		func() { ctrl.Associate(other) },
		func() { col.Clear() },
		func() { col.Reset(bs[2]) },
		func() { ctrl.Dissociate(other) },
	}
	for _, step := range steps {
		step()
		for _, b := range bs {
			diff := b.attaches - b.detaches
			require.True(t, diff == 0 || diff == 1, "%s attaches=%d detaches=%d", b.name, b.attaches, b.detaches)
			assert.Equal(t, diff == 1, b.IsAttached())
		}
	}
	for _, b := range bs {
		assert.Equal(t, b.attaches, b.detaches, b.name)
	}
}

func TestController_Violations(t *testing.T) {
	t.Run("associate nil", func(t *testing.T) {
		requireViolation(t, "nil host", func() { NewController().Associate(nil) })
	})

	t.Run("associate twice", func(t *testing.T) {
		ctrl := NewController()
		ctrl.Associate(newButton("A"))
		requireViolation(t, "already associated", func() { ctrl.Associate(newButton("B")) })
	})

	t.Run("dissociate unassociated", func(t *testing.T) {
		requireViolation(t, "not associated", func() { NewController().Dissociate(newButton("A")) })
	})

	t.Run("dissociate other host", func(t *testing.T) {
		ctrl := NewController()
		a := newButton("A")
		ctrl.Associate(a)
		requireViolation(t, "not with the given", func() { ctrl.Dissociate(newButton("B")) })
		assert.Same(t, a, ctrl.Host())
	})

	t.Run("behavior shared by two controllers", func(t *testing.T) {
		var log callLog
		b := newRecorder[clickable]("b", &log)
		first := NewController(b)
		first.Associate(newButton("A"))
		second := NewController(b)
		requireViolation(t, "already attached", func() { second.Associate(newButton("B")) })
	})

	t.Run("re-entrant mutation from a hook", func(t *testing.T) {
		var log callLog
		ctrl := NewController()
		b := newRecorder[clickable]("b", &log)
		b.onAttach = func(clickable) {
			ctrl.Collection().Add(newRecorder[clickable]("nested", &log))
		}
		ctrl.Collection().Add(b)
		requireViolation(t, "re-entrant change", func() { ctrl.Associate(newButton("A")) })
	})
}
