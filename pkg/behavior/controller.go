package behavior

import (
	"slices"

	"github.com/go-drift/behaviors/pkg/binding"
	"github.com/go-drift/behaviors/pkg/errors"
)

// State is the association state of a Controller.
type State int

const (
	// Unassociated means the controller has no host.
	Unassociated State = iota
	// Associated means the controller is installed on a host.
	Associated
)

func (s State) String() string {
	if s == Associated {
		return "associated"
	}
	return "unassociated"
}

// Controller keeps a list of behaviors attached to one host.
//
// While associated, every tracked behavior compatible with the host is
// attached to it and carries the controller's data context. The
// controller's own context follows the host's, so behaviors see
// host -> controller -> behavior propagation.
//
// Controllers are not goroutine-safe.
type Controller struct {
	host       Host
	removeHost func()

	collection       *Collection
	removeCollection func()

	// tracked mirrors the collection while the controller is in use and is
	// emptied on dissociation; membership is by identity.
	tracked []Behavior

	context     *binding.Observable[any]
	reconciling string
}

// NewController creates an unassociated controller whose collection holds
// items.
func NewController(items ...Behavior) *Controller {
	c := &Controller{context: binding.NewValue(nil)}
	c.context.AddListener(c.mirror)
	c.SetCollection(NewCollection(items...))
	return c
}

// Host returns the associated host, or nil.
func (c *Controller) Host() Host {
	return c.host
}

// State reports whether the controller is associated with a host.
func (c *Controller) State() State {
	if c.host != nil {
		return Associated
	}
	return Unassociated
}

// Behaviors returns the tracked behaviors in collection order.
func (c *Controller) Behaviors() []Behavior {
	return slices.Clone(c.tracked)
}

// Collection returns the bound behavior list, which may be nil.
func (c *Controller) Collection() *Collection {
	return c.collection
}

// SetCollection binds a different behavior list. Every behavior of the
// previous list is detached and loses its context; every behavior of the
// new list goes through the same steps as an Add.
func (c *Controller) SetCollection(col *Collection) {
	if col == c.collection {
		return
	}
	c.enter("behavior.Controller.SetCollection")
	defer c.leave()

	if c.removeCollection != nil {
		c.removeCollection()
		c.removeCollection = nil
	}
	c.teardown()

	c.collection = col
	if col == nil {
		return
	}
	c.removeCollection = col.AddChangeListener(c.onCollectionChanged)
	for _, b := range col.Items() {
		c.add(b)
	}
}

// DataContext returns the controller's data context.
func (c *Controller) DataContext() any {
	return c.context.Value()
}

// SetDataContext stores value and mirrors it onto every attached behavior.
func (c *Controller) SetDataContext(value any) {
	c.context.Set(value)
}

// AddDataContextListener registers fn to run when the controller's data
// context changes.
func (c *Controller) AddDataContextListener(fn func(any)) func() {
	return c.context.AddListener(fn)
}

func (c *Controller) mirror(value any) {
	for _, b := range c.tracked {
		if b.AttachedHost() != nil {
			b.SetDataContext(value)
		}
	}
}

// Associate installs the controller on host and attaches every compatible
// behavior of its collection. The controller must be unassociated.
//
// Associate is normally called through a [Slot].
func (c *Controller) Associate(host Host) {
	const op = "behavior.Controller.Associate"
	if isNil(host) {
		errors.Violate(op, "nil host")
	}
	if c.host != nil {
		errors.Violate(op, "already associated with %T; a controller cannot be shared between hosts", c.host)
	}
	c.enter(op)
	defer c.leave()

	c.host = host
	c.removeHost = host.AddDataContextListener(c.onHostContextChanged)
	c.context.Set(host.DataContext())

	c.tracked = c.tracked[:0]
	if c.collection == nil {
		return
	}
	for _, b := range c.collection.Items() {
		c.add(b)
	}
}

// Dissociate detaches every compatible behavior from host, clears their
// contexts and forgets host. host must be the associated host.
func (c *Controller) Dissociate(host Host) {
	const op = "behavior.Controller.Dissociate"
	if c.host == nil {
		errors.Violate(op, "not associated, cannot dissociate from %T", host)
	}
	if !binding.Same(c.host, host) {
		errors.Violate(op, "associated with %T, not with the given %T", c.host, host)
	}
	c.enter(op)
	defer c.leave()

	c.removeHost()
	c.removeHost = nil
	c.teardown()
	c.host = nil
}

func (c *Controller) onHostContextChanged(value any) {
	if c.host == nil {
		return
	}
	c.context.Set(value)
}

func (c *Controller) onCollectionChanged(change Change) {
	c.enter("behavior.Controller.onCollectionChanged")
	defer c.leave()

	switch change.Action {
	case ActionAdd:
		for _, b := range change.NewItems {
			c.add(b)
		}
	case ActionRemove:
		for _, b := range change.OldItems {
			c.remove(b)
		}
	case ActionReplace, ActionReset:
		// Full teardown and rebuild: a behavior present before and after
		// sees one detach followed by one attach.
		c.teardown()
		for _, b := range c.collection.Items() {
			c.add(b)
		}
	case ActionMove:
		// Order does not affect attachment.
	}
}

func (c *Controller) add(b Behavior) {
	if slices.Contains(c.tracked, b) {
		errors.Violate("behavior.Controller.add", "behavior %T is already tracked", b)
	}
	b.SetDataContext(c.context.Value())
	if b.IsCompatible(c.host) {
		b.OnAttachedTo(c.host)
	}
	c.tracked = append(c.tracked, b)
}

func (c *Controller) remove(b Behavior) {
	if b.IsCompatible(c.host) {
		b.OnDetachedFrom(c.host)
	}
	c.tracked = slices.DeleteFunc(c.tracked, func(t Behavior) bool { return t == b })
	b.SetDataContext(nil)
}

// teardown detaches and clears the context of every tracked behavior, then
// empties the tracked set.
func (c *Controller) teardown() {
	for _, b := range c.tracked {
		if b.IsCompatible(c.host) {
			b.OnDetachedFrom(c.host)
		}
		b.SetDataContext(nil)
	}
	c.tracked = nil
}

// enter marks the start of a reconciliation. Mutating the same controller
// from an Attached or Detached hook is not supported.
func (c *Controller) enter(op string) {
	if c.reconciling != "" {
		errors.Violate(op, "re-entrant change while %s is in progress", c.reconciling)
	}
	c.reconciling = op
}

func (c *Controller) leave() {
	c.reconciling = ""
}
