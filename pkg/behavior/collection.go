package behavior

import (
	"slices"

	"github.com/go-drift/behaviors/pkg/errors"
)

// Action identifies the kind of mutation a Collection went through.
type Action int

const (
	// ActionAdd indicates items were inserted.
	ActionAdd Action = iota
	// ActionRemove indicates items were removed.
	ActionRemove
	// ActionReplace indicates an item was replaced in place.
	ActionReplace
	// ActionMove indicates an item changed position.
	ActionMove
	// ActionReset indicates the whole contents changed.
	ActionReset
)

func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionRemove:
		return "remove"
	case ActionReplace:
		return "replace"
	case ActionMove:
		return "move"
	case ActionReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Change describes one Collection mutation.
type Change struct {
	Action Action
	// NewItems holds the inserted or replacing items, and for a reset the
	// new contents.
	NewItems []Behavior
	// OldItems holds the removed or replaced items, and for a reset the
	// previous contents.
	OldItems []Behavior
	// NewIndex is the position of NewItems, or -1.
	NewIndex int
	// OldIndex is the position of OldItems, or -1.
	OldIndex int
}

type changeListener struct {
	id int
	fn func(Change)
}

// Collection is an observable ordered list of behaviors. Membership is by
// identity and an item can appear at most once.
type Collection struct {
	items          []Behavior
	listeners      []changeListener
	nextListenerID int
}

// NewCollection creates a collection holding items, in order.
func NewCollection(items ...Behavior) *Collection {
	c := &Collection{}
	c.validate("behavior.NewCollection", items)
	c.items = slices.Clone(items)
	return c
}

// Len returns the number of items.
func (c *Collection) Len() int {
	return len(c.items)
}

// At returns the item at index i.
func (c *Collection) At(i int) Behavior {
	return c.items[i]
}

// Items returns a copy of the items in order.
func (c *Collection) Items() []Behavior {
	return slices.Clone(c.items)
}

// IndexOf returns the position of b, or -1.
func (c *Collection) IndexOf(b Behavior) int {
	for i, item := range c.items {
		if item == b {
			return i
		}
	}
	return -1
}

// Contains reports whether b is in the collection.
func (c *Collection) Contains(b Behavior) bool {
	return c.IndexOf(b) >= 0
}

// Add appends b.
func (c *Collection) Add(b Behavior) {
	c.Insert(len(c.items), b)
}

// Insert places b at index i.
func (c *Collection) Insert(i int, b Behavior) {
	const op = "behavior.Collection.Insert"
	c.checkIndex(op, i, len(c.items))
	c.checkItem(op, b, -1)
	c.items = slices.Insert(c.items, i, b)
	c.notify(Change{Action: ActionAdd, NewItems: []Behavior{b}, NewIndex: i, OldIndex: -1})
}

// Remove removes b and reports whether it was present.
func (c *Collection) Remove(b Behavior) bool {
	i := c.IndexOf(b)
	if i < 0 {
		return false
	}
	c.RemoveAt(i)
	return true
}

// RemoveAt removes the item at index i.
func (c *Collection) RemoveAt(i int) {
	c.checkIndex("behavior.Collection.RemoveAt", i, len(c.items)-1)
	old := c.items[i]
	c.items = slices.Delete(c.items, i, i+1)
	c.notify(Change{Action: ActionRemove, OldItems: []Behavior{old}, NewIndex: -1, OldIndex: i})
}

// Replace swaps the item at index i for b.
func (c *Collection) Replace(i int, b Behavior) {
	const op = "behavior.Collection.Replace"
	c.checkIndex(op, i, len(c.items)-1)
	c.checkItem(op, b, i)
	old := c.items[i]
	c.items[i] = b
	c.notify(Change{
		Action:   ActionReplace,
		NewItems: []Behavior{b},
		OldItems: []Behavior{old},
		NewIndex: i,
		OldIndex: i,
	})
}

// Move relocates the item at index from to index to.
func (c *Collection) Move(from, to int) {
	const op = "behavior.Collection.Move"
	c.checkIndex(op, from, len(c.items)-1)
	c.checkIndex(op, to, len(c.items)-1)
	if from == to {
		return
	}
	item := c.items[from]
	c.items = slices.Delete(c.items, from, from+1)
	c.items = slices.Insert(c.items, to, item)
	c.notify(Change{
		Action:   ActionMove,
		NewItems: []Behavior{item},
		OldItems: []Behavior{item},
		NewIndex: to,
		OldIndex: from,
	})
}

// Reset replaces the whole contents with items.
func (c *Collection) Reset(items ...Behavior) {
	c.validate("behavior.Collection.Reset", items)
	old := c.items
	c.items = slices.Clone(items)
	c.notify(Change{
		Action:   ActionReset,
		NewItems: slices.Clone(items),
		OldItems: old,
		NewIndex: -1,
		OldIndex: -1,
	})
}

// Clear removes every item.
func (c *Collection) Clear() {
	c.Reset()
}

// AddChangeListener registers fn to run after each mutation.
// Returns a function that removes the listener.
func (c *Collection) AddChangeListener(fn func(Change)) func() {
	id := c.nextListenerID
	c.nextListenerID++
	c.listeners = append(c.listeners, changeListener{id: id, fn: fn})
	return func() {
		c.listeners = slices.DeleteFunc(c.listeners, func(l changeListener) bool {
			return l.id == id
		})
	}
}

// ListenerCount returns the number of registered change listeners.
func (c *Collection) ListenerCount() int {
	return len(c.listeners)
}

func (c *Collection) notify(change Change) {
	for _, l := range slices.Clone(c.listeners) {
		l.fn(change)
	}
}

func (c *Collection) checkIndex(op string, i, last int) {
	if i < 0 || i > last {
		errors.Violate(op, "index %d out of range [0, %d]", i, last)
	}
}

// checkItem rejects nil items and items already present at a position other
// than skip.
func (c *Collection) checkItem(op string, b Behavior, skip int) {
	if b == nil {
		errors.Violate(op, "nil behavior")
	}
	if i := c.IndexOf(b); i >= 0 && i != skip {
		errors.Violate(op, "behavior %T already present at index %d", b, i)
	}
}

func (c *Collection) validate(op string, items []Behavior) {
	seen := make(map[Behavior]struct{}, len(items))
	for _, b := range items {
		if b == nil {
			errors.Violate(op, "nil behavior")
		}
		if _, dup := seen[b]; dup {
			errors.Violate(op, "behavior %T listed twice", b)
		}
		seen[b] = struct{}{}
	}
}
