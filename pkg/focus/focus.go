// Package focus provides focus management and the focus-tracking behaviors.
package focus

// FocusNode represents a focusable element in the tree.
type FocusNode struct {
	CanRequestFocus bool
	SkipTraversal   bool
	DebugLabel      string

	// OnFocusChange is called whenever the node gains or loses primary focus.
	OnFocusChange func(hasFocus bool)

	manager  *FocusManager
	hasFocus bool
}

// canReceiveFocus reports whether the node can receive focus.
func (n *FocusNode) canReceiveFocus() bool {
	return n != nil && n.manager != nil && n.CanRequestFocus
}

// HasFocus reports whether this node has primary focus.
func (n *FocusNode) HasFocus() bool {
	return n.hasFocus
}

// RequestFocus requests that this node receive primary focus and reports
// whether it holds focus afterwards.
func (n *FocusNode) RequestFocus() bool {
	if !n.canReceiveFocus() {
		return false
	}
	n.manager.setPrimaryFocus(n)
	return n.hasFocus
}

// Unfocus removes focus from this node if it has primary focus.
func (n *FocusNode) Unfocus() {
	if n.manager != nil && n.manager.PrimaryFocus == n {
		n.manager.setPrimaryFocus(nil)
	}
}

// NextFocus moves focus to the next focusable node.
func (n *FocusNode) NextFocus() bool {
	if n.manager == nil {
		return false
	}
	return n.manager.MoveFocus(1)
}

// PreviousFocus moves focus to the previous focusable node.
func (n *FocusNode) PreviousFocus() bool {
	if n.manager == nil {
		return false
	}
	return n.manager.MoveFocus(-1)
}

// FocusScopeNode groups focus nodes in traversal order.
type FocusScopeNode struct {
	FocusedChild *FocusNode
	Children     []*FocusNode
}

// FocusManager manages the focus state of one element tree.
type FocusManager struct {
	RootScope    *FocusScopeNode
	PrimaryFocus *FocusNode
}

// NewFocusManager creates a manager with an empty root scope.
func NewFocusManager() *FocusManager {
	return &FocusManager{RootScope: &FocusScopeNode{}}
}

// Register appends node to the traversal order.
func (m *FocusManager) Register(node *FocusNode) {
	if node == nil || node.manager == m {
		return
	}
	node.manager = m
	m.RootScope.Children = append(m.RootScope.Children, node)
}

// Unregister removes node from the traversal order, clearing its focus.
func (m *FocusManager) Unregister(node *FocusNode) {
	if node == nil || node.manager != m {
		return
	}
	if m.PrimaryFocus == node {
		m.setPrimaryFocus(nil)
	}
	scope := m.RootScope
	for i, child := range scope.Children {
		if child == node {
			scope.Children = append(scope.Children[:i], scope.Children[i+1:]...)
			break
		}
	}
	if scope.FocusedChild == node {
		scope.FocusedChild = nil
	}
	node.manager = nil
}

// MoveFocus moves focus by delta positions within the root scope.
func (m *FocusManager) MoveFocus(delta int) bool {
	scope := m.RootScope
	if scope == nil || len(scope.Children) == 0 {
		return false
	}

	currentIndex := m.findCurrentFocusIndex(scope)
	count := len(scope.Children)

	for step := 1; step <= count; step++ {
		nextIndex := wrapIndex(currentIndex+delta*step, count)
		candidate := scope.Children[nextIndex]
		if candidate.canReceiveFocus() && !candidate.SkipTraversal {
			m.setPrimaryFocus(candidate)
			return true
		}
	}
	return false
}

// findCurrentFocusIndex returns the index of the currently focused node, or -1 if none.
func (m *FocusManager) findCurrentFocusIndex(scope *FocusScopeNode) int {
	for i, child := range scope.Children {
		if child == m.PrimaryFocus {
			return i
		}
	}
	return -1
}

// wrapIndex wraps an index to stay within [0, count).
func wrapIndex(index, count int) int {
	index = index % count
	if index < 0 {
		index += count
	}
	return index
}

// setPrimaryFocus updates the primary focus to the given node. The old
// node is notified before the new one.
func (m *FocusManager) setPrimaryFocus(node *FocusNode) {
	if m.PrimaryFocus == node {
		return
	}
	old := m.PrimaryFocus
	m.PrimaryFocus = node
	m.RootScope.FocusedChild = node
	if old != nil {
		old.setFocusState(false)
	}
	if node != nil {
		node.setFocusState(true)
	}
}

// setFocusState updates the focus flag and notifies the callback.
func (n *FocusNode) setFocusState(hasFocus bool) {
	n.hasFocus = hasFocus
	if n.OnFocusChange != nil {
		n.OnFocusChange(hasFocus)
	}
}
