package tree

// Tree is an append-only arena of nodes. A node's identity is its index,
// which stays valid until the tree is rebuilt from a new document.
type Tree struct {
	nodes []Node
	root  int
}

// New creates an empty tree.
func New() *Tree {
	return &Tree{}
}

// Add appends a node and returns its index.
func (t *Tree) Add(n Node) int {
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}

// SetRoot marks index as the document root.
func (t *Tree) SetRoot(index int) {
	t.root = index
}

// Root returns the root index. It is only meaningful when Len() > 0.
func (t *Tree) Root() int {
	return t.root
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Get returns the node at index. Out-of-range indices report false.
// The returned Children slice is shared with the tree and must not be modified.
func (t *Tree) Get(index int) (Node, bool) {
	if index < 0 || index >= len(t.nodes) {
		return Node{}, false
	}
	return t.nodes[index], true
}

// RootNode returns the root node, or false for an empty tree.
func (t *Tree) RootNode() (Node, bool) {
	return t.Get(t.root)
}

// ToggleExpanded flips the expanded flag of a container. Scalars and
// out-of-range indices are ignored.
func (t *Tree) ToggleExpanded(index int) {
	if n := t.container(index); n != nil {
		n.Expanded = !n.Expanded
	}
}

// SetExpanded sets the expanded flag of a container. Scalars and
// out-of-range indices are ignored.
func (t *Tree) SetExpanded(index int, expanded bool) {
	if n := t.container(index); n != nil {
		n.Expanded = expanded
	}
}

// IsExpanded reports whether index is an expanded container.
func (t *Tree) IsExpanded(index int) bool {
	n := t.container(index)
	return n != nil && n.Expanded
}

// ExpandSubtree expands index and every container below it.
func (t *Tree) ExpandSubtree(index int) {
	t.setSubtree(index, true)
}

// CollapseSubtree collapses index and every container below it.
func (t *Tree) CollapseSubtree(index int) {
	t.setSubtree(index, false)
}

func (t *Tree) setSubtree(index int, expanded bool) {
	if index < 0 || index >= len(t.nodes) {
		return
	}
	stack := []int{index}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if i < 0 || i >= len(t.nodes) {
			continue
		}
		n := &t.nodes[i]
		if !n.IsContainer() {
			continue
		}
		n.Expanded = expanded
		stack = append(stack, n.Children...)
	}
}

func (t *Tree) container(index int) *Node {
	if index < 0 || index >= len(t.nodes) {
		return nil
	}
	n := &t.nodes[index]
	if !n.IsContainer() {
		return nil
	}
	return n
}

// PathTo returns the indices from the root down to target, inclusive.
// It returns nil when target is out of range or not reachable from the root.
//
// The search walks down from the root and only enters children shallower
// than the target, so the cost is bounded by the size of the tree.
func (t *Tree) PathTo(target int) []int {
	goal, ok := t.Get(target)
	if !ok {
		return nil
	}
	root, ok := t.Get(t.root)
	if !ok || root.Depth > goal.Depth {
		return nil
	}

	type frame struct {
		index int
		next  int // next child position to visit
	}
	stack := []frame{{index: t.root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.index == target {
			path := make([]int, len(stack))
			for i, f := range stack {
				path[i] = f.index
			}
			return path
		}

		n := t.nodes[top.index]
		if n.Depth >= goal.Depth || top.next >= len(n.Children) {
			stack = stack[:len(stack)-1]
			continue
		}

		child := n.Children[top.next]
		top.next++
		if child < 0 || child >= len(t.nodes) {
			continue
		}
		stack = append(stack, frame{index: child})
	}
	return nil
}

// Walk visits nodes reachable from the root in document pre-order. Returning
// false from fn stops the walk.
func (t *Tree) Walk(fn func(index int, n Node) bool) {
	if _, ok := t.Get(t.root); !ok {
		return
	}
	stack := []int{t.root}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.nodes[i]
		if !fn(i, n) {
			return
		}
		for c := len(n.Children) - 1; c >= 0; c-- {
			if child := n.Children[c]; child >= 0 && child < len(t.nodes) {
				stack = append(stack, child)
			}
		}
	}
}
