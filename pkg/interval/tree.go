package interval

import "cmp"

// Tree is an augmented red-black interval tree. The zero value is not usable;
// call New. A Tree must not be mutated concurrently, and visitors must not
// mutate the tree they are called from.
type Tree[K cmp.Ordered, V any] struct {
	root *Node[K, V]
	size int
}

// New creates an empty interval tree.
func New[K cmp.Ordered, V any]() *Tree[K, V] {
	return &Tree[K, V]{}
}

// Len returns the number of intervals in the tree.
func (t *Tree[K, V]) Len() int {
	return t.size
}

// Clear removes all intervals from the tree. Outstanding handles become
// invalid.
func (t *Tree[K, V]) Clear() {
	t.root = nil
	t.size = 0
}

// Insert adds an interval [low, high] with the given value and returns the
// handle of the new node. Duplicate keys are allowed; ties descend right.
func (t *Tree[K, V]) Insert(low, high K, value V) *Node[K, V] {
	n := &Node[K, V]{
		interval: Interval[K, V]{Low: low, High: high, Value: value},
		max:      high,
		color:    red,
	}

	t.bstInsert(n)
	t.insertFixup(n)
	t.size++

	return n
}

// bstInsert links n as a leaf, raising max on every visited ancestor.
func (t *Tree[K, V]) bstInsert(n *Node[K, V]) {
	if t.root == nil {
		t.root = n

		return
	}

	current := t.root

	for {
		updateMax(current, n.interval.High)

		if n.interval.Low < current.interval.Low {
			if current.left == nil {
				current.left = n
				n.parent = current

				return
			}

			current = current.left
		} else {
			if current.right == nil {
				current.right = n
				n.parent = current

				return
			}

			current = current.right
		}
	}
}

// Remove deletes exactly the node behind the given handle. Passing nil is a
// no-op. The handle is invalid afterwards.
//
// The node is spliced out structurally (CLRS deletion): when it has two
// children, the in-order successor takes its place via transplant and
// inherits its color, so every other outstanding handle stays valid.
func (t *Tree[K, V]) Remove(z *Node[K, V]) {
	if z == nil {
		return
	}

	y := z
	yColor := y.color

	var x, xParent *Node[K, V]

	switch {
	case z.left == nil:
		x = z.right
		xParent = z.parent

		t.transplant(z, z.right)
	case z.right == nil:
		x = z.left
		xParent = z.parent

		t.transplant(z, z.left)
	default:
		y = minimum(z.right)
		yColor = y.color
		x = y.right

		if y.parent == z {
			xParent = y
		} else {
			xParent = y.parent

			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}

		t.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}

	// The spliced-out interval no longer contributes to any ancestor's max.
	t.propagateMax(xParent)

	if yColor == black {
		t.deleteFixup(x, xParent)
	}

	t.size--

	z.left = nil
	z.right = nil
	z.parent = nil
}

// transplant replaces the subtree rooted at u with the subtree rooted at v.
func (t *Tree[K, V]) transplant(u, v *Node[K, V]) {
	switch {
	case u.parent == nil:
		t.root = v
	case u == u.parent.left:
		u.parent.left = v
	default:
		u.parent.right = v
	}

	if v != nil {
		v.parent = u.parent
	}
}

// propagateMax recalculates max from the given node up to the root.
func (t *Tree[K, V]) propagateMax(n *Node[K, V]) {
	for n != nil {
		recalcMax(n)
		n = n.parent
	}
}

// SearchOverlap returns the handle of some node whose interval overlaps
// [low, high], or nil when none does. When several intervals overlap the
// query, which one is returned is unspecified.
func (t *Tree[K, V]) SearchOverlap(low, high K) *Node[K, V] {
	n := t.root

	for n != nil && !n.interval.OverlapRange(low, high) {
		if n.left != nil && n.left.max >= low {
			n = n.left
		} else {
			n = n.right
		}
	}

	return n
}

// WalkOverlap visits every node whose interval overlaps [low, high], in
// ascending key order. The visitor returns false to stop early. Subtrees
// whose max falls below low are pruned, so the cost is proportional to the
// match count plus the tree height.
func (t *Tree[K, V]) WalkOverlap(low, high K, visit func(n *Node[K, V]) bool) {
	walkOverlap(t.root, low, high, visit)
}

// walkOverlap recursively visits overlapping nodes; returns false on early stop.
func walkOverlap[K cmp.Ordered, V any](n *Node[K, V], low, high K, visit func(n *Node[K, V]) bool) bool {
	if n == nil || n.max < low {
		return true
	}

	if !walkOverlap(n.left, low, high, visit) {
		return false
	}

	if n.interval.OverlapRange(low, high) && !visit(n) {
		return false
	}

	// No node to the right can start at or before high.
	if n.interval.Low > high {
		return true
	}

	return walkOverlap(n.right, low, high, visit)
}

// InOrder visits every interval in ascending key order. The visitor returns
// false to stop early.
func (t *Tree[K, V]) InOrder(visit func(iv Interval[K, V]) bool) {
	inorder(t.root, visit)
}

// inorder recursively visits the subtree; returns false on early stop.
func inorder[K cmp.Ordered, V any](n *Node[K, V], visit func(iv Interval[K, V]) bool) bool {
	if n == nil {
		return true
	}

	if !inorder(n.left, visit) {
		return false
	}

	if !visit(n.interval) {
		return false
	}

	return inorder(n.right, visit)
}
