// Package bst provides a plain (unbalanced) binary search tree. It is the
// simple sibling of the red-black interval tree in pkg/interval: no
// rebalancing, no augmentation, key-addressed operations only. Useful when
// input is known to arrive in random order or when tree shape does not
// matter.
package bst

import "cmp"

// node is an internal tree node with a non-owning parent back-reference.
type node[K cmp.Ordered, V any] struct {
	key         K
	value       V
	left, right *node[K, V]
	parent      *node[K, V]
}

// Tree is a plain binary search tree. The zero value is not usable; call
// New. Not safe for concurrent use.
type Tree[K cmp.Ordered, V any] struct {
	root *node[K, V]
	size int
}

// New creates an empty tree.
func New[K cmp.Ordered, V any]() *Tree[K, V] {
	return &Tree[K, V]{}
}

// Len returns the number of nodes in the tree.
func (t *Tree[K, V]) Len() int {
	return t.size
}

// Add inserts a key/value pair. Duplicate keys are allowed; ties descend
// right.
func (t *Tree[K, V]) Add(key K, value V) {
	n := &node[K, V]{key: key, value: value}

	var parent *node[K, V]

	current := t.root
	for current != nil {
		parent = current

		if key < current.key {
			current = current.left
		} else {
			current = current.right
		}
	}

	n.parent = parent

	switch {
	case parent == nil:
		t.root = n
	case key < parent.key:
		parent.left = n
	default:
		parent.right = n
	}

	t.size++
}

// Get returns the value stored under the first node matching key.
func (t *Tree[K, V]) Get(key K) (V, bool) {
	n := t.find(key)
	if n == nil {
		var zero V

		return zero, false
	}

	return n.value, true
}

// Remove deletes one node matching key. Returns true when a node was found
// and removed.
func (t *Tree[K, V]) Remove(key K) bool {
	z := t.find(key)
	if z == nil {
		return false
	}

	switch {
	case z.left == nil:
		t.transplant(z, z.right)
	case z.right == nil:
		t.transplant(z, z.left)
	default:
		y := z.right
		for y.left != nil {
			y = y.left
		}

		if y.parent != z {
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}

		t.transplant(z, y)
		y.left = z.left
		y.left.parent = y
	}

	t.size--

	return true
}

// InOrder visits every key/value pair in ascending key order.
func (t *Tree[K, V]) InOrder(visit func(key K, value V) bool) {
	inorder(t.root, visit)
}

// IsBST reports whether the in-order key sequence is non-decreasing. Always
// true unless the tree has been corrupted; exposed for integrity checks.
func (t *Tree[K, V]) IsBST() bool {
	ok := true
	first := true

	var prev K

	t.InOrder(func(key K, _ V) bool {
		if !first && key < prev {
			ok = false

			return false
		}

		prev = key
		first = false

		return true
	})

	return ok
}

// find locates the first node matching key.
func (t *Tree[K, V]) find(key K) *node[K, V] {
	current := t.root

	for current != nil && key != current.key {
		if key < current.key {
			current = current.left
		} else {
			current = current.right
		}
	}

	return current
}

// transplant replaces the subtree rooted at u with the subtree rooted at v.
func (t *Tree[K, V]) transplant(u, v *node[K, V]) {
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

// inorder recursively visits the subtree; returns false on early stop.
func inorder[K cmp.Ordered, V any](n *node[K, V], visit func(key K, value V) bool) bool {
	if n == nil {
		return true
	}

	if !inorder(n.left, visit) {
		return false
	}

	if !visit(n.key, n.value) {
		return false
	}

	return inorder(n.right, visit)
}
