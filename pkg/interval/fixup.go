package interval

// rotate performs a rotation at node n. When left is true, rotates left;
// otherwise rotates right. The max augmentation is recomputed for the demoted
// node first and the promoted pivot second: the pivot's subtree is unchanged
// as a set, so its max derives from n's fresh value.
func (t *Tree[K, V]) rotate(n *Node[K, V], left bool) {
	var pivot *Node[K, V]

	if left {
		pivot = n.right
		n.right = pivot.left

		if pivot.left != nil {
			pivot.left.parent = n
		}

		pivot.left = n
	} else {
		pivot = n.left
		n.left = pivot.right

		if pivot.right != nil {
			pivot.right.parent = n
		}

		pivot.right = n
	}

	pivot.parent = n.parent

	switch {
	case n.parent == nil:
		t.root = pivot
	case n == n.parent.left:
		n.parent.left = pivot
	default:
		n.parent.right = pivot
	}

	n.parent = pivot

	recalcMax(n)
	recalcMax(pivot)
}

// insertFixup restores the red-black properties after insertion.
func (t *Tree[K, V]) insertFixup(n *Node[K, V]) {
	for n != t.root && nodeColor(n.parent) == red {
		parent := n.parent

		grandparent := parent.parent
		if grandparent == nil {
			break
		}

		isLeft := parent == grandparent.left
		n = t.insertFixupCase(n, parent, grandparent, isLeft)
	}

	t.root.color = black
}

// insertFixupCase handles one side of the insert fixup.
// When leftCase is true, parent is grandparent.left; otherwise parent is
// grandparent.right.
func (t *Tree[K, V]) insertFixupCase(n, parent, grandparent *Node[K, V], leftCase bool) *Node[K, V] {
	uncle := childOf(grandparent, !leftCase)

	// Red uncle: recolor and push the violation up to the grandparent.
	if nodeColor(uncle) == red {
		parent.color = black
		uncle.color = black
		grandparent.color = red

		return grandparent
	}

	// Inner child: rotate at the parent first to make n an outer child.
	if n == childOf(parent, !leftCase) {
		t.rotate(parent, leftCase)
		n, parent = parent, n
	}

	parent.color = black
	grandparent.color = red
	t.rotate(grandparent, !leftCase)

	return n
}

// deleteFixup restores the red-black properties after removing a black node.
// x is the node that took the removed node's structural place and carries an
// extra black unit; it may be nil (the absent leaf), in which case parent is
// its position's parent. Absent children count as black throughout.
func (t *Tree[K, V]) deleteFixup(x, parent *Node[K, V]) {
	for x != t.root && nodeColor(x) == black {
		if parent == nil {
			break
		}

		isLeft := x == parent.left

		var done bool

		x, parent, done = t.deleteFixupCase(x, parent, isLeft)
		if done {
			break
		}
	}

	setBlack(x)
}

// deleteFixupCase runs one iteration of the delete fixup state machine for
// the side selected by isLeft. It returns the next (x, parent) pair, or
// done=true when the extra black has been absorbed.
func (t *Tree[K, V]) deleteFixupCase(x, parent *Node[K, V], isLeft bool) (*Node[K, V], *Node[K, V], bool) {
	sibling := childOf(parent, !isLeft)
	if sibling == nil {
		return parent, parent.parent, false
	}

	// Red sibling: rotate toward x's side so the new sibling is black.
	if nodeColor(sibling) == red {
		sibling.color = black
		parent.color = red
		t.rotate(parent, isLeft)

		sibling = childOf(parent, !isLeft)
		if sibling == nil {
			return parent, parent.parent, false
		}
	}

	inner := childOf(sibling, isLeft)
	outer := childOf(sibling, !isLeft)

	// Both nephews black: recolor the sibling and move the deficit up.
	if nodeColor(inner) == black && nodeColor(outer) == black {
		sibling.color = red

		return parent, parent.parent, false
	}

	// Far nephew black, near nephew red: rotate at the sibling away from
	// x's side so the far nephew becomes red.
	if nodeColor(outer) == black {
		setBlack(inner)
		sibling.color = red
		t.rotate(sibling, !isLeft)

		sibling = childOf(parent, !isLeft)
		outer = childOf(sibling, !isLeft)
	}

	// Far nephew red: final rotation at the parent absorbs the extra black.
	if sibling != nil {
		sibling.color = parent.color
	}

	parent.color = black
	setBlack(outer)
	t.rotate(parent, isLeft)

	return t.root, nil, true
}
