package rbtree

// Colors for the balancing. An absent node (index 0) reads as black.
const (
	red   = false
	black = true
)

// IntervalTree is an augmented red-black tree over closed uint32 intervals.
// Nodes live in an external Allocator and are addressed by uint32 handles,
// so trees are cheap to clone and can be hibernated together.
type IntervalTree struct {
	allocator *Allocator
	root      uint32
	count     int
}

// NewIntervalTree creates a new interval tree bound to the specified allocator.
func NewIntervalTree(allocator *Allocator) *IntervalTree {
	return &IntervalTree{
		allocator: allocator,
		root:      0,
		count:     0,
	}
}

// Allocator returns the bound nodes allocator.
func (tree *IntervalTree) Allocator() *Allocator {
	return tree.allocator
}

// Len returns the number of intervals in the tree.
func (tree *IntervalTree) Len() int {
	return tree.count
}

// Item returns the interval stored at the given handle.
func (tree *IntervalTree) Item(nodeIdx uint32) Item {
	return tree.storage()[nodeIdx].item
}

// CloneShallow copies the tree without copying the allocator contents. Both
// trees must stay bound to the same allocator.
func (tree *IntervalTree) CloneShallow(allocator *Allocator) *IntervalTree {
	return &IntervalTree{
		allocator: allocator,
		root:      tree.root,
		count:     tree.count,
	}
}

// CloneDeep copies the tree and all of its nodes into the given allocator.
func (tree *IntervalTree) CloneDeep(allocator *Allocator) *IntervalTree {
	clone := &IntervalTree{
		allocator: allocator,
		root:      0,
		count:     tree.count,
	}
	if tree.root != 0 {
		clone.root = tree.cloneSubtree(tree.root, 0, allocator)
	}

	return clone
}

func (tree *IntervalTree) cloneSubtree(nodeIdx, parentIdx uint32, allocator *Allocator) uint32 {
	cloneIdx := allocator.malloc()
	src := tree.storage()[nodeIdx]
	dst := &allocator.storage[cloneIdx]
	dst.item = src.item
	dst.max = src.max
	dst.color = src.color
	dst.parent = parentIdx

	if src.left != 0 {
		allocator.storage[cloneIdx].left = tree.cloneSubtree(src.left, cloneIdx, allocator)
	}

	if src.right != 0 {
		allocator.storage[cloneIdx].right = tree.cloneSubtree(src.right, cloneIdx, allocator)
	}

	return cloneIdx
}

// Erase removes all the intervals, returning their nodes to the allocator.
func (tree *IntervalTree) Erase() {
	tree.eraseSubtree(tree.root)
	tree.root = 0
	tree.count = 0
}

func (tree *IntervalTree) eraseSubtree(nodeIdx uint32) {
	if nodeIdx == 0 {
		return
	}

	nd := tree.storage()[nodeIdx]
	tree.eraseSubtree(nd.left)
	tree.eraseSubtree(nd.right)
	tree.allocator.free(nodeIdx)
}

// Insert adds the closed interval [low, high] carrying value and returns the
// handle of the new node. Equal lows are allowed.
func (tree *IntervalTree) Insert(low, high, value uint32) uint32 {
	nodeIdx := tree.allocator.malloc()
	alloc := tree.storage()
	alloc[nodeIdx].item = Item{Low: low, High: high, Value: value}
	alloc[nodeIdx].max = high
	alloc[nodeIdx].color = red

	tree.bstInsert(nodeIdx)
	tree.insertFixup(nodeIdx)
	tree.count++

	return nodeIdx
}

func (tree *IntervalTree) bstInsert(nodeIdx uint32) {
	alloc := tree.storage()
	low := alloc[nodeIdx].item.Low
	high := alloc[nodeIdx].item.High

	var parentIdx uint32

	currentIdx := tree.root
	for currentIdx != 0 {
		parentIdx = currentIdx

		if alloc[currentIdx].max < high {
			alloc[currentIdx].max = high
		}

		if low < alloc[currentIdx].item.Low {
			currentIdx = alloc[currentIdx].left
		} else {
			currentIdx = alloc[currentIdx].right
		}
	}

	alloc[nodeIdx].parent = parentIdx

	if parentIdx == 0 {
		tree.root = nodeIdx
	} else if low < alloc[parentIdx].item.Low {
		alloc[parentIdx].left = nodeIdx
	} else {
		alloc[parentIdx].right = nodeIdx
	}
}

// Remove detaches the node at the given handle and returns its slot to the
// allocator. Other handles stay valid.
func (tree *IntervalTree) Remove(nodeIdx uint32) {
	if nodeIdx == 0 {
		return
	}

	alloc := tree.storage()

	spliceIdx := nodeIdx
	spliceColor := alloc[spliceIdx].color

	var fixIdx, fixParentIdx uint32

	switch {
	case alloc[nodeIdx].left == 0:
		fixIdx = alloc[nodeIdx].right
		fixParentIdx = alloc[nodeIdx].parent
		tree.transplant(nodeIdx, fixIdx)
	case alloc[nodeIdx].right == 0:
		fixIdx = alloc[nodeIdx].left
		fixParentIdx = alloc[nodeIdx].parent
		tree.transplant(nodeIdx, fixIdx)
	default:
		spliceIdx = tree.minimum(alloc[nodeIdx].right)
		spliceColor = alloc[spliceIdx].color
		fixIdx = alloc[spliceIdx].right

		if alloc[spliceIdx].parent == nodeIdx {
			fixParentIdx = spliceIdx
		} else {
			fixParentIdx = alloc[spliceIdx].parent
			tree.transplant(spliceIdx, fixIdx)
			alloc[spliceIdx].right = alloc[nodeIdx].right
			alloc[alloc[spliceIdx].right].parent = spliceIdx
		}

		tree.transplant(nodeIdx, spliceIdx)
		alloc[spliceIdx].left = alloc[nodeIdx].left
		alloc[alloc[spliceIdx].left].parent = spliceIdx
		alloc[spliceIdx].color = alloc[nodeIdx].color
	}

	tree.propagateMax(fixParentIdx)

	if spliceColor == black {
		tree.deleteFixup(fixIdx, fixParentIdx)
	}

	tree.count--
	tree.allocator.free(nodeIdx)
}

// SearchOverlap returns the handle of some interval overlapping [low, high],
// or zero when nothing overlaps. Endpoints touching count as overlap.
func (tree *IntervalTree) SearchOverlap(low, high uint32) uint32 {
	alloc := tree.storage()
	nodeIdx := tree.root

	for nodeIdx != 0 {
		item := alloc[nodeIdx].item
		if item.Low <= high && low <= item.High {
			return nodeIdx
		}

		leftIdx := alloc[nodeIdx].left
		if leftIdx != 0 && alloc[leftIdx].max >= low {
			nodeIdx = leftIdx
		} else {
			nodeIdx = alloc[nodeIdx].right
		}
	}

	return 0
}

// WalkOverlap calls visit for every interval overlapping [low, high] in
// ascending order of Low. The walk stops early when visit returns false.
func (tree *IntervalTree) WalkOverlap(low, high uint32, visit func(nodeIdx uint32, item Item) bool) {
	tree.walkOverlap(tree.root, low, high, visit)
}

func (tree *IntervalTree) walkOverlap(
	nodeIdx, low, high uint32, visit func(nodeIdx uint32, item Item) bool,
) bool {
	alloc := tree.storage()
	if nodeIdx == 0 || alloc[nodeIdx].max < low {
		return true
	}

	if !tree.walkOverlap(alloc[nodeIdx].left, low, high, visit) {
		return false
	}

	item := alloc[nodeIdx].item
	if item.Low <= high && low <= item.High {
		if !visit(nodeIdx, item) {
			return false
		}
	}

	if item.Low > high {
		// Everything to the right starts even further away.
		return true
	}

	return tree.walkOverlap(alloc[nodeIdx].right, low, high, visit)
}

// InOrder calls visit for every interval in ascending order of Low. The walk
// stops early when visit returns false.
func (tree *IntervalTree) InOrder(visit func(nodeIdx uint32, item Item) bool) {
	tree.inorder(tree.root, visit)
}

func (tree *IntervalTree) inorder(nodeIdx uint32, visit func(nodeIdx uint32, item Item) bool) bool {
	if nodeIdx == 0 {
		return true
	}

	alloc := tree.storage()

	if !tree.inorder(alloc[nodeIdx].left, visit) {
		return false
	}

	if !visit(nodeIdx, alloc[nodeIdx].item) {
		return false
	}

	return tree.inorder(alloc[nodeIdx].right, visit)
}

func (tree *IntervalTree) storage() []node {
	return tree.allocator.storage
}

func (tree *IntervalTree) minimum(nodeIdx uint32) uint32 {
	alloc := tree.storage()
	for alloc[nodeIdx].left != 0 {
		nodeIdx = alloc[nodeIdx].left
	}

	return nodeIdx
}

// transplant replaces the subtree rooted at u with the subtree rooted at v.
func (tree *IntervalTree) transplant(u, v uint32) {
	alloc := tree.storage()
	parentIdx := alloc[u].parent

	switch {
	case parentIdx == 0:
		tree.root = v
	case u == alloc[parentIdx].left:
		alloc[parentIdx].left = v
	default:
		alloc[parentIdx].right = v
	}

	if v != 0 {
		alloc[v].parent = parentIdx
	}
}

// recalcMax rederives the max of a node from its own High and its children.
func (tree *IntervalTree) recalcMax(nodeIdx uint32) {
	alloc := tree.storage()
	maxHigh := alloc[nodeIdx].item.High

	if leftIdx := alloc[nodeIdx].left; leftIdx != 0 && alloc[leftIdx].max > maxHigh {
		maxHigh = alloc[leftIdx].max
	}

	if rightIdx := alloc[nodeIdx].right; rightIdx != 0 && alloc[rightIdx].max > maxHigh {
		maxHigh = alloc[rightIdx].max
	}

	alloc[nodeIdx].max = maxHigh
}

// propagateMax recomputes max bottom-up from nodeIdx to the root.
func (tree *IntervalTree) propagateMax(nodeIdx uint32) {
	alloc := tree.storage()
	for nodeIdx != 0 {
		tree.recalcMax(nodeIdx)

		nodeIdx = alloc[nodeIdx].parent
	}
}

func (tree *IntervalTree) getColor(nodeIdx uint32) bool {
	if nodeIdx == 0 {
		return black
	}

	return tree.storage()[nodeIdx].color
}

func (tree *IntervalTree) setBlack(nodeIdx uint32) {
	if nodeIdx != 0 {
		tree.storage()[nodeIdx].color = black
	}
}

func (tree *IntervalTree) childOf(nodeIdx uint32, leftSide bool) uint32 {
	if leftSide {
		return tree.storage()[nodeIdx].left
	}

	return tree.storage()[nodeIdx].right
}

// rotate turns the subtree rooted at nodeIdx around its right (leftRotate)
// or left (!leftRotate) child. The demoted node's max is recomputed first,
// then the promoted pivot's, so both stay exact.
func (tree *IntervalTree) rotate(nodeIdx uint32, leftRotate bool) {
	alloc := tree.storage()

	var pivotIdx uint32
	if leftRotate {
		pivotIdx = alloc[nodeIdx].right
		alloc[nodeIdx].right = alloc[pivotIdx].left

		if alloc[pivotIdx].left != 0 {
			alloc[alloc[pivotIdx].left].parent = nodeIdx
		}
	} else {
		pivotIdx = alloc[nodeIdx].left
		alloc[nodeIdx].left = alloc[pivotIdx].right

		if alloc[pivotIdx].right != 0 {
			alloc[alloc[pivotIdx].right].parent = nodeIdx
		}
	}

	parentIdx := alloc[nodeIdx].parent
	alloc[pivotIdx].parent = parentIdx

	switch {
	case parentIdx == 0:
		tree.root = pivotIdx
	case nodeIdx == alloc[parentIdx].left:
		alloc[parentIdx].left = pivotIdx
	default:
		alloc[parentIdx].right = pivotIdx
	}

	if leftRotate {
		alloc[pivotIdx].left = nodeIdx
	} else {
		alloc[pivotIdx].right = nodeIdx
	}

	alloc[nodeIdx].parent = pivotIdx

	tree.recalcMax(nodeIdx)
	tree.recalcMax(pivotIdx)
}

func (tree *IntervalTree) insertFixup(nodeIdx uint32) {
	alloc := tree.storage()

	for nodeIdx != tree.root && tree.getColor(alloc[nodeIdx].parent) == red {
		parentIdx := alloc[nodeIdx].parent

		grandIdx := alloc[parentIdx].parent
		if grandIdx == 0 {
			break
		}

		leftCase := parentIdx == alloc[grandIdx].left
		uncleIdx := tree.childOf(grandIdx, !leftCase)

		if tree.getColor(uncleIdx) == red {
			alloc[parentIdx].color = black
			alloc[uncleIdx].color = black
			alloc[grandIdx].color = red
			nodeIdx = grandIdx

			continue
		}

		if nodeIdx == tree.childOf(parentIdx, !leftCase) {
			nodeIdx = parentIdx
			tree.rotate(nodeIdx, leftCase)

			parentIdx = alloc[nodeIdx].parent
		}

		alloc[parentIdx].color = black
		alloc[grandIdx].color = red
		tree.rotate(grandIdx, !leftCase)
	}

	tree.setBlack(tree.root)
}

// deleteFixup restores the red-black properties after splicing out a black
// node. nodeIdx carries the extra black and may be zero; parentIdx is its
// parent at the deficient position.
func (tree *IntervalTree) deleteFixup(nodeIdx, parentIdx uint32) {
	for nodeIdx != tree.root && tree.getColor(nodeIdx) == black {
		if parentIdx == 0 {
			break
		}

		leftSide := nodeIdx == tree.storage()[parentIdx].left

		var done bool

		nodeIdx, parentIdx, done = tree.deleteFixupCase(nodeIdx, parentIdx, leftSide)
		if done {
			break
		}
	}

	tree.setBlack(nodeIdx)
}

func (tree *IntervalTree) deleteFixupCase(
	nodeIdx, parentIdx uint32, leftSide bool,
) (uint32, uint32, bool) {
	alloc := tree.storage()

	siblingIdx := tree.childOf(parentIdx, !leftSide)
	if siblingIdx == 0 {
		return parentIdx, alloc[parentIdx].parent, false
	}

	if tree.getColor(siblingIdx) == red {
		alloc[siblingIdx].color = black
		alloc[parentIdx].color = red
		tree.rotate(parentIdx, leftSide)

		siblingIdx = tree.childOf(parentIdx, !leftSide)
		if siblingIdx == 0 {
			return parentIdx, alloc[parentIdx].parent, false
		}
	}

	innerIdx := tree.childOf(siblingIdx, leftSide)
	outerIdx := tree.childOf(siblingIdx, !leftSide)

	if tree.getColor(innerIdx) == black && tree.getColor(outerIdx) == black {
		alloc[siblingIdx].color = red

		return parentIdx, alloc[parentIdx].parent, false
	}

	if tree.getColor(outerIdx) == black {
		tree.setBlack(innerIdx)

		alloc[siblingIdx].color = red
		tree.rotate(siblingIdx, !leftSide)

		siblingIdx = tree.childOf(parentIdx, !leftSide)
		outerIdx = tree.childOf(siblingIdx, !leftSide)
	}

	alloc[siblingIdx].color = alloc[parentIdx].color
	alloc[parentIdx].color = black
	tree.setBlack(outerIdx)
	tree.rotate(parentIdx, leftSide)

	return tree.root, 0, true
}
