// Package interval provides a generic augmented interval tree for efficient
// range-overlap queries. It supports Insert, Remove, SearchOverlap,
// WalkOverlap, and InOrder operations with O(log N) insert/remove and
// O(log N + k) walk time, where k is the number of overlapping intervals.
//
// The tree is backed by a red-black tree keyed by each interval's low
// endpoint, where every node stores the maximum high endpoint (max) in its
// subtree, enabling subtree pruning during overlap queries.
//
// Insert and SearchOverlap return *Node handles. A handle stays valid until
// that exact node is passed to Remove; intervals need not be distinct, so
// several nodes may share a key and each keeps its own handle.
package interval

import "cmp"

// Interval represents a closed range [Low, High] with an associated Value.
// Low <= High is a caller precondition and is not validated.
type Interval[K cmp.Ordered, V any] struct {
	Low   K
	High  K
	Value V
}

// Overlap reports whether two closed intervals share at least one point.
func (i Interval[K, V]) Overlap(other Interval[K, V]) bool {
	return i.Low <= other.High && other.Low <= i.High
}

// OverlapRange reports whether the interval shares at least one point with
// the closed range [low, high].
func (i Interval[K, V]) OverlapRange(low, high K) bool {
	return i.Low <= high && low <= i.High
}

// Node is a handle to one stored interval. Handles are returned by Insert and
// SearchOverlap and remain valid until the node is removed. A removed handle
// must not be passed to any tree operation again.
type Node[K cmp.Ordered, V any] struct {
	interval    Interval[K, V]
	max         K
	left, right *Node[K, V]
	parent      *Node[K, V]
	color       color
}

// Interval returns the interval stored in the node.
func (n *Node[K, V]) Interval() Interval[K, V] {
	return n.interval
}

// Low returns the interval's low endpoint.
func (n *Node[K, V]) Low() K {
	return n.interval.Low
}

// High returns the interval's high endpoint.
func (n *Node[K, V]) High() K {
	return n.interval.High
}

// Value returns the value associated with the interval.
func (n *Node[K, V]) Value() V {
	return n.interval.Value
}

// color represents the red-black tree node color.
type color bool

// Red-black tree color constants.
const (
	red   color = false
	black color = true
)

// nodeColor returns the color of a node, treating nil as black.
func nodeColor[K cmp.Ordered, V any](n *Node[K, V]) color {
	if n == nil {
		return black
	}

	return n.color
}

// setBlack sets a node's color to black if it is non-nil.
func setBlack[K cmp.Ordered, V any](n *Node[K, V]) {
	if n != nil {
		n.color = black
	}
}

// childOf returns the left or right child of a node.
// When left is true, returns n.left; otherwise n.right.
func childOf[K cmp.Ordered, V any](n *Node[K, V], left bool) *Node[K, V] {
	if n == nil {
		return nil
	}

	if left {
		return n.left
	}

	return n.right
}

// minimum returns the leftmost node in the subtree rooted at n.
func minimum[K cmp.Ordered, V any](n *Node[K, V]) *Node[K, V] {
	for n.left != nil {
		n = n.left
	}

	return n
}

// recalcMax recalculates a node's max from its own interval and children.
// Removal can shrink a subtree's maximum, so max is always re-derived from
// the current children rather than propagated incrementally.
func recalcMax[K cmp.Ordered, V any](n *Node[K, V]) {
	if n == nil {
		return
	}

	m := n.interval.High

	if n.left != nil && n.left.max > m {
		m = n.left.max
	}

	if n.right != nil && n.right.max > m {
		m = n.right.max
	}

	n.max = m
}

// updateMax raises a node's max to at least the given high endpoint.
func updateMax[K cmp.Ordered, V any](n *Node[K, V], high K) {
	if high > n.max {
		n.max = high
	}
}
