// Package rangeset maintains a set of disjoint closed ranges. Adding a range
// absorbs everything it touches: overlapping ranges are repeatedly looked up,
// unioned into the candidate, and removed, so the set stays merged at all
// times. The set is backed by an interval tree, which keeps every step of
// the absorb loop logarithmic.
package rangeset

import (
	"cmp"

	"github.com/ale-mal/interval-tree/pkg/interval"
)

// Range is a closed range [Low, High].
type Range[K cmp.Ordered] struct {
	Low  K `json:"low"  yaml:"low"`
	High K `json:"high" yaml:"high"`
}

// Set holds disjoint ranges in ascending order. The zero value is not
// usable; call New. Not safe for concurrent use.
type Set[K cmp.Ordered] struct {
	tree *interval.Tree[K, struct{}]
}

// New creates an empty range set.
func New[K cmp.Ordered]() *Set[K] {
	return &Set[K]{tree: interval.New[K, struct{}]()}
}

// Len returns the number of disjoint ranges in the set.
func (s *Set[K]) Len() int {
	return s.tree.Len()
}

// Clear removes all ranges.
func (s *Set[K]) Clear() {
	s.tree.Clear()
}

// Add inserts [low, high] into the set, merging it with every range it
// overlaps. Requires low <= high.
func (s *Set[K]) Add(low, high K) {
	for {
		n := s.tree.SearchOverlap(low, high)
		if n == nil {
			break
		}

		if n.Low() < low {
			low = n.Low()
		}

		if n.High() > high {
			high = n.High()
		}

		s.tree.Remove(n)
	}

	s.tree.Insert(low, high, struct{}{})
}

// Contains reports whether the point lies inside some range of the set.
func (s *Set[K]) Contains(point K) bool {
	return s.tree.SearchOverlap(point, point) != nil
}

// Ranges returns the disjoint ranges in ascending order.
func (s *Set[K]) Ranges() []Range[K] {
	result := make([]Range[K], 0, s.tree.Len())

	s.tree.InOrder(func(iv interval.Interval[K, struct{}]) bool {
		result = append(result, Range[K]{Low: iv.Low, High: iv.High})

		return true
	})

	return result
}

// Merge builds a set from the given ranges and returns the merged result in
// ascending order. The input order does not matter.
func Merge[K cmp.Ordered](ranges []Range[K]) []Range[K] {
	set := New[K]()

	for _, r := range ranges {
		set.Add(r.Low, r.High)
	}

	return set.Ranges()
}
