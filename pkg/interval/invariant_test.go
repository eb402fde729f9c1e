package interval

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// Randomized round-trip test parameters.
const (
	roundTripSeed   = 42
	roundTripNodes  = 200
	roundTripRounds = 20
	randomKeySpan   = 500
	randomWidthSpan = 30
)

// requireInvariants verifies the three structural invariants of the tree:
// BST ordering on low endpoints, red-black coloring, and exact max
// augmentation.
func requireInvariants(t *testing.T, tree *Tree[int, int]) {
	t.Helper()

	if tree.root == nil {
		return
	}

	require.Equal(t, black, tree.root.color, "root must be black")
	requireSubtree(t, tree.root)

	prev := tree.root.interval.Low
	first := true

	tree.InOrder(func(iv Interval[int, int]) bool {
		if !first {
			require.LessOrEqual(t, prev, iv.Low, "in-order keys must be non-decreasing")
		}

		prev = iv.Low
		first = false

		return true
	})
}

// requireSubtree checks red-red edges, black-height uniformity, and max
// correctness for the subtree rooted at n. It returns (blackHeight, trueMax).
func requireSubtree(t *testing.T, n *Node[int, int]) (int, int) {
	t.Helper()

	if n == nil {
		return 1, 0
	}

	if n.color == red {
		require.Equal(t, black, nodeColor(n.left), "red node with red left child")
		require.Equal(t, black, nodeColor(n.right), "red node with red right child")
	}

	if n.left != nil {
		require.LessOrEqual(t, n.left.interval.Low, n.interval.Low, "left subtree key above node key")
		require.Equal(t, n, n.left.parent, "left child parent link broken")
	}

	if n.right != nil {
		require.GreaterOrEqual(t, n.right.interval.Low, n.interval.Low, "right subtree key below node key")
		require.Equal(t, n, n.right.parent, "right child parent link broken")
	}

	leftBlack, leftMax := requireSubtree(t, n.left)
	rightBlack, rightMax := requireSubtree(t, n.right)

	require.Equal(t, leftBlack, rightBlack, "black height mismatch")

	trueMax := n.interval.High
	if n.left != nil && leftMax > trueMax {
		trueMax = leftMax
	}

	if n.right != nil && rightMax > trueMax {
		trueMax = rightMax
	}

	require.Equal(t, trueMax, n.max, "stale max augmentation at [%d,%d]", n.interval.Low, n.interval.High)

	blackHeight := leftBlack
	if n.color == black {
		blackHeight++
	}

	return blackHeight, trueMax
}

// TestInvariants_SequentialInsert verifies invariants hold during ascending inserts.
func TestInvariants_SequentialInsert(t *testing.T) {
	t.Parallel()

	tree := New[int, int]()

	for i := 0; i < roundTripNodes; i++ {
		tree.Insert(i, i+randomWidthSpan, i)
		requireInvariants(t, tree)
	}
}

// TestInvariants_ReverseInsert verifies invariants hold during descending inserts.
func TestInvariants_ReverseInsert(t *testing.T) {
	t.Parallel()

	tree := New[int, int]()

	for i := roundTripNodes; i > 0; i-- {
		tree.Insert(i, i+randomWidthSpan, i)
		requireInvariants(t, tree)
	}
}

// TestInvariants_RandomRoundTrip inserts N random intervals, then removes all
// of them in random order, checking every intermediate tree.
func TestInvariants_RandomRoundTrip(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(roundTripSeed))

	for loopIdx := 0; loopIdx < roundTripRounds; loopIdx++ {
		tree := New[int, int]()
		handles := make([]*Node[int, int], 0, roundTripNodes)

		for i := 0; i < roundTripNodes; i++ {
			low := rng.Intn(randomKeySpan)
			high := low + rng.Intn(randomWidthSpan)

			handles = append(handles, tree.Insert(low, high, i))
			requireInvariants(t, tree)
		}

		require.Equal(t, roundTripNodes, tree.Len())

		rng.Shuffle(len(handles), func(i, j int) {
			handles[i], handles[j] = handles[j], handles[i]
		})

		for _, h := range handles {
			tree.Remove(h)
			requireInvariants(t, tree)
		}

		require.Equal(t, 0, tree.Len())
		require.Nil(t, tree.root)
	}
}

// TestInvariants_InterleavedInsertRemove alternates inserts and removes to
// exercise fixup cases that only appear in mixed workloads.
func TestInvariants_InterleavedInsertRemove(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(roundTripSeed + 1))
	tree := New[int, int]()

	var handles []*Node[int, int]

	const steps = 2000

	for step := 0; step < steps; step++ {
		if len(handles) == 0 || rng.Intn(3) > 0 {
			low := rng.Intn(randomKeySpan)
			high := low + rng.Intn(randomWidthSpan)
			handles = append(handles, tree.Insert(low, high, step))
		} else {
			idx := rng.Intn(len(handles))
			tree.Remove(handles[idx])
			handles = append(handles[:idx], handles[idx+1:]...)
		}

		requireInvariants(t, tree)
		require.Equal(t, len(handles), tree.Len())
	}
}

// TestInvariants_DuplicateKeys verifies invariants with many equal low endpoints.
func TestInvariants_DuplicateKeys(t *testing.T) {
	t.Parallel()

	tree := New[int, int]()

	var handles []*Node[int, int]

	const duplicates = 50

	for i := 0; i < duplicates; i++ {
		handles = append(handles, tree.Insert(10, 10+i, i))
		requireInvariants(t, tree)
	}

	for _, h := range handles {
		tree.Remove(h)
		requireInvariants(t, tree)
	}

	require.Equal(t, 0, tree.Len())
}
