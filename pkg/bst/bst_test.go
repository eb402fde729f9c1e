package bst

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test constants.
const (
	testTreeSize = 8
	testKeyStep  = 13
	testRounds   = 100
	testSeed     = 3
)

// TestAdd_Get verifies basic insert and lookup.
func TestAdd_Get(t *testing.T) {
	t.Parallel()

	tree := New[int, string]()
	tree.Add(5, "five")
	tree.Add(3, "three")
	tree.Add(8, "eight")

	v, ok := tree.Get(3)
	require.True(t, ok)
	assert.Equal(t, "three", v)

	_, ok = tree.Get(7)
	assert.False(t, ok)
	assert.Equal(t, 3, tree.Len())
}

// TestRemove_Missing verifies removing an absent key.
func TestRemove_Missing(t *testing.T) {
	t.Parallel()

	tree := New[int, int]()
	tree.Add(1, 1)

	assert.False(t, tree.Remove(2))
	assert.Equal(t, 1, tree.Len())
}

// TestRemove_AllShapes removes nodes with zero, one, and two children.
func TestRemove_AllShapes(t *testing.T) {
	t.Parallel()

	tree := New[int, int]()
	for _, k := range []int{50, 30, 70, 20, 40, 60, 80} {
		tree.Add(k, k)
	}

	// Leaf.
	require.True(t, tree.Remove(20))
	// One child.
	require.True(t, tree.Remove(30))
	// Two children (the root).
	require.True(t, tree.Remove(50))

	assert.Equal(t, 4, tree.Len())
	assert.True(t, tree.IsBST())

	var keys []int

	tree.InOrder(func(key, _ int) bool {
		keys = append(keys, key)

		return true
	})

	assert.Equal(t, []int{40, 60, 70, 80}, keys)
}

// TestInOrder_Sorted verifies ascending traversal over shuffled inserts.
func TestInOrder_Sorted(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(testSeed))

	for loopIdx := 0; loopIdx < testRounds; loopIdx++ {
		tree := New[int, int]()

		keys := make([]int, testTreeSize)
		for i := range keys {
			keys[i] = i * testKeyStep
		}

		rng.Shuffle(len(keys), func(i, j int) {
			keys[i], keys[j] = keys[j], keys[i]
		})

		for _, k := range keys {
			tree.Add(k, k)
		}

		require.Equal(t, testTreeSize, tree.Len())
		require.True(t, tree.IsBST())

		var got []int

		tree.InOrder(func(key, _ int) bool {
			got = append(got, key)

			return true
		})

		expected := make([]int, testTreeSize)
		for i := range expected {
			expected[i] = i * testKeyStep
		}

		require.Equal(t, expected, got)
	}
}

// TestRandomRoundTrip repeatedly removes random keys while verifying the
// ordering invariant, mirroring the randomized delete sequence of the sibling
// interval tree tests.
func TestRandomRoundTrip(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(testSeed + 1))

	for loopIdx := 0; loopIdx < testRounds; loopIdx++ {
		tree := New[int, int]()

		keys := make([]int, testTreeSize)
		for i := range keys {
			keys[i] = i * testKeyStep
		}

		rng.Shuffle(len(keys), func(i, j int) {
			keys[i], keys[j] = keys[j], keys[i]
		})

		for _, k := range keys {
			tree.Add(k, k)
		}

		rng.Shuffle(len(keys), func(i, j int) {
			keys[i], keys[j] = keys[j], keys[i]
		})

		for removed, k := range keys {
			require.True(t, tree.Remove(k))
			require.True(t, tree.IsBST())
			require.Equal(t, testTreeSize-removed-1, tree.Len())
		}
	}
}

// TestDuplicateKeys verifies duplicate keys are kept as separate nodes.
func TestDuplicateKeys(t *testing.T) {
	t.Parallel()

	tree := New[int, string]()
	tree.Add(7, "a")
	tree.Add(7, "b")
	assert.Equal(t, 2, tree.Len())

	require.True(t, tree.Remove(7))
	assert.Equal(t, 1, tree.Len())

	_, ok := tree.Get(7)
	assert.True(t, ok)
}

// TestInOrder_EarlyStop verifies the traversal honors a false return.
func TestInOrder_EarlyStop(t *testing.T) {
	t.Parallel()

	tree := New[int, int]()
	for _, k := range []int{2, 1, 3} {
		tree.Add(k, k)
	}

	visited := 0

	tree.InOrder(func(_, _ int) bool {
		visited++

		return visited < 2
	})

	assert.Equal(t, 2, visited)
}
