package rbtree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ale-mal/interval-tree/pkg/rbtree"
)

const (
	shardCount          = 4
	shardThreshold      = 4000
	treesPerShardedTest = 16
	nodesPerTree        = 64
)

func TestShardedAllocatorGetShardStable(t *testing.T) {
	t.Parallel()

	sharded := rbtree.NewShardedAllocator(shardCount, shardThreshold)

	first := sharded.GetShard("alpha")
	second := sharded.GetShard("alpha")

	assert.Same(t, first, second)
	assert.Len(t, sharded.Shards(), shardCount)
}

func TestShardedAllocatorGetShardByIDStable(t *testing.T) {
	t.Parallel()

	sharded := rbtree.NewShardedAllocator(shardCount, shardThreshold)

	assert.Same(t, sharded.GetShardByID(7), sharded.GetShardByID(7))
}

func TestShardedAllocatorDefaultsToOneShard(t *testing.T) {
	t.Parallel()

	sharded := rbtree.NewShardedAllocator(0, 0)

	assert.Len(t, sharded.Shards(), 1)
}

func TestShardedAllocatorHibernateBoot(t *testing.T) {
	t.Parallel()

	sharded := rbtree.NewShardedAllocator(shardCount, shardThreshold)
	trees := make([]*rbtree.IntervalTree, treesPerShardedTest)
	snapshots := make([][]rbtree.Item, treesPerShardedTest)

	for idx := range trees {
		alloc := sharded.GetShardByID(uint32(idx))
		trees[idx] = rbtree.NewIntervalTree(alloc)

		for n := uint32(0); n < nodesPerTree; n++ {
			trees[idx].Insert(n*2, n*2+1, uint32(idx))
		}

		snapshots[idx] = collect(trees[idx])
	}

	sharded.Hibernate()
	sharded.Boot()

	for idx := range trees {
		assert.Equal(t, snapshots[idx], collect(trees[idx]))
	}
}

func TestShardedAllocatorSerializeDeserialize(t *testing.T) {
	t.Parallel()

	sharded := rbtree.NewShardedAllocator(shardCount, shardThreshold)
	trees := make([]*rbtree.IntervalTree, treesPerShardedTest)
	snapshots := make([][]rbtree.Item, treesPerShardedTest)

	for idx := range trees {
		alloc := sharded.GetShardByID(uint32(idx))
		trees[idx] = rbtree.NewIntervalTree(alloc)

		for n := uint32(0); n < nodesPerTree; n++ {
			trees[idx].Insert(n*3, n*3+2, uint32(idx))
		}

		snapshots[idx] = collect(trees[idx])
	}

	basePath := t.TempDir() + "/shards"

	sharded.Hibernate()
	require.NoError(t, sharded.Serialize(basePath))

	restored := rbtree.NewShardedAllocator(shardCount, shardThreshold)
	require.NoError(t, restored.Deserialize(basePath))
	restored.Boot()

	for idx := range trees {
		view := trees[idx].CloneShallow(restored.GetShardByID(uint32(idx)))
		assert.Equal(t, snapshots[idx], collect(view))
	}
}
