package rbtree

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
)

// ErrSerializeShards is returned when shard serialization fails.
var ErrSerializeShards = errors.New("failed to serialize shards")

// ErrDeserializeShards is returned when shard deserialization fails.
var ErrDeserializeShards = errors.New("failed to deserialize shards")

// minHibernationThreshold is the minimal reasonable default if division results in 0.
const minHibernationThreshold = 1000

// ShardedAllocator spreads interval trees across multiple Allocators so
// independent trees can be mutated in parallel.
type ShardedAllocator struct {
	shards []*Allocator
}

// NewShardedAllocator creates a new ShardedAllocator with shardCount shards.
// The hibernation threshold is split evenly across the shards.
func NewShardedAllocator(shardCount, hibernationThreshold int) *ShardedAllocator {
	if shardCount <= 0 {
		shardCount = 1
	}

	shards := make([]*Allocator, shardCount)

	for idx := 0; idx < shardCount; idx++ {
		shards[idx] = NewAllocator()

		if hibernationThreshold > 0 {
			shards[idx].HibernationThreshold = hibernationThreshold / shardCount
			if shards[idx].HibernationThreshold == 0 {
				shards[idx].HibernationThreshold = minHibernationThreshold
			}
		}
	}

	return &ShardedAllocator{shards: shards}
}

// GetShard returns the allocator shard for the given tree name.
func (sa *ShardedAllocator) GetShard(name string) *Allocator {
	hasher := fnv.New32a()
	hasher.Write([]byte(name))

	return sa.shards[int(hasher.Sum32())%len(sa.shards)]
}

// GetShardByID returns the allocator shard for the given numeric tree id.
func (sa *ShardedAllocator) GetShardByID(treeID uint32) *Allocator {
	var buf [4]byte

	binary.LittleEndian.PutUint32(buf[:], treeID)

	hasher := fnv.New32a()
	hasher.Write(buf[:])

	return sa.shards[int(hasher.Sum32())%len(sa.shards)]
}

// Shards returns all underlying allocators.
func (sa *ShardedAllocator) Shards() []*Allocator {
	return sa.shards
}

// Hibernate hibernates all shards in parallel, regardless of their thresholds.
func (sa *ShardedAllocator) Hibernate() {
	wg := sync.WaitGroup{}
	wg.Add(len(sa.shards))

	for _, shard := range sa.shards {
		go func(alloc *Allocator) {
			defer wg.Done()

			originalThreshold := alloc.HibernationThreshold
			alloc.HibernationThreshold = 0
			alloc.Hibernate()
			alloc.HibernationThreshold = originalThreshold
		}(shard)
	}

	wg.Wait()
}

// Boot boots all shards in parallel.
func (sa *ShardedAllocator) Boot() {
	wg := sync.WaitGroup{}
	wg.Add(len(sa.shards))

	for _, shard := range sa.shards {
		go func(alloc *Allocator) {
			defer wg.Done()

			alloc.Boot()
		}(shard)
	}

	wg.Wait()
}

// Serialize writes all hibernated shards to disk. basePath is used as a
// prefix with ".shard.N" appended. Shards that are not hibernated are
// skipped.
func (sa *ShardedAllocator) Serialize(basePath string) error {
	errs := make([]error, len(sa.shards))

	wg := sync.WaitGroup{}
	wg.Add(len(sa.shards))

	for idx, shard := range sa.shards {
		go func(shardIdx int, alloc *Allocator) {
			defer wg.Done()

			if alloc.storage != nil {
				return
			}

			errs[shardIdx] = alloc.Serialize(fmt.Sprintf("%s.shard.%d", basePath, shardIdx))
		}(idx, shard)
	}

	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrSerializeShards, err)
	}

	return nil
}

// Deserialize reads all shards from disk.
func (sa *ShardedAllocator) Deserialize(basePath string) error {
	errs := make([]error, len(sa.shards))

	wg := sync.WaitGroup{}
	wg.Add(len(sa.shards))

	for idx, shard := range sa.shards {
		go func(shardIdx int, alloc *Allocator) {
			defer wg.Done()

			errs[shardIdx] = alloc.Deserialize(fmt.Sprintf("%s.shard.%d", basePath, shardIdx))
		}(idx, shard)
	}

	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrDeserializeShards, err)
	}

	return nil
}
