package rbtree

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"sync"

	gitbinary "github.com/go-git/go-git/v5/utils/binary"

	"github.com/ale-mal/interval-tree/pkg/safeconv"
)

// ErrIncompleteRead is returned when a read does not return the expected number of bytes.
var ErrIncompleteRead = errors.New("incomplete read")

// growCapacityNumerator and growCapacityDenominator define the 3/2 growth factor for storage.
const (
	growCapacityNumerator   = 3
	growCapacityDenominator = 2
)

// hibernationPlanes is the number of uint32 planes a node deinterleaves into:
// low, high, value, max, parent, left, right, color.
const hibernationPlanes = 8

// Item is the interval stored in each tree node.
type Item struct {
	Low   uint32
	High  uint32
	Value uint32
}

// node is one arena slot. Links are indices into the storage table; index
// zero means absent.
type node struct {
	item                Item
	max                 uint32
	parent, left, right uint32
	color               bool // Black or red.
}

// Allocator is the arena allocator for IntervalTree nodes. Several trees may
// share one allocator.
type Allocator struct {
	storage              []node
	gaps                 map[uint32]bool
	hibernatedData       [hibernationPlanes + 1][]byte
	HibernationThreshold int
	hibernatedStorageLen int
	hibernatedGapsLen    int
}

// NewAllocator creates a new allocator for IntervalTree nodes.
func NewAllocator() *Allocator {
	return &Allocator{
		storage:              []node{},
		gaps:                 map[uint32]bool{},
		hibernatedData:       [hibernationPlanes + 1][]byte{},
		HibernationThreshold: 0,
		hibernatedStorageLen: 0,
		hibernatedGapsLen:    0,
	}
}

// Size returns the currently allocated size.
func (allocator *Allocator) Size() int {
	return len(allocator.storage)
}

// HibernatedSize returns the total compressed byte size of a hibernated
// allocator, or zero when the allocator is live.
func (allocator *Allocator) HibernatedSize() int {
	total := 0
	for _, plane := range allocator.hibernatedData {
		total += len(plane)
	}

	return total
}

// Used returns the number of nodes contained in the allocator.
func (allocator *Allocator) Used() int {
	if allocator.storage == nil {
		panic("hibernated allocators cannot be used")
	}

	return len(allocator.storage) - len(allocator.gaps)
}

// Clone copies an existing allocator.
func (allocator *Allocator) Clone() *Allocator {
	if allocator.storage == nil {
		panic("cannot clone a hibernated allocator")
	}

	newAllocator := &Allocator{
		HibernationThreshold: allocator.HibernationThreshold,
		storage:              make([]node, len(allocator.storage), cap(allocator.storage)),
		gaps:                 map[uint32]bool{},
		hibernatedData:       [hibernationPlanes + 1][]byte{},
		hibernatedStorageLen: 0,
		hibernatedGapsLen:    0,
	}
	copy(newAllocator.storage, allocator.storage)
	maps.Copy(newAllocator.gaps, allocator.gaps)

	return newAllocator
}

// Hibernate compresses the allocated memory. The node fields are
// deinterleaved into per-field uint32 planes first to improve the
// compression ratio, then the planes are compressed in parallel.
func (allocator *Allocator) Hibernate() {
	if allocator.hibernatedStorageLen > 0 {
		panic("cannot hibernate an already hibernated Allocator")
	}

	if len(allocator.storage) < allocator.HibernationThreshold {
		return
	}

	allocator.hibernatedStorageLen = len(allocator.storage)
	if allocator.hibernatedStorageLen == 0 {
		allocator.storage = nil

		return
	}

	buffers := [hibernationPlanes][]uint32{}

	for idx := range buffers {
		buffers[idx] = make([]uint32, len(allocator.storage))
	}

	for idx, nd := range allocator.storage {
		buffers[0][idx] = nd.item.Low
		buffers[1][idx] = nd.item.High
		buffers[2][idx] = nd.item.Value
		buffers[3][idx] = nd.max
		buffers[4][idx] = nd.parent
		buffers[5][idx] = nd.left
		buffers[6][idx] = nd.right

		if nd.color {
			buffers[7][idx] = 1
		}
	}

	allocator.storage = nil

	wg := &sync.WaitGroup{}
	wg.Add(len(buffers) + 1)

	for idx, buffer := range buffers {
		go func(bufIdx int, buf []uint32) {
			allocator.hibernatedData[bufIdx] = CompressUInt32Slice(buf)
			buffers[bufIdx] = nil

			wg.Done()
		}(idx, buffer)
	}

	// Compress gaps. Sorted and delta-encoded keys compress much better.
	go func() {
		if len(allocator.gaps) > 0 {
			allocator.hibernatedGapsLen = len(allocator.gaps)

			gapsBuffer := make([]uint32, 0, len(allocator.gaps))
			for key := range allocator.gaps {
				gapsBuffer = append(gapsBuffer, key)
			}

			slices.Sort(gapsBuffer)
			DeltaEncodeUInt32Slice(gapsBuffer)

			allocator.hibernatedData[hibernationPlanes] = CompressUInt32Slice(gapsBuffer)
		}

		allocator.gaps = nil

		wg.Done()
	}()

	wg.Wait()
}

// Boot performs the opposite of Hibernate() - decompresses and restores the
// allocated memory.
func (allocator *Allocator) Boot() {
	if allocator.storage == nil && allocator.hibernatedStorageLen == 0 {
		allocator.storage = []node{}
		allocator.gaps = map[uint32]bool{}

		return
	}

	if allocator.hibernatedStorageLen == 0 {
		// Not hibernated.
		return
	}

	if allocator.hibernatedData[0] == nil {
		panic("cannot boot a serialized Allocator")
	}

	allocator.gaps = map[uint32]bool{}
	buffers := [hibernationPlanes][]uint32{}

	wg := &sync.WaitGroup{}
	wg.Add(len(buffers) + 1)

	for idx := range buffers {
		go func(bufIdx int) {
			buffers[bufIdx] = make([]uint32, allocator.hibernatedStorageLen)
			DecompressUInt32Slice(allocator.hibernatedData[bufIdx], buffers[bufIdx])
			allocator.hibernatedData[bufIdx] = nil

			wg.Done()
		}(idx)
	}

	go func() {
		if allocator.hibernatedGapsLen > 0 {
			gapData := allocator.hibernatedData[hibernationPlanes]
			buffer := make([]uint32, allocator.hibernatedGapsLen)
			DecompressUInt32Slice(gapData, buffer)
			DeltaDecodeUInt32Slice(buffer)

			for _, key := range buffer {
				allocator.gaps[key] = true
			}

			allocator.hibernatedData[hibernationPlanes] = nil
			allocator.hibernatedGapsLen = 0
		}

		wg.Done()
	}()

	wg.Wait()

	capSize := (allocator.hibernatedStorageLen * growCapacityNumerator) / growCapacityDenominator
	allocator.storage = make([]node, allocator.hibernatedStorageLen, capSize)

	for idx := range allocator.storage {
		nd := &allocator.storage[idx]
		nd.item.Low = buffers[0][idx]
		nd.item.High = buffers[1][idx]
		nd.item.Value = buffers[2][idx]
		nd.max = buffers[3][idx]
		nd.parent = buffers[4][idx]
		nd.left = buffers[5][idx]
		nd.right = buffers[6][idx]
		nd.color = buffers[7][idx] > 0
	}

	allocator.hibernatedStorageLen = 0
}

// Serialize writes the hibernated allocator on disk.
func (allocator *Allocator) Serialize(path string) error {
	if allocator.storage != nil {
		panic("serialization requires the hibernated state")
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	defer file.Close()

	err = gitbinary.WriteVariableWidthInt(file, int64(allocator.hibernatedStorageLen))
	if err != nil {
		return fmt.Errorf("write storage len: %w", err)
	}

	err = gitbinary.WriteVariableWidthInt(file, int64(allocator.hibernatedGapsLen))
	if err != nil {
		return fmt.Errorf("write gaps len: %w", err)
	}

	for idx, plane := range allocator.hibernatedData {
		err = gitbinary.WriteVariableWidthInt(file, int64(len(plane)))
		if err != nil {
			return fmt.Errorf("write plane len %d: %w", idx, err)
		}

		_, err = file.Write(plane)
		if err != nil {
			return fmt.Errorf("write plane %d: %w", idx, err)
		}

		allocator.hibernatedData[idx] = nil
	}

	return nil
}

// Deserialize reads a hibernated allocator from disk.
func (allocator *Allocator) Deserialize(path string) error {
	if allocator.storage != nil {
		panic("deserialization requires the hibernated state")
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}

	defer file.Close()

	storageLen, err := gitbinary.ReadVariableWidthInt(file)
	if err != nil {
		return fmt.Errorf("read storage len: %w", err)
	}

	allocator.hibernatedStorageLen = safeconv.MustInt64ToInt(storageLen)

	gapsLen, err := gitbinary.ReadVariableWidthInt(file)
	if err != nil {
		return fmt.Errorf("read gaps len: %w", err)
	}

	allocator.hibernatedGapsLen = safeconv.MustInt64ToInt(gapsLen)

	for idx := range allocator.hibernatedData {
		planeLen, readErr := gitbinary.ReadVariableWidthInt(file)
		if readErr != nil {
			return fmt.Errorf("read plane len %d: %w", idx, readErr)
		}

		allocator.hibernatedData[idx] = make([]byte, safeconv.MustInt64ToInt(planeLen))

		bytesRead, readErr := file.Read(allocator.hibernatedData[idx])
		if readErr != nil {
			return fmt.Errorf("read plane %d: %w", idx, readErr)
		}

		if bytesRead != len(allocator.hibernatedData[idx]) {
			return fmt.Errorf("%w %d: %d instead of %d", ErrIncompleteRead, idx, bytesRead, len(allocator.hibernatedData[idx]))
		}
	}

	return nil
}

// malloc returns a fresh node index, reusing freed slots first. Index zero
// is reserved as the absent-black sentinel.
func (allocator *Allocator) malloc() uint32 {
	if allocator.storage == nil {
		panic("hibernated allocators cannot be used")
	}

	if len(allocator.gaps) > 0 {
		var key uint32

		for key = range allocator.gaps {
			break
		}

		delete(allocator.gaps, key)

		return key
	}

	nodeLen := len(allocator.storage)
	if nodeLen == 0 {
		// Zero is reserved.
		allocator.storage = append(allocator.storage, node{})
		nodeLen = 1
	}

	if nodeLen == int(safeconv.MaxUint32) {
		panic("the interval tree allocator has reached the maximum size for uint32 indices")
	}

	allocator.storage = append(allocator.storage, node{})

	return safeconv.MustIntToUint32(nodeLen)
}

// free returns a node slot to the gaps list.
func (allocator *Allocator) free(nodeIdx uint32) {
	if allocator.storage == nil {
		panic("hibernated allocators cannot be used")
	}

	if nodeIdx == 0 {
		panic("node #0 is the absent sentinel and cannot be deallocated")
	}

	if allocator.gaps[nodeIdx] {
		panic("double free of an interval tree node")
	}

	allocator.storage[nodeIdx] = node{}
	allocator.gaps[nodeIdx] = true
}
