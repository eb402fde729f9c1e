// Package rbtree provides an arena-backed augmented red-black interval tree
// for the uint32 specialization. Nodes live in a growable table, links are
// indices, and index zero is the reserved absent-black sentinel, so the
// fixup routines test "absent or black" with a single color lookup. The
// allocator supports LZ4 hibernation and disk serialization.
package rbtree

import (
	"bytes"
	"encoding/binary"

	"github.com/pierrec/lz4/v4"
)

// uint32ByteSize is the number of bytes in a uint32.
const uint32ByteSize = 4

// Plane storage markers. Every compressed plane starts with one marker byte
// so incompressible input can be stored raw instead of being dropped.
const (
	planeRaw        byte = 0x0
	planeCompressed byte = 0x1
)

// CompressUInt32Slice compresses a slice of uint32-s with LZ4. The first
// byte of the result tags the payload as compressed or raw; input that LZ4
// cannot shrink is stored as-is.
func CompressUInt32Slice(data []uint32) []byte {
	raw := new(bytes.Buffer)

	writeErr := binary.Write(raw, binary.LittleEndian, data)
	if writeErr != nil {
		return nil
	}

	compressed := make([]byte, lz4.CompressBlockBound(raw.Len())+1)
	compressed[0] = planeCompressed

	written, err := lz4.CompressBlock(raw.Bytes(), compressed[1:], nil)
	if err != nil || written == 0 {
		return append([]byte{planeRaw}, raw.Bytes()...)
	}

	return compressed[:written+1]
}

// DecompressUInt32Slice decompresses a slice of uint32-s previously packed
// by CompressUInt32Slice. `result` must be preallocated.
func DecompressUInt32Slice(data []byte, result []uint32) {
	if len(data) == 0 {
		return
	}

	payload := data[1:]

	if data[0] == planeCompressed {
		decompressed := make([]byte, len(result)*uint32ByteSize)

		_, err := lz4.UncompressBlock(payload, decompressed)
		if err != nil {
			return
		}

		payload = decompressed
	}

	readErr := binary.Read(bytes.NewReader(payload), binary.LittleEndian, result)
	if readErr != nil {
		return
	}
}

// DeltaEncodeUInt32Slice replaces each element with the difference from its
// predecessor, in place. The first element is left unchanged. Sorted
// sequences become small, repetitive values that compress better with LZ4.
func DeltaEncodeUInt32Slice(data []uint32) {
	for i := len(data) - 1; i > 0; i-- {
		data[i] -= data[i-1]
	}
}

// DeltaDecodeUInt32Slice performs a prefix-sum to restore original values
// from deltas produced by DeltaEncodeUInt32Slice, in place.
func DeltaDecodeUInt32Slice(data []uint32) {
	for i := 1; i < len(data); i++ {
		data[i] += data[i-1]
	}
}
