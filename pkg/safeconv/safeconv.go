// Package safeconv provides safe integer type conversion functions that panic on overflow.
package safeconv

import "math"

// MaxInt is the maximum value for int type (platform-dependent).
const MaxInt = int(^uint(0) >> 1)

// MaxUint32 is the maximum value for uint32 type.
const MaxUint32 = uint32(math.MaxUint32)

// MustIntToUint32 converts int to uint32, panics on bounds violation.
// Use only when bounds violations are logically impossible.
func MustIntToUint32(v int) uint32 {
	if v < 0 || v > int(MaxUint32) {
		panic("safeconv: int to uint32 out of bounds")
	}

	return uint32(v)
}

// MustInt64ToInt converts int64 to int, panics on bounds violation.
// Use only when bounds violations are logically impossible.
func MustInt64ToInt(v int64) int {
	if v < math.MinInt || v > int64(MaxInt) {
		panic("safeconv: int64 to int out of bounds")
	}

	return int(v)
}

// MustUint32ToInt converts uint32 to int. The conversion is lossless on
// 64-bit platforms; on 32-bit platforms it panics past MaxInt32.
func MustUint32ToInt(v uint32) int {
	if uint64(v) > uint64(uint(MaxInt)) {
		panic("safeconv: uint32 to int overflow")
	}

	return int(v)
}
