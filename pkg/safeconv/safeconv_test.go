package safeconv_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ale-mal/interval-tree/pkg/safeconv"
)

func TestMustIntToUint32(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint32(0), safeconv.MustIntToUint32(0))
	assert.Equal(t, uint32(42), safeconv.MustIntToUint32(42))
	assert.Equal(t, safeconv.MaxUint32, safeconv.MustIntToUint32(int(safeconv.MaxUint32)))
}

func TestMustIntToUint32PanicsOnNegative(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		safeconv.MustIntToUint32(-1)
	})
}

func TestMustIntToUint32PanicsOnOverflow(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		safeconv.MustIntToUint32(int(safeconv.MaxUint32) + 1)
	})
}

func TestMustInt64ToInt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, safeconv.MustInt64ToInt(0))
	assert.Equal(t, -7, safeconv.MustInt64ToInt(-7))
	assert.Equal(t, math.MaxInt32, safeconv.MustInt64ToInt(int64(math.MaxInt32)))
}

func TestMustUint32ToInt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, safeconv.MustUint32ToInt(0))
	assert.Equal(t, int(safeconv.MaxUint32), safeconv.MustUint32ToInt(safeconv.MaxUint32))
}
