package persist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ale-mal/interval-tree/pkg/persist"
)

func TestPersisterFilename(t *testing.T) {
	t.Parallel()

	persister := persist.NewPersister[rangesState]("ranges", persist.NewYAMLCodec())

	assert.Equal(t, "ranges.yaml", persister.Filename())
}

func TestPersisterSaveLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	persister := persist.NewPersister[rangesState]("ranges", persist.NewGobCodec())
	state := sampleState()

	err := persister.Save(dir, func() *rangesState {
		return &state
	})
	require.NoError(t, err)

	var restored rangesState

	err = persister.Load(dir, func(loaded *rangesState) {
		restored = *loaded
	})
	require.NoError(t, err)

	assert.Equal(t, state, restored)
}
