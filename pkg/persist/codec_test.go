package persist_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ale-mal/interval-tree/pkg/persist"
	"github.com/ale-mal/interval-tree/pkg/rangeset"
)

type rangesState struct {
	Name   string                `json:"name" yaml:"name"`
	Ranges []rangeset.Range[int] `json:"ranges" yaml:"ranges"`
	Counts map[string]int        `json:"counts" yaml:"counts"`
}

func sampleState() rangesState {
	return rangesState{
		Name: "merged",
		Ranges: []rangeset.Range[int]{
			{Low: 1, High: 6},
			{Low: 8, High: 10},
		},
		Counts: map[string]int{"input": 4, "output": 2},
	}
}

func TestForName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
	}{
		{name: "json", extension: ".json"},
		{name: "gob", extension: ".gob"},
		{name: "yaml", extension: ".yaml"},
	}

	for _, testCase := range tests {
		testCase := testCase

		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			codec, err := persist.ForName(testCase.name)
			require.NoError(t, err)
			assert.Equal(t, testCase.extension, codec.Extension())
		})
	}
}

func TestForNameUnknown(t *testing.T) {
	t.Parallel()

	_, err := persist.ForName("xml")
	require.ErrorIs(t, err, persist.ErrUnknownCodec)
}

func TestCodecRoundTrip(t *testing.T) {
	t.Parallel()

	codecs := map[string]persist.Codec{
		"json": persist.NewJSONCodec(),
		"gob":  persist.NewGobCodec(),
		"yaml": persist.NewYAMLCodec(),
	}

	for name, codec := range codecs {
		codec := codec

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			state := sampleState()
			buf := &bytes.Buffer{}

			require.NoError(t, codec.Encode(buf, state))

			var restored rangesState

			require.NoError(t, codec.Decode(buf, &restored))
			assert.Equal(t, state, restored)
		})
	}
}

func TestSaveLoadState(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	state := sampleState()

	require.NoError(t, persist.SaveState(dir, "ranges", persist.NewJSONCodec(), state))

	var restored rangesState

	require.NoError(t, persist.LoadState(dir, "ranges", persist.NewJSONCodec(), &restored))
	assert.Equal(t, state, restored)
}

func TestLoadStateMissingFile(t *testing.T) {
	t.Parallel()

	var restored rangesState

	err := persist.LoadState(t.TempDir(), "absent", persist.NewJSONCodec(), &restored)
	require.Error(t, err)
}
