package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ale-mal/interval-tree/cmd/itree/commands"
	"github.com/ale-mal/interval-tree/pkg/rangeset"
)

func writeInput(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestReadIntervalsJSON(t *testing.T) {
	t.Parallel()

	path := writeInput(t, "in.json", `[[1,3],[2,6],[8,10]]`)

	intervals, err := commands.ReadIntervals(path)
	require.NoError(t, err)

	assert.Equal(t, []rangeset.Range[int]{
		{Low: 1, High: 3},
		{Low: 2, High: 6},
		{Low: 8, High: 10},
	}, intervals)
}

func TestReadIntervalsCSV(t *testing.T) {
	t.Parallel()

	path := writeInput(t, "in.csv", "1,3\n2, 6\n8,10\n")

	intervals, err := commands.ReadIntervals(path)
	require.NoError(t, err)

	assert.Equal(t, []rangeset.Range[int]{
		{Low: 1, High: 3},
		{Low: 2, High: 6},
		{Low: 8, High: 10},
	}, intervals)
}

func TestReadIntervalsRejectsBadShape(t *testing.T) {
	t.Parallel()

	path := writeInput(t, "in.json", `[[1,2,3]]`)

	_, err := commands.ReadIntervals(path)
	require.ErrorIs(t, err, commands.ErrSchemaViolation)
}

func TestReadIntervalsRejectsStrings(t *testing.T) {
	t.Parallel()

	path := writeInput(t, "in.json", `[["a","b"]]`)

	_, err := commands.ReadIntervals(path)
	require.ErrorIs(t, err, commands.ErrSchemaViolation)
}

func TestReadIntervalsRejectsInvertedPair(t *testing.T) {
	t.Parallel()

	path := writeInput(t, "in.json", `[[9,2]]`)

	_, err := commands.ReadIntervals(path)
	require.ErrorIs(t, err, commands.ErrInvalidInterval)
}

func TestReadIntervalsRejectsNegativeCSV(t *testing.T) {
	t.Parallel()

	path := writeInput(t, "in.csv", "-3,5\n")

	_, err := commands.ReadIntervals(path)
	require.ErrorIs(t, err, commands.ErrInvalidInterval)
}

func TestReadIntervalsRejectsShortCSVRecord(t *testing.T) {
	t.Parallel()

	path := writeInput(t, "in.csv", "1\n")

	_, err := commands.ReadIntervals(path)
	require.ErrorIs(t, err, commands.ErrInvalidInterval)
}

func TestReadIntervalsMissingFile(t *testing.T) {
	t.Parallel()

	_, err := commands.ReadIntervals(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
