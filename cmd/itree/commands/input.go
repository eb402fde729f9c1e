package commands

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/ale-mal/interval-tree/pkg/rangeset"
)

// Input parsing errors.
var (
	ErrInvalidInterval = errors.New("invalid interval")
	ErrSchemaViolation = errors.New("input does not match the interval schema")
)

const intervalArity = 2

// intervalsSchema validates the JSON input shape: a list of [low, high]
// integer pairs.
const intervalsSchema = `{
	"type": "array",
	"items": {
		"type": "array",
		"items": {"type": "integer", "minimum": 0},
		"minItems": 2,
		"maxItems": 2
	}
}`

// ReadIntervals loads [low, high] pairs from the given path, or from stdin
// when the path is "-". The format is detected from the extension: ".csv"
// parses "low,high" records, everything else parses JSON.
func ReadIntervals(path string) ([]rangeset.Range[int], error) {
	var (
		data []byte
		err  error
	)

	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, fmt.Errorf("read intervals: %w", err)
	}

	if strings.HasSuffix(path, ".csv") {
		return parseCSVIntervals(data)
	}

	return parseJSONIntervals(data)
}

func parseJSONIntervals(data []byte) ([]rangeset.Range[int], error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(intervalsSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("validate intervals: %w", err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}

		return nil, fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(details, "; "))
	}

	var pairs [][]int

	err = json.Unmarshal(data, &pairs)
	if err != nil {
		return nil, fmt.Errorf("unmarshal intervals: %w", err)
	}

	ranges := make([]rangeset.Range[int], 0, len(pairs))

	for _, pair := range pairs {
		rng, pairErr := pairToRange(pair)
		if pairErr != nil {
			return nil, pairErr
		}

		ranges = append(ranges, rng)
	}

	return ranges, nil
}

func parseCSVIntervals(data []byte) ([]rangeset.Range[int], error) {
	reader := csv.NewReader(strings.NewReader(string(data)))

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv intervals: %w", err)
	}

	ranges := make([]rangeset.Range[int], 0, len(records))

	for _, record := range records {
		if len(record) != intervalArity {
			return nil, fmt.Errorf("%w: expected 2 fields, got %d", ErrInvalidInterval, len(record))
		}

		pair := make([]int, intervalArity)

		for idx, field := range record {
			value, convErr := strconv.Atoi(strings.TrimSpace(field))
			if convErr != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidInterval, field)
			}

			pair[idx] = value
		}

		rng, pairErr := pairToRange(pair)
		if pairErr != nil {
			return nil, pairErr
		}

		ranges = append(ranges, rng)
	}

	return ranges, nil
}

func pairToRange(pair []int) (rangeset.Range[int], error) {
	if len(pair) != intervalArity {
		return rangeset.Range[int]{}, fmt.Errorf("%w: expected 2 endpoints, got %d", ErrInvalidInterval, len(pair))
	}

	if pair[0] < 0 {
		return rangeset.Range[int]{}, fmt.Errorf("%w: negative low %d", ErrInvalidInterval, pair[0])
	}

	if pair[0] > pair[1] {
		return rangeset.Range[int]{}, fmt.Errorf("%w: low %d exceeds high %d", ErrInvalidInterval, pair[0], pair[1])
	}

	return rangeset.Range[int]{Low: pair[0], High: pair[1]}, nil
}
