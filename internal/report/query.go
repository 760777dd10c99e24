package report

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/itchyny/gojq"
)

// ErrInvalidQuery wraps jq parse and compile failures.
var ErrInvalidQuery = errors.New("report: invalid query")

// Query evaluates the jq expression expr against the JSON form of v and
// returns every value it emits.
func Query(expr string, v any) ([]any, error) {
	parsed, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	input, err := toJSONValue(v)
	if err != nil {
		return nil, err
	}

	results := []any{}
	iter := code.Run(input)
	for {
		out, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := out.(error); ok {
			var halt *gojq.HaltError
			if errors.As(err, &halt) && halt.Value() == nil {
				break
			}
			return nil, fmt.Errorf("report: query %q: %w", expr, err)
		}
		results = append(results, out)
	}
	return results, nil
}

// toJSONValue converts v to the generic map/slice form gojq operates on.
func toJSONValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("report: encode query input: %w", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("report: decode query input: %w", err)
	}
	return out, nil
}
