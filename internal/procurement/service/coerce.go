package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// looseNumber reads a JSON value that may carry a number as a number, a
// string, a bool or null. truthy follows the usual loose rules: null, 0, "",
// false and empty arrays/objects are falsy. err is set only for truthy values
// that do not read as a finite number.
func looseNumber(raw json.RawMessage) (value float64, truthy bool, err error) {
	if len(raw) == 0 {
		return 0, false, nil
	}

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false, fmt.Errorf("invalid number: %w", err)
	}

	switch x := v.(type) {
	case nil:
		return 0, false, nil
	case bool:
		if x {
			return 1, true, nil
		}
		return 0, false, nil
	case float64:
		return x, x != 0, nil
	case string:
		if x == "" {
			return 0, false, nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, true, fmt.Errorf("could not convert string to number: %q", x)
		}
		return f, true, nil
	case []interface{}:
		if len(x) == 0 {
			return 0, false, nil
		}
	case map[string]interface{}:
		if len(x) == 0 {
			return 0, false, nil
		}
	}
	return 0, true, fmt.Errorf("number expected, got %s", string(raw))
}

// estimatedCostFrom coerces a submitted estimated cost. Anything that does not
// read as a number counts as 0.
func estimatedCostFrom(raw json.RawMessage) float64 {
	v, truthy, err := looseNumber(raw)
	if err != nil || !truthy {
		return 0
	}
	return v
}

// actualCostFrom coerces a submitted actual cost. Falsy values clear the cost.
func actualCostFrom(raw json.RawMessage) (*float64, error) {
	v, truthy, err := looseNumber(raw)
	if err != nil {
		return nil, err
	}
	if !truthy {
		return nil, nil
	}
	return &v, nil
}
