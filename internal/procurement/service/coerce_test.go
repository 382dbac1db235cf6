package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActualCostFrom(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want *float64
	}{
		{"absent", "", nil},
		{"null", "null", nil},
		{"zero", "0", nil},
		{"empty string", `""`, nil},
		{"false", "false", nil},
		{"number", "950", floatPtr(950)},
		{"fraction", "12.5", floatPtr(12.5)},
		{"numeric string", `"150"`, floatPtr(150)},
		{"padded string", `" 42.75 "`, floatPtr(42.75)},
		{"zero string", `"0"`, floatPtr(0)},
		{"true", "true", floatPtr(1)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := actualCostFrom(json.RawMessage(tc.raw))
			require.NoError(t, err)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tc.want, *got)
		})
	}
}

func TestActualCostFromRejectsNonNumeric(t *testing.T) {
	for _, raw := range []string{`"abc"`, `"NaN"`, `"inf"`, `[1]`, `{"a":1}`} {
		_, err := actualCostFrom(json.RawMessage(raw))
		assert.Error(t, err, raw)
	}
}

func TestEstimatedCostFrom(t *testing.T) {
	assert.Equal(t, 0.0, estimatedCostFrom(nil))
	assert.Equal(t, 0.0, estimatedCostFrom(json.RawMessage("null")))
	assert.Equal(t, 0.0, estimatedCostFrom(json.RawMessage(`"not a number"`)))
	assert.Equal(t, 1000.0, estimatedCostFrom(json.RawMessage("1000")))
	assert.Equal(t, 99.9, estimatedCostFrom(json.RawMessage(`"99.9"`)))
}

func floatPtr(v float64) *float64 {
	return &v
}
