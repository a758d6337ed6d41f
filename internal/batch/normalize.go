package batch

import (
	"encoding/json"
	"fmt"

	"github.com/povarna/generative-ai-agents/dataset-eval/internal/models"
)

// NormalizeRow deep-copies a row into a JSON-safe form. Rows pass through
// this before score fields are appended, so the originals stay untouched and
// the report serializes cleanly.
func NormalizeRow(row models.Row) models.Row {
	normalized := make(models.Row, len(row))
	for key, value := range row {
		normalized[key] = NormalizeValue(value)
	}
	return normalized
}

// NormalizeValue converts an arbitrary value into something JSON-safe:
// primitives pass through, containers are copied recursively, numeric
// wrapper types are unwrapped, and anything else degrades to its string
// representation.
func NormalizeValue(value any) any {
	switch v := value.(type) {
	case nil, bool, string, float64, float32,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return v
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = NormalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = NormalizeValue(item)
		}
		return out
	case []string:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out
	default:
		// Unknown types round-trip through JSON when they can, otherwise
		// fall back to a string.
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		var decoded any
		if err := json.Unmarshal(data, &decoded); err != nil {
			return fmt.Sprintf("%v", v)
		}
		return decoded
	}
}
