package graph

import (
	"fmt"
	"strconv"

	"github.com/nebulamap/nebulamap/maperr"
)

// Value is the transient result of extracting one property from one record.
// Raw holds one of string, int64, float64 or bool; IsNull short-circuits
// both transformation and type conversion.
type Value struct {
	// NebulaType is the declared target type name, kept for diagnostics.
	NebulaType string

	Raw    any
	IsNull bool
}

// FormatValue renders a Value as nGQL literal text: NULL for nulls, quoted
// text for strings, bare true/false for booleans, decimal text for numbers.
//
// String payloads are wrapped in double quotes without escaping embedded
// quotes or backslashes, matching the established statement output.
func FormatValue(v Value) (string, error) {
	if v.IsNull {
		return "NULL", nil
	}

	switch raw := v.Raw.(type) {
	case string:
		return `"` + raw + `"`, nil
	case bool:
		if raw {
			return "true", nil
		}
		return "false", nil
	case int64:
		return strconv.FormatInt(raw, 10), nil
	case float64:
		return strconv.FormatFloat(raw, 'g', -1, 64), nil
	default:
		return "", maperr.NewDataError("graph.FormatValue",
			fmt.Errorf("unsupported value payload %T", v.Raw))
	}
}

// joinValues joins already-formatted parts with ", ", the separator used for
// both property lists and value tuples.
func joinValues(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
