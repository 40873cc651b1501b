package jsonpath

import (
	"encoding/json"
	"strings"
)

// Kind identifies the JSON kind of a decoded value.
type Kind int

const (
	KindNull Kind = iota
	KindObject
	KindArray
	KindString
	KindInt
	KindFloat
	KindBool
	// KindInvalid marks values outside the decoded-JSON value set.
	KindInvalid
)

// String returns the kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "invalid"
	}
}

// KindOf classifies a value decoded by Parse. json.Number values count as
// KindInt when they carry no fractional or exponent part and fit in int64.
func KindOf(v any) Kind {
	switch n := v.(type) {
	case nil:
		return KindNull
	case map[string]any:
		return KindObject
	case []any:
		return KindArray
	case string:
		return KindString
	case bool:
		return KindBool
	case json.Number:
		if isIntegral(n) {
			return KindInt
		}
		return KindFloat
	case float64:
		return KindFloat
	case int64, int:
		return KindInt
	default:
		return KindInvalid
	}
}

func isIntegral(n json.Number) bool {
	s := n.String()
	if strings.ContainsAny(s, ".eE") {
		return false
	}
	_, err := n.Int64()
	return err == nil
}
