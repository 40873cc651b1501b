package nebula

import (
	"fmt"
	"strings"

	"github.com/nebulamap/nebulamap/maperr"
)

// Type identifies a Nebula Graph scalar type.
type Type int

const (
	// TypeUnknown is the zero value; it never resolves through ParseType.
	TypeUnknown Type = iota
	TypeBool
	TypeInt64
	TypeDouble
	TypeString
	TypeFixedString
	TypeTimestamp
	TypeDate
	TypeTime
	TypeDatetime
)

// String returns the canonical Nebula type name.
func (t Type) String() string {
	switch t {
	case TypeBool:
		return "BOOL"
	case TypeInt64:
		return "INT64"
	case TypeDouble:
		return "DOUBLE"
	case TypeString:
		return "STRING"
	case TypeFixedString:
		return "FIXED_STRING"
	case TypeTimestamp:
		return "TIMESTAMP"
	case TypeDate:
		return "DATE"
	case TypeTime:
		return "TIME"
	case TypeDatetime:
		return "DATETIME"
	default:
		return "UNKNOWN"
	}
}

// parseTable maps upper-cased declared type names, including aliases, to the
// closed Type set.
var parseTable = map[string]Type{
	"BOOL":         TypeBool,
	"BOOLEAN":      TypeBool,
	"INT":          TypeInt64,
	"INTEGER":      TypeInt64,
	"INT8":         TypeInt64,
	"INT16":        TypeInt64,
	"INT32":        TypeInt64,
	"INT64":        TypeInt64,
	"FLOAT":        TypeDouble,
	"DOUBLE":       TypeDouble,
	"STRING":       TypeString,
	"VARCHAR":      TypeString,
	"FIXED_STRING": TypeFixedString,
	"TIMESTAMP":    TypeTimestamp,
	"DATE":         TypeDate,
	"TIME":         TypeTime,
	"DATETIME":     TypeDatetime,
}

// ParseType resolves a declared type name case-insensitively.
// Returns TypeUnknown, false for names outside the closed set.
func ParseType(name string) (Type, bool) {
	t, ok := parseTable[strings.ToUpper(name)]
	return t, ok
}

// Default lengths for string types when the mapping supplies none.
const (
	DefaultStringLength      = 256
	DefaultFixedStringLength = 32

	// MaxStringLength is the Nebula Graph limit on declared string lengths.
	MaxStringLength = 65535
)

// passthroughTypes are declared names emitted unchanged by ConvertType when
// they do not go through the alias table (sized integers keep their width in
// schema DDL even though values extract as INT64).
var passthroughTypes = map[string]struct{}{
	"INT8": {}, "INT16": {}, "INT32": {}, "INT64": {},
}

// ConvertType converts a declared type name into its schema DDL form.
// String types get an explicit length: the supplied stringLength when
// positive, otherwise the per-type default. Lengths above MaxStringLength
// are rejected, as are names outside the known set.
func ConvertType(name string, stringLength int) (string, error) {
	upper := strings.ToUpper(name)

	switch upper {
	case "STRING", "FIXED_STRING", "VARCHAR":
		length := stringLength
		if length <= 0 {
			if upper == "FIXED_STRING" {
				length = DefaultFixedStringLength
			} else {
				length = DefaultStringLength
			}
		}
		if length > MaxStringLength {
			return "", maperr.NewSchemaError("ConvertType",
				fmt.Errorf("string length exceeds maximum allowed: %d", length))
		}
		return fmt.Sprintf("%s(%d)", upper, length), nil
	}

	switch upper {
	case "INT", "INTEGER":
		return "INT64", nil
	case "FLOAT":
		return "DOUBLE", nil
	case "BOOLEAN":
		return "BOOL", nil
	case "BOOL", "DOUBLE", "TIMESTAMP", "DATE", "TIME", "DATETIME":
		return upper, nil
	}

	if _, ok := passthroughTypes[upper]; ok {
		return upper, nil
	}

	return "", maperr.NewSchemaError("ConvertType",
		fmt.Errorf("%w: %s", maperr.ErrUnsupportedType, name))
}

// baseType strips a trailing length specification, e.g. "STRING(256)" to
// "STRING".
func baseType(t string) string {
	if i := strings.IndexByte(t, '('); i >= 0 {
		return t[:i]
	}
	return t
}

// IsNumericType reports whether a converted type name is numeric.
func IsNumericType(t string) bool {
	switch baseType(t) {
	case "INT", "INT8", "INT16", "INT32", "INT64", "FLOAT", "DOUBLE":
		return true
	}
	return false
}

// IsStringType reports whether a converted type name is a string type.
func IsStringType(t string) bool {
	switch baseType(t) {
	case "STRING", "FIXED_STRING", "VARCHAR":
		return true
	}
	return false
}
