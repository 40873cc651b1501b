package transform

import (
	"fmt"
	"strconv"

	"github.com/nebulamap/nebulamap/maperr"
	"github.com/nebulamap/nebulamap/nebula"
)

// Value is the scalar passed through a transform. Raw holds exactly one of
// string, int64, float64 or bool. Source records the JSON kind the value was
// extracted as; Target records the Nebula type the transform produced.
type Value struct {
	Raw    any
	Source nebula.Type
	Target nebula.Type
}

// asString coerces the raw scalar to a string, stringifying numeric and
// boolean payloads.
func asString(v Value) (string, error) {
	switch raw := v.Raw.(type) {
	case string:
		return raw, nil
	case int64:
		return strconv.FormatInt(raw, 10), nil
	case float64:
		return strconv.FormatFloat(raw, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(raw), nil
	default:
		return "", maperr.NewTransformError("transform.asString",
			fmt.Errorf("cannot convert value to requested type"))
	}
}

