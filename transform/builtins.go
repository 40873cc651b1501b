package transform

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nebulamap/nebulamap/maperr"
	"github.com/nebulamap/nebulamap/nebula"
)

// canonicalTimeLayout is the layout every time_format result is re-emitted
// in, regardless of the input format.
const canonicalTimeLayout = "2006-01-02 15:04:05"

// timeFormat parses the input per params["format"] (a Go reference layout)
// and re-emits it in the canonical "YYYY-MM-DD HH:MM:SS" form, tagged
// TIMESTAMP.
func timeFormat(v Value, params map[string]string) (Value, error) {
	layout, ok := params["format"]
	if !ok {
		return Value{}, maperr.NewTransformError("transform.time_format",
			fmt.Errorf("missing required parameter: format"))
	}

	s, err := asString(v)
	if err != nil {
		return Value{}, err
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return Value{}, maperr.NewTransformError("transform.time_format",
			fmt.Errorf("failed to parse time string %q: %w", s, err))
	}

	return Value{
		Raw:    t.Format(canonicalTimeLayout),
		Source: nebula.TypeString,
		Target: nebula.TypeTimestamp,
	}, nil
}

// priceNormalize strips every non-digit character and parses the remainder
// as an integer, so "$1,234.56" becomes 123456.
func priceNormalize(v Value, _ map[string]string) (Value, error) {
	s, err := asString(v)
	if err != nil {
		return Value{}, err
	}

	var digits strings.Builder
	for _, c := range s {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}

	n, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return Value{}, maperr.NewTransformError("transform.price_normalize",
			fmt.Errorf("failed to parse price %q: %w", s, err))
	}

	return Value{Raw: n, Source: nebula.TypeString, Target: nebula.TypeInt64}, nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// stringNormalize trims leading/trailing whitespace and collapses internal
// runs of whitespace to single spaces.
func stringNormalize(v Value, _ map[string]string) (Value, error) {
	s, err := asString(v)
	if err != nil {
		return Value{}, err
	}

	normalized := whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
	return Value{Raw: normalized, Source: nebula.TypeString, Target: nebula.TypeString}, nil
}

// arrayJoin splits the input on the delimiter (params["delimiter"],
// default ","), trims each part and rejoins with the same delimiter.
func arrayJoin(v Value, params map[string]string) (Value, error) {
	delimiter := ","
	if d, ok := params["delimiter"]; ok {
		delimiter = d
	}

	s, err := asString(v)
	if err != nil {
		return Value{}, err
	}

	parts := strings.Split(s, delimiter)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}

	return Value{
		Raw:    strings.Join(parts, delimiter),
		Source: nebula.TypeString,
		Target: nebula.TypeString,
	}, nil
}

// boolWords maps accepted textual boolean spellings, lower-cased.
var boolWords = map[string]bool{
	"true": true, "1": true, "yes": true,
	"false": false, "0": false, "no": false,
}

// toBoolean maps {true,1,yes} and {false,0,no} case-insensitively; every
// other value is an error.
func toBoolean(v Value, _ map[string]string) (Value, error) {
	s, err := asString(v)
	if err != nil {
		return Value{}, err
	}

	b, ok := boolWords[strings.ToLower(s)]
	if !ok {
		return Value{}, maperr.NewTransformError("transform.to_boolean",
			fmt.Errorf("invalid boolean value: %q", s))
	}

	return Value{Raw: b, Source: nebula.TypeString, Target: nebula.TypeBool}, nil
}
