package jsonpath

import (
	"encoding/json"
	"testing"
)

// TestKindOf verifies JSON kind classification, in particular the
// json.Number integer/float split.
func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Kind
	}{
		{name: "nil", in: nil, want: KindNull},
		{name: "object", in: map[string]any{}, want: KindObject},
		{name: "array", in: []any{}, want: KindArray},
		{name: "string", in: "x", want: KindString},
		{name: "bool", in: true, want: KindBool},
		{name: "integral number", in: json.Number("42"), want: KindInt},
		{name: "negative integral", in: json.Number("-7"), want: KindInt},
		{name: "fractional number", in: json.Number("3.14"), want: KindFloat},
		{name: "exponent number", in: json.Number("1e3"), want: KindFloat},
		{name: "overflowing integral", in: json.Number("92233720368547758080"), want: KindFloat},
		{name: "foreign type", in: struct{}{}, want: KindInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.in); got != tt.want {
				t.Errorf("KindOf(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// TestParsePreservesNumbers verifies numbers decode as json.Number so the
// integer/float distinction survives.
func TestParsePreservesNumbers(t *testing.T) {
	doc, err := Parse([]byte(`{"i": 7, "f": 7.5}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	obj := doc.(map[string]any)

	if _, ok := obj["i"].(json.Number); !ok {
		t.Errorf("integer decoded as %T, want json.Number", obj["i"])
	}
	if KindOf(obj["i"]) != KindInt {
		t.Errorf("KindOf(i) = %v, want KindInt", KindOf(obj["i"]))
	}
	if KindOf(obj["f"]) != KindFloat {
		t.Errorf("KindOf(f) = %v, want KindFloat", KindOf(obj["f"]))
	}
}
