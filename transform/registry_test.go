package transform

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebulamap/nebulamap/maperr"
	"github.com/nebulamap/nebulamap/nebula"
)

func TestRegistryBuiltins(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{"time_format", "price_normalize", "string_normalize", "array_join", "to_boolean"} {
		assert.True(t, r.Has(name), "built-in %s should be registered", name)
	}
	assert.Equal(t,
		[]string{"array_join", "price_normalize", "string_normalize", "time_format", "to_boolean"},
		r.Names())
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	r.Register("upper", func(v Value, _ map[string]string) (Value, error) {
		s, err := asString(v)
		if err != nil {
			return Value{}, err
		}
		return Value{Raw: strings.ToUpper(s), Source: v.Source, Target: nebula.TypeString}, nil
	})

	out, err := r.Apply("upper", Value{Raw: "abc", Source: nebula.TypeString}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ABC", out.Raw)
}

func TestRegistryApplyUnknown(t *testing.T) {
	r := NewRegistry()

	_, err := r.Apply("frobnicate", Value{Raw: "x"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, maperr.ErrTransformNotFound))
	assert.Contains(t, err.Error(), "frobnicate")
}
