package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebulamap/nebulamap/nebula"
)

func applyBuiltin(t *testing.T, name string, raw any, params map[string]string) (Value, error) {
	t.Helper()
	return NewRegistry().Apply(name, Value{Raw: raw, Source: nebula.TypeString}, params)
}

func TestToBoolean(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    bool
		wantErr bool
	}{
		{name: "upper true", in: "TRUE", want: true},
		{name: "yes", in: "yes", want: true},
		{name: "one", in: "1", want: true},
		{name: "mixed case no", in: "No", want: false},
		{name: "zero", in: "0", want: false},
		{name: "false", in: "false", want: false},
		{name: "unrecognized word", in: "maybe", wantErr: true},
		{name: "empty string", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := applyBuiltin(t, "to_boolean", tt.in, nil)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid boolean value")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Raw)
			assert.Equal(t, nebula.TypeBool, out.Target)
		})
	}
}

func TestPriceNormalize(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    int64
		wantErr bool
	}{
		{name: "currency and separators", in: "$1,234.56", want: 123456},
		{name: "plain digits", in: "99", want: 99},
		{name: "integer input", in: int64(1500), want: 1500},
		{name: "no digits at all", in: "free", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := applyBuiltin(t, "price_normalize", tt.in, nil)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Raw)
			assert.Equal(t, nebula.TypeInt64, out.Target)
		})
	}
}

func TestStringNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "surrounding and internal runs", in: "  hello   world  ", want: "hello world"},
		{name: "tabs and newlines", in: "a\t\tb\nc", want: "a b c"},
		{name: "already clean", in: "clean", want: "clean"},
		{name: "only whitespace", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := applyBuiltin(t, "string_normalize", tt.in, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Raw)
		})
	}
}

func TestArrayJoin(t *testing.T) {
	out, err := applyBuiltin(t, "array_join", "a, b ,c", nil)
	require.NoError(t, err)
	assert.Equal(t, "a,b,c", out.Raw)

	out, err = applyBuiltin(t, "array_join", "x | y|z", map[string]string{"delimiter": "|"})
	require.NoError(t, err)
	assert.Equal(t, "x|y|z", out.Raw)
}

func TestTimeFormat(t *testing.T) {
	out, err := applyBuiltin(t, "time_format", "2024/03/15 10:30",
		map[string]string{"format": "2006/01/02 15:04"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15 10:30:00", out.Raw)
	assert.Equal(t, nebula.TypeTimestamp, out.Target)

	_, err = applyBuiltin(t, "time_format", "2024/03/15", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required parameter: format")

	_, err = applyBuiltin(t, "time_format", "not a date",
		map[string]string{"format": "2006-01-02"})
	require.Error(t, err)
}

func TestCoercions(t *testing.T) {
	s, err := asString(Value{Raw: int64(42)})
	require.NoError(t, err)
	assert.Equal(t, "42", s)

	s, err = asString(Value{Raw: 2.5})
	require.NoError(t, err)
	assert.Equal(t, "2.5", s)

	s, err = asString(Value{Raw: true})
	require.NoError(t, err)
	assert.Equal(t, "true", s)

	_, err = asString(Value{Raw: []string{"x"}})
	assert.Error(t, err)
}
