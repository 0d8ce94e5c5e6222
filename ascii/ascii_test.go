package ascii

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tileFractions = `# tile fractions for Loobos
! 9 surface types
0.0  0.0 0.9 0.0 0.0 0.0 0.0 0.0 0.1
`

func TestParse(t *testing.T) {
	tab, err := Parse([]byte(tileFractions))
	require.NoError(t, err)
	assert.Equal(t, []string{"tile fractions for Loobos", "9 surface types"}, tab.Comment)
	require.Len(t, tab.Rows, 1)
	assert.Equal(t, 9, tab.Columns())
	assert.Equal(t, 0.9, tab.Rows[0][2])
}

func TestParseSkipsLaterComments(t *testing.T) {
	in := "1 2\n# not header\n3 4 ! inline\n\n5 6\n"
	tab, err := Parse([]byte(in))
	require.NoError(t, err)
	assert.Empty(t, tab.Comment)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}, {5, 6}}, tab.Rows)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not a number", "1 x\n"},
		{"ragged", "1 2\n3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.in))
			assert.True(t, errors.Is(err, ErrParse), "error = %v", err)
		})
	}
}

func TestEncode(t *testing.T) {
	tab := &Table{
		Comment: []string{"initial conditions"},
		Rows:    [][]float64{{0.749, 0.743}, {276.78, 1e-3}},
	}
	out, err := NewCodec().Encode(tab)
	require.NoError(t, err)
	assert.Equal(t, "# initial conditions\n0.74900 0.74300\n276.78000 0.00100\n", string(out))

	out, err = NewCodec(Precision(1)).Encode([][]float64{{1.25}})
	require.NoError(t, err)
	assert.Equal(t, "1.2\n", string(out))

	_, err = NewCodec().Encode("nope")
	assert.True(t, errors.Is(err, ErrFormat))
	_, err = NewCodec().Encode(&Table{Rows: [][]float64{{1, 2}, {3}}})
	assert.True(t, errors.Is(err, ErrFormat))
	_, err = NewCodec().Encode((*Table)(nil))
	assert.True(t, errors.Is(err, ErrFormat), "error = %v", err)
}

func TestRoundTrip(t *testing.T) {
	c := NewCodec()
	first, err := c.Decode([]byte(tileFractions))
	require.NoError(t, err)
	out, err := c.Encode(first)
	require.NoError(t, err)
	second, err := c.Decode(out)
	require.NoError(t, err)
	assert.True(t, first.(*Table).Equal(second.(*Table)), "round trip changed table:\n%s", out)
}

func TestDecodeJSON(t *testing.T) {
	c := NewCodec()
	v, err := c.DecodeJSON([]byte(`{"Comment": ["forcing"], "Rows": [[1, 2.5], [3, 4]]}`))
	require.NoError(t, err)
	want := &Table{Comment: []string{"forcing"}, Rows: [][]float64{{1, 2.5}, {3, 4}}}
	assert.True(t, want.Equal(v.(*Table)), "got %+v", v)

	for _, bad := range []string{`{"Rows": [[1, 2], [3]]}`, `"1 2"`, `{"Rows": [["a"]]}`} {
		_, err := c.DecodeJSON([]byte(bad))
		assert.True(t, errors.Is(err, ErrFormat), "%s: error = %v", bad, err)
	}
}
