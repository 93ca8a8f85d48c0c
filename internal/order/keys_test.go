package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want string
	}{
		{name: "unbounded", a: "", b: "", want: "V"},
		{name: "after", a: "V", b: "", want: "l"},
		{name: "before", a: "", b: "V", want: "G"},
		{name: "adjacent digits", a: "a", b: "b", want: "aV"},
		{name: "shared prefix", a: "a", b: "a1", want: "a0V"},
		{name: "below smallest digit", a: "", b: "1", want: "0V"},
		{name: "after last digit", a: "az", b: "b", want: "azV"},
		{name: "longer upper", a: "a", b: "c5", want: "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := KeyBetween(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, IsValidKey(got))
			if tt.a != "" {
				assert.Greater(t, got, tt.a)
			}
			if tt.b != "" {
				assert.Less(t, got, tt.b)
			}
		})
	}
}

func TestKeyBetweenRejectsBadBounds(t *testing.T) {
	for _, bounds := range [][2]string{{"b", "a"}, {"a", "a"}, {"a0", ""}, {"", "a-"}} {
		_, err := KeyBetween(bounds[0], bounds[1])
		assert.ErrorIs(t, err, ErrInvalidKey, "bounds %v", bounds)
	}
}

func TestIsValidKey(t *testing.T) {
	assert.True(t, IsValidKey("a1"))
	assert.False(t, IsValidKey(""))
	assert.False(t, IsValidKey("a0"))
	assert.False(t, IsValidKey("a b"))
}

func TestKeysBetweenAscending(t *testing.T) {
	cases := [][2]string{{"", ""}, {"a", ""}, {"", "a"}, {"a", "b"}, {"V", "W"}}
	for _, c := range cases {
		keys, err := KeysBetween(c[0], c[1], 25)
		require.NoError(t, err)
		require.Len(t, keys, 25)
		prev := c[0]
		for _, k := range keys {
			assert.True(t, IsValidKey(k), k)
			if prev != "" {
				assert.Greater(t, k, prev)
			}
			prev = k
		}
		if c[1] != "" {
			assert.Less(t, prev, c[1])
		}
	}

	none, err := KeysBetween("a", "b", 0)
	assert.NoError(t, err)
	assert.Nil(t, none)
}
