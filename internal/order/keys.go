// Package order maintains paint order: it normalizes element positions and
// keeps every element's fractional index strictly increasing along the
// element slice.
//
// Index keys are strings over the base-62 alphabet 0-9A-Za-z compared
// bytewise. A valid key is non-empty and does not end in '0', which leaves
// room for a key between any two distinct keys.
package order

import (
	"errors"
	"fmt"
	"strings"
)

const digits = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// ErrInvalidKey is returned for keys outside the alphabet, empty keys, keys
// ending in '0', and bounds that are out of order.
var ErrInvalidKey = errors.New("invalid fractional index")

// IsValidKey reports whether k can be used as an element index.
func IsValidKey(k string) bool {
	if k == "" || k[len(k)-1] == digits[0] {
		return false
	}
	for i := 0; i < len(k); i++ {
		if strings.IndexByte(digits, k[i]) < 0 {
			return false
		}
	}
	return true
}

// KeyBetween returns a key strictly between a and b. An empty a means no lower
// bound and an empty b means no upper bound.
func KeyBetween(a, b string) (string, error) {
	if a != "" && !IsValidKey(a) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, a)
	}
	if b != "" && !IsValidKey(b) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, b)
	}
	if a != "" && b != "" && a >= b {
		return "", fmt.Errorf("%w: %q >= %q", ErrInvalidKey, a, b)
	}
	return midpoint(a, b), nil
}

// midpoint assumes validated input with a < b.
func midpoint(a, b string) string {
	if b != "" {
		// Shared prefix, treating a as padded with zeros.
		n := 0
		for n < len(b) && digitAt(a, n) == b[n] {
			n++
		}
		if n > 0 {
			return b[:n] + midpoint(suffix(a, n), b[n:])
		}
	}

	lo := 0
	if a != "" {
		lo = strings.IndexByte(digits, a[0])
	}
	hi := len(digits)
	if b != "" {
		hi = strings.IndexByte(digits, b[0])
	}
	if hi-lo > 1 {
		return string(digits[(lo+hi+1)/2])
	}
	if len(b) > 1 {
		return b[:1]
	}
	return string(digits[lo]) + midpoint(suffix(a, 1), "")
}

func digitAt(s string, i int) byte {
	if i < len(s) {
		return s[i]
	}
	return digits[0]
}

func suffix(s string, n int) string {
	if n >= len(s) {
		return ""
	}
	return s[n:]
}

// KeysBetween returns n ascending keys strictly between a and b.
func KeysBetween(a, b string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	if n == 1 {
		k, err := KeyBetween(a, b)
		if err != nil {
			return nil, err
		}
		return []string{k}, nil
	}
	if b == "" {
		out := make([]string, 0, n)
		c := a
		for i := 0; i < n; i++ {
			k, err := KeyBetween(c, "")
			if err != nil {
				return nil, err
			}
			out = append(out, k)
			c = k
		}
		return out, nil
	}
	if a == "" {
		out := make([]string, n)
		c := b
		for i := n - 1; i >= 0; i-- {
			k, err := KeyBetween("", c)
			if err != nil {
				return nil, err
			}
			out[i] = k
			c = k
		}
		return out, nil
	}

	mid := n / 2
	c, err := KeyBetween(a, b)
	if err != nil {
		return nil, err
	}
	left, err := KeysBetween(a, c, mid)
	if err != nil {
		return nil, err
	}
	right, err := KeysBetween(c, b, n-mid-1)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, n)
	out = append(out, left...)
	out = append(out, c)
	return append(out, right...), nil
}
