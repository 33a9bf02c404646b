// Package dg implements the dodecagram codec: base-12 numerals using the
// digits 0-9 plus X for ten and Y for eleven.
package dg

import "fmt"

const digits = "0123456789XY"

// ToDG encodes a decimal integer as dodecagram text.
func ToDG(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [16]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = digits[n%12]
		n /= 12
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// FromDG decodes dodecagram text to a decimal integer.
func FromDG(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty dodecagram")
	}
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
		if s == "" {
			return 0, fmt.Errorf("empty dodecagram")
		}
	}
	n := 0
	for _, ch := range []byte(s) {
		d, err := digitValue(ch)
		if err != nil {
			return 0, err
		}
		n = n*12 + d
	}
	if neg {
		n = -n
	}
	return n, nil
}

// AddDG adds two dodecagrams and returns the dodecagram sum.
func AddDG(a, b string) (string, error) {
	x, err := FromDG(a)
	if err != nil {
		return "", err
	}
	y, err := FromDG(b)
	if err != nil {
		return "", err
	}
	return ToDG(x + y), nil
}

func digitValue(ch byte) (int, error) {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0'), nil
	case ch == 'X':
		return 10, nil
	case ch == 'Y':
		return 11, nil
	}
	return 0, fmt.Errorf("invalid dodecagram digit %q", string(ch))
}
