package urlutil

import (
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/WhileEndless/libhttp-go/pkg/errors"
)

// Decode percent-decodes s, turning '+' into a literal space, then validates
// that the resulting bytes form well-formed UTF-8.
func Decode(s string) (string, error) {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '+':
			out = append(out, ' ')
		case '%':
			if i+2 >= len(s) {
				return "", errors.NewURLParseError("url", "invalid percent-encoding")
			}
			hi, okHi := hexVal(s[i+1])
			lo, okLo := hexVal(s[i+2])
			if !okHi || !okLo {
				return "", errors.NewURLParseError("url", "invalid percent-encoding")
			}
			out = append(out, hi<<4|lo)
			i += 2
		default:
			out = append(out, s[i])
		}
	}
	if err := validateUTF8(out); err != nil {
		return "", err
	}
	return string(out), nil
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// validateUTF8 runs the x/text UTF-8 decoder as a fast reject, then the
// hand-rolled DFA below as the authoritative check the original decoder
// specifies (continuation-byte counting with overlong-encoding rejection via
// the leading byte's prefix bits).
func validateUTF8(b []byte) error {
	if len(b) > 0 {
		if _, _, err := transform.Bytes(unicode.UTF8.NewDecoder(), b); err != nil {
			return errors.NewURLParseError("url", "invalid percent-encoding: invalid utf-8")
		}
	}
	if !validateUTF8DFA(b) {
		return errors.NewURLParseError("url", "invalid percent-encoding: invalid utf-8")
	}
	return nil
}

// validateUTF8DFA walks b byte by byte, tracking how many continuation bytes
// (10xxxxxx) are expected to follow the current leader, and rejects
// overlong two/three/four-byte encodings by checking the leader's prefix
// bits and, where relevant, the first continuation byte's range.
func validateUTF8DFA(b []byte) bool {
	i := 0
	for i < len(b) {
		c := b[i]
		switch {
		case c < 0x80:
			i++
		case c&0xE0 == 0xC0: // 2-byte sequence
			if c < 0xC2 { // overlong
				return false
			}
			if i+1 >= len(b) || b[i+1]&0xC0 != 0x80 {
				return false
			}
			i += 2
		case c&0xF0 == 0xE0: // 3-byte sequence
			if i+2 >= len(b) || b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 {
				return false
			}
			if c == 0xE0 && b[i+1] < 0xA0 { // overlong
				return false
			}
			if c == 0xED && b[i+1] >= 0xA0 { // surrogate range
				return false
			}
			i += 3
		case c&0xF8 == 0xF0: // 4-byte sequence
			if c > 0xF4 {
				return false
			}
			if i+3 >= len(b) || b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 || b[i+3]&0xC0 != 0x80 {
				return false
			}
			if c == 0xF0 && b[i+1] < 0x90 { // overlong
				return false
			}
			i += 4
		default:
			return false
		}
	}
	return true
}
