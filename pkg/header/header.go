// Package header implements a case-insensitive header dictionary that
// preserves the wire casing of the last-set key.
package header

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/http/httpguts"

	"github.com/WhileEndless/libhttp-go/pkg/errors"
)

// pair holds one stored header: the casing it was last written with, and its
// value. The map it lives in is keyed by the ASCII-lowercased form of the
// key, so lookups are case-insensitive while Send still emits the casing the
// caller used.
type pair struct {
	key   string
	value string
}

// Header is a case-insensitive key/value dictionary. The zero value is not
// usable; construct with New.
type Header struct {
	entries map[string]pair
}

// New returns an empty Header.
func New() *Header {
	return &Header{entries: make(map[string]pair)}
}

// asciiLower lowercases only ASCII letters, matching the hash-over-folded-
// bytes approach the header dictionary is specified against.
func asciiLower(s string) string {
	b := []byte(s)
	changed := false
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
			changed = true
		}
	}
	if !changed {
		return s
	}
	return string(b)
}

// Set stores value under key, overwriting any prior value and adopting key's
// casing for Send. It rejects field names/values containing bytes RFC 7230
// forbids.
func (h *Header) Set(key, value string) error {
	if !httpguts.ValidHeaderFieldName(key) {
		return errors.NewRequestParseError("header", fmt.Sprintf("invalid header field name %q", key), nil)
	}
	if !httpguts.ValidHeaderFieldValue(value) {
		return errors.NewRequestParseError("header", fmt.Sprintf("invalid header field value for %q", key), nil)
	}
	h.entries[asciiLower(key)] = pair{key: key, value: value}
	return nil
}

// SetRaw stores value under key without RFC 7230 validation, for headers the
// library itself builds from already-trusted data (the Authorization header
// written by the auth package).
func (h *Header) SetRaw(key, value string) {
	h.entries[asciiLower(key)] = pair{key: key, value: value}
}

// Get returns the value stored for key (case-insensitive) and whether it was
// present.
func (h *Header) Get(key string) (string, bool) {
	p, ok := h.entries[asciiLower(key)]
	if !ok {
		return "", false
	}
	return p.value, true
}

// Has reports whether key is present, case-insensitively.
func (h *Header) Has(key string) bool {
	_, ok := h.entries[asciiLower(key)]
	return ok
}

// Del removes key, case-insensitively.
func (h *Header) Del(key string) {
	delete(h.entries, asciiLower(key))
}

// Clear empties the dictionary for reuse on the next parse.
func (h *Header) Clear() {
	for k := range h.entries {
		delete(h.entries, k)
	}
}

// Len returns the number of distinct keys stored.
func (h *Header) Len() int {
	return len(h.entries)
}

// Parse splits line at the first colon and stores the result. The key is
// right-trimmed, the value left-trimmed; an empty key is ignored (not an
// error) and a duplicate key overwrites the previous value, per the last-
// write-wins rule.
func (h *Header) Parse(line string) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return
	}
	key := strings.TrimRight(line[:idx], " \t")
	value := strings.TrimLeft(line[idx+1:], " \t")
	value = strings.TrimRight(value, " \t\r\n")
	if key == "" {
		return
	}
	h.entries[asciiLower(key)] = pair{key: key, value: value}
}

// Send writes every stored header as "<Wire-Key>: <value>\r\n". Iteration
// order follows Go map range order and is unspecified, matching the
// dictionary's hash-based storage.
func (h *Header) Send(w io.Writer) error {
	for _, p := range h.entries {
		if _, err := fmt.Fprintf(w, "%s: %s\r\n", p.key, p.value); err != nil {
			return errors.NewIOError("writing header", err)
		}
	}
	return nil
}

// Each calls fn once per stored header, in unspecified order.
func (h *Header) Each(fn func(key, value string)) {
	for _, p := range h.entries {
		fn(p.key, p.value)
	}
}
