package header

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeaderSetGetCaseInsensitive(t *testing.T) {
	h := New()
	require.NoError(t, h.Set("Content-Type", "text/plain"))

	v, ok := h.Get("content-type")
	require.True(t, ok)
	require.Equal(t, "text/plain", v)

	v, ok = h.Get("CONTENT-TYPE")
	require.True(t, ok)
	require.Equal(t, "text/plain", v)
}

func TestHeaderLastWriteWinsPreservesCasing(t *testing.T) {
	h := New()
	require.NoError(t, h.Set("X-Custom", "first"))
	require.NoError(t, h.Set("x-custom", "second"))

	v, ok := h.Get("X-CUSTOM")
	require.True(t, ok)
	require.Equal(t, "second", v)
	require.Equal(t, 1, h.Len())

	var sb strings.Builder
	require.NoError(t, h.Send(&sb))
	require.Contains(t, sb.String(), "x-custom: second\r\n")
}

func TestHeaderParse(t *testing.T) {
	h := New()
	h.Parse("Content-Length:   13  ")
	v, ok := h.Get("content-length")
	require.True(t, ok)
	require.Equal(t, "13", v)
}

func TestHeaderParseEmptyKeyIgnored(t *testing.T) {
	h := New()
	h.Parse(": no key")
	require.Equal(t, 0, h.Len())
}

func TestHeaderParseNoColonIgnored(t *testing.T) {
	h := New()
	h.Parse("not a header line")
	require.Equal(t, 0, h.Len())
}

func TestHeaderDelAndClear(t *testing.T) {
	h := New()
	require.NoError(t, h.Set("A", "1"))
	require.NoError(t, h.Set("B", "2"))
	h.Del("a")
	require.False(t, h.Has("A"))
	require.True(t, h.Has("B"))

	h.Clear()
	require.Equal(t, 0, h.Len())
}

func TestHeaderSetRejectsInvalidFieldName(t *testing.T) {
	h := New()
	err := h.Set("Bad Header", "value")
	require.Error(t, err)
}

func TestHeaderSetRawBypassesValidation(t *testing.T) {
	h := New()
	h.SetRaw("Host", "example.com:8080")
	v, ok := h.Get("host")
	require.True(t, ok)
	require.Equal(t, "example.com:8080", v)
}

func TestHeaderEach(t *testing.T) {
	h := New()
	require.NoError(t, h.Set("A", "1"))
	require.NoError(t, h.Set("B", "2"))

	seen := map[string]string{}
	h.Each(func(k, v string) { seen[k] = v })
	require.Equal(t, map[string]string{"A": "1", "B": "2"}, seen)
}
