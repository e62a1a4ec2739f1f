package urlutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseQueryBasic(t *testing.T) {
	q, err := ParseQuery("k1=v1&k2=v2")
	require.NoError(t, err)
	v1, ok := q.Get("k1")
	require.True(t, ok)
	require.Equal(t, "v1", v1)
	v2, ok := q.Get("k2")
	require.True(t, ok)
	require.Equal(t, "v2", v2)
}

func TestParseQuerySkipsEmptySegments(t *testing.T) {
	q, err := ParseQuery("a=1&&b=2&")
	require.NoError(t, err)
	require.Len(t, q, 2)
}

func TestParseQueryDecodesBothSides(t *testing.T) {
	q, err := ParseQuery("k%20ey=val%20ue")
	require.NoError(t, err)
	v, ok := q.Get("k ey")
	require.True(t, ok)
	require.Equal(t, "val ue", v)
}

func TestQueryEncodeRoundTrip(t *testing.T) {
	q := Query{"a": "1"}
	encoded := q.Encode()
	decoded, err := ParseQuery(encoded)
	require.NoError(t, err)
	v, ok := decoded.Get("a")
	require.True(t, ok)
	require.Equal(t, "1", v)
}

func TestQuerySetAndGet(t *testing.T) {
	q := make(Query)
	q.Set("key", "value")
	v, ok := q.Get("key")
	require.True(t, ok)
	require.Equal(t, "value", v)

	_, ok = q.Get("missing")
	require.False(t, ok)
}
