package message

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/WhileEndless/libhttp-go/pkg/version"
)

// stringLineReader adapts a bufio.Reader to the LineReader interface for
// tests, stripping CRLF/LF the same way the real Transfer does.
type stringLineReader struct {
	r *bufio.Reader
}

func newStringLineReader(s string) *stringLineReader {
	return &stringLineReader{r: bufio.NewReader(strings.NewReader(s))}
}

func (s *stringLineReader) ReadLine() (string, error) {
	line, err := s.r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	return line, nil
}

func TestRequestParseBasic(t *testing.T) {
	r := New()
	err := r.Parse(newStringLineReader("GET /path?query HTTP/1.1\r\nHost: example.com\r\nX-Custom: value\r\n\r\n"))
	require.NoError(t, err)
	require.Equal(t, "GET", r.Method)
	require.Equal(t, "/path", r.URL.Path)
	require.Equal(t, "query", r.URL.Query)
	v, ok := r.Headers.Get("X-Custom")
	require.True(t, ok)
	require.Equal(t, "value", v)
}

func TestRequestParseDefaultsVersion(t *testing.T) {
	r := New()
	err := r.Parse(newStringLineReader("GET / HTTP/1.0\r\n\r\n"))
	require.NoError(t, err)
	require.Equal(t, "GET", r.Method)

	r = New()
	require.NoError(t, r.Parse(newStringLineReader("GET /\r\n\r\n")))
	require.Equal(t, version.HTTP11, r.Version)
}

func TestRequestParseTabsAsWhitespace(t *testing.T) {
	r := New()
	err := r.Parse(newStringLineReader("GET\t/\tHTTP/1.1\r\n\r\n"))
	require.NoError(t, err)
	require.Equal(t, "GET", r.Method)
	require.Equal(t, "/", r.URL.Path)
}

func TestRequestParseEmptyLineIsUnexpectedEOF(t *testing.T) {
	r := New()
	err := r.Parse(newStringLineReader("\r\n"))
	require.Error(t, err)
}

func TestRequestParseMalformedLine(t *testing.T) {
	r := New()
	err := r.Parse(newStringLineReader("GET\r\n\r\n"))
	require.Error(t, err)
}

func TestRequestSendFormatsLineHostAndTerminator(t *testing.T) {
	r := New()
	require.NoError(t, r.URL.Set("http://example.com:8080/path?q=1"))
	r.Method = "GET"

	var sb strings.Builder
	require.NoError(t, r.Send(&sb, "libhttp/1.0"))

	out := sb.String()
	require.True(t, strings.HasPrefix(out, "GET /path?q=1 HTTP/1.1\r\n"))
	require.Contains(t, out, "Host: example.com:8080\r\n")
	require.Contains(t, out, "User-Agent: libhttp/1.0\r\n")
	require.True(t, strings.HasSuffix(out, "\r\n\r\n"))
}

func TestRequestSendEmptyPathIsSlash(t *testing.T) {
	r := New()
	require.NoError(t, r.URL.Set("http://example.com/"))
	r.URL.Path = ""

	var sb strings.Builder
	require.NoError(t, r.Send(&sb, ""))
	require.True(t, strings.HasPrefix(sb.String(), "GET / HTTP/1.1\r\n"))
}

func TestRequestNonceWrap(t *testing.T) {
	r := New()
	r.Nonce = NonceWrap - 1
	n := r.NextNonce()
	require.Equal(t, uint32(0), n)
}
