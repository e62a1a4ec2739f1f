package transfer

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/WhileEndless/libhttp-go/pkg/buffer"
)

// readAllChunked drives a chunked strategy to completion over src, returning
// the concatenated body.
func readAllChunked(t *testing.T, src io.Reader) []byte {
	t.Helper()
	rb := buffer.New()
	c := newChunked()
	var out []byte
	for {
		b, err := c.fillBuf(rb, src)
		require.NoError(t, err)
		if len(b) == 0 {
			return out
		}
		out = append(out, b...)
		c.consume(rb, len(b))
	}
}

func TestChunkedDecodeCRLF(t *testing.T) {
	body := "5\r\nhello\r\n6\r\n world\r\n0\r\n\r\n"
	got := readAllChunked(t, strings.NewReader(body))
	require.Equal(t, "hello world", string(got))
}

func TestChunkedDecodeLFOnly(t *testing.T) {
	body := "5\nhello\n6\n world\n0\n\n"
	got := readAllChunked(t, strings.NewReader(body))
	require.Equal(t, "hello world", string(got))
}

func TestChunkedDecodeManyChunks(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 10; i++ {
		sb.WriteString("d\r\nHello, world!\r\n")
	}
	sb.WriteString("0\r\n\r\n")
	got := readAllChunked(t, strings.NewReader(sb.String()))
	require.Equal(t, strings.Repeat("Hello, world!", 10), string(got))
}

func TestChunkedShortTerminatorStillTerminates(t *testing.T) {
	body := "5\r\nhello\r\n0\r\n"
	got := readAllChunked(t, strings.NewReader(body))
	require.Equal(t, "hello", string(got))
}

func TestChunkedInvalidSizeFormat(t *testing.T) {
	rb := buffer.New()
	c := newChunked()
	_, err := c.fillBuf(rb, strings.NewReader("zz\r\nhello\r\n"))
	require.Error(t, err)
}

func TestChunkedWithExtension(t *testing.T) {
	body := "5;ext=1\r\nhello\r\n0\r\n\r\n"
	got := readAllChunked(t, strings.NewReader(body))
	require.Equal(t, "hello", string(got))
}

func TestChunkedWithTrailer(t *testing.T) {
	body := "5\r\nhello\r\n0\r\nX-Trailer: v\r\n\r\n"
	got := readAllChunked(t, strings.NewReader(body))
	require.Equal(t, "hello", string(got))
}
