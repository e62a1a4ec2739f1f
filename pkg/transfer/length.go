package transfer

import (
	"errors"
	"io"

	"github.com/WhileEndless/libhttp-go/pkg/buffer"
)

// length reports an empty slice once remaining reaches 0, without verifying
// that exactly that many bytes ever arrived: a connection that closes early
// surfaces as a short read to the caller, and any bytes left on the socket
// past the declared length stay there for the next request on a kept-alive
// connection.
type length struct {
	remaining int
}

func newLength(n int) *length {
	if n < 0 {
		n = 0
	}
	return &length{remaining: n}
}

func (l *length) fillBuf(rb *buffer.Buffer, src io.Reader) ([]byte, error) {
	if l.remaining == 0 {
		return nil, nil
	}
	if rb.IsEmpty() {
		_, err := rb.Refill(src)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	}
	b := rb.Bytes()
	if len(b) > l.remaining {
		b = b[:l.remaining]
	}
	return b, nil
}

func (l *length) consume(rb *buffer.Buffer, n int) {
	rb.Consume(n)
	l.remaining -= n
	if l.remaining < 0 {
		l.remaining = 0
	}
}
