package transfer

import (
	"io"

	"github.com/WhileEndless/libhttp-go/pkg/buffer"
)

// Strategy is the shape all three framing strategies share: fillBuf returns
// the next readable slice of the buffer (refilling from src as needed),
// reporting end-of-body as a nil/empty slice with a nil error; consume
// advances past n bytes the caller has taken from that slice. No strategy
// holds a reference to the buffer between calls — it borrows it each time,
// per the design note that strategy and buffer share no mutable state
// outside of a single fillBuf/consume pair.
type Strategy interface {
	fillBuf(rb *buffer.Buffer, src io.Reader) ([]byte, error)
	consume(rb *buffer.Buffer, n int)
}

// strategy is a package-internal alias used by the three implementations'
// receiver methods.
type strategy = Strategy

// readByte pulls one byte from rb, refilling from src if the buffer is
// currently empty.
func readByte(rb *buffer.Buffer, src io.Reader) (byte, error) {
	if rb.IsEmpty() {
		n, err := rb.Refill(src)
		if n == 0 {
			if err == nil {
				err = io.EOF
			}
			return 0, err
		}
	}
	b := rb.Bytes()[0]
	rb.Consume(1)
	return b, nil
}

// readRawLine reads bytes up to and including the next '\n', returning the
// content with a trailing '\r' (if any) stripped. If src reaches EOF before
// any byte is read, it returns ("", io.EOF); if EOF arrives mid-line, it
// returns the partial line along with io.EOF.
func readRawLine(rb *buffer.Buffer, src io.Reader) (string, error) {
	var line []byte
	for {
		b, err := readByte(rb, src)
		if err != nil {
			return string(line), err
		}
		if b == '\n' {
			if n := len(line); n > 0 && line[n-1] == '\r' {
				line = line[:n-1]
			}
			return string(line), nil
		}
		line = append(line, b)
	}
}
