package transfer

import (
	"errors"
	"io"

	"github.com/WhileEndless/libhttp-go/pkg/buffer"
	liberrors "github.com/WhileEndless/libhttp-go/pkg/errors"
)

// chunked states, matching the numbering the framing layer is specified
// against.
const (
	stateExpectCRLF = 0 // after a chunk's data, before the next size line
	stateSize       = 1 // accumulating chunk-size hex digits
	stateExt        = 2 // skipping chunk-extension text until CRLF/LF
	stateTrailer    = 3 // skipping trailer header lines after a 0-size chunk
	stateLF         = 4 // size line saw '\r', waiting for '\n'
	stateReady      = 100
)

// chunked decodes HTTP/1.1 chunked transfer-encoding byte by byte. Both
// CRLF and bare LF are accepted as line separators throughout.
type chunked struct {
	state    int
	remaining int
	sizeBuf  []byte
	done     bool
}

func newChunked() *chunked {
	return &chunked{state: stateSize}
}

func (c *chunked) fillBuf(rb *buffer.Buffer, src io.Reader) ([]byte, error) {
	for {
		if c.done {
			return nil, nil
		}
		switch c.state {
		case stateReady:
			if c.remaining == 0 {
				c.state = stateExpectCRLF
				continue
			}
			if rb.IsEmpty() {
				n, err := rb.Refill(src)
				if n == 0 {
					if err == nil {
						err = io.EOF
					}
					return nil, err
				}
			}
			b := rb.Bytes()
			if len(b) > c.remaining {
				b = b[:c.remaining]
			}
			return b, nil

		case stateExpectCRLF:
			b, err := readByte(rb, src)
			if err != nil {
				return nil, err
			}
			switch b {
			case '\r':
				continue
			case '\n':
				c.state = stateSize
				c.sizeBuf = c.sizeBuf[:0]
			default:
				return nil, chunkFormatError()
			}

		case stateSize:
			b, err := readByte(rb, src)
			if err != nil {
				return nil, err
			}
			switch {
			case isHexDigit(b):
				c.sizeBuf = append(c.sizeBuf, b)
			case b == ';':
				c.state = stateExt
			case b == '\r':
				c.state = stateLF
			case b == '\n':
				if err := c.finishSizeLine(); err != nil {
					return nil, err
				}
			default:
				return nil, chunkFormatError()
			}

		case stateExt:
			b, err := readByte(rb, src)
			if err != nil {
				return nil, err
			}
			if b == '\n' {
				if err := c.finishSizeLine(); err != nil {
					return nil, err
				}
			}

		case stateLF:
			b, err := readByte(rb, src)
			if err != nil {
				return nil, err
			}
			if b != '\n' {
				return nil, chunkFormatError()
			}
			if err := c.finishSizeLine(); err != nil {
				return nil, err
			}

		case stateTrailer:
			line, err := readRawLine(rb, src)
			if err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			if line == "" {
				c.done = true
				return nil, nil
			}
			if err != nil {
				// EOF mid-trailer on a server that never sent the final
				// blank line: terminate leniently rather than error.
				c.done = true
				return nil, nil
			}
		}
	}
}

func (c *chunked) consume(rb *buffer.Buffer, n int) {
	rb.Consume(n)
	c.remaining -= n
	if c.remaining < 0 {
		c.remaining = 0
	}
	if c.remaining == 0 && c.state == stateReady {
		c.state = stateExpectCRLF
	}
}

// finishSizeLine parses the accumulated hex digits as the chunk size and
// transitions to stateTrailer (size 0) or stateReady (size > 0).
func (c *chunked) finishSizeLine() error {
	if len(c.sizeBuf) == 0 {
		return chunkFormatError()
	}
	size := 0
	for _, b := range c.sizeBuf {
		v, ok := hexDigitValue(b)
		if !ok {
			return chunkFormatError()
		}
		size = size*16 + int(v)
	}
	c.sizeBuf = c.sizeBuf[:0]
	if size == 0 {
		c.state = stateTrailer
		return nil
	}
	c.remaining = size
	c.state = stateReady
	return nil
}

func isHexDigit(b byte) bool {
	_, ok := hexDigitValue(b)
	return ok
}

func hexDigitValue(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	default:
		return 0, false
	}
}

func chunkFormatError() error {
	return liberrors.NewTransferDecodeError("chunked", "invalid chunk-size format")
}
