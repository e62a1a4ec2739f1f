package transfer

import (
	"errors"
	"io"

	"github.com/WhileEndless/libhttp-go/pkg/buffer"
)

// persist forwards the read buffer unmodified; it never signals end-of-body
// on its own, only when the underlying stream reaches EOF. consume is a
// no-op beyond advancing the buffer cursor.
type persist struct{}

func newPersist() *persist { return &persist{} }

func (p *persist) fillBuf(rb *buffer.Buffer, src io.Reader) ([]byte, error) {
	if rb.IsEmpty() {
		_, err := rb.Refill(src)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	}
	return rb.Bytes(), nil
}

func (p *persist) consume(rb *buffer.Buffer, n int) {
	rb.Consume(n)
}
