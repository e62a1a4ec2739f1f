// Package transfer implements the body-framing layer: a pluggable strategy
// (Persist, Length, Chunked) dispatched over a fixed read buffer and the
// stream, a buffered writer with flush discipline, and the connection
// disposition state machine that decides whether the socket survives the
// current response.
package transfer

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"time"

	"github.com/WhileEndless/libhttp-go/pkg/buffer"
	liberrors "github.com/WhileEndless/libhttp-go/pkg/errors"
	"github.com/WhileEndless/libhttp-go/pkg/stream"
	"github.com/WhileEndless/libhttp-go/pkg/timing"
)

// Disposition labels whether, and how, the connection survives the current
// response.
type Disposition int

const (
	// DispNone means no idle connection to reuse: either the socket has been
	// torn down, or Connect has just opened a fresh one and no response body
	// has been configured on it yet.
	DispNone Disposition = iota
	// DispReady means a live, idle connection ready for the next request.
	DispReady
	// DispClose is the pending target while a body with "Connection: close"
	// is still being drained; becomes DispNone once the body is exhausted.
	DispClose
	// DispKeepAlive is the pending target while a body with keep-alive
	// semantics is still being drained; becomes DispReady once exhausted.
	DispKeepAlive
)

// Transfer owns the stream, the two framing buffers, the active framing
// strategy, and the connection disposition. One instance lives per Client.
type Transfer struct {
	stream      *stream.Stream
	readBuf     *buffer.Buffer
	writeBuf    *buffer.Buffer
	strat       strategy
	disposition Disposition
}

// New returns a Transfer with a disconnected stream and Persist framing.
func New() *Transfer {
	return &Transfer{
		stream:      stream.New(),
		readBuf:     buffer.New(),
		writeBuf:    buffer.New(),
		strat:       newPersist(),
		disposition: DispNone,
	}
}

// SetTimeout sets the connect/read/write deadline applied to the stream.
func (t *Transfer) SetTimeout(d time.Duration) {
	t.stream.SetTimeout(d)
}

// Disposition returns the current resting disposition.
func (t *Transfer) Disposition() Disposition {
	return t.disposition
}

// RemoteAddr returns the peer address of the live connection, or "" if
// disconnected.
func (t *Transfer) RemoteAddr() string {
	return t.stream.RemoteAddr()
}

// Connect establishes the socket for the next request. If the disposition is
// already DispReady, the existing socket is reused and both buffers plus the
// framing strategy are reset; otherwise (DispNone) a fresh connection is
// opened.
func (t *Transfer) Connect(ctx context.Context, useTLS bool, host string, port uint16, tlsConfig *tls.Config, timer *timing.Timer) error {
	if t.disposition == DispReady {
		t.readBuf.Clear()
		t.writeBuf.Clear()
		t.strat = newPersist()
		return nil
	}
	if err := t.stream.Connect(ctx, useTLS, host, port, tlsConfig, timer); err != nil {
		t.disposition = DispNone
		return err
	}
	t.readBuf.Clear()
	t.writeBuf.Clear()
	t.strat = newPersist()
	t.disposition = DispNone
	return nil
}

// Close tears the socket down unconditionally and resets the disposition to
// DispNone.
func (t *Transfer) Close() error {
	err := t.stream.Close()
	t.disposition = DispNone
	return err
}

// ReadLine reads one CRLF- or LF-terminated line directly off the stream,
// bypassing the body-framing strategy — used for the status/request line
// and headers, before a body strategy has been selected for this response.
func (t *Transfer) ReadLine() (string, error) {
	line, err := readRawLine(t.readBuf, t.stream)
	if err != nil {
		return line, liberrors.NewIOError("reading line", err)
	}
	return line, nil
}

// ConfigureBody installs the framing strategy receive() selected from the
// response headers, along with the pending disposition that applies once
// the body is fully consumed.
func (t *Transfer) ConfigureBody(keepAlive bool, st Strategy) {
	t.strat = st
	if keepAlive {
		t.disposition = DispKeepAlive
	} else {
		t.disposition = DispClose
	}
}

// NewPersistStrategy, NewLengthStrategy and NewChunkedStrategy construct the
// three framing strategies for ConfigureBody.
func NewPersistStrategy() Strategy { return newPersist() }

func NewLengthStrategy(n int) Strategy { return newLength(n) }

func NewChunkedStrategy() Strategy { return newChunked() }

// Read implements io.Reader over the currently configured body-framing
// strategy. A logical end-of-body (the strategy reporting an empty slice)
// is surfaced as io.EOF and triggers the disposition transition: DispClose
// becomes DispNone (and the socket is torn down); anything else becomes
// DispReady.
func (t *Transfer) Read(p []byte) (int, error) {
	b, err := t.strat.fillBuf(t.readBuf, t.stream)
	if err != nil {
		return 0, err
	}
	if len(b) == 0 {
		t.onBodyExhausted()
		return 0, io.EOF
	}
	n := copy(p, b)
	t.strat.consume(t.readBuf, n)
	return n, nil
}

func (t *Transfer) onBodyExhausted() {
	if t.disposition == DispClose {
		t.stream.Close()
		t.disposition = DispNone
		return
	}
	t.disposition = DispReady
}

// DrainBody reads and discards the rest of the current response body so a
// keep-alive connection is safe to reuse for the next request.
func (t *Transfer) DrainBody() error {
	var scratch [buffer.Size]byte
	for {
		_, err := t.Read(scratch[:])
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// Write buffers p, flushing first if it would overflow the write buffer's
// remaining capacity; a write at or above the buffer's total capacity
// bypasses buffering and goes straight to the stream.
func (t *Transfer) Write(p []byte) (int, error) {
	if len(p) >= buffer.Size {
		if err := t.Flush(); err != nil {
			return 0, err
		}
		return t.stream.Write(p)
	}
	if t.writeBuf.Space() < len(p) {
		if err := t.Flush(); err != nil {
			return 0, err
		}
	}
	return t.writeBuf.Append(p), nil
}

// Flush writes out any buffered bytes, looping until the buffer is empty. A
// zero-byte write from the stream is treated as a failure (WriteZero),
// matching the write path's flush discipline.
func (t *Transfer) Flush() error {
	for t.writeBuf.Len() > 0 {
		n, err := t.stream.Write(t.writeBuf.Bytes())
		if err != nil {
			return err
		}
		if n == 0 {
			return liberrors.NewIOError("flush", errors.New("write: zero bytes written"))
		}
		t.writeBuf.Consume(n)
	}
	t.writeBuf.Clear()
	return nil
}
