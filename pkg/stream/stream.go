// Package stream implements the byte endpoint a Transfer reads and writes
// through: a disconnected "Null" sentinel, a plain TCP socket, or a
// TLS-wrapped TCP socket. Stream is a closed sum type over these three
// states rather than a nullable *net.Conn, so Read/Write/Flush remain total
// functions regardless of connection state — grounded on the connect/dial/
// TLS-upgrade core of the teacher's transport package, stripped of its
// connection-pool and proxy-tunnel concerns, which are out of scope here.
package stream

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"golang.org/x/net/idna"

	"github.com/WhileEndless/libhttp-go/pkg/errors"
	"github.com/WhileEndless/libhttp-go/pkg/timing"
)

// DefaultTimeout is the default connect/read/write deadline.
const DefaultTimeout = 3 * time.Second

// kind identifies which variant of the sum type a Stream currently holds.
type kind int

const (
	kindNull kind = iota
	kindTCP
	kindTLS
)

// Stream owns the current byte endpoint plus the timeout applied to every
// connect/read/write operation.
type Stream struct {
	kind    kind
	conn    net.Conn
	timeout time.Duration
}

// New returns a Stream in the disconnected (Null) state with the default
// timeout.
func New() *Stream {
	return &Stream{kind: kindNull, timeout: DefaultTimeout}
}

// SetTimeout overrides the connect/read/write deadline used from this point
// on.
func (s *Stream) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultTimeout
	}
	s.timeout = d
}

// IsConnected reports whether the stream currently holds a live socket.
func (s *Stream) IsConnected() bool {
	return s.kind != kindNull
}

// RemoteAddr returns the peer address of the live connection, or "" when
// disconnected. Tests use this to assert keep-alive reuses (or doesn't
// reuse) the same peer port.
func (s *Stream) RemoteAddr() string {
	if s.conn == nil {
		return ""
	}
	return s.conn.RemoteAddr().String()
}

// Connect resolves host:port, dials the first address that accepts a TCP
// connection within the stream's timeout, and — if tls is true — completes
// a TLS handshake with SNI and hostname verification enabled against host.
// On success the stream's inner endpoint becomes the new socket; on failure
// the stream keeps the endpoint it held before the call. timer may be nil; when
// given, each phase's start/end is recorded into it (§2a phase metrics) and
// never affects control flow.
func (s *Stream) Connect(ctx context.Context, useTLS bool, host string, port uint16, tlsConfig *tls.Config, timer *timing.Timer) error {
	normalizedHost := normalizeHost(host)

	if timer != nil {
		timer.StartDNS()
	}
	addrs, err := resolveAddrs(ctx, normalizedHost)
	if timer != nil {
		timer.EndDNS()
	}
	if err != nil {
		return errors.NewDNSError(host, err)
	}
	if len(addrs) == 0 {
		return errors.NewDNSError(host, fmt.Errorf("address resolve failed"))
	}

	dialer := net.Dialer{Timeout: s.timeout}
	portStr := strconv.Itoa(int(port))

	if timer != nil {
		timer.StartTCP()
	}
	var conn net.Conn
	var lastErr error
	for _, ip := range addrs {
		c, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(ip, portStr))
		if err == nil {
			conn = c
			break
		}
		lastErr = err
	}
	if timer != nil {
		timer.EndTCP()
	}
	if conn == nil {
		if lastErr == nil {
			lastErr = fmt.Errorf("address resolve failed")
		}
		return errors.NewConnectionError(host, int(port), lastErr)
	}

	if useTLS {
		cfg := tlsConfig
		if cfg == nil {
			cfg = &tls.Config{}
		} else {
			cfg = cfg.Clone()
		}
		if cfg.ServerName == "" {
			cfg.ServerName = normalizedHost
		}
		cfg.InsecureSkipVerify = false

		if timer != nil {
			timer.StartTLS()
		}
		tlsConn := tls.Client(conn, cfg)
		hctx, cancel := context.WithTimeout(ctx, s.timeout)
		err := tlsConn.HandshakeContext(hctx)
		cancel()
		if timer != nil {
			timer.EndTLS()
		}
		if err != nil {
			conn.Close()
			return errors.NewTLSError(host, int(port), err)
		}
		s.conn = tlsConn
		s.kind = kindTLS
	} else {
		s.conn = conn
		s.kind = kindTCP
	}
	return nil
}

// Close drops the inner endpoint back to Null so that subsequent reads
// return EOF, writes accept silently, and flush is a no-op.
func (s *Stream) Close() error {
	if s.kind == kindNull {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	s.kind = kindNull
	if err != nil {
		return errors.NewIOError("closing stream", err)
	}
	return nil
}

// Read implements io.Reader. The Null state returns io.EOF.
func (s *Stream) Read(p []byte) (int, error) {
	if s.kind == kindNull {
		return 0, io.EOF
	}
	s.conn.SetReadDeadline(time.Now().Add(s.timeout))
	n, err := s.conn.Read(p)
	if err != nil {
		return n, errors.NewIOError("reading from stream", err)
	}
	return n, nil
}

// Write implements io.Writer. The Null state accepts (and discards) every
// write.
func (s *Stream) Write(p []byte) (int, error) {
	if s.kind == kindNull {
		return len(p), nil
	}
	s.conn.SetWriteDeadline(time.Now().Add(s.timeout))
	n, err := s.conn.Write(p)
	if err != nil {
		return n, errors.NewIOError("writing to stream", err)
	}
	return n, nil
}

// Flush is a no-op: neither state buffers writes internally (the buffering
// lives one layer up, in the transfer codec's write Buffer).
func (s *Stream) Flush() error {
	return nil
}

// resolveAddrs resolves host to a sequence of IP literals. A host that's
// already a literal IP is returned as-is without a DNS round trip.
func resolveAddrs(ctx context.Context, host string) ([]string, error) {
	if ip := net.ParseIP(host); ip != nil {
		return []string{host}, nil
	}
	ipAddrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(ipAddrs))
	for _, a := range ipAddrs {
		out = append(out, a.IP.String())
	}
	return out, nil
}

// normalizeHost punycode-encodes a non-ASCII hostname via x/net/idna so DNS
// resolution and SNI both see an ASCII label; an ASCII host, or one idna
// can't process, passes through unchanged.
func normalizeHost(host string) string {
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return host
	}
	return ascii
}
