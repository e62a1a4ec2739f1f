// Package message implements the request/response start-line and header
// codecs: parsing reads CRLF- or LF-terminated lines until a blank line;
// sending always emits CRLF.
package message

import (
	"fmt"
	"io"
	"strings"

	"github.com/WhileEndless/libhttp-go/pkg/errors"
	"github.com/WhileEndless/libhttp-go/pkg/header"
	"github.com/WhileEndless/libhttp-go/pkg/urlutil"
	"github.com/WhileEndless/libhttp-go/pkg/version"
)

// LineReader is the minimal surface Request/Response parsing needs from the
// transfer codec: one line at a time, terminator stripped, CRLF or bare LF
// both accepted.
type LineReader interface {
	ReadLine() (string, error)
}

// NonceWrap is the modulus the digest nonce counter wraps at.
const NonceWrap = 100_000_000

// Request holds one outbound (or parsed inbound) request line plus headers.
// The nonce counter lives here, not in the auth package, since digest auth
// is per-request but the counter's state spans retries on the same client.
type Request struct {
	Method  string
	URL     *urlutil.Url
	Version version.Version
	Headers *header.Header
	Nonce   uint32
}

// New returns a Request with method GET, version HTTP/1.1, and empty
// headers/URL, ready for Set/Parse.
func New() *Request {
	return &Request{
		Method:  "GET",
		URL:     &urlutil.Url{},
		Version: version.Default,
		Headers: header.New(),
	}
}

// NextNonce increments the nonce counter, wrapping at NonceWrap back to 0,
// and returns the new value.
func (r *Request) NextNonce() uint32 {
	r.Nonce++
	if r.Nonce >= NonceWrap {
		r.Nonce = 0
	}
	return r.Nonce
}

// Parse reads "METHOD SP+ TARGET SP+ VERSION", feeding TARGET through
// Url.Set, then headers until a blank line. Tabs are accepted as
// whitespace alongside spaces. An immediately empty line or EOF before any
// request line is "unexpected eof". Version defaults to HTTP/1.1 if absent.
func (r *Request) Parse(rd LineReader) error {
	line, err := rd.ReadLine()
	if err != nil {
		return errors.NewRequestParseError("request", "unexpected eof", err)
	}
	if line == "" {
		return errors.NewRequestParseError("request", "unexpected eof", nil)
	}

	fields := splitWhitespace(line)
	if len(fields) < 2 {
		return errors.NewRequestParseError("request", "malformed request line", nil)
	}

	r.Method = fields[0]
	if r.URL == nil {
		r.URL = &urlutil.Url{}
	}
	if err := r.URL.Set(fields[1]); err != nil {
		return err
	}

	r.Version = version.Default
	if len(fields) >= 3 {
		v, err := version.Parse(fields[2])
		if err != nil {
			return errors.NewRequestParseError("request", err.Error(), nil)
		}
		r.Version = v
	}

	if r.Headers == nil {
		r.Headers = header.New()
	} else {
		r.Headers.Clear()
	}
	for {
		line, err := rd.ReadLine()
		if err != nil {
			return errors.NewRequestParseError("request", "unexpected eof reading headers", err)
		}
		if line == "" {
			break
		}
		r.Headers.Parse(line)
	}
	return nil
}

// Send writes "METHOD SP PATH[?QUERY] SP VERSION\r\n", a synthesized Host
// header (with ":port" iff the URL has a non-zero port) and User-Agent (if
// the caller hasn't already set one), then the remaining headers, then a
// blank line. An empty path is emitted as "/".
func (r *Request) Send(w io.Writer, userAgent string) error {
	if _, err := fmt.Fprintf(w, "%s %s %s\r\n", r.Method, r.URL.RequestURI(), r.Version); err != nil {
		return errors.NewIOError("writing request line", err)
	}
	if addr := r.URL.Address(); addr != "" {
		if _, err := fmt.Fprintf(w, "Host: %s\r\n", addr); err != nil {
			return errors.NewIOError("writing host header", err)
		}
	}
	if !r.Headers.Has("User-Agent") && userAgent != "" {
		if _, err := fmt.Fprintf(w, "User-Agent: %s\r\n", userAgent); err != nil {
			return errors.NewIOError("writing user-agent header", err)
		}
	}
	if err := r.Headers.Send(w); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\r\n"); err != nil {
		return errors.NewIOError("writing request terminator", err)
	}
	return nil
}

// splitWhitespace splits on runs of space and tab, matching the "tabs
// allowed as whitespace" rule for the request line.
func splitWhitespace(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '\t' })
}
