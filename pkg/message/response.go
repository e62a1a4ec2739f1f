package message

import (
	"fmt"
	"io"
	"strconv"

	"github.com/WhileEndless/libhttp-go/pkg/errors"
	"github.com/WhileEndless/libhttp-go/pkg/header"
	"github.com/WhileEndless/libhttp-go/pkg/version"
)

// Response holds one parsed (or about-to-be-sent) status line plus headers.
type Response struct {
	Version version.Version
	Code    int
	Reason  string
	Headers *header.Header
}

// NewResponse returns an empty Response with version HTTP/1.1, ready for
// Parse.
func NewResponse() *Response {
	return &Response{Version: version.Default, Headers: header.New()}
}

// Reset clears r for reuse on the next receive().
func (r *Response) Reset() {
	r.Version = version.Default
	r.Code = 0
	r.Reason = ""
	if r.Headers == nil {
		r.Headers = header.New()
	} else {
		r.Headers.Clear()
	}
}

// Parse reads "VERSION SP CODE SP [REASON]\r\n" then headers until a blank
// line. CODE outside [100,600) is rejected; a missing REASON is allowed.
func (r *Response) Parse(rd LineReader) error {
	line, err := rd.ReadLine()
	if err != nil {
		return errors.NewResponseParseError("response", "unexpected eof", err)
	}
	if line == "" {
		return errors.NewResponseParseError("response", "unexpected eof", nil)
	}

	fields := splitWhitespace(line)
	if len(fields) < 2 {
		return errors.NewResponseParseError("response", "malformed status line", nil)
	}

	v, err := version.Parse(fields[0])
	if err != nil {
		return errors.NewResponseParseError("response", err.Error(), nil)
	}
	r.Version = v

	code, err := strconv.Atoi(fields[1])
	if err != nil || code < 100 || code >= 600 {
		return errors.NewResponseParseError("response", fmt.Sprintf("invalid status code %q", fields[1]), nil)
	}
	r.Code = code

	r.Reason = ""
	if len(fields) >= 3 {
		r.Reason = joinRest(fields[2:])
	}

	if r.Headers == nil {
		r.Headers = header.New()
	} else {
		r.Headers.Clear()
	}
	for {
		line, err := rd.ReadLine()
		if err != nil {
			return errors.NewResponseParseError("response", "unexpected eof reading headers", err)
		}
		if line == "" {
			break
		}
		r.Headers.Parse(line)
	}
	return nil
}

// Send writes "VERSION SP CODE SP REASON\r\n" then headers then a blank
// line. It exists for symmetry and for tests that stand up a loopback
// server; the client itself never sends a response.
func (r *Response) Send(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s %d %s\r\n", r.Version, r.Code, r.Reason); err != nil {
		return errors.NewIOError("writing status line", err)
	}
	if err := r.Headers.Send(w); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\r\n"); err != nil {
		return errors.NewIOError("writing response terminator", err)
	}
	return nil
}

func joinRest(fields []string) string {
	out := fields[0]
	for _, f := range fields[1:] {
		out += " " + f
	}
	return out
}
