// Package client implements the get() orchestration loop: send, receive,
// bounded 401 re-auth and 301/302 redirect retries, grounded on the shape of
// the teacher's pkg/client.Client.Do — a connect/write/read/parse pipeline —
// generalized from one-shot HTTP/1.1 request bytes to this engine's typed
// Request/Response/Transfer/Url/Header/auth stack.
package client

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/WhileEndless/libhttp-go/pkg/auth"
	liberrors "github.com/WhileEndless/libhttp-go/pkg/errors"
	"github.com/WhileEndless/libhttp-go/pkg/message"
	"github.com/WhileEndless/libhttp-go/pkg/options"
	"github.com/WhileEndless/libhttp-go/pkg/timing"
	"github.com/WhileEndless/libhttp-go/pkg/transfer"
	"github.com/WhileEndless/libhttp-go/pkg/version"
)

// Client drives one synchronous, single-connection request/response cycle
// at a time: a persistent Transfer, the reusable Request/Response pair, and
// the options that govern timeouts, TLS and retry bounds.
type Client struct {
	transfer *transfer.Transfer
	options  options.Options

	req  *message.Request
	resp *message.Response

	metrics timing.Metrics
}

// New returns a Client configured by opts, with spec defaults applied for
// anything not overridden.
func New(opts ...options.Option) *Client {
	return &Client{
		transfer: transfer.New(),
		options:  options.New(opts...),
		req:      message.New(),
		resp:     message.NewResponse(),
	}
}

// Request exposes the client's reusable Request for the caller to set the
// method, URL and headers on before calling Get.
func (c *Client) Request() *message.Request {
	return c.req
}

// Metrics returns the phase timings recorded by the most recent Get call.
func (c *Client) Metrics() timing.Metrics {
	return c.metrics
}

// Close tears down the underlying connection, if any.
func (c *Client) Close() error {
	return c.transfer.Close()
}

// Body returns an io.Reader over the current response's body, framed per the
// Content-Length/chunked/persist strategy receive() selected. The caller
// must read it to io.EOF (or call Close) before the next Get on this
// Client — the connection's keep-alive disposition only resolves to Ready
// or None once the body is exhausted, per the transfer codec's design.
func (c *Client) Body() io.Reader {
	return c.transfer
}

// schemeDefaults maps a URL scheme to its default port, whether it requires
// TLS, and the protocol version to force (applied only when hasForce is true).
func schemeDefaults(scheme string) (port uint16, useTLS bool, forceVersion version.Version, hasForce bool, err error) {
	switch strings.ToLower(scheme) {
	case "http":
		return 80, false, 0, false, nil
	case "https":
		return 443, true, 0, false, nil
	case "rtsp":
		return 554, false, version.RTSP10, true, nil
	default:
		return 0, false, 0, false, liberrors.NewInvalidProtocolError(scheme)
	}
}

// Get runs the bounded-retry loop: apply auth, send, receive; 200/204 is
// success; 401 retries (re-authenticating) up to MaxReauths times; 301/302
// retries (following the redirect, resetting the re-auth counter) up to
// MaxRedirects times; anything else drains the body and fails with
// RequestFailed.
func (c *Client) Get(ctx context.Context) (*message.Response, error) {
	timer := timing.NewTimer()

	attemptAuth := 0
	attemptRedirect := 0

	for {
		if err := auth.Apply(c.req, c.resp); err != nil {
			return nil, err
		}
		if err := c.send(ctx, timer); err != nil {
			return nil, err
		}
		if err := c.receive(timer); err != nil {
			return nil, err
		}

		code := c.resp.Code
		switch {
		case code == 200 || code == 204:
			c.metrics = timer.Metrics()
			return c.resp, nil

		case code == 401 && attemptAuth < c.options.MaxReauths:
			attemptAuth++
			if err := c.transfer.DrainBody(); err != nil {
				return nil, err
			}

		case (code == 301 || code == 302) && attemptRedirect < c.options.MaxRedirects:
			attemptRedirect++
			attemptAuth = 0
			if err := c.redirect(); err != nil {
				return nil, err
			}

		default:
			_ = c.transfer.DrainBody()
			c.metrics = timer.Metrics()
			return nil, liberrors.NewRequestFailedError(code, c.resp.Reason)
		}
	}
}

// send selects the default port/TLS/version for the request URL's scheme,
// connects (or reuses the live socket), writes the request line, headers
// and blank-line terminator, and flushes.
func (c *Client) send(ctx context.Context, timer *timing.Timer) error {
	port, useTLS, forceVersion, hasForce, err := schemeDefaults(c.req.URL.Scheme)
	if err != nil {
		return err
	}
	if hasForce {
		c.req.Version = forceVersion
	}
	if c.req.URL.Port != 0 {
		port = c.req.URL.Port
	}

	c.transfer.SetTimeout(c.options.Timeout)
	tlsCfg := c.options.TLSConfigFor(c.req.URL.Host)
	if err := c.transfer.Connect(ctx, useTLS, c.req.URL.Host, port, tlsCfg, timer); err != nil {
		return err
	}

	if err := c.req.Send(c.transfer, c.options.UserAgent); err != nil {
		return err
	}
	return c.transfer.Flush()
}

// receive flushes any unwritten request bytes, parses the status line and
// headers, and configures the body-framing strategy from them.
func (c *Client) receive(timer *timing.Timer) error {
	if err := c.transfer.Flush(); err != nil {
		return err
	}

	c.resp.Reset()
	timer.StartTTFB()
	err := c.resp.Parse(c.transfer)
	timer.EndTTFB()
	if err != nil {
		return err
	}

	noContent := c.resp.Code < 200 || c.resp.Code == 204 || c.resp.Code == 304 || c.req.Method == "HEAD"
	if noContent {
		c.transfer.ConfigureBody(c.keepAlive(), transfer.NewLengthStrategy(0))
		return nil
	}

	keepAlive := c.keepAlive()

	if cl, ok := c.resp.Headers.Get("Content-Length"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(cl))
		if err != nil {
			n = 0
		}
		c.transfer.ConfigureBody(keepAlive, transfer.NewLengthStrategy(n))
		return nil
	}

	if te, ok := c.resp.Headers.Get("Transfer-Encoding"); ok && hasToken(te, "chunked") {
		c.transfer.ConfigureBody(keepAlive, transfer.NewChunkedStrategy())
		return nil
	}

	c.transfer.ConfigureBody(keepAlive, transfer.NewPersistStrategy())
	return nil
}

// keepAlive decides the pending disposition from the Connection header, or
// (absent) from the response's protocol version.
func (c *Client) keepAlive() bool {
	if conn, ok := c.resp.Headers.Get("Connection"); ok {
		return strings.EqualFold(strings.TrimSpace(conn), "keep-alive")
	}
	return !c.resp.Version.IsHTTP10()
}

// hasToken reports whether tok appears, case-insensitively, as one of the
// comma-separated elements of value.
func hasToken(value, tok string) bool {
	for _, part := range strings.Split(value, ",") {
		if strings.EqualFold(strings.TrimSpace(part), tok) {
			return true
		}
	}
	return false
}

// redirect drains the current response body, then reassigns the request URL
// from the Location header. A location whose first 8 bytes contain "://" is
// treated as absolute, which closes the existing connection before the URL
// is reassigned; otherwise the connection is left open for reuse.
func (c *Client) redirect() error {
	if err := c.transfer.DrainBody(); err != nil {
		return err
	}

	loc, ok := c.resp.Headers.Get("Location")
	if !ok || loc == "" {
		return liberrors.NewInvalidRedirectLocationError("missing Location header")
	}

	if isAbsoluteLocation(loc) {
		if err := c.transfer.Close(); err != nil {
			return err
		}
	}

	return c.req.URL.Set(loc)
}

// isAbsoluteLocation matches Url.Set's own "://" absolute-form test, scanned
// over at most the first 8 bytes per the spec's documented (if imprecise)
// heuristic.
func isAbsoluteLocation(loc string) bool {
	n := len(loc)
	if n > 8 {
		n = 8
	}
	return strings.Contains(loc[:n], "://")
}

// Transfer satisfies message.LineReader, letting Request/Response parse
// directly off the wire without an intermediate bufio wrapper.
var _ message.LineReader = (*transfer.Transfer)(nil)
