// Package libhttp is a synchronous, single-connection HTTP/1.x and RTSP
// client engine: a pluggable transfer-encoding codec, its own URL parser and
// mutator, case-insensitive wire-casing-preserving headers, Basic/Digest
// authentication, and a bounded-retry get() loop, grounded on the shape of
// go-rawhttp's root-level facade.
package libhttp

import (
	"context"
	"io"

	"github.com/WhileEndless/libhttp-go/pkg/client"
	"github.com/WhileEndless/libhttp-go/pkg/header"
	"github.com/WhileEndless/libhttp-go/pkg/message"
	"github.com/WhileEndless/libhttp-go/pkg/options"
	"github.com/WhileEndless/libhttp-go/pkg/timing"
	"github.com/WhileEndless/libhttp-go/pkg/urlutil"
)

// Version is the current version of this library, and the default value
// sent in the User-Agent header.
const Version = "1.0.0"

// Re-exported types for callers that don't want to import the sub-packages
// directly.
type (
	// Client drives one synchronous request/response cycle at a time.
	Client = client.Client

	// Option configures a Client at construction time.
	Option = options.Option

	// Request is the outbound (or parsed inbound) request line and headers.
	Request = message.Request

	// Response is a parsed status line and headers.
	Response = message.Response

	// Url is this engine's own URL parser/mutator.
	Url = urlutil.Url

	// Header is a case-insensitive header dictionary.
	Header = header.Header

	// Metrics captures DNS/connect/TLS/TTFB/total phase durations.
	Metrics = timing.Metrics
)

// Re-exported functional options.
var (
	WithTimeout      = options.WithTimeout
	WithTLSConfig    = options.WithTLSConfig
	WithServerName   = options.WithServerName
	WithUserAgent    = options.WithUserAgent
	WithMaxRedirects = options.WithMaxRedirects
	WithMaxReauths   = options.WithMaxReauths
	WithTLSVersions  = options.WithTLSVersions
)

// NewClient returns a Client configured by opts, with libhttp/<Version> as
// the default User-Agent.
func NewClient(opts ...Option) *Client {
	allOpts := append([]Option{options.WithUserAgent("libhttp/" + Version)}, opts...)
	return client.New(allOpts...)
}

// Get is a convenience wrapper: parse rawURL, issue a GET through a
// throwaway Client, and return the parsed Response plus its fully read
// body. Callers that need header control, keep-alive reuse across calls,
// streaming body access, or RTSP should build a Client directly via
// NewClient and use Client.Request()/Client.Get/Client.Body.
func Get(ctx context.Context, rawURL string, opts ...Option) (*Response, []byte, error) {
	c := NewClient(opts...)
	defer c.Close()
	if err := c.Request().URL.Set(rawURL); err != nil {
		return nil, nil, err
	}
	resp, err := c.Get(ctx)
	if err != nil {
		return nil, nil, err
	}
	body, err := io.ReadAll(c.Body())
	if err != nil {
		return resp, nil, err
	}
	return resp, body, nil
}
