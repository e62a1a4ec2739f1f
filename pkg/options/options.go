// Package options implements the functional-options configuration surface
// for a Client: timeouts, TLS, SNI override, User-Agent, and the retry
// bounds, trimmed from the teacher's pkg/client.Options down to what this
// engine's single-connection, no-pooling, no-proxy scope needs.
package options

import (
	"crypto/tls"
	"time"
)

// DefaultTimeout is the connect/read/write deadline applied when no Option
// overrides it.
const DefaultTimeout = 3 * time.Second

// DefaultMaxRedirects and DefaultMaxReauths are the per-get() retry bounds.
const (
	DefaultMaxRedirects = 3
	DefaultMaxReauths   = 2
)

// DefaultUserAgent is the value sent when the caller hasn't set one and
// hasn't overridden it via WithUserAgent.
const DefaultUserAgent = "libhttp/1.0"

// Options holds a Client's immutable configuration, built once via New and
// a list of Option values.
type Options struct {
	Timeout       time.Duration
	TLSConfig     *tls.Config
	ServerName    string // SNI override; empty means derive from the URL host
	UserAgent     string
	MaxRedirects  int
	MaxReauths    int
	MinTLSVersion uint16
	MaxTLSVersion uint16
}

// Option mutates an Options being built by New.
type Option func(*Options)

// New returns the spec defaults with every Option applied in order.
func New(opts ...Option) Options {
	o := Options{
		Timeout:      DefaultTimeout,
		UserAgent:    DefaultUserAgent,
		MaxRedirects: DefaultMaxRedirects,
		MaxReauths:   DefaultMaxReauths,
	}
	for _, apply := range opts {
		apply(&o)
	}
	return o
}

// WithTimeout overrides the connect/read/write deadline.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.Timeout = d }
}

// WithTLSConfig installs a base TLS configuration; ServerName, MinVersion
// and MaxVersion on it are still subject to WithServerName/WithTLSVersions
// if those are also given.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(o *Options) { o.TLSConfig = cfg }
}

// WithServerName overrides the TLS SNI hostname sent, independent of the
// URL's host.
func WithServerName(name string) Option {
	return func(o *Options) { o.ServerName = name }
}

// WithUserAgent overrides the default User-Agent string.
func WithUserAgent(ua string) Option {
	return func(o *Options) { o.UserAgent = ua }
}

// WithMaxRedirects overrides the 301/302 follow cap.
func WithMaxRedirects(n int) Option {
	return func(o *Options) { o.MaxRedirects = n }
}

// WithMaxReauths overrides the 401 retry cap.
func WithMaxReauths(n int) Option {
	return func(o *Options) { o.MaxReauths = n }
}

// WithTLSVersions bounds the negotiated TLS protocol version range.
func WithTLSVersions(min, max uint16) Option {
	return func(o *Options) {
		o.MinTLSVersion = min
		o.MaxTLSVersion = max
	}
}

// TLSConfigFor builds the *tls.Config to hand to Stream.Connect, folding in
// ServerName/MinTLSVersion/MaxTLSVersion over the caller's base TLSConfig (if
// any) without mutating it.
func (o Options) TLSConfigFor(host string) *tls.Config {
	var cfg *tls.Config
	if o.TLSConfig != nil {
		cfg = o.TLSConfig.Clone()
	} else {
		cfg = &tls.Config{}
	}
	switch {
	case o.ServerName != "":
		cfg.ServerName = o.ServerName
	case cfg.ServerName == "":
		cfg.ServerName = host
	}
	if o.MinTLSVersion != 0 {
		cfg.MinVersion = o.MinTLSVersion
	}
	if o.MaxTLSVersion != 0 {
		cfg.MaxVersion = o.MaxTLSVersion
	}
	return cfg
}
