package options

import (
	"crypto/tls"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewAppliesDefaults(t *testing.T) {
	o := New()
	require.Equal(t, DefaultTimeout, o.Timeout)
	require.Equal(t, DefaultUserAgent, o.UserAgent)
	require.Equal(t, DefaultMaxRedirects, o.MaxRedirects)
	require.Equal(t, DefaultMaxReauths, o.MaxReauths)
}

func TestOptionsOverrideDefaults(t *testing.T) {
	o := New(
		WithTimeout(5*time.Second),
		WithUserAgent("custom/1.0"),
		WithMaxRedirects(10),
		WithMaxReauths(1),
	)
	require.Equal(t, 5*time.Second, o.Timeout)
	require.Equal(t, "custom/1.0", o.UserAgent)
	require.Equal(t, 10, o.MaxRedirects)
	require.Equal(t, 1, o.MaxReauths)
}

func TestTLSConfigForDerivesServerNameFromHost(t *testing.T) {
	o := New()
	cfg := o.TLSConfigFor("example.com")
	require.Equal(t, "example.com", cfg.ServerName)
}

func TestTLSConfigForServerNameOverride(t *testing.T) {
	o := New(WithServerName("override.example.com"))
	cfg := o.TLSConfigFor("example.com")
	require.Equal(t, "override.example.com", cfg.ServerName)
}

func TestTLSConfigForClonesBaseConfigWithoutMutatingIt(t *testing.T) {
	base := &tls.Config{ServerName: "base.example.com"}
	o := New(WithTLSConfig(base))
	cfg := o.TLSConfigFor("example.com")

	require.Equal(t, "base.example.com", cfg.ServerName)
	require.NotSame(t, base, cfg)
}

func TestTLSConfigForVersionBounds(t *testing.T) {
	o := New(WithTLSVersions(tls.VersionTLS12, tls.VersionTLS13))
	cfg := o.TLSConfigFor("example.com")
	require.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
	require.Equal(t, uint16(tls.VersionTLS13), cfg.MaxVersion)
}
