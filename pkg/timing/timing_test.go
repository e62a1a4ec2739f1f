package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMetricsZeroForUnstartedPhases(t *testing.T) {
	timer := NewTimer()
	m := timer.Metrics()

	require.Zero(t, m.DNSLookup)
	require.Zero(t, m.TCPConnect)
	require.Zero(t, m.TLSHandshake)
	require.Zero(t, m.TTFB)
	require.NotZero(t, m.TotalTime)
}

func TestMetricsRecordsStartedPhases(t *testing.T) {
	timer := NewTimer()

	timer.StartDNS()
	time.Sleep(time.Millisecond)
	timer.EndDNS()

	timer.StartTCP()
	time.Sleep(time.Millisecond)
	timer.EndTCP()

	timer.StartTLS()
	time.Sleep(time.Millisecond)
	timer.EndTLS()

	timer.StartTTFB()
	time.Sleep(time.Millisecond)
	timer.EndTTFB()

	m := timer.Metrics()
	require.Greater(t, m.DNSLookup, time.Duration(0))
	require.Greater(t, m.TCPConnect, time.Duration(0))
	require.Greater(t, m.TLSHandshake, time.Duration(0))
	require.Greater(t, m.TTFB, time.Duration(0))
}

func TestConnectionTimeSumsDNSTCPTLS(t *testing.T) {
	m := Metrics{
		DNSLookup:    10 * time.Millisecond,
		TCPConnect:   20 * time.Millisecond,
		TLSHandshake: 30 * time.Millisecond,
		TTFB:         40 * time.Millisecond,
	}
	require.Equal(t, 60*time.Millisecond, m.ConnectionTime())
}

func TestMetricsStringContainsAllPhases(t *testing.T) {
	m := Metrics{DNSLookup: time.Millisecond, TCPConnect: time.Millisecond}
	s := m.String()
	require.Contains(t, s, "dns=")
	require.Contains(t, s, "tcp=")
	require.Contains(t, s, "tls=")
	require.Contains(t, s, "ttfb=")
	require.Contains(t, s, "total=")
}
