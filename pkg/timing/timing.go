// Package timing provides best-effort phase instrumentation for a get()
// call: DNS lookup, TCP connect, TLS handshake, time-to-first-byte, and
// total elapsed time. It never influences control flow.
package timing

import (
	"fmt"
	"time"
)

// Metrics captures one get() call's phase durations.
type Metrics struct {
	DNSLookup    time.Duration `json:"dns_lookup"`
	TCPConnect   time.Duration `json:"tcp_connect"`
	TLSHandshake time.Duration `json:"tls_handshake"`
	TTFB         time.Duration `json:"ttfb"`
	TotalTime    time.Duration `json:"total_time"`
}

// Timer accumulates the phase boundaries for one Metrics snapshot.
type Timer struct {
	start     time.Time
	dnsStart  time.Time
	dnsEnd    time.Time
	tcpStart  time.Time
	tcpEnd    time.Time
	tlsStart  time.Time
	tlsEnd    time.Time
	ttfbStart time.Time
	ttfbEnd   time.Time
}

// NewTimer starts a new timing session.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) StartDNS()  { t.dnsStart = time.Now() }
func (t *Timer) EndDNS()    { t.dnsEnd = time.Now() }
func (t *Timer) StartTCP()  { t.tcpStart = time.Now() }
func (t *Timer) EndTCP()    { t.tcpEnd = time.Now() }
func (t *Timer) StartTLS()  { t.tlsStart = time.Now() }
func (t *Timer) EndTLS()    { t.tlsEnd = time.Now() }
func (t *Timer) StartTTFB() { t.ttfbStart = time.Now() }
func (t *Timer) EndTTFB()   { t.ttfbEnd = time.Now() }

// Metrics returns the durations recorded so far; a phase that never started
// reports zero.
func (t *Timer) Metrics() Metrics {
	m := Metrics{TotalTime: time.Since(t.start)}
	if !t.dnsStart.IsZero() && !t.dnsEnd.IsZero() {
		m.DNSLookup = t.dnsEnd.Sub(t.dnsStart)
	}
	if !t.tcpStart.IsZero() && !t.tcpEnd.IsZero() {
		m.TCPConnect = t.tcpEnd.Sub(t.tcpStart)
	}
	if !t.tlsStart.IsZero() && !t.tlsEnd.IsZero() {
		m.TLSHandshake = t.tlsEnd.Sub(t.tlsStart)
	}
	if !t.ttfbStart.IsZero() && !t.ttfbEnd.IsZero() {
		m.TTFB = t.ttfbEnd.Sub(t.ttfbStart)
	}
	return m
}

// ConnectionTime returns DNS + TCP + TLS.
func (m Metrics) ConnectionTime() time.Duration {
	return m.DNSLookup + m.TCPConnect + m.TLSHandshake
}

func (m Metrics) String() string {
	return fmt.Sprintf("dns=%v tcp=%v tls=%v ttfb=%v total=%v",
		m.DNSLookup, m.TCPConnect, m.TLSHandshake, m.TTFB, m.TotalTime)
}
