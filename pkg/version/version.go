// Package version defines the wire protocol version tokens this engine
// understands: two HTTP/1.x generations and two RTSP generations, since both
// families share the same start-line/header framing this codec implements.
package version

import "fmt"

// Version is one of the four wire protocol tokens this engine emits and
// accepts.
type Version int

const (
	// HTTP10 is "HTTP/1.0".
	HTTP10 Version = iota
	// HTTP11 is "HTTP/1.1", the default.
	HTTP11
	// RTSP10 is "RTSP/1.0".
	RTSP10
	// RTSP20 is "RTSP/2.0".
	RTSP20
)

// Default is the version assumed when a request or response omits one.
const Default = HTTP11

// String renders the wire token for v.
func (v Version) String() string {
	switch v {
	case HTTP10:
		return "HTTP/1.0"
	case HTTP11:
		return "HTTP/1.1"
	case RTSP10:
		return "RTSP/1.0"
	case RTSP20:
		return "RTSP/2.0"
	default:
		return "HTTP/1.1"
	}
}

// Parse maps a wire token to a Version. An unrecognized token is an error:
// callers must not silently default it away.
func Parse(token string) (Version, error) {
	switch token {
	case "HTTP/1.0":
		return HTTP10, nil
	case "HTTP/1.1":
		return HTTP11, nil
	case "RTSP/1.0":
		return RTSP10, nil
	case "RTSP/2.0":
		return RTSP20, nil
	default:
		return 0, fmt.Errorf("unrecognized protocol version %q", token)
	}
}

// IsHTTP10 reports whether v is the one version for which an absent
// Connection header defaults to "close" rather than keep-alive.
func (v Version) IsHTTP10() bool {
	return v == HTTP10
}
