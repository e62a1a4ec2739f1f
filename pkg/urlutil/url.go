// Package urlutil implements the library's own URL parser and mutator:
// absolute, absolute-path, query-only and relative forms, with path
// sanitization and percent-encoding/decoding, independent of net/url so the
// wire-exact quirks this engine specifies (raw query/fragment storage,
// right-to-left ".." collapsing, an 8-byte absolute-redirect heuristic
// upstream in the client) are under this package's control rather than the
// standard library's.
package urlutil

import (
	"strconv"
	"strings"

	"github.com/WhileEndless/libhttp-go/pkg/errors"
)

// MaxLength is the longest input Set accepts.
const MaxLength = 2048

// Url holds the decomposed parts of a parsed URL. Path is stored decoded;
// Query and Fragment are stored raw (undecoded) — callers that need
// structured query access go through ParseQuery.
type Url struct {
	Scheme   string
	Prefix   string // user[:pass], the "userinfo" component
	Host     string
	Port     uint16 // 0 means unset / use the scheme default
	Path     string
	Query    string
	Fragment string
}

// New parses input as an absolute URL.
func New(input string) (*Url, error) {
	u := &Url{}
	if err := u.Set(input); err != nil {
		return nil, err
	}
	return u, nil
}

// Set classifies input and mutates u accordingly:
//   - contains "://": absolute, every field is cleared first.
//   - starts with "/": absolute-path, only path/query/fragment are replaced.
//   - starts with "?": query-only, only query/fragment are replaced.
//   - otherwise: relative, resolved against the current path's directory.
func (u *Url) Set(input string) error {
	if input == "" {
		return errors.NewURLParseError("url", "empty url")
	}
	if len(input) > MaxLength {
		return errors.NewURLParseError("url", "url exceeds maximum length")
	}

	switch {
	case strings.Contains(input, "://"):
		*u = Url{}
		return u.parseAbsolute(input)
	case strings.HasPrefix(input, "/"):
		path, query, fragment, err := parseRemainder(input)
		if err != nil {
			return err
		}
		u.Path, u.Query, u.Fragment = path, query, fragment
		return nil
	case strings.HasPrefix(input, "?"):
		query, fragment := parseQueryOnly(input)
		u.Query, u.Fragment = query, fragment
		return nil
	default:
		if u.Host == "" {
			return errors.NewURLParseError("url", "relative url with no base")
		}
		var dir string
		if idx := strings.LastIndexByte(u.Path, '/'); idx >= 0 {
			dir = u.Path[:idx+1]
		} else {
			dir = "/"
		}
		path, query, fragment, err := parseRemainder(dir + input)
		if err != nil {
			return err
		}
		u.Path, u.Query, u.Fragment = path, query, fragment
		return nil
	}
}

// parseAbsolute parses "scheme://[user[:pass]@]host[:port][/path][?query][#fragment]".
func (u *Url) parseAbsolute(input string) error {
	schemeEnd := strings.Index(input, "://")
	u.Scheme = input[:schemeEnd]
	rest := input[schemeEnd+3:]

	end := len(rest)
	for i := 0; i < len(rest); i++ {
		if rest[i] == '/' || rest[i] == '?' || rest[i] == '#' {
			end = i
			break
		}
	}
	authority := rest[:end]
	remainder := rest[end:]

	hostport := authority
	if at := strings.IndexByte(authority, '@'); at >= 0 {
		u.Prefix = authority[:at]
		hostport = authority[at+1:]
	}

	if colon := strings.IndexByte(hostport, ':'); colon >= 0 {
		u.Host = hostport[:colon]
		portStr := hostport[colon+1:]
		port, err := strconv.ParseUint(portStr, 10, 16)
		if err != nil || port == 0 {
			return errors.NewURLParseError("url", "invalid port")
		}
		u.Port = uint16(port)
	} else {
		u.Host = hostport
	}

	if remainder == "" {
		return nil
	}
	path, query, fragment, err := parseRemainder(remainder)
	if err != nil {
		return err
	}
	u.Path, u.Query, u.Fragment = path, query, fragment
	return nil
}

// parseRemainder splits a "[/path][?query][#fragment]" string, percent-
// decoding and sanitizing the path. Query and fragment are stored raw. A
// later '#' or '?' inside the fragment is literal, since only the first
// occurrence of each is recognized.
func parseRemainder(remainder string) (path, query, fragment string, err error) {
	rest := remainder
	if hashIdx := strings.IndexByte(rest, '#'); hashIdx >= 0 {
		fragment = rest[hashIdx+1:]
		rest = rest[:hashIdx]
	}
	rawPath := rest
	if qIdx := strings.IndexByte(rest, '?'); qIdx >= 0 {
		query = rest[qIdx+1:]
		rawPath = rest[:qIdx]
	}
	if rawPath == "" {
		return "", query, fragment, nil
	}
	decoded, derr := Decode(rawPath)
	if derr != nil {
		return "", "", "", derr
	}
	return sanitizePath(decoded), query, fragment, nil
}

// parseQueryOnly handles the "?query[#fragment]" form, leaving path
// untouched by the caller.
func parseQueryOnly(input string) (query, fragment string) {
	rest := input[1:]
	if hashIdx := strings.IndexByte(rest, '#'); hashIdx >= 0 {
		return rest[:hashIdx], rest[hashIdx+1:]
	}
	return rest, ""
}

// sanitizePath collapses "." and ".." segments with a right-to-left scan:
// "" and "." are dropped outright; each ".." consumes the next non-".."
// segment to its left. The original trailing slash is preserved.
func sanitizePath(p string) string {
	if p == "" {
		return ""
	}
	trailingSlash := strings.HasSuffix(p, "/")
	segments := strings.Split(p, "/")

	out := make([]string, 0, len(segments))
	skip := 0
	for i := len(segments) - 1; i >= 0; i-- {
		seg := segments[i]
		switch {
		case seg == "" || seg == ".":
			continue
		case seg == "..":
			skip++
		case skip > 0:
			skip--
		default:
			out = append(out, seg)
		}
	}
	for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}

	if len(out) == 0 {
		return "/"
	}
	result := "/" + strings.Join(out, "/")
	if trailingSlash {
		result += "/"
	}
	return result
}
