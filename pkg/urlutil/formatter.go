package urlutil

import "strconv"

// Address renders "host" or "host:port" for the request line's Host header,
// including the port only when it was explicitly set (non-zero).
func (u *Url) Address() string {
	if u.Port == 0 {
		return u.Host
	}
	return u.Host + ":" + strconv.Itoa(int(u.Port))
}

// RequestURI renders "path[?query]" for the request line's target, emitting
// "/" when the path is empty.
func (u *Url) RequestURI() string {
	path := u.Path
	if path == "" {
		path = "/"
	}
	if u.Query != "" {
		return path + "?" + u.Query
	}
	return path
}

// String renders the full absolute form,
// "scheme://[prefix@]host[:port][path][?query][#fragment]".
func (u *Url) String() string {
	s := u.Scheme + "://"
	if u.Prefix != "" {
		s += u.Prefix + "@"
	}
	s += u.Address()
	s += u.RequestURI()
	if u.Fragment != "" {
		s += "#" + u.Fragment
	}
	return s
}
