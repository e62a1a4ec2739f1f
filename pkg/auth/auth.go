// Package auth implements the Basic and Digest (RFC 2617, qop=auth, MD5)
// authentication handshakes driven off a WWW-Authenticate challenge.
package auth

import (
	"crypto/md5"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/WhileEndless/libhttp-go/pkg/message"
	"github.com/WhileEndless/libhttp-go/pkg/tools"
)

// Apply inspects resp for a WWW-Authenticate challenge and sets req's
// Authorization header accordingly. If the URL carries no userinfo, it does
// nothing. A missing challenge header means preemptive Basic auth; an
// unrecognized scheme is silently ignored.
func Apply(req *message.Request, resp *message.Response) error {
	if req.URL.Prefix == "" {
		return nil
	}

	challenge, ok := resp.Headers.Get("WWW-Authenticate")
	if !ok {
		applyBasic(req)
		return nil
	}

	scheme, rest := splitChallenge(challenge)
	switch strings.ToLower(scheme) {
	case "basic":
		applyBasic(req)
	case "digest":
		applyDigest(req, parseParams(rest))
	default:
		// unknown scheme: silently ignored, per spec.
	}
	return nil
}

func applyBasic(req *message.Request) {
	encoded := base64.StdEncoding.EncodeToString([]byte(req.URL.Prefix))
	req.Headers.SetRaw("Authorization", "Basic "+encoded)
}

func applyDigest(req *message.Request, params map[string]string) {
	realm := params["realm"]
	nonce := params["nonce"]
	qop := params["qop"]
	opaque, hasOpaque := params["opaque"]

	username, password := splitPrefix(req.URL.Prefix)
	ha1 := md5Hex(username + ":" + realm + ":" + password)
	ha2 := md5Hex(req.Method + ":" + req.URL.RequestURI())

	var response, nc, cnonce string
	if qop == "auth" {
		n := req.NextNonce()
		nc = fmt.Sprintf("%08d", n)
		cnonceBytes := make([]byte, 4)
		_, _ = rand.Read(cnonceBytes)
		cnonce = tools.Bin2Hex(cnonceBytes)
		response = md5Hex(ha1 + ":" + nonce + ":" + nc + ":" + cnonce + ":" + qop + ":" + ha2)
	} else {
		response = md5Hex(ha1 + ":" + nonce + ":" + ha2)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `Digest username="%s", realm="%s", nonce="%s", uri="%s"`,
		username, realm, nonce, req.URL.RequestURI())
	if hasOpaque {
		fmt.Fprintf(&sb, `, opaque="%s"`, opaque)
	}
	if qop == "auth" {
		fmt.Fprintf(&sb, `, qop=auth, nc=%s, cnonce="%s"`, nc, cnonce)
	}
	fmt.Fprintf(&sb, `, response="%s"`, response)

	req.Headers.SetRaw("Authorization", sb.String())
}

// splitChallenge splits "Scheme param1=val1, param2=val2" on the first
// whitespace run into scheme and the raw parameter list.
func splitChallenge(challenge string) (scheme, rest string) {
	idx := strings.IndexAny(challenge, " \t")
	if idx < 0 {
		return challenge, ""
	}
	return challenge[:idx], strings.TrimSpace(challenge[idx+1:])
}

// parseParams parses a comma-separated "key=value" list where values may be
// double-quoted, lowercasing keys for lookup.
func parseParams(s string) map[string]string {
	out := make(map[string]string)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		idx := strings.IndexByte(part, '=')
		if idx < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(part[:idx]))
		val := strings.TrimSpace(part[idx+1:])
		val = strings.Trim(val, `"`)
		out[key] = val
	}
	return out
}

// splitPrefix splits a URL prefix "user:pass" into its components; a
// missing password yields "".
func splitPrefix(prefix string) (user, pass string) {
	idx := strings.IndexByte(prefix, ':')
	if idx < 0 {
		return prefix, ""
	}
	return prefix[:idx], prefix[idx+1:]
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return tools.Bin2Hex(sum[:])
}
