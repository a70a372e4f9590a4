package api

import "net/http"

// TokenSource supplies the Authorization header value for outgoing
// requests. Implemented by auth.Manager.
type TokenSource interface {
	AuthHeader() (string, bool)
}

// transport decorates every outgoing request with the JSON content
// type and, when a session exists, the bearer token. The token is read
// from the source at send time, never cached on the client, so a
// logout between two requests is always respected.
type transport struct {
	tokens TokenSource
	base   http.RoundTripper
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Content-Type", "application/json")
	if t.tokens != nil {
		if header, ok := t.tokens.AuthHeader(); ok {
			r.Header.Set("Authorization", header)
		}
	}
	return t.base.RoundTrip(r)
}
