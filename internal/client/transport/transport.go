// Package transport wires the console's outgoing HTTP traffic: a RoundTripper
// that injects the bearer credential, and the REST client built on it.
package transport

import (
	"net/http"

	"github.com/facturapp/billing-system/internal/core/domain"
)

// sessionSource is the slice of the session store the transport needs.
type sessionSource interface {
	Current() domain.Session
}

// AuthTransport attaches "Authorization: <tokenType> <token>" to every
// request while the session is authenticated. The session is read fresh per
// request — login and logout between requests must take effect immediately,
// so the header value is never cached.
type AuthTransport struct {
	Session sessionSource
	// Base handles the actual dispatch; http.DefaultTransport when nil.
	Base http.RoundTripper
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if sess := t.Session.Current(); sess.Authenticated() {
		scheme := sess.TokenType
		if scheme == "" {
			scheme = domain.DefaultTokenType
		}
		// RoundTrippers must not mutate the caller's request.
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", scheme+" "+sess.Token)
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}
