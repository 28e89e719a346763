// Package guard holds the two composable rendering gates: the authentication
// gate, which bounces unauthenticated sessions to the login screen, and the
// permission gate, which blocks a screen subtree until the cached privileges
// satisfy its declared requirement. Nest the authentication gate outermost.
package guard

import (
	"github.com/facturapp/billing-system/internal/core/domain"
)

// Decision is the authentication gate's verdict for the current session.
type Decision int

const (
	// DecisionRender lets the guarded subtree render.
	DecisionRender Decision = iota
	// DecisionRedirectLogin means nothing renders and navigation moves to
	// the login screen.
	DecisionRedirectLogin
)

// sessionSource is the slice of the session store the gates need.
type sessionSource interface {
	Current() domain.Session
}

// AuthGate redirects unauthenticated sessions. It never throws: the only
// outputs are a decision and the redirect side effect.
type AuthGate struct {
	session  sessionSource
	redirect func()
}

// NewAuthGate builds a gate around the session store. redirect is the
// navigation hook invoked whenever an unauthenticated session is observed;
// nil is allowed for callers that only poll Check.
func NewAuthGate(session sessionSource, redirect func()) *AuthGate {
	return &AuthGate{session: session, redirect: redirect}
}

// Check reads the session fresh and decides. Unauthenticated sessions
// trigger the redirect hook before returning.
func (g *AuthGate) Check() Decision {
	if g.session.Current().Authenticated() {
		return DecisionRender
	}
	if g.redirect != nil {
		g.redirect()
	}
	return DecisionRedirectLogin
}

// OnSessionChange is a session.Subscriber: register it with the store so the
// gate reacts to logout without polling.
func (g *AuthGate) OnSessionChange(sess domain.Session) {
	if !sess.Authenticated() && g.redirect != nil {
		g.redirect()
	}
}
