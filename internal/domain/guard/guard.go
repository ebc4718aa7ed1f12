// Package guard decides what happens when someone navigates to a route, given
// the session state and the route's allowed roles.
package guard

import (
	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/session"
	"hrconsole/internal/platform/metrics"
)

type Decision int

const (
	Render Decision = iota
	// Loading means the session is not resolved yet. Never redirect in this state.
	Loading
	RedirectLogin
	RedirectDefault
)

func (d Decision) String() string {
	switch d {
	case Render:
		return "render"
	case Loading:
		return "loading"
	case RedirectLogin:
		return "redirect_login"
	case RedirectDefault:
		return "redirect_default"
	}
	return "unknown"
}

const (
	LoginPath   = "/login"
	DefaultPath = "/"
	PendingPath = "/pending-approval"
)

// Decide never sends an authenticated identity to login. An empty allow-list
// admits any authenticated identity.
func Decide(snap session.Snapshot, allowed ...auth.Role) Decision {
	d := decide(snap, allowed)
	metrics.GuardDecisionsTotal.WithLabelValues(d.String()).Inc()
	return d
}

func decide(snap session.Snapshot, allowed []auth.Role) Decision {
	switch snap.State {
	case session.Unresolved:
		return Loading
	case session.Anonymous:
		return RedirectLogin
	}
	if len(allowed) == 0 || snap.Role().In(allowed...) {
		return Render
	}
	return RedirectDefault
}

// Target is where a redirect decision sends the user.
func (d Decision) Target() string {
	switch d {
	case RedirectLogin:
		return LoginPath
	case RedirectDefault:
		return DefaultPath
	}
	return ""
}
